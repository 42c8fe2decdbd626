package buffer

import (
	"io"
	"strings"
	"sync"
)

// Buffer is a thread-safe document held on behalf of a host. Line endings
// are normalized to LF on the way in, so every offset handed to the core
// refers to "\n"-separated text.
type Buffer struct {
	mu         sync.RWMutex
	text       string
	revisionID RevisionID
}

// NewBuffer creates a new empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{revisionID: NewRevisionID()}
}

// NewBufferFromString creates a buffer with initial content.
func NewBufferFromString(s string) *Buffer {
	return &Buffer{
		text:       NormalizeLineEndings(s),
		revisionID: NewRevisionID(),
	}
}

// NewBufferFromReader creates a buffer from an io.Reader.
func NewBufferFromReader(r io.Reader) (*Buffer, error) {
	// Read all content first so CRLF pairs split across reads are handled.
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewBufferFromString(string(data)), nil
}

// NormalizeLineEndings converts CRLF and lone CR line endings to LF.
func NormalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// Text returns the full buffer content.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text
}

// Len returns the length of the buffer in bytes.
func (b *Buffer) Len() ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return ByteOffset(len(b.text))
}

// LineCount returns the number of lines in the buffer.
func (b *Buffer) LineCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return LineCount(b.text)
}

// RevisionID returns the current revision ID.
func (b *Buffer) RevisionID() RevisionID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revisionID
}

// SetText replaces the whole content. The revision changes only if the
// content did.
func (b *Buffer) SetText(s string) bool {
	s = NormalizeLineEndings(s)
	b.mu.Lock()
	defer b.mu.Unlock()
	if s == b.text {
		return false
	}
	b.text = s
	b.revisionID = NewRevisionID()
	return true
}

// ApplyEdits applies edits expressed in coordinates of the current text.
// Edits must be sorted by start offset and must not overlap; on error the
// buffer is left unchanged.
func (b *Buffer) ApplyEdits(edits []Edit) error {
	if len(edits) == 0 {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	text, err := Apply(b.text, edits)
	if err != nil {
		return err
	}
	b.text = text
	b.revisionID = NewRevisionID()
	return nil
}
