package resolver

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/dshills/wikiedit/internal/linkkey"
)

// Static knows a fixed set of page titles. Titles are normalized, so any
// spelling of a title resolves.
type Static struct {
	async
	norm *linkkey.Normalizer

	mu     sync.RWMutex
	titles map[string]struct{}
}

// NewStatic creates a resolver knowing titles. A nil normalizer selects
// the default one.
func NewStatic(sink Sink, n *linkkey.Normalizer, titles ...string) *Static {
	if n == nil {
		n = linkkey.NewNormalizer(nil)
	}
	s := &Static{
		async:  async{sink: sink},
		norm:   n,
		titles: make(map[string]struct{}, len(titles)),
	}
	s.Add(titles...)
	return s
}

// Add adds titles.
func (s *Static) Add(titles ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, title := range titles {
		if key := s.norm.Normalize(title); key != "" {
			s.titles[key] = struct{}{}
		}
	}
}

// Len returns the number of distinct titles.
func (s *Static) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.titles)
}

// Request looks up keys in the background.
func (s *Static) Request(ctx context.Context, keys []string) error {
	s.deliver(ctx, keys, s.lookup)
	return nil
}

func (s *Static) lookup(_ context.Context, keys []string) (map[string]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	answers := make(map[string]bool, len(keys))
	for _, key := range keys {
		_, ok := s.titles[s.norm.Normalize(key)]
		answers[key] = ok
	}
	return answers, nil
}

// LoadTitles reads one title per line. Blank lines and lines starting
// with '#' are skipped.
func LoadTitles(r io.Reader) ([]string, error) {
	var titles []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		titles = append(titles, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading titles: %w", err)
	}
	return titles, nil
}

// LoadTitlesFile reads titles from a file, see LoadTitles.
func LoadTitlesFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	titles, err := LoadTitles(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return titles, nil
}
