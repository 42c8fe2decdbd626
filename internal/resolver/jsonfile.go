package resolver

import (
	"context"
	"fmt"
	"os"

	"github.com/tidwall/gjson"

	"github.com/dshills/wikiedit/internal/linkkey"
)

// JSONFile answers lookups from a JSON object mapping page titles to
// booleans. The file is read on every request, so edits to it are seen by
// later lookups. Titles absent from the object are missing.
type JSONFile struct {
	async
	path string
	root string
	norm *linkkey.Normalizer
}

// JSONOption configures a JSONFile.
type JSONOption func(*JSONFile)

// WithRoot selects the statuses object by a gjson path, e.g. "wiki.pages".
func WithRoot(path string) JSONOption {
	return func(j *JSONFile) {
		j.root = path
	}
}

// NewJSONFile creates a resolver reading path. A nil normalizer selects the
// default one.
func NewJSONFile(sink Sink, path string, n *linkkey.Normalizer, opts ...JSONOption) *JSONFile {
	if n == nil {
		n = linkkey.NewNormalizer(nil)
	}
	j := &JSONFile{async: async{sink: sink}, path: path, norm: n}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Path returns the statuses file path.
func (j *JSONFile) Path() string {
	return j.path
}

// Request looks up keys in the background.
func (j *JSONFile) Request(ctx context.Context, keys []string) error {
	j.deliver(ctx, keys, j.lookup)
	return nil
}

// Statuses reads the file and returns its statuses by normalized title.
func (j *JSONFile) Statuses() (map[string]bool, error) {
	data, err := os.ReadFile(j.path)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%s: %w", j.path, ErrInvalidJSON)
	}
	obj := gjson.ParseBytes(data)
	if j.root != "" {
		obj = obj.Get(j.root)
	}
	if !obj.IsObject() {
		return nil, fmt.Errorf("%s: %q is not an object: %w", j.path, j.root, ErrInvalidJSON)
	}
	statuses := make(map[string]bool)
	obj.ForEach(func(key, value gjson.Result) bool {
		if k := j.norm.Normalize(key.String()); k != "" {
			statuses[k] = value.Bool()
		}
		return true
	})
	return statuses, nil
}

func (j *JSONFile) lookup(_ context.Context, keys []string) (map[string]bool, error) {
	statuses, err := j.Statuses()
	if err != nil {
		return nil, err
	}
	answers := make(map[string]bool, len(keys))
	for _, key := range keys {
		answers[key] = statuses[j.norm.Normalize(key)]
	}
	return answers, nil
}
