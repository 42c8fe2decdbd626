package loader

import (
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MemFS is an in-memory file system for testing.
type MemFS struct {
	files map[string][]byte
}

func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func (m *MemFS) WriteFile(path string, data []byte) {
	m.files[path] = data
}

func TestForPath(t *testing.T) {
	fsys := NewMemFS()

	l, err := ForPath(fsys, "wiki.toml")
	require.NoError(t, err)
	assert.IsType(t, &TOMLLoader{}, l)

	for _, p := range []string{"wiki.yaml", "WIKI.YML"} {
		l, err = ForPath(fsys, p)
		require.NoError(t, err)
		assert.IsType(t, &YAMLLoader{}, l)
	}

	_, err = ForPath(fsys, "wiki.ini")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestTOMLLoader(t *testing.T) {
	fsys := NewMemFS()
	fsys.WriteFile("wiki.toml", []byte(`
[markup]
link_frames = true
map_point_prefix = "<<geo:"

[linkkey.folds]
"ё" = "е"
`))

	cfg, err := NewTOMLLoaderWithFS(fsys, "wiki.toml").Load()
	require.NoError(t, err)

	markup := cfg["markup"].(map[string]any)
	assert.Equal(t, true, markup["link_frames"])
	assert.Equal(t, "<<geo:", markup["map_point_prefix"])
	folds := cfg["linkkey"].(map[string]any)["folds"].(map[string]any)
	assert.Equal(t, "е", folds["ё"])
}

func TestTOMLLoaderMissingFile(t *testing.T) {
	cfg, err := NewTOMLLoaderWithFS(NewMemFS(), "absent.toml").Load()
	assert.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestTOMLLoaderParseError(t *testing.T) {
	fsys := NewMemFS()
	fsys.WriteFile("bad.toml", []byte("[markup]\nlink_frames = = true\n"))

	_, err := NewTOMLLoaderWithFS(fsys, "bad.toml").Load()
	require.Error(t, err)

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "bad.toml", perr.Path)
	assert.Equal(t, 2, perr.Line)
	assert.Contains(t, perr.Error(), "line 2")
}

func TestYAMLLoader(t *testing.T) {
	fsys := NewMemFS()
	fsys.WriteFile("wiki.yaml", []byte(`
quotes:
  only_with_selection: true
links:
  titles: titles.txt
`))

	cfg, err := NewYAMLLoaderWithFS(fsys, "wiki.yaml").Load()
	require.NoError(t, err)
	assert.Equal(t, true, cfg["quotes"].(map[string]any)["only_with_selection"])
	assert.Equal(t, "titles.txt", cfg["links"].(map[string]any)["titles"])
}

func TestYAMLLoaderEmptyAndInvalid(t *testing.T) {
	cfg, err := NewYAMLLoader("").LoadFromReader(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, cfg)

	_, err = NewYAMLLoader("").LoadFromReader(strings.NewReader("a: [1, 2"))
	var perr *ParseError
	assert.True(t, errors.As(err, &perr))
	assert.Equal(t, "<reader>", perr.Path)
}

func TestEnvLoader(t *testing.T) {
	t.Setenv("WIKIEDIT_LOG_LEVEL", "debug")
	t.Setenv("WIKIEDIT_LINK_FRAMES", "yes")
	t.Setenv("WIKIEDIT_LINKS_BATCH_SIZE", "64")
	t.Setenv("WIKIEDIT_THEME_STYLES", `{"footnote":{"foreground":"#000000"}}`)
	t.Setenv("WIKIEDIT_BOGUS", "x")

	cfg, err := NewEnvLoader(DefaultEnvPrefix).Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg["logging"].(map[string]any)["level"])
	assert.Equal(t, true, cfg["markup"].(map[string]any)["link_frames"])
	assert.Equal(t, int64(64), cfg["links"].(map[string]any)["batch_size"])

	styles := cfg["theme"].(map[string]any)["styles"].(map[string]any)
	assert.Equal(t, "#000000", styles["footnote"].(map[string]any)["foreground"])

	_, ok := cfg["bogus"]
	assert.False(t, ok, "a name without a key part is skipped")
}

func TestEnvLoaderCustomMapping(t *testing.T) {
	t.Setenv("WE_TITLES", "/tmp/titles")
	l := NewEnvLoaderWithMapping("WE_", nil)
	l.AddMapping("WE_TITLES", "links.titles")

	cfg, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"links": map[string]any{"titles": "/tmp/titles"}}, cfg)
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"", ""},
		{"true", true},
		{"OFF", false},
		{"42", int64(42)},
		{"1.5", 1.5},
		{"{{map:", "{{map:"},
		{"[1,2]", []any{float64(1), float64(2)}},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseValue(tt.in), "parseValue(%q)", tt.in)
	}
}

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{
		"markup": map[string]any{"link_frames": false, "map_point_prefix": "{{map:"},
		"logging": map[string]any{"level": "info"},
	}
	src := map[string]any{
		"markup":  map[string]any{"link_frames": true},
		"logging": "off",
	}

	got := DeepMerge(dst, src)
	assert.Equal(t, map[string]any{"link_frames": true, "map_point_prefix": "{{map:"}, got["markup"])
	assert.Equal(t, "off", got["logging"])

	assert.Equal(t, map[string]any{"a": 1}, DeepMerge(nil, map[string]any{"a": 1}))
	assert.Equal(t, map[string]any{"a": 1}, DeepMerge(map[string]any{"a": 1}, nil))
}
