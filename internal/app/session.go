package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/wikiedit/internal/command"
	"github.com/dshills/wikiedit/internal/config"
	"github.com/dshills/wikiedit/internal/decoration"
	"github.com/dshills/wikiedit/internal/engine/buffer"
	"github.com/dshills/wikiedit/internal/engine/cursor"
	"github.com/dshills/wikiedit/internal/engine/history"
	"github.com/dshills/wikiedit/internal/linkkey"
	"github.com/dshills/wikiedit/internal/linkstate"
	"github.com/dshills/wikiedit/internal/markup"
	"github.com/dshills/wikiedit/internal/resolver"
	"github.com/dshills/wikiedit/internal/watch"
)

// Keys handled by the session itself rather than the keymap.
const (
	KeyUndo = "Undo"
	KeyRedo = "Redo"
)

// lookupSource is what the resolvers of package resolver share beyond
// linkstate.Resolver.
type lookupSource interface {
	linkstate.Resolver
	Wait()
	Err() error
}

// Option configures a Session.
type Option func(*Session)

// WithRenderer sets the renderer decoration spans are emitted to.
func WithRenderer(r decoration.Renderer) Option {
	return func(s *Session) {
		s.renderer = r
	}
}

// WithResolver replaces the configured link source.
func WithResolver(r linkstate.Resolver) Option {
	return func(s *Session) {
		s.resolverOverride = r
	}
}

// Session is one document being edited.
type Session struct {
	mu sync.Mutex

	id   string
	cfg  *config.Config
	path string

	buf       *buffer.Buffer
	selection cursor.SelectionSet
	history   *history.History

	normalizer *linkkey.Normalizer
	cache      *linkstate.Cache
	scanner    *markup.Scanner
	decorator  *decoration.Decorator
	keymap     *command.Keymap
	theme      *markup.Theme

	renderer         decoration.Renderer
	resolverOverride linkstate.Resolver
	source           lookupSource
	lua              *resolver.Lua
	watcher          *watch.Watcher
	closed           bool
}

// New creates a session with an empty document. A nil cfg uses
// config.Default().
func New(cfg *config.Config, opts ...Option) (*Session, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, NewOperationError("configure", "", err)
	}
	theme, err := cfg.BuildTheme()
	if err != nil {
		return nil, NewOperationError("configure", "theme", err)
	}

	s := &Session{
		id:        uuid.New().String(),
		cfg:       cfg,
		buf:       buffer.NewBuffer(),
		selection: cursor.Caret(0),
		history:   history.NewHistory(cfg.History.MaxEntries),
		theme:     theme,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.normalizer = linkkey.NewNormalizer(cfg.Folds())
	s.cache = linkstate.NewCache(s.normalizer)
	s.scanner = markup.NewScanner(cfg.ScannerOptions())
	var decOpts []decoration.Option
	if s.renderer != nil {
		decOpts = append(decOpts, decoration.WithRenderer(s.renderer))
	}
	s.decorator = decoration.New(s.scanner, s.cache, decOpts...)
	s.keymap = command.DefaultKeymap(cfg.QuoteOptions(), cfg.TagCommands())

	if s.resolverOverride != nil {
		s.cache.SetResolver(s.resolverOverride)
	} else if err := s.configureSource(); err != nil {
		return nil, err
	}

	tracer().Debugf("session %s created", s.id)
	return s, nil
}

// Open creates a session for the document at path.
func Open(ctx context.Context, cfg *config.Config, path string, opts ...Option) (*Session, error) {
	s, err := New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		s.Close()
		return nil, NewOperationError("open", path, err)
	}
	f, err := os.Open(abs)
	if err != nil {
		s.Close()
		return nil, NewOperationError("open", path, err)
	}
	defer f.Close()

	buf, err := buffer.NewBufferFromReader(f)
	if err != nil {
		s.Close()
		return nil, NewOperationError("read", path, err)
	}
	s.path = abs
	if _, err := s.SetText(ctx, buf.Text()); err != nil {
		tracer().Infof("open %s: %v", path, err)
	}
	return s, nil
}

// configureSource wires the link source named by the configuration.
// Lua wins over a JSON status file, which wins over a titles file.
func (s *Session) configureSource() error {
	links := s.cfg.Links
	switch {
	case links.Lua != "":
		l, err := resolver.NewLuaFile(s.decorator, links.Lua,
			resolver.WithTimeout(time.Duration(links.LuaTimeoutMS)*time.Millisecond),
			resolver.WithNormalizer(s.normalizer))
		if err != nil {
			return NewOperationError("load", links.Lua, err)
		}
		s.lua = l
		s.source = l
	case links.Statuses != "":
		var opts []resolver.JSONOption
		if links.StatusesRoot != "" {
			opts = append(opts, resolver.WithRoot(links.StatusesRoot))
		}
		s.source = resolver.NewJSONFile(s.decorator, links.Statuses, s.normalizer, opts...)
	case links.Titles != "":
		titles, err := resolver.LoadTitlesFile(links.Titles)
		if err != nil {
			return NewOperationError("load", links.Titles, err)
		}
		s.source = resolver.NewStatic(s.decorator, s.normalizer, titles...)
	default:
		tracer().Infof("no link source configured, links stay pending")
		return nil
	}
	s.cache.SetResolver(s.source)
	return nil
}

// ID returns the unique session id.
func (s *Session) ID() string {
	return s.id
}

// Path returns the absolute document path, or "" for an unsaved document.
func (s *Session) Path() string {
	return s.path
}

// Config returns the session configuration.
func (s *Session) Config() *config.Config {
	return s.cfg
}

// Theme returns the theme spans are painted with.
func (s *Session) Theme() *markup.Theme {
	return s.theme
}

// Keymap returns the structural editing keymap.
func (s *Session) Keymap() *command.Keymap {
	return s.keymap
}

// Cache returns the link existence cache.
func (s *Session) Cache() *linkstate.Cache {
	return s.cache
}

// Text returns the document text.
func (s *Session) Text() string {
	return s.buf.Text()
}

// Selection returns the current selection.
func (s *Session) Selection() cursor.SelectionSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection
}

// Select replaces the selection. It fails with
// cursor.ErrSelectionOutOfRange if a bound lies outside the text.
func (s *Session) Select(sel cursor.SelectionSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := sel.Validate(s.buf.Len()); err != nil {
		return NewOperationError("select", sel.String(), err)
	}
	s.selection = sel
	return nil
}

// Spans returns the current decoration spans.
func (s *Session) Spans() []markup.Span {
	return s.decorator.Spans()
}

// SetText replaces the document text and redecorates it. A selection
// the new text cannot hold collapses to a caret at its end. The spans are
// valid even when the link lookup fails.
func (s *Session) SetText(ctx context.Context, text string) ([]markup.Span, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	if s.buf.SetText(text) {
		s.history.Clear()
	}
	if s.selection.Validate(s.buf.Len()) != nil {
		s.selection = cursor.Caret(s.buf.Len())
	}
	current := s.buf.Text()
	s.mu.Unlock()

	return s.decorator.Update(ctx, current)
}

// Press runs the command bound to key on the document. It reports whether
// the command handled the key; an unhandled key leaves everything as is
// and the host should apply its default behavior. KeyUndo and KeyRedo
// step through the history of handled commands.
func (s *Session) Press(ctx context.Context, key string) (bool, error) {
	switch key {
	case KeyUndo:
		return s.step(ctx, key, s.history.Undo)
	case KeyRedo:
		return s.step(ctx, key, s.history.Redo)
	}
	if _, ok := s.keymap.Lookup(key); !ok {
		return false, NewOperationError("press", key, ErrUnknownKey)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false, ErrClosed
	}
	state := command.State{Text: s.buf.Text(), Selection: s.selection}
	if err := state.Validate(); err != nil {
		s.mu.Unlock()
		return false, NewOperationError("press", key, err)
	}
	result := s.keymap.Run(key, state)
	if !result.Handled {
		s.mu.Unlock()
		return false, nil
	}
	next, err := result.Apply(state)
	if err == nil {
		err = s.buf.ApplyEdits(result.Edits)
	}
	if err != nil {
		s.mu.Unlock()
		return false, NewOperationError("press", key, err)
	}
	if entry, err := history.NewEntry(key, state.Text, result.Edits, state.Selection, next.Selection); err == nil {
		s.history.Push(entry)
	}
	s.selection = next.Selection
	text := s.buf.Text()
	s.mu.Unlock()

	tracer().Debugf("session %s: %s applied %d edits", s.id, key, len(result.Edits))
	if _, err := s.decorator.Update(ctx, text); err != nil {
		return true, NewOperationError("decorate", s.path, err)
	}
	return true, nil
}

// step undoes or redoes one history entry. Running out of history is not
// an error; the key is just not handled.
func (s *Session) step(ctx context.Context, key string, pop func() (history.Entry, error)) (bool, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false, ErrClosed
	}
	entry, err := pop()
	if err != nil {
		s.mu.Unlock()
		return false, nil
	}
	edits, sel := entry.Inverse, entry.Before
	if key == KeyRedo {
		edits, sel = entry.Edits, entry.After
	}
	if err := s.buf.ApplyEdits(edits); err != nil {
		s.mu.Unlock()
		return false, NewOperationError(strings.ToLower(key), entry.Name, err)
	}
	s.selection = sel
	text := s.buf.Text()
	s.mu.Unlock()

	tracer().Debugf("session %s: %s %s", s.id, key, entry.Name)
	if _, err := s.decorator.Update(ctx, text); err != nil {
		return true, NewOperationError("decorate", s.path, err)
	}
	return true, nil
}

// Wait blocks until every link lookup started so far has been delivered
// and returns the error of the last failed lookup.
func (s *Session) Wait() error {
	if s.source == nil {
		return nil
	}
	s.source.Wait()
	return s.source.Err()
}

// Watch reloads the document whenever its file changes. The reloaded
// text goes through SetText.
func (s *Session) Watch(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.path == "" {
		return NewOperationError("watch", "", ErrNoDocument)
	}
	if s.watcher != nil {
		return nil
	}

	w, err := watch.New(s.path, func(text string) {
		if _, err := s.SetText(ctx, text); err != nil && !errors.Is(err, ErrClosed) {
			tracer().Errorf("reload %s: %v", s.path, err)
		}
	},
		watch.WithDebounce(time.Duration(s.cfg.Watch.DebounceMS)*time.Millisecond),
		watch.WithErrorHandler(func(err error) {
			tracer().Errorf("watch %s: %v", s.path, err)
		}))
	if err != nil {
		return NewOperationError("watch", s.path, err)
	}
	s.watcher = w
	return nil
}

// Close stops watching and releases the link source. Lookups in flight
// are waited for.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	w := s.watcher
	s.mu.Unlock()

	var err error
	if w != nil {
		err = w.Close()
	}
	if s.source != nil {
		s.source.Wait()
	}
	if s.lua != nil {
		s.lua.Close()
	}
	tracer().Debugf("session %s closed", s.id)
	return err
}
