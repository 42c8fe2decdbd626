package resolver

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/wikiedit/internal/linkkey"
)

// DefaultLuaTimeout bounds the script run time of one lookup batch.
const DefaultLuaTimeout = 2 * time.Second

// Lua answers lookups by calling exists(key) in a sandboxed Lua script.
// The script may call normalize(text) to compute link keys. Only the
// base, table, string and math libraries are available, without the
// functions that load code.
type Lua struct {
	async
	timeout time.Duration
	norm    *linkkey.Normalizer

	mu     sync.Mutex
	L      *lua.LState
	closed bool
}

// LuaOption configures a Lua resolver.
type LuaOption func(*Lua)

// WithTimeout bounds the run time of one lookup batch.
func WithTimeout(d time.Duration) LuaOption {
	return func(l *Lua) {
		l.timeout = d
	}
}

// WithNormalizer sets the normalizer behind normalize().
func WithNormalizer(n *linkkey.Normalizer) LuaOption {
	return func(l *Lua) {
		l.norm = n
	}
}

// NewLua loads script and checks that it defines exists.
func NewLua(sink Sink, script string, opts ...LuaOption) (*Lua, error) {
	l := &Lua{
		async:   async{sink: sink},
		timeout: DefaultLuaTimeout,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.norm == nil {
		l.norm = linkkey.NewNormalizer(nil)
	}

	l.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(l.L)
	l.L.SetGlobal("normalize", l.L.NewFunction(l.luaNormalize))

	if err := l.run(context.Background(), func() error { return l.L.DoString(script) }); err != nil {
		l.L.Close()
		return nil, fmt.Errorf("loading script: %w", err)
	}
	if l.L.GetGlobal("exists").Type() != lua.LTFunction {
		l.L.Close()
		return nil, ErrNoExistsFunc
	}
	return l, nil
}

// NewLuaFile loads the script at path, see NewLua.
func NewLuaFile(sink Sink, path string, opts ...LuaOption) (*Lua, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	l, err := NewLua(sink, string(src), opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}

// openSafeLibraries opens the libraries a lookup script may use.
func openSafeLibraries(L *lua.LState) {
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.fn))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		L.SetGlobal(name, lua.LNil)
	}
}

func (l *Lua) luaNormalize(L *lua.LState) int {
	L.Push(lua.LString(l.norm.Normalize(L.CheckString(1))))
	return 1
}

// run executes fn with the script bounded by the timeout and ctx.
func (l *Lua) run(ctx context.Context, fn func() error) (err error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	l.L.SetContext(ctx)
	defer l.L.RemoveContext()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

// Request looks up keys in the background.
func (l *Lua) Request(ctx context.Context, keys []string) error {
	l.mu.Lock()
	closed := l.closed
	l.mu.Unlock()
	if closed {
		return ErrClosed
	}
	l.deliver(ctx, keys, l.lookup)
	return nil
}

// lookup calls exists for every key. Keys answered before a failure are
// still returned.
func (l *Lua) lookup(ctx context.Context, keys []string) (map[string]bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil, ErrClosed
	}

	answers := make(map[string]bool, len(keys))
	err := l.run(ctx, func() error {
		fn := l.L.GetGlobal("exists")
		for _, key := range keys {
			err := l.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, lua.LString(key))
			if err != nil {
				return fmt.Errorf("exists(%q): %w", key, err)
			}
			ret := l.L.Get(-1)
			l.L.Pop(1)
			answers[key] = lua.LVAsBool(ret)
		}
		return nil
	})
	return answers, err
}

// Close waits for running lookups and releases the interpreter.
func (l *Lua) Close() {
	l.Wait()
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.closed {
		l.closed = true
		l.L.Close()
	}
}
