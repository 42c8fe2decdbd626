package command

import (
	"sort"
	"sync"
)

// Command is a structural editing command.
type Command func(State) Result

// Key names of the default bindings.
const (
	KeyEnter        = "Enter"
	KeyTab          = "Tab"
	KeyShiftTab     = "Shift-Tab"
	KeySingleQuote  = "'"
	KeyDoubleQuote  = `"`
	tagKeyNamespace = "tag:"
)

// QuoteCommand returns the command for a quote key.
func QuoteCommand(q rune, opts QuoteOptions) Command {
	return func(s State) Result {
		return Quote(s, q, opts)
	}
}

// TagCommandFunc returns the command inserting tag.
func TagCommandFunc(tag TagCommand) Command {
	return func(s State) Result {
		return InsertTag(s, tag)
	}
}

// TagKey returns the key name a tag command is bound to, e.g. "tag:footnote".
func TagKey(name string) string {
	return tagKeyNamespace + name
}

// Keymap binds key names to commands. It is safe for concurrent use.
type Keymap struct {
	mu       sync.RWMutex
	bindings map[string]Command
}

// NewKeymap creates an empty keymap.
func NewKeymap() *Keymap {
	return &Keymap{bindings: make(map[string]Command)}
}

// DefaultKeymap binds Enter, Tab, Shift-Tab, the quote keys and a
// "tag:<name>" key for each tag.
func DefaultKeymap(opts QuoteOptions, tags []TagCommand) *Keymap {
	k := NewKeymap()
	k.Bind(KeyEnter, ContinueList)
	k.Bind(KeyTab, IncreaseListIndent)
	k.Bind(KeyShiftTab, DecreaseListIndent)
	k.Bind(KeySingleQuote, QuoteCommand('\'', opts))
	k.Bind(KeyDoubleQuote, QuoteCommand('"', opts))
	for _, tag := range tags {
		k.Bind(TagKey(tag.Name), TagCommandFunc(tag))
	}
	return k
}

// Bind binds key to cmd, replacing an existing binding. A nil cmd removes
// the binding.
func (k *Keymap) Bind(key string, cmd Command) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if cmd == nil {
		delete(k.bindings, key)
		return
	}
	k.bindings[key] = cmd
}

// Lookup returns the command bound to key.
func (k *Keymap) Lookup(key string) (Command, bool) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	cmd, ok := k.bindings[key]
	return cmd, ok
}

// Run runs the command bound to key. Unbound keys are not handled.
func (k *Keymap) Run(key string, s State) Result {
	cmd, ok := k.Lookup(key)
	if !ok {
		return NotHandled()
	}
	return cmd(s)
}

// Keys returns the bound key names, sorted.
func (k *Keymap) Keys() []string {
	k.mu.RLock()
	defer k.mu.RUnlock()
	keys := make([]string, 0, len(k.bindings))
	for key := range k.bindings {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
