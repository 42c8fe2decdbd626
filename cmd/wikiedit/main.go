// Package main is the entry point of the wikiedit command, which decorates
// a wiki document and runs structural editing commands on it.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"

	"github.com/dshills/wikiedit/internal/app"
	"github.com/dshills/wikiedit/internal/config"
	"github.com/dshills/wikiedit/internal/decoration"
	"github.com/dshills/wikiedit/internal/markup"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

// tracer traces with key 'wikiedit.cli'.
func tracer() tracing.Trace {
	return tracing.Select("wikiedit.cli")
}

// tracerKeys are the trace keys of all packages.
var tracerKeys = []string{
	"wikiedit.app",
	"wikiedit.cli",
	"wikiedit.config",
	"wikiedit.decoration",
	"wikiedit.linkkey",
	"wikiedit.linkstate",
	"wikiedit.markup",
	"wikiedit.resolver",
	"wikiedit.watch",
}

// keyList collects repeated -key flags.
type keyList []string

func (k *keyList) String() string {
	return strings.Join(*k, ",")
}

func (k *keyList) Set(v string) error {
	*k = append(*k, v)
	return nil
}

// options holds the parsed command line.
type options struct {
	configPath string
	logLevel   string
	titles     string
	statuses   string
	lua        string
	linkFrames bool
	cursor     string
	keys       keyList
	asJSON     bool
	color      bool
	watch      bool
	listKeys   bool
	file       string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	initDisplay()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		pterm.Error.Println(err.Error())
		return 1
	}
	applyFlags(cfg, opts)
	if err := cfg.Validate(); err != nil {
		pterm.Error.Println(err.Error())
		return 1
	}
	if err := setupTracing(cfg.Logging.Level); err != nil {
		fmt.Fprintf(os.Stderr, "Error: configuring tracing: %v\n", err)
		return 1
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	changed := make(chan struct{}, 1)
	renderer := app.WithRenderer(decoration.RendererFunc(func([]markup.Span) {
		select {
		case changed <- struct{}{}:
		default:
		}
	}))

	sess, err := openSession(ctx, cfg, opts.file, renderer)
	if err != nil {
		pterm.Error.Println(err.Error())
		return 1
	}
	defer sess.Close()

	if opts.listKeys {
		for _, key := range sess.Keymap().Keys() {
			fmt.Println(key)
		}
		fmt.Println(app.KeyUndo)
		fmt.Println(app.KeyRedo)
		return 0
	}

	if opts.cursor != "" {
		sel, err := parseCursor(opts.cursor)
		if err == nil {
			err = sess.Select(sel)
		}
		if err != nil {
			pterm.Error.Println(err.Error())
			return 1
		}
	}
	for _, key := range opts.keys {
		handled, err := sess.Press(ctx, key)
		if err != nil {
			pterm.Error.Println(err.Error())
			return 1
		}
		if !handled {
			tracer().Infof("key %s not handled", key)
		}
	}

	if err := sess.Wait(); err != nil {
		pterm.Error.Printfln("link lookup: %v", err)
	}
	if err := printSession(os.Stdout, sess, opts); err != nil {
		pterm.Error.Println(err.Error())
		return 1
	}

	if !opts.watch {
		return 0
	}
	if err := sess.Watch(ctx); err != nil {
		pterm.Error.Println(err.Error())
		return 1
	}
	pterm.Info.Printfln("watching %s, quit with <ctrl>C", sess.Path())
	drain(changed)
	for {
		select {
		case <-ctx.Done():
			return 0
		case <-changed:
			if err := sess.Wait(); err != nil {
				pterm.Error.Printfln("link lookup: %v", err)
			}
			if err := printSession(os.Stdout, sess, opts); err != nil {
				pterm.Error.Println(err.Error())
			}
		}
	}
}

func parseFlags() (options, error) {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file (TOML or YAML)")
	flag.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, error)")
	flag.StringVar(&opts.titles, "titles", "", "File of existing page titles, one per line")
	flag.StringVar(&opts.statuses, "statuses", "", "JSON file mapping page titles to existence")
	flag.StringVar(&opts.lua, "lua", "", "Lua script defining exists(key)")
	flag.BoolVar(&opts.linkFrames, "frames", false, "Also mark the whole ((...)) link construct")
	flag.StringVar(&opts.cursor, "cursor", "", "Selection as byte offsets: N or ANCHOR:HEAD")
	flag.Var(&opts.keys, "key", "Key to press, may be repeated (Enter, Tab, Shift-Tab, ', \", tag:<name>, Undo, Redo)")
	flag.BoolVar(&opts.asJSON, "json", false, "Print the result as JSON")
	flag.BoolVar(&opts.color, "color", false, "Print the document painted with the theme")
	flag.BoolVar(&opts.watch, "watch", false, "Reprint whenever the document changes on disk")
	flag.BoolVar(&opts.listKeys, "keys", false, "List the bound keys and exit")
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "wikiedit - wiki markup decoration and structural editing\n\n")
		fmt.Fprintf(os.Stderr, "Usage: wikiedit [options] FILE\n\n")
		fmt.Fprintf(os.Stderr, "FILE may be - to read standard input.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  wikiedit -titles pages.txt page.txt       List spans with link status\n")
		fmt.Fprintf(os.Stderr, "  wikiedit -cursor 12 -key Enter page.txt   Continue the list at offset 12\n")
		fmt.Fprintf(os.Stderr, "  wikiedit -color -watch page.txt           Repaint on every save\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("wikiedit %s (%s)\n", version, commit)
		os.Exit(0)
	}
	if flag.NArg() != 1 {
		flag.Usage()
		return opts, errors.New("exactly one FILE is required")
	}
	opts.file = flag.Arg(0)
	if opts.watch && opts.file == "-" {
		return opts, errors.New("cannot watch standard input")
	}
	return opts, nil
}

// applyFlags lets command line flags override the configuration.
func applyFlags(cfg *config.Config, opts options) {
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if opts.linkFrames {
		cfg.Markup.LinkFrames = true
	}
	if opts.titles != "" || opts.statuses != "" || opts.lua != "" {
		cfg.Links.Titles = opts.titles
		cfg.Links.Statuses = opts.statuses
		cfg.Links.Lua = opts.lua
	}
}

func openSession(ctx context.Context, cfg *config.Config, file string, opts ...app.Option) (*app.Session, error) {
	if file != "-" {
		return app.Open(ctx, cfg, file, opts...)
	}
	sess, err := app.New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		sess.Close()
		return nil, err
	}
	if _, err := sess.SetText(ctx, string(data)); err != nil {
		tracer().Infof("decorating standard input: %v", err)
	}
	return sess, nil
}

// setupTracing routes all tracers to the Go log adapter at level.
func setupTracing(level string) error {
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	name := strings.ToUpper(level[:1]) + strings.ToLower(level[1:])
	conf := testconfig.Conf{"tracing.adapter": "go"}
	for _, key := range tracerKeys {
		conf["trace."+key] = name
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		return err
	}
	tracing.SetTraceSelector(trace2go.Selector())
	return nil
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
	pterm.Error.Writer = os.Stderr
	pterm.Info.Writer = os.Stderr
}

func drain(ch chan struct{}) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}
