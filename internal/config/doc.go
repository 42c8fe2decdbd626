// Package config provides the configuration of wikiedit.
//
// Configuration is assembled in layers, higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← WIKIEDIT_*, highest priority
//	├─────────────────────────────┤
//	│  2. Config File             │  ← TOML or YAML, by extension
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Default()
//	└─────────────────────────────┘
//
// Command line flags are applied by the caller on the loaded Config.
//
// # Basic Usage
//
//	cfg, err := config.Load("wikiedit.toml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	scanner := markup.NewScanner(cfg.ScannerOptions())
//
// # File Format
//
//	[markup]
//	link_frames = true
//	map_point_prefix = "{{map:"
//
//	[links]
//	titles = "titles.txt"
//
//	[linkkey.folds]
//	"й" = "и"
//
//	[theme.styles.link-missing]
//	background = "#ff8080"
//
// Environment variables map to settings by section and key:
// WIKIEDIT_HISTORY_MAX_ENTRIES sets history.max_entries. A few short names are
// predefined, such as WIKIEDIT_LOG_LEVEL for logging.level.
package config

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'wikiedit.config'.
func tracer() tracing.Trace {
	return tracing.Select("wikiedit.config")
}
