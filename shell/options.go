package shell

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/domino14/fourplay/config"
	"github.com/domino14/fourplay/engine"
	"github.com/domino14/fourplay/game"
	"github.com/domino14/fourplay/heuristics"
)

// ShellOptions configure the interactive shell.
type ShellOptions struct {
	engine.Options
	rules game.Rules
}

var optionKeys = []string{"algorithm", "heuristic", "depth", "prune", "bounded-tt", "rules", "trace"}

func NewShellOptions() *ShellOptions {
	return &ShellOptions{
		Options: engine.DefaultOptions(),
		rules:   game.DefaultRules,
	}
}

// SetDefaults takes the starting values from the configuration. Invalid
// values are logged and left at their built-in defaults.
func (opts *ShellOptions) SetDefaults(cfg *config.Config) {
	settings := [][2]string{
		{"algorithm", cfg.GetString(config.ConfigDefaultAlgorithm)},
		{"heuristic", cfg.GetString(config.ConfigDefaultHeuristic)},
		{"depth", cfg.GetString(config.ConfigDefaultDepth)},
		{"prune", cfg.GetString(config.ConfigPruneThreshold)},
		{"bounded-tt", cfg.GetString(config.ConfigBoundedTT)},
		{"rules", cfg.GetString(config.ConfigRules)},
	}
	for _, kv := range settings {
		if err := opts.Set(kv[0], kv[1]); err != nil {
			log.Err(err).Str("option", kv[0]).Str("value", kv[1]).Msg("bad-config-value")
		}
	}
}

func (opts *ShellOptions) Show(key string) (bool, string) {
	switch key {
	case "algorithm":
		return true, opts.Algorithm
	case "heuristic":
		return true, opts.Heuristic
	case "depth":
		return true, strconv.Itoa(opts.Depth)
	case "prune":
		return true, strconv.FormatFloat(opts.PruneThreshold, 'f', -1, 64)
	case "bounded-tt":
		return true, strconv.FormatBool(opts.BoundedTT)
	case "rules":
		return true, opts.rules.String()
	case "trace":
		return true, strconv.FormatBool(opts.Trace)
	default:
		return false, "No such option: " + key
	}
}

func (opts *ShellOptions) ToDisplayText() string {
	out := strings.Builder{}
	out.WriteString("Settings:\n")
	for _, key := range optionKeys {
		_, val := opts.Show(key)
		out.WriteString("  " + key + ": ")
		out.WriteString(val + "\n")
	}
	return out.String()
}

// Set validates and applies one option.
func (opts *ShellOptions) Set(key, value string) error {
	switch key {
	case "algorithm":
		alg, err := engine.CanonicalAlgorithm(value)
		if err != nil {
			return err
		}
		opts.Algorithm = alg
	case "heuristic":
		if _, err := heuristics.Get(value); err != nil {
			return err
		}
		opts.Heuristic = value
	case "depth":
		d, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		if d < 0 {
			return fmt.Errorf("depth must not be negative: %d", d)
		}
		opts.Depth = d
	case "prune":
		t, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		opts.PruneThreshold = t
	case "bounded-tt":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		opts.BoundedTT = b
	case "rules":
		r, err := game.ParseRules(value)
		if err != nil {
			return err
		}
		opts.rules = r
	case "trace":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		opts.Trace = b
	default:
		return fmt.Errorf("no such option: %s", key)
	}
	return nil
}
