package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigDebug            = "debug"
	ConfigCPUProfile       = "cpu-profile"
	ConfigMemProfile       = "mem-profile"
	ConfigDefaultAlgorithm = "default-algorithm"
	ConfigDefaultHeuristic = "default-heuristic"
	ConfigDefaultDepth     = "default-depth"
	ConfigPruneThreshold   = "prune-threshold"
	ConfigBoundedTT        = "bounded-tt"
	ConfigRules            = "rules"
	ConfigDataPath         = "data-path"
	ConfigHistoryFile      = "history-file"
	ConfigFile             = "config"
)

// Config is the program configuration. Values come from, in order of
// precedence: command-line flags, FOURPLAY_* environment variables, a YAML
// config file, and the defaults below.
type Config struct {
	*viper.Viper
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(ConfigDebug, false)
	v.SetDefault(ConfigCPUProfile, "")
	v.SetDefault(ConfigMemProfile, "")
	v.SetDefault(ConfigDefaultAlgorithm, "alphabeta")
	v.SetDefault(ConfigDefaultHeuristic, "combined")
	v.SetDefault(ConfigDefaultDepth, 3)
	v.SetDefault(ConfigPruneThreshold, 0.0)
	v.SetDefault(ConfigBoundedTT, false)
	v.SetDefault(ConfigRules, "connect")
	v.SetDefault(ConfigDataPath, "./data")
	v.SetDefault(ConfigHistoryFile, "")
}

// DefaultConfig returns a configuration holding only the defaults.
func DefaultConfig() *Config {
	v := viper.New()
	setDefaults(v)
	return &Config{Viper: v}
}

// Load parses args and reads the environment and config file. It returns
// the arguments left over after flag parsing.
func (c *Config) Load(args []string) ([]string, error) {
	c.Viper = viper.New()
	setDefaults(c.Viper)

	fs := pflag.NewFlagSet("fourplay", pflag.ContinueOnError)
	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.String(ConfigCPUProfile, "", "file to write a CPU profile to")
	fs.String(ConfigMemProfile, "", "file to write a memory profile to")
	fs.String(ConfigDefaultAlgorithm, "alphabeta", "search algorithm: alphabeta, minimax or expectiminimax")
	fs.String(ConfigDefaultHeuristic, "combined", "board evaluation strategy")
	fs.Int(ConfigDefaultDepth, 3, "search depth in plies")
	fs.Float64(ConfigPruneThreshold, 0, "expectiminimax heuristic pre-pruning threshold; 0 disables")
	fs.Bool(ConfigBoundedTT, false, "store bound flags in the alpha-beta transposition table")
	fs.String(ConfigRules, "connect", "game rules: connect or fullboard")
	fs.String(ConfigDataPath, "./data", "directory for saved games, logs and traces")
	fs.String(ConfigHistoryFile, "", "shell history file; defaults to a file in the data path")
	fs.String(ConfigFile, "", "YAML config file")
	// Stop at the first positional argument so that shell commands can
	// carry their own options.
	fs.SetInterspersed(false)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := c.BindPFlags(fs); err != nil {
		return nil, err
	}

	c.SetEnvPrefix("fourplay")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()

	c.SetConfigType("yaml")
	if f := c.GetString(ConfigFile); f != "" {
		c.SetConfigFile(f)
		if err := c.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", f, err)
		}
	} else {
		c.SetConfigName("fourplay")
		c.AddConfigPath(".")
		c.AddConfigPath(c.GetString(ConfigDataPath))
		if err := c.ReadInConfig(); err != nil {
			var nf viper.ConfigFileNotFoundError
			if !errors.As(err, &nf) {
				return nil, err
			}
		}
	}
	return fs.Args(), nil
}

// HistoryFile is where the shell keeps its command history.
func (c *Config) HistoryFile() string {
	if f := c.GetString(ConfigHistoryFile); f != "" {
		return f
	}
	return filepath.Join(c.GetString(ConfigDataPath), ".fourplay_history")
}

var secretWords = []string{"secret", "token", "password", "key"}

// SanitizedSettings renders every setting as key=value, one per line,
// sorted, with anything that looks like a credential masked.
func (c *Config) SanitizedSettings() string {
	all := c.AllSettings()
	keys := make([]string, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sb strings.Builder
	for _, k := range keys {
		v := fmt.Sprint(all[k])
		for _, w := range secretWords {
			if strings.Contains(k, w) && v != "" {
				v = "********"
				break
			}
		}
		fmt.Fprintf(&sb, "%s=%s\n", k, v)
	}
	return sb.String()
}

// AdjustRelativePaths resolves relative file settings against basedir, the
// directory of the executable.
func (c *Config) AdjustRelativePaths(basedir string) {
	for _, key := range []string{ConfigDataPath, ConfigHistoryFile} {
		p := c.GetString(key)
		if p == "" || filepath.IsAbs(p) {
			continue
		}
		c.Set(key, filepath.Join(basedir, p))
	}
}
