package shell

import (
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/domino14/fourplay/engine"
	"github.com/domino14/fourplay/game"
	"github.com/domino14/fourplay/heuristics"
)

// ShellCompleter provides context-aware autocomplete for shell commands
type ShellCompleter struct {
	sc *ShellController
}

func NewShellCompleter(sc *ShellController) *ShellCompleter {
	return &ShellCompleter{sc: sc}
}

// CommandMetadata holds autocomplete information for a command
type CommandMetadata struct {
	Options []string
	Args    []string
}

var commandMetadata = map[string]CommandMetadata{
	"new": {
		Args: []string{"ai"},
	},
	"search": {
		Options: []string{"-depth", "-trace"},
	},
	"trace": {
		Options: []string{"-format", "-file", "-maxdepth", "-load"},
	},
	"autoplay": {
		Options: []string{"-games", "-threads", "-p1", "-p2", "-depth", "-opening", "-file"},
	},
	"set": {
		Args: optionKeys,
	},
	"help": {
		Args: helpTopics,
	},
}

var commandNames = []string{
	"help", "new", "show", "play", "ai", "hint", "undo", "search", "trace",
	"set", "save", "load", "board", "autoplay", "autoanalyze", "exit",
}

var boolValues = []string{"true", "false"}

// valuesFor returns the values an option or setting can take.
func valuesFor(name string) []string {
	switch name {
	case "p1", "p2", "algorithm":
		return engine.Algorithms()
	case "heuristic":
		return heuristics.Names()
	case "format":
		return []string{"text", "dot", "yaml"}
	case "rules":
		return []string{string(game.ConnectRules), string(game.FullBoardRules)}
	case "trace", "bounded-tt":
		return boolValues
	}
	return nil
}

// Do implements the readline.AutoComplete interface
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])

	fields, err := shellquote.Split(text)
	if err != nil {
		fields = strings.Fields(text)
	}
	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	var prefix string
	var completions []string

	if len(fields) == 0 || (len(fields) == 1 && !endsWithSpace) {
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames
	} else {
		cmdName := fields[0]
		if !endsWithSpace {
			prefix = fields[len(fields)-1]
		}

		var lastCompleteField string
		if endsWithSpace {
			lastCompleteField = fields[len(fields)-1]
		} else if len(fields) > 1 {
			lastCompleteField = fields[len(fields)-2]
		}

		if strings.HasPrefix(lastCompleteField, "-") {
			completions = valuesFor(strings.TrimPrefix(lastCompleteField, "-"))
		} else if cmdName == "set" && lastCompleteField != "set" {
			completions = valuesFor(lastCompleteField)
		}

		if completions == nil {
			if metadata, exists := commandMetadata[cmdName]; exists {
				if strings.HasPrefix(prefix, "-") || len(metadata.Args) == 0 {
					completions = metadata.Options
				} else {
					completions = metadata.Args
				}
			}
		}
	}

	var matches [][]rune
	for _, completion := range completions {
		if strings.HasPrefix(completion, prefix) {
			// Return only the part that needs to be added
			suffix := completion[len(prefix):]
			matches = append(matches, []rune(suffix))
		}
	}

	return matches, len(prefix)
}
