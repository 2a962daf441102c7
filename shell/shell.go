package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/domino14/fourplay/config"
	"github.com/domino14/fourplay/engine"
	"github.com/domino14/fourplay/game"
	"github.com/domino14/fourplay/trace"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong format; all options need arguments")
	errNoGame            = errors.New("no game is loaded; use `new` first")
)

type ShellController struct {
	l        *readline.Instance
	out      io.Writer
	config   *config.Config
	execPath string
	options  *ShellOptions

	game   *game.Game
	engine *engine.Engine
	// lastTrace is the trace of the most recent instrumented search.
	lastTrace *trace.Graph

	ctx    context.Context
	cancel context.CancelFunc
}

type shellcmd struct {
	cmd     string
	args    []string
	options CmdOptions
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

// newController builds a controller that writes to out and has no
// readline instance; Loop cannot be used with it.
func newController(cfg *config.Config, execPath string, out io.Writer) (*ShellController, error) {
	opts := NewShellOptions()
	opts.SetDefaults(cfg)
	e, err := engine.New(opts.Options)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &ShellController{
		out:      out,
		config:   cfg,
		execPath: execPath,
		options:  opts,
		engine:   e,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

func NewShellController(cfg *config.Config, execPath string) *ShellController {
	sc, err := newController(cfg, execPath, os.Stderr)
	if err != nil {
		// bad defaults from the config file; fall back to built-in ones
		log.Err(err).Msg("bad-engine-settings")
		sc, err = newController(config.DefaultConfig(), execPath, os.Stderr)
		if err != nil {
			panic(err)
		}
	}
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31mfourplay>\033[0m ",
		HistoryFile:     cfg.HistoryFile(),
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",
		AutoComplete:    NewShellCompleter(sc),

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	sc.l = l
	sc.out = l.Stderr()
	return sc
}

func (sc *ShellController) showMessage(msg string) {
	showMessage(msg, sc.out)
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

// extractFields splits a command line into the command, its positional
// arguments and its -option value pairs. Quoting follows shell rules.
func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := CmdOptions{}
	for i := 1; i < len(fields); i++ {
		if strings.HasPrefix(fields[i], "-") && len(fields[i]) > 1 {
			if i == len(fields)-1 {
				return nil, errWrongOptionSyntax
			}
			options[fields[i][1:]] = fields[i+1]
			i++
			continue
		}
		args = append(args, fields[i])
	}
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}

func (sc *ShellController) handle(line string) (*Response, error) {
	cmd, err := extractFields(line)
	if err != nil {
		return nil, err
	}
	switch cmd.cmd {
	case "help", "h":
		return sc.help(cmd)
	case "new", "n":
		return sc.newGame(cmd)
	case "show", "s":
		return sc.show(cmd)
	case "play", "p":
		return sc.play(cmd)
	case "ai", "a":
		return sc.aiplay(cmd)
	case "hint":
		return sc.hint(cmd)
	case "undo", "u":
		return sc.undo(cmd)
	case "search":
		return sc.search(cmd)
	case "trace":
		return sc.exportTrace(cmd)
	case "set":
		return sc.set(cmd)
	case "save":
		return sc.save(cmd)
	case "load":
		return sc.load(cmd)
	case "board":
		return sc.setBoard(cmd)
	case "autoplay":
		return sc.autoplay(cmd)
	case "autoanalyze":
		return sc.autoAnalyze(cmd)
	default:
		msg := fmt.Sprintf("command %v not found", strconv.Quote(cmd.cmd))
		log.Info().Msg(msg)
		return nil, errors.New(msg)
	}
}

// Execute runs a single command line, as given on the command line of the
// binary.
func (sc *ShellController) Execute(sig chan os.Signal, line string) {
	if line == "exit" {
		sig <- syscall.SIGINT
		return
	}
	resp, err := sc.handle(line)
	if err != nil {
		sc.showError(err)
	} else if resp != nil {
		sc.showMessage(resp.message)
	}
}

func (sc *ShellController) Loop(sig chan os.Signal) {

	defer sc.l.Close()

	for {
		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" {
			sig <- syscall.SIGINT
			break
		}
		sc.Execute(sig, line)
	}
	log.Debug().Msgf("Exiting readline loop...")
}

// Cleanup stops any running match.
func (sc *ShellController) Cleanup() {
	sc.cancel()
	if sc.engine != nil {
		sc.engine.Searcher().Cache().LogStats()
	}
}
