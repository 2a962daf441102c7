package shell

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/domino14/fourplay/automatic"
	"github.com/domino14/fourplay/board"
	"github.com/domino14/fourplay/engine"
	"github.com/domino14/fourplay/game"
	"github.com/domino14/fourplay/trace"
)

type Response struct {
	message string
}

type CmdOptions map[string]string

func (c CmdOptions) String(key string) string {
	return c[key]
}

func (c CmdOptions) Int(key string) (int, error) {
	v, ok := c[key]
	if !ok {
		return 0, errors.New(key + " not found in options")
	}
	return strconv.Atoi(v)
}

func (c CmdOptions) IntDefault(key string, defaultI int) (int, error) {
	v, ok := c[key]
	if !ok {
		return defaultI, nil
	}
	return strconv.Atoi(v)
}

func (c CmdOptions) Bool(key string) bool {
	return strings.ToLower(c[key]) == "true"
}

func msg(message string) *Response {
	return &Response{message: message}
}

func (sc *ShellController) help(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return msg(usage()), nil
	}
	return msg(usageTopic(cmd.args[0])), nil
}

// rebuildEngine applies the current options. Caches start empty.
func (sc *ShellController) rebuildEngine() error {
	e, err := engine.New(sc.options.Options)
	if err != nil {
		return err
	}
	sc.engine = e
	return nil
}

func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return msg(sc.options.ToDisplayText()), nil
	}
	if len(cmd.args) != 2 {
		return nil, errors.New("usage: set <option> <value>")
	}
	opt, val := cmd.args[0], cmd.args[1]
	old := *sc.options
	if err := sc.options.Set(opt, val); err != nil {
		return nil, err
	}
	if err := sc.rebuildEngine(); err != nil {
		*sc.options = old
		return nil, err
	}
	_, shown := sc.options.Show(opt)
	return msg(opt + " set to " + shown), nil
}

func (sc *ShellController) newGame(cmd *shellcmd) (*Response, error) {
	first := board.PlayerPiece
	if len(cmd.args) > 0 && cmd.args[0] == "ai" {
		first = board.AIPiece
	}
	sc.game = game.New(sc.options.rules, first)
	sc.engine.ResetCache()
	if first == board.AIPiece {
		return sc.aiMove()
	}
	return msg(sc.game.ToDisplayText()), nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	return msg(sc.game.ToDisplayText()), nil
}

// play makes the human move in a 1-based column and lets the AI answer.
func (sc *ShellController) play(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: play <column 1-7>")
	}
	col, err := strconv.Atoi(cmd.args[0])
	if err != nil {
		return nil, err
	}
	if err := sc.game.PlayAs(board.PlayerPiece, col-1); err != nil {
		return nil, err
	}
	if sc.game.Over() || sc.game.OnTurn() != board.AIPiece {
		return msg(sc.game.ToDisplayText()), nil
	}
	return sc.aiMove()
}

func (sc *ShellController) aiplay(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	if sc.game.Over() {
		return nil, game.ErrGameOver
	}
	return sc.aiMove()
}

// aiMove asks the engine for a move for the side on turn and plays it.
func (sc *ShellController) aiMove() (*Response, error) {
	piece := sc.game.OnTurn()
	d := sc.engine.BestMove(sc.game.Board(), piece)
	if d.Trace != nil {
		sc.lastTrace = d.Trace
	}
	if err := sc.game.Play(d.Column); err != nil {
		return nil, err
	}
	log.Debug().Int("column", d.Column).Float64("score", d.Score).
		Int("nodes", d.Nodes).Msg("ai-move")
	return msg(fmt.Sprintf("%s (%s) plays column %d, score %.1f, %d nodes, %.3fs\n\n%s",
		piece, sc.options.Algorithm, d.Column+1, d.Score, d.Nodes,
		d.Elapsed.Seconds(), sc.game.ToDisplayText())), nil
}

func (sc *ShellController) hint(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	if sc.game.Over() {
		return nil, game.ErrGameOver
	}
	d := sc.engine.BestMove(sc.game.Board(), sc.game.OnTurn())
	return msg(fmt.Sprintf("Suggested column for %s: %d (score %.1f)",
		sc.game.OnTurn(), d.Column+1, d.Score)), nil
}

// undo takes back moves until it is the human's turn again.
func (sc *ShellController) undo(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	if err := sc.game.Undo(); err != nil {
		return nil, err
	}
	if sc.game.OnTurn() == board.AIPiece && sc.game.Turn() > 0 {
		if err := sc.game.Undo(); err != nil {
			return nil, err
		}
	}
	return msg(sc.game.ToDisplayText()), nil
}

func (sc *ShellController) search(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	depth, err := cmd.options.IntDefault("depth", sc.options.Depth)
	if err != nil {
		return nil, err
	}
	p := engine.DefaultParams(depth)
	p.Piece = sc.game.OnTurn()
	p.Instrument = cmd.options.Bool("trace")
	d := sc.engine.Search(sc.game.Board(), p)
	if d.Trace != nil {
		sc.lastTrace = d.Trace
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "algorithm: %s  heuristic: %s  depth: %d  for: %s\n",
		sc.options.Algorithm, sc.options.Heuristic, depth, p.Piece)
	if d.Column < 0 {
		sb.WriteString("column: none\n")
	} else {
		fmt.Fprintf(&sb, "column: %d\n", d.Column+1)
	}
	fmt.Fprintf(&sb, "score: %.2f\nnodes: %d  cache hits: %d  time: %.3fs\n",
		d.Score, d.Nodes, d.CacheHits, d.Elapsed.Seconds())
	if d.Trace != nil {
		fmt.Fprintf(&sb, "trace recorded: %d nodes\n", d.Trace.Len())
	}
	return msg(sb.String()), nil
}

func (sc *ShellController) exportTrace(cmd *shellcmd) (*Response, error) {
	if f := cmd.options.String("load"); f != "" {
		g, err := loadTrace(f)
		if err != nil {
			return nil, err
		}
		sc.lastTrace = g
		if cmd.options.String("format") == "" && cmd.options.String("file") == "" {
			return msg(fmt.Sprintf("loaded %d trace nodes from %s", g.Len(), f)), nil
		}
	}
	if sc.lastTrace == nil {
		return nil, errors.New("no trace recorded; use `search -trace true` or `set trace true`")
	}
	maxDepth, err := cmd.options.IntDefault("maxdepth", -1)
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	switch format := cmd.options.String("format"); format {
	case "", "text":
		err = sc.lastTrace.WriteText(&sb, maxDepth)
	case "dot":
		err = sc.lastTrace.WriteDOT(&sb)
	case "yaml":
		err = sc.lastTrace.WriteYAML(&sb)
	default:
		return nil, fmt.Errorf("unknown trace format %q; use text, dot or yaml", format)
	}
	if err != nil {
		return nil, err
	}
	if f := cmd.options.String("file"); f != "" {
		if err := os.WriteFile(f, []byte(sb.String()), 0644); err != nil {
			return nil, err
		}
		return msg(fmt.Sprintf("wrote %d trace nodes to %s", sc.lastTrace.Len(), f)), nil
	}
	return msg(sb.String()), nil
}

func loadTrace(path string) (*trace.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return trace.ReadYAML(f)
}

func (sc *ShellController) save(cmd *shellcmd) (*Response, error) {
	if sc.game == nil {
		return nil, errNoGame
	}
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: save <file>")
	}
	f, err := os.Create(cmd.args[0])
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := sc.game.Save(f); err != nil {
		return nil, err
	}
	return msg("saved game to " + cmd.args[0]), nil
}

func (sc *ShellController) load(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: load <file>")
	}
	f, err := os.Open(cmd.args[0])
	if err != nil {
		return nil, err
	}
	defer f.Close()
	g, err := game.Load(f)
	if err != nil {
		return nil, err
	}
	sc.game = g
	sc.options.rules = g.Rules()
	sc.engine.ResetCache()
	return msg(sc.game.ToDisplayText()), nil
}

// setBoard starts a game from an encoded position, human first.
func (sc *ShellController) setBoard(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: board <42-character encoding>")
	}
	b, err := board.Parse(cmd.args[0])
	if err != nil {
		return nil, err
	}
	g, err := game.NewFromBoard(sc.options.rules, board.PlayerPiece, b)
	if err != nil {
		return nil, err
	}
	sc.game = g
	sc.engine.ResetCache()
	return msg(sc.game.ToDisplayText()), nil
}

func (sc *ShellController) autoplay(cmd *shellcmd) (*Response, error) {
	games, err := cmd.options.IntDefault("games", 100)
	if err != nil {
		return nil, err
	}
	threads, err := cmd.options.IntDefault("threads", 1)
	if err != nil {
		return nil, err
	}
	depth, err := cmd.options.IntDefault("depth", sc.options.Depth)
	if err != nil {
		return nil, err
	}
	opening, err := cmd.options.IntDefault("opening", 2)
	if err != nil {
		return nil, err
	}
	p1, p2 := sc.options.Options, sc.options.Options
	p1.Depth, p2.Depth = depth, depth
	p1.Trace, p2.Trace = false, false
	if a := cmd.options.String("p1"); a != "" {
		p1.Algorithm = a
	}
	if a := cmd.options.String("p2"); a != "" {
		p2.Algorithm = a
	}

	mo := automatic.MatchOptions{
		Games:         games,
		Threads:       threads,
		P1:            p1,
		P2:            p2,
		Rules:         sc.options.rules,
		RandomOpening: opening,
	}
	if f := cmd.options.String("file"); f != "" {
		logfile, err := os.Create(f)
		if err != nil {
			return nil, err
		}
		defer logfile.Close()
		mo.Log = logfile
	}
	sc.showMessage(fmt.Sprintf("playing %d games, %s vs %s, depth %d", games, p1.Algorithm, p2.Algorithm, depth))
	summary, err := automatic.PlayMatch(sc.ctx, mo)
	if summary == nil {
		return nil, err
	}
	if err != nil {
		sc.showError(err)
	}
	return msg(summary.String()), nil
}

func (sc *ShellController) autoAnalyze(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("usage: autoanalyze <match log file>")
	}
	summary, err := automatic.AnalyzeLogFile(cmd.args[0])
	if err != nil {
		return nil, err
	}
	return msg(summary.String()), nil
}
