package automatic

// Data collection for automatic games between two engine configurations.

import (
	"context"
	"encoding/csv"
	"errors"
	"expvar"
	"io"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/fourplay/engine"
	"github.com/domino14/fourplay/game"
)

var (
	CVCCounter *expvar.Int
	IsPlaying  *expvar.Int
)

func init() {
	CVCCounter = expvar.NewInt("cvcCounter")
	IsPlaying = expvar.NewInt("isPlaying")
}

// LogFields is the header row of a match log.
var LogFields = []string{"gameID", "first", "p1", "p2", "winner", "plies", "board"}

var ErrAlreadyPlaying = errors.New("games are already being played, please wait till complete")

type MatchOptions struct {
	Games   int
	Threads int
	P1      engine.Options
	P2      engine.Options
	Rules   game.Rules
	// RandomOpening is the number of random plies at the start of every game.
	RandomOpening int
	// Log receives one CSV row per finished game. May be nil.
	Log io.Writer
}

// PlayMatch plays opts.Games games, alternating which side moves first.
// Every worker owns its own engines. Cancelling ctx stops queueing new
// games; games in progress are finished and counted, and ctx's error is
// returned along with the partial summary.
func PlayMatch(ctx context.Context, opts MatchOptions) (*Summary, error) {
	if IsPlaying.Value() > 0 {
		return nil, ErrAlreadyPlaying
	}
	threads := max(opts.Threads, 1)
	if opts.Games < 0 {
		opts.Games = 0
	}

	// Build one runner per worker before starting so that bad options fail
	// fast.
	logChan := make(chan []string, 100)
	runners := make([]*GameRunner, threads)
	for i := range runners {
		r, err := NewGameRunner(logChan, opts.P1, opts.P2, opts.Rules, opts.RandomOpening)
		if err != nil {
			return nil, err
		}
		runners[i] = r
	}
	summary := NewSummary(runners[0].names[0], runners[0].names[1])

	log.Debug().Int("games", opts.Games).Int("threads", threads).Msg("starting-match")
	CVCCounter.Set(0)

	jobs := make(chan int, 100)
	results := make(chan GameResult, 100)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(jobs)
		for i := 1; i <= opts.Games; i++ {
			select {
			case <-gctx.Done():
				log.Info().Msg("Got stop signal, exiting soon...")
				return nil
			case jobs <- i:
			}
		}
		log.Debug().Msg("Finished queueing all jobs.")
		return nil
	})

	for _, r := range runners {
		r := r
		g.Go(func() error {
			IsPlaying.Add(1)
			defer IsPlaying.Add(-1)
			for id := range jobs {
				if gctx.Err() != nil {
					continue
				}
				res, err := r.PlayGame(id, id%2 == 1)
				if err != nil {
					return err
				}
				CVCCounter.Add(1)
				results <- res
			}
			return nil
		})
	}

	errc := make(chan error, 1)
	go func() {
		err := g.Wait()
		close(results)
		close(logChan)
		errc <- err
	}()

	logDone := make(chan error, 1)
	go func() {
		logDone <- writeLog(opts.Log, logChan)
	}()

	for res := range results {
		summary.Add(res)
	}
	err := <-errc
	if lerr := <-logDone; err == nil {
		err = lerr
	}
	if err == nil {
		err = ctx.Err()
	}
	log.Info().Int("games", summary.Games).Msg("All games finished.")
	return summary, err
}

// writeLog drains logChan into w as CSV. It keeps draining after a write
// error so that workers never block.
func writeLog(w io.Writer, logChan chan []string) error {
	if w == nil {
		w = io.Discard
	}
	cw := csv.NewWriter(w)
	err := cw.Write(LogFields)
	for rec := range logChan {
		if err != nil {
			continue
		}
		if err = cw.Write(rec); err == nil {
			// one flush per game keeps the file current during long matches
			cw.Flush()
			err = cw.Error()
		}
	}
	cw.Flush()
	if err != nil {
		return err
	}
	return cw.Error()
}
