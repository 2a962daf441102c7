// Package cache holds transposition tables for the searchers. A Table is
// owned by exactly one searcher; it is never evicted and lives as long as
// its owner. Entries are spread over shards guarded by their own lock so a
// table can be shared by concurrent searches if that is ever needed.
package cache

import (
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog/log"

	"github.com/domino14/fourplay/board"
)

const numShards = 16

// Bound says how a cached value relates to the true value of the node.
type Bound uint8

const (
	// Exact values were computed inside the search window.
	Exact Bound = iota
	// Lower values failed high: the true value is at least Value.
	Lower
	// Upper values failed low: the true value is at most Value.
	Upper
)

func (b Bound) String() string {
	switch b {
	case Lower:
		return "lower"
	case Upper:
		return "upper"
	}
	return "exact"
}

// Key identifies a search node. Alpha and beta are not part of it.
type Key struct {
	Board      board.Board
	Depth      int
	Maximizing bool
	Piece      board.Piece
	Strategy   string
}

// Entry is the stored result of a search node.
type Entry struct {
	Column int
	Value  float64
	Flag   Bound
}

type shard struct {
	sync.RWMutex
	entries map[Key]Entry
}

// Table is a transposition table.
type Table struct {
	name   string
	shards [numShards]shard

	lookups atomic.Uint64
	hits    atomic.Uint64
	stores  atomic.Uint64
}

// Stats is a snapshot of a table's counters.
type Stats struct {
	Entries int
	Lookups uint64
	Hits    uint64
	Stores  uint64
}

// NewTable creates an empty table. The name is only used for logging.
func NewTable(name string) *Table {
	t := &Table{name: name}
	for i := range t.shards {
		t.shards[i].entries = make(map[Key]Entry)
	}
	return t
}

func (t *Table) shardFor(k *Key) *shard {
	var buf [board.NumSquares + 2]byte
	for i, p := range k.Board {
		buf[i] = byte(p)
	}
	buf[board.NumSquares] = byte(k.Depth)
	if k.Maximizing {
		buf[board.NumSquares+1] = 1
	}
	return &t.shards[xxhash.Sum64(buf[:])%numShards]
}

// Lookup returns the entry stored under k, if any.
func (t *Table) Lookup(k Key) (Entry, bool) {
	t.lookups.Add(1)
	s := t.shardFor(&k)
	s.RLock()
	e, ok := s.entries[k]
	s.RUnlock()
	if ok {
		t.hits.Add(1)
	}
	return e, ok
}

// Store saves e under k, overwriting whatever was there.
func (t *Table) Store(k Key, e Entry) {
	s := t.shardFor(&k)
	s.Lock()
	s.entries[k] = e
	s.Unlock()
	t.stores.Add(1)
}

// Len returns the number of stored entries.
func (t *Table) Len() int {
	n := 0
	for i := range t.shards {
		t.shards[i].RLock()
		n += len(t.shards[i].entries)
		t.shards[i].RUnlock()
	}
	return n
}

// Reset drops every entry and zeroes the counters.
func (t *Table) Reset() {
	for i := range t.shards {
		t.shards[i].Lock()
		clear(t.shards[i].entries)
		t.shards[i].Unlock()
	}
	t.lookups.Store(0)
	t.hits.Store(0)
	t.stores.Store(0)
	log.Debug().Str("table", t.name).Msg("transposition-table-reset")
}

// Stats returns the current counters.
func (t *Table) Stats() Stats {
	return Stats{
		Entries: t.Len(),
		Lookups: t.lookups.Load(),
		Hits:    t.hits.Load(),
		Stores:  t.stores.Load(),
	}
}

// Hits returns the number of successful lookups so far.
func (t *Table) Hits() uint64 {
	return t.hits.Load()
}

// LogStats writes the counters at debug level.
func (t *Table) LogStats() {
	st := t.Stats()
	log.Debug().Str("table", t.name).
		Int("entries", st.Entries).
		Uint64("lookups", st.Lookups).
		Uint64("hits", st.Hits).
		Uint64("stores", st.Stores).
		Msg("transposition-table-stats")
}
