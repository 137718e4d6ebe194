// Package store owns the per-session dataset: loaded once at startup,
// replaced wholesale on reload, and never patched in place. Every replacement
// rebuilds the relationship index and insights atomically with the dataset so
// no reader can observe an index pointing at a previous dataset's
// organizations.
package store

import (
	"sync"

	"github.com/orgweave/orgweave/pkg/graph"
	"github.com/orgweave/orgweave/pkg/model"
)

// Snapshot is one immutable view of the store: a dataset together with the
// index and insights derived from exactly that dataset.
type Snapshot struct {
	Dataset    *model.Dataset
	Index      *graph.Index
	Insights   *graph.Insights
	Generation uint64
}

// Store holds the current snapshot. Concurrent reloads are not sequenced:
// whichever Replace lands last wins, which is acceptable for a single-user
// tool with infrequent reloads. What the store does guarantee is atomicity —
// readers always see a dataset with its own derived state, never a mix of
// two loads.
type Store struct {
	mu   sync.RWMutex
	snap *Snapshot
}

// New creates a store around an initial dataset.
func New(ds *model.Dataset) *Store {
	s := &Store{}
	s.Replace(ds)
	return s
}

// Replace swaps in a new dataset, rebuilding the relationship index and
// insights before the snapshot becomes visible.
func (s *Store) Replace(ds *model.Dataset) *Snapshot {
	idx := graph.NewIndex(ds)
	ins := graph.ComputeInsights(ds)

	s.mu.Lock()
	defer s.mu.Unlock()
	gen := uint64(1)
	if s.snap != nil {
		gen = s.snap.Generation + 1
	}
	s.snap = &Snapshot{
		Dataset:    ds,
		Index:      idx,
		Insights:   ins,
		Generation: gen,
	}
	return s.snap
}

// Snapshot returns the current snapshot. The returned value is immutable;
// hold it for the duration of a render rather than re-reading per element.
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Generation returns the current snapshot's generation counter.
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return 0
	}
	return s.snap.Generation
}
