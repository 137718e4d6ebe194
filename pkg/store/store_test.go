package store

import (
	"fmt"
	"sync"
	"testing"

	"github.com/orgweave/orgweave/pkg/model"
)

func dataset(ids ...string) *model.Dataset {
	ds := &model.Dataset{}
	for _, id := range ids {
		ds.Organizations = append(ds.Organizations, model.Organization{ID: id, Name: id})
	}
	for i := 1; i < len(ids); i++ {
		ds.Relationships = append(ds.Relationships, model.Relationship{
			Source: ids[0], Target: ids[i], Type: "partnership",
		})
	}
	return ds
}

func TestNewBuildsDerivedState(t *testing.T) {
	st := New(dataset("a", "b", "c"))
	snap := st.Snapshot()

	if snap.Generation != 1 {
		t.Errorf("initial generation = %d, want 1", snap.Generation)
	}
	if snap.Index == nil || snap.Insights == nil {
		t.Fatal("snapshot missing derived state")
	}
	if snap.Index.Degree("a") != 2 {
		t.Errorf("index not built from dataset: degree(a) = %d", snap.Index.Degree("a"))
	}
	if snap.Insights.NodeCount != 3 {
		t.Errorf("insights not built from dataset: nodes = %d", snap.Insights.NodeCount)
	}
}

func TestReplaceIsWholesale(t *testing.T) {
	st := New(dataset("a", "b"))
	old := st.Snapshot()

	st.Replace(dataset("x", "y", "z"))
	snap := st.Snapshot()

	if snap.Generation != old.Generation+1 {
		t.Errorf("generation = %d, want %d", snap.Generation, old.Generation+1)
	}
	if snap.Index.Org("a") != nil {
		t.Error("new index still resolves old organization")
	}
	if snap.Index.Org("x") == nil {
		t.Error("new index missing new organization")
	}

	// The old snapshot stays internally consistent for readers still holding it
	if old.Index.Org("a") == nil || old.Dataset.Organizations[0].ID != "a" {
		t.Error("previous snapshot mutated by replace")
	}
}

func TestSnapshotNeverMixesLoads(t *testing.T) {
	st := New(dataset("seed"))

	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			id := fmt.Sprintf("org%d", i)
			st.Replace(dataset(id, id+"x"))
		}
		close(stop)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			snap := st.Snapshot()
			// Index and dataset must describe the same load
			for _, org := range snap.Dataset.Organizations {
				if snap.Index.Org(org.ID) == nil {
					t.Errorf("index missing %s from its own dataset", org.ID)
					return
				}
			}
			if snap.Insights.NodeCount != len(snap.Dataset.Organizations) {
				t.Errorf("insights describe a different dataset: %d nodes vs %d orgs",
					snap.Insights.NodeCount, len(snap.Dataset.Organizations))
				return
			}
		}
	}()

	wg.Wait()

	if st.Generation() != 51 {
		t.Errorf("generation = %d, want 51 after 50 replaces", st.Generation())
	}
}
