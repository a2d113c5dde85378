package scheduler

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/giygas/pmda-datasets/entities"
)

// fakeStore records swaps and exposes the update flag like the real
// container.
type fakeStore struct {
	updating atomic.Bool
	swaps    atomic.Int32
}

func (s *fakeStore) OTCProducts() []entities.OTCProduct     { return nil }
func (s *fakeStore) IyakuProducts() []entities.IyakuProduct { return nil }
func (s *fakeStore) OTCProductByCode(string) (entities.OTCProduct, bool) {
	return entities.OTCProduct{}, false
}
func (s *fakeStore) OTCIngredientIndex() map[string]*entities.IngredientIndexEntry   { return nil }
func (s *fakeStore) IyakuIngredientIndex() map[string]*entities.IngredientIndexEntry { return nil }
func (s *fakeStore) LastUpdated() time.Time                                          { return time.Time{} }
func (s *fakeStore) IsUpdating() bool                                                { return s.updating.Load() }
func (s *fakeStore) Swap(*entities.DatasetSnapshot)                                  { s.swaps.Add(1) }
func (s *fakeStore) BeginUpdate() bool                                               { return s.updating.CompareAndSwap(false, true) }
func (s *fakeStore) EndUpdate()                                                      { s.updating.Store(false) }

func TestSchedulerInitialRefresh(t *testing.T) {
	store := &fakeStore{}
	var refreshes atomic.Int32
	refresh := func() (*entities.DatasetSnapshot, error) {
		refreshes.Add(1)
		return &entities.DatasetSnapshot{}, nil
	}

	s := NewScheduler(store, refresh, "06:00", true)
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	defer s.Stop()

	if refreshes.Load() != 1 {
		t.Errorf("expected 1 initial refresh, got %d", refreshes.Load())
	}
	if store.swaps.Load() != 1 {
		t.Errorf("expected 1 swap, got %d", store.swaps.Load())
	}
	if store.IsUpdating() {
		t.Error("update flag not released after refresh")
	}
}

func TestSchedulerSkipsInitialRefreshWhenDataPresent(t *testing.T) {
	store := &fakeStore{}
	var refreshes atomic.Int32
	refresh := func() (*entities.DatasetSnapshot, error) {
		refreshes.Add(1)
		return &entities.DatasetSnapshot{}, nil
	}

	s := NewScheduler(store, refresh, "06:00", false)
	if err := s.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	defer s.Stop()

	if refreshes.Load() != 0 {
		t.Errorf("expected no refresh at start, got %d", refreshes.Load())
	}
}

func TestSchedulerInitialRefreshFailureIsFatal(t *testing.T) {
	store := &fakeStore{}
	refresh := func() (*entities.DatasetSnapshot, error) {
		return nil, fmt.Errorf("crawl failed")
	}

	s := NewScheduler(store, refresh, "06:00", true)
	if err := s.Start(); err == nil {
		s.Stop()
		t.Fatal("expected error when the initial refresh fails")
	}
	if store.IsUpdating() {
		t.Error("update flag leaked after failed refresh")
	}
}

func TestSchedulerConcurrentUpdateSkipped(t *testing.T) {
	store := &fakeStore{}
	var refreshes atomic.Int32
	refresh := func() (*entities.DatasetSnapshot, error) {
		refreshes.Add(1)
		return &entities.DatasetSnapshot{}, nil
	}

	s := NewScheduler(store, refresh, "06:00", false)

	// Simulate a refresh already holding the flag.
	store.BeginUpdate()
	if err := s.updateData(); err != nil {
		t.Fatalf("updateData() error: %v", err)
	}
	if refreshes.Load() != 0 {
		t.Errorf("refresh ran despite update in progress")
	}
	store.EndUpdate()

	if err := s.updateData(); err != nil {
		t.Fatalf("updateData() error: %v", err)
	}
	if refreshes.Load() != 1 {
		t.Errorf("expected refresh after flag released, got %d", refreshes.Load())
	}
}
