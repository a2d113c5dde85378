// Package scheduler runs the periodic dataset refresh in serve mode. A
// refresh re-crawls both catalogs through an injected refresh function and
// atomically swaps the resulting snapshot into the data store.
package scheduler

import (
	"fmt"
	"time"

	"github.com/giygas/pmda-datasets/entities"
	"github.com/giygas/pmda-datasets/interfaces"
	"github.com/giygas/pmda-datasets/logging"
	"github.com/go-co-op/gocron"
)

// Compile-time check to ensure Scheduler implements Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

// RefreshFunc produces a fresh dataset snapshot. It is expected to crawl
// both catalogs and persist the dataset files as a side effect.
type RefreshFunc func() (*entities.DatasetSnapshot, error)

// Scheduler handles scheduled dataset refreshes using dependency injection.
type Scheduler struct {
	dataStore interfaces.DataStore
	refresh   RefreshFunc
	at        string
	// runAtStart forces a refresh during Start. It is set when no dataset
	// files existed on disk, so serving would otherwise begin empty.
	runAtStart bool
	scheduler  *gocron.Scheduler
}

// NewScheduler creates a scheduler. at is one or more "HH:MM" times
// separated by semicolons, gocron style.
func NewScheduler(dataStore interfaces.DataStore, refresh RefreshFunc, at string, runAtStart bool) *Scheduler {
	return &Scheduler{
		dataStore:  dataStore,
		refresh:    refresh,
		at:         at,
		runAtStart: runAtStart,
		scheduler:  gocron.NewScheduler(time.Local),
	}
}

// Start schedules the daily refresh, running one immediately when the
// store started empty.
func (s *Scheduler) Start() error {
	if s.runAtStart {
		if err := s.updateData(); err != nil {
			logging.Error("Failed to perform initial dataset refresh", "error", err)
			return fmt.Errorf("initial dataset refresh failed: %w", err)
		}
	}

	_, err := s.scheduler.Every(1).Days().At(s.at).Do(func() {
		if err := s.updateData(); err != nil {
			logging.Error("Failed to refresh datasets", "error", err)
		}
	})
	if err != nil {
		logging.Error("Failed to schedule refresh", "error", err)
		return fmt.Errorf("failed to schedule refresh: %w", err)
	}

	s.scheduler.StartAsync()
	logging.Info("Dataset refresh scheduled", "at", s.at)
	return nil
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// updateData performs one complete refresh.
func (s *Scheduler) updateData() error {
	// Prevent concurrent updates
	if !s.dataStore.BeginUpdate() {
		logging.Info("Refresh already in progress, skipping...")
		return nil
	}
	defer s.dataStore.EndUpdate()

	logging.Info("Starting dataset refresh")
	start := time.Now()

	snapshot, err := s.refresh()
	if err != nil {
		logging.Error("Dataset refresh failed", "error", err)
		return fmt.Errorf("dataset refresh failed: %w", err)
	}

	s.dataStore.Swap(snapshot)

	logging.Info("Dataset refresh completed",
		"duration", time.Since(start).String(),
		"otc_products", len(snapshot.OTCProducts),
		"iyaku_products", len(snapshot.IyakuProducts))
	return nil
}
