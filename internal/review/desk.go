// Package review coordinates the curation review session: the in-memory copy
// of the backend's images and stats, and the orchestrators that mutate the
// backend (scoring batches, score resets, approve/reject actions).
//
// The desk is the single shared-state owner. UI code reads immutable
// snapshots and triggers operations from background commands; all state
// transitions happen under one mutex, while network calls run outside it.
package review

import (
	"context"
	"errors"
	"sync"

	"github.com/lunahq/curator/internal/curation"
	"github.com/lunahq/curator/internal/curation/client"
	"github.com/lunahq/curator/internal/logbook"
)

// ErrActionInFlight reports that an approve/reject for the same image path is
// still outstanding. Actions on different paths proceed independently.
var ErrActionInFlight = errors.New("review: action already in flight for this image")

// ErrBusy reports that the triggered orchestrator is already running.
var ErrBusy = errors.New("review: orchestrator already running")

// Desk owns the review session state.
type Desk struct {
	client *client.Client
	log    *logbook.Logbook

	mu         sync.Mutex
	images     []curation.Image
	stats      curation.Stats
	filter     curation.Filter
	fetchState State
	scoreState State
	resetState State
	actions    map[string]bool
}

// Snapshot is an immutable copy of the desk for rendering.
type Snapshot struct {
	Images     []curation.Image
	Stats      curation.Stats
	Filter     curation.Filter
	FetchState State
	ScoreState State
	ResetState State
	// InFlight holds image paths with an outstanding approve/reject.
	InFlight map[string]bool
}

// NewDesk creates a desk over the given API client and log sink.
func NewDesk(c *client.Client, log *logbook.Logbook) *Desk {
	return &Desk{
		client:  c,
		log:     log,
		filter:  curation.FilterAll,
		actions: map[string]bool{},
	}
}

// Snapshot returns a copy of the current session state.
func (d *Desk) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	images := make([]curation.Image, len(d.images))
	copy(images, d.images)
	inflight := make(map[string]bool, len(d.actions))
	for path := range d.actions {
		inflight[path] = true
	}
	return Snapshot{
		Images:     images,
		Stats:      d.stats,
		Filter:     d.filter,
		FetchState: d.fetchState,
		ScoreState: d.scoreState,
		ResetState: d.resetState,
		InFlight:   inflight,
	}
}

// Filter returns the currently selected filter tab.
func (d *Desk) Filter() curation.Filter {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.filter
}

// Refresh pulls the image list (under the current filter) and the stats
// snapshot concurrently. The two requests succeed or fail independently: a
// failed piece keeps its previous in-memory value and is logged, never
// surfaced as a blocking error. The loading state always clears.
func (d *Desk) Refresh(ctx context.Context) {
	d.mu.Lock()
	d.fetchState = State{Phase: PhaseRunning}
	filter := d.filter
	d.mu.Unlock()

	var lastErr error
	defer func() {
		d.mu.Lock()
		if lastErr != nil {
			d.fetchState = State{Phase: PhaseFailed, LastError: lastErr.Error()}
		} else {
			d.fetchState = State{Phase: PhaseIdle}
		}
		d.mu.Unlock()
	}()

	var wg sync.WaitGroup
	var imgErr, statsErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		images, err := d.client.FetchImages(ctx, filter)
		if err != nil {
			imgErr = err
			return
		}
		d.mu.Lock()
		d.images = images
		d.mu.Unlock()
	}()
	go func() {
		defer wg.Done()
		stats, err := d.client.FetchStats(ctx)
		if err != nil {
			statsErr = err
			return
		}
		d.mu.Lock()
		d.stats = stats
		d.mu.Unlock()
	}()
	wg.Wait()

	if imgErr != nil {
		d.log.Error("failed to fetch images: %v", imgErr)
		lastErr = imgErr
	}
	if statsErr != nil {
		d.log.Error("failed to fetch stats: %v", statsErr)
		lastErr = statsErr
	}
}

// ChangeFilter switches the filter tab and re-fetches the image list only.
// Stats are left untouched; they are not a function of the selected tab.
func (d *Desk) ChangeFilter(ctx context.Context, filter curation.Filter) error {
	if !filter.Valid() {
		return errors.New("review: unknown filter " + string(filter))
	}
	d.mu.Lock()
	d.filter = filter
	d.fetchState = State{Phase: PhaseRunning}
	d.mu.Unlock()

	images, err := d.client.FetchImages(ctx, filter)
	if err != nil {
		d.log.Error("failed to fetch images: %v", err)
		d.mu.Lock()
		d.fetchState = State{Phase: PhaseFailed, LastError: err.Error()}
		d.mu.Unlock()
		return nil
	}

	d.mu.Lock()
	d.images = images
	d.fetchState = State{Phase: PhaseIdle}
	d.mu.Unlock()
	return nil
}

// FetchState returns the data fetcher's state machine.
func (d *Desk) FetchState() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fetchState
}

// ScoreState returns the scoring batch's state machine.
func (d *Desk) ScoreState() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.scoreState
}

// ResetState returns the reset orchestrator's state machine.
func (d *Desk) ResetState() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.resetState
}

// InFlight reports whether an approve/reject is outstanding for path.
func (d *Desk) InFlight(path string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.actions[path]
}

// HasUnscored reports whether any image in the current in-memory list still
// lacks a score. The renderer disables the scoring control when this is false.
func (d *Desk) HasUnscored() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(curation.Unscored(d.images)) > 0
}
