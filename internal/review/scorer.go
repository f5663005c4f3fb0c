package review

import (
	"context"

	"github.com/google/uuid"

	"github.com/lunahq/curator/internal/curation"
)

// ScorePending runs one scoring batch over every currently-unscored image.
//
// The candidate set is snapshotted from the in-memory list at the moment the
// batch starts, not refetched: if another actor scores images concurrently,
// Total is an approximation that the completion refresh reconciles. Requests
// run strictly sequentially; scoring is compute-heavy per image server-side,
// and one-at-a-time keeps progress observable. A failed attempt is logged and
// counted, then the batch moves on.
//
// notify, when non-nil, receives one Outcome per attempt. On completion the
// desk refreshes itself so the displayed list reflects the backend's
// authoritative values.
func (d *Desk) ScorePending(ctx context.Context, notify func(Outcome)) (Summary, error) {
	d.mu.Lock()
	if d.scoreState.Running() {
		d.mu.Unlock()
		return Summary{}, ErrBusy
	}
	pending := curation.Unscored(d.images)
	total := len(pending)
	d.scoreState = State{Phase: PhaseRunning, Progress: Progress{Total: total}}
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		d.scoreState = State{Phase: PhaseIdle}
		d.mu.Unlock()
	}()

	summary := Summary{RunID: uuid.NewString()[:8], Total: total}
	if total == 0 {
		d.log.Info("scoring batch %s: nothing to score", summary.RunID)
		return summary, nil
	}
	d.log.Info("scoring batch %s: %d image(s) pending", summary.RunID, total)

	for i, img := range pending {
		progress := Progress{Current: i + 1, Total: total}
		outcome := Outcome{Path: img.Path, Progress: progress}

		res, err := d.client.Score(ctx, img.Path)
		if err != nil {
			summary.Failed++
			outcome.Err = err
			d.log.Error("batch %s [%d/%d] %s: %v",
				summary.RunID, progress.Current, progress.Total, img.Filename, err)
		} else {
			summary.Scored++
			outcome.Score = res.Score
			outcome.Recommendation = string(res.Recommendation)
			d.log.Info("batch %s [%d/%d] %s scored %.1f (%s)",
				summary.RunID, progress.Current, progress.Total, img.Filename,
				res.Score, res.Recommendation)
		}

		d.mu.Lock()
		d.scoreState.Progress = progress
		d.mu.Unlock()
		if notify != nil {
			notify(outcome)
		}
	}

	d.Refresh(ctx)
	d.log.Success("scoring batch %s complete: %d scored, %d failed",
		summary.RunID, summary.Scored, summary.Failed)
	return summary, nil
}
