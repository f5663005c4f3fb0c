package review

import "context"

// ResetAndRescore clears every existing score for the persona, then starts a
// fresh scoring batch.
//
// The two halves are independently failable network calls with no server-side
// transaction. If the reset succeeds but scoring is interrupted, images are
// left with cleared scores and the only remediation is to trigger this again.
// If the reset itself fails, scoring never starts.
func (d *Desk) ResetAndRescore(ctx context.Context, notify func(Outcome)) (int, Summary, error) {
	d.mu.Lock()
	if d.resetState.Running() || d.scoreState.Running() {
		d.mu.Unlock()
		return 0, Summary{}, ErrBusy
	}
	d.resetState = State{Phase: PhaseRunning}
	d.mu.Unlock()

	count, err := d.client.ResetScores(ctx)
	if err != nil {
		d.log.Error("failed to reset scores: %v", err)
		d.mu.Lock()
		d.resetState = State{Phase: PhaseFailed, LastError: err.Error()}
		d.mu.Unlock()
		return 0, Summary{}, err
	}
	d.log.Success("reset scores for %d file(s)", count)

	// Reconcile before rescoring so the batch snapshot sees cleared scores.
	d.Refresh(ctx)

	d.mu.Lock()
	d.resetState = State{Phase: PhaseIdle}
	d.mu.Unlock()

	summary, err := d.ScorePending(ctx, notify)
	return count, summary, err
}
