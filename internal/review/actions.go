package review

import "context"

// Approve marks one image approved. The per-path in-flight marker is set
// before the call and cleared on the way out regardless of outcome, so the
// same image cannot be double-submitted while a different image's action
// proceeds untouched. Success refreshes the session; failure only logs, and
// the image stays actionable for a manual retry.
func (d *Desk) Approve(ctx context.Context, path string) error {
	release, err := d.claimAction(path)
	if err != nil {
		return err
	}
	defer release()

	if err := d.client.Approve(ctx, path); err != nil {
		d.log.Error("failed to approve %s: %v", path, err)
		return err
	}
	d.log.Success("approved %s", path)
	d.Refresh(ctx)
	return nil
}

// Reject marks one image rejected. When del is true the backend also removes
// the underlying file. Same in-flight and retry semantics as Approve.
func (d *Desk) Reject(ctx context.Context, path string, del bool) error {
	release, err := d.claimAction(path)
	if err != nil {
		return err
	}
	defer release()

	if err := d.client.Reject(ctx, path, del); err != nil {
		d.log.Error("failed to reject %s: %v", path, err)
		return err
	}
	if del {
		d.log.Success("rejected and deleted %s", path)
	} else {
		d.log.Success("rejected %s", path)
	}
	d.Refresh(ctx)
	return nil
}

func (d *Desk) claimAction(path string) (func(), error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.actions[path] {
		return nil, ErrActionInFlight
	}
	d.actions[path] = true
	return func() {
		d.mu.Lock()
		delete(d.actions, path)
		d.mu.Unlock()
	}, nil
}
