package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mbevents/dashboard-go/models"
)

// DeleteTarget identifies the record pending confirmation. ImageURL, when it
// points at an uploaded banner, is cleaned up best-effort before the record
// delete.
type DeleteTarget struct {
	ID       string
	Label    string
	ImageURL string
}

// Deleter holds the single-slot delete confirmation for one collection.
// Requesting a new delete while one is pending replaces the candidate;
// confirming acts on whatever is pending at that moment.
type Deleter struct {
	docs       DocumentStore
	files      FileStore
	logger     *slog.Logger
	collection string

	mu       sync.Mutex
	pending  *DeleteTarget
	inFlight bool
}

func NewDeleter(docs DocumentStore, files FileStore, logger *slog.Logger, collection string) *Deleter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Deleter{docs: docs, files: files, logger: logger, collection: collection}
}

// Request opens the confirmation for t, replacing any pending candidate.
// Nothing is touched remotely until Confirm.
func (d *Deleter) Request(t DeleteTarget) {
	d.mu.Lock()
	d.pending = &t
	d.mu.Unlock()
}

// Pending returns the candidate awaiting confirmation.
func (d *Deleter) Pending() (DeleteTarget, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending == nil {
		return DeleteTarget{}, false
	}
	return *d.pending, true
}

// Cancel discards the confirmation without any remote effect.
func (d *Deleter) Cancel() {
	d.mu.Lock()
	d.pending = nil
	d.mu.Unlock()
}

// Confirm deletes the pending record. An associated uploaded banner is
// deleted first, best-effort: a failure there is logged and the record delete
// proceeds (orphaned files are accepted). A record-delete failure keeps the
// confirmation open for retry. The removal reaches consumers through the next
// live snapshot; nothing is removed optimistically.
func (d *Deleter) Confirm(ctx context.Context) error {
	d.mu.Lock()
	if d.inFlight {
		d.mu.Unlock()
		return models.ErrDeleteInProgress
	}
	if d.pending == nil {
		d.mu.Unlock()
		return nil
	}
	target := *d.pending
	d.inFlight = true
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		d.inFlight = false
		d.mu.Unlock()
	}()

	if target.ImageURL != "" && target.ImageURL != models.DefaultImageURL && d.files != nil {
		if err := d.files.Delete(ctx, target.ImageURL); err != nil {
			d.logger.Warn("banner cleanup failed",
				"collection", d.collection,
				"id", target.ID,
				"url", target.ImageURL,
				"error", err)
		}
	}

	if err := d.docs.Delete(ctx, d.collection, target.ID); err != nil {
		return err
	}

	d.mu.Lock()
	if d.pending != nil && d.pending.ID == target.ID {
		d.pending = nil
	}
	d.mu.Unlock()
	return nil
}
