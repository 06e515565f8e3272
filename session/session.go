// Package session owns the transient state of one edit or delete interaction:
// field values under the input masks, the submit lifecycle, and the pending
// delete confirmation. The remote store is the only source of truth; session
// state is disposable and is never written back except through Submit.
package session

import (
	"context"
	"io"
)

// DocumentStore is the persistence collaborator. Server-assigned fields
// (document id, createdAt/updatedAt) are its responsibility.
type DocumentStore interface {
	Create(ctx context.Context, collection string, fields map[string]any) (string, error)
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	Delete(ctx context.Context, collection, id string) error
}

// FileStore is the banner storage collaborator.
type FileStore interface {
	Upload(ctx context.Context, name string, data io.Reader) (string, error)
	Delete(ctx context.Context, url string) error
}

// State is the lifecycle of a form session.
type State int

const (
	StateEmpty State = iota
	StateEditing
	StateSubmitting
	StateSuccess
)
