package session

import (
	"context"
	"sync"

	"github.com/mbevents/dashboard-go/models"
	"github.com/mbevents/dashboard-go/store"
)

// CategoryForm is the edit session behind the category modal. Description is
// optional; only the name is required.
type CategoryForm struct {
	docs DocumentStore

	mu          sync.Mutex
	state       State
	id          string
	name        string
	description string
	lastErr     error
}

func NewCategoryForm(docs DocumentStore) *CategoryForm {
	return &CategoryForm{docs: docs}
}

// Load initializes the session blank or from an existing category.
func (f *CategoryForm) Load(cat *models.Category) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = StateEditing
	f.lastErr = nil
	if cat == nil {
		return
	}
	f.id = cat.ID
	f.name = cat.Name
	f.description = cat.Description
}

// SetField stores a raw field value. Category fields carry no mask.
func (f *CategoryForm) SetField(name, raw string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StateEmpty {
		f.state = StateEditing
	}
	switch name {
	case "name":
		f.name = raw
	case "description":
		f.description = raw
	}
}

// State reports the session lifecycle state.
func (f *CategoryForm) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Err returns the error of the last failed Submit, if any.
func (f *CategoryForm) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

// Submit creates or updates the category. Concurrent calls fail with
// ErrSubmitInProgress.
func (f *CategoryForm) Submit(ctx context.Context) (string, error) {
	f.mu.Lock()
	if f.state == StateSubmitting {
		f.mu.Unlock()
		return "", models.ErrSubmitInProgress
	}
	f.state = StateSubmitting
	f.lastErr = nil
	id, name, description := f.id, f.name, f.description
	f.mu.Unlock()

	if name == "" {
		return f.fail(models.NewMissingFieldError("name"))
	}

	fields := map[string]any{
		"name":        name,
		"description": description,
	}

	var err error
	if id == "" {
		id, err = f.docs.Create(ctx, store.CategoriesCollection, fields)
	} else {
		err = f.docs.Update(ctx, store.CategoriesCollection, id, fields)
	}
	if err != nil {
		return f.fail(err)
	}

	f.mu.Lock()
	f.state = StateSuccess
	f.id = id
	f.mu.Unlock()
	return id, nil
}

func (f *CategoryForm) fail(err error) (string, error) {
	f.mu.Lock()
	f.state = StateEditing
	f.lastErr = err
	f.mu.Unlock()
	return "", err
}
