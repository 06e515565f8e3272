package session

import (
	"bytes"
	"context"
	"sync"

	"github.com/mbevents/dashboard-go/format"
	"github.com/mbevents/dashboard-go/models"
	"github.com/mbevents/dashboard-go/store"
)

type stagedImage struct {
	name string
	data []byte
}

// EventForm is the edit session for creating or updating one event. Field
// setters apply the input masks and never fail; all validation happens at
// Submit. On failure the session drops back to editing with every entered
// value intact, so a retry needs no re-entry.
type EventForm struct {
	docs   DocumentStore
	files  FileStore
	userID string

	mu            sync.Mutex
	state         State
	id            string
	title         string
	description   string
	date          string
	timeOfDay     string
	location      string
	modality      string
	isHighlighted bool
	price         string
	tickets       string
	selected      []models.CategoryRef
	imageURL      string
	staged        *stagedImage
	lastErr       error
}

// NewEventForm builds a session stamped with the acting organizer's id.
func NewEventForm(docs DocumentStore, files FileStore, userID string) *EventForm {
	return &EventForm{docs: docs, files: files, userID: userID, modality: models.ModalityPresencial}
}

// Load initializes the session: blank for create mode, or from an existing
// event with canonical values converted back to their display forms.
func (f *EventForm) Load(ev *models.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = StateEditing
	f.lastErr = nil
	if ev == nil {
		return
	}
	f.id = ev.ID
	f.title = ev.Title
	f.description = ev.Description
	f.date = format.DisplayDate(ev.Date)
	f.timeOfDay = format.DisplayTime(ev.Date)
	f.location = ev.Location
	f.modality = ev.Modality
	f.isHighlighted = ev.IsHighlighted
	f.price = format.DisplayPrice(ev.Price)
	f.tickets = ev.AvailableTickets
	f.selected = append([]models.CategoryRef(nil), ev.Categories...)
	f.imageURL = ev.ImageURL
}

// SetField applies the matching input mask and stores the result. Unknown
// field names and partial input are accepted silently.
func (f *EventForm) SetField(name, raw string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StateEmpty {
		f.state = StateEditing
	}
	switch name {
	case "title":
		f.title = raw
	case "description":
		f.description = raw
	case "date":
		f.date = format.FormatDate(raw)
	case "time":
		f.timeOfDay = format.FormatTime(raw)
	case "location":
		f.location = raw
	case "modality":
		f.modality = raw
	case "price":
		f.price = format.FormatPrice(raw)
	case "availableTickets":
		f.tickets = format.FormatTickets(raw)
	}
}

// Field returns the current display value of a field.
func (f *EventForm) Field(name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch name {
	case "title":
		return f.title
	case "description":
		return f.description
	case "date":
		return f.date
	case "time":
		return f.timeOfDay
	case "location":
		return f.location
	case "modality":
		return f.modality
	case "price":
		return f.price
	case "availableTickets":
		return f.tickets
	}
	return ""
}

// SetHighlighted toggles the highlight flag.
func (f *EventForm) SetHighlighted(v bool) {
	f.mu.Lock()
	f.isHighlighted = v
	f.mu.Unlock()
}

// ToggleCategory adds the category to the selected set, or removes it when
// already selected. Selection is by id, so a re-toggle is never a duplicate.
func (f *EventForm) ToggleCategory(c models.Category) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, ref := range f.selected {
		if ref.ID == c.ID {
			f.selected = append(f.selected[:i], f.selected[i+1:]...)
			return
		}
	}
	f.selected = append(f.selected, c.Ref())
}

// SelectedCategories returns a copy of the selected set, in selection order.
func (f *EventForm) SelectedCategories() []models.CategoryRef {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.CategoryRef(nil), f.selected...)
}

// StageImage holds a banner to be uploaded on the next Submit, replacing any
// previously staged one.
func (f *EventForm) StageImage(name string, data []byte) {
	f.mu.Lock()
	f.staged = &stagedImage{name: name, data: data}
	f.mu.Unlock()
}

// ClearImage discards the staged banner and reverts to the placeholder.
func (f *EventForm) ClearImage() {
	f.mu.Lock()
	f.staged = nil
	f.imageURL = ""
	f.mu.Unlock()
}

// State reports the session lifecycle state.
func (f *EventForm) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Err returns the error of the last failed Submit, if any.
func (f *EventForm) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

// Submit validates the session, uploads a staged banner if present, and
// creates or updates the event depending on whether an id was loaded. The
// upload and the record write form one logical unit: an upload failure aborts
// the submit before anything is written. Only one Submit may be in flight;
// concurrent calls fail with ErrSubmitInProgress.
func (f *EventForm) Submit(ctx context.Context) (string, error) {
	f.mu.Lock()
	if f.state == StateSubmitting {
		f.mu.Unlock()
		return "", models.ErrSubmitInProgress
	}
	f.state = StateSubmitting
	f.lastErr = nil

	id := f.id
	title, description := f.title, f.description
	date, timeOfDay := f.date, f.timeOfDay
	location, modality := f.location, f.modality
	isHighlighted := f.isHighlighted
	price := format.CleanPrice(f.price)
	tickets := f.tickets
	selected := append([]models.CategoryRef(nil), f.selected...)
	imageURL := f.imageURL
	staged := f.staged
	f.mu.Unlock()

	required := []struct{ name, value string }{
		{"title", title},
		{"description", description},
		{"date", date},
		{"time", timeOfDay},
		{"location", location},
		{"price", price},
		{"availableTickets", tickets},
	}
	for _, field := range required {
		if field.value == "" {
			return f.fail(models.NewMissingFieldError(field.name))
		}
	}

	at, err := format.ComposeTimestamp(date, timeOfDay)
	if err != nil {
		return f.fail(err)
	}

	if staged != nil {
		url, err := f.files.Upload(ctx, staged.name, bytes.NewReader(staged.data))
		if err != nil {
			return f.fail(models.NewPersistenceError(models.KindUploadFailed, "upload banner", err))
		}
		imageURL = url
	} else if imageURL == "" {
		imageURL = models.DefaultImageURL
	}

	fields := map[string]any{
		"title":            title,
		"description":      description,
		"date":             at,
		"time":             timeOfDay,
		"location":         location,
		"modality":         modality,
		"isHighlighted":    isHighlighted,
		"price":            price,
		"availableTickets": tickets,
		"categories":       selected,
		"imageUrl":         imageURL,
	}

	if id == "" {
		fields["createdBy"] = f.userID
		fields["attendees"] = 0
		id, err = f.docs.Create(ctx, store.EventsCollection, fields)
	} else {
		err = f.docs.Update(ctx, store.EventsCollection, id, fields)
	}
	if err != nil {
		return f.fail(err)
	}

	f.mu.Lock()
	f.state = StateSuccess
	f.id = id
	f.imageURL = imageURL
	f.staged = nil
	f.mu.Unlock()
	return id, nil
}

// fail records err and drops the session back to editing, keeping all field
// state for retry.
func (f *EventForm) fail(err error) (string, error) {
	f.mu.Lock()
	f.state = StateEditing
	f.lastErr = err
	f.mu.Unlock()
	return "", err
}
