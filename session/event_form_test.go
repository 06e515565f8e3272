package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbevents/dashboard-go/models"
	"github.com/mbevents/dashboard-go/store"
)

func fillEventForm(f *EventForm) {
	f.SetField("title", "Festival de Inverno")
	f.SetField("description", "Três dias de shows")
	f.SetField("date", "31122025")
	f.SetField("time", "2000")
	f.SetField("location", "Parque da Cidade")
	f.SetField("price", "1500,00")
	f.SetField("availableTickets", "300")
}

func TestEventFormCreate(t *testing.T) {
	docs := newFakeDocs()
	files := &fakeFiles{}
	f := NewEventForm(docs, files, "user-1")
	f.Load(nil)
	require.Equal(t, StateEditing, f.State())

	fillEventForm(f)
	f.SetHighlighted(true)
	f.ToggleCategory(models.Category{ID: "c1", Name: "Música"})

	id, err := f.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "doc-1", id)
	assert.Equal(t, StateSuccess, f.State())

	require.Equal(t, 1, docs.createCalls)
	assert.Equal(t, store.EventsCollection, docs.collection)
	assert.Equal(t, "Festival de Inverno", docs.fields["title"])
	assert.Equal(t, "1500.00", docs.fields["price"], "stored price is canonical")
	assert.Equal(t, "300", docs.fields["availableTickets"])
	assert.Equal(t, "20:00", docs.fields["time"])
	assert.Equal(t, time.Date(2025, time.December, 31, 20, 0, 0, 0, time.Local), docs.fields["date"])
	assert.Equal(t, "user-1", docs.fields["createdBy"])
	assert.Equal(t, 0, docs.fields["attendees"])
	assert.Equal(t, models.DefaultImageURL, docs.fields["imageUrl"], "placeholder when nothing staged")
	assert.Equal(t, []models.CategoryRef{{ID: "c1", Name: "Música"}}, docs.fields["categories"])
	assert.True(t, docs.fields["isHighlighted"].(bool))
	assert.Equal(t, 0, files.uploadCalls)
}

func TestEventFormFieldMasksApply(t *testing.T) {
	f := NewEventForm(newFakeDocs(), &fakeFiles{}, "user-1")
	f.Load(nil)

	f.SetField("price", "150000")
	assert.Equal(t, "R$ 150.000", f.Field("price"))

	f.SetField("date", "31122025")
	assert.Equal(t, "31/12/2025", f.Field("date"))

	f.SetField("time", "2575")
	assert.Equal(t, "23:59", f.Field("time"))

	f.SetField("availableTickets", "3a0b0")
	assert.Equal(t, "300", f.Field("availableTickets"))
}

func TestEventFormLoadConvertsCanonicalToDisplay(t *testing.T) {
	f := NewEventForm(newFakeDocs(), &fakeFiles{}, "user-1")
	f.Load(&models.Event{
		ID:               "ev-1",
		Title:            "Show",
		Description:      "desc",
		Date:             time.Date(2025, time.July, 5, 21, 30, 0, 0, time.Local),
		Location:         "Teatro",
		Modality:         models.ModalityOnline,
		Price:            "1500.00",
		AvailableTickets: "80",
		Categories:       []models.CategoryRef{{ID: "c1", Name: "Música"}},
		ImageURL:         "https://files.example.com/events/banner.png",
	})

	assert.Equal(t, "05/07/2025", f.Field("date"))
	assert.Equal(t, "21:30", f.Field("time"))
	assert.Equal(t, "R$ 1.500,00", f.Field("price"))
	assert.Equal(t, models.ModalityOnline, f.Field("modality"))
}

func TestEventFormUpdateKeepsIdentityFields(t *testing.T) {
	docs := newFakeDocs()
	f := NewEventForm(docs, &fakeFiles{}, "user-2")
	f.Load(&models.Event{
		ID:               "ev-1",
		Title:            "Show",
		Description:      "desc",
		Date:             time.Date(2025, time.July, 5, 21, 30, 0, 0, time.Local),
		Location:         "Teatro",
		Modality:         models.ModalityPresencial,
		Price:            "100.00",
		AvailableTickets: "80",
		ImageURL:         "https://files.example.com/events/banner.png",
	})
	f.SetField("title", "Show (nova data)")

	id, err := f.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ev-1", id)

	assert.Equal(t, 0, docs.createCalls)
	require.Equal(t, 1, docs.updateCalls)
	assert.Equal(t, "ev-1", docs.id)
	assert.Equal(t, "Show (nova data)", docs.fields["title"])
	assert.NotContains(t, docs.fields, "createdBy", "immutable after creation")
	assert.NotContains(t, docs.fields, "attendees", "server-owned counter")
	assert.Equal(t, "https://files.example.com/events/banner.png", docs.fields["imageUrl"], "existing banner kept")
}

func TestEventFormSubmitRequiresFields(t *testing.T) {
	docs := newFakeDocs()
	f := NewEventForm(docs, &fakeFiles{}, "user-1")
	f.Load(nil)
	fillEventForm(f)
	f.SetField("title", "")

	_, err := f.Submit(context.Background())
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "title", verr.Field)
	assert.Equal(t, 0, docs.createCalls, "validation errors never reach the store")
	assert.Equal(t, StateEditing, f.State(), "session stays editable")
	assert.Equal(t, "Três dias de shows", f.Field("description"), "entered state kept for retry")
}

func TestEventFormSubmitRejectsPartialDateTime(t *testing.T) {
	docs := newFakeDocs()
	f := NewEventForm(docs, &fakeFiles{}, "user-1")
	f.Load(nil)
	fillEventForm(f)
	f.SetField("time", "20") // incomplete

	_, err := f.Submit(context.Background())
	assert.ErrorIs(t, err, models.ErrInvalidDateTime)
	assert.Equal(t, 0, docs.createCalls)
	assert.ErrorIs(t, f.Err(), models.ErrInvalidDateTime)
}

func TestEventFormUploadFailureAbortsSubmit(t *testing.T) {
	docs := newFakeDocs()
	files := &fakeFiles{uploadErr: errors.New("storage down")}
	f := NewEventForm(docs, files, "user-1")
	f.Load(nil)
	fillEventForm(f)
	f.StageImage("banner.png", []byte{0x89, 0x50})

	_, err := f.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, models.KindUploadFailed, models.PersistenceKindOf(err))
	assert.Equal(t, 0, docs.createCalls, "no partial write after upload failure")
	assert.Equal(t, StateEditing, f.State())

	// The staged image survives the failure; a retry uploads it again.
	files.uploadErr = nil
	id, err := f.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "doc-1", id)
	assert.Equal(t, "https://files.example.com/events/banner.png", docs.fields["imageUrl"])
}

func TestEventFormSecondSubmitRejectedWhileInFlight(t *testing.T) {
	docs := newFakeDocs()
	docs.block = make(chan struct{})
	f := NewEventForm(docs, &fakeFiles{}, "user-1")
	f.Load(nil)
	fillEventForm(f)

	done := make(chan error, 1)
	go func() {
		_, err := f.Submit(context.Background())
		done <- err
	}()

	// Wait for the first submit to reach the store.
	require.Eventually(t, func() bool {
		return f.State() == StateSubmitting
	}, 2*time.Second, 5*time.Millisecond)

	_, err := f.Submit(context.Background())
	assert.ErrorIs(t, err, models.ErrSubmitInProgress)

	close(docs.block)
	require.NoError(t, <-done)
	assert.Equal(t, 1, docs.createCalls, "second submit issued no write")
}

func TestEventFormToggleCategory(t *testing.T) {
	f := NewEventForm(newFakeDocs(), &fakeFiles{}, "user-1")
	f.Load(nil)

	musica := models.Category{ID: "c1", Name: "Música"}
	teatro := models.Category{ID: "c2", Name: "Teatro"}

	f.ToggleCategory(musica)
	f.ToggleCategory(teatro)
	f.ToggleCategory(musica) // deselect
	assert.Equal(t, []models.CategoryRef{{ID: "c2", Name: "Teatro"}}, f.SelectedCategories())

	f.ToggleCategory(teatro)
	assert.Empty(t, f.SelectedCategories())
}

func TestEventFormPersistenceErrorKeepsState(t *testing.T) {
	docs := newFakeDocs()
	docs.createErr = models.NewPersistenceError(models.KindNetworkUnavailable, "create events", errors.New("dial tcp"))
	f := NewEventForm(docs, &fakeFiles{}, "user-1")
	f.Load(nil)
	fillEventForm(f)

	_, err := f.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, models.KindNetworkUnavailable, models.PersistenceKindOf(err))
	assert.Equal(t, StateEditing, f.State())

	docs.createErr = nil
	id, err := f.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "doc-1", id)
	assert.Equal(t, "Festival de Inverno", docs.fields["title"])
}
