package session

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// fakeDocs is an in-memory DocumentStore recording the last write.
type fakeDocs struct {
	mu          sync.Mutex
	nextID      int
	createCalls int
	updateCalls int
	deleteCalls int
	collection  string
	id          string
	fields      map[string]any
	deleted     []string

	createErr error
	updateErr error
	deleteErr error
	block     chan struct{} // when set, writes wait here first
}

func newFakeDocs() *fakeDocs { return &fakeDocs{nextID: 1} }

func (f *fakeDocs) wait() {
	f.mu.Lock()
	block := f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
}

func (f *fakeDocs) Create(ctx context.Context, collection string, fields map[string]any) (string, error) {
	f.wait()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.createErr != nil {
		return "", f.createErr
	}
	f.collection = collection
	f.fields = fields
	f.id = fmt.Sprintf("doc-%d", f.nextID)
	f.nextID++
	return f.id, nil
}

func (f *fakeDocs) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	f.wait()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	if f.updateErr != nil {
		return f.updateErr
	}
	f.collection = collection
	f.id = id
	f.fields = fields
	return nil
}

func (f *fakeDocs) Delete(ctx context.Context, collection, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.collection = collection
	f.deleted = append(f.deleted, id)
	return nil
}

// fakeFiles is an in-memory FileStore.
type fakeFiles struct {
	mu          sync.Mutex
	uploadCalls int
	deleteCalls int
	uploaded    []string
	deleted     []string

	uploadErr error
	deleteErr error
}

func (f *fakeFiles) Upload(ctx context.Context, name string, data io.Reader) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploadCalls++
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	url := "https://files.example.com/events/" + name
	f.uploaded = append(f.uploaded, url)
	return url, nil
}

func (f *fakeFiles) Delete(ctx context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, url)
	return nil
}
