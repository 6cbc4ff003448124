package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/example/certbatch/internal/core/destination"
	"github.com/example/certbatch/internal/ports/secondary"
)

// Destination is a recipient's resolved folder.
type Destination struct {
	FolderID           string
	Name               string
	ShareableReference string
}

// DestinationResolver finds or creates the per-recipient folder under a
// parent folder. Lookup always precedes creation.
type DestinationResolver struct {
	store secondary.FolderStore

	// Serializes find-or-create per (parent, name) when recipients run
	// concurrently, so two workers never both miss and both create.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewDestinationResolver creates a DestinationResolver with injected dependencies.
func NewDestinationResolver(store secondary.FolderStore) *DestinationResolver {
	return &DestinationResolver{
		store: store,
		locks: make(map[string]*sync.Mutex),
	}
}

// Resolve returns the folder for recipientName under parentID, creating it
// if it does not exist yet.
func (r *DestinationResolver) Resolve(ctx context.Context, parentID, recipientName string) (*Destination, error) {
	if parentID == "" {
		return nil, ErrInvalidDestination
	}

	name := destination.FolderName(recipientName)

	lock := r.lockFor(parentID + "\x00" + name)
	lock.Lock()
	defer lock.Unlock()

	id, found, err := r.store.FindFolder(ctx, parentID, name)
	if err != nil {
		return nil, fmt.Errorf("Failed to create user folder: %w", err)
	}

	if !found {
		id, err = r.store.CreateFolder(ctx, parentID, name)
		if err != nil {
			return nil, fmt.Errorf("Failed to create user folder: %w", err)
		}
	}

	if id == "" {
		return nil, fmt.Errorf("Failed to create user folder: storage returned an empty folder id")
	}

	return &Destination{
		FolderID:           id,
		Name:               name,
		ShareableReference: r.store.FolderURL(id),
	}, nil
}

func (r *DestinationResolver) lockFor(key string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.locks[key]
	if !ok {
		l = &sync.Mutex{}
		r.locks[key] = l
	}
	return l
}
