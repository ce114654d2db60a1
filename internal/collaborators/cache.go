// Package collaborators manages who has access to a club. The list is read
// from the authority and kept in a Cache; mutations never edit the cached
// list, they re-read it once they succeed.
package collaborators

import (
	"context"
	"sync"

	"github.com/brackethq/bracket/api"
	"github.com/brackethq/bracket/internal/logging"
)

// Lister reads the collaborators of a club from the authority.
type Lister interface {
	ListCollaborators(ctx context.Context, club api.ClubID) (*api.DataResponse[api.Collaborator], error)
}

// Snapshot is the collaborator list of one club as last read from the
// authority. A Snapshot that was never loaded is distinct from a loaded
// empty list.
type Snapshot struct {
	Collaborators []api.Collaborator
	Loaded        bool
}

// Empty is true when the list was loaded and has no collaborators.
func (s Snapshot) Empty() bool {
	return s.Loaded && len(s.Collaborators) == 0
}

// Contains reports whether user is in the list.
func (s Snapshot) Contains(user api.UserID) bool {
	for _, c := range s.Collaborators {
		if c.ID == user {
			return true
		}
	}
	return false
}

type entry struct {
	snapshot Snapshot
	stale    bool
	// issued is the sequence number of the most recently started read, and
	// applied the sequence of the read the snapshot came from.
	issued  uint64
	applied uint64
}

// Cache holds one Snapshot per club. Snapshots are replaced wholesale by each
// read. When reads of the same club overlap, the result of the read issued
// last is kept, whatever order the responses arrive in.
//
// A Cache is safe for concurrent use.
type Cache struct {
	lister Lister

	mu      sync.Mutex
	entries map[api.ClubID]*entry
}

func NewCache(lister Lister) *Cache {
	return &Cache{
		lister:  lister,
		entries: make(map[api.ClubID]*entry),
	}
}

// Peek returns the cached snapshot of club without contacting the authority.
func (c *Cache) Peek(club api.ClubID) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[club]
	if !ok {
		return Snapshot{}
	}
	return e.snapshot.clone()
}

// Get returns the cached snapshot of club, reading it from the authority when
// it was never loaded or was invalidated.
func (c *Cache) Get(ctx context.Context, club api.ClubID) (Snapshot, error) {
	c.mu.Lock()
	e, ok := c.entries[club]
	if ok && e.snapshot.Loaded && !e.stale {
		snapshot := e.snapshot.clone()
		c.mu.Unlock()
		return snapshot, nil
	}
	c.mu.Unlock()

	return c.Refetch(ctx, club)
}

// Invalidate marks the snapshot of club as stale. The stale snapshot is still
// returned by Peek until the next read replaces it.
func (c *Cache) Invalidate(club api.ClubID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[club]; ok {
		e.stale = true
	}
}

// Refetch reads the collaborators of club from the authority and replaces the
// cached snapshot. When the read fails the cached snapshot is left as it was
// and returned along with the error.
func (c *Cache) Refetch(ctx context.Context, club api.ClubID) (Snapshot, error) {
	c.mu.Lock()
	e := c.entry(club)
	e.issued++
	seq := e.issued
	c.mu.Unlock()

	resp, err := c.lister.ListCollaborators(ctx, club)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		return e.snapshot.clone(), err
	}

	if seq <= e.applied {
		logging.Debugf("discarding collaborators of club %d from read %d, read %d already applied", club, seq, e.applied)
		return e.snapshot.clone(), nil
	}

	e.applied = seq
	e.stale = false
	e.snapshot = Snapshot{
		Collaborators: append([]api.Collaborator{}, resp.Data...),
		Loaded:        true,
	}
	return e.snapshot.clone(), nil
}

// entry must be called with c.mu held.
func (c *Cache) entry(club api.ClubID) *entry {
	e, ok := c.entries[club]
	if !ok {
		e = &entry{}
		c.entries[club] = e
	}
	return e
}

func (s Snapshot) clone() Snapshot {
	if s.Collaborators != nil {
		s.Collaborators = append([]api.Collaborator{}, s.Collaborators...)
	}
	return s
}
