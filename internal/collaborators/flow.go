package collaborators

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/brackethq/bracket/api"
	"github.com/brackethq/bracket/internal/logging"
	"github.com/brackethq/bracket/internal/notify"
	"github.com/brackethq/bracket/internal/validate"
)

const (
	LoadFailedTitle   = "Could not load collaborators"
	InviteFailedTitle = "Could not add collaborator"
	RevokeFailedTitle = "Could not remove collaborator"
)

// Authority is the part of the API client used by the flow.
type Authority interface {
	Lister
	AddCollaborator(ctx context.Context, req *api.AddCollaboratorRequest) (*api.SuccessResponse, error)
	RemoveCollaborator(ctx context.Context, club api.ClubID, user api.UserID) error
}

// Flow lists, invites, and revokes the collaborators of clubs. A Flow is safe
// for concurrent use.
type Flow struct {
	authority Authority
	cache     *Cache
	notifier  notify.Notifier
}

// NewFlow returns a Flow. A nil cache gets a new Cache reading from authority.
func NewFlow(authority Authority, cache *Cache, notifier notify.Notifier) *Flow {
	if cache == nil {
		cache = NewCache(authority)
	}
	if notifier == nil {
		notifier = &notify.Recorder{}
	}
	return &Flow{authority: authority, cache: cache, notifier: notifier}
}

// Cache returns the cache the flow reads through.
func (f *Flow) Cache() *Cache {
	return f.cache
}

// List returns the collaborators of club, from the cache when it holds a
// current snapshot.
func (f *Flow) List(ctx context.Context, club api.ClubID) (Snapshot, error) {
	snapshot, err := f.cache.Get(ctx, club)
	if err != nil {
		f.notifier.Error(LoadFailedTitle, err)
		return snapshot, err
	}
	return snapshot, nil
}

// Invite grants the user with email access to club. Malformed input fails with
// a validate.Error before anything is sent. After the authority accepts the
// invite the list is read again; the invited user is never added to the cached
// list directly.
func (f *Flow) Invite(ctx context.Context, club api.ClubID, email string) (Snapshot, error) {
	req := &api.AddCollaboratorRequest{ClubID: club, Email: email}
	if err := validate.Validate(req); err != nil {
		return f.cache.Peek(club), err
	}

	logging.Debugf("adding %s to club %d", email, club)
	if _, err := f.authority.AddCollaborator(ctx, req); err != nil {
		f.notifier.Error(InviteFailedTitle, err)
		return f.cache.Peek(club), err
	}

	return f.refresh(ctx, club)
}

// Revoke removes the access of user to club, then reads the list again. When
// the authority rejects the removal the cached list is unchanged.
func (f *Flow) Revoke(ctx context.Context, club api.ClubID, user api.UserID) (Snapshot, error) {
	logging.Debugf("removing user %d from club %d", user, club)
	if err := f.authority.RemoveCollaborator(ctx, club, user); err != nil {
		f.notifier.Error(RevokeFailedTitle, err)
		return f.cache.Peek(club), err
	}

	return f.refresh(ctx, club)
}

// RevokeAll revokes every user concurrently. Each revoke is followed by its own
// read of the list; the snapshot returned is the one left in the cache once
// all of them finished. Every failure is reported to the notifier and the
// first one is returned.
func (f *Flow) RevokeAll(ctx context.Context, club api.ClubID, users ...api.UserID) (Snapshot, error) {
	var group errgroup.Group
	for _, user := range users {
		user := user
		group.Go(func() error {
			_, err := f.Revoke(ctx, club, user)
			return err
		})
	}

	err := group.Wait()
	return f.cache.Peek(club), err
}

func (f *Flow) refresh(ctx context.Context, club api.ClubID) (Snapshot, error) {
	snapshot, err := f.cache.Refetch(ctx, club)
	if err != nil {
		f.cache.Invalidate(club)
		f.notifier.Error(LoadFailedTitle, err)
		return snapshot, fmt.Errorf("refresh collaborators: %w", err)
	}
	return snapshot, nil
}
