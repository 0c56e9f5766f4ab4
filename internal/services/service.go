// Package services implements the shopping list and item commands. Every
// command takes the caller identity explicitly, authorizes through the guard
// and then touches the store.
package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/localnerve/jam-build-shoplist/internal/authz"
	"github.com/localnerve/jam-build-shoplist/internal/identity"
	"github.com/localnerve/jam-build-shoplist/internal/repository"
	"github.com/localnerve/jam-build-shoplist/internal/types"
)

// Option configures a service
type Option func(*deps)

// WithClock replaces the wall clock used for timestamps
func WithClock(now func() time.Time) Option {
	return func(d *deps) {
		d.now = now
	}
}

// WithIDGenerator replaces the generator used for new entity ids
func WithIDGenerator(newID func() string) Option {
	return func(d *deps) {
		d.newID = newID
	}
}

type deps struct {
	store repository.Store
	guard *authz.Guard
	now   func() time.Time
	newID func() string
}

func newDeps(store repository.Store, opts []Option) deps {
	d := deps{
		store: store,
		guard: authz.NewGuard(store),
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// timestamp returns the current time at the precision every store keeps
func (d *deps) timestamp() time.Time {
	return d.now().UTC().Truncate(time.Millisecond)
}

func requireCaller(caller identity.Identity) error {
	if !caller.Authenticated() {
		return types.Unauthenticated("Caller identity is missing or invalid.")
	}
	return nil
}

// guardError translates a guard failure. listNotFoundCode differs between
// list commands and item commands.
func guardError(err error, listNotFoundCode, shoppingListID string) error {
	params := map[string]any{"shoppingListId": shoppingListID}
	switch {
	case errors.Is(err, authz.ErrListNotFound):
		return types.NotFound(listNotFoundCode, "Shopping list does not exist.", params)
	case errors.Is(err, authz.ErrForbidden):
		return types.NotAuthorized("Caller is not authorized to perform this command on the shopping list.", params)
	}
	return types.SystemError(err)
}
