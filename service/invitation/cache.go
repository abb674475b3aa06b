package invitation

import (
	"sync"
	"time"
)

// Filter narrows which invitations a consumer view renders.
type Filter struct {
	SpaceID string
	Status  Status
}

// Pagination captures view paging parameters.
type Pagination struct {
	Page    int
	PerPage int
}

// Cache is the client-side copy of server-owned invitations plus an overlay
// of optimistic updates awaiting confirmation. It starts cold and is
// repopulated by fetches; it is never authoritative.
type Cache struct {
	Pending     List
	Spaces      map[string]List
	Stats       map[string]Stats
	Optimistic  map[string]*Invitation
	Filter      Filter
	Pagination  Pagination
	IsLoading   bool
	IsCreating  bool
	IsActioning bool
	Err         string
	LastUpdated time.Time
}

func emptyCache() Cache {
	return Cache{
		Pending:    List{},
		Spaces:     map[string]List{},
		Stats:      map[string]Stats{},
		Optimistic: map[string]*Invitation{},
		Pagination: Pagination{Page: 1, PerPage: 20},
	}
}

// Effective returns the current view of the invitation with the given id:
// the optimistic overlay when present, the base record otherwise. This is
// the one place the overlay-over-base rule lives.
func (c Cache) Effective(id string) *Invitation {
	if i, ok := c.Optimistic[id]; ok {
		return i
	}

	if i := c.Pending.Find(id); i != nil {
		return i
	}

	for _, ls := range c.Spaces {
		if i := ls.Find(id); i != nil {
			return i
		}
	}

	return nil
}

// Action is the closed set of cache transitions understood by the reducer.
type Action interface {
	action()
}

// SetLoading toggles the fetch-in-flight flag. Turning it on always clears
// the error.
type SetLoading struct {
	Loading bool
}

// SetCreating toggles the create-in-flight flag. Turning it on always clears
// the error.
type SetCreating struct {
	Creating bool
}

// SetError records a failed operation. An error always terminates whatever
// was in flight.
type SetError struct {
	Message string
}

// ClearError clears the error and nothing else.
type ClearError struct{}

// SetPending replaces the pending invitations wholesale.
type SetPending struct {
	Invitations List
}

// SetSpace replaces the invitations of one space wholesale.
type SetSpace struct {
	SpaceID     string
	Invitations List
}

// AddInvitation prepends a freshly created invitation.
type AddInvitation struct {
	Invitation *Invitation
}

// UpdateInvitation applies the authoritative server value in every slice the
// id appears in and drops any overlay for it.
type UpdateInvitation struct {
	Invitation *Invitation
}

// RemoveInvitation filters the id out of every slice.
type RemoveInvitation struct {
	ID string
}

// SetStats records the aggregate counters for a space.
type SetStats struct {
	SpaceID string
	Stats   Stats
}

// OptimisticStatus projects a provisional status change for the id before
// the server has confirmed it.
type OptimisticStatus struct {
	ID     string
	Status Status
}

// RevertOptimistic discards the provisional value for the id, restoring the
// pre-dispatch view.
type RevertOptimistic struct {
	ID string
}

// SetFilter replaces the view filter and resets to the first page.
type SetFilter struct {
	Filter Filter
}

// SetPagination replaces the view paging parameters.
type SetPagination struct {
	Pagination Pagination
}

func (SetLoading) action()       {}
func (SetCreating) action()      {}
func (SetError) action()         {}
func (ClearError) action()       {}
func (SetPending) action()       {}
func (SetSpace) action()         {}
func (AddInvitation) action()    {}
func (UpdateInvitation) action() {}
func (RemoveInvitation) action() {}
func (SetStats) action()         {}
func (OptimisticStatus) action() {}
func (RevertOptimistic) action() {}
func (SetFilter) action()        {}
func (SetPagination) action()    {}

// apply is the pure transition function over Cache. The input state is never
// mutated, inner maps and slices are copied before they change, and an
// unhandled action returns the state untouched.
func apply(c Cache, a Action) Cache {
	switch a := a.(type) {
	case SetLoading:
		c.IsLoading = a.Loading

		if a.Loading {
			c.Err = ""
		}

		return c
	case SetCreating:
		c.IsCreating = a.Creating

		if a.Creating {
			c.Err = ""
		}

		return c
	case SetError:
		c.Err = a.Message
		c.IsLoading = false
		c.IsCreating = false
		c.IsActioning = false

		return c
	case ClearError:
		c.Err = ""

		return c
	case SetPending:
		c.Pending = append(List{}, a.Invitations...)
		c.IsLoading = false
		c.LastUpdated = time.Now().UTC()

		return c
	case SetSpace:
		spaces := copySpaces(c.Spaces)
		spaces[a.SpaceID] = append(List{}, a.Invitations...)

		c.Spaces = spaces
		c.IsLoading = false
		c.LastUpdated = time.Now().UTC()

		return c
	case AddInvitation:
		c.Pending = append(List{a.Invitation}, c.Pending...)
		c.IsCreating = false
		c.LastUpdated = time.Now().UTC()

		return c
	case UpdateInvitation:
		c.Pending = replaceByID(c.Pending, a.Invitation)

		spaces := copySpaces(c.Spaces)

		for id, ls := range spaces {
			spaces[id] = replaceByID(ls, a.Invitation)
		}

		c.Spaces = spaces
		c.Optimistic = withoutOverlay(c.Optimistic, a.Invitation.ID)
		c.IsActioning = false
		c.IsLoading = false
		c.LastUpdated = time.Now().UTC()

		return c
	case RemoveInvitation:
		c.Pending = withoutID(c.Pending, a.ID)

		spaces := copySpaces(c.Spaces)

		for id, ls := range spaces {
			spaces[id] = withoutID(ls, a.ID)
		}

		c.Spaces = spaces
		c.Optimistic = withoutOverlay(c.Optimistic, a.ID)
		c.IsLoading = false
		c.LastUpdated = time.Now().UTC()

		return c
	case SetStats:
		stats := map[string]Stats{}

		for id, s := range c.Stats {
			stats[id] = s
		}

		stats[a.SpaceID] = a.Stats

		c.Stats = stats
		c.LastUpdated = time.Now().UTC()

		return c
	case OptimisticStatus:
		base := c.Pending.Find(a.ID)
		if base == nil || base.Status.Terminal() {
			// Nothing to project from.
			return c
		}

		provisional := *base
		provisional.Status = a.Status

		overlay := map[string]*Invitation{}

		for id, i := range c.Optimistic {
			overlay[id] = i
		}

		overlay[a.ID] = &provisional

		c.Optimistic = overlay
		c.IsActioning = true

		return c
	case RevertOptimistic:
		c.Optimistic = withoutOverlay(c.Optimistic, a.ID)
		c.IsActioning = false

		return c
	case SetFilter:
		c.Filter = a.Filter
		c.Pagination.Page = 1

		return c
	case SetPagination:
		c.Pagination = a.Pagination

		return c
	}

	return c
}

func copySpaces(spaces map[string]List) map[string]List {
	cp := map[string]List{}

	for id, ls := range spaces {
		cp[id] = ls
	}

	return cp
}

func replaceByID(ls List, inv *Invitation) List {
	if ls.Find(inv.ID) == nil {
		return ls
	}

	next := List{}

	for _, i := range ls {
		if i.ID == inv.ID {
			next = append(next, inv)
		} else {
			next = append(next, i)
		}
	}

	return next
}

func withoutID(ls List, id string) List {
	if ls.Find(id) == nil {
		return ls
	}

	next := List{}

	for _, i := range ls {
		if i.ID != id {
			next = append(next, i)
		}
	}

	return next
}

func withoutOverlay(overlay map[string]*Invitation, id string) map[string]*Invitation {
	if _, ok := overlay[id]; !ok {
		return overlay
	}

	cp := map[string]*Invitation{}

	for oid, i := range overlay {
		if oid != id {
			cp[oid] = i
		}
	}

	return cp
}

// Store owns a Cache and serializes every mutation through Dispatch. A Store
// handle must be constructed explicitly and threaded to all code operating
// on it; there is no package-level instance.
type Store struct {
	mu    sync.RWMutex
	cache Cache
}

// NewStore returns a Store with an empty cache, ready to be populated by
// fetches.
func NewStore() *Store {
	return &Store{cache: emptyCache()}
}

// Dispatch applies the action atomically. Dispatches racing on the same
// invitation id resolve last-writer-wins in arrival order.
func (s *Store) Dispatch(a Action) {
	s.mu.Lock()
	s.cache = apply(s.cache, a)
	s.mu.Unlock()
}

// View returns a snapshot of the cache. Inner slices and maps are shared
// copy-on-write with future states and must be treated as read-only.
func (s *Store) View() Cache {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.cache
}

// Effective returns the current view of the invitation with the given id.
func (s *Store) Effective(id string) *Invitation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.cache.Effective(id)
}

// ClearError drops a surfaced error from the cache.
func (s *Store) ClearError() {
	s.Dispatch(ClearError{})
}

// SetFilter replaces the view filter.
func (s *Store) SetFilter(f Filter) {
	s.Dispatch(SetFilter{Filter: f})
}

// SetPagination replaces the view paging parameters.
func (s *Store) SetPagination(p Pagination) {
	s.Dispatch(SetPagination{Pagination: p})
}
