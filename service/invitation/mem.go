package invitation

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/hivenote/spaces/platform/flake"
)

const invitationTTL = 14 * 24 * time.Hour

// Mem is a memory backed Service implementation. It acts as a stand-in for
// the spaces API in tests and offline development and enforces the same
// monotone lifecycle the server does. It does not model identity: Pending
// returns every pending invitation.
type Mem struct {
	mu          sync.Mutex
	invitations map[string]*Invitation
	members     map[string]map[string]struct{}
	spaces      map[string]string
	codes       map[string]CodeValidation
	user        string
}

// MemService returns a memory backed Service implementation.
func MemService() *Mem {
	return &Mem{
		invitations: map[string]*Invitation{},
		members:     map[string]map[string]struct{}{},
		spaces:      map[string]string{},
		codes:       map[string]CodeValidation{},
		user:        "member@mem.local",
	}
}

// AddSpace registers a space name resolved into created invitations.
func (s *Mem) AddSpace(id, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.spaces[id] = name
}

// AddMember marks the email as an existing member of the space, making
// further invitations for it fail.
func (s *Mem) AddMember(spaceID, email string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.memberSet(spaceID)[normalize(email)] = struct{}{}
}

// AddCode registers an invite code grant served by ValidateCode and
// JoinByCode.
func (s *Mem) AddCode(code, spaceID, spaceName string, role Role) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.spaces[spaceID] = spaceName
	s.codes[code] = CodeValidation{
		Valid:     true,
		SpaceID:   spaceID,
		SpaceName: spaceName,
		Role:      role,
	}
}

// SetUser sets the email JoinByCode joins as.
func (s *Mem) SetUser(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = normalize(email)
}

func (s *Mem) Accept(ctx context.Context, id string) (*Invitation, error) {
	return s.transition(id, StatusAccepted)
}

func (s *Mem) Create(ctx context.Context, input CreateInput) (*Invitation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.create(input.SpaceID, input.Email, input.Role)
}

func (s *Mem) CreateBulk(
	ctx context.Context,
	spaceID string,
	inputs []BulkInput,
) (*BulkResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := &BulkResult{
		Successful: List{},
		Failed:     []BulkFailure{},
	}

	for _, input := range inputs {
		i, err := s.create(spaceID, input.Email, input.Role)
		if err != nil {
			res.Failed = append(res.Failed, BulkFailure{
				Email:  input.Email,
				Reason: unwrapError(err).Error(),
			})

			continue
		}

		res.Successful = append(res.Successful, i)
	}

	return res, nil
}

func (s *Mem) Decline(ctx context.Context, id string) (*Invitation, error) {
	return s.transition(id, StatusDeclined)
}

func (s *Mem) JoinByCode(ctx context.Context, code string) (*Invitation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	grant, ok := s.codes[code]
	if !ok {
		return nil, wrapError(ErrNotFound, "unknown or expired code")
	}

	i, err := s.create(grant.SpaceID, s.user, grant.Role)
	if err != nil {
		return nil, err
	}

	s.invitations[i.ID].Status = StatusAccepted
	s.memberSet(grant.SpaceID)[i.InviteeEmail] = struct{}{}

	i.Status = StatusAccepted

	return i, nil
}

func (s *Mem) Pending(ctx context.Context) (List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ls := List{}

	for _, i := range s.invitations {
		if i.Status != StatusPending {
			continue
		}

		cp := *i
		ls = append(ls, &cp)
	}

	sort.Sort(ls)

	return ls, nil
}

func (s *Mem) Resend(ctx context.Context, id string) (*Invitation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.invitations[id]
	if !ok {
		return nil, wrapError(ErrNotFound, "invitation %s", id)
	}

	if i.Status.Terminal() {
		return nil, wrapError(ErrConflict, "invitation already %s", i.Status)
	}

	i.ExpiresAt = time.Now().UTC().Add(invitationTTL)

	cp := *i

	return &cp, nil
}

func (s *Mem) Revoke(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.invitations[id]
	if !ok {
		return wrapError(ErrNotFound, "invitation %s", id)
	}

	if i.Status.Terminal() {
		return wrapError(ErrConflict, "invitation already %s", i.Status)
	}

	delete(s.invitations, id)

	return nil
}

func (s *Mem) Space(ctx context.Context, spaceID string) (List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ls := List{}

	for _, i := range s.invitations {
		if i.SpaceID != spaceID {
			continue
		}

		cp := *i
		ls = append(ls, &cp)
	}

	sort.Sort(ls)

	return ls, nil
}

func (s *Mem) Stats(ctx context.Context, spaceID string) (Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := Stats{"total": 0}

	for _, i := range s.invitations {
		if i.SpaceID != spaceID {
			continue
		}

		stats["total"]++
		stats[string(i.Status)]++
	}

	return stats, nil
}

func (s *Mem) ValidateCode(ctx context.Context, code string) (*CodeValidation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	grant, ok := s.codes[code]
	if !ok {
		return &CodeValidation{
			Valid:  false,
			Reason: "unknown or expired code",
		}, nil
	}

	cp := grant

	return &cp, nil
}

func (s *Mem) create(spaceID, addr string, role Role) (*Invitation, error) {
	addr = normalize(addr)

	if _, ok := s.memberSet(spaceID)[addr]; ok {
		return nil, wrapError(ErrAlreadyMember, "%s is already a member", addr)
	}

	for _, i := range s.invitations {
		if i.SpaceID == spaceID && i.InviteeEmail == addr && i.Status == StatusPending {
			return nil, wrapError(ErrConflict, "%s is already invited", addr)
		}
	}

	now := time.Now().UTC()

	i := &Invitation{
		SpaceID:      spaceID,
		SpaceName:    s.spaces[spaceID],
		InviteeEmail: addr,
		Role:         role,
		Status:       StatusPending,
		CreatedAt:    now,
		ExpiresAt:    now.Add(invitationTTL),
	}

	if err := i.Validate(); err != nil {
		return nil, err
	}

	id, err := flake.NextID(entity)
	if err != nil {
		return nil, err
	}

	i.ID = strconv.FormatUint(id, 10)

	s.invitations[i.ID] = i

	cp := *i

	return &cp, nil
}

func (s *Mem) memberSet(spaceID string) map[string]struct{} {
	if _, ok := s.members[spaceID]; !ok {
		s.members[spaceID] = map[string]struct{}{}
	}

	return s.members[spaceID]
}

func (s *Mem) transition(id string, next Status) (*Invitation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.invitations[id]
	if !ok {
		return nil, wrapError(ErrNotFound, "invitation %s", id)
	}

	if !i.CanTransition(next) {
		return nil, wrapError(ErrConflict, "invitation already %s", i.Status)
	}

	i.Status = next

	if next == StatusAccepted {
		s.memberSet(i.SpaceID)[i.InviteeEmail] = struct{}{}
	}

	cp := *i

	return &cp, nil
}

func normalize(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}
