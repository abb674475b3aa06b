package invitation

import (
	"context"
	"time"

	"github.com/asaskevich/govalidator"
)

const entity = "invitation"

// Supported statuses for invitations. StatusPending is the only non-terminal
// status and the one every server-created invitation starts in.
const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusDeclined Status = "declined"
	StatusRevoked  Status = "revoked"
	StatusExpired  Status = "expired"
)

// Supported roles for invitations.
const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Role of the invitee inside the space once the invitation is accepted.
type Role string

// Status of an invitation lifecycle.
type Status string

// Terminal indicates if the status permits no further transitions.
func (s Status) Terminal() bool {
	switch s {
	case StatusAccepted, StatusDeclined, StatusRevoked, StatusExpired:
		return true
	}

	return false
}

// Invitation represents an offer to join a space. Records are server-owned;
// clients hold copies reconciled by fetches and action responses.
type Invitation struct {
	ID           string    `json:"id"`
	SpaceID      string    `json:"space_id"`
	SpaceName    string    `json:"space_name"`
	InviterEmail string    `json:"inviter_email"`
	InviterName  string    `json:"inviter_name"`
	InviteeEmail string    `json:"invitee_email"`
	Role         Role      `json:"role"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// CanTransition indicates if the status change adheres to the monotone
// lifecycle: only a pending invitation can move, and never back to pending.
func (i Invitation) CanTransition(next Status) bool {
	return i.Status == StatusPending && next != StatusPending && next.Terminal()
}

// Validate performs checks on the Invitation values for completeness and
// correctness.
func (i Invitation) Validate() error {
	if i.SpaceID == "" {
		return wrapError(ErrInvalidInvitation, "space id not set")
	}

	if ok := govalidator.IsEmail(i.InviteeEmail); !ok {
		return wrapError(ErrInvalidInvitation, "invitee email invalid")
	}

	switch i.Role {
	case RoleAdmin, RoleMember:
		// valid
	default:
		return wrapError(ErrInvalidInvitation, "invalid role")
	}

	switch i.Status {
	case StatusPending, StatusAccepted, StatusDeclined, StatusRevoked, StatusExpired:
		// valid
	default:
		return wrapError(ErrInvalidInvitation, "invalid status")
	}

	return nil
}

// List is a collection of Invitations ordered newest first.
type List []*Invitation

func (l List) Len() int {
	return len(l)
}

func (l List) Less(i, j int) bool {
	return l[i].CreatedAt.After(l[j].CreatedAt)
}

func (l List) Swap(i, j int) {
	l[i], l[j] = l[j], l[i]
}

// Find returns the Invitation with the given id, or nil.
func (l List) Find(id string) *Invitation {
	for _, i := range l {
		if i.ID == id {
			return i
		}
	}

	return nil
}

// IDs returns the extracted ID of all invitations as list.
func (l List) IDs() []string {
	ids := []string{}

	for _, i := range l {
		ids = append(ids, i.ID)
	}

	return ids
}

// Stats is an opaque set of aggregate counters for a space, passed through
// from the server.
type Stats map[string]int

// CreateInput carries the values for a single invitation create.
type CreateInput struct {
	Email   string `json:"email"`
	SpaceID string `json:"space_id"`
	Role    Role   `json:"role"`
	Message string `json:"message,omitempty"`
}

// BulkInput carries the values for one invitee of a bulk create.
type BulkInput struct {
	Email   string `json:"email"`
	Role    Role   `json:"role"`
	Message string `json:"message,omitempty"`
}

// BulkFailure reports one invitee a bulk create could not invite.
type BulkFailure struct {
	Email  string `json:"email"`
	Reason string `json:"reason"`
}

// BulkResult is the mixed outcome of a bulk create. Successful and Failed are
// disjoint and partial failure is expected, not exceptional.
type BulkResult struct {
	Successful List          `json:"successful"`
	Failed     []BulkFailure `json:"failed"`
}

// CodeValidation is the outcome of checking an invite code before joining.
type CodeValidation struct {
	Valid     bool   `json:"valid"`
	SpaceID   string `json:"space_id,omitempty"`
	SpaceName string `json:"space_name,omitempty"`
	Role      Role   `json:"role,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// Service is the transport abstraction for Invitation interactions with the
// spaces API.
type Service interface {
	Accept(ctx context.Context, id string) (*Invitation, error)
	Create(ctx context.Context, input CreateInput) (*Invitation, error)
	CreateBulk(ctx context.Context, spaceID string, inputs []BulkInput) (*BulkResult, error)
	Decline(ctx context.Context, id string) (*Invitation, error)
	JoinByCode(ctx context.Context, code string) (*Invitation, error)
	Pending(ctx context.Context) (List, error)
	Resend(ctx context.Context, id string) (*Invitation, error)
	Revoke(ctx context.Context, id string) error
	Space(ctx context.Context, spaceID string) (List, error)
	Stats(ctx context.Context, spaceID string) (Stats, error)
	ValidateCode(ctx context.Context, code string) (*CodeValidation, error)
}

// ServiceMiddleware is a chainable behaviour modifier for Service.
type ServiceMiddleware func(Service) Service
