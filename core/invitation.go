package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/hivenote/spaces/platform/email"
	"github.com/hivenote/spaces/service/invitation"
)

// Fallback messages surfaced on the cache when the transport carries no
// server-supplied message.
const (
	msgAcceptFailed   = "Failed to accept invitation"
	msgCreateFailed   = "Failed to create invitation"
	msgDeclineFailed  = "Failed to decline invitation"
	msgFetchFailed    = "Failed to load invitations"
	msgJoinFailed     = "Failed to join space"
	msgResendFailed   = "Failed to resend invitation"
	msgRevokeFailed   = "Failed to revoke invitation"
	msgStatsFailed    = "Failed to load invitation stats"
	msgValidateFailed = "Failed to validate invite code"
)

// InvitationAcceptFunc accepts the pending invitation, reflecting the new
// status optimistically before the server confirms it.
type InvitationAcceptFunc func(
	ctx context.Context,
	id string,
) (*invitation.Invitation, error)

// InvitationAccept returns the accept operation bound to the given transport
// and store.
func InvitationAccept(
	invitations invitation.Service,
	store *invitation.Store,
) InvitationAcceptFunc {
	return func(ctx context.Context, id string) (*invitation.Invitation, error) {
		return transitionOptimistic(
			ctx,
			store,
			id,
			invitation.StatusAccepted,
			invitations.Accept,
			msgAcceptFailed,
		)
	}
}

// InvitationCreateFunc invites a single email to a space.
type InvitationCreateFunc func(
	ctx context.Context,
	input invitation.CreateInput,
) (*invitation.Invitation, error)

// InvitationCreate returns the create operation bound to the given transport
// and store. The invitee email is normalized and validated before any
// network round trip.
func InvitationCreate(
	invitations invitation.Service,
	store *invitation.Store,
) InvitationCreateFunc {
	return func(ctx context.Context, input invitation.CreateInput) (*invitation.Invitation, error) {
		normalized, err := email.Validate(input.Email)
		if err != nil {
			store.Dispatch(invitation.SetError{Message: err.Error()})

			return nil, wrapError(ErrInvalidEntity, "%s", err.Error())
		}

		input.Email = normalized

		store.Dispatch(invitation.SetCreating{Creating: true})

		i, err := invitations.Create(ctx, input)
		if err != nil {
			reportError(ctx, store, err, msgCreateFailed)

			return nil, err
		}

		if ctx.Err() != nil {
			return i, ctx.Err()
		}

		store.Dispatch(invitation.AddInvitation{Invitation: i})

		return i, nil
	}
}

// InvitationCreateBulkFunc invites many emails to a space at once. Partial
// failure is expected: the successful subset is committed to the cache and
// the failures are surfaced as one aggregate error message, without the call
// itself failing.
type InvitationCreateBulkFunc func(
	ctx context.Context,
	spaceID string,
	inputs []invitation.BulkInput,
) (*invitation.BulkResult, error)

// InvitationCreateBulk returns the bulk create operation bound to the given
// transport and store. Invalid addresses fail locally without a network
// round trip; duplicates collapse onto the first occurrence.
func InvitationCreateBulk(
	invitations invitation.Service,
	store *invitation.Store,
) InvitationCreateBulkFunc {
	return func(
		ctx context.Context,
		spaceID string,
		inputs []invitation.BulkInput,
	) (*invitation.BulkResult, error) {
		var (
			failed = []invitation.BulkFailure{}
			seen   = map[string]struct{}{}
			valid  = []invitation.BulkInput{}
		)

		for _, input := range inputs {
			normalized, err := email.Validate(input.Email)
			if err != nil {
				failed = append(failed, invitation.BulkFailure{
					Email:  input.Email,
					Reason: err.Error(),
				})

				continue
			}

			if _, ok := seen[normalized]; ok {
				continue
			}

			seen[normalized] = struct{}{}

			input.Email = normalized
			valid = append(valid, input)
		}

		store.Dispatch(invitation.SetCreating{Creating: true})

		res := &invitation.BulkResult{
			Successful: invitation.List{},
			Failed:     failed,
		}

		if len(valid) > 0 {
			out, err := invitations.CreateBulk(ctx, spaceID, valid)
			if err != nil {
				reportError(ctx, store, err, msgCreateFailed)

				return nil, err
			}

			res.Successful = out.Successful
			res.Failed = append(res.Failed, out.Failed...)
		}

		if ctx.Err() != nil {
			return res, ctx.Err()
		}

		for _, i := range res.Successful {
			store.Dispatch(invitation.AddInvitation{Invitation: i})
		}

		if len(res.Failed) > 0 {
			store.Dispatch(invitation.SetError{Message: bulkFailureMessage(res.Failed)})
		} else {
			store.Dispatch(invitation.SetCreating{Creating: false})
		}

		return res, nil
	}
}

// InvitationDeclineFunc declines the pending invitation, reflecting the new
// status optimistically before the server confirms it.
type InvitationDeclineFunc func(
	ctx context.Context,
	id string,
) (*invitation.Invitation, error)

// InvitationDecline returns the decline operation bound to the given
// transport and store.
func InvitationDecline(
	invitations invitation.Service,
	store *invitation.Store,
) InvitationDeclineFunc {
	return func(ctx context.Context, id string) (*invitation.Invitation, error) {
		return transitionOptimistic(
			ctx,
			store,
			id,
			invitation.StatusDeclined,
			invitations.Decline,
			msgDeclineFailed,
		)
	}
}

// InvitationJoinByCodeFunc joins a space with an invite code.
type InvitationJoinByCodeFunc func(
	ctx context.Context,
	code string,
) (*invitation.Invitation, error)

// InvitationJoinByCode returns the join operation bound to the given
// transport and store.
func InvitationJoinByCode(
	invitations invitation.Service,
	store *invitation.Store,
) InvitationJoinByCodeFunc {
	return func(ctx context.Context, code string) (*invitation.Invitation, error) {
		store.Dispatch(invitation.SetCreating{Creating: true})

		i, err := invitations.JoinByCode(ctx, code)
		if err != nil {
			reportError(ctx, store, err, msgJoinFailed)

			return nil, err
		}

		if ctx.Err() != nil {
			return i, ctx.Err()
		}

		store.Dispatch(invitation.AddInvitation{Invitation: i})

		return i, nil
	}
}

// InvitationResendFunc re-delivers a pending invitation, extending its
// expiry.
type InvitationResendFunc func(
	ctx context.Context,
	id string,
) (*invitation.Invitation, error)

// InvitationResend returns the resend operation bound to the given transport
// and store.
func InvitationResend(
	invitations invitation.Service,
	store *invitation.Store,
) InvitationResendFunc {
	return func(ctx context.Context, id string) (*invitation.Invitation, error) {
		store.Dispatch(invitation.SetLoading{Loading: true})

		i, err := invitations.Resend(ctx, id)
		if err != nil {
			reportError(ctx, store, err, msgResendFailed)

			return nil, err
		}

		if ctx.Err() != nil {
			return i, ctx.Err()
		}

		store.Dispatch(invitation.UpdateInvitation{Invitation: i})

		return i, nil
	}
}

// InvitationRevokeFunc withdraws an outstanding invitation.
type InvitationRevokeFunc func(ctx context.Context, id string) error

// InvitationRevoke returns the revoke operation bound to the given transport
// and store.
func InvitationRevoke(
	invitations invitation.Service,
	store *invitation.Store,
) InvitationRevokeFunc {
	return func(ctx context.Context, id string) error {
		store.Dispatch(invitation.SetLoading{Loading: true})

		err := invitations.Revoke(ctx, id)
		if err != nil {
			reportError(ctx, store, err, msgRevokeFailed)

			return err
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}

		store.Dispatch(invitation.RemoveInvitation{ID: id})

		return nil
	}
}

// InvitationStatsFunc refreshes the aggregate counters for a space.
type InvitationStatsFunc func(
	ctx context.Context,
	spaceID string,
) (invitation.Stats, error)

// InvitationStats returns the stats fetch bound to the given transport and
// store.
func InvitationStats(
	invitations invitation.Service,
	store *invitation.Store,
) InvitationStatsFunc {
	return func(ctx context.Context, spaceID string) (invitation.Stats, error) {
		stats, err := invitations.Stats(ctx, spaceID)
		if err != nil {
			reportError(ctx, store, err, msgStatsFailed)

			return nil, err
		}

		if ctx.Err() != nil {
			return stats, ctx.Err()
		}

		store.Dispatch(invitation.SetStats{SpaceID: spaceID, Stats: stats})

		return stats, nil
	}
}

// InvitationValidateCodeFunc checks an invite code without joining.
type InvitationValidateCodeFunc func(
	ctx context.Context,
	code string,
) (*invitation.CodeValidation, error)

// InvitationValidateCode returns the code check bound to the given transport
// and store. A bad code is a negative validation, not an error.
func InvitationValidateCode(
	invitations invitation.Service,
	store *invitation.Store,
) InvitationValidateCodeFunc {
	return func(ctx context.Context, code string) (*invitation.CodeValidation, error) {
		v, err := invitations.ValidateCode(ctx, code)
		if err != nil {
			reportError(ctx, store, err, msgValidateFailed)

			return nil, err
		}

		return v, nil
	}
}

// InvitationsPendingFunc refreshes the invitations the current user has
// received.
type InvitationsPendingFunc func(ctx context.Context) (invitation.List, error)

// InvitationsPending returns the pending fetch bound to the given transport
// and store. The fetched list replaces the cached slice wholesale.
func InvitationsPending(
	invitations invitation.Service,
	store *invitation.Store,
) InvitationsPendingFunc {
	return func(ctx context.Context) (invitation.List, error) {
		store.Dispatch(invitation.SetLoading{Loading: true})

		ls, err := invitations.Pending(ctx)
		if err != nil {
			reportError(ctx, store, err, msgFetchFailed)

			return nil, err
		}

		if ctx.Err() != nil {
			return ls, ctx.Err()
		}

		store.Dispatch(invitation.SetPending{Invitations: ls})

		return ls, nil
	}
}

// InvitationsSpaceFunc refreshes the outstanding invitations of a space.
type InvitationsSpaceFunc func(
	ctx context.Context,
	spaceID string,
) (invitation.List, error)

// InvitationsSpace returns the space fetch bound to the given transport and
// store. The fetched list replaces the cached slice wholesale.
func InvitationsSpace(
	invitations invitation.Service,
	store *invitation.Store,
) InvitationsSpaceFunc {
	return func(ctx context.Context, spaceID string) (invitation.List, error) {
		store.Dispatch(invitation.SetLoading{Loading: true})

		ls, err := invitations.Space(ctx, spaceID)
		if err != nil {
			reportError(ctx, store, err, msgFetchFailed)

			return nil, err
		}

		if ctx.Err() != nil {
			return ls, ctx.Err()
		}

		store.Dispatch(invitation.SetSpace{SpaceID: spaceID, Invitations: ls})

		return ls, nil
	}
}

func bulkFailureMessage(failed []invitation.BulkFailure) string {
	parts := []string{}

	for _, f := range failed {
		parts = append(parts, fmt.Sprintf("%s (%s)", f.Email, f.Reason))
	}

	return fmt.Sprintf("Failed to invite: %s", strings.Join(parts, ", "))
}

// reportError surfaces the mapped message on the cache unless the caller is
// gone. The error itself still travels back up the call chain.
func reportError(
	ctx context.Context,
	store *invitation.Store,
	err error,
	fallback string,
) {
	if ctx.Err() != nil {
		return
	}

	store.Dispatch(invitation.SetError{
		Message: invitation.Message(err, fallback),
	})
}

// transitionOptimistic projects the target status before the call and either
// reconciles with the server value or rolls the projection back. The
// rollback runs even when the caller is gone so no provisional value is left
// behind.
func transitionOptimistic(
	ctx context.Context,
	store *invitation.Store,
	id string,
	target invitation.Status,
	call func(context.Context, string) (*invitation.Invitation, error),
	fallback string,
) (*invitation.Invitation, error) {
	store.Dispatch(invitation.OptimisticStatus{ID: id, Status: target})

	i, err := call(ctx, id)
	if err != nil {
		store.Dispatch(invitation.RevertOptimistic{ID: id})
		reportError(ctx, store, err, fallback)

		return nil, err
	}

	if ctx.Err() != nil {
		store.Dispatch(invitation.RevertOptimistic{ID: id})

		return i, ctx.Err()
	}

	store.Dispatch(invitation.UpdateInvitation{Invitation: i})

	return i, nil
}
