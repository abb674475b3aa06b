package invitation

import (
	"context"
	"time"

	"github.com/go-kit/kit/log"
)

type logService struct {
	logger log.Logger
	next   Service
}

// LogServiceMiddleware given a logger wraps the next Service with logging
// capabilities.
func LogServiceMiddleware(logger log.Logger, store string) ServiceMiddleware {
	return func(next Service) Service {
		logger = log.With(
			logger,
			"service", entity,
			"store", store,
		)

		return &logService{logger: logger, next: next}
	}
}

func (s *logService) Accept(ctx context.Context, id string) (output *Invitation, err error) {
	defer func(begin time.Time) {
		s.log("Accept", begin, err, "invitation_id", id)
	}(time.Now())

	return s.next.Accept(ctx, id)
}

func (s *logService) Create(ctx context.Context, input CreateInput) (output *Invitation, err error) {
	defer func(begin time.Time) {
		s.log("Create", begin, err,
			"invitee_email", input.Email,
			"space_id", input.SpaceID,
		)
	}(time.Now())

	return s.next.Create(ctx, input)
}

func (s *logService) CreateBulk(
	ctx context.Context,
	spaceID string,
	inputs []BulkInput,
) (res *BulkResult, err error) {
	defer func(begin time.Time) {
		ps := []interface{}{
			"input_len", len(inputs),
			"space_id", spaceID,
		}

		if res != nil {
			ps = append(ps,
				"failed_len", len(res.Failed),
				"successful_len", len(res.Successful),
			)
		}

		s.log("CreateBulk", begin, err, ps...)
	}(time.Now())

	return s.next.CreateBulk(ctx, spaceID, inputs)
}

func (s *logService) Decline(ctx context.Context, id string) (output *Invitation, err error) {
	defer func(begin time.Time) {
		s.log("Decline", begin, err, "invitation_id", id)
	}(time.Now())

	return s.next.Decline(ctx, id)
}

func (s *logService) JoinByCode(ctx context.Context, code string) (output *Invitation, err error) {
	defer func(begin time.Time) {
		s.log("JoinByCode", begin, err)
	}(time.Now())

	return s.next.JoinByCode(ctx, code)
}

func (s *logService) Pending(ctx context.Context) (list List, err error) {
	defer func(begin time.Time) {
		s.log("Pending", begin, err, "invitation_len", len(list))
	}(time.Now())

	return s.next.Pending(ctx)
}

func (s *logService) Resend(ctx context.Context, id string) (output *Invitation, err error) {
	defer func(begin time.Time) {
		s.log("Resend", begin, err, "invitation_id", id)
	}(time.Now())

	return s.next.Resend(ctx, id)
}

func (s *logService) Revoke(ctx context.Context, id string) (err error) {
	defer func(begin time.Time) {
		s.log("Revoke", begin, err, "invitation_id", id)
	}(time.Now())

	return s.next.Revoke(ctx, id)
}

func (s *logService) Space(ctx context.Context, spaceID string) (list List, err error) {
	defer func(begin time.Time) {
		s.log("Space", begin, err,
			"invitation_len", len(list),
			"space_id", spaceID,
		)
	}(time.Now())

	return s.next.Space(ctx, spaceID)
}

func (s *logService) Stats(ctx context.Context, spaceID string) (stats Stats, err error) {
	defer func(begin time.Time) {
		s.log("Stats", begin, err, "space_id", spaceID)
	}(time.Now())

	return s.next.Stats(ctx, spaceID)
}

func (s *logService) ValidateCode(ctx context.Context, code string) (v *CodeValidation, err error) {
	defer func(begin time.Time) {
		s.log("ValidateCode", begin, err)
	}(time.Now())

	return s.next.ValidateCode(ctx, code)
}

func (s *logService) log(method string, begin time.Time, err error, fields ...interface{}) {
	ps := append([]interface{}{
		"duration_ns", time.Since(begin).Nanoseconds(),
		"method", method,
	}, fields...)

	if err != nil {
		ps = append(ps, "err", err)
	}

	_ = s.logger.Log(ps...)
}
