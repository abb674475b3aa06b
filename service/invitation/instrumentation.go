package invitation

import (
	"context"
	"time"

	kitmetrics "github.com/go-kit/kit/metrics"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hivenote/spaces/platform/metrics"
)

type instrumentService struct {
	component string
	errCount  kitmetrics.Counter
	opCount   kitmetrics.Counter
	opLatency *prometheus.HistogramVec
	next      Service
	store     string
}

// InstrumentServiceMiddleware observes key aspects of Service operations and
// exposes Prometheus metrics.
func InstrumentServiceMiddleware(
	component, store string,
	errCount kitmetrics.Counter,
	opCount kitmetrics.Counter,
	opLatency *prometheus.HistogramVec,
) ServiceMiddleware {
	return func(next Service) Service {
		return &instrumentService{
			component: component,
			errCount:  errCount,
			opCount:   opCount,
			opLatency: opLatency,
			next:      next,
			store:     store,
		}
	}
}

func (s *instrumentService) Accept(ctx context.Context, id string) (output *Invitation, err error) {
	defer func(begin time.Time) {
		s.track("Accept", begin, err)
	}(time.Now())

	return s.next.Accept(ctx, id)
}

func (s *instrumentService) Create(
	ctx context.Context,
	input CreateInput,
) (output *Invitation, err error) {
	defer func(begin time.Time) {
		s.track("Create", begin, err)
	}(time.Now())

	return s.next.Create(ctx, input)
}

func (s *instrumentService) CreateBulk(
	ctx context.Context,
	spaceID string,
	inputs []BulkInput,
) (res *BulkResult, err error) {
	defer func(begin time.Time) {
		s.track("CreateBulk", begin, err)
	}(time.Now())

	return s.next.CreateBulk(ctx, spaceID, inputs)
}

func (s *instrumentService) Decline(ctx context.Context, id string) (output *Invitation, err error) {
	defer func(begin time.Time) {
		s.track("Decline", begin, err)
	}(time.Now())

	return s.next.Decline(ctx, id)
}

func (s *instrumentService) JoinByCode(ctx context.Context, code string) (output *Invitation, err error) {
	defer func(begin time.Time) {
		s.track("JoinByCode", begin, err)
	}(time.Now())

	return s.next.JoinByCode(ctx, code)
}

func (s *instrumentService) Pending(ctx context.Context) (list List, err error) {
	defer func(begin time.Time) {
		s.track("Pending", begin, err)
	}(time.Now())

	return s.next.Pending(ctx)
}

func (s *instrumentService) Resend(ctx context.Context, id string) (output *Invitation, err error) {
	defer func(begin time.Time) {
		s.track("Resend", begin, err)
	}(time.Now())

	return s.next.Resend(ctx, id)
}

func (s *instrumentService) Revoke(ctx context.Context, id string) (err error) {
	defer func(begin time.Time) {
		s.track("Revoke", begin, err)
	}(time.Now())

	return s.next.Revoke(ctx, id)
}

func (s *instrumentService) Space(ctx context.Context, spaceID string) (list List, err error) {
	defer func(begin time.Time) {
		s.track("Space", begin, err)
	}(time.Now())

	return s.next.Space(ctx, spaceID)
}

func (s *instrumentService) Stats(ctx context.Context, spaceID string) (stats Stats, err error) {
	defer func(begin time.Time) {
		s.track("Stats", begin, err)
	}(time.Now())

	return s.next.Stats(ctx, spaceID)
}

func (s *instrumentService) ValidateCode(
	ctx context.Context,
	code string,
) (v *CodeValidation, err error) {
	defer func(begin time.Time) {
		s.track("ValidateCode", begin, err)
	}(time.Now())

	return s.next.ValidateCode(ctx, code)
}

func (s *instrumentService) track(method string, begin time.Time, err error) {
	if err != nil {
		s.errCount.With(
			metrics.FieldComponent, s.component,
			metrics.FieldMethod, method,
			metrics.FieldService, entity,
			metrics.FieldStore, s.store,
		).Add(1)
	}

	s.opCount.With(
		metrics.FieldComponent, s.component,
		metrics.FieldMethod, method,
		metrics.FieldService, entity,
		metrics.FieldStore, s.store,
	).Add(1)

	s.opLatency.With(prometheus.Labels{
		metrics.FieldComponent: s.component,
		metrics.FieldMethod:    method,
		metrics.FieldService:   entity,
		metrics.FieldStore:     s.store,
	}).Observe(time.Since(begin).Seconds())
}
