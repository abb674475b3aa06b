package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hivenote/spaces/core"
	"github.com/hivenote/spaces/platform/metrics"
	"github.com/hivenote/spaces/service/invitation"
)

// Logging and telemetry identifiers.
const (
	component    = "watcher"
	storeService = "http"
)

// Buildtime vars.
var (
	revision = "0000000-dev"
)

func main() {
	begin := time.Now()

	var (
		apiAddr       = flag.String("api.addr", "https://api.hivenote.com", "Address of the spaces API")
		apiToken      = flag.String("api.token", "", "Bearer token used for API requests")
		refreshPeriod = flag.Duration("refresh.period", 30*time.Second, "Period between invitation re-fetches")
		spaceID       = flag.String("space.id", "", "Space to watch instead of the pending inbox")
		telemetryAddr = flag.String("telemetry.addr", ":9001", "Address to expose telemetry on")
	)
	flag.Parse()

	logger := log.With(
		log.NewJSONLogger(os.Stdout),
		"caller", log.Caller(3),
		"component", component,
		"revision", revision,
	)

	hostname, err := os.Hostname()
	if err != nil {
		_ = logger.Log("err", err, "lifecycle", "abort")
		os.Exit(1)
	}

	logger = log.With(logger, "host", hostname)

	// Setup instrumentation.
	go func(addr string) {
		http.Handle("/metrics", promhttp.Handler())

		_ = logger.Log("listen", addr, "sub", "telemetry")

		if err := http.ListenAndServe(addr, nil); err != nil {
			_ = logger.Log("err", err, "lifecycle", "abort", "sub", "telemetry")
			os.Exit(1)
		}
	}(*telemetryAddr)

	serviceErrCount, serviceOpCount, serviceOpLatency := metrics.KeyMetrics(
		"service",
		metrics.FieldComponent,
		metrics.FieldMethod,
		metrics.FieldService,
		metrics.FieldStore,
	)

	var invitations invitation.Service
	invitations = invitation.HTTPService(*apiAddr, *apiToken, &http.Client{
		Timeout: 10 * time.Second,
	})
	invitations = invitation.InstrumentServiceMiddleware(
		component,
		storeService,
		serviceErrCount,
		serviceOpCount,
		serviceOpLatency,
	)(invitations)
	invitations = invitation.LogServiceMiddleware(logger, storeService)(invitations)

	var (
		store     = invitation.NewStore()
		pending   = core.InvitationsPending(invitations, store)
		space     = core.InvitationsSpace(invitations, store)
		refresh   = core.RefreshData(pending, space)
		subscribe = core.SubscribeUpdates(pending, space)
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := refresh(ctx, *spaceID); err != nil {
		_ = logger.Log("err", err, "lifecycle", "abort")
		os.Exit(1)
	}

	dispose := subscribe(ctx, *spaceID, *refreshPeriod)
	defer dispose()

	_ = logger.Log(
		"duration", time.Since(begin).Nanoseconds(),
		"lifecycle", "start",
		"space_id", *spaceID,
	)

	report := time.NewTicker(*refreshPeriod)
	defer report.Stop()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-report.C:
			c := store.View()

			ls := c.Pending
			if *spaceID != "" {
				ls = c.Spaces[*spaceID]
			}

			_ = logger.Log(
				"cache_err", c.Err,
				"invitation_len", len(ls),
				"last_updated", c.LastUpdated,
			)
		case s := <-sigc:
			_ = logger.Log("lifecycle", "stop", "signal", s.String())

			return
		}
	}
}
