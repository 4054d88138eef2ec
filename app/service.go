// Package app wires the booking service together and exposes the command
// operations consumed by inbound front-ends.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/kheireddine-anas/busbot/config"
	"github.com/kheireddine-anas/busbot/core/audit"
	"github.com/kheireddine-anas/busbot/core/booking"
	"github.com/kheireddine-anas/busbot/core/departure"
	"github.com/kheireddine-anas/busbot/core/logger"
	coremetrics "github.com/kheireddine-anas/busbot/core/metrics"
	"github.com/kheireddine-anas/busbot/core/scheduler"
	"github.com/kheireddine-anas/busbot/core/session"
	"github.com/kheireddine-anas/busbot/infra/browser"
	infralogger "github.com/kheireddine-anas/busbot/infra/logger"
	"github.com/kheireddine-anas/busbot/infra/metrics"
	"github.com/kheireddine-anas/busbot/infra/tokenfile"
	"github.com/kheireddine-anas/busbot/infra/transport"
	"github.com/kheireddine-anas/busbot/internal/eventbus"
)

// Listings serves the platform's departure listings.
type Listings interface {
	CurrentDepartures(ctx context.Context, token string) ([]departure.Record, error)
	UpcomingDepartures(ctx context.Context, token string) ([]departure.Record, error)
}

// TokenAcquirer performs the automated credential login.
type TokenAcquirer interface {
	Acquire(ctx context.Context) (string, error)
}

// Service orchestrates the scheduler, prediction and booking operations.
type Service struct {
	store    *session.Store
	tokens   *session.Tokens
	sched    *scheduler.Scheduler
	listings Listings
	acquirer TokenAcquirer
	audit    audit.Store
	bus      *eventbus.Bus
	log      logger.Logger
	now      func() time.Time

	promEnabled bool
	promPort    string
}

// New creates a Service from the configuration and loads the persisted
// session token.
func New(cfg *config.Config) (*Service, error) {
	logg := infralogger.New("service")

	var sink coremetrics.Sink = coremetrics.Nop{}
	if cfg.Metrics.PrometheusEnabled {
		s, err := metrics.NewPromSink()
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sink = s
	}

	tokens := session.NewTokens(tokenfile.New(cfg.Token.Path))
	if err := tokens.Load(); err != nil {
		return nil, err
	}
	if tokens.Present() {
		logg.Infof("session token loaded from %s", cfg.Token.Path)
	} else {
		logg.Warnf("no session token found at %s", cfg.Token.Path)
	}

	auditStore, err := audit.NewJSONLStore(cfg.Audit.Path)
	if err != nil {
		return nil, fmt.Errorf("audit store: %w", err)
	}

	client := transport.NewClient(cfg.Platform, infralogger.New("transport"))
	bus := eventbus.New()
	notifier := NewBusNotifier(bus, infralogger.New("notify"))
	store := session.NewStore()
	exec := booking.NewExecutor(client, tokens, auditStore, notifier, sink, infralogger.New("booking"), cfg.Booking.ToCampus)
	sched := scheduler.New(store, tokens, exec, infralogger.New("scheduler"), sink)
	acquirer := browser.NewAcquirer(cfg.Browser, infralogger.New("browser"))

	return &Service{
		store:       store,
		tokens:      tokens,
		sched:       sched,
		listings:    client,
		acquirer:    acquirer,
		audit:       auditStore,
		bus:         bus,
		log:         logg,
		now:         time.Now,
		promEnabled: cfg.Metrics.PrometheusEnabled,
		promPort:    cfg.Metrics.PrometheusPort,
	}, nil
}

// Run blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	if s.promEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	<-ctx.Done()
	return nil
}

// Notifications subscribes to the outbound notification stream. Events are
// app.Notification values.
func (s *Service) Notifications() <-chan eventbus.Event {
	return s.bus.Subscribe()
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.sched.Close()
	s.bus.Close()
	return s.audit.Close()
}
