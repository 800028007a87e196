package app

import (
	"context"
	"fmt"
	"time"

	"github.com/appetiteclub/apt"
	aptevents "github.com/appetiteclub/apt/events"
	"github.com/appetiteclub/apt/middleware"
	"github.com/appetiteclub/floor/internal/floor"
	"github.com/appetiteclub/floor/internal/menu"
	"github.com/appetiteclub/floor/internal/mongo"
	"github.com/appetiteclub/floor/pkg"
	"github.com/appetiteclub/floor/pkg/event"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const (
	AppName    = "floor"
	AppVersion = "0.1.0"

	StreamName = "FLOOR_EVENTS"
)

// App encapsulates the floor service application
type App struct {
	config  *apt.Config
	logger  apt.Logger
	micro   *apt.Micro
	session *floor.Session
}

func New(config *apt.Config, logger apt.Logger) (*App, error) {
	if config == nil {
		return nil, fmt.Errorf("%s needs a config", AppName)
	}
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &App{
		config: config,
		logger: logger,
	}, nil
}

// Session exposes the engine once Initialize has run.
func (a *App) Session() *floor.Session {
	return a.session
}

// Initialize builds the engine, its optional side channels and the micro.
func (a *App) Initialize(ctx context.Context) error {
	catalog, err := menu.Load(a.config, a.logger)
	if err != nil {
		return err
	}

	var lifecycles []interface{}

	publisher, closers, err := a.initEvents(ctx)
	if err != nil {
		return err
	}
	lifecycles = append(lifecycles, closers...)

	opts, err := floor.ConfigOptions(a.config)
	if err != nil {
		return err
	}
	opts = append(opts, floor.WithLogger(a.logger))
	if publisher != nil {
		opts = append(opts, floor.WithPublisher(publisher))
	}

	if a.config.GetBoolOrFalse("db.mongo.enabled") {
		receiptRepo := mongo.NewReceiptRepo(a.config, a.logger)
		opts = append(opts, floor.WithReceiptStore(receiptRepo))
		lifecycles = append([]interface{}{receiptRepo}, lifecycles...)
	}

	a.session, err = floor.NewSession(catalog, opts...)
	if err != nil {
		return err
	}

	handler := floor.NewHandler(a.session, a.config, a.logger)
	healthService := NewHealthService(AppName, a.logger)
	readiness := func(ctx context.Context) error {
		status, err := healthService.Check(ctx)
		if err != nil {
			return err
		}
		if status != healthpb.HealthCheckResponse_SERVING {
			return fmt.Errorf("%s is %s", AppName, status)
		}
		return nil
	}

	stack := middleware.DefaultStack(middleware.StackOptions{
		Logger:      a.logger,
		DisableCORS: true,
	})
	stack = append(stack, middleware.InternalOnly())

	options := []apt.Option{
		apt.WithConfig(a.config),
		apt.WithLogger(a.logger),
		apt.WithHTTPMiddleware(stack...),
		apt.WithHTTPServerModules("web.port", handler),
		apt.WithGRPCServerModules("grpc.port", healthService),
		apt.WithLifecycle(lifecycles...),
		apt.WithHealthChecks(AppName, nil, readiness),
	}

	a.micro = apt.NewMicro(options...)
	return nil
}

// initEvents connects the publisher selected by config. It returns nil when
// NATS is disabled; the floor then runs without events.
func (a *App) initEvents(ctx context.Context) (aptevents.Publisher, []interface{}, error) {
	if !a.config.GetBoolOrFalse("nats.enabled") {
		a.logger.Info("NATS disabled, floor events will not be published")
		return nil, nil, nil
	}

	natsURL := a.config.GetStringOrDef("nats.url", pkg.DefaultNATSURL)

	if a.config.GetBoolOrFalse("nats.stream.enabled") {
		stream, err := pkg.NewNATSStream(ctx, pkg.NATSStreamConfig{
			URL:        natsURL,
			Name:       AppName,
			StreamName: StreamName,
			Subjects:   []string{event.FloorSubjects},
			MaxAge:     a.config.GetDurationOrDef("nats.stream.max_age", 24*time.Hour),
		})
		if err != nil {
			return nil, nil, err
		}
		a.logger.Info("NATS stream initialized for persistent events", "stream", StreamName)
		closer := apt.LifecycleHooks{
			OnStop: func(context.Context) error { return stream.Close() },
		}
		return stream, []interface{}{closer}, nil
	}

	publisher, err := pkg.NewNATSPublisher(natsURL, AppName)
	if err != nil {
		return nil, nil, err
	}
	a.logger.Info("NATS publisher connected", "url", natsURL)
	closer := apt.LifecycleHooks{
		OnStop: func(context.Context) error { return publisher.Close() },
	}
	return publisher, []interface{}{closer}, nil
}

// Run starts the application
func (a *App) Run(ctx context.Context) error {
	if a.micro == nil {
		return fmt.Errorf("%s not initialized", AppName)
	}
	a.logger.Infof("Starting %s(%s)", AppName, AppVersion)
	if err := a.micro.Run(ctx); err != nil {
		return err
	}
	a.logger.Infof("%s(%s) stopped", AppName, AppVersion)
	return nil
}
