package cli

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/relaydesk/relaydesk/pkg/apiclient"
	"github.com/relaydesk/relaydesk/pkg/config"
	"github.com/relaydesk/relaydesk/pkg/console"
	"github.com/relaydesk/relaydesk/pkg/controller"
	"github.com/relaydesk/relaydesk/pkg/identity"
	"github.com/relaydesk/relaydesk/pkg/identity/oidcsource"
	"github.com/relaydesk/relaydesk/pkg/identity/redisstore"
	"github.com/relaydesk/relaydesk/pkg/observability"
	"github.com/relaydesk/relaydesk/pkg/workspace"
)

// settleTimeout bounds how long commands wait for the authorization state
// to finish resolving after startup.
const settleTimeout = 5 * time.Second

// app wires the console's long-lived components together for the duration
// of a single command invocation.
type app struct {
	cfg       *config.Config
	log       *logrus.Logger
	source    *oidcsource.Source
	store     *redisstore.Store
	ctrl      *controller.Controller
	console   *console.Client
	providers *observability.OTelProviders
}

// newApp loads configuration and assembles the controller stack. Callers
// must close the returned app.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	log := observability.NewLogger(cfg.Observability.LogLevel, cfg.Observability.LogFormat)

	providers, err := observability.InitOTel(ctx, observability.OTelConfig{
		Enabled:        cfg.Observability.OTelEnabled,
		Endpoint:       cfg.Observability.OTelEndpoint,
		ServiceName:    cfg.Observability.OTelServiceName,
		ServiceVersion: cfg.Observability.OTelServiceVersion,
		Insecure:       cfg.Observability.OTelInsecure,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	var store *redisstore.Store
	var sessionStore identity.SessionStore
	if cfg.Session.RedisAddr != "" {
		store, err = redisstore.New(cfg.Session.RedisAddr, cfg.Session.RedisPassword, cfg.Session.InstanceID,
			redisstore.WithTTL(cfg.Session.TTL),
			redisstore.WithDB(cfg.Session.RedisDB),
		)
		if err != nil {
			log.WithError(err).Warn("Session persistence unavailable, continuing without it")
		} else {
			sessionStore = store
		}
	}

	source, err := oidcsource.New(ctx, oidcsource.Config{
		IssuerURL:    cfg.OIDC.Issuer,
		ClientID:     cfg.OIDC.ClientID,
		ClientSecret: cfg.OIDC.ClientSecret,
		RedirectURL:  cfg.OIDC.RedirectURL,
		Scopes:       cfg.OIDC.Scopes,
	}, sessionStore, log)
	if err != nil {
		if store != nil {
			_ = store.Close()
		}
		return nil, err
	}

	// The API client reads its bearer token from the controller, which is
	// constructed after it. The closure makes the late binding safe.
	var ctrl *controller.Controller
	api := apiclient.New(cfg.API.URL, apiclient.TokenFunc(func() string {
		if ctrl == nil {
			return ""
		}
		return ctrl.Token()
	}),
		apiclient.WithLogger(log),
		apiclient.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}),
	)

	resolver := workspace.NewAPIResolver(api, log)
	switcher := workspace.NewAPISwitcher(api, log)

	ctrl = controller.New(controller.Config{
		Source:   source,
		Resolver: resolver,
		Switcher: switcher,
		Logger:   log,
		Metrics:  controller.NewMetrics(prometheus.NewRegistry()),
		OnAuthError: func(err error) {
			log.WithError(err).Warn("Session rejected by the platform, sign in again")
		},
	})
	ctrl.Start(ctx)

	return &app{
		cfg:       cfg,
		log:       log,
		source:    source,
		store:     store,
		ctrl:      ctrl,
		console:   console.NewClient(api, ctrl),
		providers: providers,
	}, nil
}

// close tears the stack down in the background, bounded by the shutdown
// manager's timeout.
func (a *app) close(ctx context.Context) {
	sm := observability.NewShutdownManager(a.log, 10*time.Second)
	sm.Register(func(context.Context) error {
		a.ctrl.Close()
		return nil
	})
	sm.Register(func(context.Context) error {
		a.source.Close()
		return nil
	})
	if a.store != nil {
		sm.Register(func(context.Context) error {
			return a.store.Close()
		})
	}
	sm.Register(func(ctx context.Context) error {
		return observability.ShutdownOTel(ctx, a.providers, a.log)
	})
	if err := sm.Shutdown(ctx); err != nil {
		a.log.WithError(err).Debug("Shutdown finished with errors")
	}
}

// waitSettled blocks until the controller leaves the resolving state or the
// timeout passes. A session restored from the store arrives asynchronously
// after Start, so an unauthenticated snapshot only counts as settled after
// a short grace period.
func (a *app) waitSettled(ctx context.Context) controller.State {
	deadline := time.Now().Add(settleTimeout)
	grace := time.Now().Add(750 * time.Millisecond)

	for time.Now().Before(deadline) {
		st := a.ctrl.Snapshot()
		switch st.Status {
		case controller.StatusReady, controller.StatusNoWorkspace:
			return st
		case controller.StatusUnauthenticated:
			if time.Now().After(grace) {
				return st
			}
		}

		select {
		case <-ctx.Done():
			return a.ctrl.Snapshot()
		case <-time.After(50 * time.Millisecond):
		}
	}
	return a.ctrl.Snapshot()
}
