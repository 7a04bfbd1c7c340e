package main

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/afero"
	"github.com/urfave/cli"

	"github.com/dmitrymomot/consentkit/pkg/config"
	"github.com/dmitrymomot/consentkit/pkg/consent"
	"github.com/dmitrymomot/consentkit/pkg/consentview"
	"github.com/dmitrymomot/consentkit/pkg/cookie"
	"github.com/dmitrymomot/consentkit/pkg/environment"
	"github.com/dmitrymomot/consentkit/pkg/httpserver"
	"github.com/dmitrymomot/consentkit/pkg/logger"
	"github.com/dmitrymomot/consentkit/pkg/requestid"
)

var serveFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "env-file, e",
		Usage: "dotenv file loaded before reading the configuration",
	},
	cli.StringFlag{
		Name:  "addr, a",
		Usage: "listen address, overrides HTTP_ADDR",
	},
	cli.StringFlag{
		Name:  "manifest, m",
		Usage: "manifest path, overrides CONSENT_MANIFEST_PATH",
	},
}

// appConfig aggregates the environment configuration of every component.
type appConfig struct {
	Logger  logger.Config
	Consent consent.Config
	Cookie  cookie.Config
	View    consentview.Config
	HTTP    httpserver.Config
}

func serveAction(fs afero.Fs) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		if path := ctx.String("env-file"); path != "" {
			if err := config.LoadEnv(path); err != nil {
				return err
			}
		}

		var cfg appConfig
		if err := config.Load(&cfg); err != nil {
			return err
		}
		if addr := ctx.String("addr"); addr != "" {
			cfg.HTTP.Addr = addr
		}
		if path := ctx.String("manifest"); path != "" {
			cfg.Consent.ManifestPath = path
		}

		// env is already a static attribute of the configured logger.
		log := logger.NewFromConfig(cfg.Logger,
			logger.WithContextExtractors(requestid.LoggerExtractor()),
		)
		logger.SetAsDefault(log)

		h, err := newRouter(cfg, fs, log, prometheus.NewRegistry())
		if err != nil {
			return err
		}

		srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
		return srv.Run(context.Background(), h)
	}
}

// newRouter wires the consent manager, its views and the operational
// endpoints into one handler. Metrics are registered on reg.
func newRouter(cfg appConfig, fs afero.Fs, log *slog.Logger, reg *prometheus.Registry) (http.Handler, error) {
	reg.MustRegister(collectors.NewGoCollector())

	view := consentview.NewFromConfig(cfg.View, consentview.WithPreferencesPath(cfg.Consent.PreferencesPath))
	mgr, err := consent.NewFromConfig(cfg.Consent,
		consent.WithFS(fs),
		consent.WithCookieManager(cookie.NewFromConfig(cfg.Cookie)),
		consent.WithLogger(log),
		consent.WithMetrics(consent.NewMetrics(reg)),
		consent.WithView(view),
	)
	if err != nil {
		return nil, err
	}

	actionPath := cfg.View.ActionPath
	if actionPath == "" {
		actionPath = consentview.DefaultActionPath
	}

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(environment.Middleware(environment.Parse(cfg.Logger.Env)))

	r.Get("/health", httpserver.HealthCheckHandler(log, httpserver.Check{
		Name:  "manifest",
		Probe: func(context.Context) error { return mgr.Manifest().Validate() },
	}))
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(mgr.Middleware)
		r.Mount(actionPath, mgr.Handler())

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			visible := consent.BannerVisibleFromContext(r.Context())
			render(w, r, consentview.Page("Home",
				templ.Raw(`<main><h1>Welcome</h1><p><a href="`+templ.EscapeString(mgr.PreferencesPath())+`">Cookie settings</a></p></main>`),
				view.Banner(visible),
			), log)
		})
		r.Get(mgr.PreferencesPath(), func(w http.ResponseWriter, r *http.Request) {
			visible := consent.BannerVisibleFromContext(r.Context())
			render(w, r, consentview.Page("Cookie settings",
				templ.Raw(`<main><h1>Cookie settings</h1>`),
				view.PreferencesForm(mgr.Manifest(), consent.RecordFromContext(r.Context())),
				templ.Raw(`</main>`),
				view.Banner(visible),
			), log)
		})
	})

	return r, nil
}

func render(w http.ResponseWriter, r *http.Request, c templ.Component, log *slog.Logger) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(r.Context(), w); err != nil {
		log.ErrorContext(r.Context(), "render page", logger.Error(err))
	}
}
