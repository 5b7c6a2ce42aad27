package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/riskibarqy/fpl-team-builder/external/fpl"
	"github.com/riskibarqy/fpl-team-builder/external/llm"
	"github.com/riskibarqy/fpl-team-builder/internal/config"
	"github.com/riskibarqy/fpl-team-builder/internal/domain/fixture"
	"github.com/riskibarqy/fpl-team-builder/internal/domain/player"
	"github.com/riskibarqy/fpl-team-builder/internal/domain/recommendation"
	"github.com/riskibarqy/fpl-team-builder/internal/domain/roster"
	"github.com/riskibarqy/fpl-team-builder/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fpl-team-builder/internal/interfaces/httpapi"
	idgen "github.com/riskibarqy/fpl-team-builder/internal/platform/id"
	"github.com/riskibarqy/fpl-team-builder/internal/platform/logging"
	"github.com/riskibarqy/fpl-team-builder/internal/usecase"
)

const (
	metricsNamespace = "fpl_team_builder"
	rosterIDPrefix   = "team-"
)

type playerData interface {
	player.Source
	fixture.Source
}

// App owns the HTTP server and the background pieces that live alongside it.
type App struct {
	Server  *http.Server
	logger  *logging.Logger
	warmer  *fpl.Warmer
	closers []func() error
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	a := &App{logger: logger}

	players, warmer, err := newPlayerData(cfg, logger)
	if err != nil {
		return nil, err
	}
	a.warmer = warmer

	rosters, closeStorage, err := newRosterRepository(ctx, cfg, logger.Named("storage"))
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, closeStorage)

	var (
		generator recommendation.Generator
		analyst   recommendation.Analyst
	)
	advisor, err := newAdvisor(cfg, players, logger)
	if err != nil {
		_ = a.close()
		return nil, err
	}
	if advisor != nil {
		generator, analyst = advisor, advisor
	}

	rules := roster.DefaultRules()
	playerSvc := usecase.NewPlayerService(players, players, logger.Named("player_service"))
	rosterSvc := usecase.NewRosterService(
		rosters,
		players,
		generator,
		rules,
		idgen.NewUUIDGenerator(rosterIDPrefix),
		cfg.ValidationWorkers,
		logger.Named("roster_service"),
	)
	advisorSvc := usecase.NewAdvisorService(generator, analyst, rosterSvc, players, rules, logger.Named("advisor_service"))

	var metrics *httpapi.Metrics
	if cfg.MetricsEnabled {
		metrics = httpapi.NewMetrics(metricsNamespace)
	}

	handler := httpapi.NewHandler(playerSvc, rosterSvc, advisorSvc, logger.Named("httpapi"))
	router := httpapi.NewRouter(handler, logger.Named("http"), httpapi.RouterOptions{
		SwaggerEnabled:     cfg.SwaggerEnabled,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		Metrics:            metrics,
	})

	a.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return a, nil
}

// Start launches background jobs. It does not block.
func (a *App) Start(ctx context.Context) {
	if a.warmer != nil {
		a.warmer.Start(ctx)
	}
}

// Shutdown drains the HTTP server, stops background jobs and closes storage.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	if a.Server != nil {
		if err := a.Server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown http server: %w", err))
		}
	}
	if a.warmer != nil {
		a.warmer.Stop(ctx)
	}
	if err := a.close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (a *App) close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func newPlayerData(cfg config.Config, logger *logging.Logger) (playerData, *fpl.Warmer, error) {
	if cfg.FPLSource == config.FPLSourceMemory {
		logger.Info("fpl source using offline seed data")
		return memory.NewPlayerSource(memory.SeedSnapshot()), nil, nil
	}

	client := fpl.NewClient(fpl.ClientConfig{
		BaseURL:        cfg.FPLBaseURL,
		Timeout:        cfg.FPLTimeout,
		MaxRetries:     cfg.FPLMaxRetries,
		CacheTTL:       cfg.FPLCacheTTL,
		StaleTTL:       cfg.FPLStaleTTL,
		RateLimitRPS:   cfg.FPLRateLimitRPS,
		Logger:         logger.Named("fpl"),
		CircuitBreaker: cfg.FPLCircuit,
	})

	if !cfg.FPLWarmupEnabled {
		return client, nil, nil
	}
	warmer, err := fpl.NewWarmer(client, cfg.FPLWarmupSchedule, logger.Named("fpl_warmup"))
	if err != nil {
		return nil, nil, fmt.Errorf("build fpl warmer: %w", err)
	}
	return client, warmer, nil
}

// newAdvisor returns nil without an error when no api key is configured; AI
// endpoints then answer with a dependency error.
func newAdvisor(cfg config.Config, players player.Source, logger *logging.Logger) (*llm.Advisor, error) {
	if cfg.LLMAPIKey() == "" {
		logger.Warn("llm advisor disabled", "reason", "no api key", "provider", cfg.LLMProvider)
		return nil, nil
	}

	provider, err := llm.ParseProvider(cfg.LLMProvider)
	if err != nil {
		return nil, err
	}

	advisor, err := llm.NewGenerator(llm.Config{
		Provider:       provider,
		Model:          cfg.LLMModel,
		APIKey:         cfg.LLMAPIKey(),
		BaseURL:        cfg.LLMBaseURL(),
		MaxTokens:      cfg.LLMMaxTokens,
		Temperature:    cfg.LLMTemperature,
		Timeout:        cfg.LLMTimeout,
		MaxRetries:     cfg.LLMMaxRetries,
		CircuitBreaker: cfg.LLMCircuit,
		Logger:         logger.Named("llm"),
	}, players)
	if err != nil {
		return nil, fmt.Errorf("build llm advisor: %w", err)
	}

	logger.Info("llm advisor enabled", "provider", provider)
	return advisor, nil
}
