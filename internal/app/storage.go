package app

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/fpl-team-builder/internal/config"
	"github.com/riskibarqy/fpl-team-builder/internal/domain/roster"
	"github.com/riskibarqy/fpl-team-builder/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/fpl-team-builder/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fpl-team-builder/internal/infrastructure/repository/postgres"
	redisrepo "github.com/riskibarqy/fpl-team-builder/internal/infrastructure/repository/redis"
	"github.com/riskibarqy/fpl-team-builder/internal/platform/logging"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

const (
	maxTracedQueryLength = 512
	storagePingTimeout   = 5 * time.Second
)

var queryWhitespaceRegex = regexp.MustCompile(`\s+`)

// newRosterRepository opens the configured roster store and returns it with a
// close func for its connection.
func newRosterRepository(ctx context.Context, cfg config.Config, logger *logging.Logger) (roster.Repository, func() error, error) {
	var (
		repo    roster.Repository
		closeFn = func() error { return nil }
	)

	switch cfg.StorageDriver {
	case config.StoragePostgres:
		db, err := openPostgres(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		repo, closeFn = postgres.NewRosterRepository(db), db.Close
	case config.StorageRedis:
		client, err := openRedis(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		repo, closeFn = redisrepo.NewRosterRepository(client, cfg.RedisKeyPrefix), client.Close
	default:
		repo = memory.NewRosterRepository()
	}

	// The memory store needs no read-through layer in front of it.
	if cfg.CacheEnabled && cfg.StorageDriver != config.StorageMemory {
		repo = cache.NewRosterRepository(repo, cfg.CacheTTL)
	}

	logger.Info("roster storage ready",
		"driver", cfg.StorageDriver,
		"cache_enabled", cfg.CacheEnabled && cfg.StorageDriver != config.StorageMemory,
	)

	return repo, closeFn, nil
}

func openPostgres(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	opts := []otelsql.Option{
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	}
	if name := dbNameFromURL(dsn); name != "" {
		opts = append(opts, otelsql.WithDBName(name))
	}

	db, err := otelsqlx.Open("postgres", dsn, opts...)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, storagePingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return db, nil
}

func openRedis(ctx context.Context, cfg config.Config) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, storagePingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.RedisAddr, err)
	}

	return client, nil
}

func normalizeDBURL(raw string, disablePreparedBinaryResult bool) string {
	if !disablePreparedBinaryResult {
		return raw
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed == nil || parsed.Scheme == "" {
		return raw
	}

	query := parsed.Query()
	if query.Get("disable_prepared_binary_result") == "" {
		query.Set("disable_prepared_binary_result", "yes")
		parsed.RawQuery = query.Encode()
	}

	return parsed.String()
}

// dbNameFromURL accepts both URL and key=value DSN forms.
func dbNameFromURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	parsed, err := url.Parse(trimmed)
	if err == nil && parsed != nil && parsed.Scheme != "" {
		if name := strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/")); name != "" {
			return name
		}
	}

	for _, token := range strings.Fields(trimmed) {
		name, ok := strings.CutPrefix(token, "dbname=")
		if !ok {
			continue
		}
		if name = strings.Trim(strings.TrimSpace(name), `"'`); name != "" {
			return name
		}
	}

	return ""
}

func formatDBQueryForTrace(query string) string {
	normalized := queryWhitespaceRegex.ReplaceAllString(strings.TrimSpace(query), " ")
	if len(normalized) <= maxTracedQueryLength {
		return normalized
	}

	return normalized[:maxTracedQueryLength] + "..."
}
