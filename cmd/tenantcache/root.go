package main

import (
	"errors"
	"fmt"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/tenantcache/pkg/cache"
	"github.com/dmitrymomot/tenantcache/pkg/config"
	"github.com/dmitrymomot/tenantcache/pkg/logger"
	"github.com/dmitrymomot/tenantcache/pkg/redis"
	"github.com/dmitrymomot/tenantcache/pkg/scimschema"
	"github.com/dmitrymomot/tenantcache/pkg/tenantcache"
)

type appConfig struct {
	Env      string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"warn"`
}

// app carries the state shared by all subcommands. It is populated by the
// root command's PersistentPreRunE.
type app struct {
	envFiles  []string
	redisURL  string
	cacheName string
	logFormat string
	verbose   bool

	log     *slog.Logger
	client  *goredis.Client
	store   cache.Store[tenantcache.Key, *scimschema.AttributeSchema]
	schemas *scimschema.SystemSchemaCache
}

// command builds the root command bound to a. Call close once it has run.
func (a *app) command() *cobra.Command {
	root := &cobra.Command{
		Use:   "tenantcache",
		Short: "Inspect and invalidate shared tenant schema caches",
		Long: `tenantcache operates on the SCIM system attribute schema cache that
application nodes share through Redis.

Configuration is read from the environment (TENANT_CACHE_*, REDIS_*) and
optional .env files; flags override it.`,
		Version:           version,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	flags := root.PersistentFlags()
	flags.StringSliceVar(&a.envFiles, "env-file", nil, "load environment from these files before reading configuration")
	flags.StringVar(&a.redisURL, "redis-url", "", "redis connection URL (overrides REDIS_URL)")
	flags.StringVar(&a.cacheName, "cache", "", "cache name (default "+scimschema.CacheName+")")
	flags.StringVar(&a.logFormat, "log-format", "", "log format: text or json")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log cache events at debug level")

	root.AddCommand(
		newGetCmd(a),
		newPutCmd(a),
		newClearCmd(a),
		newClearAllCmd(a),
		newKeysCmd(a),
		newPingCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	// built-in commands need no backend
	if cmd.Name() == "help" || (cmd.HasParent() && cmd.Parent().Name() == "completion") {
		return nil
	}
	if len(a.envFiles) > 0 {
		if err := config.LoadEnv(a.envFiles...); err != nil {
			return err
		}
	}

	var (
		appCfg   appConfig
		cacheCfg tenantcache.Config
		redisCfg redis.Config
	)
	if err := errors.Join(config.Load(&appCfg), config.Load(&cacheCfg), config.Load(&redisCfg)); err != nil {
		return err
	}

	if a.redisURL != "" {
		redisCfg.ConnectionURL = a.redisURL
	}
	switch {
	case a.cacheName != "":
		cacheCfg.Name = a.cacheName
	case cacheCfg.Name == tenantcache.DefaultName:
		cacheCfg.Name = scimschema.CacheName
	}
	cacheCfg.Backend = tenantcache.BackendRedis

	level, err := logger.ParseLevel(appCfg.LogLevel)
	if err != nil {
		return err
	}
	logOpts := []logger.Option{
		logger.WithEnvironment(appCfg.Env, "tenantcache-cli"),
		logger.WithOutput(cmd.ErrOrStderr()),
		logger.WithLevel(level),
	}
	if a.verbose {
		logOpts = append(logOpts, logger.WithLevel(slog.LevelDebug))
	}
	if a.logFormat != "" {
		format := logger.Format(a.logFormat)
		if format != logger.FormatJSON && format != logger.FormatText {
			return fmt.Errorf("invalid --log-format %q", a.logFormat)
		}
		logOpts = append(logOpts, logger.WithFormat(format))
	}
	a.log = logger.New(logOpts...)

	client, err := redis.Connect(cmd.Context(), redisCfg)
	if err != nil {
		return err
	}
	a.client = client

	store, err := tenantcache.NewStore[*scimschema.AttributeSchema](cacheCfg, client)
	if err != nil {
		return err
	}
	a.store = store

	a.schemas, err = scimschema.NewSystemSchemaCache(store,
		tenantcache.WithName(cacheCfg.Name),
		tenantcache.WithLogger(a.log),
	)
	if err != nil {
		return err
	}

	a.log.DebugContext(cmd.Context(), "connected",
		logger.CacheName(cacheCfg.Name),
		slog.String("prefix", cacheCfg.RedisPrefix()),
	)
	return nil
}

func (a *app) close() error {
	if a.client == nil {
		return nil
	}
	return a.client.Close()
}
