package cli

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/boxlayout/internal/server"
	"github.com/matzehuels/boxlayout/pkg/cache"
	"github.com/matzehuels/boxlayout/pkg/pipeline"
	"github.com/matzehuels/boxlayout/pkg/store"
)

// Environment fallbacks for the serve flags.
const (
	envRedisAddr = "BOXLAYOUT_REDIS_ADDR"
	envRedisURL  = "BOXLAYOUT_REDIS_URL"
	envMongoURI  = "BOXLAYOUT_MONGO_URI"
)

const backendTimeout = 10 * time.Second

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr        string
	redisAddr   string
	redisURL    string
	redisPrefix string
	mongoURI    string
	mongoDB     string
	maxBody     int64
	timeout     time.Duration
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve exposes scene resolution and snapshot storage over HTTP.

Resolved snapshots and rendered artifacts are cached in Redis when
--redis-addr or --redis-url is set. Stored snapshots live in MongoDB when
--mongo-uri is set and in memory otherwise.

Endpoints:
  GET    /healthz
  POST   /v1/resolve            body: TOML scene; query: ticks, width, height, format
  POST   /v1/snapshots          body: TOML scene
  GET    /v1/snapshots/{id}     query: format
  DELETE /v1/snapshots/{id}`,
		Example: `  boxlayout serve --addr :8080
  BOXLAYOUT_REDIS_ADDR=localhost:6379 BOXLAYOUT_MONGO_URI=mongodb://localhost:27017 boxlayout serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&opts.redisAddr, "redis-addr", os.Getenv(envRedisAddr), "Redis address for the result cache (env "+envRedisAddr+")")
	cmd.Flags().StringVar(&opts.redisURL, "redis-url", os.Getenv(envRedisURL), "Redis URL for the result cache (env "+envRedisURL+")")
	cmd.Flags().StringVar(&opts.redisPrefix, "redis-prefix", appName+":", "key prefix in Redis")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo-uri", os.Getenv(envMongoURI), "MongoDB URI for snapshot storage (env "+envMongoURI+")")
	cmd.Flags().StringVar(&opts.mongoDB, "mongo-db", store.DefaultDatabase, "MongoDB database name")
	cmd.Flags().Int64Var(&opts.maxBody, "max-body", server.DefaultMaxBodyBytes, "maximum scene size in bytes")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", server.DefaultRequestTimeout, "per-request timeout")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	cc, err := c.serveCache(ctx, opts)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(cc, cache.NewScopedKeyer(nil, "v1"), c.Logger)
	defer runner.Close()

	st, err := c.serveStore(ctx, opts)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), backendTimeout)
		defer cancel()
		if err := st.Close(closeCtx); err != nil {
			c.Logger.Warn("close store", "err", err)
		}
	}()

	srv := server.New(server.Config{
		Runner:         runner,
		Store:          st,
		Logger:         c.Logger,
		MaxBodyBytes:   opts.maxBody,
		RequestTimeout: opts.timeout,
	})
	printInfo("Listening on %s", StyleLink.Render("http://"+displayAddr(opts.addr)))
	printKeyValue("Cache", backendName(cc))
	printKeyValue("Store", backendName(st))
	return srv.ListenAndServe(ctx, opts.addr)
}

func (c *CLI) serveCache(ctx context.Context, opts serveOpts) (cache.Cache, error) {
	if opts.redisAddr == "" && opts.redisURL == "" {
		c.Logger.Info("result cache disabled", "hint", "set --redis-addr to enable")
		return cache.NewNullCache(), nil
	}
	ctx, cancel := context.WithTimeout(ctx, backendTimeout)
	defer cancel()
	rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
		Addr:   opts.redisAddr,
		URL:    opts.redisURL,
		Prefix: opts.redisPrefix,
	})
	if err != nil {
		return nil, err
	}
	c.Logger.Info("result cache", "backend", "redis")
	return rc, nil
}

func (c *CLI) serveStore(ctx context.Context, opts serveOpts) (store.Store, error) {
	if opts.mongoURI == "" {
		c.Logger.Info("snapshot store", "backend", "memory")
		return store.NewMemory(), nil
	}
	ctx, cancel := context.WithTimeout(ctx, backendTimeout)
	defer cancel()
	m, err := store.NewMongo(ctx, store.MongoConfig{URI: opts.mongoURI, Database: opts.mongoDB})
	if err != nil {
		return nil, err
	}
	c.Logger.Info("snapshot store", "backend", "mongodb", "database", opts.mongoDB)
	return m, nil
}

func backendName(v any) string {
	switch v.(type) {
	case *cache.RedisCache:
		return "redis"
	case *store.Mongo:
		return "mongodb"
	case *store.Memory:
		return "memory"
	}
	return "none"
}

// displayAddr turns ":8080" into "localhost:8080".
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
