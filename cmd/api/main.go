package main

import (
	"context"
	"database/sql"
	"errors"
	"expvar"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/Blue-Davinci/WealthWise/internal/data"
	"github.com/Blue-Davinci/WealthWise/internal/logger"
	"github.com/Blue-Davinci/WealthWise/internal/vcs"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var (
	version = vcs.Version()
)

type apikey_details struct {
	key string
	url string
}

type config struct {
	port int
	env  string
	api  struct {
		name            string
		author          string
		defaultcurrency string
		apikeys         struct {
			exchangerates apikey_details
		}
	}
	fx struct {
		fallbackUSDRate float64
	}
	store string
	db    struct {
		dsn          string
		maxOpenConns int
		maxIdleConns int
		maxIdleTime  string
	}
	firestore struct {
		project      string
		emulatorHost string
	}
	redis struct {
		enabled  bool
		addr     string
		password string
		db       int
	}
	http_client struct {
		timeout  time.Duration
		retrymax int
	}
	limiter struct {
		rps     float64
		burst   int
		enabled bool
	}
	cors struct {
		trustedOrigins []string
	}
	scheduler struct {
		trackRecurringTransactions *cron.Cron
	}
	limit struct {
		recurringTrackerInterval   string
		recurringTrackerBatchLimit int
	}
}

type application struct {
	config      config
	logger      *zap.Logger
	models      data.Models
	store       data.DocumentStore
	http_client *WealthWise_Client
	wg          sync.WaitGroup
	RedisDB     *redis.Client
	// clock is the reference instant for every analytics request.
	clock func() time.Time
}

func main() {
	logger, err := logger.InitJSONLogger("wealthwise-api", os.Getenv("WEALTHWISE_LOG_LEVEL"))
	if err != nil {
		fmt.Println("Error initializing logger")
		return
	}
	// Load the environment variables from the .env file
	getCurrentPath(logger)
	var cfg config

	// Port & env
	flag.IntVar(&cfg.port, "port", 4000, "API server port")
	flag.StringVar(&cfg.env, "env", "development", "Environment (development|staging|production)")
	// API configuration
	flag.StringVar(&cfg.api.name, "api-name", "WealthWise", "API name")
	flag.StringVar(&cfg.api.author, "api-author", "WealthWise", "API author")
	flag.StringVar(&cfg.api.defaultcurrency, "api-default-currency", "INR", "Base currency analytics are reported in")
	// exchange rates
	flag.StringVar(&cfg.api.apikeys.exchangerates.key, "api-key-exchangerates", os.Getenv("WEALTHWISE_EXCHANGERATE_API_KEY"), "Exchange-Rate API Key")
	flag.StringVar(&cfg.api.apikeys.exchangerates.url, "api-url-exchangerates", "https://v6.exchangerate-api.com/v6", "Exchange-Rate API URL")
	flag.Float64Var(&cfg.fx.fallbackUSDRate, "fx-fallback-usd-rate", 91.5, "USD to base currency rate used when live rates are unavailable")
	// Storage backend
	flag.StringVar(&cfg.store, "store", "memory", "Document store (memory|postgres|firestore)")
	flag.StringVar(&cfg.db.dsn, "db-dsn", os.Getenv("WEALTHWISE_DB_DSN"), "PostgreSQL DSN")
	flag.IntVar(&cfg.db.maxOpenConns, "db-max-open-conns", 25, "PostgreSQL max open connections")
	flag.IntVar(&cfg.db.maxIdleConns, "db-max-idle-conns", 25, "PostgreSQL max idle connections")
	flag.StringVar(&cfg.db.maxIdleTime, "db-max-idle-time", "15m", "PostgreSQL max connection idle time")
	flag.StringVar(&cfg.firestore.project, "firestore-project", os.Getenv("WEALTHWISE_FIRESTORE_PROJECT"), "Firestore project ID")
	flag.StringVar(&cfg.firestore.emulatorHost, "firestore-emulator-host", os.Getenv("FIRESTORE_EMULATOR_HOST"), "Firestore emulator host:port")
	// Redis configuration
	flag.BoolVar(&cfg.redis.enabled, "redis-enabled", false, "Cache exchange rates in Redis")
	flag.StringVar(&cfg.redis.addr, "redis-addr", "localhost:6379", "Redis address")
	flag.StringVar(&cfg.redis.password, "redis-password", os.Getenv("WEALTHWISE_REDIS_PASSWORD"), "Redis password")
	flag.IntVar(&cfg.redis.db, "redis-db", 0, "Redis database")
	// HTTP client configuration
	flag.DurationVar(&cfg.http_client.timeout, "http-client-timeout", 10*time.Second, "HTTP client timeout")
	flag.IntVar(&cfg.http_client.retrymax, "http-client-retrymax", 3, "HTTP client maximum retries")
	// Rate limiter flags
	flag.Float64Var(&cfg.limiter.rps, "limiter-rps", 5, "Rate limiter maximum requests per second")
	flag.IntVar(&cfg.limiter.burst, "limiter-burst", 10, "Rate limiter maximum burst")
	flag.BoolVar(&cfg.limiter.enabled, "limiter-enabled", true, "Enable rate limiter")
	// CORS configuration
	flag.Func("cors-trusted-origins", "Trusted CORS origins (space separated)", func(val string) error {
		cfg.cors.trustedOrigins = strings.Fields(val)
		return nil
	})
	// Recurring transactions
	flag.StringVar(&cfg.limit.recurringTrackerInterval, "recurring-tracker-interval", "@every 1h", "Cron spec for the recurring transaction tracker")
	flag.IntVar(&cfg.limit.recurringTrackerBatchLimit, "recurring-tracker-batch-limit", 500, "Batch Limit for Recurring Transaction Tracker")

	displayVersion := flag.Bool("version", false, "Display version and exit")
	flag.Parse()
	if *displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		os.Exit(0)
	}
	if len(cfg.cors.trustedOrigins) == 0 {
		cfg.cors.trustedOrigins = []string{"http://localhost:5173"}
	}
	cfg.scheduler.trackRecurringTransactions = cron.New()

	store, err := openStore(cfg, logger)
	if err != nil {
		logger.Fatal("Error while opening the document store.", zap.String("store", cfg.store), zap.Error(err))
	}
	defer store.Close()

	var rdb *redis.Client
	if cfg.redis.enabled {
		rdb, err = openRedis(cfg)
		if err != nil {
			logger.Fatal("Error while connecting to Redis.", zap.String("error", err.Error()))
		}
		logger.Info("Redis connection established", zap.String("addr", cfg.redis.addr))
	}
	httpClient := NewClient(cfg.http_client.timeout, cfg.http_client.retrymax)
	publishMetrics()

	app := &application{
		config:      cfg,
		logger:      logger,
		models:      data.NewModels(store),
		store:       store,
		http_client: httpClient,
		RedisDB:     rdb,
		clock:       time.Now,
	}
	app.startupFunction()
	app.startSchedulers()

	err = app.server()
	if err != nil {
		logger.Fatal("Error while starting server.", zap.String("error", err.Error()))
	}
}

// startupFunction warms the exchange rate cache. A failure is not fatal
// since analytics fall back to the configured rates.
func (app *application) startupFunction() {
	if app.RedisDB == nil || app.config.api.apikeys.exchangerates.key == "" {
		return
	}
	err := app.verifyCurrencyInRedis(context.Background(), app.config.api.defaultcurrency)
	if err == nil {
		return
	}
	if !errors.Is(err, data.ErrFailedToGetCurrency) {
		app.logger.Error("Error verifying currency in Redis", zap.String("error", err.Error()))
		return
	}
	app.logger.Info("Currency rates not cached, fetching", zap.String("currency", app.config.api.defaultcurrency))
	if _, err := app.getAndSaveAvailableCurrencies(context.Background()); err != nil {
		app.logger.Error("Error loading currency rates", zap.Error(err))
	}
}

// startSchedulers starts the cronjobs for the application
func (app *application) startSchedulers() {
	app.logger.Info("Starting Schedulers")
	go app.trackRecurringTransactionsHandler()
}

// publishMetrics sets up the expvar variables for the application
// It sets the version, the number of active goroutines, and the current Unix timestamp.
func publishMetrics() {
	expvar.NewString("version").Set(version)
	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))
	expvar.Publish("timestamp", expvar.Func(func() any {
		return time.Now().Unix()
	}))
}

// getCurrentPath invokes getEnvPath to get the path to the .env file based on the current working directory.
// A missing file is logged and skipped so flags and the real environment still apply.
func getCurrentPath(logger *zap.Logger) string {
	currentpath := getEnvPath(logger)
	if _, err := os.Stat(currentpath); err != nil {
		logger.Info("No .env file found, using process environment", zap.String("path", currentpath))
		return ""
	}
	if err := godotenv.Load(currentpath); err != nil {
		logger.Fatal(err.Error(), zap.String("path", currentpath))
	}
	logger.Info("Loading Environment Variables", zap.String("path", currentpath))
	return currentpath
}

// getEnvPath returns the path to the .env file based on the current working directory.
func getEnvPath(logger *zap.Logger) string {
	dir, err := os.Getwd()
	if err != nil {
		logger.Fatal(err.Error(), zap.String("path", dir))
		return ""
	}
	if strings.Contains(dir, "cmd/api") || strings.Contains(dir, "cmd") {
		return ".env"
	}
	return filepath.Join("cmd", "api", ".env")
}

// openStore builds the document store selected by cfg.store.
func openStore(cfg config, logger *zap.Logger) (data.DocumentStore, error) {
	switch cfg.store {
	case "memory":
		logger.Info("using in-memory document store")
		return data.NewMemoryStore(), nil
	case "postgres":
		db, err := openDB(cfg)
		if err != nil {
			return nil, err
		}
		store := data.NewPostgresStore(db)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := store.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, err
		}
		logger.Info("database connection pool established")
		return store, nil
	case "firestore":
		client, err := openFirestore(cfg)
		if err != nil {
			return nil, err
		}
		logger.Info("firestore client established", zap.String("project", cfg.firestore.project))
		return data.NewFirestoreStore(client), nil
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.store)
	}
}

// openDB() opens a new database connection using the provided configuration.
// It returns a pointer to the sql.DB connection pool and an error value.
func openDB(cfg config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.db.dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(cfg.db.maxOpenConns)
	db.SetMaxIdleConns(cfg.db.maxIdleConns)
	duration, err := time.ParseDuration(cfg.db.maxIdleTime)
	if err != nil {
		return nil, err
	}
	db.SetConnMaxIdleTime(duration)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// openFirestore() creates a Firestore client. The client library picks up
// FIRESTORE_EMULATOR_HOST from the environment, so the flag is exported
// there before dialing.
func openFirestore(cfg config) (*firestore.Client, error) {
	if cfg.firestore.project == "" {
		return nil, errors.New("firestore project must be provided")
	}
	if cfg.firestore.emulatorHost != "" {
		if err := os.Setenv("FIRESTORE_EMULATOR_HOST", cfg.firestore.emulatorHost); err != nil {
			return nil, err
		}
	}
	return firestore.NewClient(context.Background(), cfg.firestore.project)
}

// openRedis() opens a new Redis connection using the provided configuration.
// It returns a pointer to the Redis client and an error value.
func openRedis(cfg config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.redis.addr,
		Password: cfg.redis.password,
		DB:       cfg.redis.db,
	})
	err := rdb.Ping(context.Background()).Err()
	if err != nil {
		return nil, err
	}
	return rdb, nil
}
