package factory

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/mcoot/matchengine-go/internal/dependencies/clock"
	"github.com/mcoot/matchengine-go/internal/dependencies/random"
	"github.com/mcoot/matchengine-go/internal/engine"
	"github.com/mcoot/matchengine-go/internal/model"
	"github.com/mcoot/matchengine-go/internal/rules"
	"github.com/mcoot/matchengine-go/internal/rules/connectfour"
	"github.com/mcoot/matchengine-go/internal/rules/tictactoe"
	"github.com/mcoot/matchengine-go/internal/storage"
	"github.com/mcoot/matchengine-go/internal/storage/memory"
	redisstorage "github.com/mcoot/matchengine-go/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// DefaultSweepInterval is how often the timer sweep re-checks every queue
const DefaultSweepInterval = 5 * time.Second

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Core components
	Rules   *rules.Registry
	Engine  *engine.Engine
	Sweeper *engine.Sweeper
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// EngineConfig holds engine tuning (optional)
	// If zero value, defaults to engine.DefaultConfig()
	EngineConfig engine.Config
	// SweepInterval is the timer sweep period (optional)
	// If zero, defaults to DefaultSweepInterval
	SweepInterval time.Duration
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	clk := clock.New()
	rnd := random.New()

	engineCfg := cfg.EngineConfig
	if engineCfg.CallTimeout == 0 {
		engineCfg = engine.DefaultConfig()
	}

	sweepInterval := cfg.SweepInterval
	if sweepInterval == 0 {
		sweepInterval = DefaultSweepInterval
	}

	return newWithDependencies(store, clk, rnd, engineCfg, sweepInterval, logger)
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	engineCfg engine.Config,
	sweepInterval time.Duration,
	logger *slog.Logger,
) (*App, error) {
	registry := rules.NewRegistry()
	registry.Register(model.GameTypeTicTacToe, tictactoe.New())
	registry.Register(model.GameTypeConnectFour, connectfour.New())

	eng := engine.New(store, registry, clk, rnd, logger, engineCfg)

	sweeper, err := engine.NewSweeper(eng, sweepInterval, logger)
	if err != nil {
		return nil, err
	}

	return &App{
		Storage: store,
		Clock:   clk,
		Random:  rnd,
		Rules:   registry,
		Engine:  eng,
		Sweeper: sweeper,
	}, nil
}
