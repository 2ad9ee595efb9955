package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/iamasit07/cube4/internal/domain"
	"github.com/iamasit07/cube4/internal/service/bot"
	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Auth     AuthConfig     `yaml:"auth"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Search   SearchConfig   `yaml:"search"`
	History  HistoryConfig  `yaml:"history"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Port           string        `yaml:"port" env:"PORT" env-default:"8080"`
	AllowedOrigins []string      `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" env-separator:"," env-default:"http://localhost:5173"`
	ShutdownGrace  time.Duration `yaml:"shutdown_grace" env:"SHUTDOWN_GRACE" env-default:"30s"`
}

type AuthConfig struct {
	RequireAuth bool          `yaml:"require_auth" env:"REQUIRE_AUTH" env-default:"false"`
	JWTSecret   string        `yaml:"jwt_secret" env:"JWT_SECRET" env-default:"your-secret-key-change-this-in-production"`
	TokenTTL    time.Duration `yaml:"token_ttl" env:"HARNESS_TOKEN_TTL" env-default:"720h"`
}

type DatabaseConfig struct {
	Driver             string `yaml:"driver" env:"DB_DRIVER" env-default:"pgx"`
	URL                string `yaml:"url" env:"DATABASE_URL"`
	MaxOpenConns       int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	MaxIdleConns       int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS" env-default:"25"`
	ConnMaxLifetimeMin int    `yaml:"conn_max_lifetime_minutes" env:"DB_CONN_MAX_LIFETIME_MINUTES" env-default:"5"`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr" env:"REDIS_URL" env-default:"localhost:6379"`
	Password string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	CacheTTL time.Duration `yaml:"cache_ttl" env:"MOVE_CACHE_TTL" env-default:"24h"`
	Disabled bool          `yaml:"disabled" env:"REDIS_DISABLED" env-default:"false"`
}

type SearchConfig struct {
	OpeningDepth   int           `yaml:"opening_depth" env:"SEARCH_OPENING_DEPTH" env-default:"4"`
	MidgameDepth   int           `yaml:"midgame_depth" env:"SEARCH_MIDGAME_DEPTH" env-default:"5"`
	EndgameDepth   int           `yaml:"endgame_depth" env:"SEARCH_ENDGAME_DEPTH" env-default:"8"`
	MidgameBelow   int           `yaml:"midgame_below" env:"SEARCH_MIDGAME_BELOW" env-default:"40"`
	EndgameBelow   int           `yaml:"endgame_below" env:"SEARCH_ENDGAME_BELOW" env-default:"10"`
	MoveTimeout    time.Duration `yaml:"move_timeout" env:"SEARCH_MOVE_TIMEOUT" env-default:"5s"`
	Parallel       bool          `yaml:"parallel" env:"SEARCH_PARALLEL" env-default:"true"`
	Order          string        `yaml:"order" env:"SEARCH_ORDER" env-default:"center"`
	Difficulty     string        `yaml:"difficulty" env:"DEFAULT_DIFFICULTY" env-default:"hard"`
	WeightThree    int           `yaml:"weight_three" env:"WEIGHT_THREE" env-default:"100"`
	WeightTwo      int           `yaml:"weight_two" env:"WEIGHT_TWO" env-default:"10"`
	WeightOne      int           `yaml:"weight_one" env:"WEIGHT_ONE" env-default:"1"`
	WeightOppThree int           `yaml:"weight_opp_three" env:"WEIGHT_OPP_THREE" env-default:"400"`
	WeightOppTwo   int           `yaml:"weight_opp_two" env:"WEIGHT_OPP_TWO" env-default:"15"`
	WeightCenter   int           `yaml:"weight_center" env:"WEIGHT_CENTER" env-default:"3"`
}

type HistoryConfig struct {
	RetentionDays   int           `yaml:"retention_days" env:"HISTORY_RETENTION_DAYS" env-default:"30"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" env:"HISTORY_CLEANUP_INTERVAL" env-default:"1h"`
	BufferSize      int           `yaml:"buffer_size" env:"HISTORY_BUFFER_SIZE" env-default:"256"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

var AppConfig *Config

// LoadConfig reads CONFIG_PATH (YAML) when it is set and then applies the
// environment on top of it.
func LoadConfig() (*Config, error) {
	var cfg Config
	var err error
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		err = cleanenv.ReadConfig(path, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	// Append simple_protocol for PgBouncer compatibility (pgx driver)
	if cfg.Database.Driver == "pgx" && cfg.Database.URL != "" && !strings.Contains(cfg.Database.URL, "default_query_exec_mode") {
		sep := "?"
		if strings.Contains(cfg.Database.URL, "?") {
			sep = "&"
		}
		cfg.Database.URL += sep + "default_query_exec_mode=simple_protocol"
	}

	AppConfig = &cfg
	return AppConfig, nil
}

// EngineOptions converts the search settings into engine options and
// validates them.
func (s SearchConfig) EngineOptions() (bot.Options, error) {
	order, err := domain.ParseMoveOrder(s.Order)
	if err != nil {
		return bot.Options{}, err
	}
	opts := bot.Options{
		Depth: bot.DepthPolicy{
			Opening:      s.OpeningDepth,
			Midgame:      s.MidgameDepth,
			Endgame:      s.EndgameDepth,
			MidgameBelow: s.MidgameBelow,
			EndgameBelow: s.EndgameBelow,
		},
		Weights: bot.Weights{
			Three:    s.WeightThree,
			Two:      s.WeightTwo,
			One:      s.WeightOne,
			OppThree: s.WeightOppThree,
			OppTwo:   s.WeightOppTwo,
			Center:   s.WeightCenter,
		},
		Order:       order,
		Parallel:    s.Parallel,
		MoveTimeout: s.MoveTimeout,
	}
	if err := opts.Weights.Validate(); err != nil {
		return bot.Options{}, err
	}
	if err := opts.Depth.Validate(); err != nil {
		return bot.Options{}, err
	}
	return opts, nil
}

func (s SearchConfig) DefaultDifficulty() bot.Difficulty {
	return bot.ParseDifficulty(s.Difficulty)
}
