package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	// Runtime
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`
	Port     string `mapstructure:"PORT"`

	// Stats site
	BaseURL        string        `mapstructure:"BASE_URL"`
	Season         int           `mapstructure:"SEASON"`
	UserAgent      string        `mapstructure:"USER_AGENT"`
	RequestDelay   time.Duration `mapstructure:"REQUEST_DELAY"`
	FetchTimeout   time.Duration `mapstructure:"FETCH_TIMEOUT"`
	Workers        int           `mapstructure:"WORKERS"`
	ProjectLimit   int           `mapstructure:"PROJECT_LIMIT"`
	GameWindow     int           `mapstructure:"GAME_WINDOW"`
	MaxSuffixBumps int           `mapstructure:"MAX_SUFFIX_BUMPS"`

	// Circuit breaker around the stats site
	CircuitBreakerThreshold int           `mapstructure:"CIRCUIT_BREAKER_THRESHOLD"`
	CircuitBreakerTimeout   time.Duration `mapstructure:"CIRCUIT_BREAKER_TIMEOUT"`

	// Storage
	DatabaseURL  string        `mapstructure:"DATABASE_URL"`
	RedisURL     string        `mapstructure:"REDIS_URL"`
	PageCacheTTL time.Duration `mapstructure:"PAGE_CACHE_TTL"`

	// Optimization
	SalaryCap int `mapstructure:"SALARY_CAP"`
	MaxNodes  int `mapstructure:"MAX_NODES"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")

	SetDefaults(viper.GetViper())

	// Read from environment
	viper.AutomaticEnv()

	// Read config file if exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if config.Season == 0 {
		config.Season = CurrentSeason(time.Now())
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// SetDefaults registers every key so AutomaticEnv and Unmarshal can see it.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "")
	v.SetDefault("PORT", "8080")

	v.SetDefault("BASE_URL", "https://www.basketball-reference.com")
	v.SetDefault("SEASON", 0) // derived from today's date when unset
	v.SetDefault("USER_AGENT", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	v.SetDefault("REQUEST_DELAY", "2s")
	v.SetDefault("FETCH_TIMEOUT", "30s")
	v.SetDefault("WORKERS", 1)
	v.SetDefault("PROJECT_LIMIT", 200)
	v.SetDefault("GAME_WINDOW", 10)
	v.SetDefault("MAX_SUFFIX_BUMPS", 4)

	v.SetDefault("CIRCUIT_BREAKER_THRESHOLD", 5) // Open after 5 consecutive failures
	v.SetDefault("CIRCUIT_BREAKER_TIMEOUT", "60s")

	v.SetDefault("DATABASE_URL", "nba_directory.db")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("PAGE_CACHE_TTL", "6h")

	v.SetDefault("SALARY_CAP", 60000)
	v.SetDefault("MAX_NODES", 200000)
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("BASE_URL must not be empty")
	}
	if c.Workers < 1 {
		return fmt.Errorf("WORKERS must be at least 1, got %d", c.Workers)
	}
	if c.GameWindow < 2 {
		return fmt.Errorf("GAME_WINDOW must be at least 2, got %d", c.GameWindow)
	}
	if c.SalaryCap <= 0 {
		return fmt.Errorf("SALARY_CAP must be positive, got %d", c.SalaryCap)
	}
	if c.ProjectLimit < 0 {
		return fmt.Errorf("PROJECT_LIMIT must not be negative, got %d", c.ProjectLimit)
	}
	if c.RequestDelay < 0 || c.FetchTimeout < 0 {
		return fmt.Errorf("REQUEST_DELAY and FETCH_TIMEOUT must not be negative")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// CurrentSeason returns the year an NBA season ends in. Seasons tip off in
// October, so from October on the site files games under the next year.
func CurrentSeason(now time.Time) int {
	if now.Month() >= time.October {
		return now.Year() + 1
	}
	return now.Year()
}
