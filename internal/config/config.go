package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Addr          string
	AllowOrigins  string
	BotSeed       int64
	Dev           bool
	MatchInterval time.Duration
}

func defaults() Config {
	return Config{
		Addr:          ":3000",
		AllowOrigins:  "http://localhost:3000",
		BotSeed:       0,
		Dev:           false,
		MatchInterval: time.Second,
	}
}

// Load builds the configuration from TAKEME_* environment variables, then
// applies command-line flags on top.
func Load(args []string) (Config, error) {
	cfg := defaults()
	if err := cfg.fromEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}

	fs := flag.NewFlagSet("takeme-server", flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	fs.StringVar(&cfg.AllowOrigins, "origins", cfg.AllowOrigins, "comma separated CORS origins")
	fs.Int64Var(&cfg.BotSeed, "bot-seed", cfg.BotSeed, "bot random seed, 0 seeds from the clock")
	fs.BoolVar(&cfg.Dev, "dev", cfg.Dev, "development logging")
	fs.DurationVar(&cfg.MatchInterval, "match-interval", cfg.MatchInterval, "matchmaking pairing interval")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.MatchInterval <= 0 {
		return Config{}, fmt.Errorf("match interval must be positive, got %s", cfg.MatchInterval)
	}
	if cfg.Addr == "" {
		return Config{}, fmt.Errorf("listen address is required")
	}
	return cfg, nil
}

func (c *Config) fromEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("TAKEME_ADDR"); ok {
		c.Addr = v
	}
	if v, ok := lookup("TAKEME_ALLOW_ORIGINS"); ok {
		c.AllowOrigins = v
	}
	if v, ok := lookup("TAKEME_BOT_SEED"); ok {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("TAKEME_BOT_SEED: %w", err)
		}
		c.BotSeed = seed
	}
	if v, ok := lookup("TAKEME_DEV"); ok {
		dev, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("TAKEME_DEV: %w", err)
		}
		c.Dev = dev
	}
	if v, ok := lookup("TAKEME_MATCH_INTERVAL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("TAKEME_MATCH_INTERVAL: %w", err)
		}
		c.MatchInterval = d
	}
	return nil
}

// Seed resolves the bot seed, drawing one from the clock when unset.
func (c Config) Seed() int64 {
	if c.BotSeed != 0 {
		return c.BotSeed
	}
	return time.Now().UnixNano()
}
