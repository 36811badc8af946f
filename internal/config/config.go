package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"MemeSim/internal/model"
)

// Config holds all application configuration.
type Config struct {
	Simulation struct {
		CapitalPerAsset   float64 `yaml:"capital_per_asset"`
		InitialCapital    float64 `yaml:"initial_capital"`
		ShortFailureRate  float64 `yaml:"short_failure_rate"`
		LongFailureRate   float64 `yaml:"long_failure_rate"`
		SuccessMultiplier float64 `yaml:"success_multiplier"`
		TimeHorizonHours  int     `yaml:"time_horizon_hours"`
		Seed              uint64  `yaml:"seed"` // 0 means a fresh seed per run
	} `yaml:"simulation"`
	Batch struct {
		Trials  int `yaml:"trials"`
		Workers int `yaml:"workers"`
	} `yaml:"batch"`
	Output struct {
		ChartPath   string `yaml:"chart_path"`
		ChartStride int    `yaml:"chart_stride"`
		Unit        string `yaml:"unit"`
	} `yaml:"output"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   int64  `yaml:"chat_id"`
	} `yaml:"telegram"`
	Schedule struct {
		SimulateCron string `yaml:"simulate_cron"`
		BatchCron    string `yaml:"batch_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file over the defaults, then applies
// environment variable overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("parse TELEGRAM_CHAT_ID: %w", err)
		}
		c.Telegram.ChatID = id
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.SQLitePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("MEMESIM_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("parse MEMESIM_SEED: %w", err)
		}
		c.Simulation.Seed = seed
	}
	if v := os.Getenv("MEMESIM_HORIZON_HOURS"); v != "" {
		h, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse MEMESIM_HORIZON_HOURS: %w", err)
		}
		c.Simulation.TimeHorizonHours = h
	}
	if v := os.Getenv("MEMESIM_CRON_SIMULATE"); v != "" {
		c.Schedule.SimulateCron = v
	}
	if v := os.Getenv("MEMESIM_CRON_BATCH"); v != "" {
		c.Schedule.BatchCron = v
	}
	return nil
}

// Default returns the built-in configuration: six months of one 0.01 $SOL
// buy per day from 1 $SOL. Keys present in the YAML file replace these, so a
// rate of 0 can be set explicitly.
func Default() *Config {
	c := &Config{}
	c.Simulation.CapitalPerAsset = 0.01
	c.Simulation.InitialCapital = 1
	c.Simulation.ShortFailureRate = 0.9
	c.Simulation.LongFailureRate = 0.7
	c.Simulation.SuccessMultiplier = 20
	c.Simulation.TimeHorizonHours = 6 * 30 * 24
	c.Batch.Trials = 1000
	c.Batch.Workers = 4
	c.Output.ChartPath = "out/portfolio.png"
	c.Output.ChartStride = 24
	c.Output.Unit = "$SOL"
	c.Schedule.SimulateCron = "0 0 9 * * *"
	c.Schedule.BatchCron = "0 0 9 * * 1"
	c.Database.SQLitePath = "data/memesim.db"
	c.Logging.Level = "info"
	return c
}

// Params returns the simulation parameters.
func (c *Config) Params() model.Params {
	s := c.Simulation
	return model.Params{
		CapitalPerAsset:   s.CapitalPerAsset,
		InitialCapital:    s.InitialCapital,
		ShortFailureRate:  s.ShortFailureRate,
		LongFailureRate:   s.LongFailureRate,
		SuccessMultiplier: s.SuccessMultiplier,
		TimeHorizonHours:  s.TimeHorizonHours,
	}
}

// Validate checks the fields every command needs. Simulation parameters are
// checked by the simulator itself.
func (c *Config) Validate() error {
	if c.Batch.Trials <= 0 {
		return fmt.Errorf("batch.trials must be positive")
	}
	if c.Batch.Workers <= 0 {
		return fmt.Errorf("batch.workers must be positive")
	}
	if c.Output.ChartStride <= 0 {
		return fmt.Errorf("output.chart_stride must be positive")
	}
	return nil
}

// ValidateServe additionally checks what the scheduled daemon needs.
func (c *Config) ValidateServe() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == 0 {
		return fmt.Errorf("telegram.chat_id is required")
	}
	return nil
}
