package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Rules  RulesConfig  `yaml:"rules"`
	Email  EmailConfig  `yaml:"email"`
	Data   DataConfig   `yaml:"data"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host        string   `yaml:"host"`
	Port        int      `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// RulesConfig carries the product-tunable thresholds for the risk and
// recommendation engines. These are data, not logic: new signals are added
// by editing the signal table in internal/rules, and tuning happens here.
type RulesConfig struct {
	// StuckStageDays is the days_in_stage value above which an early/mid
	// stage deal counts as stuck (a strong signal).
	StuckStageDays int `yaml:"stuck_stage_days"`
	// StaleContactDays is the last_contact_days_ago value above which the
	// contact-recency (mild) signal fires.
	StaleContactDays int `yaml:"stale_contact_days"`
	// LowProbability is the win probability below which a single strong
	// signal already escalates to high risk.
	LowProbability float64 `yaml:"low_probability"`
	// MediumProbability bounds the middling band: a signal-free deal below
	// this probability is classified medium rather than low.
	MediumProbability float64 `yaml:"medium_probability"`
	// StrategicDealAmount is the deal size above which priority is raised
	// one level regardless of risk.
	StrategicDealAmount float64 `yaml:"strategic_deal_amount"`
}

// EmailConfig holds follow-up draft settings.
type EmailConfig struct {
	SenderName string `yaml:"sender_name"`
}

// DataConfig points at the sample data loaded on startup, if any.
type DataConfig struct {
	SamplePath string `yaml:"sample_path"`
}

// Default returns the documented default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: 8080,
			CORSOrigins: []string{
				"http://localhost:5173",
				"http://localhost:8080",
			},
		},
		Rules: DefaultRules(),
		Email: EmailConfig{
			SenderName: "Your Account Team",
		},
	}
}

// DefaultRules returns the documented rule thresholds.
func DefaultRules() RulesConfig {
	return RulesConfig{
		StuckStageDays:      30,
		StaleContactDays:    14,
		LowProbability:      0.30,
		MediumProbability:   0.50,
		StrategicDealAmount: 100000,
	}
}

// Load reads a yaml config file and fills in defaults for anything unset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// LoadFromEnv loads .env (if present), then the yaml file, then applies
// environment overrides for server settings. A missing config file is not
// an error: defaults are used.
func LoadFromEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg, err := Load(path)
	if os.IsNotExist(err) {
		cfg = Default()
	} else if err != nil {
		return nil, err
	}

	if host := os.Getenv("SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid SERVER_PORT %q: %w", port, err)
		}
		cfg.Server.Port = p
	}
	if sample := os.Getenv("SAMPLE_DATA_PATH"); sample != "" {
		cfg.Data.SamplePath = sample
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.Server.Host == "" {
		cfg.Server.Host = def.Server.Host
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = def.Server.Port
	}
	if len(cfg.Server.CORSOrigins) == 0 {
		cfg.Server.CORSOrigins = def.Server.CORSOrigins
	}
	if cfg.Rules.StuckStageDays == 0 {
		cfg.Rules.StuckStageDays = def.Rules.StuckStageDays
	}
	if cfg.Rules.StaleContactDays == 0 {
		cfg.Rules.StaleContactDays = def.Rules.StaleContactDays
	}
	if cfg.Rules.LowProbability == 0 {
		cfg.Rules.LowProbability = def.Rules.LowProbability
	}
	if cfg.Rules.MediumProbability == 0 {
		cfg.Rules.MediumProbability = def.Rules.MediumProbability
	}
	if cfg.Rules.StrategicDealAmount == 0 {
		cfg.Rules.StrategicDealAmount = def.Rules.StrategicDealAmount
	}
	if cfg.Email.SenderName == "" {
		cfg.Email.SenderName = def.Email.SenderName
	}
}
