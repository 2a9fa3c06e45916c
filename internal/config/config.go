package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/AndreyStartsev/heb-tes-project/internal/domain"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Quiz struct {
		Dir string `yaml:"dir"`
		TTL string `yaml:"ttl"`
	} `yaml:"quiz"`
	Scoring struct {
		PointsPerQuestion   int    `yaml:"pointsPerQuestion"`
		SecretWordThreshold int    `yaml:"secretWordThreshold"`
		MaxAttemptsPerCycle int    `yaml:"maxAttemptsPerCycle"`
		ResultRetention     string `yaml:"resultRetention"`
	} `yaml:"scoring"`
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

// Rules maps the scoring section onto domain rules, keeping the defaults for
// anything left unset.
func (c Config) Rules() domain.Rules {
	rules := domain.DefaultRules()
	if c.Scoring.PointsPerQuestion > 0 {
		rules.PointsPerQuestion = c.Scoring.PointsPerQuestion
	}
	if c.Scoring.SecretWordThreshold > 0 {
		rules.SecretWordThreshold = c.Scoring.SecretWordThreshold
	}
	if c.Scoring.MaxAttemptsPerCycle > 0 {
		rules.MaxAttemptsPerCycle = c.Scoring.MaxAttemptsPerCycle
	}
	return rules
}

// ResultRetention is how long completion records are kept (365 days unless
// configured otherwise).
func (c Config) ResultRetention() time.Duration {
	return TTLDuration(c.Scoring.ResultRetention, 365*24*time.Hour)
}
