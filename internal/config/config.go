package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTPAddr      string   `yaml:"HTTP_ADDR"`
	MySQLDSN      string   `yaml:"MYSQL_DSN"`
	RedisAddr     string   `yaml:"REDIS_ADDR"`
	RedisPassword string   `yaml:"REDIS_PASSWORD"`
	RedisDB       int      `yaml:"REDIS_DB"`
	SMTPHost      string   `yaml:"SMTP_HOST"`
	SMTPPort      int      `yaml:"SMTP_PORT"`
	SMTPUsername  string   `yaml:"SMTP_USERNAME"`
	SMTPPassword  string   `yaml:"SMTP_PASSWORD"`
	SMTPFrom      string   `yaml:"SMTP_FROM"`
	KafkaBrokers  []string `yaml:"KAFKA_BROKERS"`
	KafkaTopic    string   `yaml:"KAFKA_TOPIC"`
	AccessSecret  string   `yaml:"ACCESS_SECRET"`
	RefreshSecret string   `yaml:"REFRESH_SECRET"`
	InviteBaseURL string   `yaml:"INVITE_BASE_URL"`
}

// Load reads the YAML config file, falling back to config.yaml next to the
// binary when path is empty.
func Load(path string) (*Config, error) {
	if path == "" {
		path = "config.yaml"
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	return &cfg, nil
}
