package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type FetcherConfig struct {
	UserAgent          string `yaml:"userAgent"`
	TimeoutMs          int    `yaml:"timeoutMs"`
	MaxRedirects       int    `yaml:"maxRedirects"`
	InsecureSkipVerify bool   `yaml:"insecureSkipVerify"`
}

type CrawlerConfig struct {
	MaxPages        int  `yaml:"maxPages"`
	MaxDepth        int  `yaml:"maxDepth"`
	Workers         int  `yaml:"workers"`
	SeedFromSitemap bool `yaml:"seedFromSitemap"`
}

type RobotsConfig struct {
	Respect bool `yaml:"respect"`
}

type DatabaseConfig struct {
	DSN           string `yaml:"dsn"`
	MigrationsDir string `yaml:"migrationsDir"`
}

type RedisConfig struct {
	URL string `yaml:"url"`
}

type RateLimitConfig struct {
	Enabled          bool `yaml:"enabled"`
	DefaultPerMinute int  `yaml:"defaultPerMinute"`
}

type WorkerConfig struct {
	MaxConcurrentCrawls int `yaml:"maxConcurrentCrawls"`
	PollIntervalMs      int `yaml:"pollIntervalMs"`
}

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Fetcher   FetcherConfig   `yaml:"fetcher"`
	Crawler   CrawlerConfig   `yaml:"crawler"`
	Robots    RobotsConfig    `yaml:"robots"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	RateLimit RateLimitConfig `yaml:"ratelimit"`
	Worker    WorkerConfig    `yaml:"worker"`
}

func Load(path string) *Config {
	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("failed to open config file: %v", err)
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		log.Fatalf("failed to decode config: %v", err)
	}

	return &cfg
}
