package core

import (
	"time"
)

type Config struct {
	Convert ConvertConfig
	Spotify SpotifyConfig
	Server  ServerConfig
	Store   StoreConfig
	Log     LogConfig
}

type ConvertConfig struct {
	Enabled        bool
	CountryCode    string
	MatchThreshold float64
	SearchLimit    int
}

type SpotifyConfig struct {
	ClientID     string
	ClientSecret string
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type StoreConfig struct {
	StatsPath string
	CacheSize int
}

type LogConfig struct {
	Level  string
	Format string
}

func DefaultConfig() *Config {
	return &Config{
		Convert: ConvertConfig{
			Enabled:        true,
			CountryCode:    "us",
			MatchThreshold: 0.8,
			SearchLimit:    10,
		},
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Store: StoreConfig{
			StatsPath: "./tuneswap_stats.db",
			CacheSize: 1024,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
