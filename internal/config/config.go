package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

func init() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, falling back to system environment variables")
	}
}

type Config struct {
	DiscordToken string `env:"DISCORD_TOKEN"`
	StoragePath  string `env:"STORAGE_PATH" envDefault:"data/datastore.json"`
	StatusAddr   string `env:"STATUS_ADDR" envDefault:":8787"`

	// Playback tuning. Gain is a plain multiplier applied to PCM samples.
	AudioGain         float64       `env:"AUDIO_GAIN" envDefault:"0.5"`
	StreamRetries     int           `env:"STREAM_RETRIES" envDefault:"3"`
	ReconnectDelayMax time.Duration `env:"RECONNECT_DELAY_MAX" envDefault:"5s"`

	// Extraction backend.
	YtdlpPath   string `env:"YTDLP_PATH" envDefault:"yt-dlp"`
	FfmpegPath  string `env:"FFMPEG_PATH" envDefault:"ffmpeg"`
	CookiesFile string `env:"COOKIES_FILE"`

	InitSlashCommands bool `env:"INIT_SLASH_COMMANDS" envDefault:"true"`
}

func New() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if cfg.DiscordToken == "" {
		return nil, errors.New("DISCORD_TOKEN is not set")
	}
	if cfg.AudioGain <= 0 {
		cfg.AudioGain = 0.5
	}
	if cfg.StreamRetries < 1 {
		cfg.StreamRetries = 1
	}

	return cfg, nil
}
