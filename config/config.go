package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const ENV_FILE = ".env"
const CONFIG_FILE = "config.yaml"

type AppConfig struct {
	Logging    LoggingConfig    `yaml:"logging"`
	Server     ServerConfig     `yaml:"server"`
	Mongo      MongoConfig      `yaml:"mongo"`
	Feed       FeedConfig       `yaml:"feed"`
	Engagement EngagementConfig `yaml:"engagement"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type MongoConfig struct {
	URI    string `yaml:"uri"`
	DBName string `yaml:"db_name"`
}

// FeedConfig bounds the live feed query.
type FeedConfig struct {
	// PageSize is the snapshot limit; 0 means unbounded.
	PageSize int64 `yaml:"page_size"`
}

// EngagementConfig tunes the engagement engines.
type EngagementConfig struct {
	// ViewWindowMinutes is the dedup window for repeat views.
	ViewWindowMinutes int `yaml:"view_window_minutes"`
	// ViewCachePath is the sqlite file persisting per-post last-view times.
	ViewCachePath string `yaml:"view_cache_path"`
}

var config *AppConfig

func InitApp() {
	// load environment variables
	godotenv.Load(filepath.Join(GetBasePath(), ENV_FILE))

	// load configuration file
	data, err := os.ReadFile(filepath.Join(GetBasePath(), CONFIG_FILE))
	if err != nil {
		panic(err)
	}

	var c AppConfig
	err = yaml.Unmarshal(data, &c)
	if err != nil {
		panic(err)
	}
	applyDefaults(&c)
	config = &c
}

func GetConfig() AppConfig {
	if config == nil {
		InitApp()
	}

	return *config
}

func applyDefaults(c *AppConfig) {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if uri := os.Getenv("MONGO_URI"); uri != "" {
		c.Mongo.URI = uri
	}
	if c.Feed.PageSize == 0 {
		c.Feed.PageSize = 6
	}
	if c.Engagement.ViewWindowMinutes <= 0 {
		c.Engagement.ViewWindowMinutes = 60
	}
	if c.Engagement.ViewCachePath == "" {
		c.Engagement.ViewCachePath = "viewcache.db"
	}
}

// JWTSecret comes from the environment only, never from the config file.
func JWTSecret() string {
	return os.Getenv("JWT_SECRET")
}

func GetBasePath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		cfgPath := filepath.Join(dir, CONFIG_FILE)
		if info, err := os.Stat(cfgPath); err == nil && !info.IsDir() {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}
