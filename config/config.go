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
	Logging     LoggingConfig  `yaml:"logging"`
	Server      ServerConfig   `yaml:"server"`
	GeminiModel string         `yaml:"gemini_model"`
	GeminiKey   string         `yaml:"-"`
	Relay       RelayConfig    `yaml:"relay"`
	Analysis    AnalysisConfig `yaml:"analysis"`
	Storage     StorageConfig  `yaml:"storage"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// RelayConfig holds the ordered relay endpoint templates used to fetch
// third-party feeds. The percent-encoded target URL is appended to each
// template as-is. Order matters: earlier entries are assumed more reliable.
type RelayConfig struct {
	Endpoints      []string `yaml:"endpoints"`
	TimeoutSeconds int      `yaml:"timeout_seconds"`
}

type AnalysisConfig struct {
	// PostSampleSize is the max-results value for the posts feed fetch.
	PostSampleSize int `yaml:"post_sample_size"`
	// PageSampleSize is the max-results value for the pages feed fetch.
	PageSampleSize int `yaml:"page_sample_size"`
	// MaxStoredPosts caps the post list kept on each blog record.
	MaxStoredPosts int `yaml:"max_stored_posts"`
	// MaxTags caps the unioned tag set on each blog record.
	MaxTags int `yaml:"max_tags"`
}

// StorageConfig selects the blog collection backend: "mongo" or "file".
type StorageConfig struct {
	Backend     string `yaml:"backend"`
	FilePath    string `yaml:"file_path"`
	MongoURI    string `yaml:"-"`
	MongoDBName string `yaml:"mongo_db_name"`
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

	c.GeminiKey = os.Getenv("GEMINI_API_KEY")
	if uri := os.Getenv("MONGO_URI"); uri != "" {
		c.Storage.MongoURI = uri
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
	if c.GeminiModel == "" {
		c.GeminiModel = "gemini-2.0-flash"
	}
	if len(c.Relay.Endpoints) == 0 {
		c.Relay.Endpoints = []string{
			"https://corsproxy.io/?url=",
			"https://api.allorigins.win/raw?url=",
			"https://api.codetabs.com/v1/proxy?quest=",
			"https://cors-anywhere.herokuapp.com/",
		}
	}
	if c.Relay.TimeoutSeconds <= 0 {
		c.Relay.TimeoutSeconds = 20
	}
	if c.Analysis.PostSampleSize <= 0 {
		c.Analysis.PostSampleSize = 25
	}
	if c.Analysis.PageSampleSize <= 0 {
		c.Analysis.PageSampleSize = 10
	}
	if c.Analysis.MaxStoredPosts <= 0 {
		c.Analysis.MaxStoredPosts = 25
	}
	if c.Analysis.MaxTags <= 0 {
		c.Analysis.MaxTags = 15
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = "file"
	}
	if c.Storage.FilePath == "" {
		c.Storage.FilePath = filepath.Join(GetBasePath(), "blogscope_blogs.json")
	}
	if c.Storage.MongoDBName == "" {
		c.Storage.MongoDBName = "blogscope"
	}
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
