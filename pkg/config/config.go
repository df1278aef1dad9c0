// Package config loads diagramkit settings from YAML.
//
// Values may reference environment variables (${REDIS_ADDR}); they are
// expanded before parsing. Missing keys keep the defaults from
// [NewDefaultConfig], and the result is validated with ozzo-validation.
//
//	log:
//	  level: info
//	render:
//	  theme: brand
//	  formats: [svg, png]
//	cache:
//	  backend: redis
//	  redis:
//	    addr: ${REDIS_ADDR}
package config

import (
	"fmt"
	"os"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/diagramkit/pkg/label"
	"github.com/matzehuels/diagramkit/pkg/layout"
	"github.com/matzehuels/diagramkit/pkg/pipeline"
	"github.com/matzehuels/diagramkit/pkg/style"
)

// Cache backends.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Storage backends.
const (
	StorageMemory = "memory"
	StorageMongo  = "mongo"
)

// Config is the complete application configuration.
type Config struct {
	Log     LogConfig     `yaml:"log"`
	Layout  LayoutConfig  `yaml:"layout"`
	Render  RenderConfig  `yaml:"render"`
	Cache   CacheConfig   `yaml:"cache"`
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
}

// Validate validates every section.
func (c *Config) Validate() error {
	sections := []struct {
		name string
		v    validation.Validatable
	}{
		{"log", &c.Log},
		{"layout", &c.Layout},
		{"render", &c.Render},
		{"cache", &c.Cache},
		{"server", &c.Server},
		{"storage", &c.Storage},
	}
	for _, s := range sections {
		if err := s.v.Validate(); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Validate validates the log configuration.
func (c *LogConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Level, validation.Required, validation.In("debug", "info", "warn", "error")),
	)
}

// LayoutConfig holds composition geometry.
type LayoutConfig struct {
	BoxWidth    float64 `yaml:"box_width"`
	BoxHeight   float64 `yaml:"box_height"`
	LabelBudget int     `yaml:"label_budget"`
	LineHeight  float64 `yaml:"line_height"`
	LaneMargin  float64 `yaml:"lane_margin"`
	Legend      bool    `yaml:"legend"`
	LegendTitle string  `yaml:"legend_title"`
}

// Validate validates the layout configuration.
func (c *LayoutConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BoxWidth, validation.Required, validation.Min(0.1)),
		validation.Field(&c.BoxHeight, validation.Required, validation.Min(0.1)),
		validation.Field(&c.LabelBudget, validation.Required, validation.Min(1), validation.Max(200)),
		validation.Field(&c.LineHeight, validation.Min(0.0)),
		validation.Field(&c.LaneMargin, validation.Min(0.0)),
	)
}

// RenderConfig holds output settings.
type RenderConfig struct {
	Theme         string   `yaml:"theme"`
	ThemeFile     string   `yaml:"theme_file"`
	Engine        string   `yaml:"engine"`
	Formats       []string `yaml:"formats"`
	PixelsPerUnit float64  `yaml:"pixels_per_unit"`
	Padding       float64  `yaml:"padding"`
	PNGScale      float64  `yaml:"png_scale"`
}

// Validate validates the render configuration.
func (c *RenderConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Theme, validation.Required, validation.In(style.ThemeBrand, style.ThemeMono)),
		validation.Field(&c.Engine, validation.Required, validation.In(pipeline.EngineNative, pipeline.EngineGraphviz)),
		validation.Field(&c.Formats, validation.Required),
		validation.Field(&c.PixelsPerUnit, validation.Required, validation.Min(1.0)),
		validation.Field(&c.Padding, validation.Min(0.0)),
		validation.Field(&c.PNGScale, validation.Required, validation.Min(0.1)),
	); err != nil {
		return err
	}
	return pipeline.ValidateFormats(c.Engine, c.Formats)
}

// CacheConfig selects and configures the artifact cache.
type CacheConfig struct {
	Backend string        `yaml:"backend"`
	Dir     string        `yaml:"dir"`
	TTL     time.Duration `yaml:"ttl"`
	Redis   RedisConfig   `yaml:"redis"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// Validate validates the cache configuration.
func (c *CacheConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Backend, validation.Required, validation.In(CacheNone, CacheFile, CacheRedis)),
		validation.Field(&c.TTL, validation.Min(time.Duration(0))),
		validation.Field(&c.Redis, validation.When(c.Backend == CacheRedis, validation.By(func(any) error {
			return validation.ValidateStruct(&c.Redis,
				validation.Field(&c.Redis.Addr, validation.Required),
				validation.Field(&c.Redis.DB, validation.Min(0)),
			)
		}))),
	)
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
}

// Address returns the listen address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the server configuration.
func (c *ServerConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.MaxBodyBytes, validation.Required, validation.Min(int64(1024))),
	)
}

// StorageConfig selects where the API keeps composed diagrams.
type StorageConfig struct {
	Backend  string `yaml:"backend"`
	MongoURI string `yaml:"mongo_uri"`
	Database string `yaml:"database"`
}

// Validate validates the storage configuration.
func (c *StorageConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Backend, validation.Required, validation.In(StorageMemory, StorageMongo)),
		validation.Field(&c.MongoURI, validation.When(c.Backend == StorageMongo, validation.Required)),
	)
}

// NewDefaultConfig returns the built-in defaults.
func NewDefaultConfig() *Config {
	l := layout.DefaultConfig()
	return &Config{
		Log: LogConfig{Level: "info"},
		Layout: LayoutConfig{
			BoxWidth:    l.BoxWidth,
			BoxHeight:   l.BoxHeight,
			LabelBudget: label.DefaultBudget,
			LineHeight:  0.16,
			LaneMargin:  1,
			Legend:      true,
		},
		Render: RenderConfig{
			Theme:         style.ThemeBrand,
			Engine:        pipeline.EngineNative,
			Formats:       []string{pipeline.FormatSVG},
			PixelsPerUnit: 80,
			Padding:       0.6,
			PNGScale:      pipeline.DefaultPNGScale,
		},
		Cache: CacheConfig{
			Backend: CacheFile,
			TTL:     7 * 24 * time.Hour,
			Redis:   RedisConfig{Addr: "localhost:6379"},
		},
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
			MaxBodyBytes: 1 << 20,
		},
		Storage: StorageConfig{
			Backend:  StorageMemory,
			Database: "diagramkit",
		},
	}
}

// Load reads a YAML file over the defaults, expanding ${VAR}
// references, and validates the result.
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", filename, err)
	}
	return Parse(data)
}

// Parse decodes YAML bytes over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := NewDefaultConfig()
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault loads filename when it is non-empty and exists;
// otherwise it returns the defaults.
func LoadOrDefault(filename string) (*Config, error) {
	if filename == "" {
		return NewDefaultConfig(), nil
	}
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return NewDefaultConfig(), nil
	}
	return Load(filename)
}

// PipelineOptions converts the layout and render sections into pipeline
// options, loading the theme file if one is configured.
func (c *Config) PipelineOptions() (pipeline.Options, error) {
	opts := pipeline.Options{
		Theme:         c.Render.Theme,
		BoxWidth:      c.Layout.BoxWidth,
		BoxHeight:     c.Layout.BoxHeight,
		LabelBudget:   c.Layout.LabelBudget,
		LineHeight:    c.Layout.LineHeight,
		LaneMargin:    c.Layout.LaneMargin,
		NoLegend:      !c.Layout.Legend,
		LegendTitle:   c.Layout.LegendTitle,
		Engine:        c.Render.Engine,
		Formats:       append([]string(nil), c.Render.Formats...),
		PixelsPerUnit: c.Render.PixelsPerUnit,
		Padding:       c.Render.Padding,
		PNGScale:      c.Render.PNGScale,
	}
	if c.Render.ThemeFile != "" {
		th, err := style.LoadTheme(c.Render.ThemeFile)
		if err != nil {
			return pipeline.Options{}, err
		}
		opts.CustomTheme = &th
	}
	return opts, nil
}
