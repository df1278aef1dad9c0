// Package cli implements the diagramkit command-line interface.
//
// Commands compose declarative models into SVG, PNG, PDF or JSON scenes,
// validate models, watch files for changes, export Graphviz DOT, serve the
// HTTP API and manage the local artifact cache. The CLI is built on cobra
// and logs through charmbracelet/log.
//
// # Commands
//
//   - compose: Compose one or more models and write the rendered outputs
//   - validate: Check models without rendering
//   - watch: Re-compose a model every time it changes on disk
//   - export: Convert a model to DOT, JSON, YAML or TOML
//   - serve: Run the HTTP API
//   - cache: Manage the local artifact cache
//
// # Configuration
//
// Settings come from a YAML file (--config, $DIAGRAMKIT_CONFIG or
// ./diagramkit.yaml when present). Command flags override the file.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger
// travels through context.Context so helpers can report progress.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/diagramkit/pkg/buildinfo"
	"github.com/matzehuels/diagramkit/pkg/cache"
	"github.com/matzehuels/diagramkit/pkg/config"
	"github.com/matzehuels/diagramkit/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "diagramkit"

	// defaultConfigFile is picked up from the working directory when no
	// config path is given.
	defaultConfigFile = "diagramkit.yaml"

	// configEnv names the environment variable holding a config path.
	configEnv = "DIAGRAMKIT_CONFIG"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	verbose    bool
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "diagramkit composes declarative models into diagrams",
		Long: `diagramkit turns small, pre-positioned domain descriptions (entities with
attributes and relationships, or actor steps grouped into swimlanes) into
ordered scenes of draw operations and renders them to SVG, PNG, PDF or JSON.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default $"+configEnv+" or ./"+defaultConfigFile+")")

	root.AddCommand(c.composeCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration, applies the log level and attaches the
// logger to the command context.
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	level := parseLevel(cfg.Log.Level)
	if c.verbose {
		level = log.DebugLevel
	}
	c.SetLogLevel(level)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	c.Logger.Debug("loaded config", "path", c.configSource())
	return nil
}

// config returns the loaded configuration, falling back to defaults when
// a command runs without the root pre-run (as in tests).
func (c *CLI) config() *config.Config {
	if c.cfg == nil {
		c.cfg = config.NewDefaultConfig()
	}
	return c.cfg
}

func (c *CLI) configSource() string {
	if p := resolveConfigPath(c.configPath); p != "" {
		return p
	}
	return "defaults"
}

// loadConfig reads an explicit path strictly; the implicit defaults are
// optional.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.LoadOrDefault(resolveConfigPath(""))
}

func resolveConfigPath(path string) string {
	if path != "" {
		return path
	}
	if env := os.Getenv(configEnv); env != "" {
		return env
	}
	if _, err := os.Stat(defaultConfigFile); err == nil {
		return defaultConfigFile
	}
	return ""
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cfg := c.config()
	ch, err := newCache(ctx, cfg.Cache, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(ch, nil, c.Logger)
	r.TTL = cfg.Cache.TTL
	return r, nil
}

func newCache(ctx context.Context, cfg config.CacheConfig, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		return cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
	}
	dir := cfg.Dir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/diagramkit/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
