package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/notediagram/pkg/buildinfo"
	"github.com/matzehuels/notediagram/pkg/cache"
	"github.com/matzehuels/notediagram/pkg/config"
	"github.com/matzehuels/notediagram/pkg/pipeline"
	"github.com/matzehuels/notediagram/pkg/render/pass"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

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
		Short: "notediagram renders themed diagrams for notes",
		Long: `notediagram composes catalog diagrams with a color theme and a flat or
hand-drawn look, fits them to their content, and places up to four key points
around them. Output goes to SVG, PNG, PDF or JSON, or is served over HTTP.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/notediagram/config.toml)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.statechartCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

func (c *CLI) loadConfig() error {
	if c.cfg != nil {
		return nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if cfg.Path != "" {
		c.Logger.Debug("loaded config", "path", cfg.Path)
	}
	c.cfg = cfg
	return nil
}

// config returns the loaded configuration, or defaults before loading.
func (c *CLI) config() *config.Config {
	if c.cfg == nil {
		return config.Default()
	}
	return c.cfg
}

// =============================================================================
// Runner Factory
// =============================================================================

// newEngine creates a pass engine with the configured themes and sketch
// tuning.
func (c *CLI) newEngine() (*pass.Engine, error) {
	cfg := c.config()
	reg, err := cfg.Registry()
	if err != nil {
		return nil, err
	}
	return pass.NewEngine(
		pass.WithThemes(reg),
		pass.WithLogger(c.Logger),
		pass.WithSketchOptions(cfg.SketchOptions()...),
	), nil
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	engine, err := c.newEngine()
	if err != nil {
		return nil, err
	}
	var cc cache.Cache = cache.NewNullCache()
	if !noCache {
		if cc, err = c.config().OpenCache(ctx, c.Logger); err != nil {
			c.Logger.Warn("cache unavailable", "err", err)
			cc = cache.NewNullCache()
		}
	}
	return pipeline.NewRunner(cc, c.config().Keyer(), engine, c.Logger), nil
}
