package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-errors/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"transitboard/app"
	"transitboard/board/fonts/frf"
	"transitboard/hal"
	"transitboard/internal/buildinfo"
	"transitboard/internal/config"
)

var opts struct {
	config   string
	headless bool
	snapshot string
	width    int
	height   int
	scale    int
	fps      int
	font     string
	logLevel string
	debug    bool
}

var rootCmd = &cobra.Command{
	Use:          "transitboard",
	Short:        "drive an LED matrix with transit departures, a clock and the weather",
	Long:         "transitboard renders rotating clock, weather and transit pages into an LED panel, a desktop window or a headless buffer.",
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(func() error { return runBoard(cmd) })
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print build information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), buildinfo.Long())
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(func() error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(cfg); err != nil {
				return errors.Wrap(err, 0)
			}
			return enc.Close()
		})
	},
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVarP(&opts.config, "config", "c", "transitboard.yaml", "configuration file (YAML or JSON)")
	f.IntVar(&opts.width, "width", 0, "panel width in pixels")
	f.IntVar(&opts.height, "height", 0, "panel height in pixels")
	f.StringVar(&opts.font, "font", "", "FRF font file")
	f.IntVar(&opts.fps, "fps", 0, "frame rate")
	f.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	f.BoolVar(&opts.debug, "debug", false, "debug logging and error stacks")

	rootCmd.Flags().BoolVar(&opts.headless, "headless", false, "run without a window")
	rootCmd.Flags().StringVar(&opts.snapshot, "snapshot", "", "write the last frame as PNG on exit (headless)")
	rootCmd.Flags().IntVar(&opts.scale, "scale", 0, "window pixels per panel pixel")

	rootCmd.AddCommand(versionCmd, configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// run prints err with its stack when --debug is set.
func run(fn func() error) error {
	err := fn()
	if err == nil {
		return nil
	}
	if se, ok := err.(interface{ ErrorStack() string }); opts.debug && ok {
		fmt.Fprintln(os.Stderr, se.ErrorStack())
	}
	return err
}

// loadConfig reads the config file and applies the flags that were set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(opts.config)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("width") {
		cfg.Panel.Width = opts.width
	}
	if flags.Changed("height") {
		cfg.Panel.Height = opts.height
	}
	if flags.Changed("fps") {
		cfg.Panel.FPS = opts.fps
	}
	if flags.Changed("scale") {
		cfg.Panel.Scale = opts.scale
	}
	if flags.Changed("font") {
		cfg.Font.Path = opts.font
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if opts.debug {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	level, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

func runBoard(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	font, err := frf.LoadFile(cfg.Font.Path, frf.WithGap(cfg.Font.Gap), frf.WithFallback(cfg.FallbackRune()))
	if err != nil {
		return err
	}
	logger.Info("font loaded", "path", cfg.Font.Path, "glyphs", font.Len(),
		"height", font.Height(), "cell_width", font.CellWidth(), "gap", font.Gap())

	button := cfg.HALButton()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	board := func(ctx context.Context, h hal.HAL) error {
		return app.Run(ctx, h, cfg, font, logger)
	}
	if opts.headless {
		err = hal.RunHeadless(ctx, hal.HeadlessConfig{
			Width:        cfg.Panel.Width,
			Height:       cfg.Panel.Height,
			Button:       button,
			SnapshotPath: opts.snapshot,
		}, board)
	} else {
		err = hal.RunWindow(ctx, hal.WindowConfig{
			Width:  cfg.Panel.Width,
			Height: cfg.Panel.Height,
			Scale:  cfg.Panel.Scale,
			Button: button,
		}, board)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return errors.Wrap(err, 0)
	}
	return nil
}
