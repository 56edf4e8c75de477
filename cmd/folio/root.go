package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/csheth/folio/internal/config"
	"github.com/csheth/folio/internal/contact"
	"github.com/csheth/folio/internal/content"
	"github.com/csheth/folio/internal/logging"
	"github.com/csheth/folio/internal/media"
	"github.com/csheth/folio/internal/tui"
)

type options struct {
	configPath  string
	contentPath string
	noAltScreen bool
	noMouse     bool
	logFile     string
	verbose     bool
}

// app is everything a subcommand needs after flags and config are resolved.
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	portfolio *content.Portfolio
	cache     *media.Cache
	loader    *media.Loader
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "folio",
		Short:         "Browse a developer portfolio in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInteractive(cmd.Context(), opts)
		},
	}
	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", config.DefaultPath, "path to folio.yaml")
	flags.StringVar(&opts.contentPath, "content", "", "portfolio YAML file (defaults to the built-in sample)")
	flags.StringVar(&opts.logFile, "log-file", "", "write JSON logs to this file")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log at debug level")
	cmd.Flags().BoolVar(&opts.noAltScreen, "no-alt-screen", false, "disable the alternate screen buffer")
	cmd.Flags().BoolVar(&opts.noMouse, "no-mouse", false, "disable mouse tracking")

	cmd.AddCommand(newRenderCmd(opts), newValidateCmd(opts), newConfigCmd(opts))
	return cmd
}

// loadConfig resolves folio.yaml, env overrides and flags, in that order.
func loadConfig(opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.contentPath != "" {
		cfg.Content.Path = opts.contentPath
	}
	if opts.logFile != "" {
		cfg.Log.Path = opts.logFile
	}
	if opts.noAltScreen {
		cfg.UI.AltScreen = false
	}
	if opts.noMouse {
		cfg.UI.Mouse = false
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func setup(opts *options) (*app, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Log.Path, cfg.Log.Level, opts.verbose)
	if err != nil {
		return nil, err
	}
	portfolio, err := loadPortfolio(cfg.Content.Path)
	if err != nil {
		return nil, err
	}
	cache, err := media.NewCache(cfg.Cache.Dir, nil)
	if err != nil {
		logger.Warn("remote image cache disabled", zap.Error(err))
		cache = nil
	}
	return &app{
		cfg:       cfg,
		logger:    logger,
		portfolio: portfolio,
		cache:     cache,
		loader:    media.NewLoader(portfolio.Assets, cache, logger),
	}, nil
}

func loadPortfolio(path string) (*content.Portfolio, error) {
	portfolio, err := content.Load(path)
	if err != nil {
		return nil, err
	}
	if err := portfolio.Validate(); err != nil {
		return nil, fmt.Errorf("invalid content: %w", err)
	}
	return portfolio, nil
}

// tuiConfig maps resolved settings onto the TUI.
func (a *app) tuiConfig() tui.Config {
	cfg := tui.Config{
		Portfolio:     a.portfolio,
		Loader:        a.loader,
		Contact:       contact.NewClient(a.cfg.Contact.Endpoint, a.cfg.Contact.Timeout, a.logger),
		Logger:        a.logger,
		ResumePath:    a.cfg.Resume.Path,
		DragThreshold: a.cfg.Gallery.DragThreshold,
		RevealMargin:  a.cfg.Reveal.Margin,
		DisableReveal: !a.cfg.Reveal.Enabled,
		PreloadLimit:  a.cfg.Gallery.PreloadLimit,
		MarkdownStyle: a.cfg.UI.MarkdownStyle,
	}
	if a.cache != nil {
		cfg.ResumeFetcher = a.cache
	}
	return cfg
}

func runInteractive(ctx context.Context, opts *options) error {
	a, err := setup(opts)
	if err != nil {
		return err
	}
	defer func() { _ = a.logger.Sync() }()

	programOpts := []tea.ProgramOption{}
	if a.cfg.UI.AltScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}
	if a.cfg.UI.Mouse {
		programOpts = append(programOpts, tea.WithMouseAllMotion())
	}
	program := tea.NewProgram(tui.New(a.tuiConfig()), programOpts...)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if a.cfg.Content.Watch && a.cfg.Content.Path != "" {
		go func() {
			err := content.Watch(ctx, a.cfg.Content.Path, a.logger, func(p *content.Portfolio, err error) {
				if err == nil {
					err = p.Validate()
				}
				program.Send(tui.ContentReloaded(p, err))
			})
			if err != nil && ctx.Err() == nil {
				a.logger.Warn("content watch stopped", zap.Error(err))
			}
		}()
	}

	a.logger.Info("folio started",
		zap.String("content", a.cfg.Content.Path),
		zap.Int("projects", len(a.portfolio.Projects)))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}
