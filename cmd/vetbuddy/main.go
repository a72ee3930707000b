package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/phanxgames/vetbuddy"
	"github.com/phanxgames/vetbuddy/config"
	"github.com/phanxgames/vetbuddy/contact"
	"github.com/phanxgames/vetbuddy/db"
	"github.com/phanxgames/vetbuddy/layout"
	"github.com/phanxgames/vetbuddy/leads"
	"github.com/phanxgames/vetbuddy/server"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type globalFlags struct {
	configPath string
	debug      bool
}

func newRootCmd() *cobra.Command {
	var flags globalFlags

	root := &cobra.Command{
		Use:           "vetbuddy",
		Short:         "VetBuddy landing page server and preview",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "YAML config file (defaults apply when empty)")
	root.PersistentFlags().BoolVar(&flags.debug, "debug", false, "verbose logging and per-frame stats")

	root.AddCommand(newServeCmd(&flags))
	root.AddCommand(newPreviewCmd(&flags))
	root.AddCommand(newLayoutCmd())
	return root
}

func loadConfig(flags *globalFlags) (*config.Config, error) {
	if flags.configPath == "" {
		cfg := config.Default()
		cfg.Debug = flags.debug
		return &cfg, nil
	}
	cfg, err := config.LoadConfig(flags.configPath)
	if err != nil {
		return nil, err
	}
	cfg.Debug = cfg.Debug || flags.debug
	return cfg, nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if debug {
		zc = zap.NewDevelopmentConfig()
	}
	return zc.Build()
}

func newServeCmd(flags *globalFlags) *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the contact and lead capture API",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.Listen = listen
			}
			log, err := newLogger(cfg.Debug)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, log)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "listen address, overrides the config")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	sqlDB, err := db.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	contacts, err := contact.NewSQLStore(ctx, sqlDB)
	if err != nil {
		return err
	}
	coll, err := leads.NewSQLiteCollection(ctx, sqlDB, cfg.Leads.Collection)
	if err != nil {
		return err
	}

	srv := server.New(server.Config{
		Addr:            cfg.Listen,
		RPS:             cfg.Limits.RPS,
		Burst:           cfg.Limits.Burst,
		ShutdownTimeout: cfg.Shutdown,
	},
		contact.NewHandler(contacts, log.Named("contact")),
		leads.NewHandler(leads.NewService(coll), log.Named("leads")),
		log.Named("http"))
	return srv.Run(ctx)
}

func newPreviewCmd(flags *globalFlags) *cobra.Command {
	var layoutPath, scriptPath string
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Open the landing page in a desktop window",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if layoutPath != "" {
				cfg.Preview.Layout = layoutPath
			}
			if scriptPath != "" {
				cfg.Preview.Script = scriptPath
			}
			log, err := newLogger(cfg.Debug)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			return preview(cfg, log)
		},
	}
	cmd.Flags().StringVar(&layoutPath, "layout", "", "layout YAML, overrides the built-in page")
	cmd.Flags().StringVar(&scriptPath, "script", "", "JSON test script to drive the page")
	return cmd
}

func loadLayout(path string) (*layout.Layout, error) {
	if path == "" {
		return layout.Default()
	}
	return layout.LoadFile(path)
}

func preview(cfg *config.Config, log *zap.Logger) error {
	l, err := loadLayout(cfg.Preview.Layout)
	if err != nil {
		return err
	}
	w, h := float64(cfg.Preview.Width), float64(cfg.Preview.Height)
	page := vetbuddy.NewPage(w, h, vetbuddy.DefaultBackgroundConfig(),
		vetbuddy.WithLogger(log.Named("page")),
		vetbuddy.WithDebug(cfg.Debug))
	if _, err := layout.Mount(page, l); err != nil {
		return err
	}
	if cfg.Preview.Script != "" {
		data, err := os.ReadFile(cfg.Preview.Script)
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
		runner, err := vetbuddy.LoadTestScript(data)
		if err != nil {
			return err
		}
		page.SetTestRunner(runner)
	}
	title := l.Title
	if title == "" {
		title = "VetBuddy"
	}
	return vetbuddy.Run(page, vetbuddy.RunConfig{
		Title:     title,
		Width:     cfg.Preview.Width,
		Height:    cfg.Preview.Height,
		ShowFPS:   cfg.Preview.ShowFPS,
		Resizable: true,
	})
}

func newLayoutCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "layout", Short: "Inspect page layouts"}

	var width, height float64
	check := &cobra.Command{
		Use:   "check [file]",
		Short: "Validate a layout and report triggers with missing targets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			l, err := loadLayout(path)
			if err != nil {
				return err
			}
			return checkLayout(cmd, l, width, height)
		},
	}
	check.Flags().Float64Var(&width, "width", 1280, "viewport width")
	check.Flags().Float64Var(&height, "height", 800, "viewport height")
	cmd.AddCommand(check)
	return cmd
}

func checkLayout(cmd *cobra.Command, l *layout.Layout, width, height float64) error {
	page := vetbuddy.NewPage(width, height, vetbuddy.DefaultBackgroundConfig())
	defer page.Close()
	sections, err := layout.Mount(page, l)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	missing := 0
	for _, s := range sections {
		box := s.Root.PageBox()
		_, _ = fmt.Fprintf(out, "%-12s y=%-6g h=%-6g triggers=%d\n", s.ID(), box.Y, box.Height, len(s.Registrations()))
		for _, reg := range s.Registrations() {
			t := reg.Trigger()
			start, end := t.Span(height)
			mode := "once"
			if t.Scrubbed {
				mode = "scrub"
			}
			_, _ = fmt.Fprintf(out, "  %-28s %-5s %7.0f..%-7.0f steps=%d\n", t.ID, mode, start, end, reg.Timeline().Len())
			for _, sel := range reg.MissingTargets() {
				_, _ = fmt.Fprintf(out, "    missing target %q\n", sel)
				missing++
			}
		}
	}
	if missing > 0 {
		return fmt.Errorf("layout check: %d step target(s) match nothing", missing)
	}
	_, _ = fmt.Fprintf(out, "ok: %d sections, page height %g\n", len(sections), page.Viewport().ContentHeight)
	return nil
}
