package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"shadowmite/internal/actions"
	"shadowmite/internal/catalog"
	"shadowmite/internal/config"
	"shadowmite/internal/scan"
	"shadowmite/internal/sysinfo"
	"shadowmite/internal/wizard"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// Version info (set by ldflags)
var (
	version   = "dev"
	buildTime = "unknown"
)

// logFileName is the default log file inside the config directory
const logFileName = "shadowmite.log"

type rootOptions struct {
	configPath string
	catalogDir string
	debug      bool
	logFile    string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "shadowmite",
		Short: "Guided first-boot setup",
		Long: "Shadowmite walks through network, locale and application setup\n" +
			"in a terminal wizard and prints a one-line summary when done.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWizard(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Path to config file (default ~/.config/shadowmite/config.yaml)")
	flags.StringVar(&opts.catalogDir, "catalog-dir", "", "Directory of app catalog records")
	flags.BoolVarP(&opts.debug, "debug", "d", false, "Write debug logs to the log file")
	flags.StringVar(&opts.logFile, "log-file", "", "Log file path (default ~/.config/shadowmite/shadowmite.log)")

	root.AddCommand(newVersionCmd(), newCatalogCmd(opts), newConfigCmd(opts))
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "shadowmite %s (built %s)\n", version, buildTime)
		},
	}
}

func newCatalogCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the app catalog",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List catalog records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			return listCatalog(cmd.OutOrStdout(), catalog.NewLoader(catalog.NewStore(cfg.CatalogDir), nil))
		},
	})
	return cmd
}

func listCatalog(w io.Writer, loader *catalog.Loader) error {
	cat, err := loader.Load()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s: %d app(s)\n", loader.Store().Dir(), cat.Len())
	for _, app := range cat.Apps {
		pkg := app.PackageID
		if pkg == "" {
			pkg = "-"
		}
		fmt.Fprintf(w, "  %-24s %-20s %s\n", app.Name, pkg, app.RecordPath())
	}
	for _, rec := range cat.Skipped {
		fmt.Fprintf(w, "  skipped %s: %v\n", rec.Path, rec.Err)
	}
	return nil
}

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the config file",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the current configuration to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if err := cfg.Save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", cfg.Path())
			return nil
		},
	})
	return cmd
}

func loadConfig(opts *rootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.catalogDir != "" {
		cfg.CatalogDir = config.ExpandHome(opts.catalogDir)
	}
	return cfg, nil
}

// newLogger returns a logger writing to the log file, or one that discards
// everything when neither --debug nor --log-file is given. The TUI owns the
// terminal, so nothing is logged to stderr.
func newLogger(opts *rootOptions) (*log.Logger, func() error, error) {
	if !opts.debug && opts.logFile == "" {
		return log.New(io.Discard), func() error { return nil }, nil
	}

	path := opts.logFile
	if path == "" {
		path = filepath.Join(config.ConfigDir(), logFileName)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	level := log.InfoLevel
	if opts.debug {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          "shadowmite",
		Level:           level,
	})
	return logger, f.Close, nil
}

func runWizard(ctx context.Context, out io.Writer, opts *rootOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(opts)
	if err != nil {
		return err
	}
	defer closeLog()

	if ctx == nil {
		ctx = context.Background()
	}
	logger.Info("starting", "version", version, "config", cfg.Path(), "catalog", cfg.CatalogDir)

	system := sysinfo.New(sysinfo.Commands{
		Networks:  cfg.Scan.Command,
		Locales:   cfg.LocaleCommand,
		Timezones: cfg.TimezoneCommand,
	})
	store := catalog.NewStore(cfg.CatalogDir)
	worker := scan.NewWorker(system, cfg.Scan.SettleDelay, logger.WithPrefix("scan"))
	machine := wizard.New(catalog.NewLoader(store, logger.WithPrefix("catalog")), worker, logger.WithPrefix("wizard"))

	launchOpts := actions.Options{
		Editor:         cfg.Editor.Editor,
		InstallCommand: cfg.InstallCommand,
		RebootCommand:  cfg.RebootCommand,
	}
	if term, err := actions.DetectTerminal(cfg.Editor.Terminal, cfg.Editor.TerminalPriority); err == nil {
		launchOpts.Terminal = &term
	} else {
		logger.Warn("records will be edited in place", "err", err)
	}

	model := NewModel(ctx, Options{
		Machine:  machine,
		System:   system,
		Store:    store,
		Launcher: actions.NewLauncher(launchOpts, logger.WithPrefix("actions")),
		Logger:   logger,
	})

	final, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}
	if m, ok := final.(Model); ok && m.Finished() {
		fmt.Fprintln(out, m.Summary())
	}
	return nil
}
