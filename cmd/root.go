package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	cfgpkg "github.com/KaramelBytes/spreaddash-cli/internal/config"
	"github.com/KaramelBytes/spreaddash-cli/internal/csvload"
	"github.com/KaramelBytes/spreaddash-cli/internal/dataset"
	"github.com/KaramelBytes/spreaddash-cli/internal/logging"
	"github.com/KaramelBytes/spreaddash-cli/internal/store"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	// Overrides applied on top of the loaded config when set
	flagLogFormat      string
	flagHTTPTimeoutSec int
	flagStrict         bool
	flagMaster         string
	flagSpreads        string
	flagRegression     string

	// Loaded configuration
	cfg    *cfgpkg.Global
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "spreaddash",
	Short: "Sovereign bond spread dashboard data tools",
	Long: `spreaddash loads the euro-area spread dashboard datasets (country-quarter panel,
daily spreads, regression coefficients), summarizes indicators by group, renders
regression tables and exports loaded sessions.`,
	SilenceUsage:      true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return loadConfig(cmd) },
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is ~/.spreaddash/config.yaml)")
	pf.BoolVar(&debug, "debug", false, "enable debug logging")
	pf.StringVar(&flagLogFormat, "log-format", "", "log format: text or json (overrides config)")
	pf.IntVar(&flagHTTPTimeoutSec, "http-timeout", 0, "HTTP client timeout in seconds (overrides config)")
	pf.BoolVar(&flagStrict, "strict", false, "reject non-numeric text in numeric columns")
	pf.StringVar(&flagMaster, "master", "", "master panel CSV path or URL (overrides config)")
	pf.StringVar(&flagSpreads, "spreads", "", "daily spreads CSV path or URL (overrides config)")
	pf.StringVar(&flagRegression, "regression", "", "regression coefficients CSV path or URL (overrides config)")
}

func loadConfig(cmd *cobra.Command) error {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return err
	}
	cfg = c

	f := cmd.Root().PersistentFlags()
	if f.Changed("http-timeout") && flagHTTPTimeoutSec > 0 {
		cfg.HTTPTimeoutSec = flagHTTPTimeoutSec
	}
	if f.Changed("log-format") {
		cfg.LogFormat = flagLogFormat
	}
	if f.Changed("strict") {
		cfg.Strict = flagStrict
	}
	if f.Changed("master") {
		cfg.MasterCSV = flagMaster
	}
	if f.Changed("spreads") {
		cfg.SpreadsCSV = flagSpreads
	}
	if f.Changed("regression") {
		cfg.RegressionCSV = flagRegression
	}

	l, err := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Writer: cmd.ErrOrStderr(),
		Debug:  debug,
	})
	if err != nil {
		return err
	}
	logger = l
	slog.SetDefault(l)
	return nil
}

// loadStore validates the config and loads the selected sources into a new session.
func loadStore(ctx context.Context, src store.Sources) (*store.Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	loader := csvload.NewLoader(time.Duration(cfg.HTTPTimeoutSec) * time.Second).WithLogger(logger)
	s := store.New(logger)
	if err := s.Load(ctx, loader, src, dataset.DecodeOptions{Strict: cfg.Strict}); err != nil {
		return nil, fmt.Errorf("load datasets: %w", err)
	}
	return s, nil
}

func allSources() store.Sources {
	return store.Sources{
		Master:     cfg.MasterCSV,
		Spreads:    cfg.SpreadsCSV,
		Regression: cfg.RegressionCSV,
	}
}
