// Package main provides the CLI entrypoint for quizpick.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/quizpick/internal/config"
	"github.com/verte-zerg/quizpick/internal/logging"
	"github.com/verte-zerg/quizpick/internal/model"
	"github.com/verte-zerg/quizpick/internal/opentdb"
	"github.com/verte-zerg/quizpick/internal/quiz"
	"github.com/verte-zerg/quizpick/internal/store"
	"github.com/verte-zerg/quizpick/internal/tui"
)

var (
	flagDB        string
	flagEphemeral bool
	flagAPIURL    string
	flagTimeout   time.Duration
	flagLogFile   string
	flagVerbose   bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "quizpick",
		Short:         "Build a custom trivia quiz by category",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE:          runTUICmd,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&flagDB, "db", config.DefaultDBPath(), "path to the state database")
	flags.BoolVar(&flagEphemeral, "ephemeral", false, "keep state in memory only")
	flags.StringVar(&flagAPIURL, "api-url", opentdb.DefaultURL, "question source endpoint")
	flags.DurationVar(&flagTimeout, "timeout", opentdb.DefaultTimeout, "per-request timeout")
	flags.StringVar(&flagLogFile, "log-file", config.DefaultLogPath(), "log file path (empty disables)")
	flags.BoolVarP(&flagVerbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newCategoriesCmd())
	rootCmd.AddCommand(newSetCmd())
	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newQuestionsCmd())
	rootCmd.AddCommand(newToggleCmd())
	rootCmd.AddCommand(newSelectedCmd())
	rootCmd.AddCommand(newResetCmd())
	rootCmd.AddCommand(newStatusCmd())

	return rootCmd
}

// app holds what every state-touching command needs.
type app struct {
	cfg     model.Config
	log     *zap.Logger
	session *quiz.Session
	closers []func() error
}

// openApp resolves configuration, opens storage and loads the session.
// console tees logs to stderr when verbose; the TUI passes false.
func openApp(cmd *cobra.Command, console bool) (*app, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, err
	}

	log, err := logging.New(logging.Options{
		File:    cfg.LogFile,
		Verbose: cfg.Verbose,
		Console: console && cfg.Verbose,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}
	a := &app{cfg: cfg, log: log}

	var kv store.KV
	if cfg.Ephemeral {
		kv = store.NewMemory()
	} else {
		st, err := store.Open(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open db: %w", err)
		}
		a.closers = append(a.closers, st.Close)
		kv = st
	}

	client := opentdb.New(cfg.APIURL, opentdb.WithTimeout(cfg.Timeout), opentdb.WithLogger(log))
	session, err := quiz.Open(cmd.Context(), kv, client, quiz.WithLogger(log))
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to load state: %w", err)
	}
	session.Subscribe(func(c quiz.Change) {
		log.Debug("state changed", zap.Stringer("change", c))
	})
	a.session = session
	log.Debug("session opened",
		zap.String("db", cfg.DBPath),
		zap.Bool("ephemeral", cfg.Ephemeral),
		zap.String("api", cfg.APIURL))
	return a, nil
}

func (a *app) Close() {
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			logErrf("failed to close db: %v\n", err)
		}
	}
	// Sync fails on stderr for some terminals; nothing to do about it.
	_ = a.log.Sync()
}

func resolveConfig(cmd *cobra.Command) (model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "api-url", &flagAPIURL, fileCfg.API.URL)
	if fileCfg.API.Timeout != nil {
		applyDurationConfig(cmd, "timeout", &flagTimeout, &fileCfg.API.Timeout.Duration)
	}
	applyStringConfig(cmd, "db", &flagDB, fileCfg.Storage.DB)
	applyBoolConfig(cmd, "ephemeral", &flagEphemeral, fileCfg.Storage.Ephemeral)
	applyStringConfig(cmd, "log-file", &flagLogFile, fileCfg.Log.File)
	applyBoolConfig(cmd, "verbose", &flagVerbose, fileCfg.Log.Verbose)

	cfg := model.Config{
		APIURL:    flagAPIURL,
		Timeout:   flagTimeout,
		DBPath:    flagDB,
		Ephemeral: flagEphemeral,
		LogFile:   flagLogFile,
		Verbose:   flagVerbose,
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg model.Config) error {
	if cfg.Timeout <= 0 {
		return fmt.Errorf("--timeout must be > 0")
	}
	if strings.TrimSpace(cfg.APIURL) == "" {
		return fmt.Errorf("--api-url must not be empty")
	}
	if !cfg.Ephemeral && strings.TrimSpace(cfg.DBPath) == "" {
		return fmt.Errorf("--db must not be empty")
	}
	return nil
}

func runTUICmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd, false)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	m := tui.NewModel(ctx, a.session, a.log)
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := ensureConfigFile(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func ensureConfigFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# quizpick configuration
# Uncomment a value to enable it. CLI flags override config values.

[api]
# url = %q
# timeout = %q

[storage]
# db = %q
# ephemeral = false        # Keep state in memory only

[log]
# file = %q
# verbose = false
`,
		opentdb.DefaultURL,
		opentdb.DefaultTimeout.String(),
		config.DefaultDBPath(),
		config.DefaultLogPath(),
	)
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyDurationConfig(cmd *cobra.Command, name string, target, value *time.Duration) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
