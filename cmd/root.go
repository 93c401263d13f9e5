package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"charm.land/lipgloss/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/abhisek/mathquest/internal/app"
	"github.com/abhisek/mathquest/internal/completion"
	"github.com/abhisek/mathquest/internal/config"
	"github.com/abhisek/mathquest/internal/llm"
	"github.com/abhisek/mathquest/internal/store"
	"github.com/abhisek/mathquest/internal/tutor"
	"github.com/abhisek/mathquest/internal/ui/theme"
)

var rootCmd = &cobra.Command{
	Use:   "mathquest",
	Short: "Track math learning progress and ask the AI tutor",
	Long:  "MathQuest: grade 4-10 math topics with level progress, badges, study suggestions and an AI tutor.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if envFile, _ := cmd.Flags().GetString("env-file"); envFile != "" {
			if err := godotenv.Load(envFile); err != nil {
				return fmt.Errorf("load env file: %w", err)
			}
		} else {
			// A missing .env is fine.
			_ = godotenv.Load()
		}
		return nil
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides MATHQUEST_DB env var)")
	rootCmd.PersistentFlags().String("user", "", "Learner id that scopes the completion record (overrides MATHQUEST_USER)")
	rootCmd.PersistentFlags().String("env-file", "", "Load environment variables from this file instead of ./.env")

	rootCmd.AddCommand(topicsCmd)
	rootCmd.AddCommand(topicCmd)
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(badgesCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(gradeCmd)
	rootCmd.AddCommand(tutorCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then MATHQUEST_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// env is everything a command needs, opened from configuration.
type env struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   *store.Store
	kv      completion.KV
	svc     *app.Service
	user    string
	closeKV func() error
}

// openEnv loads configuration, opens the SQLite database and the selected
// completion backend, and builds the service.
func openEnv(cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger := config.NewLogger(cmd.ErrOrStderr(), cfg.Log)

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	kv, closeKV, err := config.OpenKV(cmd.Context(), cfg.Store, st)
	if err != nil {
		st.Close()
		return nil, err
	}
	logger.Debug("store opened", "db", dbPath, "backend", cfg.Store.Backend)

	user := cfg.User
	if u, _ := cmd.Flags().GetString("user"); u != "" {
		user = u
	}

	return &env{
		cfg:     cfg,
		logger:  logger,
		store:   st,
		kv:      kv,
		svc:     app.NewDefault(completion.NewStore(kv, logger), logger),
		user:    user,
		closeKV: closeKV,
	}, nil
}

func (e *env) Close() {
	if err := e.closeKV(); err != nil {
		e.logger.Warn("close kv", "error", err)
	}
	if err := e.store.Close(); err != nil {
		e.logger.Warn("close database", "error", err)
	}
}

// health probes the completion backend when it supports it.
func (e *env) health() func(context.Context) error {
	type checker interface {
		HealthCheck(ctx context.Context) error
	}
	if c, ok := e.kv.(checker); ok {
		return c.HealthCheck
	}
	return func(ctx context.Context) error { return e.store.DB().PingContext(ctx) }
}

// newTutor builds the tutor from the LLM environment. Without a usable
// provider the tutor still answers, with its fallback texts.
func (e *env) newTutor(ctx context.Context, w io.Writer) *tutor.Tutor {
	provider, err := llm.NewProviderFromEnv(ctx, e.store.EventRepo(), e.logger)
	if err != nil {
		if errors.Is(err, llm.ErrNotConfigured) {
			lipgloss.Fprintln(w, theme.Hint.Render("LLM provider not configured. AI features will be unavailable."))
		} else {
			lipgloss.Fprintln(w, theme.Warning.Render("LLM provider not configured: "+err.Error()))
		}
		return tutor.New(nil, tutor.DefaultConfig(), e.logger)
	}
	return tutor.New(provider, tutor.DefaultConfig(), e.logger)
}

