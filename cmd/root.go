package cmd

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/abhisek/recall/internal/app"
	"github.com/abhisek/recall/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "recall",
	Short: "Spaced-repetition flashcards in the terminal",
	Long: `recall schedules flashcard reviews with an SM-2 style ease-factor model or an
FSRS style stability model, and tracks study sessions in a local SQLite database.`,
	SilenceUsage: true,
}

// Execute runs the root command. SIGINT cancels the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	d := config.DefaultConfig()
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides RECALL_DB env var)")
	pf.String(config.ConfigFlag, "", "Path to YAML config file")
	pf.String("strategy", d.Scheduler.Strategy, "Scheduling strategy: sm2 or fsrs")
	pf.String("queue-mode", d.Queue.Mode, "Due-card ordering: overdue or legacy")
	pf.Bool("fuzz", d.Scheduler.Fuzz, "Spread due dates by up to 5%")
	pf.Uint64("seed", 0, "Seed for interval fuzz (0 = random)")
	pf.String("log-level", d.LogLevel, "Log level: debug, info, warn or error")

	rootCmd.AddCommand(deckCmd)
	rootCmd.AddCommand(cardCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(dueCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(studyCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads .env, the config file, RECALL_* variables and flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return config.Config{}, err
	}
	path, _ := cmd.Flags().GetString(config.ConfigFlag)
	return config.Load(path, cmd.Flags())
}

// openApp loads configuration and wires the application. Callers must
// Close the returned App.
func openApp(cmd *cobra.Command) (*app.App, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger := app.NewLogger(os.Stderr, cfg.Level())
	return app.New(cfg, logger)
}
