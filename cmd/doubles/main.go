package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/derekprior/doubles/internal/config"
	"github.com/derekprior/doubles/internal/excel"
	"github.com/derekprior/doubles/internal/render"
	"github.com/derekprior/doubles/internal/roster"
	"github.com/derekprior/doubles/internal/schedule"
	"github.com/derekprior/doubles/internal/server"
	"github.com/derekprior/doubles/internal/validator"
)

const defaultConfigFile = "doubles.yaml"

func resolveConfigPath(configFlag string) (string, error) {
	if configFlag != "" {
		return configFlag, nil
	}
	if _, err := os.Stat(defaultConfigFile); err == nil {
		return defaultConfigFile, nil
	}
	return "", fmt.Errorf("no config file found. Either create %s in the current directory or pass --config", defaultConfigFile)
}

// overrides are the generate flags that, when given, win over the config file.
type overrides struct {
	seed   int64
	stats  bool
	courts int
	rounds int
}

func main() {
	var verbose bool
	rootCmd := &cobra.Command{
		Use:   "doubles",
		Short: "Badminton doubles round scheduler",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log each planned round")

	var initOutputPath string
	initCmd := &cobra.Command{
		Use:          "init",
		Short:        "Create a starter doubles.yaml in the current directory",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(initOutputPath)
		},
	}
	initCmd.Flags().StringVarP(&initOutputPath, "output", "o", defaultConfigFile, "Output path for the config file")

	scheduleCmd := &cobra.Command{
		Use:   "schedule",
		Short: "Generate and validate schedules",
	}

	var configFile string
	scheduleCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config file (default: doubles.yaml in current directory)")

	var outputFile string
	var ov overrides
	generateCmd := &cobra.Command{
		Use:          "generate",
		Short:        "Generate a schedule from a config file",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := resolveConfigPath(configFile)
			if err != nil {
				return err
			}
			cfg, err := config.LoadFromFile(configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if err := applyOverrides(cmd, cfg, ov); err != nil {
				return err
			}
			return runGenerate(cfg, outputFile)
		},
	}
	generateCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Also save the schedule as an Excel workbook")
	generateCmd.Flags().Int64Var(&ov.seed, "seed", 0, "Random seed for a reproducible schedule")
	generateCmd.Flags().BoolVar(&ov.stats, "stats", false, "Print player statistics after the schedule")
	generateCmd.Flags().IntVar(&ov.courts, "courts", 0, "Maximum courts in play per round")
	generateCmd.Flags().IntVar(&ov.rounds, "rounds", 0, "Number of rounds to generate")

	validateCmd := &cobra.Command{
		Use:          "validate <schedule.xlsx>",
		Short:        "Validate a schedule workbook against the roster",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := resolveConfigPath(configFile)
			if err != nil {
				return err
			}
			return runValidate(configPath, args[0])
		},
	}

	var envFile string
	serveCmd := &cobra.Command{
		Use:          "serve",
		Short:        "Serve schedules over HTTP (settings from DOUBLES_* environment variables)",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(envFile)
		},
	}
	serveCmd.Flags().StringVar(&envFile, "env-file", ".env", "Optional file of DOUBLES_* settings; the environment wins")

	scheduleCmd.AddCommand(generateCmd, validateCmd)
	rootCmd.AddCommand(initCmd, scheduleCmd, serveCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func applyOverrides(cmd *cobra.Command, cfg *config.Config, ov overrides) error {
	flags := cmd.Flags()
	if flags.Changed("seed") {
		seed := ov.seed
		cfg.Seed = &seed
	}
	if flags.Changed("stats") {
		cfg.PrintStats = ov.stats
	}
	if flags.Changed("courts") {
		cfg.MaxCourts = ov.courts
	}
	if flags.Changed("rounds") {
		cfg.MaxRounds = ov.rounds
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	return nil
}

func runInit(outputPath string) error {
	if _, err := os.Stat(outputPath); err == nil {
		return fmt.Errorf("%s already exists; remove it first or use -o to write elsewhere", outputPath)
	}

	if err := os.WriteFile(outputPath, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("✓ Created %s\n", outputPath)
	return nil
}

const configTemplate = `# Doubles Scheduler Configuration
# ===============================
# Each round, up to max_courts courts of two-vs-two games are filled from the
# roster. Everyone else rests, and the least-rested players sit out first.

# The roster: one player per line. Blank lines are ignored and repeated names
# are counted once (you will get a warning). Instead of listing players here
# you can point players_file at a text file in the same format; its path is
# relative to this config file. Set one or the other, not both.
players: |
  Appa
  Jeevan
  Koti
  Madhu
  Murali
  Phani
  Prasad
  Praveen
  Raghu R
  Rambabu
  Rao Seema
  Ravi G
  Tarun
  Sreeni
  Subhani
  Tripura
  Srinivas
  Vijay
  Randeep
# players_file: roster.txt

max_courts: 4      # Courts available at the same time
max_rounds: 10     # Rounds to generate
print_stats: false # Append per-player statistics (same as --stats)

# Fix the seed to get the same schedule every time. Leave it out for a fresh
# schedule on each run.
# seed: 42

# Weights trade the goals off against each other when picking teams. Higher
# means the goal matters more. All must be zero or more.
weights:
  partnership: 2000     # Avoid pairing people who have partnered before
  opposition: 800       # Avoid repeating the same opponents
  game_balance: 200     # Keep games played even across players
  new_interaction: 400  # Reward first-time opponents
`

func runGenerate(cfg *config.Config, outputPath string) error {
	report, err := schedule.Run(cfg.Players, cfg, nil)
	if err != nil {
		return err
	}

	for _, name := range report.Duplicates {
		fmt.Fprintf(os.Stderr, "⚠ %s is listed more than once; scheduling them once\n", name)
	}

	if err := render.Text(os.Stdout, report); err != nil {
		return fmt.Errorf("writing schedule: %w", err)
	}

	if outputPath == "" {
		return nil
	}

	f, err := excel.Generate(report)
	if err != nil {
		return fmt.Errorf("generating Excel: %w", err)
	}
	defer f.Close()

	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("saving file: %w", err)
	}

	fmt.Printf("\n✓ Schedule saved to %s\n", outputPath)
	return nil
}

func runValidate(configPath, schedulePath string) error {
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	violations, err := validator.Validate(cfg, schedulePath)
	if err != nil {
		return fmt.Errorf("validating: %w", err)
	}

	errors := 0
	warnings := 0
	for _, v := range violations {
		switch v.Type {
		case "error":
			errors++
			fmt.Printf("✗ Rule violation: %s\n", v.Message)
		case "warning":
			warnings++
			fmt.Printf("⚠ Guideline violation: %s\n", v.Message)
		}
	}

	fmt.Printf("\nValidation complete: %d rule violations, %d guideline violations\n", errors, warnings)

	// Regenerate player sheets from the (possibly hand-edited) schedule
	r, err := roster.Parse(cfg.Players)
	if err != nil {
		return err
	}
	if err := excel.UpdatePlayerSheets(schedulePath, r.Players); err != nil {
		return fmt.Errorf("updating player sheets: %w", err)
	}
	fmt.Printf("✓ Player sheets updated in %s\n", schedulePath)

	if errors > 0 {
		return fmt.Errorf("%d rule violations found", errors)
	}
	return nil
}

func runServe(envFile string) error {
	cfg, err := config.LoadServer(envFile)
	if err != nil {
		return err
	}

	h, err := server.New(cfg)
	if err != nil {
		return fmt.Errorf("creating handler: %w", err)
	}
	h.RegisterRoutes()

	logger := slog.Default()
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      h.Mux,
		IdleTimeout:  time.Duration(cfg.IdleTimeout) * time.Second,
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("starting server: %w", err)
	case <-quit:
	}
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
