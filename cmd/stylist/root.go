package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/stylist/internal/cli"
	"github.com/aretw0/stylist/internal/config"
	"github.com/aretw0/stylist/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stylist",
	Short: "Stylist is a guided personal style assistant",
	Long: `Stylist walks a user through a short onboarding (photo, lifestyle, outfit likes)
and then answers free-text style requests with an AI collaborator.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", config.DefaultPath, "Path to the YAML configuration file")
	rootCmd.PersistentFlags().String("env-file", ".env", "Path to a .env file loaded before the environment overrides")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().Bool("debug", false, "Shorthand for --log-level=debug")
	rootCmd.PersistentFlags().String("store", "", "Store backend: memory, file, redis or badger")
	rootCmd.PersistentFlags().String("store-dir", "", "Data directory of the file and badger backends")
}

// loadConfig resolves the configuration: file, then environment, then flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	config.LoadDotEnv(envFile)

	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}

	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.LogLevel = "debug"
	}
	if v, _ := cmd.Flags().GetString("store"); v != "" {
		cfg.Store.Backend = v
	}
	if v, _ := cmd.Flags().GetString("store-dir"); v != "" {
		cfg.Store.Dir = v
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// loadRuntime builds the engine for a command. The caller must Close it.
func loadRuntime(ctx context.Context, cmd *cobra.Command) (*cli.Runtime, config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, config.Config{}, err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, config.Config{}, err
	}
	logger := logging.New(level)
	slog.SetDefault(logger)

	rt, err := cli.Build(ctx, cfg, logger)
	if err != nil {
		return nil, config.Config{}, fmt.Errorf("error initializing stylist: %w", err)
	}
	return rt, cfg, nil
}

func closeRuntime(rt *cli.Runtime) {
	if err := rt.Close(context.Background()); err != nil {
		rt.Logger.Error("Shutdown failed", "err", err)
	}
}
