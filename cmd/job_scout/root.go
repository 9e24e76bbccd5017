package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/job-scout/internal/config"
	"github.com/jonathan/job-scout/internal/logger"
)

var (
	cfgFile string

	appConfig *config.Config
	appLogger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:               "job_scout",
	Short:             "Find jobs on a listings site and score them against your resume",
	Long:              "job_scout scrapes search results from a job listings site, fetches each job's full description and uses a language model to score the job against a parsed resume.",
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
	PersistentPostRun: func(*cobra.Command, []string) {
		_ = appLogger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default is job-scout.yaml in the current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Verbose/debug logging")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "JSON log format")
}

// loadSettings reads the config file and environment, applies the logging
// flags and builds the logger every command uses.
func loadSettings(cmd *cobra.Command, _ []string) error {
	v := config.NewViper()
	flags := cmd.Root().PersistentFlags()
	if err := v.BindPFlag("log.debug", flags.Lookup("debug")); err != nil {
		return err
	}
	if err := v.BindPFlag("log.json", flags.Lookup("json")); err != nil {
		return err
	}

	cfg, err := config.LoadConfig(v, cfgFile)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return fmt.Errorf("creating a logger: %w", err)
	}

	appConfig = cfg
	appLogger = log
	appLogger.Debug("configuration loaded",
		zap.String("provider", cfg.LLM.Provider),
		zap.String("base_url", cfg.Scraping.BaseURL),
		zap.String("cache", cfg.Cache.Backend))
	return nil
}
