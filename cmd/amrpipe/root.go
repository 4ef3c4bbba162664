package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
)

var (
	cfgFile string
	verbose bool
	logger  = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "amrpipe",
	Short: "Antimicrobial-resistance mutation calling and classification",
	Long: `amrpipe aligns translated resistance-gene proteins against wild-type
references, calls amino-acid substitutions, and classifies each one
against a curated resistance knowledge base with an optional trained
model fallback for novel mutations.`,
	Version:       fmt.Sprintf("%s (%s)", version, commit),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogger()
	},
}

// Execute runs the root command. Exit status is zero on completion
// even when no mutations were found; non-zero only on structural
// failure.
func Execute() {
	err := rootCmd.Execute()
	logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.amrpipe.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(newClassifyCmd())
	rootCmd.AddCommand(newPredictCmd())
	rootCmd.AddCommand(newKBCmd())
	rootCmd.AddCommand(newConfigCmd())
}

func initConfig() {
	// A local .env may carry AMRPIPE_* settings; absence is normal.
	godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.SetConfigName(".amrpipe")
			viper.SetConfigType("yaml")
		}
	}

	viper.SetEnvPrefix("AMRPIPE")
	viper.AutomaticEnv()

	viper.SetDefault("kb.path", "resistance_kb.json")
	viper.SetDefault("models.dir", "models")
	viper.SetDefault("antibiotic", "")

	// Missing config file is fine; defaults and flags cover everything.
	viper.ReadInConfig()
}

func setupLogger() error {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.OutputPaths = []string{"stderr"}

	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	logger = l
	return nil
}

// configPath returns the active config file, defaulting to
// ~/.amrpipe.yaml when none is loaded yet.
func configPath() (string, error) {
	if path := viper.ConfigFileUsed(); path != "" {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".amrpipe.yaml"), nil
}
