package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mwantia/modtree"
	"github.com/mwantia/modtree/backend/address"
	"github.com/mwantia/modtree/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:           "modtree",
	Short:         "Resolve module paths against a backing store",
	Long:          "CLI for resolving, listing and reading resources of a module tree backed by a local directory, archive, database or object store.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ~/.config/modtree/config.yaml)")
	rootCmd.PersistentFlags().StringP("backend", "b", "", "backend address (e.g. local://./modules, zip://modules.zip, sqlite://modules.db)")
	rootCmd.PersistentFlags().String("separators", modtree.DefaultSeparators, "characters treated as path separators")
	rootCmd.PersistentFlags().Bool("absolute", false, "print absolute paths instead of paths relative to the root")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-file", "", "additionally write logs to this file")

	viper.BindPFlag("backend", rootCmd.PersistentFlags().Lookup("backend"))
	viper.BindPFlag("separators", rootCmd.PersistentFlags().Lookup("separators"))
	viper.BindPFlag("absolute", rootCmd.PersistentFlags().Lookup("absolute"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_file", rootCmd.PersistentFlags().Lookup("log-file"))
}

func initConfig() {
	if cfg := rootCmd.PersistentFlags().Lookup("config").Value.String(); cfg != "" {
		viper.SetConfigFile(cfg)
	} else {
		viper.AddConfigPath(configDir())
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("MODTREE")
	viper.AutomaticEnv()
	viper.SetDefault("backend", "local://.")
	viper.SetDefault("concurrency", 0)

	viper.ReadInConfig()
}

func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "modtree")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "modtree")
	}
	return ".modtree"
}

// openRepository opens the configured backend and returns its root repository.
func openRepository(ctx context.Context) (*modtree.Repository, error) {
	level, err := log.Parse(viper.GetString("log_level"))
	if err != nil {
		return nil, err
	}

	b, err := address.Parse(viper.GetString("backend"))
	if err != nil {
		return nil, err
	}

	return modtree.Open(ctx, b,
		modtree.WithSeparators(viper.GetString("separators")),
		modtree.WithAbsolute(viper.GetBool("absolute")),
		modtree.WithConcurrency(viper.GetInt("concurrency")),
		modtree.WithLogLevel(level),
		modtree.WithLogFile(viper.GetString("log_file")),
	)
}

// withRepository runs fn against the configured repository and closes it afterwards.
func withRepository(ctx context.Context, fn func(*modtree.Repository) error) (err error) {
	root, err := openRepository(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := root.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()

	return fn(root)
}
