package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/haneul-mud/haneul/pkg/server"
)

var (
	confFile string
	debug    bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "haneul",
	Short:         "haneul - a Korean CircleMUD-style game server",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if debug {
			logger, err = zap.NewDevelopment()
		} else {
			logger, err = zap.NewProduction()
		}
		if err != nil {
			return fmt.Errorf("build logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&confFile, "conf", envDefault("HANEUL_CONF", ""), "Path to game config file (env: HANEUL_CONF)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Development logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(passwdCmd)
	rootCmd.AddCommand(commandsCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(server.VersionString())
	},
}

// envDefault returns the environment variable value if set, otherwise the fallback.
func envDefault(envVar, fallback string) string {
	if v := os.Getenv(envVar); v != "" {
		return v
	}
	return fallback
}

// loadConf reads the config file, if any, and applies environment
// overrides on top.
func loadConf() (*server.GameConf, error) {
	gc := server.DefaultGameConf()
	if confFile != "" {
		var err error
		if gc, err = server.LoadGameConf(confFile); err != nil {
			return nil, err
		}
		logger.Info("loaded game config", zap.String("path", confFile))
	}
	if v := os.Getenv("HANEUL_PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("HANEUL_PORT: %w", err)
		}
		gc.Port = p
	}
	gc.PlayerDB = envDefault("HANEUL_DB", gc.PlayerDB)
	gc.TextDir = envDefault("HANEUL_TEXTDIR", gc.TextDir)
	gc.AuditDB = envDefault("HANEUL_AUDITDB", gc.AuditDB)
	return gc, nil
}
