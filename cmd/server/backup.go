package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/haneul-mud/haneul/pkg/boltstore"
)

var backupCmd = &cobra.Command{
	Use:   "backup <file>",
	Short: "Copy the player database to file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gc, err := loadConf()
		if err != nil {
			return err
		}
		store, err := boltstore.Open(gc.PlayerDB, logger.Named("store"))
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Backup(args[0]); err != nil {
			return err
		}
		logger.Info("backup written", zap.String("path", args[0]), zap.Int("players", store.Count()))
		return nil
	},
}
