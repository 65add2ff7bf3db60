package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/haneul-mud/haneul/pkg/boltstore"
	"github.com/haneul-mud/haneul/pkg/crypt"
)

var passwdCmd = &cobra.Command{
	Use:   "passwd <name> <password>",
	Short: "Set a player's password",
	Args:  cobra.ExactArgs(2),
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

		rec, err := store.GetByName(args[0])
		if err != nil {
			return fmt.Errorf("player %s: %w", args[0], err)
		}
		if n := len([]rune(args[1])); n < gc.MinPasswordLength || n > gc.MaxPasswordLength {
			return fmt.Errorf("password must be %d to %d characters", gc.MinPasswordLength, gc.MaxPasswordLength)
		}
		hash, err := crypt.Hash(args[1])
		if err != nil {
			return err
		}
		rec.Password = hash
		rec.BadPasswords = 0
		if err := store.Put(rec); err != nil {
			return err
		}
		logger.Info("password changed", zap.String("name", rec.Name))
		return nil
	},
}
