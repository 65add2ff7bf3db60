package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/haneul-mud/haneul/pkg/boltstore"
	"github.com/haneul-mud/haneul/pkg/gamedb"
	"github.com/haneul-mud/haneul/pkg/interp"
	"github.com/haneul-mud/haneul/pkg/server"
	"github.com/haneul-mud/haneul/pkg/socials"
)

var (
	indexStyle  = color.New(color.FgBlue)
	socialStyle = color.New(color.FgCyan)
	stubStyle   = color.New(color.FgYellow)
	immortStyle = color.New(color.FgRed, color.Bold)
	offStyle    = color.New(color.Faint)
)

var commandsSorted bool

var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "List the command table in matching order",
	RunE: func(cmd *cobra.Command, args []string) error {
		gc, err := loadConf()
		if err != nil {
			return err
		}
		tbl, err := buildTable(gc)
		if err != nil {
			return err
		}
		printTable(tbl, commandsSorted)
		return nil
	},
}

func init() {
	commandsCmd.Flags().BoolVar(&commandsSorted, "sorted", false, "List alphabetically instead of in matching order")
}

// buildTable builds a throwaway game to get at its command table.
func buildTable(gc *server.GameConf) (*interp.Table, error) {
	set, err := socials.LoadFile(gc.SocialsFile)
	if err != nil {
		return nil, err
	}
	dir, err := os.MkdirTemp("", "haneul-commands")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)
	store, err := boltstore.Open(filepath.Join(dir, "players.db"), nil)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	game, err := server.NewGame(gc, gamedb.NewWorld(), server.GameOptions{Store: store, Socials: set, Logger: logger})
	if err != nil {
		return nil, err
	}
	return game.Interp.Table(), nil
}

func printTable(tbl *interp.Table, sorted bool) {
	order := tbl.Sorted()
	if !sorted {
		order = order[:0]
		for i := 1; i < tbl.Len(); i++ {
			order = append(order, i)
		}
	}
	for _, i := range order {
		c := tbl.At(i)
		line := fmt.Sprintf("%-12s %-10s", c.Name, c.MinPosition)
		var kind string
		style := color.New(color.Reset)
		switch {
		case c.MinLevel < 0:
			kind, style = "disabled", offStyle
		case tbl.IsSocial(i):
			kind, style = "social", socialStyle
		case c.Handler == nil:
			kind, style = "stub", stubStyle
		case c.MinLevel >= gamedb.LvlImmort:
			kind, style = fmt.Sprintf("level %d", c.MinLevel), immortStyle
		}
		fmt.Println(indexStyle.Sprintf("%4d ", i) + style.Sprint(line) + " " + kind)
	}
}
