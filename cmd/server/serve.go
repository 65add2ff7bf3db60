package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/haneul-mud/haneul/pkg/boltstore"
	"github.com/haneul-mud/haneul/pkg/gamedb"
	"github.com/haneul-mud/haneul/pkg/server"
	"github.com/haneul-mud/haneul/pkg/socials"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the game server",
	RunE: func(cmd *cobra.Command, args []string) error {
		gc, err := loadConf()
		if err != nil {
			return err
		}
		if servePort != 0 {
			gc.Port = servePort
		}
		return serve(gc)
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Telnet port, overrides config (env: HANEUL_PORT)")
}

func serve(gc *server.GameConf) error {
	logger.Info("starting", zap.String("version", server.VersionString()), zap.String("mud", gc.MudName))

	rooms, err := gamedb.LoadZoneFile(gc.ZoneFile)
	if err != nil {
		return err
	}
	world := gamedb.NewWorldFromZone(rooms)
	for _, v := range []int{gc.MortalStartRoom, gc.ImmortStartRoom, gc.FrozenStartRoom, gc.HoldingRoom} {
		if world.Room(gamedb.RoomVnum(v)) == nil {
			return fmt.Errorf("configured room %d is not in the zone", v)
		}
	}

	set, err := socials.LoadFile(gc.SocialsFile)
	if err != nil {
		return err
	}

	store, err := boltstore.Open(gc.PlayerDB, logger.Named("store"))
	if err != nil {
		return err
	}
	defer store.Close()
	logger.Info("player store open", zap.String("path", gc.PlayerDB), zap.Int("players", store.Count()))

	var audit *server.AuditLog
	if gc.AuditDB != "" {
		if audit, err = server.OpenAuditLog(gc.AuditDB); err != nil {
			return err
		}
		defer audit.Close()
	}

	var metrics *server.Metrics
	if gc.MetricsEnabled {
		metrics = server.NewMetrics()
	}

	game, err := server.NewGame(gc, world, server.GameOptions{
		Store:   store,
		Audit:   audit,
		Texts:   server.NewTextFiles(gc.TextDir),
		Socials: set,
		Metrics: metrics,
		Logger:  logger,
	})
	if err != nil {
		return err
	}
	stopWatch, err := game.WatchTextFiles()
	if err != nil {
		logger.Warn("text file watcher disabled", zap.Error(err))
	} else {
		defer stopWatch()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.NewServer(game).Run(ctx)
}
