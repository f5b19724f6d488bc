// Package scan implements the header scan command of the SPV tool.
package scan

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Anfauglith/libiop/cli/options"
	"github.com/Anfauglith/libiop/pkg/database"
	"github.com/Anfauglith/libiop/pkg/spv"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// NewCommands returns the scan command.
func NewCommands() []*cli.Command {
	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:    "continuous",
			Aliases: []string{"c"},
			Usage:   "Keep running after the sync completed and wait for new blocks",
		},
		&cli.StringFlag{
			Name:    "ips",
			Aliases: []string{"i"},
			Usage:   "Comma separated list of peer addresses, skips DNS seeding",
		},
		&cli.IntFlag{
			Name:    "maxnodes",
			Aliases: []string{"m"},
			Value:   10,
			Usage:   "Desired amount of connected nodes",
		},
		&cli.StringFlag{
			Name:    "dbfile",
			Aliases: []string{"f"},
			Value:   "headers.db",
			Usage:   "Header database file, 0 keeps the headers in memory only",
		},
		&cli.IntFlag{
			Name:    "timeout",
			Aliases: []string{"s"},
			Value:   15,
			Usage:   "Connect timeout in seconds",
		},
		options.Debug,
		options.ConfigFile,
	}
	flags = append(flags, options.Network...)

	return []*cli.Command{
		{
			Name:      "scan",
			Usage:     "Sync block headers up to the chain tip",
			UsageText: "iop-spv scan [-c] [-i ip,ip] [-m maxnodes] [-t|-r] [-d] [-f file|0] [-s timeout]",
			Action:    startScan,
			Flags:     flags,
		},
	}
}

func startScan(ctx *cli.Context) error {
	cfg, err := options.GetConfig(ctx)
	if err != nil {
		return cli.Exit(err, 1)
	}
	log, err := options.HandleLoggingParams(ctx, cfg)
	if err != nil {
		return cli.Exit(err, 1)
	}
	defer log.Sync()

	chain := options.GetNetwork(ctx)

	var db database.Database
	if dbfile := ctx.String("dbfile"); dbfile == "0" {
		db = database.NewMemDB()
	} else {
		db, err = database.NewLDB(dbfile)
		if err != nil {
			return cli.Exit(fmt.Errorf("opening header database: %w", err), 1)
		}
	}
	defer db.Close()

	client, err := spv.New(spv.Config{
		ChainParams:    chain,
		DB:             db,
		Logger:         log,
		MaxNodes:       ctx.Int("maxnodes"),
		ConnectTimeout: time.Duration(ctx.Int("timeout")) * time.Second,
		Continuous:     ctx.Bool("continuous"),
		OnNewTip: func(c *spv.Client, height uint32) {
			log.Info("new headers tip", zap.Uint32("height", height))
		},
	})
	if err != nil {
		return cli.Exit(err, 1)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info("shutting down")
		client.Group().Shutdown()
	}()

	log.Info("scanning headers",
		zap.String("network", chain.Name),
		zap.Int("maxnodes", ctx.Int("maxnodes")))
	if err := client.Run(ctx.String("ips")); err != nil {
		return cli.Exit(err, 1)
	}
	return nil
}
