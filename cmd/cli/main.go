package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/chirpkeeper/internal/buildinfo"
	"github.com/dmitrijs2005/chirpkeeper/internal/client/api"
	"github.com/dmitrijs2005/chirpkeeper/internal/client/cli"
	"github.com/dmitrijs2005/chirpkeeper/internal/client/config"
	"github.com/dmitrijs2005/chirpkeeper/internal/client/session"
	"github.com/dmitrijs2005/chirpkeeper/internal/client/storage"
	"github.com/dmitrijs2005/chirpkeeper/internal/client/tokens"
	"github.com/dmitrijs2005/chirpkeeper/internal/filex"
	"github.com/dmitrijs2005/chirpkeeper/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	logger := logging.New(os.Stderr, cfg.LogFormat, cfg.LogLevel)

	dbPath, err := filex.EnsureParentDir(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("prepare database directory: %v", err)
	}

	db, err := storage.Open(ctx, dbPath)
	if err != nil {
		log.Fatalf("open local database: %v", err)
	}
	defer db.Close()

	tm := tokens.NewManager(storage.NewSQLiteKV(db))
	gw := api.NewGateway(cfg.APIBaseURL, tm,
		api.WithTimeout(cfg.RequestTimeout),
		api.WithLogger(logger),
	)
	sess := session.New(gw, tm, logger)

	cli.NewApp(cfg, gw, sess, logger, os.Stdin, os.Stdout).Run(ctx)

}
