package main

import (
	"log"
	"os"

	"github.com/seantiz/draftbridge/internal/api"
	"github.com/seantiz/draftbridge/internal/config"
	"github.com/seantiz/draftbridge/internal/engine"
	"github.com/seantiz/draftbridge/internal/resolver"
	"github.com/seantiz/draftbridge/internal/store"
)

func main() {
	cfg := config.Load()
	logger := config.NewLogger(os.Stdout, cfg.LogLevel)

	logger.Info("draftbridge: starting",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"python", cfg.Python,
	)

	db, err := store.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	res := resolver.New(cfg.FallbackDir, logger)
	invoker := engine.NewInvoker(res, cfg.Python, logger)

	srv := api.NewServer(cfg.ListenAddr, db, invoker, res, logger)

	if err := srv.Run(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
