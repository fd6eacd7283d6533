package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/yurifrl/organizador/pkg/config"
	"github.com/yurifrl/organizador/pkg/rules"
	"github.com/yurifrl/organizador/pkg/server"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		Prefix:          "organizador",
	})

	var (
		port    = flag.String("port", "3000", "Server port")
		cfgFile = flag.String("c", "", "Config file (default is config.yaml)")
	)
	flag.Parse()

	cfg, err := config.Build(*cfgFile, nil)
	if err != nil {
		logger.Fatal("invalid configuration", "err", err)
	}
	logger.SetLevel(cfg.Level())

	book := rules.NewBook(nil)
	if err := book.LoadFile(cfg.RulesFile); err != nil {
		logger.Warn("failed to load rules, using defaults", "file", cfg.RulesFile, "err", err)
	}

	srv := server.New(cfg, book, logger)
	addr := fmt.Sprintf("0.0.0.0:%s", *port)
	logger.Info("starting server", "addr", addr)
	if err := srv.Start(addr); err != nil {
		logger.Fatal("server error", "err", err)
	}
}
