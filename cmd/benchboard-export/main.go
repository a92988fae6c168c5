// Package main writes the leaderboard as a static site.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	exportcmd "github.com/louisbranch/benchboard/internal/cmd/export"
	"github.com/louisbranch/benchboard/internal/platform/config"
)

func main() {
	cfg, err := exportcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	config.ExitOnError("parse flags", err)
	log.SetPrefix("[BENCHBOARD-EXPORT] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := exportcmd.Run(ctx, cfg); err != nil {
		log.Fatalf("export failed: %v", err)
	}
}
