// Package main starts the benchboard leaderboard service.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	benchboardcmd "github.com/louisbranch/benchboard/internal/cmd/benchboard"
	"github.com/louisbranch/benchboard/internal/platform/config"
)

func main() {
	cfg, err := benchboardcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	config.ExitOnError("parse flags", err)
	log.SetPrefix("[BENCHBOARD] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := benchboardcmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
