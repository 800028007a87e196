package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/floor/cmd/utils/internal/commands"
)

const (
	appName    = "floor-utils"
	appVersion = "0.1.0"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	config, err := apt.LoadConfig("UTILS", os.Args[2:])
	if err != nil {
		log.Fatalf("Cannot load config: %v", err)
	}

	logger := apt.NewLogger(config.GetStringOrDef("log.level", "info"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	command := os.Args[1]

	switch command {
	case "receipts":
		if err := commands.ListReceipts(ctx, os.Stdout, config, logger); err != nil {
			log.Fatalf("❌ Listing receipts failed: %v", err)
		}

	case "watch":
		if err := commands.Watch(ctx, os.Stdout, config, logger); err != nil {
			log.Fatalf("❌ Watch failed: %v", err)
		}

	case "replay":
		if err := commands.Replay(ctx, os.Stdout, config, logger); err != nil {
			log.Fatalf("❌ Replay failed: %v", err)
		}

	case "seed-demo":
		if err := commands.SeedDemo(ctx, config, logger); err != nil {
			log.Fatalf("❌ Demo seeding failed: %v", err)
		}
		logger.Info("✅ Demo seeding completed successfully")

	case "reset-db":
		if err := commands.ResetDB(ctx, config, logger); err != nil {
			log.Fatalf("❌ Database reset failed: %v", err)
		}
		logger.Info("✅ Database reset completed successfully")

	case "version":
		fmt.Printf("%s version %s\n", appName, appVersion)

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`%s - Floor utility commands

Usage:
  %s <command> [--key=value ...]

Commands:
  receipts     List archived receipts (--receipts.table=N --receipts.limit=N)
  watch        Print floor events as they are published
  replay       Print events stored in the FLOOR_EVENTS stream
  seed-demo    Archive demo receipts for a few settled tables
  reset-db     Drop the receipt archive database (USE WITH CAUTION)
  version      Print version information
  help         Show this help message

Environment Variables:
  UTILS_DB_MONGO_URL   MongoDB connection URL (default: mongodb://localhost:27017)
  UTILS_DB_MONGO_NAME  Receipt database (default: appetite_floor)
  UTILS_NATS_URL       NATS server URL (default: nats://localhost:4222)
  UTILS_LOG_LEVEL      Log level: debug, info, warn, error (default: info)

Examples:
  %s receipts --receipts.table=3
  %s watch
  UTILS_DB_MONGO_URL=mongodb://localhost:27017 %s reset-db

`, appName, appName, appName, appName, appName)
}
