package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/lockmart/lockmart/internal/client/api"
	"github.com/lockmart/lockmart/internal/client/auth"
	"github.com/lockmart/lockmart/internal/client/cart"
	"github.com/lockmart/lockmart/internal/client/cli"
	"github.com/lockmart/lockmart/internal/client/iocli"
	"github.com/lockmart/lockmart/internal/client/oauth"
	"github.com/lockmart/lockmart/internal/client/session"
	"github.com/lockmart/lockmart/internal/client/watchdog"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	serverURL := flag.String("server", "http://localhost:8080", "Server URL")
	dbPath := flag.String("db", "lockmart-client.db", "Path to local session cache")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	stdio := iocli.NewStdio()

	args := flag.Args()
	if len(args) == 0 {
		usageOnly(stdio)
		os.Exit(1)
	}
	command := args[0]

	ctx := context.Background()

	// The CLI keeps quiet unless something goes wrong
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	store, err := session.New(ctx, *dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open session cache: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close session cache", "error", err)
		}
	}()

	bus := session.NewBus()
	guard := session.NewRefreshGuard()

	apiClient := api.NewClient(*serverURL, store, bus, guard)
	authService := auth.NewService(logger, apiClient, store, bus, guard)
	cartService := cart.New(store)

	bridge := oauth.New(logger, apiClient, oauth.NewSystemBrowser(),
		oauth.WithFallback(func(authURL string) {
			stdio.Println("Could not open a browser. Open this URL yourself:")
			stdio.Println(authURL)
		}))

	dog := watchdog.New(logger, authService, cli.NewRenewalPrompter(stdio))
	defer dog.Stop()

	// A token-related 401 from any request pulls the warning forward
	events, cancel := bus.Subscribe()
	defer cancel()
	go func() {
		for ev := range events {
			if ev.Name == session.EventTokenExpired {
				dog.CheckNow(ctx)
			}
		}
	}()

	if token, err := store.Token(ctx); err == nil {
		dog.Watch(ctx, token)
	}

	c := cli.New(stdio, authService, apiClient, cartService, bridge, store)
	if err := c.Run(ctx, command, args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usageOnly(stdio iocli.IO) {
	cli.New(stdio, nil, nil, nil, nil, nil).PrintUsage()
}

func printVersion() {
	fmt.Printf("LockMart Client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
