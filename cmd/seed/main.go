package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/tallyhq/tally/internal/seeder"
	"github.com/tallyhq/tally/pkg/logger"
)

const runTimeout = 5 * time.Minute

func main() {
	var (
		baseURL   = flag.String("url", "http://localhost:9080", "Base URL of the service")
		eventName = flag.String("event", "", "Event name (default: generated)")
		teams     = flag.Int("teams", seeder.DefaultTeams, "Number of teams to register")
		judges    = flag.Int("judges", seeder.DefaultJudges, "Number of judge profiles to register")
		workers   = flag.Int("workers", seeder.DefaultWorkers, "Number of concurrent submission workers")
		timeout   = flag.Duration("timeout", seeder.DefaultTimeout, "HTTP request timeout")
		seed      = flag.Uint64("seed", 0, "Random seed for reproducible data (0 = random)")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	cfg := &seeder.Config{
		BaseURL:   *baseURL,
		EventName: *eventName,
		Teams:     *teams,
		Judges:    *judges,
		Workers:   *workers,
		Timeout:   *timeout,
		Seed:      *seed,
	}

	if _, err := seeder.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("seeding failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
