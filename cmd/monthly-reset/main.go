// AngelaMos | 2026
// main.go

// Command monthly-reset closes the current competition month: it records
// the leader as winner and zeroes every monthly total. Schedule it for the
// first minutes of each month.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/restaurant-rewards/internal/config"
	"github.com/carterperez-dev/restaurant-rewards/internal/core"
	"github.com/carterperez-dev/restaurant-rewards/internal/ranking"
)

const runTimeout = 2 * time.Minute

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("monthly reset failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	//nolint:errcheck // .env is optional outside development
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck // process exits right after

	// The cache only needs clearing; a missing Redis must not block the
	// close of the month.
	var cache redis.Cmdable
	if rdb, redisErr := core.NewRedis(ctx, cfg.Redis); redisErr != nil {
		logger.Warn("redis unavailable, ranking cache left to expire", "error", redisErr)
	} else {
		defer rdb.Close() //nolint:errcheck // process exits right after
		cache = rdb.Client
	}

	loc, err := cfg.Reservation.Location()
	if err != nil {
		return err
	}

	svc := ranking.NewService(
		ranking.NewRepository(db.DB),
		db,
		cache,
		core.NewSystemClock(loc),
		cfg.Ranking,
	)

	winner, err := svc.Reset(ctx)
	if err != nil {
		return err
	}

	if winner == nil {
		logger.Info("monthly reset complete", "winner", nil)
		return nil
	}

	logger.Info("monthly reset complete",
		"winner_id", winner.UserID,
		"winner_name", winner.UserName,
		"competition_month", winner.CompetitionMonth.Format(core.DateLayout),
		"points", winner.PointsTotal,
	)
	return nil
}
