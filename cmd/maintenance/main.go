// Command maintenance runs one-off jobs against the connection request table.
//
//	maintenance -cmd seed-requests -receiver <user id> [-reset]
//	maintenance -cmd purge-requests -user <user id>
//	maintenance -cmd purge-sessions
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/hjo3-cse40/SlugConnect/internal/repositories"
	"github.com/hjo3-cse40/SlugConnect/internal/services"
	"github.com/hjo3-cse40/SlugConnect/pkg/config"
	"github.com/hjo3-cse40/SlugConnect/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	cmd := flag.String("cmd", "", "seed-requests | purge-requests | purge-sessions")
	receiver := flag.String("receiver", "", "user id that receives seeded requests")
	user := flag.String("user", "", "user id whose requests are purged")
	reset := flag.Bool("reset", false, "purge the receiver's requests before seeding")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	zlog := logger.New(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile, Development: !cfg.IsProduction()})
	defer zlog.Sync() //nolint:errcheck

	db, err := config.OpenSQL(cfg)
	if err != nil {
		zlog.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := config.Migrate(db); err != nil {
		zlog.Fatal("Failed to auto migrate models", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := run(ctx, db, zlog, *cmd, *receiver, *user, *reset); err != nil {
		zlog.Error("maintenance failed", zap.String("cmd", *cmd), zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, db *gorm.DB, zlog *zap.Logger, cmd, receiver, user string, reset bool) error {
	profileRepo := repositories.NewPostgresProfileRepository(db)
	connections := services.NewConnectionService(
		repositories.NewPostgresConnectionRepository(db),
		profileRepo,
		nil,
		nil,
		nil,
		zlog,
	)

	switch cmd {
	case "seed-requests":
		if receiver == "" {
			return fmt.Errorf("-receiver is required")
		}
		n, err := connections.SeedRequests(ctx, receiver, reset)
		if err != nil {
			return err
		}
		fmt.Printf("created %d pending requests for %s\n", n, receiver)
	case "purge-requests":
		if user == "" {
			return fmt.Errorf("-user is required")
		}
		n, err := connections.PurgeRequests(ctx, user)
		if err != nil {
			return err
		}
		fmt.Printf("deleted %d requests involving %s\n", n, user)
	case "purge-sessions":
		auth := services.NewAuthService(repositories.NewPostgresUserRepository(db), profileRepo, nil, services.AuthConfig{})
		n, err := auth.PurgeExpiredSessions(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("deleted %d expired sessions\n", n)
	default:
		flag.Usage()
		return fmt.Errorf("unknown -cmd %q", cmd)
	}
	return nil
}
