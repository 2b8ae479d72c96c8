// Command retention deletes location verification records and accuracy logs
// older than the retention window. It is meant to run from a scheduler.
//
// Usage:
//
//	retention                 # use LOCATION_RETENTION_DAYS
//	retention -days 30        # override the window
//	retention -dry-run        # print the cutoff and exit
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clockgeo/internal/location/coordcrypt"
	"clockgeo/internal/location/retention"
	pgstore "clockgeo/internal/location/store/postgres"
	"clockgeo/internal/location/verification"
	"clockgeo/internal/platform/config"
	"clockgeo/internal/platform/logger"
	"clockgeo/internal/platform/postgres"
	audit "clockgeo/pkg/platform/audit"
	"clockgeo/pkg/platform/audit/publisher"
	"clockgeo/pkg/platform/audit/store/kafka"
	"clockgeo/pkg/platform/audit/store/logsink"
)

func main() {
	days := flag.Int("days", 0, "retention window in days (default LOCATION_RETENTION_DAYS)")
	dryRun := flag.Bool("dry-run", false, "print the cutoff without deleting anything")
	flag.Parse()

	if err := run(*days, *dryRun); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(days int, dryRun bool) error {
	if days < 0 {
		return fmt.Errorf("-days must not be negative, got %d", days)
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log, logCloser := logger.New(cfg.Logging)
	defer logCloser.Close()

	if days == 0 {
		days = cfg.Geofence.RetentionDays
	}
	if dryRun {
		cutoff := time.Now().UTC().AddDate(0, 0, -days)
		fmt.Printf("retention_days=%d cutoff=%s\n", days, cutoff.Format(time.RFC3339))
		return nil
	}
	if cfg.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	auditStore, closeAudit, err := openAuditStore(cfg, log)
	if err != nil {
		return err
	}
	defer closeAudit()
	auditPublisher := publisher.NewPublisher(auditStore, publisher.WithLogger(log))

	// Cleanup never opens coordinates, so the sealer is irrelevant here.
	recorder := verification.NewRecorder(pgstore.NewVerificationStore(db), pgstore.NewAccuracyLogStore(db), coordcrypt.NewPlaintext(),
		verification.WithLogger(log),
	)
	svc := retention.New(recorder, cfg.Geofence.RetentionDays,
		retention.WithLogger(log),
		retention.WithAuditPublisher(auditPublisher),
	)

	res, err := svc.Run(ctx, days)
	if err != nil {
		return fmt.Errorf("retention cleanup: %w", err)
	}
	fmt.Printf("cutoff=%s verifications_deleted=%d accuracy_logs_deleted=%d\n",
		res.Cutoff.Format(time.RFC3339), res.Verifications, res.AccuracyLogs)
	return nil
}

func openAuditStore(cfg config.Config, log *slog.Logger) (audit.Store, func(), error) {
	if cfg.Audit.Sink != "kafka" {
		return logsink.New(log), func() {}, nil
	}
	s, err := kafka.New(cfg.Audit.KafkaBrokers, cfg.Audit.KafkaTopic)
	if err != nil {
		return nil, nil, err
	}
	return s, s.Close, nil
}
