package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mcqbank/internal/app"
	"mcqbank/internal/audit"
	"mcqbank/internal/db"
)

func main() {
	cfg := app.LoadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rec, auditDB, err := openAudit(ctx, cfg)
	if err != nil {
		log.Printf("audit error: %v", err)
		os.Exit(1)
	}
	if auditDB != nil {
		defer auditDB.Close()
	}

	st := app.NewState(rec)
	sum, err := st.Seed(ctx, cfg)
	if err != nil {
		log.Printf("seed error: %v", err)
		os.Exit(1)
	}
	log.Printf("seeded %s", sum)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           app.NewRouter(cfg, st, auditDB),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("mcqbank (%s) listening on %s", cfg.AppEnv, cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Printf("server stopped: %v", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
		log.Printf("server stopped")
	}
}

// openAudit returns the Postgres recorder when AUDIT_DB_DSN is set and a log
// recorder otherwise. The returned *sql.DB is nil in the latter case.
func openAudit(ctx context.Context, cfg app.Config) (audit.Recorder, *sql.DB, error) {
	if cfg.AuditDBDSN == "" {
		return audit.NewLogRecorder(log.New(os.Stderr, "", log.LstdFlags)), nil, nil
	}

	conn, err := db.OpenPostgresWithConfig(ctx, cfg.AuditDBDSN, db.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.DBConnMaxLifeMins) * time.Minute,
	})
	if err != nil {
		return nil, nil, err
	}

	rec := audit.NewPostgresRecorder(conn)
	if err := rec.EnsureSchema(ctx); err != nil {
		conn.Close()
		return nil, nil, err
	}
	return rec, conn, nil
}
