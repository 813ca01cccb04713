package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/lawyered0/clawyer/internal/adminauth"
	"github.com/lawyered0/clawyer/internal/conflicts"
	conflictshandler "github.com/lawyered0/clawyer/internal/conflicts/handler"
	conflictsmetrics "github.com/lawyered0/clawyer/internal/conflicts/metrics"
	"github.com/lawyered0/clawyer/internal/intake"
	intakehandler "github.com/lawyered0/clawyer/internal/intake/handler"
	intakemetrics "github.com/lawyered0/clawyer/internal/intake/metrics"
	"github.com/lawyered0/clawyer/internal/platform/config"
	"github.com/lawyered0/clawyer/internal/platform/httpserver"
	"github.com/lawyered0/clawyer/internal/platform/logger"
	"github.com/lawyered0/clawyer/internal/platform/middleware"
	"github.com/lawyered0/clawyer/internal/reindex"
	reindexhandler "github.com/lawyered0/clawyer/internal/reindex/handler"
	reindexmetrics "github.com/lawyered0/clawyer/internal/reindex/metrics"
	httptransport "github.com/lawyered0/clawyer/internal/transport/http"
)

// main wires dependencies and owns the process lifecycle. Business logic
// lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx := context.Background()

	driver, err := parseDriver(cfg.DBDriver)
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	db, err := sql.Open(string(driver), cfg.DBDSN)
	if err != nil {
		log.Error("open database", "driver", driver, "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if driver == conflicts.DriverSQLite {
		// The embedded backend serializes writers on one connection.
		db.SetMaxOpenConns(1)
	}

	if err := conflicts.EnsureSchema(ctx, db); err != nil {
		log.Error("ensure party graph schema", "error", err)
		os.Exit(1)
	}
	if err := intake.EnsureClearanceSchema(ctx, db); err != nil {
		log.Error("ensure clearance schema", "error", err)
		os.Exit(1)
	}

	store := conflicts.NewSQLStore(db, driver)
	conflictsFile := reindex.NewConflictsFile(cfg.ConflictsFile, log)

	var fallback conflicts.FallbackSource
	if cfg.FallbackEnabled {
		fallback = conflictsFile
	}
	checkService := conflicts.NewService(store, fallback, log, conflictsmetrics.New())

	source := reindex.NewWorkspaceSource(cfg.WorkspaceRoot, log)
	pipeline := reindex.New(store, source, conflictsFile, log, reindexmetrics.New())

	clearances := intake.NewSQLClearanceStore(db, driver)
	intakeService := intake.NewService(checkService, store, clearances, log, intakemetrics.New())

	var validator middleware.AdminValidator
	if cfg.AdminJWTKey != "" {
		validator = adminauth.New(cfg.AdminJWTKey)
	} else {
		log.Warn("admin auth disabled, administrative endpoints are open")
	}
	admin := middleware.RequireAdmin(validator, log)

	router := httptransport.NewRouter(log,
		conflictshandler.New(checkService, store, log, admin),
		reindexhandler.New(pipeline, log, admin),
		intakehandler.New(intakeService, log, admin),
	)
	srv := httpserver.New(cfg.Addr, router)

	if cfg.ReindexOnStart {
		go func() {
			if _, err := pipeline.Run(ctx); err != nil {
				log.Error("startup reindex failed", "error", err)
			}
		}()
	}

	go func() {
		log.Info("server starting", "addr", cfg.Addr, "driver", driver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func parseDriver(raw string) (conflicts.Driver, error) {
	switch conflicts.Driver(raw) {
	case conflicts.DriverPostgres, conflicts.DriverSQLite:
		return conflicts.Driver(raw), nil
	default:
		return "", fmt.Errorf("unsupported db driver %q (want postgres or sqlite)", raw)
	}
}
