package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"collection-route-service/internal/adapters/cache"
	"collection-route-service/internal/adapters/matrix"
	"collection-route-service/internal/adapters/repositories"
	"collection-route-service/internal/adapters/solver"
	"collection-route-service/internal/api"
	"collection-route-service/internal/config"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	addr := config.Get("ADDR", ":8080")
	sqlitePath := config.Get("SQLITE_PATH", "collection.db")
	osrmURL := config.Get("OSRM_BASE_URL", "")

	db, err := sql.Open("sqlite", sqlitePath)
	if err != nil {
		log.Fatalf("open sqlite database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := repositories.InitSchema(ctx, db); err != nil {
		log.Fatalf("init schema: %v", err)
	}

	provider := matrix.NewCachedProvider(
		matrix.NewOSRMProvider(osrmURL),
		cache.NewSqliteMatrixCache(db),
	)

	srv := &http.Server{
		Addr:              addr,
		Handler:           api.NewRouter(provider, &solver.HighsSolver{}),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}

	log.Printf("listening addr=%s", addr)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
