package main

import (
	"log"

	"github.com/FJ-cyberzilla/Phone-Investigation-System/internal/config"
	"github.com/FJ-cyberzilla/Phone-Investigation-System/internal/httpserver"
	"github.com/FJ-cyberzilla/Phone-Investigation-System/internal/store"
	"github.com/FJ-cyberzilla/Phone-Investigation-System/internal/telemetry"
)

// main boots the service: config → store → schema → HTTP server.
func main() {
	// Load runtime config from environment (DB_URL, DB_PATH, API_KEYS, LISTEN_ADDR).
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// Connect to durable storage: Postgres when DB_URL is set,
	// otherwise the local SQLite file (development default).
	db, err := openStore(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	rec := telemetry.NewRecorder(db, log.Default())

	// Build HTTP router (public health + authenticated APIs).
	router := httpserver.NewRouter(cfg, db, rec)

	log.Println("telemetry server started on " + cfg.ListenAddr)
	log.Fatal(router.Run(cfg.ListenAddr))
}

// openStore selects the storage backend and ensures its schema exists
// so `docker compose up --build` is enough.
func openStore(cfg config.Config) (store.Store, error) {
	if cfg.DBURL != "" {
		pg, err := store.NewPostgresStore(cfg.DBURL)
		if err != nil {
			return nil, err
		}
		if err := pg.EnsureSchema(); err != nil {
			pg.Close()
			return nil, err
		}
		return pg, nil
	}

	// SQLite applies its schema on open.
	return store.NewSQLiteStore(cfg.DBPath)
}
