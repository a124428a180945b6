package main

import (
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "github.com/kezar0001-cpu/Mawjood/internal/adapters/http_server"
	"github.com/kezar0001-cpu/Mawjood/internal/adapters/observability"
	redisad "github.com/kezar0001-cpu/Mawjood/internal/adapters/redis"
	"github.com/kezar0001-cpu/Mawjood/internal/app"
	"github.com/kezar0001-cpu/Mawjood/internal/shared"
	mysqlrepo "github.com/kezar0001-cpu/Mawjood/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// deps
	repo := mysqlrepo.New(db)
	sessions := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	auth := app.NewAuthService(repo, sessions, cfg.SessionTTL)
	dir := app.NewDirectoryService(repo)

	// http
	srv := server.New()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Auth:          auth,
		Dir:           dir,
		Secret:        []byte(cfg.ServiceKey),
		SessionTTL:    cfg.SessionTTL,
		LoginRPS:      cfg.LoginRPS,
		LoginBurst:    cfg.LoginBurst,
		SecureCookies: cfg.AppEnv != "dev" && cfg.AppEnv != "development",
	})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("admin API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
