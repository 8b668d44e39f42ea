package main

import (
	"context"
	"time"

	"github.com/airenas/go-app/pkg/goapp"
	"github.com/airenas/scribe/internal/pkg/auth"
	"github.com/airenas/scribe/internal/pkg/postgres"
	"github.com/airenas/scribe/internal/pkg/reporting"
	"github.com/airenas/scribe/internal/pkg/webservice"
	"github.com/airenas/scribe/internal/pkg/workflow"
	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/labstack/gommon/color"
)

func main() {
	goapp.StartWithDefault()

	printBanner()

	cfg := goapp.Config
	data := &webservice.Data{}
	data.Port = cfg.GetInt("port")
	var err error

	ctx := context.Background()

	dbConfig, err := pgxpool.ParseConfig(cfg.GetString("db.url"))
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't init db pool")
	}
	dbConfig.ConnConfig.Tracer = &tracelog.TraceLog{Logger: postgres.NewTraceLogAdapter(),
		LogLevel: tracelog.LogLevelWarn}

	dbPool, err := pgxpool.NewWithConfig(ctx, dbConfig)
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't init db pool")
	}
	defer dbPool.Close()

	err = backoff.Retry(func() error { return dbPool.Ping(ctx) }, dbBackoff())
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't reach db")
	}

	db, err := postgres.NewDB(dbPool)
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't init db")
	}
	if err := db.Init(ctx); err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't init db schema")
	}

	data.Tokens, err = auth.NewTokenMaker(cfg)
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't init token maker")
	}

	data.WSHandler = webservice.NewWSConnKeeper()

	data.Workflow, err = workflow.NewOrchestrator(db, webservice.NewWSNotifier(data.WSHandler))
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't init workflow")
	}

	data.Reports, err = reporting.NewAggregator(db)
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't init reports")
	}

	data.Users = db
	data.Audio = db
	data.Health = db

	err = webservice.StartWebServer(data)
	if err != nil {
		goapp.Log.Fatal().Err(err).Msg("can't start web server")
	}
}

func dbBackoff() backoff.BackOff {
	res := backoff.NewExponentialBackOff()
	res.MaxElapsedTime = time.Minute
	return res
}

var (
	version = "DEV"
)

func printBanner() {
	banner := `
     _____ __________  ________  ______
    / ___// ____/ __ \/  _/ __ )/ ____/
    \__ \/ /   / /_/ // // __  / __/
   ___/ / /___/ _, _// // /_/ / /___
  /____/\____/_/ |_/___/_____/_____/   v: %s

%s
________________________________________________________

`
	cl := color.New()
	cl.Printf(banner, cl.Red(version), cl.Green("https://github.com/airenas/scribe"))
}
