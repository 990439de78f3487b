/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package cmd

import (
	"context"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/flamego/flamego"
	"github.com/flamego/template"
	"github.com/urfave/cli/v3"

	"github.com/humaidq/nutrimark/db"
	"github.com/humaidq/nutrimark/recommend"
	"github.com/humaidq/nutrimark/routes"
	"github.com/humaidq/nutrimark/static"
	"github.com/humaidq/nutrimark/templates"
)

const shutdownTimeout = 10 * time.Second

var CmdStart = &cli.Command{
	Name:    "start",
	Aliases: []string{"run"},
	Usage:   "Start the web server",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "port",
			Value:   "8080",
			Sources: cli.EnvVars("PORT"),
			Usage:   "the web server port",
		},
		databaseURLFlag(),
		rangesFileFlag(),
		&cli.StringFlag{
			Name:    "openai-api-key",
			Sources: cli.EnvVars("OPENAI_API_KEY"),
			Usage:   "OpenAI API key for recipe recommendations (disabled when empty)",
		},
		&cli.StringFlag{
			Name:    "openai-model",
			Value:   recommend.DefaultModel,
			Sources: cli.EnvVars("OPENAI_MODEL"),
			Usage:   "OpenAI chat model used for recipe recommendations",
		},
	},
	Action: start,
}

func start(ctx context.Context, cmd *cli.Command) error {
	databaseURL := cmd.String("database-url")
	if databaseURL == "" {
		return errDatabaseURLRequired
	}

	table, err := loadTable(cmd)
	if err != nil {
		return err
	}

	appLogger.Info("Loaded reference ranges", "nutrients", table.Len())

	recommender, err := newRecommender(cmd)
	if err != nil {
		return err
	}

	appLogger.Info("Connecting to database")

	if err := db.Init(ctx, databaseURL); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	appLogger.Info("Syncing database schema")

	if err := db.SyncSchema(ctx, table); err != nil {
		return fmt.Errorf("failed to sync schema: %w", err)
	}

	f, err := newWebApp(routes.NewServices(table, db.Repository{}, recommender))
	if err != nil {
		return err
	}

	port := cmd.String("port")
	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%s", port),
		Handler:      f,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 90 * time.Second,
		ErrorLog:     requestStdLogger,
	}

	return serve(ctx, srv)
}

// serve runs srv until ctx is cancelled or the process receives SIGINT or
// SIGTERM, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)

	go func() {
		appLogger.Info("Starting web server", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("web server failed: %w", err)
	case <-ctx.Done():
	}

	appLogger.Info("Shutting down web server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down web server: %w", err)
	}

	return nil
}

// newWebApp builds the flamego application around svc.
func newWebApp(svc *routes.Services) (*flamego.Flame, error) {
	f := flamego.New()
	f.Use(flamego.Recovery())
	f.Use(routes.RequestLogger)
	f.Use(routes.NoCacheHeaders())

	fs, err := template.EmbedFS(templates.Templates, ".", []string{".html"})
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	f.Use(template.Templater(template.Options{
		FileSystem: fs,
		FuncMaps:   []htmltemplate.FuncMap{routes.TemplateFuncs()},
	}))
	f.Use(flamego.Static(flamego.StaticOptions{
		FileSystem: http.FS(static.Static),
	}))
	f.Use(routes.Injector(svc))

	configureEmptyNotFoundHandler(f)

	f.Group("/api", func() {
		f.Post("/classify", routes.ClassifyValue)
		f.Get("/nutrients/ranges", routes.ListRanges)
		f.Get("/deficiencies", routes.RequireUser, routes.ListDeficiencies)

		f.Group("/blood-tests", func() {
			f.Get("", routes.ListBloodTests)
			f.Get("/latest", routes.GetLatestBloodTest)
			f.Post("/manual", routes.SubmitManualBloodTest)
			f.Get("/{id}", routes.GetBloodTest)
			f.Get("/{id}/recommendations", routes.GetRecommendations)
		}, routes.RequireUser)
	})

	f.Group("", func() {
		f.Get("/blood-tests/{id}", routes.BloodTestPage)
		f.Get("/nutrients/{name}/chart", routes.NutrientChart)
	}, routes.RequireUser)

	return f, nil
}

func configureEmptyNotFoundHandler(f *flamego.Flame) {
	f.NotFound(func(c flamego.Context) {
		c.ResponseWriter().WriteHeader(http.StatusNotFound)
	})
}
