package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/lcalzada-xor/geotrack/internal/adapters/provider"
	"github.com/lcalzada-xor/geotrack/internal/adapters/storage"
	"github.com/lcalzada-xor/geotrack/internal/adapters/web"
	"github.com/lcalzada-xor/geotrack/internal/config"
	"github.com/lcalzada-xor/geotrack/internal/core/domain"
	"github.com/lcalzada-xor/geotrack/internal/core/services/lifecycle"
	"github.com/lcalzada-xor/geotrack/internal/core/services/location"
	"github.com/lcalzada-xor/geotrack/internal/telemetry"
)

// Application holds the core components of the application. It acts as
// the facade wiring the provider, the location service and the outward
// surfaces together.
type Application struct {
	Config    *config.Config
	Provider  *provider.Simulator
	Service   *location.Service
	Lifecycle *lifecycle.Adapter
	WebServer *web.Server
	FixStore  *storage.SQLiteFixStore

	// fixObserver must stay referenced here: the registry only holds
	// it weakly.
	fixObserver *storage.FixObserver

	signals chan lifecycle.Signal
}

// New creates a new Application instance and bootstraps its components.
func New(cfg *config.Config) (*Application, error) {
	app := &Application{
		Config:  cfg,
		signals: make(chan lifecycle.Signal, 1),
	}

	if err := app.bootstrap(); err != nil {
		return nil, fmt.Errorf("application bootstrap failed: %w", err)
	}

	return app, nil
}

// bootstrap orchestrates the initialization sequence.
func (app *Application) bootstrap() error {
	// 1. Foundation & Infrastructure
	telemetry.InitMetrics()

	store, err := app.initStorage()
	if err != nil {
		return err
	}
	app.FixStore = store

	// 2. Provider
	app.Provider = app.buildProvider()

	// 3. Core service
	app.Service = location.New(app.Provider,
		location.WithAuthRequestInterval(app.Config.AuthNagInterval),
		location.WithOnAuthorized(func() {
			log.Println("location: authorization granted")
		}),
	)

	// 4. Persistence of the latest fix
	app.fixObserver = storage.NewFixObserver(store)
	location.AddObserver(app.Service, app.fixObserver)

	// 5. Outward surfaces
	app.Lifecycle = lifecycle.New(app.Service)
	app.WebServer = web.NewServer(app.Config.Addr, app.Service)
	location.AddObserver(app.Service, app.WebServer.WSManager)

	return nil
}

func (app *Application) initStorage() (*storage.SQLiteFixStore, error) {
	if err := os.MkdirAll(filepath.Dir(app.Config.DBPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create DB directory: %w", err)
	}

	store, err := storage.NewSQLiteFixStore(app.Config.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to init fix storage: %w", err)
	}
	return store, nil
}

// buildProvider assembles the simulator, seeding it with a persisted fix
// when one exists, otherwise with the configured starting point.
func (app *Application) buildProvider() *provider.Simulator {
	opts := []provider.SimOption{
		provider.WithUpdateInterval(app.Config.UpdateInterval),
		provider.WithGrantDelay(app.Config.GrantDelay),
	}
	if app.Config.DenyAll {
		opts = append(opts, provider.WithDenyAll())
	}

	start := domain.Coordinate{Latitude: app.Config.Latitude, Longitude: app.Config.Longitude}
	if coord, _, hasFix, err := app.FixStore.LoadFix(); err != nil {
		log.Printf("Warning: could not load persisted fix: %v", err)
	} else if hasFix {
		log.Printf("Restored last known fix %s", coord)
		opts = append(opts, provider.WithStartFix(coord))
		return provider.NewSimulator(opts...)
	}

	if app.Config.SeedFix {
		opts = append(opts, provider.WithStartFix(start))
	}
	return provider.NewSimulator(opts...)
}

// EnterBackground and EnterForeground feed the lifecycle adapter. They
// are the in-process equivalent of the host's scene phase callbacks.
func (app *Application) EnterBackground() {
	app.signals <- lifecycle.EnteredBackground
}

func (app *Application) EnterForeground() {
	app.signals <- lifecycle.EnteringForeground
}

// Run starts the web server, the lifecycle loop and continuous updates,
// then blocks until ctx is cancelled.
func (app *Application) Run(ctx context.Context) error {
	app.WebServer.Start()

	go app.Lifecycle.Run(ctx, app.signals)
	go app.watchHostSignals(ctx)

	// Kick off the permission flow and continuous updates.
	app.Service.StartUpdatingLocation()

	<-ctx.Done()

	app.Service.StopUpdatingLocation()
	return app.WebServer.Shutdown(context.Background())
}

// watchHostSignals maps SIGUSR1/SIGUSR2 to background/foreground so the
// lifecycle path can be exercised from a shell.
func (app *Application) watchHostSignals(ctx context.Context) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGUSR1, syscall.SIGUSR2)
	defer signal.Stop(ch)

	for {
		select {
		case <-ctx.Done():
			return
		case sig := <-ch:
			switch sig {
			case syscall.SIGUSR1:
				app.EnterBackground()
			case syscall.SIGUSR2:
				app.EnterForeground()
			}
		}
	}
}
