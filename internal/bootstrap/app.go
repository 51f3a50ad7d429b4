// Package bootstrap assembles the standalone host, the minimap session and
// the save slot storage the binaries share.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/cloudwego/hertz/pkg/common/hlog"

	metricsinmem "minimap/internal/adapter/metrics/inmemory"
	gormrepo "minimap/internal/adapter/repo/gorm"
	"minimap/internal/adapter/repo/jsonfile"
	"minimap/internal/adapter/repo/memory"
	worldruntime "minimap/internal/adapter/world/runtime"
	"minimap/internal/app/command"
	"minimap/internal/app/minimap"
	"minimap/internal/app/ports"
	"minimap/internal/app/savegame"
)

type App struct {
	Host     *worldruntime.Host
	Session  *minimap.Session
	Metrics  *metricsinmem.Recorder
	Commands command.UseCase
	Saves    savegame.UseCase
	// Storage names the save slot backend: memory, file or postgres.
	Storage string

	closers []func() error
}

func New(ctx context.Context, cfg Config) (*App, error) {
	recorder := metricsinmem.NewRecorder()
	mmCfg := minimap.ParseParameters(cfg.Params)
	mmCfg.Metrics = recorder

	host := worldruntime.NewHost(cfg.Host)
	session := minimap.NewSession(mmCfg, host)
	session.Attach(host)

	a := &App{
		Host:     host,
		Session:  session,
		Metrics:  recorder,
		Commands: command.UseCase{Minimap: session, DefaultColor: mmCfg.Colors.Marker},
	}
	repo, err := a.openRepo(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.Saves = savegame.UseCase{Repo: repo, Hooks: []ports.SaveHook{session}}
	return a, nil
}

func (a *App) openRepo(ctx context.Context, cfg Config) (ports.SaveRepository, error) {
	switch {
	case cfg.DBDSN != "":
		db, err := gormrepo.OpenPostgres(cfg.DBDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		if cfg.Migrate {
			if err := gormrepo.ApplyMigrations(ctx, db); err != nil {
				return nil, fmt.Errorf("apply migrations: %w", err)
			}
		}
		if sqlDB, err := db.DB(); err == nil {
			a.closers = append(a.closers, sqlDB.Close)
		}
		a.Storage = "postgres"
		return gormrepo.NewSaveSlotRepo(db), nil
	case cfg.SaveFile != "":
		store, err := jsonfile.Open(cfg.SaveFile)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, store.Close)
		a.Storage = "file"
		return store, nil
	default:
		a.Storage = "memory"
		return memory.NewSaveRepo(memory.NewStore()), nil
	}
}

// Step advances the host one tick and redraws the minimap.
func (a *App) Step() minimap.Frame {
	a.Host.Tick()
	return a.Session.Update()
}

func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	if first != nil {
		hlog.Warnf("bootstrap: close: %v", first)
	}
	return first
}
