package cli

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/matzehuels/snapshare/pkg/cache"
	"github.com/matzehuels/snapshare/pkg/config"
	"github.com/matzehuels/snapshare/pkg/conversion"
	"github.com/matzehuels/snapshare/pkg/event"
	"github.com/matzehuels/snapshare/pkg/flipbook"
	"github.com/matzehuels/snapshare/pkg/lock"
	"github.com/matzehuels/snapshare/pkg/session"
	"github.com/matzehuels/snapshare/pkg/storage"
	"github.com/matzehuels/snapshare/pkg/storage/local"
	"github.com/matzehuels/snapshare/pkg/storage/memory"
	"github.com/matzehuels/snapshare/pkg/storage/mongo"
)

// app bundles the backends selected by the configuration.
type app struct {
	events   event.Events
	photos   event.Photos
	sessions session.Store
	blobs    storage.BlobStore
	cache    cache.Cache
	keyer    cache.Keyer
	locker   lock.Locker
	runner   *flipbook.Runner

	closers []func(context.Context) error
}

// openApp connects to every backend named in cfg. Records live in MongoDB
// for the mongo backend and in process memory for the local one; Redis,
// when enabled, backs the shared cache and the build lock.
func openApp(ctx context.Context, cfg *config.Config, logger *log.Logger) (*app, error) {
	a := &app{keyer: cache.NewDefaultKeyer()}

	switch cfg.Storage.Backend {
	case config.BackendMongo:
		client, err := mongo.Connect(ctx, cfg.Mongo.URI)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Disconnect)
		if err := a.useMongo(ctx, client, cfg); err != nil {
			a.Close(ctx)
			return nil, err
		}
		logger.Info("using mongo storage", "database", cfg.Mongo.Database)
	default:
		blobs, err := local.New(cfg.Storage.LocalDir, cfg.Server.PublicURL)
		if err != nil {
			return nil, err
		}
		a.events = memory.NewEvents()
		a.photos = memory.NewPhotos()
		a.sessions = session.NewMemoryStore()
		a.blobs = blobs
		logger.Info("using local storage", "dir", blobs.Root())
	}

	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			a.Close(ctx)
			return nil, err
		}
		a.cache = cache.NewRedisCache(client)
		a.keyer = cache.NewScopedKeyer(a.keyer, appName+":")
		a.locker = lock.NewRedis(client, appName+":lock:")
		a.closers = append(a.closers, func(context.Context) error { return a.cache.Close() })
		logger.Info("using redis", "addr", cfg.Redis.Addr)
	} else {
		a.cache = cache.NewMemoryCache()
		a.locker = lock.NewMemory()
	}

	a.runner = flipbook.NewRunner(flipbook.Deps{
		Events:    a.events,
		Photos:    a.photos,
		Source:    a.blobs,
		Store:     a.blobs,
		Converter: conversion.New(cfg.Conversion.Client()),
		Locker:    a.locker,
		Render: flipbook.RenderOptions{
			Qualities: cfg.Render.Qualities(),
			MaxPixels: cfg.Render.MaxImagePixels,
			Cache:     a.cache,
			Keyer:     a.keyer,
		},
		Logger: logger,
	})
	return a, nil
}

func (a *app) useMongo(ctx context.Context, client *mongodriver.Client, cfg *config.Config) error {
	db := client.Database(cfg.Mongo.Database)
	if err := mongo.EnsureIndexes(ctx, db); err != nil {
		return err
	}
	blobs, err := mongo.NewBlobs(db, cfg.Server.PublicURL)
	if err != nil {
		return err
	}
	a.events = mongo.NewEvents(db)
	a.photos = mongo.NewPhotos(db)
	a.sessions = mongo.NewSessions(db)
	a.blobs = blobs
	return nil
}

// Close releases backend connections in reverse order of opening.
func (a *app) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i](ctx))
	}
	a.closers = nil
	return errors.Join(errs...)
}
