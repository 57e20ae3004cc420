package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"go.mongodb.org/mongo-driver/mongo"

	"blogme/api/router"
	"blogme/api/ws"
	"blogme/config"
	"blogme/db"
	"blogme/engagement"
	"blogme/feed"
	"blogme/identity"
	"blogme/kvcache"
	"blogme/logger"
	"blogme/store"
)

func main() {
	memory := flag.Bool("memory", false, "run against the in-memory store instead of MongoDB")
	flag.Parse()

	config.InitApp()
	cfg := config.GetConfig()
	logger.Init(cfg.Logging.Level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var st store.Store
	var mongoDB *mongo.Database
	if *memory {
		st = store.NewMemory()
		logger.Log.Warn("running on the in-memory store, nothing will be persisted")
	} else {
		if err := db.Init(ctx); err != nil {
			logger.Log.Errorf("mongodb init failed: %v", err)
			return
		}
		mongoDB = db.Database()
		st = store.NewMongo(mongoDB)
	}

	cache, err := kvcache.Open(cfg.Engagement.ViewCachePath)
	if err != nil {
		logger.Log.Errorf("view cache open failed: %v", err)
		return
	}
	defer cache.Close()

	sync := feed.NewSync(st, cfg.Feed.PageSize)
	if err := sync.Start(ctx); err != nil {
		logger.Log.Errorf("feed subscription failed: %v", err)
		return
	}
	defer sync.Close()

	engine := engagement.NewEngine(
		st,
		identity.ContextProvider{},
		sync,
		cache,
		time.Duration(cfg.Engagement.ViewWindowMinutes)*time.Minute,
	)

	hub := ws.NewHub()
	unsubscribe := sync.OnUpdate(hub.BroadcastSnapshot)
	defer unsubscribe()

	r := router.New(router.Deps{
		Sync:      sync,
		Engine:    engine,
		Hub:       hub,
		JWTSecret: config.JWTSecret(),
		MongoDB:   mongoDB,
	})

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: cors.Default().Handler(r),
	}

	go func() {
		logger.Log.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Errorf("server error: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorf("shutdown: %v", err)
	}
}
