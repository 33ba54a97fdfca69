package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/fxquant/fxlib/api"
	"github.com/fxquant/fxlib/cache"
	"github.com/fxquant/fxlib/config"
	"github.com/fxquant/fxlib/curve"
	"github.com/fxquant/fxlib/marketdata"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	method, ok := curve.ParseMethod(cfg.DefaultMethod)
	if !ok {
		logger.Fatal("config", zap.String("default_method", cfg.DefaultMethod))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := marketdata.NewStore()
	curves, err := cache.New(cfg.CacheMaxCost, cfg.CacheTTL)
	if err != nil {
		logger.Fatal("cache", zap.Error(err))
	}

	if cfg.KafkaEnabled {
		cons := marketdata.NewConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaGroupID, store, logger)
		go func() {
			if err := cons.Run(ctx); err != nil && ctx.Err() == nil {
				logger.Error("consumer", zap.Error(err))
				cancel()
			}
		}()
	}

	s := api.NewServer(store, curves, logger, method)

	server := &http.Server{Addr: ":" + cfg.Port, Handler: s.R}
	go func() {
		logger.Info("http listening", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http", zap.Error(err))
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	cancel()
	ctxShut, cancelShut := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShut()
	_ = server.Shutdown(ctxShut)
	logger.Info("shutdown complete")
}
