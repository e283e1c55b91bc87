package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexbobes/slack-binance-trading-bot/internal/broadcast"
	"github.com/alexbobes/slack-binance-trading-bot/internal/command"
	"github.com/alexbobes/slack-binance-trading-bot/internal/config"
	"github.com/alexbobes/slack-binance-trading-bot/internal/exchange"
	"github.com/alexbobes/slack-binance-trading-bot/internal/notify"
	"github.com/alexbobes/slack-binance-trading-bot/internal/orderstore"
	"github.com/alexbobes/slack-binance-trading-bot/internal/server"
	"github.com/alexbobes/slack-binance-trading-bot/internal/stream"
	"github.com/alexbobes/slack-binance-trading-bot/pkg/logger"
	"github.com/alexbobes/slack-binance-trading-bot/pkg/syncgroup"
)

func main() {
	configPath := flag.String("config", "", "optional YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := logger.Init(cfg.LoggerConfig()); err != nil {
		log.Fatalf("init logger: %v", err)
	}

	gateway := exchange.NewClient(cfg.BinanceBaseURL, cfg.BinanceAPIKey, cfg.BinanceAPISecret)
	slack := notify.NewSlack(cfg.SlackBaseURL, cfg.SlackBotToken, cfg.SlackChannel)
	store := orderstore.New()
	dispatcher := command.NewDispatcher(gateway, slack)

	streamCfg := stream.DefaultConfig()
	streamCfg.URL = cfg.StreamURL
	listener := stream.NewListener(gateway, store, cfg.BinanceAPIKey, cfg.BinanceAPISecret, streamCfg)

	broadcaster := broadcast.New(gateway, slack, cfg.TrackedSymbols, cfg.BroadcastInterval())

	srv := server.New(gateway, store, dispatcher, slack, cfg.TrackedSymbols)
	httpSrv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := slack.Notify(ctx, "Bot has started"); err != nil {
		logger.Warnf("startup notification failed: %v", err)
	}

	group := syncgroup.New()
	group.Go(func() {
		logger.Infof("listening on %s", cfg.ListenAddr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorf("http server: %v", err)
		}
	})
	group.Go(func() {
		if err := listener.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Errorf("stream listener: %v", err)
		}
	})
	group.Go(func() {
		if err := broadcaster.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Errorf("price broadcaster: %v", err)
		}
	})

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	<-stopCh

	logger.Infof("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = httpSrv.Shutdown(shutdownCtx)

	group.Wait()
	logger.Infof("stopped")
}
