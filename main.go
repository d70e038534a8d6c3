package main

import (
	"Vixtral/ai"
	"Vixtral/bot"
	"Vixtral/cache"
	"Vixtral/core"
	"Vixtral/holder"
	"Vixtral/lib/sl"
	"Vixtral/reddit"
	"Vixtral/storage"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {

	configPath := flag.String("conf", "config.yml", "path to config file")
	flag.Parse()

	conf := core.MustLoad(*configPath)
	log := core.SetupLogger(conf.Env, os.Stdout)
	log.With(
		slog.String("config", *configPath),
		slog.String("env", conf.Env),
		slog.String("provider", conf.Provider),
	).Info("starting vixtral bot")

	// Initialize storage based on config
	var store storage.HistoryStorage
	if conf.Mongo.Enabled {
		mongoURI := fmt.Sprintf("mongodb://%s:%s@%s:%s",
			conf.Mongo.User, conf.Mongo.Password,
			conf.Mongo.Host, conf.Mongo.Port)
		var err error
		store, err = storage.NewMongoStorage(mongoURI, conf.Mongo.Database, log)
		if err != nil {
			log.With(
				slog.String("db", conf.Mongo.Database),
				slog.String("user", conf.Mongo.User),
				slog.String("host", conf.Mongo.Host),
			).Error("falling back to memory", sl.Err(err))
			store = storage.NewMemoryStorage()
		} else {
			log.Info("using MongoDB storage")
		}
	} else {
		store = storage.NewMemoryStorage()
		log.Info("using in-memory storage")
	}

	var requestCache cache.Cache
	if conf.Redis.Enabled {
		redisCache, err := cache.NewRedis(conf.Redis.Addr, conf.Redis.Password, conf.Redis.DB)
		if err != nil {
			log.With(slog.String("addr", conf.Redis.Addr)).Error("falling back to memory cache", sl.Err(err))
			requestCache = cache.NewMemory()
		} else {
			requestCache = redisCache
			log.Info("using redis cache")
		}
	} else {
		requestCache = cache.NewMemory()
	}

	ctx := context.Background()
	var prompter core.PromptGenerator
	gemini, err := ai.NewGemini(ctx, conf, log)
	if err != nil {
		log.Warn("prompt generation disabled", sl.Err(err))
	} else {
		prompter = gemini
	}

	var editor core.ImageEditor = ai.NewDashScope(conf, log)
	if conf.Provider == "gemini" {
		if gemini == nil {
			log.Error("gemini provider needs GEMINI_API_KEY")
			os.Exit(1)
		}
		editor = gemini
	}

	feed := reddit.NewFeed(
		reddit.NewClient(conf.Reddit.Subreddit, conf.Reddit.Limit, conf.Reddit.UserAgent),
		requestCache,
		log,
	)
	history := holder.NewHistoryManager(store, log)
	studio := ai.NewStudio(editor, prompter, feed, history, log)

	tgBot, err := bot.NewTgBot(conf, log)
	if err != nil {
		log.Error("creating telegram", sl.Err(err))
		return
	}
	tgBot.SetStudio(studio)

	var watcher *reddit.Watcher
	if conf.Telegram.NotifyChatId != 0 {
		interval, err := time.ParseDuration(conf.Reddit.PollEvery)
		if err == nil && interval <= 0 {
			err = fmt.Errorf("interval must be positive")
		}
		if err != nil {
			log.With(slog.String("poll_every", conf.Reddit.PollEvery)).Error("bad poll interval", sl.Err(err))
			interval = 10 * time.Minute
		}
		watcher = reddit.NewWatcher(feed, interval, tgBot.NotifyRequests, log)
		watcher.Start()
	}

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := tgBot.Start(); err != nil {
			log.Error("bot stopped with error", sl.Err(err))
		}
	}()

	log.With(sl.Secret(conf.Telegram.ApiKey)).Info("bot started")

	sig := <-sigChan
	log.Info("received signal, shutting down", slog.String("signal", sig.String()))

	tgBot.Stop()
	if watcher != nil {
		watcher.Stop()
	}

	if err := requestCache.Close(); err != nil {
		log.Error("error closing cache", sl.Err(err))
	}
	if err := studio.Close(); err != nil {
		log.Error("error closing studio", sl.Err(err))
	}

	log.Info("shutdown complete")
}
