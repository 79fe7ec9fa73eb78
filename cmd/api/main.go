package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"recipe-recommender/internal/api"
	"recipe-recommender/internal/core/cache"
	"recipe-recommender/internal/core/dataset"
	"recipe-recommender/internal/core/queue"
	"recipe-recommender/internal/core/recipe"
	"recipe-recommender/internal/infrastructure/config"
	"recipe-recommender/internal/pkg/common"
)

func main() {
	// 載入 .env
	if err := config.LoadDotEnv(); err != nil {
		fmt.Printf("Warning: %v\n", err)
	}

	// 載入設定
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(common.LogOptions{Level: cfg.LogLevel, File: cfg.Log.File, Mode: cfg.Log.Mode}); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("dataset_source", cfg.Dataset.Source),
		zap.String("dataset_path", cfg.Dataset.Path),
		zap.Int("dataset_max_rows", cfg.Dataset.MaxRows),
		zap.String("cache_backend", cfg.Cache.Backend),
		zap.Bool("classifier_enabled", cfg.Classifier.Enabled),
	)

	// 載入語料庫，整個程序生命週期內共用
	src, err := dataset.Open(cfg.Dataset)
	if err != nil {
		common.LogFatal("Failed to open dataset", zap.Error(err))
	}
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 2*time.Minute)
	corpus, err := recipe.LoadCorpus(loadCtx, src)
	cancelLoad()
	if err != nil {
		common.LogFatal("Failed to load corpus", zap.Error(err))
	}
	if err := dataset.Close(src); err != nil {
		common.LogWarn("Failed to close dataset", zap.Error(err))
	}

	// 初始化快取
	store, err := cache.New(cfg.Cache)
	if err != nil {
		common.LogFatal("Failed to initialize cache", zap.Error(err))
	}
	if store != nil {
		defer store.Close()
	}

	// 初始化隊列
	q := queue.NewManager(cfg.Queue)
	defer q.Close()

	svc := recipe.NewRecommendService(corpus, store, q, recipe.NewClassifier(cfg.Classifier), recipe.OptionsFromConfig(cfg))

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      api.SetupRouter(cfg, svc, q, store),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo(common.MsgAppStarted,
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Int("port", cfg.Server.Port),
			zap.Int("recipes", corpus.Len()),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			common.LogFatal("Failed to start server", zap.Error(err))
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo(common.MsgShuttingDown)

	// 設置關閉超時
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
	}

	common.LogInfo(common.MsgServerExited)
}
