package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wisefido-motion/internal/config"
	httpapi "wisefido-motion/internal/http"
	"wisefido-motion/internal/logger"
	"wisefido-motion/internal/service"

	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. 初始化日志
	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "wisefido-motion")
	if err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer log.Sync()

	// 3. 创建服务
	app, err := service.NewApp(cfg, log)
	if err != nil {
		log.Fatal("Failed to create motion service", zap.Error(err))
	}

	// 4. HTTP API（未启用 Postgres 时不提供文档查询）
	var docs httpapi.DocumentLister
	if app.Documents != nil {
		docs = app.Documents
	}
	handler := httpapi.NewMotionHandler(app.Motion, docs, log)
	srv := service.NewServer(cfg.HTTP.Addr, httpapi.NewRouter(handler, log), log)

	// 5. 创建上下文（支持优雅关闭）
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 6. 启动消费、周期评估和 HTTP
	errCh := make(chan error, 2)
	go func() {
		if err := app.Start(ctx); err != nil {
			errCh <- err
		}
	}()
	go func() {
		if err := srv.Start(); err != nil {
			errCh <- err
		}
	}()

	// 7. 等待信号（优雅关闭）
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Info("Received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("Service error", zap.Error(err))
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		log.Error("Failed to stop HTTP server", zap.Error(err))
	}
	// HTTP 停止后再等消费、评估和输出写完
	if err := app.Stop(); err != nil {
		log.Error("Failed to stop motion service", zap.Error(err))
	}

	log.Info("Motion service stopped")
}
