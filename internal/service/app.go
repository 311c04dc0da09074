package service

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"wisefido-motion/internal/config"
	"wisefido-motion/internal/consumer"
	"wisefido-motion/internal/mqtt"
	"wisefido-motion/internal/notify"
	"wisefido-motion/internal/observability"
	rediscommon "wisefido-motion/internal/redis"
	"wisefido-motion/internal/rehab"
	"wisefido-motion/internal/repository"
	"wisefido-motion/internal/sink"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// 外部模型服务中的模型名
const (
	ModelLimbRSI          = "rehab_rsi"
	ModelSleepQuality     = "sleep_quality"
	ModelStressRegulation = "stress_regulation"
)

// App 运动风险服务（整合各层）
type App struct {
	config      *config.Config
	db          *sql.DB
	redisClient *redis.Client
	mqttClient  *mqtt.Client
	logger      *zap.Logger

	Motion    *MotionService
	Documents *repository.DocumentRepository

	asyncSink      *sink.Async
	streamConsumer streamRunner
	assessInterval time.Duration

	// workers 跟踪消费和周期评估，Stop 先等它们退出再关闭输出
	mu       sync.Mutex
	stopping bool
	workers  sync.WaitGroup
}

// streamRunner 入口流消费循环，ctx 取消时返回
type streamRunner interface {
	Start(ctx context.Context) error
}

// NewApp 连接外部依赖并组装服务
func NewApp(cfg *config.Config, logger *zap.Logger) (*App, error) {
	observability.Init()
	app := &App{config: cfg, logger: logger}

	// 1. 连接 Redis（入口流必需）
	app.redisClient = rediscommon.NewRedisClient(&cfg.Redis)
	if err := rediscommon.Ping(context.Background(), app.redisClient); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	// 2. 数据库（文档输出和用户画像）
	var sinks sink.Multi
	var profiles ProfileSource
	if cfg.Motion.Sink.Postgres {
		db, err := repository.NewPostgresDB(context.Background(), &cfg.Database)
		if err != nil {
			app.closeClients()
			return nil, err
		}
		app.db = db
		if err := repository.EnsureSchema(context.Background(), db); err != nil {
			app.closeClients()
			return nil, err
		}
		app.Documents = repository.NewDocumentRepository(db, logger)
		profiles = repository.NewProfileRepository(db, logger)
		sinks = append(sinks, sink.NewPostgres(app.Documents))
	}
	if cfg.Motion.Sink.RedisStream {
		sinks = append(sinks, sink.NewStream(app.redisClient, cfg.Motion.Sink.StreamPrefix))
	}
	app.asyncSink = sink.NewAsync(sinks, 1024, logger)

	// 3. MQTT（可选）
	var publisher notify.Publisher
	if cfg.MQTT.Broker != "" {
		client, err := mqtt.NewClient(&cfg.MQTT, logger)
		if err != nil {
			logger.Warn("MQTT unavailable, caregiver alerts will not be published", zap.Error(err))
		} else {
			app.mqttClient = client
			publisher = client
		}
	}

	// 4. 核心组件
	c := NewComponents(cfg.Motion.BaselineDays, app.asyncSink, logger)
	c.Profiles = profiles
	c.Alerts = consumer.NewAlertCache(cfg, app.redisClient, logger)
	c.Publisher = notify.NewAlertPublisher(publisher, cfg.Notify.AlertTopic, cfg.MQTT.QoS, logger)
	c.Notifier = notify.NewSMSNotifier(notify.SMSConfig{
		Endpoint: cfg.Notify.SMSEndpoint,
		Token:    cfg.Notify.SMSToken,
		From:     cfg.Notify.SMSFrom,
		To:       cfg.Notify.SMSTo,
	}, cfg.Notify.FallRiskThreshold, logger)

	if cfg.Rehab.ModelEndpoint != "" {
		modelClient := rehab.NewModelClient(cfg.Rehab.ModelEndpoint, time.Duration(cfg.Rehab.Timeout)*time.Second, logger)
		c.Limb = rehab.NewLimbAssessor(modelClient.Regressor(ModelLimbRSI), logger)
		c.Alcohol = rehab.NewAlcoholAssessor(
			modelClient.Classifier(ModelSleepQuality),
			modelClient.Classifier(ModelStressRegulation),
			logger,
		)
	}

	app.Motion = NewMotionService(c, logger)
	app.streamConsumer = consumer.NewStreamConsumer(cfg, app.redisClient, app.Motion, logger)
	app.assessInterval = time.Duration(cfg.Motion.AssessInterval) * time.Second

	return app, nil
}

// Start 启动消费和周期评估，阻塞到 ctx 取消或消费出错
// Stop 之后调用直接返回
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	if a.stopping {
		a.mu.Unlock()
		return nil
	}
	a.workers.Add(2)
	a.mu.Unlock()

	a.logger.Info("Starting motion service",
		zap.String("event_stream", a.config.Motion.EventStream),
		zap.Duration("assess_interval", a.assessInterval),
	)

	go func() {
		defer a.workers.Done()
		a.Motion.Run(ctx, a.assessInterval)
	}()

	defer a.workers.Done()
	if err := a.streamConsumer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start stream consumer: %w", err)
	}
	return nil
}

// Stop 在 Start 的 ctx 取消后调用：等消费和评估退出、后台通知完成、输出写完，再关闭连接
func (a *App) Stop() error {
	a.logger.Info("Stopping motion service")

	a.mu.Lock()
	a.stopping = true
	a.mu.Unlock()

	a.workers.Wait()
	a.Motion.Wait()
	a.asyncSink.Close()
	a.closeClients()
	return nil
}

func (a *App) closeClients() {
	if a.mqttClient != nil {
		a.mqttClient.Disconnect()
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error("Failed to close database", zap.Error(err))
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Error("Failed to close redis", zap.Error(err))
		}
	}
}
