package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
	MaxConns int    `yaml:"max_conns"`
	MaxIdle  int    `yaml:"max_idle"`
}

// GetDSN 获取数据库连接字符串
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// RedisConfig Redis配置
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// MQTTConfig MQTT配置（Broker 为空时不发布）
type MQTTConfig struct {
	Broker   string `yaml:"broker"`
	ClientID string `yaml:"client_id"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	QoS      byte   `yaml:"qos"`
}

// Config 运动风险服务配置
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	MQTT     MQTTConfig     `yaml:"mqtt"`

	Motion struct {
		EventStream   string `yaml:"event_stream"`   // 输入事件流，如 "motion:events"
		ConsumerGroup string `yaml:"consumer_group"` // 消费者组
		ConsumerName  string `yaml:"consumer_name"`  // 消费者名称
		BatchSize     int64  `yaml:"batch_size"`     // 每次读取条数

		AssessInterval int `yaml:"assess_interval"` // 周期评估间隔（秒），默认 60
		BaselineDays   int `yaml:"baseline_days"`   // 基线窗口天数，默认 7

		Cache struct {
			AlertKeyPrefix string `yaml:"alert_key_prefix"` // 最新告警缓存键前缀，如 "motion:alert:"
			AlertTTL       int    `yaml:"alert_ttl"`        // 告警缓存 TTL（秒）
		} `yaml:"cache"`

		Sink struct {
			Postgres     bool   `yaml:"postgres"`      // 写入 motion_documents
			RedisStream  bool   `yaml:"redis_stream"`  // 写入 Redis Stream
			StreamPrefix string `yaml:"stream_prefix"` // 如 "motion:sink:"
		} `yaml:"sink"`
	} `yaml:"motion"`

	Notify struct {
		SMSEndpoint       string  `yaml:"sms_endpoint"` // 为空时跳过短信
		SMSToken          string  `yaml:"sms_token"`
		SMSFrom           string  `yaml:"sms_from"`
		SMSTo             string  `yaml:"sms_to"`
		FallRiskThreshold float64 `yaml:"fall_risk_threshold"` // 跌倒风险超过该值时发送短信
		AlertTopic        string  `yaml:"alert_topic"`         // 照护告警 MQTT 主题模板
	} `yaml:"notify"`

	Rehab struct {
		ModelEndpoint string `yaml:"model_endpoint"` // 模型推理服务地址，为空时关闭康复评估
		Timeout       int    `yaml:"timeout"`        // 秒
	} `yaml:"rehab"`

	HTTP struct {
		Addr string `yaml:"addr"`
	} `yaml:"http"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// Load 加载配置：默认值 -> CONFIG_FILE（YAML）-> 环境变量
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 检查取值范围
func (c *Config) Validate() error {
	if c.Motion.BaselineDays <= 0 {
		return fmt.Errorf("baseline_days must be positive, got %d", c.Motion.BaselineDays)
	}
	if c.Motion.AssessInterval <= 0 {
		return fmt.Errorf("assess_interval must be positive, got %d", c.Motion.AssessInterval)
	}
	if c.Motion.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be positive, got %d", c.Motion.BatchSize)
	}
	if c.Notify.FallRiskThreshold < 0 || c.Notify.FallRiskThreshold > 100 {
		return fmt.Errorf("fall_risk_threshold must be within [0, 100], got %v", c.Notify.FallRiskThreshold)
	}
	return nil
}

func defaults() *Config {
	cfg := &Config{}

	cfg.Database.Host = "localhost"
	cfg.Database.Port = 5432
	cfg.Database.User = "postgres"
	cfg.Database.Password = "postgres"
	cfg.Database.Database = "owlrd"
	cfg.Database.SSLMode = "disable"

	cfg.Redis.Addr = "localhost:6379"

	cfg.MQTT.ClientID = "wisefido-motion"
	cfg.MQTT.QoS = 1

	cfg.Motion.EventStream = "motion:events"
	cfg.Motion.ConsumerGroup = "motion-engine"
	cfg.Motion.ConsumerName = "motion-engine-1"
	cfg.Motion.BatchSize = 10
	cfg.Motion.AssessInterval = 60
	cfg.Motion.BaselineDays = 7
	cfg.Motion.Cache.AlertKeyPrefix = "motion:alert:"
	cfg.Motion.Cache.AlertTTL = 86400 // 1天
	cfg.Motion.Sink.Postgres = true
	cfg.Motion.Sink.RedisStream = true
	cfg.Motion.Sink.StreamPrefix = "motion:sink:"

	cfg.Notify.FallRiskThreshold = 70
	cfg.Notify.AlertTopic = "motion/%s/alert"

	cfg.Rehab.Timeout = 10

	cfg.HTTP.Addr = ":8090"

	cfg.Log.Level = "info"
	cfg.Log.Format = "json"

	return cfg
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Database.Host = getEnv("DB_HOST", cfg.Database.Host)
	cfg.Database.Port = getEnvInt("DB_PORT", cfg.Database.Port)
	cfg.Database.User = getEnv("DB_USER", cfg.Database.User)
	cfg.Database.Password = getEnv("DB_PASSWORD", cfg.Database.Password)
	cfg.Database.Database = getEnv("DB_NAME", cfg.Database.Database)
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", cfg.Database.SSLMode)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getEnvInt("REDIS_DB", cfg.Redis.DB)

	cfg.MQTT.Broker = getEnv("MQTT_BROKER", cfg.MQTT.Broker)
	cfg.MQTT.ClientID = getEnv("MQTT_CLIENT_ID", cfg.MQTT.ClientID)
	cfg.MQTT.Username = getEnv("MQTT_USERNAME", cfg.MQTT.Username)
	cfg.MQTT.Password = getEnv("MQTT_PASSWORD", cfg.MQTT.Password)

	cfg.Motion.EventStream = getEnv("MOTION_EVENT_STREAM", cfg.Motion.EventStream)
	cfg.Motion.ConsumerGroup = getEnv("MOTION_CONSUMER_GROUP", cfg.Motion.ConsumerGroup)
	cfg.Motion.ConsumerName = getEnv("MOTION_CONSUMER_NAME", cfg.Motion.ConsumerName)
	cfg.Motion.AssessInterval = getEnvInt("MOTION_ASSESS_INTERVAL", cfg.Motion.AssessInterval)
	cfg.Motion.BaselineDays = getEnvInt("MOTION_BASELINE_DAYS", cfg.Motion.BaselineDays)
	cfg.Motion.Cache.AlertTTL = getEnvInt("MOTION_ALERT_TTL", cfg.Motion.Cache.AlertTTL)
	cfg.Motion.Sink.Postgres = getEnvBool("MOTION_SINK_POSTGRES", cfg.Motion.Sink.Postgres)
	cfg.Motion.Sink.RedisStream = getEnvBool("MOTION_SINK_REDIS", cfg.Motion.Sink.RedisStream)

	cfg.Notify.SMSEndpoint = getEnv("SMS_ENDPOINT", cfg.Notify.SMSEndpoint)
	cfg.Notify.SMSToken = getEnv("SMS_TOKEN", cfg.Notify.SMSToken)
	cfg.Notify.SMSFrom = getEnv("SMS_FROM", cfg.Notify.SMSFrom)
	cfg.Notify.SMSTo = getEnv("SMS_TO", cfg.Notify.SMSTo)
	cfg.Notify.FallRiskThreshold = getEnvFloat("FALL_RISK_THRESHOLD", cfg.Notify.FallRiskThreshold)

	cfg.Rehab.ModelEndpoint = getEnv("REHAB_MODEL_ENDPOINT", cfg.Rehab.ModelEndpoint)

	cfg.HTTP.Addr = getEnv("HTTP_ADDR", cfg.HTTP.Addr)

	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// 解析失败时保留原值
func getEnvInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}
