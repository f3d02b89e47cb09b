package config

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"focusboard/pkg/circuitbreaker"
	pkgconfig "focusboard/pkg/config"
)

// PriorityConfig 排序相关配置
type PriorityConfig struct {
	DefaultLimit        int    `yaml:"default_limit"`
	MaxLimit            int    `yaml:"max_limit"`
	MaxCandidateAgeDays int    `yaml:"max_candidate_age_days"`
	ForwardWindowDays   int    `yaml:"forward_window_days"`
	FetchLimit          int    `yaml:"fetch_limit"`
	Timezone            string `yaml:"timezone"`
	// Breaker 每个数据源一个熔断器，共用同一配置
	Breaker circuitbreaker.Config `yaml:"breaker"`
}

// DigestConfig 每日摘要 worker 配置
type DigestConfig struct {
	Queue      string `yaml:"queue"`
	MaxRetries int    `yaml:"max_retries"`
	Prefetch   int    `yaml:"prefetch"`
}

type Config struct {
	LogLevel string                 `yaml:"log_level"`
	DB       pkgconfig.DBConfig     `yaml:"db"`
	Redis    pkgconfig.RedisConfig  `yaml:"redis"`
	MQ       pkgconfig.MQConfig     `yaml:"mq"`
	JWT      pkgconfig.JWTConfig    `yaml:"jwt"`
	Server   pkgconfig.ServerConfig `yaml:"server"`
	OTel     pkgconfig.OTelConfig   `yaml:"otel"`
	Priority PriorityConfig         `yaml:"priority"`
	Digest   DigestConfig           `yaml:"digest"`
}

// Load 读取 CONFIG_ENV / CONFIG_DIR 指定的配置
func Load() (*Config, error) {
	return LoadFrom(pkgconfig.GetConfigEnv(), pkgconfig.GetEnv("CONFIG_DIR", "config"))
}

// LoadFrom 合并 base.yaml、<env>.yaml、secrets.env，再用环境变量覆盖
func LoadFrom(env, dir string) (*Config, error) {
	merged, err := pkgconfig.LoadConfig(env, dir)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := pkgconfig.Decode(merged, &cfg); err != nil {
		return nil, err
	}

	// 环境变量覆盖（生产环境使用）
	pkgconfig.OverrideDBFromEnv(&cfg.DB)
	pkgconfig.OverrideRedisFromEnv(&cfg.Redis)
	pkgconfig.OverrideMQFromEnv(&cfg.MQ)
	pkgconfig.OverrideJWTFromEnv(&cfg.JWT)
	pkgconfig.OverrideServerFromEnv(&cfg.Server)
	pkgconfig.OverrideOTelFromEnv(&cfg.OTel)
	overridePriorityFromEnv(&cfg.Priority)
	pkgconfig.EnvString("LOG_LEVEL", &cfg.LogLevel)

	cfg.applyDefaults()
	if _, err := cfg.Priority.Location(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func overridePriorityFromEnv(cfg *PriorityConfig) {
	pkgconfig.EnvInt("PRIORITY_DEFAULT_LIMIT", &cfg.DefaultLimit)
	pkgconfig.EnvInt("PRIORITY_MAX_LIMIT", &cfg.MaxLimit)
	pkgconfig.EnvString("PRIORITY_TIMEZONE", &cfg.Timezone)
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Server.ReadTimeout <= 0 {
		c.Server.ReadTimeout = 5 * time.Second
	}
	if c.Server.WriteTimeout <= 0 {
		c.Server.WriteTimeout = 10 * time.Second
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.MQ.Exchange == "" {
		c.MQ.Exchange = "focusboard.events"
	}
	if c.DB.MaxConns <= 0 {
		c.DB.MaxConns = 20
	}
	if c.DB.MinConns <= 0 || c.DB.MinConns > c.DB.MaxConns {
		c.DB.MinConns = min(5, c.DB.MaxConns)
	}
	if c.OTel.ServiceName == "" {
		c.OTel.ServiceName = "focusboard"
	}

	p := &c.Priority
	if p.DefaultLimit <= 0 {
		p.DefaultLimit = 3
	}
	if p.MaxLimit <= 0 {
		p.MaxLimit = 20
	}
	if p.DefaultLimit > p.MaxLimit {
		p.DefaultLimit = p.MaxLimit
	}
	if p.MaxCandidateAgeDays <= 0 {
		p.MaxCandidateAgeDays = 14
	}
	if p.ForwardWindowDays <= 0 {
		p.ForwardWindowDays = 7
	}
	if p.FetchLimit <= 0 {
		p.FetchLimit = 100
	}
	if p.Timezone == "" {
		p.Timezone = "UTC"
	}

	if c.Digest.Queue == "" {
		c.Digest.Queue = "priority.digest.q"
	}
	if c.Digest.MaxRetries <= 0 {
		c.Digest.MaxRetries = 5
	}
	if c.Digest.Prefetch <= 0 {
		c.Digest.Prefetch = 4
	}
}

// Location 用户所在时区，决定 time/day context 与“今天”的边界
func (p PriorityConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid priority.timezone %q: %w", p.Timezone, err)
	}
	return loc, nil
}

func (p PriorityConfig) MaxCandidateAge() time.Duration {
	return time.Duration(p.MaxCandidateAgeDays) * 24 * time.Hour
}

func (p PriorityConfig) ForwardWindow() time.Duration {
	return time.Duration(p.ForwardWindowDays) * 24 * time.Hour
}
