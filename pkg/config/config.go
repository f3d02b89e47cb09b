package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// DBConfig 数据库配置
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
	// MaxConns 一次排序请求会并发发出多条查询，池子不能太小
	MaxConns int32 `yaml:"max_conns"`
	MinConns int32 `yaml:"min_conns"`
	// SlowQueryMS 慢查询阈值（毫秒），0 使用默认值
	SlowQueryMS int `yaml:"slow_query_ms"`
}

// DSN builds a postgres:// URL; user and password are escaped.
func (c DBConfig) DSN() string {
	sslmode := c.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.Name,
		RawQuery: url.Values{"sslmode": {sslmode}}.Encode(),
	}
	return u.String()
}

func (c DBConfig) SlowQueryThreshold() time.Duration {
	return time.Duration(c.SlowQueryMS) * time.Millisecond
}

// MQConfig 消息队列配置
type MQConfig struct {
	URL      string `yaml:"url"`
	Exchange string `yaml:"exchange"`
}

// RedisConfig Redis配置，Addr 为空表示不启用
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// JWTConfig JWT配置
type JWTConfig struct {
	Secret string `yaml:"secret"`
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Port            string        `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// OTelConfig OpenTelemetry 配置
type OTelConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Endpoint    string `yaml:"endpoint"`
	ServiceName string `yaml:"service_name"`
	// SampleRatio 根 span 采样比例，(0,1]，0 使用默认值
	SampleRatio float64 `yaml:"sample_ratio"`
}

// envString / envInt / envBool 只在变量非空且能解析时覆盖
func envString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envBool(key string, dst *bool) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

// EnvInt is exported for app-level sections that follow the same override rules.
func EnvInt(key string, dst *int) { envInt(key, dst) }

// EnvString is the string counterpart of EnvInt.
func EnvString(key string, dst *string) { envString(key, dst) }

// OverrideDBFromEnv 从环境变量覆盖数据库配置
func OverrideDBFromEnv(cfg *DBConfig) {
	envString("DB_HOST", &cfg.Host)
	envInt("DB_PORT", &cfg.Port)
	envString("DB_USER", &cfg.User)
	envString("DB_PASSWORD", &cfg.Password)
	envString("DB_NAME", &cfg.Name)
	envString("DB_SSLMODE", &cfg.SSLMode)
}

// OverrideMQFromEnv 从环境变量覆盖MQ配置
func OverrideMQFromEnv(cfg *MQConfig) {
	envString("MQ_URL", &cfg.URL)
	envString("MQ_EXCHANGE", &cfg.Exchange)
}

// OverrideRedisFromEnv 从环境变量覆盖Redis配置
func OverrideRedisFromEnv(cfg *RedisConfig) {
	envString("REDIS_ADDR", &cfg.Addr)
	envString("REDIS_PASSWORD", &cfg.Password)
	envInt("REDIS_DB", &cfg.DB)
}

// OverrideJWTFromEnv 从环境变量覆盖JWT配置
func OverrideJWTFromEnv(cfg *JWTConfig) {
	envString("JWT_SECRET", &cfg.Secret)
}

func OverrideServerFromEnv(cfg *ServerConfig) {
	envString("SERVER_PORT", &cfg.Port)
}

func OverrideOTelFromEnv(cfg *OTelConfig) {
	envString("OTEL_ENDPOINT", &cfg.Endpoint)
	envBool("OTEL_ENABLED", &cfg.Enabled)
}
