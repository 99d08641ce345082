package config

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"

	"github.com/Astemirdum/lending-ledger/pkg/kafka"
	"github.com/Astemirdum/lending-ledger/pkg/logger"
	"github.com/Astemirdum/lending-ledger/pkg/postgres"
)

type HTTPServer struct {
	Host         string        `yaml:"host" envconfig:"LEDGER_HTTP_HOST" default:"0.0.0.0"`
	Port         string        `yaml:"port" envconfig:"LEDGER_HTTP_PORT" default:"8080"`
	ReadTimeout  time.Duration `yaml:"readTimeout" envconfig:"HTTP_READ" default:"10s"`
	WriteTimeout time.Duration
}

type UsersHTTPServer struct {
	Host string `envconfig:"USERS_HTTP_HOST" default:"localhost"`
	Port string `envconfig:"USERS_HTTP_PORT" default:"8081"`
}

// LendingPolicy is externally supplied, never hard-coded.
type LendingPolicy struct {
	LoanPeriodDays int `yaml:"loanPeriodDays" envconfig:"LOAN_PERIOD_DAYS" default:"30"`
	MaxActiveLoans int `yaml:"maxActiveLoans" envconfig:"MAX_ACTIVE_LOANS" default:"5"`
}

func (p LendingPolicy) LoanPeriod() time.Duration {
	return time.Duration(p.LoanPeriodDays) * 24 * time.Hour
}

type Config struct {
	Server   HTTPServer `yaml:"server"`
	Database postgres.Config
	Kafka    kafka.Config
	Users    UsersHTTPServer
	Policy   LendingPolicy
	Log      logger.Log `yaml:"log"`
}

var (
	once sync.Once
	cfg  Config
)

// NewConfig reads config from environment.
func NewConfig(ops ...Option) *Config {
	once.Do(func() {
		var config Config
		for _, op := range ops {
			op(&config)
		}
		err := envconfig.Process("", &config)
		if err != nil {
			log.Fatal("NewConfig ", err)
		}
		cfg = config
		printConfig(cfg)
	})

	return &cfg
}

type Option func(*Config)

func WithLogLevel(level zapcore.Level) Option {
	return func(c *Config) {
		c.Log.LogLevel = level
	}
}

func WithWriteTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.Server.WriteTimeout = timeout
	}
}

func printConfig(cfg Config) {
	jscfg, _ := json.MarshalIndent(cfg, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}
