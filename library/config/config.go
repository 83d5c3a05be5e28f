package config

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"

	"github.com/Astemirdum/college-library/pkg/kafka"
	"github.com/Astemirdum/college-library/pkg/logger"
	"github.com/Astemirdum/college-library/pkg/postgres"
)

type HTTPServer struct {
	Host         string        `yaml:"host" envconfig:"LIBRARY_HTTP_HOST" default:"0.0.0.0"`
	Port         string        `yaml:"port" envconfig:"LIBRARY_HTTP_PORT" default:"8080"`
	ReadTimeout  time.Duration `yaml:"readTimeout" envconfig:"HTTP_READ" default:"15s"`
	WriteTimeout time.Duration `yaml:"writeTimeout" envconfig:"HTTP_WRITE" default:"15s"`
}

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Storage struct {
	// postgres or memory
	Driver string `yaml:"driver" envconfig:"STORAGE_DRIVER" default:"postgres"`
}

type Redis struct {
	Addr     string `yaml:"addr" envconfig:"REDIS_ADDR"`
	Password string `yaml:"password" envconfig:"REDIS_PASSWORD" json:"-"`
	DB       int    `yaml:"db" envconfig:"REDIS_DB"`
}

func (r Redis) Enabled() bool {
	return r.Addr != ""
}

type Notify struct {
	Topic    string `yaml:"topic" envconfig:"NOTIFY_TOPIC" default:"library.notifications"`
	RemindAt string `yaml:"remindAt" envconfig:"NOTIFY_REMIND_AT" default:"09:00"`
	TimeZone string `yaml:"timeZone" envconfig:"NOTIFY_TIMEZONE" default:"UTC"`
	// run the mail dispatcher in this process
	Consume bool `yaml:"consume" envconfig:"NOTIFY_CONSUME" default:"true"`
}

func (n Notify) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(n.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("notify time zone %q: %w", n.TimeZone, err)
	}
	return loc, nil
}

type Config struct {
	Server   HTTPServer   `yaml:"server"`
	Database postgres.DB  `yaml:"db"`
	Storage  Storage      `yaml:"storage"`
	Kafka    kafka.Config `yaml:"kafka"`
	Redis    Redis        `yaml:"redis"`
	Notify   Notify       `yaml:"notify"`
	Log      logger.Log   `yaml:"log"`
}

var (
	once sync.Once
	cfg  *Config
)

// NewConfig reads config from environment. Options are applied afterwards
// and win over the environment.
func NewConfig(ops ...Option) *Config {
	once.Do(func() {
		var config Config
		err := envconfig.Process("", &config)
		if err != nil {
			log.Fatal("NewConfig ", err)
		}
		for _, op := range ops {
			op(&config)
		}
		cfg = &config
		if cfg.Log.LogLevel == zapcore.DebugLevel {
			printConfig(cfg)
		}
	})

	return cfg
}

func printConfig(cfg *Config) {
	redacted := *cfg
	redacted.Database.Password = ""
	jscfg, _ := json.MarshalIndent(redacted, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}
