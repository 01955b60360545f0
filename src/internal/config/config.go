package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const defaultConfigPath = "src/internal/config/cfg.yml"

type Configuration struct {
	Logs     LogsSettings     `mapstructure:"logs"`
	App      Application      `mapstructure:"app"`
	Database Database         `mapstructure:"database"`
	Queue    QueueConfig      `mapstructure:"queue"`
	Redis    Redis            `mapstructure:"redis"`
	Security SecuritySettings `mapstructure:"security"`
	Server   ServerSettings   `mapstructure:"server"`
	Cache    CacheConfig      `mapstructure:"cache"`
	Seed     SeedSettings     `mapstructure:"seed"`
}

type LogsSettings struct {
	Level            string `mapstructure:"level"`
	Path             string `mapstructure:"log-path"`
	EnableJSONOutput bool   `mapstructure:"enable-json-output"`
}

type Application struct {
	Name     string `mapstructure:"name"`
	Timeout  int    `mapstructure:"timeout"`
	Version  string `mapstructure:"version"`
	Timezone string `mapstructure:"timezone"`
}

type Database struct {
	Url         string      `mapstructure:"url"`
	DbName      string      `mapstructure:"dbname"`
	Timeout     int         `mapstructure:"timeout"`
	Collections Collections `mapstructure:"collections"`
}

type Collections struct {
	Admins     string `mapstructure:"admins"`
	Users      string `mapstructure:"users"`
	Activities string `mapstructure:"activities"`
	Sessions   string `mapstructure:"sessions"`
}

type QueueConfig struct {
	RabbitMQ RabbitMQConfig `mapstructure:"rabbitmq"`
}

type RabbitMQConfig struct {
	Url          string `mapstructure:"url"`
	Exchange     string `mapstructure:"exchange"`
	ExchangeType string `mapstructure:"exchange-type"`
	RoutingKey   string `mapstructure:"routing-key"`
	Durable      bool   `mapstructure:"durable"`
	AutoDelete   bool   `mapstructure:"auto-delete"`
	Internal     bool   `mapstructure:"internal"`
	NoWait       bool   `mapstructure:"no-wait"`
}

type Redis struct {
	Url      string `mapstructure:"url"`
	Password string `mapstructure:"password"`
	Db       int    `mapstructure:"db"`
}

type SecuritySettings struct {
	JwtKey        string `mapstructure:"jwt-key"`
	CookieName    string `mapstructure:"cookie-name"`
	SecureCookie  bool   `mapstructure:"secure-cookie"`
	ProtectAPI    bool   `mapstructure:"protect-api"`
	BcryptCost    int    `mapstructure:"bcrypt-cost"`
	MinPasswordLn int    `mapstructure:"min-password-length"`
}

type ServerSettings struct {
	Port         string `mapstructure:"port"`
	Mode         string `mapstructure:"mode"`
	ReadTimeout  int    `mapstructure:"read-timeout"`
	WriteTimeout int    `mapstructure:"write-timeout"`
	IdleTimeout  int    `mapstructure:"idle-timeout"`
}

type CacheConfig struct {
	SessionExpirationMinutes int    `mapstructure:"session-expiration-minutes"`
	StatsKey                 string `mapstructure:"stats-key"`
	StatsExpirationMinutes   int    `mapstructure:"stats-expiration-minutes"`
}

// SeedSettings describes the administrator created when the admin collection is empty.
type SeedSettings struct {
	AdminName     string `mapstructure:"admin-name"`
	AdminEmail    string `mapstructure:"admin-email"`
	AdminPassword string `mapstructure:"admin-password"`
}

func Load() *Configuration {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, relying on environment variables")
	}

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = defaultConfigPath
	}

	cfg := read(path)
	applyDefaults(cfg)
	applyEnv(cfg)
	logrus.Info("Configuration loaded")

	return cfg
}

func applyEnv(cfg *Configuration) {
	// MONGO_URI is what the tracking agent's deployment already exports
	for _, key := range []string{"MONGODB_URL", "MONGO_URI"} {
		if v := os.Getenv(key); v != "" {
			cfg.Database.Url = v
		}
	}

	if dbName := os.Getenv("DB_NAME"); dbName != "" {
		cfg.Database.DbName = dbName
	}

	if redisUrl := os.Getenv("REDIS_URL"); redisUrl != "" {
		cfg.Redis.Url = redisUrl
	}

	if redisDB := os.Getenv("REDIS_DB"); redisDB != "" {
		if db, err := strconv.Atoi(redisDB); err == nil {
			cfg.Redis.Db = db
		}
	}

	if rabbitmqUrl := os.Getenv("RABBITMQ_URL"); rabbitmqUrl != "" {
		cfg.Queue.RabbitMQ.Url = rabbitmqUrl
	}

	if jwtKey := os.Getenv("JWT_KEY"); jwtKey != "" {
		cfg.Security.JwtKey = jwtKey
	}

	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Port = port
	}
}

func applyDefaults(cfg *Configuration) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "3000"
	}
	if cfg.App.Timeout <= 0 {
		cfg.App.Timeout = 10
	}
	if cfg.Database.DbName == "" {
		cfg.Database.DbName = "PCTracerDB"
	}
	if cfg.Database.Timeout <= 0 {
		cfg.Database.Timeout = 10
	}

	c := &cfg.Database.Collections
	if c.Admins == "" {
		c.Admins = "Admins"
	}
	if c.Users == "" {
		c.Users = "Users"
	}
	if c.Activities == "" {
		c.Activities = "ClientData"
	}
	if c.Sessions == "" {
		c.Sessions = "Sessions"
	}

	if cfg.Security.CookieName == "" {
		cfg.Security.CookieName = "pctracer_session"
	}
	if cfg.Security.BcryptCost <= 0 {
		cfg.Security.BcryptCost = 10
	}
	if cfg.Security.MinPasswordLn <= 0 {
		cfg.Security.MinPasswordLn = 4
	}

	if cfg.Cache.SessionExpirationMinutes <= 0 {
		cfg.Cache.SessionExpirationMinutes = 24 * 60
	}
	if cfg.Cache.StatsKey == "" {
		cfg.Cache.StatsKey = "stats:summary"
	}
	if cfg.Cache.StatsExpirationMinutes <= 0 {
		cfg.Cache.StatsExpirationMinutes = 1
	}
}

// Location resolves app.timezone, falling back to the host zone.
func (c *Configuration) Location() *time.Location {
	if c.App.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		logrus.WithError(err).WithField("timezone", c.App.Timezone).Warn("Unknown timezone, using local time")
		return time.Local
	}
	return loc
}

func (c *Configuration) SessionTTL() time.Duration {
	return time.Duration(c.Cache.SessionExpirationMinutes) * time.Minute
}

func read(path string) *Configuration {
	v := viper.New()
	v.SetConfigFile(path)
	v.AutomaticEnv()
	v.SetConfigType("yml")

	var config Configuration

	err := v.ReadInConfig()
	if err != nil {
		logrus.Panicf("Error reading config file, %s", err)
	}

	err = v.Unmarshal(&config)
	if err != nil {
		logrus.Panicf("Error unmarshalling config file, %s", err)
	}

	return &config
}
