package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App     AppConfig
	DB      DBConfig
	Redis   RedisConfig
	Session SessionConfig
	SMTP    SMTPConfig
	Broker  BrokerConfig
	Notify  NotifyConfig
}

type AppConfig struct {
	Port string
	Env  string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type SessionConfig struct {
	Secret string
	TTL    time.Duration
}

type SMTPConfig struct {
	Host     string
	Port     int
	Email    string
	Password string
}

type BrokerConfig struct {
	URL   string
	Topic string
}

type NotifyConfig struct {
	EmailEnabled bool
	TopicEnabled bool
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// A missing .env is fine when everything comes from real env vars.
		// With an explicit config file the miss surfaces as a plain path
		// error, not viper's not-found type.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	sessionTTL, err := time.ParseDuration(viper.GetString("SESSION_TTL"))
	if err != nil {
		sessionTTL = 12 * time.Hour
	}

	config := &Config{
		App: AppConfig{
			Port: viper.GetString("APP_PORT"),
			Env:  viper.GetString("APP_ENV"),
		},
		DB: DBConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Session: SessionConfig{
			Secret: viper.GetString("SESSION_SECRET"),
			TTL:    sessionTTL,
		},
		SMTP: SMTPConfig{
			Host:     viper.GetString("SMTP_HOST"),
			Port:     viper.GetInt("SMTP_PORT"),
			Email:    viper.GetString("SMTP_EMAIL"),
			Password: viper.GetString("SMTP_PASSWORD"),
		},
		Broker: BrokerConfig{
			URL:   viper.GetString("AMQP_URL"),
			Topic: viper.GetString("NOTIFY_TOPIC"),
		},
		Notify: NotifyConfig{
			EmailEnabled: viper.GetBool("EMAIL_ENABLED"),
			TopicEnabled: viper.GetBool("TOPIC_ENABLED"),
		},
	}

	if config.App.Port == "" {
		config.App.Port = "8080"
	}

	return config, nil
}
