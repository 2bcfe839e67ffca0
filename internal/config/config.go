package config

import (
	"errors"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application. Everything comes
// from environment variables; Redis, RabbitMQ, SMTP and the identity
// provider are optional and leave their features disabled when unset.
type Config struct {
	Port               string `mapstructure:"PORT"`
	GinMode            string `mapstructure:"GIN_MODE"`
	MongoURI           string `mapstructure:"MONGO_URI"`
	MongoDB            string `mapstructure:"MONGO_DB"`
	AccessTokenSecret  string `mapstructure:"ACCESS_TOKEN_SECRET"`
	StripeSecretKey    string `mapstructure:"STRIPE_SECRET_KEY"`
	FirebaseServiceKey string `mapstructure:"FIREBASE_SERVICE_KEY"` // base64 service-account JSON
	AdminEmail         string `mapstructure:"ADMIN_EMAIL"`
	ClientURL          string `mapstructure:"CLIENT_URL"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	RabbitMQURL string `mapstructure:"RABBITMQ_URL"`

	SMTPHost   string `mapstructure:"SMTP_HOST"`
	SMTPPort   string `mapstructure:"SMTP_PORT"`
	SMTPUser   string `mapstructure:"SMTP_USER"`
	SMTPPass   string `mapstructure:"SMTP_PASS"`
	SMTPSender string `mapstructure:"SMTP_SENDER"`
}

// Load reads configuration from environment variables using Viper.
func Load() (*Config, error) {
	viper.AutomaticEnv()

	viper.SetDefault("PORT", "3000")
	viper.SetDefault("GIN_MODE", "debug")
	viper.SetDefault("MONGO_DB", "etuitionBD")
	viper.SetDefault("ADMIN_EMAIL", "admin@etuition.com")
	viper.SetDefault("SMTP_PORT", "2525")

	for _, key := range []string{
		"PORT", "GIN_MODE", "MONGO_URI", "MONGO_DB", "ACCESS_TOKEN_SECRET",
		"STRIPE_SECRET_KEY", "FIREBASE_SERVICE_KEY", "ADMIN_EMAIL", "CLIENT_URL",
		"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "RABBITMQ_URL",
		"SMTP_HOST", "SMTP_PORT", "SMTP_USER", "SMTP_PASS", "SMTP_SENDER",
	} {
		if err := viper.BindEnv(key); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.New("failed to unmarshal config: " + err.Error())
	}

	if cfg.MongoURI == "" {
		return nil, errors.New("MONGO_URI is required")
	}
	if cfg.AccessTokenSecret == "" {
		return nil, errors.New("ACCESS_TOKEN_SECRET is required")
	}
	if cfg.StripeSecretKey == "" {
		return nil, errors.New("STRIPE_SECRET_KEY is required")
	}

	return &cfg, nil
}
