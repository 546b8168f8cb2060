package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host string
	Port int
}

type DBConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime string
}

type AuthConfig struct {
	WebhookAPIKey string
	AccessSecret  string
}

// ResolverConfig tunes staff name matching. MinScore is the floor a
// candidate must reach; ChoiceMargin is the lead the top candidate
// needs over the runner-up before it is auto-chosen.
type ResolverConfig struct {
	MinScore     int
	ChoiceMargin int
}

// ExportConfig points at optional rendering assets. ReceiptFontPath is
// a UTF-8 TTF used for Arabic text on PDF receipts; empty falls back to
// a Latin-only core font.
type ExportConfig struct {
	ReceiptFontPath string
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	DB          DBConfig
	Auth        AuthConfig
	Resolver    ResolverConfig
	Export      ExportConfig
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AddConfigPath("./internal/config")
	v.AutomaticEnv()

	_ = v.ReadInConfig()

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host: v.GetString("HTTP_HOST"),
			Port: v.GetInt("HTTP_PORT"),
		},
		DB: DBConfig{
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetString("DB_CONN_MAX_LIFETIME"),
		},
		Auth: AuthConfig{
			WebhookAPIKey: v.GetString("WEBHOOK_API_KEY"),
			AccessSecret:  v.GetString("JWT_ACCESS_SECRET"),
		},
		Resolver: ResolverConfig{
			MinScore:     v.GetInt("RESOLVER_MIN_SCORE"),
			ChoiceMargin: v.GetInt("RESOLVER_CHOICE_MARGIN"),
		},
		Export: ExportConfig{
			ReceiptFontPath: v.GetString("RECEIPT_FONT_PATH"),
		},
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 7093
	}
	if cfg.Resolver.MinScore == 0 {
		cfg.Resolver.MinScore = 25
	}
	if cfg.Resolver.ChoiceMargin == 0 {
		cfg.Resolver.ChoiceMargin = 10
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.DB.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if cfg.Auth.WebhookAPIKey == "" {
		return fmt.Errorf("WEBHOOK_API_KEY is required")
	}
	if cfg.Auth.AccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	return nil
}
