package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type AppCfg struct{ Name, Env, Port, BaseURL string }
type DBCfg struct{ DSN string }
type RedisCfg struct{ Addr string }

type SecurityCfg struct {
	APIToken   string // guards /api/v1
	AdminToken string // guards /admin
}

// MethodCfg is one entry of the per-method table (limits in minor units).
type MethodCfg struct {
	Enabled     bool    `json:"enabled" mapstructure:"enabled"`
	Minimum     int64   `json:"minimum" mapstructure:"minimum"`
	Maximum     int64   `json:"maximum" mapstructure:"maximum"`
	Fee         float64 `json:"fee" mapstructure:"fee"`
	DisplayName string  `json:"displayName" mapstructure:"displayName"`
}

// ProviderCfg carries the Coinbase Commerce deployment settings. Loaded once
// here and injected; no package reads provider config files on its own.
type ProviderCfg struct {
	Enabled        bool
	APIKey         string // secret.client
	WebhookSecret  string // secret.hook
	BaseURL        string
	TimeoutSeconds int
	Methods        map[string]MethodCfg
}

type Cfg struct {
	App      AppCfg
	DB       DBCfg
	Redis    RedisCfg
	Sec      SecurityCfg
	Provider ProviderCfg
}

func Load() Cfg {
	// .env into process env if present
	_ = godotenv.Load()

	viper.AutomaticEnv()
	viper.SetDefault("APP_NAME", "chargesync")
	viper.SetDefault("APP_ENV", "sandbox")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("PROVIDER_TIMEOUT_SECONDS", 3)
	viper.SetDefault("ADMIN_TOKEN", "")

	cfg := Cfg{
		App: AppCfg{
			Name:    viper.GetString("APP_NAME"),
			Env:     viper.GetString("APP_ENV"),
			Port:    viper.GetString("APP_PORT"),
			BaseURL: viper.GetString("APP_BASE_URL"),
		},
		DB:    DBCfg{DSN: viper.GetString("DB_DSN")},
		Redis: RedisCfg{Addr: viper.GetString("REDIS_ADDR")},
		Sec: SecurityCfg{
			APIToken:   strings.TrimSpace(viper.GetString("API_TOKEN")),
			AdminToken: strings.TrimSpace(viper.GetString("ADMIN_TOKEN")),
		},
		Provider: ProviderCfg{
			Enabled:        true,
			APIKey:         viper.GetString("COINBASE_API_KEY"),
			WebhookSecret:  viper.GetString("COINBASE_WEBHOOK_SECRET"),
			BaseURL:        viper.GetString("COINBASE_BASE_URL"),
			TimeoutSeconds: viper.GetInt("PROVIDER_TIMEOUT_SECONDS"),
		},
	}

	if path := viper.GetString("PROVIDER_CONFIG_FILE"); path != "" {
		pc, err := LoadProviderFile(path)
		if err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("provider config load failed")
		}
		cfg.Provider = mergeProvider(cfg.Provider, pc)
	}

	// Fail fast on required settings
	if cfg.DB.DSN == "" {
		log.Fatal().Msg("DB_DSN is required")
	}
	if cfg.Provider.WebhookSecret == "" {
		log.Fatal().Msg("webhook secret is required (COINBASE_WEBHOOK_SECRET or provider config file)")
	}

	return cfg
}

// LoadProviderFile reads the provider JSON document:
//
//	{"enabled": true,
//	 "secret": {"client": "...", "hook": "..."},
//	 "methods": {"oneTime": {"btc": {"enabled": true, "minimum": 100, ...}}}}
func LoadProviderFile(path string) (ProviderCfg, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return ProviderCfg{}, err
	}

	var methods map[string]MethodCfg
	if err := v.UnmarshalKey("methods.oneTime", &methods); err != nil {
		return ProviderCfg{}, err
	}

	return ProviderCfg{
		Enabled:       v.GetBool("enabled"),
		APIKey:        v.GetString("secret.client"),
		WebhookSecret: v.GetString("secret.hook"),
		Methods:       methods,
	}, nil
}

// mergeProvider overlays file-based settings onto env-based ones; env secrets
// win so deployments can override a checked-in config document.
func mergeProvider(env, file ProviderCfg) ProviderCfg {
	out := env
	out.Enabled = file.Enabled
	out.Methods = file.Methods
	if out.APIKey == "" {
		out.APIKey = file.APIKey
	}
	if out.WebhookSecret == "" {
		out.WebhookSecret = file.WebhookSecret
	}
	return out
}
