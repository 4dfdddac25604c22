// internal/config/config.go
package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type AppConfig struct {
	// Env switches dev conveniences off. "prod" refuses to start without a
	// reflection encryption key.
	Env                string `mapstructure:"env"`
	MaxActiveJourneys  int    `mapstructure:"max_active_journeys"`
	AgendaJourneyLimit int    `mapstructure:"agenda_journey_limit"`
}

type AuthConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type JWTConfig struct {
	SecretKey string `mapstructure:"secret_key"`
}

// ProviderConfig is one entry of the AI provider chain, tried in list order.
type ProviderConfig struct {
	Name    string `mapstructure:"name"`
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
}

type AIConfig struct {
	Providers             []ProviderConfig `mapstructure:"providers"`
	RequestTimeoutSeconds int              `mapstructure:"request_timeout_seconds"`
}

type CryptoConfig struct {
	// Keys maps key version -> secret. Old versions stay in the map so
	// historical ciphertexts remain decryptable after rotation.
	Keys             map[string]string `mapstructure:"keys"`
	ActiveKeyVersion string            `mapstructure:"active_key_version"`
}

// AlertsConfig drives the best-effort ops e-mail on safety-gate triggers.
type AlertsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	From      string `mapstructure:"from"`
	To        string `mapstructure:"to"`
	SESRegion string `mapstructure:"ses_region"`
	// AuthType is "iam_role" (default) or "static_credentials".
	AuthType        string `mapstructure:"auth_type"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Server   ServerConfig   `mapstructure:"server"`
	App      AppConfig      `mapstructure:"app"`
	Auth     AuthConfig     `mapstructure:"auth"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	AI       AIConfig       `mapstructure:"ai"`
	Crypto   CryptoConfig   `mapstructure:"crypto"`
	Alerts   AlertsConfig   `mapstructure:"alerts"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Log      LogConfig      `mapstructure:"log"`
}

var Cfg Config

func LoadConfig(path string) error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(path)
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	viper.BindEnv("app.env", "APP_ENV")
	viper.BindEnv("auth.enabled", "AUTH_ENABLED")
	viper.BindEnv("database.url", "DATABASE_URL")
	viper.BindEnv("jwt.secret_key", "JWT_SECRET_KEY")
	viper.BindEnv("crypto.active_key_version", "CRYPTO_ACTIVE_KEY_VERSION")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("Warning: Config file not found. Using defaults and environment variables.")
		} else {
			log.Printf("Error reading config file: %s\n", err)
			return err
		}
	}

	if err := viper.Unmarshal(&Cfg); err != nil {
		log.Printf("Error unmarshalling config: %s\n", err)
		return err
	}

	applyDefaults(&Cfg)

	log.Println("Config loaded successfully")
	log.Printf("Server Port: %s", Cfg.Server.Port)
	log.Printf("Max Active Journeys: %d", Cfg.App.MaxActiveJourneys)
	log.Printf("AI Providers: %d", len(Cfg.AI.Providers))
	log.Printf("Auth Enabled: %t", Cfg.Auth.Enabled)

	return nil
}

func applyDefaults(c *Config) {
	if c.Server.Port == "" {
		log.Println("Server port not set, using default ':8080'")
		c.Server.Port = ":8080"
	}
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.App.MaxActiveJourneys <= 0 {
		log.Println("Max active journeys not set or invalid, using default '5'")
		c.App.MaxActiveJourneys = 5
	}
	if c.App.AgendaJourneyLimit <= 0 {
		c.App.AgendaJourneyLimit = 20
	}
	if c.AI.RequestTimeoutSeconds <= 0 {
		c.AI.RequestTimeoutSeconds = 20
	}
	if !viper.IsSet("auth.enabled") {
		log.Println("Auth enabled flag not set, defaulting to true (enabled)")
		c.Auth.Enabled = true
	}
	if c.Database.URL == "" {
		log.Println("Warning: Database URL is not set in config.")
	}
}

// IsProd reports whether the service runs with production guarantees.
func (c *Config) IsProd() bool {
	env := strings.ToLower(c.App.Env)
	return env == "prod" || env == "production"
}
