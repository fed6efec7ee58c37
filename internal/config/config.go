package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config agrupa toda la configuración del servidor.
// Se carga desde un YAML opcional y se sobreescribe con variables de entorno.
type Config struct {
	App struct {
		// dev | prod
		Env string `yaml:"env"`
	} `yaml:"app"`

	Server struct {
		Addr           string `yaml:"addr"`
		FrontendOrigin string `yaml:"frontend_origin"`
	} `yaml:"server"`

	Storage struct {
		DSN       string `yaml:"dsn"`
		UploadDir string `yaml:"upload_dir"`
		Postgres  struct {
			MaxConns        int    `yaml:"max_conns"`
			ConnMaxLifetime string `yaml:"conn_max_lifetime"`
		} `yaml:"postgres"`
	} `yaml:"storage"`

	Cache struct {
		Kind  string `yaml:"kind"` // "memory" | "redis"
		Redis struct {
			Addr   string `yaml:"addr"`
			DB     int    `yaml:"db"`
			Prefix string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"cache"`

	JWT struct {
		Secret    string `yaml:"secret"`
		Issuer    string `yaml:"issuer"`
		AccessTTL string `yaml:"access_ttl"`
	} `yaml:"jwt"`

	CSRF struct {
		Secret     string `yaml:"secret"`
		CookieName string `yaml:"cookie_name"`
		TTLSeconds int    `yaml:"ttl_seconds"`
	} `yaml:"csrf"`

	LLM struct {
		APIKey  string `yaml:"api_key"`
		BaseURL string `yaml:"base_url"`
	} `yaml:"llm"`

	SMTP struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		From     string `yaml:"from"`
	} `yaml:"smtp"`

	OAuth struct {
		Google struct {
			ClientID     string `yaml:"client_id"`
			ClientSecret string `yaml:"client_secret"`
			RedirectURL  string `yaml:"redirect_url"`
		} `yaml:"google"`
	} `yaml:"oauth"`

	Rate struct {
		Enabled     bool   `yaml:"enabled"`
		MaxRequests int    `yaml:"max_requests"`
		Window      string `yaml:"window"`
	} `yaml:"rate"`
}

// WatchedEnvVars es la lista fija de variables cuya PRESENCIA (nunca el valor)
// reporta el health check.
var WatchedEnvVars = []string{
	"CSRF_SECRET",
	"DATABASE_URL",
	"JWT_SECRET",
	"LLM_API_KEY",
	"EXTERNAL_API_BASE_URL",
	"FRONTEND_ORIGIN",
}

// Load lee el YAML (si existe) y aplica overrides de entorno.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		b, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(b, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	setStr(&c.App.Env, "APP_ENV")
	if p := os.Getenv("PORT"); p != "" {
		c.Server.Addr = ":" + p
	}
	setStr(&c.Server.FrontendOrigin, "FRONTEND_ORIGIN")
	setStr(&c.Storage.DSN, "DATABASE_URL")
	setStr(&c.Storage.UploadDir, "UPLOAD_DIR")
	setStr(&c.Cache.Redis.Addr, "REDIS_ADDR")
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Cache.Redis.DB = n
		}
	}
	setStr(&c.JWT.Secret, "JWT_SECRET")
	setStr(&c.CSRF.Secret, "CSRF_SECRET")
	setStr(&c.LLM.APIKey, "LLM_API_KEY")
	setStr(&c.LLM.BaseURL, "EXTERNAL_API_BASE_URL")
	setStr(&c.SMTP.Host, "SMTP_HOST")
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.SMTP.Port = n
		}
	}
	setStr(&c.SMTP.Username, "SMTP_USERNAME")
	setStr(&c.SMTP.Password, "SMTP_PASSWORD")
	setStr(&c.SMTP.From, "SMTP_FROM")
	setStr(&c.OAuth.Google.ClientID, "GOOGLE_CLIENT_ID")
	setStr(&c.OAuth.Google.ClientSecret, "GOOGLE_CLIENT_SECRET")
	setStr(&c.OAuth.Google.RedirectURL, "GOOGLE_REDIRECT_URL")
}

func (c *Config) applyDefaults() {
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":3001"
	}
	if c.Storage.UploadDir == "" {
		c.Storage.UploadDir = "./uploads"
	}
	if c.Cache.Kind == "" {
		if c.Cache.Redis.Addr != "" {
			c.Cache.Kind = "redis"
		} else {
			c.Cache.Kind = "memory"
		}
	}
	if c.Cache.Redis.Prefix == "" {
		c.Cache.Redis.Prefix = "edustack:"
	}
	if c.JWT.Issuer == "" {
		c.JWT.Issuer = "edustack"
	}
	if c.JWT.AccessTTL == "" {
		c.JWT.AccessTTL = "24h"
	}
	if c.CSRF.CookieName == "" {
		c.CSRF.CookieName = "x-csrf-token"
	}
	if c.CSRF.TTLSeconds <= 0 {
		c.CSRF.TTLSeconds = 3600 // 1 hora, alineado con el max-age de la cookie
	}
	if c.Rate.MaxRequests <= 0 {
		c.Rate.MaxRequests = 30
	}
	if c.Rate.Window == "" {
		c.Rate.Window = "1m"
	}
}

// Validate verifica las precondiciones de arranque.
// La ausencia del secret CSRF o JWT aborta el proceso ANTES de aceptar tráfico;
// nunca se difiere al primer uso.
func (c *Config) Validate() error {
	if c.CSRF.Secret == "" {
		return fmt.Errorf("config: CSRF_SECRET is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("config: JWT_SECRET is required")
	}
	return nil
}

// IsProd indica si corremos en modo producción.
func (c *Config) IsProd() bool {
	return c.App.Env == "prod" || c.App.Env == "production"
}

// AccessTTL parsea el TTL de acceso JWT con fallback a 24h.
func (c *Config) AccessTTL() time.Duration {
	if d, err := time.ParseDuration(c.JWT.AccessTTL); err == nil {
		return d
	}
	return 24 * time.Hour
}

// RateWindow parsea la ventana de rate limiting con fallback a 1m.
func (c *Config) RateWindow() time.Duration {
	if d, err := time.ParseDuration(c.Rate.Window); err == nil {
		return d
	}
	return time.Minute
}

// EnvPresence retorna flags de presencia (nunca valores) para las variables
// de entorno esperadas. Consumido por el health check.
func EnvPresence() map[string]bool {
	out := make(map[string]bool, len(WatchedEnvVars))
	for _, name := range WatchedEnvVars {
		out[name] = os.Getenv(name) != ""
	}
	return out
}

func setStr(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}
