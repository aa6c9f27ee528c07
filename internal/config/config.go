// Package config carga la configuración del servidor desde YAML con
// overrides por variables de entorno.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		// dev | staging | prod
		Env      string `yaml:"env"`
		LogLevel string `yaml:"log_level"`
	} `yaml:"app"`

	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	Storage struct {
		// memory | postgres
		Driver string `yaml:"driver"`
		DSN    string `yaml:"dsn"`
	} `yaml:"storage"`

	JWT struct {
		Issuer      string `yaml:"issuer"`
		SigningKID  string `yaml:"signing_kid"`
		SigningSeed string `yaml:"signing_seed"` // base64, 32 bytes; vacío = clave dev efímera
		AccessTTL   string `yaml:"access_ttl"`
		RefreshTTL  string `yaml:"refresh_ttl"`
	} `yaml:"jwt"`

	Endpoints struct {
		Token    string `yaml:"token"`
		UserInfo string `yaml:"userinfo"`
	} `yaml:"endpoints"`

	// DefaultClient se registra en el seed si no existe.
	DefaultClient struct {
		ClientID   string   `yaml:"client_id"`
		Secret     string   `yaml:"client_secret"`
		Name       string   `yaml:"name"`
		Endpoints  []string `yaml:"endpoints"`
		GrantTypes []string `yaml:"grant_types"`
		Scopes     []string `yaml:"scopes"`
	} `yaml:"default_client"`

	// SeedUser es el usuario default que garantiza el seeder.
	SeedUser struct {
		Username  string `yaml:"username"`
		Password  string `yaml:"password"`
		Email     string `yaml:"email"`
		FirstName string `yaml:"first_name"`
		LastName  string `yaml:"last_name"`
		Role      string `yaml:"role"`
	} `yaml:"seed_user"`

	Rate struct {
		Enabled bool `yaml:"enabled"`
		Token   struct {
			Limit  int    `yaml:"limit"`
			Window string `yaml:"window"`
		} `yaml:"token"`
		Redis struct {
			Addr   string `yaml:"addr"`
			DB     int    `yaml:"db"`
			Prefix string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"rate"`
}

// Load lee el YAML (opcional: path vacío = solo defaults+env), aplica
// defaults sanos y por último los overrides por ENV.
func Load(path string) (*Config, error) {
	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, err
		}
	}

	// sane defaults
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "memory"
	}
	if c.JWT.Issuer == "" {
		c.JWT.Issuer = "http://localhost:8080"
	}
	if c.JWT.SigningKID == "" {
		c.JWT.SigningKID = "lj-1"
	}
	if c.JWT.AccessTTL == "" {
		c.JWT.AccessTTL = "30m"
	}
	if c.JWT.RefreshTTL == "" {
		c.JWT.RefreshTTL = "168h" // 7d
	}
	if c.Endpoints.Token == "" {
		c.Endpoints.Token = "/connect/token"
	}
	if c.Endpoints.UserInfo == "" {
		c.Endpoints.UserInfo = "/connect/userinfo"
	}
	if c.DefaultClient.ClientID == "" {
		c.DefaultClient.ClientID = "default-client"
	}
	if c.DefaultClient.Name == "" {
		c.DefaultClient.Name = "Default client application"
	}
	if len(c.DefaultClient.Endpoints) == 0 {
		c.DefaultClient.Endpoints = []string{"token"}
	}
	if len(c.DefaultClient.GrantTypes) == 0 {
		c.DefaultClient.GrantTypes = []string{"password"}
	}
	if len(c.DefaultClient.Scopes) == 0 {
		c.DefaultClient.Scopes = []string{"roles", "offline_access", "email", "profile"}
	}
	if c.SeedUser.Username == "" {
		c.SeedUser.Username = "admin"
	}
	if c.SeedUser.Password == "" {
		// solo dev: cualquier deploy real lo pisa con SEED_PASSWORD
		c.SeedUser.Password = "password"
	}
	if c.SeedUser.Role == "" {
		c.SeedUser.Role = "Admin"
	}
	if c.Rate.Token.Limit == 0 {
		c.Rate.Token.Limit = 10
	}
	if c.Rate.Token.Window == "" {
		c.Rate.Token.Window = "1m"
	}

	applyEnv(&c)
	return &c, nil
}

// AccessTTL parsea el TTL de access token (default 30m si es inválido).
func (c *Config) AccessTTL() time.Duration { return durOr(c.JWT.AccessTTL, 30*time.Minute) }

// RefreshTTL parsea el TTL de refresh token (default 7d si es inválido).
func (c *Config) RefreshTTL() time.Duration { return durOr(c.JWT.RefreshTTL, 7*24*time.Hour) }

// RateWindow parsea la ventana del rate limit del token endpoint.
func (c *Config) RateWindow() time.Duration { return durOr(c.Rate.Token.Window, time.Minute) }

func durOr(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func applyEnv(c *Config) {
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = v
	}
	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.App.LogLevel = v
	}
	if v, ok := getEnvStr("SERVER_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := getEnvStr("STORAGE_DRIVER"); ok {
		c.Storage.Driver = strings.ToLower(v)
	}
	if v, ok := getEnvStr("STORAGE_DSN"); ok {
		c.Storage.DSN = v
	}
	if v, ok := getEnvStr("JWT_ISSUER"); ok {
		c.JWT.Issuer = v
	}
	if v, ok := getEnvStr("SIGNING_KID"); ok {
		c.JWT.SigningKID = v
	}
	if v, ok := getEnvStr("SIGNING_SEED"); ok {
		c.JWT.SigningSeed = v
	}
	if v, ok := getEnvStr("JWT_ACCESS_TTL"); ok {
		c.JWT.AccessTTL = v
	}
	if v, ok := getEnvStr("JWT_REFRESH_TTL"); ok {
		c.JWT.RefreshTTL = v
	}
	if v, ok := getEnvStr("DEFAULT_CLIENT_ID"); ok {
		c.DefaultClient.ClientID = v
	}
	if v, ok := getEnvStr("DEFAULT_CLIENT_SECRET"); ok {
		c.DefaultClient.Secret = v
	}
	if v, ok := getEnvCSV("DEFAULT_CLIENT_ENDPOINTS"); ok && len(v) > 0 {
		c.DefaultClient.Endpoints = v
	}
	if v, ok := getEnvCSV("DEFAULT_CLIENT_GRANT_TYPES"); ok && len(v) > 0 {
		c.DefaultClient.GrantTypes = v
	}
	if v, ok := getEnvCSV("DEFAULT_CLIENT_SCOPES"); ok && len(v) > 0 {
		c.DefaultClient.Scopes = v
	}
	if v, ok := getEnvStr("SEED_USERNAME"); ok {
		c.SeedUser.Username = v
	}
	if v, ok := getEnvStr("SEED_PASSWORD"); ok {
		c.SeedUser.Password = v
	}
	if v, ok := getEnvStr("SEED_EMAIL"); ok {
		c.SeedUser.Email = v
	}
	if v, ok := getEnvBool("RATE_ENABLED"); ok {
		c.Rate.Enabled = v
	}
	if v, ok := getEnvInt("RATE_TOKEN_LIMIT"); ok {
		c.Rate.Token.Limit = v
	}
	if v, ok := getEnvStr("RATE_TOKEN_WINDOW"); ok {
		c.Rate.Token.Window = v
	}
	if v, ok := getEnvStr("REDIS_ADDR"); ok {
		c.Rate.Redis.Addr = v
	}
}

func getEnvStr(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	return v, v != ""
}

func getEnvBool(key string) (bool, bool) {
	v, ok := getEnvStr(key)
	if !ok {
		return false, false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, false
	}
	return b, true
}

func getEnvInt(key string) (int, bool) {
	v, ok := getEnvStr(key)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func getEnvCSV(key string) ([]string, bool) {
	v, ok := getEnvStr(key)
	if !ok {
		return nil, false
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out, true
}
