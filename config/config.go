package config

import (
	"fmt"
	"time"
)

// BaseConfig is the root configuration document. Values load from
// config/app.json with environment overrides applied on top.
type BaseConfig struct {
	App         App         `json:"app" yaml:"app"`
	Auth        Auth        `json:"auth" yaml:"auth"`
	Server      Server      `json:"server" yaml:"server"`
	Persistence Persistence `json:"persistence" yaml:"persistence"`
}

func (a *BaseConfig) Validate() error {
	if a.Auth.SigningKey == "" {
		return fmt.Errorf("auth.signing_key is required")
	}
	return nil
}

func (a *BaseConfig) GetApp() App {
	return a.App
}

func (a *BaseConfig) GetAuth() *Auth {
	return &a.Auth
}

func (a *BaseConfig) GetServer() Server {
	return a.Server
}

func (a *BaseConfig) GetPersistence() *Persistence {
	return &a.Persistence
}

type App struct {
	Name  string `json:"name" yaml:"name"`
	Debug bool   `json:"debug" yaml:"debug"`
}

func (a App) GetName() string {
	return a.Name
}

func (a App) GetDebug() bool {
	return a.Debug
}

// Auth satisfies the core Config interface.
type Auth struct {
	SigningKey      string   `json:"signing_key" yaml:"signing_key"`
	SigningMethod   string   `json:"signing_method" yaml:"signing_method"`
	ContextKey      string   `json:"context_key" yaml:"context_key"`
	TokenExpiration int      `json:"token_expiration" yaml:"token_expiration"`
	TokenLookup     string   `json:"token_lookup" yaml:"token_lookup"`
	AuthScheme      string   `json:"auth_scheme" yaml:"auth_scheme"`
	Issuer          string   `json:"issuer" yaml:"issuer"`
	Audience        []string `json:"audience" yaml:"audience"`
	MaxPageSize     int      `json:"max_page_size" yaml:"max_page_size"`
	DefaultPageSize int      `json:"default_page_size" yaml:"default_page_size"`
}

func (a *Auth) GetSigningKey() string {
	return a.SigningKey
}

func (a *Auth) GetSigningMethod() string {
	if a.SigningMethod == "" {
		return "HS256"
	}
	return a.SigningMethod
}

func (a *Auth) GetContextKey() string {
	if a.ContextKey == "" {
		return "user"
	}
	return a.ContextKey
}

// GetTokenExpiration is the token lifetime in seconds.
func (a *Auth) GetTokenExpiration() int {
	if a.TokenExpiration <= 0 {
		return 1800
	}
	return a.TokenExpiration
}

func (a *Auth) GetTokenLookup() string {
	if a.TokenLookup == "" {
		return "header:Authorization"
	}
	return a.TokenLookup
}

func (a *Auth) GetAuthScheme() string {
	if a.AuthScheme == "" {
		return "Bearer"
	}
	return a.AuthScheme
}

func (a *Auth) GetIssuer() string {
	return a.Issuer
}

func (a *Auth) GetAudience() []string {
	return a.Audience
}

func (a *Auth) GetMaxPageSize() int {
	if a.MaxPageSize <= 0 {
		return 100
	}
	return a.MaxPageSize
}

func (a *Auth) GetDefaultPageSize() int {
	if a.DefaultPageSize <= 0 {
		return 100
	}
	return a.DefaultPageSize
}

type Server struct {
	Addr string `json:"addr" yaml:"addr"`
}

func (s Server) GetAddr() string {
	if s.Addr == "" {
		return ":8080"
	}
	return s.Addr
}

type Persistence struct {
	Driver                string `json:"driver" yaml:"driver"`
	DSN                   string `json:"dsn" yaml:"dsn"`
	Debug                 bool   `json:"debug" yaml:"debug"`
	PingTimeoutExpression string `json:"ping_timeout" yaml:"ping_timeout"`
}

func (p *Persistence) GetDriver() string {
	if p.Driver == "" {
		return "sqlite"
	}
	return p.Driver
}

func (p *Persistence) GetDSN() string {
	if p.DSN == "" {
		return "file::memory:?cache=shared"
	}
	return p.DSN
}

func (p *Persistence) GetDebug() bool {
	return p.Debug
}

func (p *Persistence) GetPingTimeout() time.Duration {
	if p.PingTimeoutExpression == "" {
		return 5 * time.Second
	}

	dur, err := time.ParseDuration(p.PingTimeoutExpression)
	if err != nil {
		panic(
			fmt.Sprintf("unable to parse time: expr %s", p.PingTimeoutExpression),
		)
	}
	return dur
}
