package config

import "fmt"

type ServerConfig struct {
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
	BaseURL string `mapstructure:"base_url"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// AdminConfig configures the administrative API surface. Username and
// PasswordHash (bcrypt) form the single seeded operator account; the admin
// API is independent of host sessions so it keeps working when the host is
// down.
type AdminConfig struct {
	JWTSecret     string `mapstructure:"jwt_secret"`
	JWTExpMinutes int    `mapstructure:"jwt_exp_minutes"`
	Username      string `mapstructure:"username"`
	PasswordHash  string `mapstructure:"password_hash"`
}

// HostConfig carries the host application's cookie-signing material.
// The salts must match the host's own signing configuration exactly;
// any drift silently invalidates every session.
type HostConfig struct {
	AuthSalt       string `mapstructure:"auth_salt"`
	SecureAuthSalt string `mapstructure:"secure_auth_salt"`
	LoggedInSalt   string `mapstructure:"logged_in_salt"`

	AuthCookie       string `mapstructure:"auth_cookie"`
	SecureAuthCookie string `mapstructure:"secure_auth_cookie"`
	LoggedInCookie   string `mapstructure:"logged_in_cookie"`
}

// UploadsConfig locates the shared upload tree and selects the offload path.
// OffloadProxy mirrors the front-end server identification string; only the
// nginx and litespeed families support internal redirects.
type UploadsConfig struct {
	BaseDir        string `mapstructure:"base_dir"`
	BaseURL        string `mapstructure:"base_url"`
	OffloadProxy   string `mapstructure:"offload_proxy"`
	InternalPrefix string `mapstructure:"internal_prefix"`
	Sendfile       bool   `mapstructure:"sendfile"`
}

type BotConfig struct {
	ResolverTimeoutMS int `mapstructure:"resolver_timeout_ms"`
}
