package config

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v3"
)

const defaultProbeTimeout = 3 * time.Second

// Config はアプリケーション全体の設定を表現します。
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig は gRPC サーバーと運用 HTTP サーバーの設定です。
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr" env:"PAYROLL_LISTEN_ADDR, overwrite" validate:"required"`
	OpsAddr    string `yaml:"ops_addr" env:"PAYROLL_OPS_ADDR, overwrite" validate:"required"`
}

// DatabaseConfig は PostgreSQL 接続に関する設定です。
type DatabaseConfig struct {
	Host               string        `yaml:"host" env:"PAYROLL_DB_HOST, overwrite" validate:"required"`
	Port               int           `yaml:"port" env:"PAYROLL_DB_PORT, overwrite" validate:"required,min=1,max=65535"`
	User               string        `yaml:"user" env:"PAYROLL_DB_USER, overwrite" validate:"required"`
	Password           string        `yaml:"password" env:"PAYROLL_DB_PASSWORD, overwrite" validate:"required"`
	Name               string        `yaml:"name" env:"PAYROLL_DB_NAME, overwrite" validate:"required"`
	SSLMode            string        `yaml:"ssl_mode" env:"PAYROLL_DB_SSL_MODE, overwrite" validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`
	MaxOpenConns       int           `yaml:"max_open_conns" validate:"min=0"`
	MaxIdleConns       int           `yaml:"max_idle_conns" validate:"min=0"`
	ConnMaxLifetime    time.Duration `yaml:"-"`
	ConnMaxIdleTime    time.Duration `yaml:"-"`
	ProbeTimeout       time.Duration `yaml:"-"`
	ConnMaxLifetimeRaw string        `yaml:"conn_max_lifetime"`
	ConnMaxIdleTimeRaw string        `yaml:"conn_max_idle_time"`
	ProbeTimeoutRaw    string        `yaml:"probe_timeout" env:"PAYROLL_DB_PROBE_TIMEOUT, overwrite"`
}

// LogConfig はロガーの設定です。
type LogConfig struct {
	Level  string `yaml:"level" env:"PAYROLL_LOG_LEVEL, overwrite" validate:"omitempty,oneof=trace debug info warn warning error"`
	Pretty bool   `yaml:"pretty" env:"PAYROLL_LOG_PRETTY, overwrite"`
}

// Load は指定されたパスから設定ファイルを読み込み、PAYROLL_* 環境変数で上書きします。
func Load(path string) (*Config, error) {
	return LoadWith(context.Background(), path, envconfig.OsLookuper())
}

// LoadWith は環境変数の参照先を差し替えて設定を読み込みます。
func LoadWith(ctx context.Context, path string, lookuper envconfig.Lookuper) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if lookuper != nil {
		if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
			return nil, fmt.Errorf("config: apply env: %w", err)
		}
	}

	if err := cfg.validateAndNormalize(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validateAndNormalize() error {
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}

	if err := validator.New().Struct(c); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			msgs := make([]string, 0, len(ve))
			for _, fe := range ve {
				msgs = append(msgs, fmt.Sprintf("%s failed %s", fieldPath(fe), fe.Tag()))
			}
			return fmt.Errorf("config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("config: %w", err)
	}

	return c.Database.parseDurations()
}

// fieldPath は "Config.Database.Host" を "database.host" に変換します。
func fieldPath(fe validator.FieldError) string {
	ns := fe.StructNamespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		ns = ns[i+1:]
	}
	return strings.ToLower(ns)
}

func (d *DatabaseConfig) parseDurations() error {
	lifetime, err := parseDurationAllowEmpty(d.ConnMaxLifetimeRaw)
	if err != nil {
		return fmt.Errorf("config: database.conn_max_lifetime: %w", err)
	}
	d.ConnMaxLifetime = lifetime

	idleTime, err := parseDurationAllowEmpty(d.ConnMaxIdleTimeRaw)
	if err != nil {
		return fmt.Errorf("config: database.conn_max_idle_time: %w", err)
	}
	d.ConnMaxIdleTime = idleTime

	probe, err := parseDurationAllowEmpty(d.ProbeTimeoutRaw)
	if err != nil {
		return fmt.Errorf("config: database.probe_timeout: %w", err)
	}
	if probe <= 0 {
		probe = defaultProbeTimeout
	}
	d.ProbeTimeout = probe

	return nil
}

func parseDurationAllowEmpty(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	return time.ParseDuration(raw)
}

// DSN は pgx 用の接続文字列を返します。ユーザー名とパスワードはエスケープされます。
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:     "/" + d.Name,
		RawQuery: url.Values{"sslmode": []string{d.SSLMode}}.Encode(),
	}
	return u.String()
}
