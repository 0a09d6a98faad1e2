package configs

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	App struct {
		Name     string `koanf:"name"`
		HTTPAddr string `koanf:"http_addr"`
		LogLevel string `koanf:"log_level"`
		LogFile  string `koanf:"log_file"`
	} `koanf:"app"`

	HTTP struct {
		ReadTimeout  time.Duration `koanf:"read_timeout"`
		WriteTimeout time.Duration `koanf:"write_timeout"`
		IdleTimeout  time.Duration `koanf:"idle_timeout"`
	} `koanf:"http"`

	MySQL struct {
		DSN             string        `koanf:"dsn"`
		MaxOpenConns    int           `koanf:"max_open_conns"`
		MaxIdleConns    int           `koanf:"max_idle_conns"`
		ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	} `koanf:"mysql"`

	Redis struct {
		Addr      string        `koanf:"addr"`
		Password  string        `koanf:"password"`
		PriceTTL  time.Duration `koanf:"price_ttl"`
		StatusTTL time.Duration `koanf:"status_ttl"`
	} `koanf:"redis"`

	Pricing struct {
		// TaxRate is a fraction, e.g. 0.15. Supplied here, never hard-coded
		// in the engine.
		TaxRate float64 `koanf:"tax_rate"`
	} `koanf:"pricing"`

	Payment struct {
		// SettledStatus is the single processor status value that settles an
		// order. Everything else is rejected.
		SettledStatus string `koanf:"settled_status"`
		WebhookSecret string `koanf:"webhook_secret"`
	} `koanf:"payment"`

	Rabbit struct {
		URL      string `koanf:"url"`
		Exchange string `koanf:"exchange"`
	} `koanf:"rabbitmq"`

	Kafka struct {
		Brokers      []string `koanf:"brokers"`
		GroupID      string   `koanf:"group_id"`
		CaptureTopic string   `koanf:"capture_topic"`
	} `koanf:"kafka"`

	Security struct {
		JWTSecret string        `koanf:"jwt_secret"`
		Issuer    string        `koanf:"issuer"`
		Audience  string        `koanf:"audience"`
		TTL       time.Duration `koanf:"ttl"`
	} `koanf:"security"`
}

func Load(pathDir, envName string) (Config, error) {
	k := koanf.New(".")
	// 1) base
	if err := k.Load(file.Provider(fmt.Sprintf("%s/base.yaml", pathDir)), yaml.Parser()); err != nil {
		return Config{}, fmt.Errorf("load base: %w", err)
	}

	// 2) env override (dev/staging/prod). Optional: allow missing for local runs.
	_ = k.Load(file.Provider(fmt.Sprintf("%s/%s.yaml", pathDir, envName)), yaml.Parser())

	// 3) environment variables override (prefix TESLO_, nested with __)
	// e.g. TESLO_MYSQL__DSN, TESLO_PAYMENT__WEBHOOK_SECRET
	if err := k.Load(env.Provider("TESLO_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "TESLO_")
		s = strings.ReplaceAll(s, "__", ".")
		return strings.ToLower(s)
	}), nil); err != nil {
		return Config{}, fmt.Errorf("env overlay: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.App.HTTPAddr == "" {
		return fmt.Errorf("app.http_addr required")
	}
	if c.MySQL.DSN == "" {
		return fmt.Errorf("mysql.dsn required")
	}
	if c.Pricing.TaxRate < 0 || c.Pricing.TaxRate >= 1 {
		return fmt.Errorf("pricing.tax_rate must be a fraction in [0,1)")
	}
	if c.Payment.SettledStatus == "" {
		return fmt.Errorf("payment.settled_status required")
	}
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("security.jwt_secret required")
	}
	return nil
}
