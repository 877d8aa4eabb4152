// Package config loads the application configuration from a file and the
// environment.
package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/de-tools/estimator/pkg/assembler"
	"github.com/de-tools/estimator/pkg/export"
	"github.com/de-tools/estimator/pkg/layout"
	"github.com/de-tools/estimator/pkg/models/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. ESTIMATOR_SERVER_PORT.
const EnvPrefix = "ESTIMATOR"

type PageConfig struct {
	Width        float64 `mapstructure:"width"`
	Height       float64 `mapstructure:"height"`
	MarginTop    float64 `mapstructure:"margin_top"`
	MarginBottom float64 `mapstructure:"margin_bottom"`
	MarginLeft   float64 `mapstructure:"margin_left"`
	MarginRight  float64 `mapstructure:"margin_right"`
}

// PricingConfig keeps percentages as strings so they parse to exact decimals.
type PricingConfig struct {
	TaxPercent            string   `mapstructure:"tax_percent"`
	DeductionPercent      string   `mapstructure:"deduction_percent"`
	AddonsAfterTax        []string `mapstructure:"addons_after_tax"`
	ShowNetAfterDeduction bool     `mapstructure:"show_net_after_deduction"`
}

// LocaleConfig overrides the Swedish defaults. Empty fields keep the default.
type LocaleConfig struct {
	ThousandsSeparator string `mapstructure:"thousands_separator"`
	DecimalSeparator   string `mapstructure:"decimal_separator"`
	CurrencySuffix     string `mapstructure:"currency_suffix"`
	Placeholder        string `mapstructure:"placeholder"`
}

type StoreConfig struct {
	Driver string `mapstructure:"driver"` // sqlite or postgres
	DSN    string `mapstructure:"dsn"`
}

type ObjectsConfig struct {
	Backend         string `mapstructure:"backend"` // fs or s3
	Dir             string `mapstructure:"dir"`
	Bucket          string `mapstructure:"bucket"`
	Region          string `mapstructure:"region"`
	Profile         string `mapstructure:"profile"`
	Endpoint        string `mapstructure:"endpoint"`
	Prefix          string `mapstructure:"prefix"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	PathStyle       bool   `mapstructure:"path_style"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
}

type Config struct {
	Page    PageConfig    `mapstructure:"page"`
	Pricing PricingConfig `mapstructure:"pricing"`
	Locale  LocaleConfig  `mapstructure:"locale"`
	Store   StoreConfig   `mapstructure:"store"`
	Objects ObjectsConfig `mapstructure:"objects"`
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
}

func setDefaults(v *viper.Viper) {
	page := layout.A4()
	v.SetDefault("page.width", page.Width)
	v.SetDefault("page.height", page.Height)
	v.SetDefault("page.margin_top", page.MarginTop)
	v.SetDefault("page.margin_bottom", page.MarginBottom)
	v.SetDefault("page.margin_left", page.MarginLeft)
	v.SetDefault("page.margin_right", page.MarginRight)

	v.SetDefault("pricing.tax_percent", "25")
	v.SetDefault("pricing.deduction_percent", "30")
	v.SetDefault("pricing.addons_after_tax", []string{})
	v.SetDefault("pricing.show_net_after_deduction", true)

	v.SetDefault("locale.thousands_separator", "")
	v.SetDefault("locale.decimal_separator", "")
	v.SetDefault("locale.currency_suffix", "")
	v.SetDefault("locale.placeholder", "")

	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.dsn", "estimator.db")

	v.SetDefault("objects.backend", "fs")
	v.SetDefault("objects.dir", "documents")
	v.SetDefault("objects.bucket", "")
	v.SetDefault("objects.region", "eu-north-1")
	v.SetDefault("objects.profile", "")
	v.SetDefault("objects.endpoint", "")
	v.SetDefault("objects.prefix", "")
	v.SetDefault("objects.access_key_id", "")
	v.SetDefault("objects.secret_access_key", "")
	v.SetDefault("objects.path_style", false)

	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Load reads path when given, then applies ESTIMATOR_* environment
// overrides on top of the defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Address() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

func parsePercent(name, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("pricing.%s: %w", name, err)
	}
	if d.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("pricing.%s must not be negative, got %s", name, d)
	}
	return d, nil
}

// Engine builds the immutable document engine configuration.
func (c *Config) Engine() (assembler.Config, error) {
	out := assembler.DefaultConfig()
	out.Measurer = export.MeasurerFactory

	out.Page = layout.PageSpec{
		Width:        c.Page.Width,
		Height:       c.Page.Height,
		MarginTop:    c.Page.MarginTop,
		MarginBottom: c.Page.MarginBottom,
		MarginLeft:   c.Page.MarginLeft,
		MarginRight:  c.Page.MarginRight,
	}
	if out.Page.ContentWidth() <= 0 || out.Page.Height-out.Page.MarginTop-out.Page.MarginBottom <= 0 {
		return assembler.Config{}, fmt.Errorf("page margins leave no room for content")
	}

	tax, err := parsePercent("tax_percent", c.Pricing.TaxPercent)
	if err != nil {
		return assembler.Config{}, err
	}
	deduction, err := parsePercent("deduction_percent", c.Pricing.DeductionPercent)
	if err != nil {
		return assembler.Config{}, err
	}
	afterTax := map[domain.Kind]bool{}
	for _, s := range c.Pricing.AddonsAfterTax {
		kind, err := domain.ParseKind(strings.TrimSpace(s))
		if err != nil {
			return assembler.Config{}, fmt.Errorf("pricing.addons_after_tax: %w", err)
		}
		afterTax[kind] = true
	}
	out.Pricing = assembler.PricingConfig{
		TaxPercent:            tax,
		DeductionPercent:      deduction,
		AddonsAfterTax:        afterTax,
		ShowNetAfterDeduction: c.Pricing.ShowNetAfterDeduction,
	}

	locale := out.Locale
	if c.Locale.ThousandsSeparator != "" {
		locale.ThousandsSeparator = c.Locale.ThousandsSeparator
	}
	if c.Locale.DecimalSeparator != "" {
		locale.DecimalSeparator = c.Locale.DecimalSeparator
	}
	if c.Locale.CurrencySuffix != "" {
		locale.CurrencySuffix = c.Locale.CurrencySuffix
	}
	if c.Locale.Placeholder != "" {
		locale.Placeholder = c.Locale.Placeholder
	}
	out.Locale = locale

	return out, nil
}
