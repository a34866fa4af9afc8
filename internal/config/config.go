package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"spectux-billing/internal/domain/model"
)

type RuntimeConfig struct {
	Dev bool
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type ServerConfig struct {
	Port          int    `yaml:"port"`
	PublicBaseURL string `yaml:"public_base_url"` // externally reachable base, used for the webhook callback
	CORSOrigin    string `yaml:"cors_origin"`     // Access-Control-Allow-Origin value
}

type MollieConfig struct {
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url"` // override for tests; defaults to the live API
	Currency string `yaml:"currency"`
}

// PlanConfig is one catalog entry as written in YAML. Amounts are decimal
// strings ("10.00") to keep money out of floats.
type PlanConfig struct {
	Key         string `yaml:"key"`
	Amount      string `yaml:"amount"`
	Interval    string `yaml:"interval"` // daily | monthly
	Description string `yaml:"description"`
}

type MailConfig struct {
	PublicKey  string `yaml:"public_key"`
	PrivateKey string `yaml:"private_key"`
	FromEmail  string `yaml:"from_email"`
	FromName   string `yaml:"from_name"`
	Subject    string `yaml:"subject"`
}

type SheetsConfig struct {
	ServiceEmail string `yaml:"service_email"`
	PrivateKey   string `yaml:"private_key"` // PKCS#8 PEM of the service account
	SheetID      string `yaml:"sheet_id"`
	Range        string `yaml:"range"`
}

type Config struct {
	Log    LogConfig    `yaml:"log"`
	Server ServerConfig `yaml:"server"`
	Mollie MollieConfig `yaml:"mollie"`
	Plans  []PlanConfig `yaml:"plans"`
	Mail   MailConfig   `yaml:"mail"`
	Sheets SheetsConfig `yaml:"sheets"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// defaults
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.CORSOrigin == "" {
		cfg.Server.CORSOrigin = "*"
	}
	if cfg.Mollie.Currency == "" {
		cfg.Mollie.Currency = "EUR"
	}
	if cfg.Mail.Subject == "" {
		cfg.Mail.Subject = "Registration Confirmation"
	}
	if cfg.Sheets.Range == "" {
		cfg.Sheets.Range = "Sheet1!A:Z"
	}

	// Minimal validation
	if cfg.Mollie.APIKey == "" {
		return nil, errors.New("mollie.api_key is required")
	}
	if cfg.Server.PublicBaseURL == "" {
		return nil, errors.New("server.public_base_url is required")
	}
	if len(cfg.Plans) == 0 {
		return nil, errors.New("at least one plan must be configured")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

// WebhookURL is the self-referential callback location embedded into every
// first payment.
func (c *Config) WebhookURL() string {
	return strings.TrimRight(c.Server.PublicBaseURL, "/") + "/webhook"
}

// Catalog converts the YAML plan entries into validated domain definitions.
func (c *Config) Catalog() ([]*model.PlanDefinition, error) {
	defs := make([]*model.PlanDefinition, 0, len(c.Plans))
	for _, p := range c.Plans {
		price, err := decimal.NewFromString(p.Amount)
		if err != nil {
			return nil, fmt.Errorf("plan %q: invalid amount %q: %w", p.Key, p.Amount, err)
		}
		def, err := model.NewPlanDefinition(p.Key, p.Description, price, model.Interval(p.Interval))
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}
