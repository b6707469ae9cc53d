// Copyright 2026 The Slabot Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/slabot/slabot/lib/cron"
	"github.com/slabot/slabot/lib/sla"
	"github.com/slabot/slabot/lib/window"
)

// EnvConfigPath names the environment variable Load reads.
const EnvConfigPath = "SLABOT_CONFIG"

// Environment identifies the deployment type.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

// Config is the complete slabot configuration.
type Config struct {
	Environment Environment `yaml:"environment"`

	// Timezone is the IANA zone the window and schedule are evaluated in.
	Timezone string `yaml:"timezone"`

	// Schedule is the cron expression of the daily summary.
	Schedule string `yaml:"schedule"`

	Window    WindowConfig    `yaml:"window"`
	Telegram  TelegramConfig  `yaml:"telegram"`
	Endpoints EndpointsConfig `yaml:"endpoints"`
	HTTP      HTTPConfig      `yaml:"http"`
	Report    ReportConfig    `yaml:"report"`
	Ops       OpsConfig       `yaml:"ops"`

	Development *Overrides `yaml:"development,omitempty"`
	Staging     *Overrides `yaml:"staging,omitempty"`
	Production  *Overrides `yaml:"production,omitempty"`

	// Resolved by Validate.
	location  *time.Location
	startDate window.Date
	schedule  cron.Schedule
}

// Overrides holds the fields an environment section may replace.
type Overrides struct {
	Schedule  string           `yaml:"schedule,omitempty"`
	Telegram  *TelegramConfig  `yaml:"telegram,omitempty"`
	Endpoints *EndpointsConfig `yaml:"endpoints,omitempty"`
}

// WindowConfig configures the reporting window.
type WindowConfig struct {
	// StartDate is the fixed first day of every report (YYYY-MM-DD).
	StartDate string `yaml:"start_date"`
}

// TelegramConfig configures the chat transport.
type TelegramConfig struct {
	// APIURL is the Bot API base URL. Default: https://api.telegram.org
	APIURL string `yaml:"api_url"`

	// TokenEnv names the environment variable holding the bot token.
	// Used when TokenFile is empty. Default: SLABOT_TELEGRAM_TOKEN
	TokenEnv string `yaml:"token_env"`

	// TokenFile is a file holding the bot token. With IdentityFile set,
	// the file is age-encrypted.
	TokenFile string `yaml:"token_file"`

	// IdentityFile holds the age identities that decrypt TokenFile.
	IdentityFile string `yaml:"identity_file"`

	// ChatID is the destination chat: a numeric id or @channelname.
	ChatID string `yaml:"chat_id"`

	// PollTimeout is the getUpdates long-poll timeout. Default: 30s
	PollTimeout time.Duration `yaml:"poll_timeout"`
}

// EndpointsConfig holds one URL per metric endpoint.
type EndpointsConfig struct {
	Unclosed     string `yaml:"unclosed"`
	OpenInSLA    string `yaml:"open_in_sla"`
	OpenOutSLA   string `yaml:"open_out_sla"`
	Closed       string `yaml:"closed"`
	ClosedInSLA  string `yaml:"closed_in_sla"`
	ClosedOutSLA string `yaml:"closed_out_sla"`
	KIPOutSLA    string `yaml:"kip_out_sla"`
	AgingOpenOut string `yaml:"aging_open_out"`
}

// URLs returns the endpoints keyed by identifier.
func (e EndpointsConfig) URLs() map[string]string {
	return map[string]string{
		"unclosed":       e.Unclosed,
		"open_in_sla":    e.OpenInSLA,
		"open_out_sla":   e.OpenOutSLA,
		"closed":         e.Closed,
		"closed_in_sla":  e.ClosedInSLA,
		"closed_out_sla": e.ClosedOutSLA,
		"kip_out_sla":    e.KIPOutSLA,
		"aging_open_out": e.AgingOpenOut,
	}
}

// HTTPConfig configures outbound requests to the metric endpoints.
type HTTPConfig struct {
	// Timeout bounds each metric request. Default: 30s
	Timeout time.Duration `yaml:"timeout"`
}

// ReportConfig shapes report content.
type ReportConfig struct {
	// Channel is sent with the delayed and aging requests. Default: ALL
	Channel string `yaml:"channel"`

	// TopN is how many categories each bucket lists. Default: 3
	TopN int `yaml:"top_n"`

	// ExcludedBuckets are never ranked. Default: [sla_7]
	ExcludedBuckets []string `yaml:"excluded_buckets"`

	// SLALabels replaces the default bucket table when non-empty.
	SLALabels map[string]SLALabel `yaml:"sla_labels"`

	// Notice is optional Markdown appended to the summary report.
	Notice string `yaml:"notice"`
}

// SLALabel is one bucket table entry. A missing severity is taken from
// the digits in Label.
type SLALabel struct {
	Label    string `yaml:"label"`
	Severity *int   `yaml:"severity"`
}

// OpsConfig configures the operational HTTP API.
type OpsConfig struct {
	// Listen is the API address; empty disables the API.
	Listen string `yaml:"listen"`
}

// Default returns the configuration every file is layered over.
func Default() *Config {
	return &Config{
		Environment: Production,
		Timezone:    "Asia/Jakarta",
		Schedule:    "0 8 * * *",
		Window: WindowConfig{
			StartDate: "2024-01-01",
		},
		Telegram: TelegramConfig{
			APIURL:      "https://api.telegram.org",
			TokenEnv:    "SLABOT_TELEGRAM_TOKEN",
			PollTimeout: 30 * time.Second,
		},
		HTTP: HTTPConfig{
			Timeout: 30 * time.Second,
		},
		Report: ReportConfig{
			Channel:         "ALL",
			TopN:            3,
			ExcludedBuckets: sla.DefaultExcluded(),
		},
	}
}

// Load reads the file named by SLABOT_CONFIG.
func Load() (*Config, error) {
	path := os.Getenv(EnvConfigPath)
	if path == "" {
		return nil, fmt.Errorf("config: %s is not set; point it at a slabot.yaml or pass --config", EnvConfigPath)
	}
	return LoadFile(path)
}

// LoadFile reads, expands and validates the file at path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes data over Default and validates the result. extension
// selects the syntax: ".json" and ".jsonc" are JSONC, anything else is
// YAML.
func Parse(data []byte, extension string) (*Config, error) {
	switch strings.ToLower(extension) {
	case ".json", ".jsonc":
		data = jsonc.ToJSON(data)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.applyOverrides()
	cfg.expandVariables()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyOverrides() {
	var overrides *Overrides
	switch c.Environment {
	case Development:
		overrides = c.Development
	case Staging:
		overrides = c.Staging
	case Production:
		overrides = c.Production
	}
	if overrides == nil {
		return
	}

	if overrides.Schedule != "" {
		c.Schedule = overrides.Schedule
	}
	if telegram := overrides.Telegram; telegram != nil {
		overlay(&c.Telegram.APIURL, telegram.APIURL)
		overlay(&c.Telegram.TokenEnv, telegram.TokenEnv)
		overlay(&c.Telegram.TokenFile, telegram.TokenFile)
		overlay(&c.Telegram.IdentityFile, telegram.IdentityFile)
		overlay(&c.Telegram.ChatID, telegram.ChatID)
		if telegram.PollTimeout != 0 {
			c.Telegram.PollTimeout = telegram.PollTimeout
		}
	}
	if endpoints := overrides.Endpoints; endpoints != nil {
		overlay(&c.Endpoints.Unclosed, endpoints.Unclosed)
		overlay(&c.Endpoints.OpenInSLA, endpoints.OpenInSLA)
		overlay(&c.Endpoints.OpenOutSLA, endpoints.OpenOutSLA)
		overlay(&c.Endpoints.Closed, endpoints.Closed)
		overlay(&c.Endpoints.ClosedInSLA, endpoints.ClosedInSLA)
		overlay(&c.Endpoints.ClosedOutSLA, endpoints.ClosedOutSLA)
		overlay(&c.Endpoints.KIPOutSLA, endpoints.KIPOutSLA)
		overlay(&c.Endpoints.AgingOpenOut, endpoints.AgingOpenOut)
	}
}

func overlay(target *string, value string) {
	if value != "" {
		*target = value
	}
}

func (c *Config) expandVariables() {
	fields := []*string{
		&c.Timezone,
		&c.Telegram.APIURL,
		&c.Telegram.TokenFile,
		&c.Telegram.IdentityFile,
		&c.Telegram.ChatID,
		&c.Endpoints.Unclosed,
		&c.Endpoints.OpenInSLA,
		&c.Endpoints.OpenOutSLA,
		&c.Endpoints.Closed,
		&c.Endpoints.ClosedInSLA,
		&c.Endpoints.ClosedOutSLA,
		&c.Endpoints.KIPOutSLA,
		&c.Endpoints.AgingOpenOut,
		&c.Ops.Listen,
	}
	for _, field := range fields {
		*field = expandVars(*field)
	}
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars replaces ${VAR} and ${VAR:-default}. Unset or empty
// variables take the default, or expand to nothing.
func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		return parts[2]
	})
}

// Validate checks every field needed to generate reports and resolves
// the zone, start date and schedule. Telegram fields are checked
// separately by ValidateDelivery.
func (c *Config) Validate() error {
	var errs []error

	switch c.Environment {
	case Development, Staging, Production:
	default:
		errs = append(errs, fmt.Errorf("invalid environment %q", c.Environment))
	}

	location, err := time.LoadLocation(c.Timezone)
	if err != nil || c.Timezone == "" {
		errs = append(errs, fmt.Errorf("timezone: unknown zone %q", c.Timezone))
	} else {
		c.location = location
	}

	if start, err := window.ParseDate(c.Window.StartDate); err != nil {
		errs = append(errs, fmt.Errorf("window.start_date: %w", err))
	} else {
		c.startDate = start
	}

	if c.location != nil {
		if schedule, err := cron.ParseInLocation(c.Schedule, c.location); err != nil {
			errs = append(errs, fmt.Errorf("schedule: %w", err))
		} else {
			c.schedule = schedule
		}
	}

	for name, raw := range c.Endpoints.URLs() {
		if err := checkHTTPURL(raw); err != nil {
			errs = append(errs, fmt.Errorf("endpoints.%s: %w", name, err))
		}
	}

	if c.HTTP.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("http.timeout must be positive"))
	}
	if c.Report.TopN <= 0 {
		errs = append(errs, fmt.Errorf("report.top_n must be positive, got %d", c.Report.TopN))
	}
	if c.Report.Channel == "" {
		errs = append(errs, fmt.Errorf("report.channel is required"))
	}
	for key, label := range c.Report.SLALabels {
		if label.Label == "" {
			errs = append(errs, fmt.Errorf("report.sla_labels.%s.label is required", key))
		}
	}

	return errors.Join(errs...)
}

// ValidateDelivery checks the fields needed to talk to Telegram.
func (c *Config) ValidateDelivery() error {
	var errs []error
	if err := checkHTTPURL(c.Telegram.APIURL); err != nil {
		errs = append(errs, fmt.Errorf("telegram.api_url: %w", err))
	}
	if c.Telegram.ChatID == "" {
		errs = append(errs, fmt.Errorf("telegram.chat_id is required"))
	}
	if c.Telegram.TokenFile == "" && c.Telegram.TokenEnv == "" {
		errs = append(errs, fmt.Errorf("telegram: set token_file or token_env"))
	}
	if c.Telegram.IdentityFile != "" && c.Telegram.TokenFile == "" {
		errs = append(errs, fmt.Errorf("telegram.identity_file requires telegram.token_file"))
	}
	if c.Telegram.PollTimeout < time.Second {
		errs = append(errs, fmt.Errorf("telegram.poll_timeout must be at least 1s"))
	}
	return errors.Join(errs...)
}

func checkHTTPURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("URL is required")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("URL %q must be http or https", raw)
	}
	if parsed.Host == "" {
		return fmt.Errorf("URL %q has no host", raw)
	}
	return nil
}

// Location returns the resolved time zone.
func (c *Config) Location() *time.Location { return c.location }

// StartDate returns the resolved window start date.
func (c *Config) StartDate() window.Date { return c.startDate }

// CronSchedule returns the resolved daily schedule.
func (c *Config) CronSchedule() cron.Schedule { return c.schedule }

// SLATable returns the bucket table: the configured labels when any are
// set, otherwise the default table.
func (c *Config) SLATable() sla.Table {
	if len(c.Report.SLALabels) == 0 {
		return sla.DefaultTable()
	}
	table := make(sla.Table, len(c.Report.SLALabels))
	for key, label := range c.Report.SLALabels {
		severity := sla.SeverityFromText(label.Label)
		if label.Severity != nil {
			severity = *label.Severity
		}
		table[key] = sla.Label{Text: label.Label, Severity: severity}
	}
	return table
}
