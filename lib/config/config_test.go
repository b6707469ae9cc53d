// Copyright 2026 The Slabot Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/slabot/slabot/lib/testutil"
)

const endpointsYAML = `
endpoints:
  unclosed: https://metrics.example/unclosed
  open_in_sla: https://metrics.example/open-in
  open_out_sla: https://metrics.example/open-out
  closed: https://metrics.example/closed
  closed_in_sla: https://metrics.example/closed-in
  closed_out_sla: https://metrics.example/closed-out
  kip_out_sla: https://metrics.example/kip
  aging_open_out: https://metrics.example/aging
`

func TestDefaultNeedsEndpoints(t *testing.T) {
	err := Default().Validate()
	if err == nil {
		t.Fatal("Validate() on defaults should fail without endpoints")
	}
	if !strings.Contains(err.Error(), "endpoints.unclosed") {
		t.Errorf("error = %v, want mention of endpoints.unclosed", err)
	}
}

func TestParseYAMLDefaults(t *testing.T) {
	cfg, err := Parse([]byte(endpointsYAML), ".yaml")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Location().String() != "Asia/Jakarta" {
		t.Errorf("Location() = %s, want Asia/Jakarta", cfg.Location())
	}
	if got := cfg.StartDate().String(); got != "2024-01-01" {
		t.Errorf("StartDate() = %s, want 2024-01-01", got)
	}
	if got := cfg.CronSchedule().String(); got != "0 8 * * *" {
		t.Errorf("CronSchedule() = %q, want %q", got, "0 8 * * *")
	}
	if cfg.Report.TopN != 3 || cfg.Report.Channel != "ALL" {
		t.Errorf("report = %+v, want top_n 3 and channel ALL", cfg.Report)
	}
	if len(cfg.Report.ExcludedBuckets) != 1 || cfg.Report.ExcludedBuckets[0] != "sla_7" {
		t.Errorf("ExcludedBuckets = %v, want [sla_7]", cfg.Report.ExcludedBuckets)
	}
	if cfg.HTTP.Timeout != 30*time.Second {
		t.Errorf("HTTP.Timeout = %v, want 30s", cfg.HTTP.Timeout)
	}
	if cfg.Endpoints.KIPOutSLA != "https://metrics.example/kip" {
		t.Errorf("KIPOutSLA = %q", cfg.Endpoints.KIPOutSLA)
	}
}

func TestParseYAMLOverlay(t *testing.T) {
	data := endpointsYAML + `
timezone: UTC
schedule: "30 6 * * 1-5"
window:
  start_date: "2025-03-01"
http:
  timeout: 5s
report:
  top_n: 5
  excluded_buckets: []
`
	cfg, err := Parse([]byte(data), ".yml")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Location() != time.UTC {
		t.Errorf("Location() = %v, want UTC", cfg.Location())
	}
	if got := cfg.StartDate().String(); got != "2025-03-01" {
		t.Errorf("StartDate() = %s", got)
	}
	if cfg.CronSchedule().Location() != time.UTC {
		t.Errorf("schedule location = %v, want UTC", cfg.CronSchedule().Location())
	}
	if cfg.HTTP.Timeout != 5*time.Second {
		t.Errorf("HTTP.Timeout = %v", cfg.HTTP.Timeout)
	}
	if cfg.Report.TopN != 5 {
		t.Errorf("TopN = %d", cfg.Report.TopN)
	}
	if len(cfg.Report.ExcludedBuckets) != 0 {
		t.Errorf("ExcludedBuckets = %v, want empty", cfg.Report.ExcludedBuckets)
	}
}

func TestParseJSONC(t *testing.T) {
	data := `{
  // destination chat
  "telegram": {"chat_id": "-100123", "token_env": "BOT_TOKEN",},
  "timezone": "UTC",
  "endpoints": {
    "unclosed": "http://m/u", "open_in_sla": "http://m/oi",
    "open_out_sla": "http://m/oo", "closed": "http://m/c",
    "closed_in_sla": "http://m/ci", "closed_out_sla": "http://m/co",
    "kip_out_sla": "http://m/k", "aging_open_out": "http://m/a", /* trailing */
  },
}`
	cfg, err := Parse([]byte(data), ".jsonc")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Telegram.ChatID != "-100123" || cfg.Telegram.TokenEnv != "BOT_TOKEN" {
		t.Errorf("telegram = %+v", cfg.Telegram)
	}
	if cfg.Endpoints.AgingOpenOut != "http://m/a" {
		t.Errorf("AgingOpenOut = %q", cfg.Endpoints.AgingOpenOut)
	}
	if err := cfg.ValidateDelivery(); err != nil {
		t.Errorf("ValidateDelivery: %v", err)
	}
}

func TestValidateCollectsErrors(t *testing.T) {
	data := endpointsYAML + `
timezone: Mars/Olympus
window:
  start_date: "2024-13-01"
report:
  top_n: 0
`
	_, err := Parse([]byte(data), ".yaml")
	if err == nil {
		t.Fatal("Parse should fail")
	}
	for _, want := range []string{"timezone", "window.start_date", "report.top_n"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestValidateEndpointURLs(t *testing.T) {
	data := strings.Replace(endpointsYAML, "https://metrics.example/closed\n", "ftp://metrics.example/closed\n", 1)
	_, err := Parse([]byte(data), ".yaml")
	if err == nil || !strings.Contains(err.Error(), "endpoints.closed:") {
		t.Fatalf("Parse error = %v, want endpoints.closed failure", err)
	}
}

func TestInvalidSchedule(t *testing.T) {
	_, err := Parse([]byte(endpointsYAML+"schedule: \"61 8 * * *\"\n"), ".yaml")
	if err == nil || !strings.Contains(err.Error(), "schedule:") {
		t.Fatalf("Parse error = %v, want schedule failure", err)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	data := endpointsYAML + `
environment: staging
telegram:
  chat_id: "-1001"
staging:
  schedule: "0 9 * * *"
  telegram:
    chat_id: "-2002"
  endpoints:
    unclosed: https://staging.example/unclosed
production:
  telegram:
    chat_id: "-3003"
`
	cfg, err := Parse([]byte(data), ".yaml")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Telegram.ChatID != "-2002" {
		t.Errorf("ChatID = %q, want staging override", cfg.Telegram.ChatID)
	}
	if cfg.Schedule != "0 9 * * *" {
		t.Errorf("Schedule = %q", cfg.Schedule)
	}
	if cfg.Endpoints.Unclosed != "https://staging.example/unclosed" {
		t.Errorf("Unclosed = %q", cfg.Endpoints.Unclosed)
	}
	if cfg.Endpoints.Closed != "https://metrics.example/closed" {
		t.Errorf("Closed = %q, want base value", cfg.Endpoints.Closed)
	}
}

func TestExpandVars(t *testing.T) {
	t.Setenv("SLABOT_TEST_HOST", "metrics.internal")
	t.Setenv("SLABOT_TEST_EMPTY", "")

	tests := []struct {
		input string
		want  string
	}{
		{"plain", "plain"},
		{"https://${SLABOT_TEST_HOST}/x", "https://metrics.internal/x"},
		{"${SLABOT_TEST_UNSET:-fallback}", "fallback"},
		{"${SLABOT_TEST_EMPTY:-fallback}", "fallback"},
		{"${SLABOT_TEST_UNSET}", ""},
		{"${SLABOT_TEST_HOST:-other}", "metrics.internal"},
	}
	for _, test := range tests {
		if got := expandVars(test.input); got != test.want {
			t.Errorf("expandVars(%q) = %q, want %q", test.input, got, test.want)
		}
	}
}

func TestLoadFileExpandsEndpoints(t *testing.T) {
	t.Setenv("SLABOT_TEST_BASE", "https://reports.internal")
	data := strings.ReplaceAll(endpointsYAML, "https://metrics.example", "${SLABOT_TEST_BASE}")
	path := testutil.WriteFile(t, t.TempDir(), "slabot.yaml", data)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Endpoints.Unclosed != "https://reports.internal/unclosed" {
		t.Errorf("Unclosed = %q", cfg.Endpoints.Unclosed)
	}
}

func TestLoadUsesEnvironment(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	if _, err := Load(); err == nil {
		t.Fatal("Load with SLABOT_CONFIG unset should fail")
	}

	path := testutil.WriteFile(t, t.TempDir(), "slabot.yaml", endpointsYAML)
	t.Setenv(EnvConfigPath, path)
	if _, err := Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
}

func TestValidateDelivery(t *testing.T) {
	cfg, err := Parse([]byte(endpointsYAML), ".yaml")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	err = cfg.ValidateDelivery()
	if err == nil || !strings.Contains(err.Error(), "telegram.chat_id") {
		t.Fatalf("ValidateDelivery error = %v, want chat_id failure", err)
	}

	cfg.Telegram.ChatID = "@ops"
	cfg.Telegram.IdentityFile = "/etc/slabot/key.txt"
	err = cfg.ValidateDelivery()
	if err == nil || !strings.Contains(err.Error(), "identity_file requires") {
		t.Fatalf("ValidateDelivery error = %v, want identity_file failure", err)
	}
}

func TestSLATable(t *testing.T) {
	data := endpointsYAML + `
report:
  sla_labels:
    sla_2:
      label: 2HK
    sla_30:
      label: Critical
      severity: 99
`
	cfg, err := Parse([]byte(data), ".yaml")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	table := cfg.SLATable()
	if got := table["sla_2"]; got.Text != "2HK" || got.Severity != 2 {
		t.Errorf("sla_2 = %+v, want 2HK/2", got)
	}
	if got := table["sla_30"]; got.Text != "Critical" || got.Severity != 99 {
		t.Errorf("sla_30 = %+v, want Critical/99", got)
	}
	if _, ok := table["sla_1"]; ok {
		t.Error("configured labels should replace the default table")
	}

	defaults, err := Parse([]byte(endpointsYAML), ".yaml")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := defaults.SLATable()["sla_14"]; got.Text != "14HK" || got.Severity != 14 {
		t.Errorf("default sla_14 = %+v", got)
	}
}
