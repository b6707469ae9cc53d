// Copyright 2026 The Slabot Authors
// SPDX-License-Identifier: Apache-2.0

package opsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/slabot/slabot/bot"
	"github.com/slabot/slabot/lib/version"
	"github.com/slabot/slabot/lib/window"
	"github.com/slabot/slabot/report"
)

// Runner is the part of bot.Shell the API drives.
type Runner interface {
	Run(ctx context.Context, trigger bot.Trigger, kinds ...report.Kind) error
	Status() bot.Status
}

// Config holds configuration for New.
type Config struct {
	Runner Runner
	// Window returns the window a report would cover right now.
	Window func() window.Window
	// RunContext parents background report runs, so they outlive the
	// request that started them. If nil, context.Background() is used.
	RunContext context.Context
	Logger     *slog.Logger
}

// API holds the handler state.
type API struct {
	runner     Runner
	window     func() window.Window
	runContext context.Context
	logger     *slog.Logger
	ready      atomic.Bool

	// runs tracks reports started without ?wait=true.
	runs sync.WaitGroup
}

// New creates an API. It reports not-ready until SetReady(true).
func New(config Config) (*API, error) {
	if config.Runner == nil {
		return nil, fmt.Errorf("opsapi: Runner is required")
	}
	if config.Window == nil {
		return nil, fmt.Errorf("opsapi: Window is required")
	}
	runContext := config.RunContext
	if runContext == nil {
		runContext = context.Background()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &API{
		runner:     config.Runner,
		window:     config.Window,
		runContext: runContext,
		logger:     logger,
	}, nil
}

// SetReady flips the readiness probe.
func (a *API) SetReady(ready bool) {
	a.ready.Store(ready)
}

// Wait blocks until every background report run has returned. Call it
// after the server has stopped accepting requests.
func (a *API) Wait() {
	a.runs.Wait()
}

// Router returns the routes without middleware.
func (a *API) Router() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/health/live", a.live).Methods(http.MethodGet)
	router.HandleFunc("/health/ready", a.readiness).Methods(http.MethodGet)
	router.HandleFunc("/v1/status", a.status).Methods(http.MethodGet)
	router.HandleFunc("/v1/reports/{kind}", a.trigger).Methods(http.MethodPost)
	router.NotFoundHandler = http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writeError(writer, http.StatusNotFound, "no route for "+request.URL.Path)
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writeError(writer, http.StatusMethodNotAllowed, request.Method+" not allowed on "+request.URL.Path)
	})
	return router
}

// Handler returns the routes wrapped in access logging and panic
// recovery.
func (a *API) Handler() http.Handler {
	logWriter := &lineLogger{logger: a.logger}
	recovered := handlers.RecoveryHandler(
		handlers.RecoveryLogger(logWriter),
		handlers.PrintRecoveryStack(false),
	)(a.Router())
	return handlers.LoggingHandler(logWriter, recovered)
}

func (a *API) live(writer http.ResponseWriter, request *http.Request) {
	writeJSON(writer, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) readiness(writer http.ResponseWriter, request *http.Request) {
	if !a.ready.Load() {
		writeJSON(writer, http.StatusServiceUnavailable, map[string]string{"status": "starting"})
		return
	}
	writeJSON(writer, http.StatusOK, map[string]string{"status": "ready"})
}

type windowResponse struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Label     string `json:"label"`
}

type statusResponse struct {
	Version string         `json:"version"`
	Window  windowResponse `json:"window"`
	Reports bot.Status     `json:"reports"`
}

func (a *API) status(writer http.ResponseWriter, request *http.Request) {
	current := a.window()
	writeJSON(writer, http.StatusOK, statusResponse{
		Version: version.Info(),
		Window: windowResponse{
			StartDate: current.StartDate(),
			EndDate:   current.EndDate(),
			Label:     current.Label(),
		},
		Reports: a.runner.Status(),
	})
}

type triggerResponse struct {
	Kinds    []report.Kind `json:"kinds"`
	Accepted bool          `json:"accepted,omitempty"`
	Error    string        `json:"error,omitempty"`
}

// Kinds maps a report request name to the reports it delivers.
func Kinds(name string) ([]report.Kind, bool) {
	switch strings.ToLower(name) {
	case "summary":
		return []report.Kind{report.Summary}, true
	case "detail":
		return []report.Kind{report.Detail}, true
	case "all":
		return []report.Kind{report.Summary, report.Detail}, true
	default:
		return nil, false
	}
}

func (a *API) trigger(writer http.ResponseWriter, request *http.Request) {
	name := mux.Vars(request)["kind"]
	kinds, ok := Kinds(name)
	if !ok {
		writeError(writer, http.StatusNotFound, fmt.Sprintf("unknown report %q (want summary, detail or all)", name))
		return
	}

	if request.URL.Query().Get("wait") == "true" {
		if err := a.runner.Run(request.Context(), bot.TriggerAPI, kinds...); err != nil {
			writeJSON(writer, http.StatusBadGateway, triggerResponse{Kinds: kinds, Error: err.Error()})
			return
		}
		writeJSON(writer, http.StatusOK, triggerResponse{Kinds: kinds})
		return
	}

	a.runs.Add(1)
	go func() {
		defer a.runs.Done()
		if err := a.runner.Run(a.runContext, bot.TriggerAPI, kinds...); err != nil {
			a.logger.Warn("api-triggered report failed", "report", name, "error", err)
		}
	}()
	writeJSON(writer, http.StatusAccepted, triggerResponse{Kinds: kinds, Accepted: true})
}

func writeJSON(writer http.ResponseWriter, status int, body any) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	json.NewEncoder(writer).Encode(body)
}

func writeError(writer http.ResponseWriter, status int, message string) {
	writeJSON(writer, status, map[string]string{"error": message})
}

// lineLogger forwards access-log lines and recovered panics to slog.
type lineLogger struct {
	logger *slog.Logger
}

func (l *lineLogger) Write(p []byte) (int, error) {
	l.logger.Info("ops api request", "access", strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

func (l *lineLogger) Println(values ...any) {
	l.logger.Error("ops api handler panic", "panic", strings.TrimRight(fmt.Sprintln(values...), "\n"))
}
