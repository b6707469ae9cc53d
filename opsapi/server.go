// Copyright 2026 The Slabot Authors
// SPDX-License-Identifier: Apache-2.0

package opsapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// ServerConfig configures a Server.
type ServerConfig struct {
	// Address is the TCP listen address, e.g. "127.0.0.1:9310". Port 0
	// picks a free port; see Addr.
	Address string
	Handler http.Handler
	// ShutdownTimeout bounds graceful shutdown. Zero means 10s.
	ShutdownTimeout time.Duration
	Logger          *slog.Logger
}

// Server serves a handler on a TCP listener until its context ends.
type Server struct {
	address         string
	handler         http.Handler
	shutdownTimeout time.Duration
	logger          *slog.Logger

	ready chan struct{}
	addr  net.Addr
}

// NewServer creates a Server. Call Serve to start it.
func NewServer(config ServerConfig) (*Server, error) {
	if config.Address == "" {
		return nil, fmt.Errorf("opsapi: Address is required")
	}
	if config.Handler == nil {
		return nil, fmt.Errorf("opsapi: Handler is required")
	}
	timeout := config.ShutdownTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		address:         config.Address,
		handler:         config.Handler,
		shutdownTimeout: timeout,
		logger:          logger,
		ready:           make(chan struct{}),
	}, nil
}

// Ready is closed once the listener is bound.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the bound address. Only valid after Ready is closed.
func (s *Server) Addr() net.Addr {
	return s.addr
}

// Serve blocks until ctx is cancelled, then stops accepting
// connections and waits up to the shutdown timeout for active requests.
func (s *Server) Serve(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("opsapi: listening on %s: %w", s.address, err)
	}
	s.addr = listener.Addr()
	close(s.ready)

	server := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	s.logger.Info("ops api listening", "address", s.addr.String())

	serveDone := make(chan error, 1)
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveDone <- err
		}
		close(serveDone)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("ops api shutting down")
	case err := <-serveDone:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("opsapi: shutdown: %w", err)
	}
	s.logger.Info("ops api stopped")
	return nil
}
