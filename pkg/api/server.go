// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package api exposes realm key material over HTTP: the public JWKS
// document per realm and the administrative key metadata listing.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/stacklok/keyhive/pkg/keys/resolver"
	"github.com/stacklok/keyhive/pkg/logger"
)

const (
	middlewareTimeout = 60 * time.Second
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// Router assembles the HTTP surface over a key resolver.
func Router(manager resolver.Manager) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.Timeout(middlewareTimeout),
	)

	r.Get("/health", getHealth)
	r.Mount("/realms", RealmsRouter(manager))

	return r
}

// Serve runs the API server on the given address until ctx is done,
// then shuts it down gracefully. It is assumed that the caller sets up
// appropriate signal handling.
func Serve(ctx context.Context, address string, manager resolver.Manager) error {
	srv := &http.Server{
		BaseContext:       func(net.Listener) context.Context { return ctx },
		Addr:              address,
		Handler:           Router(manager),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", address, err)
	}

	logger.Infof("starting HTTP server on %s", listener.Addr())

	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("server stopped with error: %v", err)
		}
	}()

	<-ctx.Done()

	// The serve context is already canceled; give in-flight requests
	// their own deadline to drain.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	logger.Info("HTTP server stopped")
	return nil
}

func getHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
