// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stacklok/keyhive/pkg/keys"
	"github.com/stacklok/keyhive/pkg/keys/resolver"
	"github.com/stacklok/keyhive/pkg/logger"
)

// jwksCacheMaxAge is the Cache-Control max-age for the JWKS endpoint
// (1 hour). This balances caching efficiency with timely key rotation
// propagation.
const jwksCacheMaxAge = 3600

// RealmsRouter creates a router for the per-realm key endpoints.
func RealmsRouter(manager resolver.Manager) http.Handler {
	routes := &realmRoutes{manager: manager}

	r := chi.NewRouter()
	r.Get("/{realm}/jwks", routes.getJWKS)
	r.Get("/{realm}/keys", routes.listKeys)

	return r
}

type realmRoutes struct {
	manager resolver.Manager
}

// getJWKS returns the realm's public signature keys as a JSON Web Key
// Set. The document contains no private material and is safe to cache.
func (h *realmRoutes) getJWKS(w http.ResponseWriter, r *http.Request) {
	realm := chi.URLParam(r, "realm")

	set, err := h.manager.PublicJWKS(r.Context(), realm, keys.UseSig)
	if err != nil {
		logger.Errorw("failed to build JWKS", "realm", realm, "error", err.Error())
		http.Error(w, "Failed to build JWKS", http.StatusInternalServerError)
		return
	}

	data, err := json.Marshal(set)
	if err != nil {
		logger.Errorw("failed to encode JWKS", "realm", realm, "error", err.Error())
		http.Error(w, "Failed to encode JWKS", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", jwksCacheMaxAge))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	_, _ = w.Write(data)
}

// listKeys returns the realm's key metadata: every key the realm
// serves with material accessors replaced by public halves, plus the
// kid serving new operations per algorithm.
func (h *realmRoutes) listKeys(w http.ResponseWriter, r *http.Request) {
	realm := chi.URLParam(r, "realm")

	meta, err := h.manager.KeysMetadata(r.Context(), realm)
	if err != nil {
		logger.Errorw("failed to list realm keys", "realm", realm, "error", err.Error())
		http.Error(w, "Failed to list realm keys", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(meta); err != nil {
		http.Error(w, "Failed to marshal realm keys", http.StatusInternalServerError)
	}
}
