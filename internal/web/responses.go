// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ParkSpot Contributors

package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/parkspot/parkspot/internal/auth"
)

// Fixed client-facing messages.
const (
	detailBadCredentials = "Incorrect email or password"
	detailUnauthorized   = "Could not validate credentials"
	detailBadBody        = "Invalid request body"
	detailInternal       = "Internal server error"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func newUserResponse(id *auth.Identity) userResponse {
	return userResponse{
		ID:        id.ID.String(),
		Email:     id.IdentityKey,
		Name:      id.Name,
		IsActive:  id.IsActive,
		CreatedAt: id.CreatedAt,
	}
}

type tokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // client may have gone away
	json.NewEncoder(w).Encode(body)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

func writeUnauthenticated(w http.ResponseWriter, detail string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeDetail(w, http.StatusUnauthorized, detail)
}
