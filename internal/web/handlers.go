// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ParkSpot Contributors

package web

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/samber/oops"

	"github.com/parkspot/parkspot/internal/auth"
	"github.com/parkspot/parkspot/pkg/errutil"
)

// maxBodyBytes bounds request bodies on every route.
const maxBodyBytes = 64 << 10

// Authenticator is the subset of *auth.Service the handlers use.
type Authenticator interface {
	Register(ctx context.Context, req auth.RegisterRequest) (*auth.Credential, error)
	Login(ctx context.Context, identityKey, secret string) (*auth.Identity, *auth.IssuedToken, error)
	ResolveIdentity(ctx context.Context, raw string) (*auth.Identity, error)
}

type handlers struct {
	svc    Authenticator
	logger *slog.Logger
}

func (h *handlers) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, detailBadBody)
		return
	}

	cred, err := h.svc.Register(r.Context(), auth.RegisterRequest{
		IdentityKey: req.Email,
		Secret:      req.Password,
		Name:        req.Name,
	})
	if err != nil {
		if errors.Is(err, auth.ErrValidation) || errors.Is(err, auth.ErrDuplicateIdentity) {
			writeDetail(w, http.StatusBadRequest, oops.GetPublic(err, "Invalid registration"))
			return
		}
		h.internalError(w, r, "register failed", err)
		return
	}

	writeJSON(w, http.StatusCreated, newUserResponse(cred.Identity()))
}

func (h *handlers) token(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		writeDetail(w, http.StatusBadRequest, detailBadBody)
		return
	}

	_, issued, err := h.svc.Login(r.Context(), r.PostForm.Get("username"), r.PostForm.Get("password"))
	if err != nil {
		if errors.Is(err, auth.ErrAuthenticationFailed) {
			writeUnauthenticated(w, detailBadCredentials)
			return
		}
		h.internalError(w, r, "login failed", err)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken: issued.AccessToken,
		TokenType:   issued.TokenType,
		ExpiresAt:   issued.ExpiresAt,
	})
}

func (h *handlers) me(w http.ResponseWriter, r *http.Request) {
	raw, ok := bearerToken(r)
	if !ok {
		writeUnauthenticated(w, detailUnauthorized)
		return
	}

	identity, err := h.svc.ResolveIdentity(r.Context(), raw)
	if err != nil {
		if errors.Is(err, auth.ErrUnauthorized) {
			writeUnauthenticated(w, detailUnauthorized)
			return
		}
		h.internalError(w, r, "resolve identity failed", err)
		return
	}

	writeJSON(w, http.StatusOK, newUserResponse(identity))
}

func (h *handlers) internalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	errutil.LogErrorContext(r.Context(), h.logger, slog.LevelError, msg, err)
	writeDetail(w, http.StatusInternalServerError, detailInternal)
}

// bearerToken extracts the token from "Authorization: Bearer <token>". The
// scheme is case-insensitive.
func bearerToken(r *http.Request) (string, bool) {
	scheme, raw, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	raw = strings.TrimSpace(raw)
	return raw, raw != ""
}
