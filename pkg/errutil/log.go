// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ParkSpot Contributors

// Package errutil holds small helpers for working with oops errors.
package errutil

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samber/oops"
)

// Code returns the oops error code carried by err, or "" when err is not an
// oops error or has no code.
func Code(err error) string {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ""
	}
	switch code := any(oopsErr.Code()).(type) {
	case string:
		return code
	case nil:
		return ""
	default:
		return fmt.Sprint(code)
	}
}

// LogError logs an error with structured context if it's an oops error.
// For oops errors, it extracts and logs the message, code, and context.
// For standard errors, it logs the error string.
func LogError(logger *slog.Logger, msg string, err error) {
	LogErrorContext(context.Background(), logger, slog.LevelError, msg, err)
}

// LogErrorContext is LogError with an explicit context and level, so trace
// ids reach the handler and expected failures can be logged below ERROR.
func LogErrorContext(ctx context.Context, logger *slog.Logger, level slog.Level, msg string, err error) {
	attrs := []any{"error", err.Error()}
	if oopsErr, ok := oops.AsOops(err); ok {
		if code := Code(err); code != "" {
			attrs = append(attrs, "code", code)
		}
		if octx := oopsErr.Context(); len(octx) > 0 {
			attrs = append(attrs, "context", octx)
		}
	}
	logger.Log(ctx, level, msg, attrs...)
}
