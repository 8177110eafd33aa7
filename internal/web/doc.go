// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 ParkSpot Contributors

// Package web exposes the authentication service over HTTP:
//
//	POST /register   JSON {email, password, name}      -> 201 user
//	POST /token      form username, password           -> 200 bearer token
//	GET  /users/me   Authorization: Bearer <token>     -> 200 user
//
// Client errors carry a JSON body {"detail": "..."}. Every bearer token
// failure yields the same 401 so callers cannot tell an expired token from a
// forged one.
package web
