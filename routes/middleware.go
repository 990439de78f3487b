/*
 * Copyright 2025 Humaid Alqasimi
 * SPDX-License-Identifier: Apache-2.0
 */
package routes

import (
	"net/http"
	"strings"

	"github.com/flamego/flamego"
)

// UserIDHeader carries the caller's identity, set by an upstream
// authenticating proxy.
const UserIDHeader = "X-User-ID"

// UserID identifies the caller of a request.
type UserID string

// RequireUser rejects requests without a user id and maps the id for the
// handlers that follow.
func RequireUser(c flamego.Context) {
	id := strings.TrimSpace(c.Request().Header.Get(UserIDHeader))
	if id == "" {
		logAccessDenied(c, errUserIDMissing.Error(), http.StatusUnauthorized)
		writeJSONError(c, http.StatusUnauthorized, "Authentication required")

		return
	}

	c.Map(UserID(id))
}

// NoCacheHeaders disables caching of responses, which carry health data.
func NoCacheHeaders() flamego.Handler {
	return func(c flamego.Context) {
		header := c.ResponseWriter().Header()
		header.Set("X-Robots-Tag", "noindex, nofollow, noarchive, nosnippet")

		if c.Request().Method == http.MethodGet || c.Request().Method == http.MethodHead {
			header.Set("Cache-Control", "no-store, max-age=0")
			header.Set("Pragma", "no-cache")
			header.Set("Expires", "0")
		}

		c.Next()
	}
}
