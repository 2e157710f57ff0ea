// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and JSON helpers.

# Middleware

  - WithLogging: wraps handlers with slog request/completion logging
  - CORS: permissive cross-origin headers for the browser front end

# Helpers

  - JSONResponse: write a JSON body with status code
  - ErrorResponse: write the {success:false, detail} error envelope
  - ParseJSONBody: decode a request body into a struct
  - GetClientIP: client IP from X-Forwarded-For / X-Real-IP / RemoteAddr
*/
package middleware
