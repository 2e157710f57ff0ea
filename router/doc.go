// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines all HTTP routes for the competition API.

Routes use Go 1.22+ http.ServeMux method and wildcard patterns:

	GET  /health
	POST /api/register
	GET  /check-generation-limit/{stallNo}
	POST /generate-image
	GET  /api/registrations.csv

Every handler is wrapped in middleware.WithLogging. The mux is returned
to main, which wraps it in middleware.CORS before serving.
*/
package router
