// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package apiclient is the kiosk's typed HTTP client for the competition
API.

It maps wire-level failures onto sentinel errors the session layer
branches on with errors.Is:

  - ErrStallTaken: duplicate stall registration
  - ErrMalformedInput: server-side validation rejection
  - ErrQuotaExceeded: authoritative quota exhaustion
  - *APIError: anything else, carrying the server detail when present

Errors that carry a server detail wrap the sentinel, so both the message
and the classification survive.
*/
package apiclient
