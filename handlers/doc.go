// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the competition API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - RegistrationHandler: stall registration
  - QuotaHandler: authoritative generation-limit checks
  - GenerateHandler: prompt submission and quota consumption
  - ExportHandler: organizer CSV export

Handlers are created via constructor functions that accept *sql.DB and
Config; GenerateHandler additionally takes an imagegen.Generator so tests
can substitute a fake image model.

# Routes

	POST /api/register                      → Register
	GET  /check-generation-limit/{stallNo}  → Check
	POST /generate-image                    → Generate
	GET  /api/registrations.csv             → Registrations

# Status Codes

The error envelope is {"success": false, "detail": "..."}. Clients key
behavior off the status code:

  - 400 with detail containing "stall": duplicate stall registration
  - 422: malformed input (missing or empty fields)
  - 429: generation quota exhausted (detail cites the total)
  - other 4xx/5xx: generic failure, detail optional

# Quota Enforcement

The stall row holds total_generations and used_generations. Generate
reserves a slot with a single conditional UPDATE (used < total), so
concurrent submissions for the same stall can never exceed the total.
If the image model fails after the reservation, the slot is released.
*/
package handlers
