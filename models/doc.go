// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types shared by the
kiosk client and the competition API server.

# Request Types

Types for JSON bodies sent to the API:

  - RegisterRequest: projectName, stallNo
  - GenerateRequest: prompt, stallNo

# Response Types

Types for JSON responses:

  - RegisterResponse: success, detail
  - QuotaResponse: remaining_generations, total_generations, used_generations
  - GenerateResponse: success, imageUrl, remainingGenerations
  - ErrorResponse: success (always false), detail

# Domain Types

Internal data structures used by the server:

  - Stall: a registered participant with its generation allowance
  - Generation: one submitted prompt and its resulting image URL

The JSON field names are part of the wire contract with existing front
ends and must not be changed: registration and generation bodies use
camelCase, the quota check uses snake_case.
*/
package models
