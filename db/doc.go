// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connections and schema creation.

Two engines are supported, selected by DATABASE_TYPE:

  - sqlite (modernc.org/sqlite): embedded, used for single-node
    deployments and the test suite
  - postgres (lib/pq): used for shared deployments

Handlers use positional $1 placeholders, which both drivers accept, and
the schema avoids engine-specific defaults so the same DDL runs on both.

# Tables

  - stall: one row per registered stall with its generation allowance
    and used count (the authoritative quota)
  - generation: one row per successful image generation
*/
package db
