// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides token and hashing utilities.

  - GenerateID: random hex identifiers (generation records)
  - HashIP: salted, truncated HMAC of a submitter IP so submission logs
    can be deduplicated without storing raw addresses

The IP salt comes from configuration (IP_SALT) and must stay stable for
hashes to remain comparable across restarts.
*/
package auth
