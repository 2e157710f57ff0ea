// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package session is the kiosk's client-side state machine: it decides,
across restarts and network failures, whether the stall is registered,
how many generation attempts remain, and which screen to show.

# States

	booting → unregistered                 (no saved identity)
	booting → quota-unknown                (identity found)
	unregistered → quota-unknown           (registration accepted)
	quota-unknown → ready | exhausted      (first authoritative quota)
	ready → result                         (generation succeeded)
	ready → ready                          (generation failed, retryable)
	ready | generating → exhausted         (server says quota spent)
	result → ready | exhausted             (explicit generate-another)

Exhausted is terminal: the only way out is a different stall identity,
which a kiosk session does not support.

# Quota Rules

The cached quota is only ever overwritten wholesale from an
authoritative server response - the quota check or the counts embedded
in a generation response. It is never incremented or decremented
locally, which eliminates drift between client and server counts.
Responses resolving out of order are arbitrated by request sequence
number: the latest-started request wins, stale responses are discarded.
Remaining is clamped at zero.

A quota-exceeded answer to a generation attempt is authoritative even
when the local cache said attempts remained (another device on the same
stall may have raced this one), and forces the cache to zero.

Background refresh failures are logged and otherwise ignored: a stale
cached quota is better than a blocked kiosk, and the server re-checks
at generation time anyway.

# Concurrency

One registration and one generation may be in flight at a time; a
second submission gets ErrBusy. Once a result is held, the form stays
locked until the explicit GenerateAnother action, even though the
server-side allowance may permit more attempts.
*/
package session
