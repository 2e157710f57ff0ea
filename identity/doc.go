// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package identity persists the one durable fact the kiosk owns: the
registered stall number.

FileStore keeps it in a JSON file under the user config directory (or a
configured state dir). MemStore is the fallback when storage is
unavailable - the kiosk keeps working, the identity just does not
survive a restart. There is no delete: once a stall registers on a
kiosk, that kiosk belongs to the stall for the competition.
*/
package identity
