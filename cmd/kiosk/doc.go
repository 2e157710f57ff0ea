// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main is the on-site kiosk: an interactive terminal client a
stall drives through registration, prompt submission, and viewing or
downloading the generated image. All state decisions live in the
session package; this binary only renders screens and collects input.

	go run ./cmd/kiosk -server http://localhost:8000
*/
package main
