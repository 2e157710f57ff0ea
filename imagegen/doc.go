// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package imagegen wraps the external text-to-image service.

The Generator interface lets handlers accept a fake in tests. Client is
the HTTP implementation: it posts the prompt to the configured service
and returns the resulting image URL once the task completes.
*/
package imagegen
