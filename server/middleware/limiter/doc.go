// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package limiter provides network-based rate limiting for HTTP requests.

Clients are grouped by IP network (Limiter.IPv4Prefix and Limiter.IPv6Prefix)
and each network shares one token bucket. Explicit pass and block lists take
precedence over the buckets. Buckets that have not been used for
LimiterExpiryDuration are dropped by a periodic cleanup.
*/
package limiter
