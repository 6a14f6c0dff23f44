// Copyright 2025, the PETDor contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"codeberg.org/petdor/petdor/config"
	"codeberg.org/petdor/petdor/core/logos"
	"codeberg.org/petdor/petdor/i18n"
	"codeberg.org/petdor/petdor/server/routes"
)

// Rate limiting header names.
//
// ref: https://www.ietf.org/archive/id/draft-polli-ratelimit-headers-02.html
const (
	HeaderRateLimitLimit     string = "RateLimit-Limit"
	HeaderRateLimitRemaining string = "RateLimit-Remaining"
	HeaderRateLimitReset     string = "RateLimit-Reset"
)

// Reasons shown on the block page.
var (
	reasonUnknownClient = i18n.MsgKey("Could not determine your network address.")
	reasonBlockListed   = i18n.MsgKey("Your network is not allowed to use this site.")
	reasonRateLimited   = i18n.MsgKey("Too many requests. Please wait a moment and try again.")
)

// excludedPaths are never rate limited.
var excludedPaths = []string{
	"/css/",
	"/img/",
	"/robots.txt",
}

func isExcludedPath(path string) bool {
	for _, p := range excludedPaths {
		if strings.HasPrefix(path, p) {
			return true
		}
	}

	return false
}

// requestCost returns the number of tokens a request to path consumes.
func requestCost(path string) int {
	if strings.HasPrefix(path, logos.ProxyPathPrefix) {
		return proxyCost
	}

	return 1
}

// Evaluate is the limiter middleware.
func Evaluate(w http.ResponseWriter, r *http.Request, next http.Handler) {
	defer DoCleanup()

	if isExcludedPath(r.URL.Path) {
		next.ServeHTTP(w, r)

		return
	}

	addr, ok := clientIP(r)
	if !ok {
		routes.BlockPage(w, r, http.StatusBadRequest, reasonUnknownClient)

		return
	}

	cfg := config.Global.Limiter

	if ipMatchesList(addr, cfg.PassIPs) {
		next.ServeHTTP(w, r)

		return
	}

	network := networkOf(addr, cfg.IPv4Prefix, cfg.IPv6Prefix).String()

	if ipMatchesList(addr, cfg.BlockIPs) {
		log.Warn().
			Str("ip", addr.String()).
			Str("network", network).
			Msg("Request blocked, IP in block-list")

		routes.BlockPage(w, r, http.StatusForbidden, reasonBlockListed)

		return
	}

	lim := getOrCreateLimiter(network)

	if !checkRateLimit(lim, network, requestCost(r.URL.Path)) {
		addRateLimitHeaders(w, lim)
		routes.BlockPage(w, r, http.StatusTooManyRequests, reasonRateLimited)

		return
	}

	addRateLimitHeaders(w, lim)
	next.ServeHTTP(w, r)
}

// addRateLimitHeaders adds rate limiting information to the response headers.
func addRateLimitHeaders(w http.ResponseWriter, lim *limiterWrapper) {
	lim.mu.Lock()
	defer lim.mu.Unlock()

	tokens := lim.limiter.TokensAt(timeNow())
	burst := lim.limiter.Burst()
	limit := lim.limiter.Limit()

	remaining := max(0, int(math.Min(float64(burst), tokens)))

	// Seconds until the bucket is full again.
	var reset int64
	if tokens < float64(burst) && limit > 0 {
		reset = int64(math.Ceil((float64(burst) - tokens) / float64(limit)))
	}

	resetStr := strconv.FormatInt(reset, 10)

	w.Header().Set(HeaderRateLimitLimit, strconv.Itoa(burst))
	w.Header().Set(HeaderRateLimitRemaining, strconv.Itoa(remaining))
	w.Header().Set(HeaderRateLimitReset, resetStr)

	if remaining == 0 {
		w.Header().Set("Retry-After", resetStr)
	}
}
