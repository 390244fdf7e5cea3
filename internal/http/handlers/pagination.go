package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultLimit = 100
	maxLimit     = 500
)

// pageParams never rejects: bad or out-of-domain skip/limit fall back
// to sane values per the listing contract.
func pageParams(ctx *gin.Context) (skip, limit int) {
	skip = atoiOr(ctx.Query("skip"), 0)
	limit = atoiOr(ctx.Query("limit"), defaultLimit)

	if skip < 0 {
		skip = 0
	}

	if limit <= 0 {
		limit = defaultLimit
	}

	if limit > maxLimit {
		limit = maxLimit
	}

	return skip, limit
}

func atoiOr(s string, fallback int) int {
	if s == "" {
		return fallback
	}

	n, err := strconv.Atoi(s)

	if err != nil {
		return fallback
	}

	return n
}
