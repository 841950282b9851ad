package cursorpagination

const (
	// NoLimit leaves the page size to the query layer.
	NoLimit = 0
	// MaxLimit is the cap applied by NormalizeLimit.
	MaxLimit = 100
	// DefaultLimit is used by NormalizeLimit for non-positive input.
	DefaultLimit = 10
)

// IsNormalizedLimitMax clamps limit into [1, maxLimit], substituting
// defaultLimit for non-positive input. The boolean reports whether limit was
// already valid.
func IsNormalizedLimitMax(limit, defaultLimit, maxLimit int) (int, bool) {
	if limit <= 0 {
		return defaultLimit, false
	} else if maxLimit > 0 && limit > maxLimit {
		return maxLimit, false
	}

	return limit, true
}

func NormalizeLimitMax(limit, defaultLimit, maxLimit int) int {
	ret, _ := IsNormalizedLimitMax(limit, defaultLimit, maxLimit)
	return ret
}

func NormalizeLimit(limit int) int {
	return NormalizeLimitMax(limit, DefaultLimit, MaxLimit)
}

// requestLimit resolves the page size of a request: the requested value when
// positive, the configured one otherwise, capped by the configured maximum.
func (s *Spec) requestLimit(requested int) int {
	if requested <= 0 {
		requested = s.limit
	}
	if requested <= 0 {
		return NoLimit
	}

	return NormalizeLimitMax(requested, s.limit, s.maxLimit)
}
