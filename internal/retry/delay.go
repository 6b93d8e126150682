package retry

import (
	"regexp"
	"strconv"
	"time"
)

var (
	// retryDelayRe matches the RetryInfo hint Gemini embeds in quota errors, e.g. "retryDelay":"21s".
	retryDelayRe = regexp.MustCompile(`(?i)"retryDelay"\s*:\s*"(\d+)s"`)
	// case-sensitive: Gemini reports these in lower case, and "Quota project" setup errors must not retry
	rateLimitRe = regexp.MustCompile(`quota|rate limit|429`)
)

// MaxHint bounds a server suggested delay so a garbled retryDelay cannot stall a request indefinitely.
const MaxHint = time.Hour

// Hint returns the server suggested delay embedded in err, plus one second of
// slack, capped at MaxHint.
func Hint(err error) (time.Duration, bool) {
	if err == nil {
		return 0, false
	}
	m := retryDelayRe.FindStringSubmatch(err.Error())
	if m == nil {
		return 0, false
	}
	// m[1] is all digits, so a conversion error can only mean overflow
	seconds, convErr := strconv.ParseInt(m[1], 10, 64)
	if convErr != nil || seconds >= int64(MaxHint/time.Second) {
		return MaxHint, true
	}
	return time.Duration(seconds+1) * time.Second, true
}

// IsRateLimited reports whether err carries a quota, rate limit or 429 signature.
func IsRateLimited(err error) bool {
	return err != nil && rateLimitRe.MatchString(err.Error())
}

// Delay computes how long to wait after the given 1-based failed attempt.
// It returns false when err is not retryable.
func Delay(err error, attempt int, maxBackoff time.Duration) (time.Duration, bool) {
	if d, ok := Hint(err); ok {
		return d, true
	}
	if !IsRateLimited(err) {
		return 0, false
	}
	return Backoff(attempt, maxBackoff), true
}

// Backoff returns min(maxBackoff, 1s * 2^attempt).
func Backoff(attempt int, maxBackoff time.Duration) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	// 2^30 seconds already exceeds any sane cap
	if attempt > 30 {
		attempt = 30
	}
	d := time.Second << uint(attempt)
	if maxBackoff > 0 && d > maxBackoff {
		return maxBackoff
	}
	return d
}
