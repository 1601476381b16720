package llm

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"google.golang.org/genai"
)

// RetryConfig defines retry behavior for transient provider failures.
// Visitors are waiting on the response, so backoffs stay short.
type RetryConfig struct {
	// MaxRetries is the maximum number of retry attempts after the first call
	MaxRetries int

	// InitialBackoff is the wait before the first retry
	InitialBackoff time.Duration

	// MaxBackoff caps any single wait
	MaxBackoff time.Duration

	// BackoffMultiplier is applied to backoff on each retry
	BackoffMultiplier float64
}

const (
	DefaultMaxRetries        = 2
	DefaultInitialBackoff    = 1 * time.Second
	DefaultMaxBackoff        = 8 * time.Second
	DefaultBackoffMultiplier = 2.0
)

// NewDefaultRetryConfig returns a RetryConfig with the default backoff and maxRetries attempts.
// A negative maxRetries uses DefaultMaxRetries.
func NewDefaultRetryConfig(maxRetries int) *RetryConfig {
	if maxRetries < 0 {
		maxRetries = DefaultMaxRetries
	}
	return &RetryConfig{
		MaxRetries:        maxRetries,
		InitialBackoff:    DefaultInitialBackoff,
		MaxBackoff:        DefaultMaxBackoff,
		BackoffMultiplier: DefaultBackoffMultiplier,
	}
}

// statusCodeRegex finds a standalone retryable HTTP status in untyped error text
var (
	statusCodeRegex    = regexp.MustCompile(`\b(?:429|500|502|503|504|529)\b`)
	rateLimitCodeRegex = regexp.MustCompile(`\b429\b`)
)

// apiStatusCode returns the HTTP status carried by a provider API error, or 0
// when err did not come from an API response.
func apiStatusCode(err error) int {
	var claudeErr *anthropic.Error
	if errors.As(err, &claudeErr) && claudeErr != nil {
		return claudeErr.StatusCode
	}
	var geminiErr genai.APIError
	if errors.As(err, &geminiErr) {
		return geminiErr.Code
	}
	var geminiPtr *genai.APIError
	if errors.As(err, &geminiPtr) && geminiPtr != nil {
		return geminiPtr.Code
	}
	return 0
}

// IsRateLimitError checks if an error is a provider rate limit error.
// Typed API errors are judged by status code; other errors by 429 and
// RESOURCE_EXHAUSTED markers.
func IsRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	if code := apiStatusCode(err); code != 0 {
		return code == 429
	}
	errStr := err.Error()
	return strings.Contains(errStr, "RESOURCE_EXHAUSTED") ||
		strings.Contains(errStr, "quota") ||
		rateLimitCodeRegex.MatchString(errStr)
}

// IsRetryableError reports whether a call may succeed when repeated:
// rate limits, server errors and overloaded providers.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if code := apiStatusCode(err); code != 0 {
		return code == 429 || code >= 500
	}
	if IsRateLimitError(err) {
		return true
	}
	errStr := err.Error()
	if statusCodeRegex.MatchString(errStr) {
		return true
	}
	for _, marker := range []string{"overloaded", "UNAVAILABLE", "INTERNAL"} {
		if strings.Contains(errStr, marker) {
			return true
		}
	}
	return false
}

// retryDelayRegex matches "Please retry in Xs" or "retryDelay:Xs" patterns
var retryDelayRegex = regexp.MustCompile(`(?i)(?:Please retry in |retryDelay[:\s]+)(\d+(?:\.\d+)?)\s*s`)

// ExtractRetryDelay parses the API-suggested retry delay from an error.
// Returns 0 if no delay is found in the error message.
//
// Example error message:
// "Error 429, Message: ... Please retry in 4.387061394s., Status: RESOURCE_EXHAUSTED"
func ExtractRetryDelay(err error) time.Duration {
	if err == nil {
		return 0
	}

	matches := retryDelayRegex.FindStringSubmatch(err.Error())
	if len(matches) < 2 {
		return 0
	}

	seconds, parseErr := strconv.ParseFloat(matches[1], 64)
	if parseErr != nil {
		return 0
	}

	return time.Duration(seconds * float64(time.Second))
}

// CalculateBackoff computes the backoff duration for a given attempt.
// If apiDelay > 0 (from ExtractRetryDelay), it's used as the base.
// Otherwise, InitialBackoff is used.
// The result is capped at MaxBackoff.
func (c *RetryConfig) CalculateBackoff(attempt int, apiDelay time.Duration) time.Duration {
	base := c.InitialBackoff
	if apiDelay > 0 {
		base = apiDelay
	}

	multiplier := 1.0
	for i := 0; i < attempt; i++ {
		multiplier *= c.BackoffMultiplier
	}

	backoff := time.Duration(float64(base) * multiplier)
	if backoff > c.MaxBackoff {
		backoff = c.MaxBackoff
	}

	return backoff
}
