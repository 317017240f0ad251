package redis

import "errors"

var (
	// ErrFailedToParseRedisConnString is returned when REDIS_URL is malformed.
	ErrFailedToParseRedisConnString = errors.New("failed to parse redis connection string")
	// ErrRedisNotReady is returned when no ping succeeded within the retry budget.
	ErrRedisNotReady = errors.New("redis did not become ready within the given time period")
	ErrEmptyConnectionURL = errors.New("empty redis connection URL")
	ErrHealthcheckFailed  = errors.New("redis healthcheck failed")
)
