package utils

import (
	"time"

	"github.com/gocql/gocql"
)

// Get current time in millis
func GetCurrentTimeMillis() int64 {
	return TimeToMillis(time.Now())
}

// Return time as millis
func TimeToMillis(t time.Time) int64 {
	return t.UnixNano() / int64(time.Millisecond)
}

func UnixMillisToTime(timestamp int64) time.Time {
	seconds := timestamp / 1000
	millis := timestamp % 1000
	return time.Unix(seconds, millis*int64(time.Millisecond)).UTC()
}

// Format a timestamp in millis with millisecond precision
func FormatMillis(timestamp int64) string {
	return UnixMillisToTime(timestamp).Format("2006-01-02T15:04:05.000Z07:00")
}

func ClearGeneratorState(session *gocql.Session) error {
	return session.Query(`TRUNCATE generator_state`).Exec()
}

func MinInt64(a, b int64) int64 {
	if a <= b {
		return a
	}
	return b
}

func MaxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
