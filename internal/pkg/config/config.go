package config

import (
	"io"
	"time"
)

// TimeConfig defines helpers for reading duration values stored as integers.
type TimeConfig interface {
	// GetSecond reads the value for key as a number of seconds.
	GetSecond(key string) time.Duration

	// GetMinute reads the value for key as a number of minutes.
	GetMinute(key string) time.Duration

	// GetHour reads the value for key as a number of hours.
	GetHour(key string) time.Duration

	// GetDay reads the value for key as a number of days (24h).
	GetDay(key string) time.Duration
}

// Config defines methods for retrieving configuration values of various types.
// Implementations handle missing keys and conversion failures by returning
// zero values.
type Config interface {
	io.Closer
	TimeConfig

	// GetInt reads the value for key as an int.
	GetInt(key string) int

	// GetInt32 reads the value for key as an int32.
	GetInt32(key string) int32

	// GetInt64 reads the value for key as an int64.
	GetInt64(key string) int64

	// GetFloat64 reads the value for key as a float64.
	GetFloat64(key string) float64

	// GetUint16 reads the value for key as a uint16.
	GetUint16(key string) uint16

	// GetBool reads the value for key as a bool.
	GetBool(key string) bool

	// GetString reads the value for key as a string.
	GetString(key string) string

	// GetBinary reads the value for key as a byte slice.
	// The configuration value is stored base64 encoded.
	GetBinary(key string) []byte

	// GetArray reads the value for key as a slice of strings.
	// The configuration value is stored with format <element1>,<element2>,...
	GetArray(key string) []string

	// GetMap reads the value for key as a map of strings to strings.
	// The configuration value is stored with format <key1>:<value1>,<key2>:<value2>,...
	GetMap(key string) map[string]string
}
