package config

import (
	"errors"
	"time"
)

// log levels, same numbering as zapcore.Level.
const (
	DEBUG_LEVEL = -1
	INFO_LEVEL  = 0
	WARN_LEVEL  = 1
	ERROR_LEVEL = 2
)

var (
	ErrInvalidLevel      = errors.New("LOG_LEVEL must be between -1 (debug) and 2 (error)")
	ErrInvalidTimeFormat = errors.New("LOG_TIME_FORMAT must not be empty")
)

type Configuration struct {
	Level      int
	TimeFormat string
}

func (c Configuration) Validate() error {
	if c.Level < DEBUG_LEVEL || c.Level > ERROR_LEVEL {
		return ErrInvalidLevel
	}
	if c.TimeFormat == "" {
		return ErrInvalidTimeFormat
	}
	return nil
}

func Default() Configuration {
	return Configuration{
		Level:      INFO_LEVEL,
		TimeFormat: time.RFC3339Nano,
	}
}
