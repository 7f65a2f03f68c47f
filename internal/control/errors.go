package control

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration marks malformed bounds, steps or modes supplied when a
	// control is built. It is fatal to that control only.
	ErrConfiguration = errors.New("control: invalid configuration")

	// ErrInvalidInput marks text a user typed that is not a usable number.
	// The control stays interactive.
	ErrInvalidInput = errors.New("control: invalid input")
)

// ConfigError describes which bound of a control is malformed.
type ConfigError struct {
	Key    string
	Field  string
	Value  float64
	Detail string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("control %q: %s %v %s", e.Key, e.Field, e.Value, e.Detail)
}

// Is lets errors.Is match ErrConfiguration.
func (e *ConfigError) Is(target error) bool { return target == ErrConfiguration }

// InputError describes a rejected text entry.
type InputError struct {
	Key    string
	Input  string
	Detail string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("control %q: %s", e.Key, e.Detail)
}

// Is lets errors.Is match ErrInvalidInput.
func (e *InputError) Is(target error) bool { return target == ErrInvalidInput }

func notFinite(key, field string, v float64) *ConfigError {
	return &ConfigError{Key: key, Field: field, Value: v, Detail: "is not a valid value"}
}
