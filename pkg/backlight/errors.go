package backlight

import (
	"errors"
	"fmt"
)

var (
	ErrEnumeration              = errors.New("cannot enumerate backlight controllers")
	ErrCannotOpenBrightnessFile = errors.New("cannot open brightness file")
	ErrInvalidBrightnessValue   = errors.New("invalid brightness value")
	ErrInvalidMaxBrightness     = errors.New("invalid max brightness")
	ErrNoWorkingController      = errors.New("no working backlight controller found")
	ErrNoSuchController         = errors.New("no such backlight controller")
	ErrWriteFailed              = errors.New("failed to write brightness")
)

// EnumerationError is returned when the device root cannot be opened.
type EnumerationError struct {
	Root string
	Err  error
}

func (e *EnumerationError) Error() string {
	return fmt.Sprintf("failed to open directory %s: %v", e.Root, e.Err)
}

func (e *EnumerationError) Unwrap() []error { return []error{ErrEnumeration, e.Err} }

type OpenErrorKind int

const (
	CannotOpenBrightnessFile OpenErrorKind = iota
	InvalidBrightnessValue
	InvalidMaxBrightness
)

func (k OpenErrorKind) sentinel() error {
	switch k {
	case InvalidBrightnessValue:
		return ErrInvalidBrightnessValue
	case InvalidMaxBrightness:
		return ErrInvalidMaxBrightness
	default:
		return ErrCannotOpenBrightnessFile
	}
}

func (k OpenErrorKind) String() string {
	return k.sentinel().Error()
}

// OpenError describes why a single device could not be opened.
type OpenError struct {
	Kind OpenErrorKind
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
}

func (e *OpenError) Unwrap() []error { return []error{e.Kind.sentinel(), e.Err} }

// WriteError is returned when writing the new raw value to the device fails.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write to %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() []error { return []error{ErrWriteFailed, e.Err} }
