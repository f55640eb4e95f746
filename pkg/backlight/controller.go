package backlight

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	brightnessFile    = "brightness"
	maxBrightnessFile = "max_brightness"
)

// Controller is an open handle on one backlight device. It caches the raw
// brightness and keeps the brightness file open for writing.
type Controller struct {
	max   uint64
	value uint64
	file  *os.File
	path  string
	name  string
	log   *slog.Logger
}

// Open opens the device directory at path. The brightness file is opened
// read-write and never created.
func Open(path string, logger *slog.Logger) (*Controller, error) {
	log := orDiscard(logger)
	log.Debug("opening controller", "path", path)

	brightnessPath := filepath.Join(path, brightnessFile)
	file, err := os.OpenFile(brightnessPath, os.O_RDWR, 0)
	if err != nil {
		return nil, &OpenError{Kind: CannotOpenBrightnessFile, Path: brightnessPath, Err: err}
	}

	fail := func(kind OpenErrorKind, p string, err error) (*Controller, error) {
		file.Close()
		return nil, &OpenError{Kind: kind, Path: p, Err: err}
	}

	info, err := file.Stat()
	if err != nil {
		return fail(CannotOpenBrightnessFile, brightnessPath, err)
	}
	if !info.Mode().IsRegular() {
		return fail(CannotOpenBrightnessFile, brightnessPath, errors.New("not a regular file"))
	}

	value, err := readUint(file)
	if err != nil {
		return fail(InvalidBrightnessValue, brightnessPath, err)
	}

	maxPath := filepath.Join(path, maxBrightnessFile)
	maxValue, err := openUint(maxPath)
	if err != nil {
		return fail(InvalidMaxBrightness, maxPath, err)
	}
	if maxValue == 0 {
		return fail(InvalidMaxBrightness, maxPath, errors.New("max brightness is zero"))
	}

	if value > maxValue {
		log.Warn("brightness exceeds max brightness, clamping", "path", brightnessPath, "value", value, "max", maxValue)
		value = maxValue
	}

	return &Controller{
		max:   maxValue,
		value: value,
		file:  file,
		path:  brightnessPath,
		name:  filepath.Base(path),
		log:   log,
	}, nil
}

func (c *Controller) Name() string { return c.name }

// Path returns the path of the brightness file.
func (c *Controller) Path() string { return c.path }

func (c *Controller) Max() uint64 { return c.max }

// Raw returns the cached raw brightness.
func (c *Controller) Raw() uint64 { return c.value }

// Percentage returns the cached brightness as a percentage of max. It does
// not touch the device.
func (c *Controller) Percentage() float64 {
	return float64(c.value) / float64(c.max) * 100.0
}

// SetPercentage converts target to a raw value, clamps it into [0, max] and
// writes it to the device. The cache is updated before the write, so it
// holds the requested value even if the write fails.
func (c *Controller) SetPercentage(target float64) error {
	raw := ClampRaw(math.Round(target/100.0*float64(c.max)), c.max)
	c.value = raw

	c.log.Debug("writing brightness", "path", c.path, "raw", raw, "max", c.max)
	if _, err := c.file.WriteAt([]byte(strconv.FormatUint(raw, 10)), 0); err != nil {
		return &WriteError{Path: c.path, Err: err}
	}
	return nil
}

// Reload reads the brightness back from the device and refreshes the cache.
func (c *Controller) Reload() error {
	value, err := readUint(io.NewSectionReader(c.file, 0, math.MaxInt64))
	if err != nil {
		return &OpenError{Kind: InvalidBrightnessValue, Path: c.path, Err: err}
	}
	c.value = min(value, c.max)
	return nil
}

func (c *Controller) Close() error {
	return c.file.Close()
}

// ClampRaw clamps a raw brightness into [0, max]. NaN maps to 0.
func ClampRaw(raw float64, maxRaw uint64) uint64 {
	switch {
	case math.IsNaN(raw) || raw <= 0:
		return 0
	case raw >= float64(maxRaw):
		return maxRaw
	default:
		return uint64(raw)
	}
}

func openUint(path string) (uint64, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()
	return readUint(file)
}

func readUint(r io.Reader) (uint64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("read: %w", err)
	}
	if !utf8.Valid(data) {
		return 0, errors.New("invalid UTF-8")
	}
	return strconv.ParseUint(strings.TrimSpace(string(data)), 10, 64)
}
