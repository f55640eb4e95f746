// Package backlight drives kernel backlight devices through the sysfs
// backlight class: discovery, opening, and percentage based reads and
// writes of the raw brightness value.
package backlight

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// DefaultRoot is where the kernel exposes backlight devices.
const DefaultRoot = "/sys/class/backlight"

const readDirBatch = 32

// Device is one entry of the device root.
type Device struct {
	Name string `json:"name" yaml:"name"`
	Path string `json:"path" yaml:"path"`
}

// Enumerator lists and opens devices below Root.
type Enumerator struct {
	Root   string
	Logger *slog.Logger

	// Sorted makes List yield devices ordered by name instead of in
	// directory order.
	Sorted bool
}

func NewEnumerator(root string, logger *slog.Logger) *Enumerator {
	if root == "" {
		root = DefaultRoot
	}
	return &Enumerator{Root: root, Logger: orDiscard(logger)}
}

func (e *Enumerator) logger() *slog.Logger {
	return orDiscard(e.Logger)
}

func (e *Enumerator) root() string {
	if e.Root == "" {
		return DefaultRoot
	}
	return e.Root
}

// List opens the device root and returns a single-pass sequence over its
// entries. Entry read failures are logged and end the sequence; only a
// root that cannot be opened is an error.
func (e *Enumerator) List() (iter.Seq[Device], error) {
	root := e.root()
	dir, err := os.Open(root)
	if err != nil {
		e.logger().Error("failed to open directory", "path", root, "error", err)
		return nil, &EnumerationError{Root: root, Err: err}
	}

	if e.Sorted {
		devices := slices.Collect(e.readAll(root, dir))
		slices.SortFunc(devices, func(a, b Device) int { return strings.Compare(a.Name, b.Name) })
		return slices.Values(devices), nil
	}
	return e.readAll(root, dir), nil
}

func (e *Enumerator) readAll(root string, dir *os.File) iter.Seq[Device] {
	return func(yield func(Device) bool) {
		defer dir.Close()
		for {
			entries, err := dir.ReadDir(readDirBatch)
			for _, entry := range entries {
				dev := Device{Name: entry.Name(), Path: filepath.Join(root, entry.Name())}
				if !yield(dev) {
					return
				}
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					e.logger().Error("failed to read entry", "path", root, "error", err)
				}
				return
			}
		}
	}
}

// Names returns the device names in yield order.
func (e *Enumerator) Names() ([]string, error) {
	devices, err := e.List()
	if err != nil {
		return nil, err
	}
	var names []string
	for dev := range devices {
		names = append(names, dev.Name)
	}
	return names, nil
}

// OpenByName opens the device called name below Root. Names that would
// step outside of Root are refused.
func (e *Enumerator) OpenByName(name string) (*Controller, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsRune(name, '/') || strings.ContainsRune(name, filepath.Separator) {
		e.logger().Error("invalid controller name", "name", name)
		return nil, fmt.Errorf("%w: %q", ErrNoSuchController, name)
	}

	ctrl, err := Open(filepath.Join(e.root(), name), e.Logger)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrNoSuchController, name, err)
	}
	return ctrl, nil
}

// OpenFirst opens the first device, in List order, that opens without error.
// Which device that is depends on the directory order unless Sorted is set.
func (e *Enumerator) OpenFirst() (*Controller, error) {
	devices, err := e.List()
	if err != nil {
		return nil, err
	}

	log := e.logger()
	for dev := range devices {
		ctrl, err := Open(dev.Path, log)
		if err != nil {
			log.Debug("skipping controller", "path", dev.Path, "error", err)
			continue
		}
		log.Debug("using controller", "path", dev.Path)
		return ctrl, nil
	}

	log.Error("failed to find any working controller", "root", e.root())
	return nil, ErrNoWorkingController
}

func orDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return logger
}
