package displayinfo

import (
	"encoding/json"
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

// Source is what a snapshot is taken from; *backlight.Controller satisfies it.
type Source interface {
	Name() string
	Path() string
	Raw() uint64
	Max() uint64
	Percentage() float64
}

type DisplayInfo struct {
	Controller string  `json:"controller" yaml:"controller"`
	Path       string  `json:"path" yaml:"path"`
	Raw        uint64  `json:"raw" yaml:"raw"`
	Max        uint64  `json:"max" yaml:"max"`
	Percentage float64 `json:"percentage" yaml:"percentage"`
	Level      int     `json:"level" yaml:"level"`
}

func GetDisplayInfo(src Source) *DisplayInfo {
	pct := src.Percentage()
	return &DisplayInfo{
		Controller: src.Name(),
		Path:       src.Path(),
		Raw:        src.Raw(),
		Max:        src.Max(),
		Percentage: pct,
		Level:      int(math.Round(pct)),
	}
}

func GetDisplayInfoJSON(src Source) ([]byte, error) {
	return json.MarshalIndent(GetDisplayInfo(src), "", "  ")
}

func GetDisplayInfoYAML(src Source) ([]byte, error) {
	return yaml.Marshal(GetDisplayInfo(src))
}

// Format renders the snapshot as "json" or "yaml".
func Format(src Source, format string) ([]byte, error) {
	switch format {
	case "", "json":
		return GetDisplayInfoJSON(src)
	case "yaml", "yml":
		return GetDisplayInfoYAML(src)
	default:
		return nil, fmt.Errorf("unknown output format %q (use json or yaml)", format)
	}
}
