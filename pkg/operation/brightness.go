package operation

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Knetic/govaluate"
)

type Kind int

const (
	Up Kind = iota
	Down
	Set
)

func (k Kind) String() string {
	switch k {
	case Up:
		return "up"
	case Down:
		return "down"
	case Set:
		return "set"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Op is a requested brightness change, in percent.
type Op struct {
	Kind  Kind
	Value float64
}

// Apply returns the target percentage for the given current percentage.
// The result is not clamped; the controller does that.
func (o Op) Apply(current float64) float64 {
	switch o.Kind {
	case Up:
		return current + o.Value
	case Down:
		return current - o.Value
	default:
		return o.Value
	}
}

// ParseValue parses a percentage argument. It accepts a number, a number
// with a trailing percent sign, or a simple arithmetic expression such as
// "100/3".
func ParseValue(s string) (float64, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	if s == "" {
		return 0, errors.New("empty value")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		expression, exprErr := govaluate.NewEvaluableExpression(s)
		if exprErr != nil {
			return 0, fmt.Errorf("invalid value %q: %w", s, exprErr)
		}
		result, exprErr := expression.Evaluate(nil)
		if exprErr != nil {
			return 0, fmt.Errorf("invalid value %q: %w", s, exprErr)
		}
		f, ok := result.(float64)
		if !ok {
			return 0, fmt.Errorf("invalid value %q: not a number", s)
		}
		v = f
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid value %q: not finite", s)
	}
	return v, nil
}

// Controller is the part of a backlight controller an Op needs.
type Controller interface {
	Percentage() float64
	SetPercentage(target float64) error
}

type brightness struct{}

// Brightness is the exported instance.
var Brightness brightness

// Run applies op to ctrl and returns the resulting percentage. The result
// is the controller's cached value after clamping, not a device read-back.
func (b *brightness) Run(ctrl Controller, op Op) (float64, error) {
	target := op.Apply(ctrl.Percentage())
	if err := ctrl.SetPercentage(target); err != nil {
		return ctrl.Percentage(), fmt.Errorf("failed to set brightness: %w", err)
	}
	return ctrl.Percentage(), nil
}
