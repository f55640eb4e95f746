package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/de-vri-es/brightness-ctl/internal/notify"
	"github.com/de-vri-es/brightness-ctl/pkg/displayinfo"
)

type recordedNotifier struct {
	opts  notify.Options
	calls []float64
	err   error
}

func (r *recordedNotifier) factory(opts notify.Options) notify.Notifier {
	r.opts = opts
	return notify.Func(func(_ context.Context, pct float64) error {
		r.calls = append(r.calls, pct)
		return r.err
	})
}

type fixture struct {
	root     string
	notifier *recordedNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	return &fixture{root: t.TempDir(), notifier: &recordedNotifier{}}
}

func (f *fixture) device(t *testing.T, name, brightness, maxBrightness string) {
	t.Helper()
	dir := filepath.Join(f.root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "brightness"), []byte(brightness), 0o644); err != nil {
		t.Fatal(err)
	}
	if maxBrightness != "" {
		if err := os.WriteFile(filepath.Join(dir, "max_brightness"), []byte(maxBrightness), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func (f *fixture) run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv("BRIGHTNESS_CTL_ROOT", f.root)
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr, f.notifier.factory)
	return code, stdout.String(), stderr.String()
}

func (f *fixture) raw(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(f.root, name, "brightness"))
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestGet(t *testing.T) {
	f := newFixture(t)
	f.device(t, "fake0", "128", "255")

	code, stdout, stderr := f.run(t, "get")
	if code != 0 {
		t.Fatalf("exit %d, stderr: %s", code, stderr)
	}
	if stdout != "50\n" {
		t.Errorf("stdout = %q, want %q", stdout, "50\n")
	}
	if len(f.notifier.calls) != 0 {
		t.Errorf("get sent notifications: %v", f.notifier.calls)
	}
}

func TestUpThenGet(t *testing.T) {
	f := newFixture(t)
	f.device(t, "fake0", "128", "255")

	code, _, stderr := f.run(t, "up", "10")
	if code != 0 {
		t.Fatalf("exit %d, stderr: %s", code, stderr)
	}
	if got := f.raw(t, "fake0"); got != "153" {
		t.Errorf("brightness = %q, want 153", got)
	}
	if len(f.notifier.calls) != 1 || math.Round(f.notifier.calls[0]) != 60 {
		t.Errorf("notifications = %v, want [60]", f.notifier.calls)
	}
	if !f.notifier.opts.Enabled {
		t.Error("notifications disabled by default")
	}

	_, stdout, _ := f.run(t, "get")
	if stdout != "60\n" {
		t.Errorf("get after up = %q, want 60", stdout)
	}
}

func TestChangeCommands(t *testing.T) {
	// Results are at least as long as the initial value so the fake file
	// holds exactly what was written.
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"down", "10"}, "400"},
		{[]string{"up", "60"}, "1000"},
		{[]string{"set", "100/3"}, "333"},
		{[]string{"set", "75%"}, "750"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			f := newFixture(t)
			f.device(t, "fake0", "500", "1000")
			if code, _, stderr := f.run(t, tt.args...); code != 0 {
				t.Fatalf("exit %d, stderr: %s", code, stderr)
			}
			if got := f.raw(t, "fake0"); got != tt.want {
				t.Errorf("brightness = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNotificationFailureKeepsSuccess(t *testing.T) {
	f := newFixture(t)
	f.device(t, "fake0", "128", "255")
	f.notifier.err = errors.New("no notification server")

	code, _, stderr := f.run(t, "set", "20")
	if code != 0 {
		t.Fatalf("exit %d, stderr: %s", code, stderr)
	}
	if !strings.Contains(stderr, "no notification server") {
		t.Errorf("notification failure not logged: %q", stderr)
	}
}

func TestNoNotifyFlag(t *testing.T) {
	f := newFixture(t)
	f.device(t, "fake0", "128", "255")

	if code, _, stderr := f.run(t, "--no-notify", "set", "20"); code != 0 {
		t.Fatalf("exit %d, stderr: %s", code, stderr)
	}
	if f.notifier.opts.Enabled {
		t.Error("--no-notify left notifications enabled")
	}
}

func TestListControllers(t *testing.T) {
	f := newFixture(t)
	f.device(t, "fake0", "1", "2")
	f.device(t, "fake1", "1", "")

	code, stdout, stderr := f.run(t, "list-controllers")
	if code != 0 {
		t.Fatalf("exit %d, stderr: %s", code, stderr)
	}
	names := strings.Split(strings.TrimSuffix(stdout, "\n"), "\n")
	slices.Sort(names)
	if !slices.Equal(names, []string{"fake0", "fake1"}) {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestControllerFlag(t *testing.T) {
	f := newFixture(t)
	f.device(t, "fake0", "128", "255")
	f.device(t, "fake1", "10", "100")

	code, stdout, stderr := f.run(t, "-c", "fake1", "get")
	if code != 0 {
		t.Fatalf("exit %d, stderr: %s", code, stderr)
	}
	if stdout != "10\n" {
		t.Errorf("stdout = %q, want 10", stdout)
	}

	code, _, stderr = f.run(t, "--controller", "missing", "get")
	if code != 1 {
		t.Errorf("exit %d for missing controller, want 1", code)
	}
	if !strings.Contains(stderr, "no such backlight controller") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestFailures(t *testing.T) {
	t.Run("missing root", func(t *testing.T) {
		f := newFixture(t)
		f.root = filepath.Join(f.root, "missing")
		for _, args := range [][]string{{"get"}, {"list-controllers"}, {"up", "5"}} {
			if code, _, _ := f.run(t, args...); code != 1 {
				t.Errorf("%v: exit %d, want 1", args, code)
			}
		}
	})

	t.Run("no working controller", func(t *testing.T) {
		f := newFixture(t)
		f.device(t, "broken", "12", "")
		code, _, stderr := f.run(t, "get")
		if code != 1 {
			t.Errorf("exit %d, want 1", code)
		}
		if !strings.Contains(stderr, "no working backlight controller") {
			t.Errorf("stderr = %q", stderr)
		}
	})

	t.Run("bad value", func(t *testing.T) {
		f := newFixture(t)
		f.device(t, "fake0", "128", "255")
		if code, _, _ := f.run(t, "set", "lots"); code != 1 {
			t.Errorf("exit %d, want 1", code)
		}
		if got := f.raw(t, "fake0"); got != "128" {
			t.Errorf("brightness changed to %q after bad value", got)
		}
		if len(f.notifier.calls) != 0 {
			t.Errorf("notified after failure: %v", f.notifier.calls)
		}
	})

	t.Run("missing argument", func(t *testing.T) {
		f := newFixture(t)
		code, _, stderr := f.run(t, "up")
		if code != 1 {
			t.Errorf("exit %d, want 1", code)
		}
		if !strings.Contains(stderr, "Error:") {
			t.Errorf("stderr = %q", stderr)
		}
	})
}

func TestInfo(t *testing.T) {
	f := newFixture(t)
	f.device(t, "fake0", "128", "255")

	code, stdout, stderr := f.run(t, "info")
	if code != 0 {
		t.Fatalf("exit %d, stderr: %s", code, stderr)
	}
	var info displayinfo.DisplayInfo
	if err := json.Unmarshal([]byte(stdout), &info); err != nil {
		t.Fatalf("info output is not JSON: %v\n%s", err, stdout)
	}
	if info.Controller != "fake0" || info.Raw != 128 || info.Max != 255 || info.Level != 50 {
		t.Errorf("info = %+v", info)
	}

	code, stdout, _ = f.run(t, "info", "-o", "yaml")
	if code != 0 || !strings.Contains(stdout, "controller: fake0") {
		t.Errorf("yaml info: exit %d, stdout %q", code, stdout)
	}
}

func TestConfigCommand(t *testing.T) {
	f := newFixture(t)
	code, stdout, stderr := f.run(t, "-c", "intel_backlight", "config")
	if code != 0 {
		t.Fatalf("exit %d, stderr: %s", code, stderr)
	}
	for _, want := range []string{"controller: intel_backlight", "root: " + f.root, "notify: true"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("config output missing %q:\n%s", want, stdout)
		}
	}
}

func TestVerbosity(t *testing.T) {
	f := newFixture(t)
	f.device(t, "fake0", "128", "255")

	_, _, stderr := f.run(t, "get")
	if strings.Contains(stderr, "DEBUG") {
		t.Errorf("debug output without -v: %q", stderr)
	}
	_, _, stderr = f.run(t, "-v", "get")
	if !strings.Contains(stderr, "level=DEBUG") {
		t.Errorf("no debug output with -v: %q", stderr)
	}
	_, _, stderr = f.run(t, "-qq", "-c", "missing", "get")
	if !strings.Contains(stderr, "level=ERROR") {
		t.Errorf("errors suppressed with -qq: %q", stderr)
	}
}
