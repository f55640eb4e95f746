// Package notify shows the brightness after a change as a desktop
// notification.
package notify

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/godbus/dbus/v5"
	"github.com/ncruces/zenity"
)

const (
	AppName = "brightness-ctl"

	// ReplacesID makes consecutive notifications replace each other.
	ReplacesID  uint32 = 0x49adff09
	DefaultIcon        = "display-brightness-symbolic"

	notificationsDest = "org.freedesktop.Notifications"
	notificationsPath = "/org/freedesktop/Notifications"
	notifyMethod      = "org.freedesktop.Notifications.Notify"
)

// Notifier shows a brightness percentage to the user.
type Notifier interface {
	Notify(ctx context.Context, percentage float64) error
}

func Summary(percentage float64) string {
	return fmt.Sprintf("Screen brightness: %.0f%%", percentage)
}

// DBus sends notifications to the freedesktop notification server on the
// session bus. The "value" hint lets servers that support it draw a
// progress bar.
type DBus struct {
	Icon    string
	Timeout int32

	// Connect defaults to dbus.ConnectSessionBus.
	Connect func(opts ...dbus.ConnOption) (*dbus.Conn, error)
}

func (d *DBus) args(percentage float64) []any {
	icon := d.Icon
	if icon == "" {
		icon = DefaultIcon
	}
	hints := map[string]dbus.Variant{
		"value": dbus.MakeVariant(int32(math.Round(percentage))),
	}
	return []any{
		AppName,
		ReplacesID,
		icon,
		Summary(percentage),
		"",
		[]string{},
		hints,
		d.Timeout,
	}
}

func (d *DBus) Notify(ctx context.Context, percentage float64) error {
	connect := d.Connect
	if connect == nil {
		connect = dbus.ConnectSessionBus
	}
	conn, err := connect(dbus.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("dbus connect: %w", err)
	}
	defer conn.Close()

	obj := conn.Object(notificationsDest, notificationsPath)
	call := obj.CallWithContext(ctx, notifyMethod, 0, d.args(percentage)...)
	if call.Err != nil {
		return fmt.Errorf("dbus notify: %w", call.Err)
	}
	return nil
}

// Zenity shows the notification through zenity, for desktops without a
// notification server on the session bus.
type Zenity struct{}

func (Zenity) Notify(ctx context.Context, percentage float64) error {
	return zenity.Notify(Summary(percentage), zenity.Title(AppName), zenity.Context(ctx))
}

// Fallback tries each notifier in order until one succeeds.
type Fallback []Notifier

func (f Fallback) Notify(ctx context.Context, percentage float64) error {
	var errs []error
	for _, n := range f {
		err := n.Notify(ctx, percentage)
		if err == nil {
			return nil
		}
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Nop drops notifications.
type Nop struct{}

func (Nop) Notify(context.Context, float64) error { return nil }

// Func adapts a plain function to Notifier.
type Func func(ctx context.Context, percentage float64) error

func (f Func) Notify(ctx context.Context, percentage float64) error { return f(ctx, percentage) }

// Options configures New.
type Options struct {
	Enabled bool
	Icon    string
	Timeout int32
}

// New returns the notifier used by the CLI: D-Bus first, zenity second.
func New(opts Options) Notifier {
	if !opts.Enabled {
		return Nop{}
	}
	return Fallback{
		&DBus{Icon: opts.Icon, Timeout: opts.Timeout},
		Zenity{},
	}
}
