// Package dbus holds the small call helpers shared by system bus backends.
package dbus

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/godbus/dbus/v5"
)

const busGetNameOwner = "org.freedesktop.DBus.GetNameOwner"

// DefaultTimeout bounds every call made through this package.
var DefaultTimeout = 5 * time.Second

// ErrTimeout is returned when a call exceeds DefaultTimeout.
var ErrTimeout = errors.New("dbus: call timed out")

// ReplyError is returned when a reply body does not have the expected shape.
type ReplyError struct {
	Method string
	Reason string
}

func (e *ReplyError) Error() string {
	return fmt.Sprintf("dbus: unexpected reply from %s: %s", e.Method, e.Reason)
}

func call(ctx context.Context, obj dbus.BusObject, method string, args ...interface{}) *dbus.Call {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	c := obj.CallWithContext(ctx, method, 0, args...)
	if errors.Is(c.Err, context.DeadlineExceeded) {
		c.Err = ErrTimeout
	}
	return c
}

// CallMethod calls method and waits for the reply.
func CallMethod(ctx context.Context, obj dbus.BusObject, method string, args ...interface{}) error {
	return call(ctx, obj, method, args...).Err
}

// CallString calls a method returning a single string.
func CallString(ctx context.Context, obj dbus.BusObject, method string, args ...interface{}) (string, error) {
	c := call(ctx, obj, method, args...)
	if c.Err != nil {
		return "", c.Err
	}
	var s string
	if err := c.Store(&s); err != nil {
		return "", &ReplyError{Method: method, Reason: err.Error()}
	}
	return s, nil
}

// HasOwner reports whether a well-known bus name currently has an owner.
func HasOwner(ctx context.Context, conn *dbus.Conn, name string) bool {
	owner, err := CallString(ctx, conn.BusObject(), busGetNameOwner, name)
	return err == nil && owner != ""
}
