package browser

import (
	"context"
	"errors"
)

type fakeDriver struct {
	closed   int
	closeErr error
}

func (f *fakeDriver) Navigate(context.Context, string) error { return nil }

func (f *fakeDriver) HTML(context.Context) (string, error) { return "<html></html>", nil }

func (f *fakeDriver) Close() error {
	f.closed++
	return f.closeErr
}

var errNoChrome = errors.New(`exec: "google-chrome": executable file not found in $PATH`)
