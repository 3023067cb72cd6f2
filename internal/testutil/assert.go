// Package testutil provides small test assertion helpers in the style the
// rest of this codebase's tests reach for, reconstructed here since the
// package they historically lived in isn't part of this tree.
package testutil

import (
	"reflect"
	"runtime"
	"testing"
)

// Equals fails the test with file:line context if want != got.
func Equals(tb testing.TB, want, got interface{}) {
	tb.Helper()
	if !reflect.DeepEqual(want, got) {
		_, file, line, _ := runtime.Caller(1)
		tb.Fatalf("%s:%d:\n\n\twant: %#v\n\n\tgot:  %#v\n\n", file, line, want, got)
	}
}

// Ok fails the test if err is non-nil.
func Ok(tb testing.TB, err error) {
	tb.Helper()
	if err != nil {
		_, file, line, _ := runtime.Caller(1)
		tb.Fatalf("%s:%d: unexpected error: %s\n\n", file, line, err.Error())
	}
}

// Nok fails the test if ok is false.
func Nok(tb testing.TB, ok bool) {
	tb.Helper()
	if !ok {
		_, file, line, _ := runtime.Caller(1)
		tb.Fatalf("%s:%d: expected condition to hold, got false\n\n", file, line)
	}
}
