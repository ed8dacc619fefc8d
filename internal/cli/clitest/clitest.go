// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package clitest provides a harness for table-driven testing of
// [cli.App] implementations.
package clitest

import (
	"bytes"
	"context"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"

	"go.astrophena.name/licensify/internal/cli"
)

// Case describes a single invocation of an application under test.
type Case[A cli.App] struct {
	// Args are passed to the application as command-line arguments.
	Args []string
	// Env contains the environment variables visible to the application.
	Env map[string]string
	// Stdin is the application's standard input. If nil, an empty reader
	// is used.
	Stdin io.Reader
	// WantErr, if set, requires the run to fail with an error matching
	// it via [errors.Is].
	WantErr error
	// WantErrType, if set, requires the run to fail with an error whose
	// type matches it via [errors.As].
	WantErrType error
	// WantNothingPrinted requires both stdout and stderr to be empty.
	WantNothingPrinted bool
	// WantInStdout is a substring that must appear in stdout.
	WantInStdout string
	// WantInStderr is a substring that must appear in stderr.
	WantInStderr string
	// CheckFunc runs after the invocation with the application value,
	// for assertions on its final state.
	CheckFunc func(*testing.T, A)
}

// Run invokes the application produced by setup once per case.
func Run[A cli.App](t *testing.T, setup func(*testing.T) A, cases map[string]Case[A]) {
	t.Helper()
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			app := setup(t)

			stdin := tc.Stdin
			if stdin == nil {
				stdin = strings.NewReader("")
			}
			var stdout, stderr bytes.Buffer
			env := &cli.Env{
				Args: tc.Args,
				Getenv: func(key string) string {
					return tc.Env[key]
				},
				Stdin:  stdin,
				Stdout: &stdout,
				Stderr: &stderr,
			}

			err := cli.Run(cli.WithEnv(context.Background(), env), app)

			switch {
			case tc.WantErr != nil:
				if !errors.Is(err, tc.WantErr) {
					t.Fatalf("want error %v, got %v", tc.WantErr, err)
				}
			case tc.WantErrType != nil:
				target := reflect.New(reflect.TypeOf(tc.WantErrType))
				if !errors.As(err, target.Interface()) {
					t.Fatalf("want error of type %T, got %v", tc.WantErrType, err)
				}
			case err != nil:
				t.Fatalf("unexpected error: %v", err)
			}

			if tc.WantNothingPrinted {
				if stdout.Len() > 0 {
					t.Errorf("stdout should be empty, got %q", stdout.String())
				}
				if stderr.Len() > 0 {
					t.Errorf("stderr should be empty, got %q", stderr.String())
				}
			}
			if tc.WantInStdout != "" && !strings.Contains(stdout.String(), tc.WantInStdout) {
				t.Errorf("stdout should contain %q, got %q", tc.WantInStdout, stdout.String())
			}
			if tc.WantInStderr != "" && !strings.Contains(stderr.String(), tc.WantInStderr) {
				t.Errorf("stderr should contain %q, got %q", tc.WantInStderr, stderr.String())
			}

			if tc.CheckFunc != nil {
				tc.CheckFunc(t, app)
			}
		})
	}
}
