package main

import (
	"bytes"
	"os"
	"strings"
)

// newTestEnv returns an Environment with in-memory IO, a fixed variable set
// and a host filesystem where nothing exists.
func newTestEnv(stdin string, vars map[string]string) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	env := &Environment{
		Stdin:  strings.NewReader(stdin),
		Stdout: &stdout,
		Stderr: &stderr,
		Getenv: func(k string) string { return vars[k] },
		Environ: func() []string {
			out := make([]string, 0, len(vars))
			for k, v := range vars {
				out = append(out, k+"="+v)
			}
			return out
		},
		Stat: func(string) (os.FileInfo, error) { return nil, os.ErrNotExist },
	}
	return env, &stdout, &stderr
}
