package main

// Notes:
// - run is tested through its exit codes and written output
// - Commands that would launch a browser (render with diagrams, diagnose)
//   are covered only up to flag and config validation here

import (
	"context"
	"strings"
	"testing"
)

func TestRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{"no args", nil, ExitUsage, "", "Usage: mdmermaid"},
		{"version", []string{"version"}, ExitSuccess, "mdmermaid dev", ""},
		{"version flag", []string{"--version"}, ExitSuccess, "mdmermaid dev", ""},
		{"help", []string{"help"}, ExitSuccess, "Commands:", ""},
		{"help render", []string{"help", "render"}, ExitSuccess, "--standalone", ""},
		{"unknown command", []string{"convert"}, ExitUsage, "", "unknown command"},
		{"render help flag", []string{"render", "--help"}, ExitSuccess, "", "Usage: mdmermaid render"},
		{"render no input", []string{"render"}, ExitIO, "", "no input specified"},
		{"render bad flag", []string{"render", "--bogus"}, ExitUsage, "", "invalid flag"},
		{"diagnose extra args", []string{"diagnose", "file.md"}, ExitUsage, "", "unexpected arguments"},
		{"diagnose bad timeout", []string{"diagnose", "--timeout", "later"}, ExitUsage, "", "timeout"},
		{"completion bad shell", []string{"completion", "tcsh"}, ExitUsage, "", "unsupported shell"},
		{"completion usage", []string{"completion"}, ExitSuccess, "Supported shells", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := testEnv()
			code := run(context.Background(), tt.args, env)

			if code != tt.wantCode {
				t.Errorf("run(%v) = %d, want %d\nstderr: %s", tt.args, code, tt.wantCode, stderr.String())
			}
			if tt.wantStdout != "" && !strings.Contains(stdout.String(), tt.wantStdout) {
				t.Errorf("stdout = %q, want to contain %q", stdout.String(), tt.wantStdout)
			}
			if tt.wantStderr != "" && !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want to contain %q", stderr.String(), tt.wantStderr)
			}
		})
	}
}

func TestHasVerboseFlag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		args []string
		want bool
	}{
		{[]string{"render", "-v", "a.md"}, true},
		{[]string{"render", "--verbose"}, true},
		{[]string{"render", "a.md"}, false},
		{[]string{"render", "--", "-v"}, false},
	}

	for _, tt := range tests {
		if got := hasVerboseFlag(tt.args); got != tt.want {
			t.Errorf("hasVerboseFlag(%v) = %v, want %v", tt.args, got, tt.want)
		}
	}
}
