package debug

import (
	"bytes"
	"testing"
)

func TestEnabled(t *testing.T) {
	tests := []struct {
		name    string
		env     bool
		verbose bool
		want    bool
	}{
		{"env set", true, false, true},
		{"verbose flag", false, true, true},
		{"neither", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldEnabled, oldVerbose := enabled, verboseMode
			defer func() { enabled, verboseMode = oldEnabled, oldVerbose }()

			enabled = tt.env
			SetVerbose(tt.verbose)

			if got := Enabled(); got != tt.want {
				t.Errorf("Enabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLogf(t *testing.T) {
	tests := []struct {
		name       string
		enabled    bool
		wantOutput string
	}{
		{"outputs when enabled", true, "alias collision: 5\n"},
		{"no output when disabled", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldEnabled := enabled
			defer func() { enabled = oldEnabled }()
			enabled = tt.enabled

			var stderr bytes.Buffer
			restore := SetOutput(nil, &stderr)
			defer restore()

			Logf("alias collision: %s\n", "5")

			if got := stderr.String(); got != tt.wantOutput {
				t.Errorf("Logf() output = %q, want %q", got, tt.wantOutput)
			}
		})
	}
}

func TestQuietSuppressesNormalOutput(t *testing.T) {
	var stdout, stderr bytes.Buffer
	restore := SetOutput(&stdout, &stderr)
	defer restore()
	defer SetQuiet(false)

	PrintNormal("shown %d\n", 1)
	NoticeNormal("notice\n")
	SetQuiet(true)
	if !IsQuiet() {
		t.Fatal("IsQuiet() = false after SetQuiet(true)")
	}
	PrintNormal("hidden\n")
	NoticeNormal("hidden\n")

	if stdout.String() != "shown 1\n" {
		t.Errorf("stdout = %q", stdout.String())
	}
	if stderr.String() != "notice\n" {
		t.Errorf("stderr = %q", stderr.String())
	}
}
