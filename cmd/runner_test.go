package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aterchin/lilbacon-spotify/internal/shared"
	lbtesting "github.com/aterchin/lilbacon-spotify/internal/testing"
)

func TestRunnerOutput(t *testing.T) {
	t.Run("writeJSON", func(t *testing.T) {
		t.Run("Compact", func(t *testing.T) {
			var buf bytes.Buffer
			r := NewRunner(RunnerOpts{Output: &buf})

			if err := r.writeJSON(map[string]string{"id": "alice"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got := buf.String(); got != "{\"id\":\"alice\"}\n" {
				t.Errorf("unexpected output %q", got)
			}
		})

		t.Run("Pretty", func(t *testing.T) {
			var buf bytes.Buffer
			r := NewRunner(RunnerOpts{Output: &buf})

			if err := r.writeJSON(map[string]string{"id": "alice"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(buf.String(), "\n  \"id\"") {
				t.Errorf("expected indented output, got %q", buf.String())
			}
		})

		t.Run("Write Failure", func(t *testing.T) {
			r := NewRunner(RunnerOpts{Output: &lbtesting.FWriter{}})
			if err := r.writeJSON(map[string]string{"id": "alice"}, false); err == nil {
				t.Error("expected error from failing writer")
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewRunner(RunnerOpts{Output: &buf})

		if err := r.writePlain("Profile: %s\n", "Alice"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if buf.String() != "Profile: Alice\n" {
			t.Errorf("unexpected output %q", buf.String())
		}

		failing := NewRunner(RunnerOpts{Output: &lbtesting.FWriter{}})
		if err := failing.writePlainln("line"); err == nil {
			t.Error("expected error from failing writer")
		}
	})
}

func TestCallbackURL(t *testing.T) {
	tc := []struct {
		name     string
		callback string
		want     string
	}{
		{
			name:     "relative path resolved against server addr",
			callback: "/spotify/callback",
			want:     "http://127.0.0.1:3000/spotify/callback",
		},
		{
			name:     "absolute http url used as-is",
			callback: "http://example.com/cb",
			want:     "http://example.com/cb",
		},
		{
			name:     "absolute https url used as-is",
			callback: "https://example.com/cb",
			want:     "https://example.com/cb",
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Auth.CallbackURL = tt.callback

			r := NewRunner(RunnerOpts{Config: config})
			if got := r.callbackURL(); got != tt.want {
				t.Errorf("callbackURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOAuthSessionValidation(t *testing.T) {
	config := shared.DefaultConfig()
	config.Auth.ClientID = ""
	config.Auth.ClientSecret = ""

	r := NewRunner(RunnerOpts{Config: config})
	if _, err := r.oauthSession(); err == nil {
		t.Error("expected error for missing credentials")
	}
}
