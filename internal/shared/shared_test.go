package shared

import (
	"strings"
	"testing"
)

func TestGenerateState(t *testing.T) {
	first, err := GenerateState()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if first == "" {
		t.Fatal("expected non-empty state token")
	}

	second, err := GenerateState()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if first == second {
		t.Error("expected state tokens to be unique")
	}

	if strings.ContainsAny(first, "+/=") {
		t.Errorf("expected URL-safe token, got %s", first)
	}
}

func TestSanitizeCode(t *testing.T) {
	tc := []struct {
		name string
		code string
		want string
	}{
		{
			name: "plain code",
			code: "AQBzrT4x",
			want: "AQBzrT4x",
		},
		{
			name: "surrounding whitespace",
			code: "  AQBzrT4x\n",
			want: "AQBzrT4x",
		},
		{
			name: "html is escaped",
			code: `<script>alert("x")</script>`,
			want: "&lt;script&gt;alert(&#34;x&#34;)&lt;/script&gt;",
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeCode(tt.code); got != tt.want {
				t.Errorf("SanitizeCode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSplitIDList(t *testing.T) {
	ids := SplitIDList("alice\n  bob \n\ncarol\n")
	want := []string{"alice", "bob", "carol"}

	if len(ids) != len(want) {
		t.Fatalf("expected %d ids, got %d", len(want), len(ids))
	}
	for i, id := range want {
		if ids[i] != id {
			t.Errorf("expected id %s at index %d, got %s", id, i, ids[i])
		}
	}

	if got := SplitIDList(""); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
}

func TestGenerateID(t *testing.T) {
	if GenerateID() == GenerateID() {
		t.Error("expected generated ids to be unique")
	}
}
