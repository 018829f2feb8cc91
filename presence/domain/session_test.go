package domain

import (
	"strings"
	"testing"
)

func TestIsValidSessionID(t *testing.T) {
	cases := []struct {
		name string
		id   string
		want bool
	}{
		{"mínimo de 8 chars", "abcdefgh", true},
		{"alfanumérico misto", "abcdefgh12", true},
		{"com hífen e underscore", "a_b-C_d-1234", true},
		{"máximo de 64 chars", strings.Repeat("x", 64), true},
		{"vazio", "", false},
		{"7 chars", "abcdefg", false},
		{"65 chars", strings.Repeat("x", 65), false},
		{"espaço", "abcd efgh", false},
		{"caractere especial", "abcdefg$", false},
		{"unicode", "abcdefgé", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsValidSessionID(tc.id); got != tc.want {
				t.Fatalf("IsValidSessionID(%q) = %v, want %v", tc.id, got, tc.want)
			}
		})
	}
}

func TestIsValidMood(t *testing.T) {
	for _, m := range []string{"calm", "connection", "gratitude", "release", "wonder"} {
		if !IsValidMood(m) {
			t.Fatalf("IsValidMood(%q) = false, want true", m)
		}
	}

	// humor é opcional
	if !IsValidMood("") {
		t.Fatal("IsValidMood(\"\") = false, want true")
	}

	for _, m := range []string{"not-a-mood", "Calm", "calm "} {
		if IsValidMood(m) {
			t.Fatalf("IsValidMood(%q) = true, want false", m)
		}
	}
}

func TestKeys(t *testing.T) {
	if got := UserKey("abcdefgh12"); got != "user:abcdefgh12" {
		t.Fatalf("UserKey = %q", got)
	}
	if got := RateLimitKey("heartbeat", "abcdefgh12"); got != "ratelimit:heartbeat:abcdefgh12" {
		t.Fatalf("RateLimitKey = %q", got)
	}
}
