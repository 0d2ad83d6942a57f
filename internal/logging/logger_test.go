package logging

import "testing"

func TestRedactEmail(t *testing.T) {
	cases := map[string]string{
		"jane.doe@example.com": "ja***@example.com",
		"jd@example.com":       "***@example.com",
		"not-an-email":         "***@***",
		"":                     "***@***",
	}
	for in, want := range cases {
		if got := RedactEmail(in); got != want {
			t.Fatalf("RedactEmail(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNew_RejectsUnknownLevel(t *testing.T) {
	if _, err := New(true, "loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
	logger, err := New(false, "debug")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	if !logger.Core().Enabled(-1) {
		t.Fatalf("expected debug level to be enabled")
	}
}
