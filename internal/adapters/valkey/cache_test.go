package valkey

import "testing"

func TestKeyFamily(t *testing.T) {
	tests := map[string]string{
		"routes:all":                  "routes",
		"articles:html:a1:1700000000": "articles",
		"plain":                       "plain",
		":odd":                        ":odd",
	}
	for key, want := range tests {
		if got := keyFamily(key); got != want {
			t.Errorf("keyFamily(%q) = %q, want %q", key, got, want)
		}
	}
}
