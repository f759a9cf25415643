package main

import (
	"testing"
)

func TestDescribeDBURL(t *testing.T) {
	tests := []struct {
		runtime, pooled, want string
	}{
		{"", "", "not set (will use in-memory storage)"},
		{"postgres://pool", "postgres://pool", "set (via DATABASE_URL_POOLED)"},
		{"postgres://db", "", "set"},
	}
	for _, tt := range tests {
		if got := describeDBURL(tt.runtime, tt.pooled); got != tt.want {
			t.Errorf("describeDBURL(%q, %q) = %q, want %q", tt.runtime, tt.pooled, got, tt.want)
		}
	}
}

func TestSecretStatus(t *testing.T) {
	if got := secretStatus("", "change_me"); got != "not set" {
		t.Errorf("empty: %q", got)
	}
	if got := secretStatus("change_me", "change_me"); got == "set (custom)" {
		t.Errorf("default secret reported as custom")
	}
	if got := secretStatus("s3cr3t", "change_me"); got != "set (custom)" {
		t.Errorf("custom: %q", got)
	}
}
