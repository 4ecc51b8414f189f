package util

import "testing"

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		maxLen int
		want   string
	}{
		{"shorter than limit", "dev", 10, "dev"},
		{"exactly at limit", "workspace", 9, "workspace"},
		{"over limit", "a-very-long-workspace-name", 10, "a-very-..."},
		{"tiny limit", "dev", 3, "..."},
		{"multibyte runes", "ws-日本語-日本語", 8, "ws-日本..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateString(tt.in, tt.maxLen); got != tt.want {
				t.Errorf("TruncateString(%q, %d) = %q, want %q", tt.in, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestTruncateANSI(t *testing.T) {
	styled := "\x1b[1mproject\x1b[0m"

	if got := TruncateANSI(styled, 20); got != styled {
		t.Errorf("TruncateANSI() modified a string within the limit: %q", got)
	}
	if got := TruncateANSI("plain but quite long text", 10); got != "plain b..." {
		t.Errorf("TruncateANSI() = %q, want %q", got, "plain b...")
	}
	if got := TruncateANSI("anything", 2); got != "..." {
		t.Errorf("TruncateANSI() = %q, want %q", got, "...")
	}
}
