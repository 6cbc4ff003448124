package serial

import "testing"

func TestFormat(t *testing.T) {
	tests := []struct {
		prefix string
		count  int
		want   string
	}{
		{"PMPP B#", 1, "PMPP B# c0001"},
		{"SS B#", 42, "SS B# c0042"},
		{"AI B#", 9999, "AI B# c9999"},
		{"AG B#", 12345, "AG B# c12345"},
	}

	for _, tt := range tests {
		if got := Format(tt.prefix, tt.count); got != tt.want {
			t.Errorf("Format(%q, %d) = %q, want %q", tt.prefix, tt.count, got, tt.want)
		}
	}
}

func TestParse(t *testing.T) {
	prefix, count, err := Parse("PMPP B# c0017")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if prefix != "PMPP B#" {
		t.Errorf("expected prefix 'PMPP B#', got %q", prefix)
	}
	if count != 17 {
		t.Errorf("expected count 17, got %d", count)
	}

	for _, bad := range []string{"", "PMPP B#", "PMPP B# c12", "PMPP B# 0001", "c0001"} {
		if _, _, err := Parse(bad); err == nil {
			t.Errorf("expected error parsing %q", bad)
		}
	}
}

func TestMatches(t *testing.T) {
	if !Matches(Format("PMP B#", 3), "PMP B#") {
		t.Error("expected formatted serial to match its prefix")
	}
	if Matches(Format("PMP B#", 3), "PMPP B#") {
		t.Error("expected serial not to match a different prefix")
	}
}
