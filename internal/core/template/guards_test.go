package template

import "testing"

func TestParseSelection(t *testing.T) {
	registry := MustDefaultRegistry()

	tests := []struct {
		name        string
		raw         string
		wantAllowed bool
		wantReason  string
		wantIDs     int
	}{
		{name: "single known template", raw: `["template1"]`, wantAllowed: true, wantIDs: 1},
		{name: "several templates", raw: `["template3","template1"]`, wantAllowed: true, wantIDs: 2},
		{name: "empty input", raw: "", wantReason: ReasonNoTemplates},
		{name: "whitespace input", raw: "   ", wantReason: ReasonNoTemplates},
		{name: "empty array", raw: `[]`, wantReason: ReasonNoTemplates},
		{name: "not json", raw: `template1`, wantReason: ReasonInvalidFormat},
		{name: "json object", raw: `{"id":"template1"}`, wantReason: ReasonInvalidFormat},
		{name: "array of numbers", raw: `[1,2]`, wantReason: ReasonInvalidFormat},
		{name: "json null", raw: `null`, wantReason: ReasonInvalidFormat},
		{name: "unknown template", raw: `["template1","template9"]`, wantReason: ReasonInvalidSelection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids, result := ParseSelection(SelectionContext{Raw: tt.raw, Registry: registry})

			if result.Allowed != tt.wantAllowed {
				t.Fatalf("expected Allowed=%v, got %v (reason %q)", tt.wantAllowed, result.Allowed, result.Reason)
			}
			if !tt.wantAllowed {
				if result.Reason != tt.wantReason {
					t.Errorf("expected reason %q, got %q", tt.wantReason, result.Reason)
				}
				if result.Error() == nil {
					t.Error("expected non-nil error for disallowed result")
				}
				return
			}
			if len(ids) != tt.wantIDs {
				t.Errorf("expected %d ids, got %d", tt.wantIDs, len(ids))
			}
		})
	}
}

func TestNewRegistry_RejectsDuplicates(t *testing.T) {
	_, err := NewRegistry([]Descriptor{
		{ID: "a", SerialPrefix: "A#"},
		{ID: "a", SerialPrefix: "B#"},
	})
	if err == nil {
		t.Error("expected error for duplicate id")
	}

	_, err = NewRegistry([]Descriptor{
		{ID: "a", SerialPrefix: "A#"},
		{ID: "b", SerialPrefix: "A#"},
	})
	if err == nil {
		t.Error("expected error for duplicate prefix")
	}

	_, err = NewRegistry([]Descriptor{{ID: "a"}})
	if err == nil {
		t.Error("expected error for empty prefix")
	}
}

func TestRegistry_SelectKeepsRegistryOrder(t *testing.T) {
	registry := MustDefaultRegistry()

	got := registry.Select([]string{"template4", "template2", "template4"})
	if len(got) != 2 {
		t.Fatalf("expected 2 descriptors, got %d", len(got))
	}
	if got[0].ID != "template2" || got[1].ID != "template4" {
		t.Errorf("expected [template2 template4], got [%s %s]", got[0].ID, got[1].ID)
	}
}

func TestRegistry_Lookup(t *testing.T) {
	registry := MustDefaultRegistry()

	d, ok := registry.Lookup("template1")
	if !ok {
		t.Fatal("expected template1 to exist")
	}
	if d.SerialPrefix != "PMPP B#" {
		t.Errorf("expected prefix 'PMPP B#', got %q", d.SerialPrefix)
	}
	if _, ok := registry.Lookup("nope"); ok {
		t.Error("expected unknown id lookup to fail")
	}
	if len(registry.All()) != 5 {
		t.Errorf("expected 5 built-in templates, got %d", len(registry.All()))
	}
}
