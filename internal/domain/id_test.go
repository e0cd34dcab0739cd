package domain

import (
	"encoding/json"
	"testing"
)

func TestNodeIDJSON(t *testing.T) {
	t.Run("numeric id encodes as number", func(t *testing.T) {
		data, err := json.Marshal(IntID(7))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(data) != "7" {
			t.Errorf("expected 7, got %s", data)
		}
	})

	t.Run("string id encodes as string", func(t *testing.T) {
		data, err := json.Marshal(StringID("a-1"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(data) != `"a-1"` {
			t.Errorf(`expected "a-1", got %s`, data)
		}
	})

	t.Run("decodes numbers and strings", func(t *testing.T) {
		var ids []NodeID
		if err := json.Unmarshal([]byte(`[1, "1", "x", 2.5]`), &ids); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ids[0] != IntID(1) {
			t.Errorf("expected IntID(1), got %#v", ids[0])
		}
		if ids[1] != StringID("1") {
			t.Errorf(`expected StringID("1"), got %#v`, ids[1])
		}
		if ids[0] == ids[1] {
			t.Error("numeric 1 and string \"1\" must differ")
		}
		if ids[2] != StringID("x") {
			t.Errorf(`expected StringID("x"), got %#v`, ids[2])
		}
		if !ids[3].IsNumeric() || ids[3].String() != "2.5" {
			t.Errorf("expected numeric 2.5, got %#v", ids[3])
		}
	})

	t.Run("rejects null", func(t *testing.T) {
		var id NodeID
		if err := json.Unmarshal([]byte(`null`), &id); err == nil {
			t.Error("expected error for null id")
		}
	})

	t.Run("round trips", func(t *testing.T) {
		for _, id := range []NodeID{IntID(42), StringID("0190b7c4-uuid"), IntID(-3)} {
			data, err := json.Marshal(id)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			var back NodeID
			if err := json.Unmarshal(data, &back); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if back != id {
				t.Errorf("expected %#v, got %#v", id, back)
			}
		}
	})
}

func TestParseID(t *testing.T) {
	tests := []struct {
		input string
		want  NodeID
	}{
		{"2", IntID(2)},
		{"-4", IntID(-4)},
		{"root", StringID("root")},
		{"2a", StringID("2a")},
	}

	for _, tt := range tests {
		if got := ParseID(tt.input); got != tt.want {
			t.Errorf("ParseID(%q) = %#v, want %#v", tt.input, got, tt.want)
		}
	}
}

func TestNumberID(t *testing.T) {
	tests := []struct {
		input string
		want  NodeID
	}{
		{"3", IntID(3)},
		{"1.0", IntID(1)},
		{"1e0", IntID(1)},
		{"-2.000", IntID(-2)},
		{"2.50", NodeID{raw: "2.5", numeric: true}},
	}
	for _, tt := range tests {
		got, err := NumberID(tt.input)
		if err != nil {
			t.Fatalf("NumberID(%q): %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("NumberID(%q) = %#v, want %#v", tt.input, got, tt.want)
		}
	}

	for _, bad := range []string{"abc", "NaN", "Inf"} {
		if _, err := NumberID(bad); err == nil {
			t.Errorf("NumberID(%q): expected error", bad)
		}
	}
}

func TestNodeIDInt(t *testing.T) {
	if n, ok := IntID(9).Int(); !ok || n != 9 {
		t.Errorf("expected 9, got %d (ok=%v)", n, ok)
	}
	if _, ok := StringID("9").Int(); ok {
		t.Error("string id must not report an integer value")
	}
	if !(NodeID{}).IsZero() {
		t.Error("expected zero value to be zero")
	}
	if IntID(0).IsZero() {
		t.Error("IntID(0) is a real identifier")
	}
}
