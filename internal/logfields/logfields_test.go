package logfields

import (
	"errors"
	"log/slog"
	"testing"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"RunID", KeyRunID, "r1", RunID("r1")},
		{"Config", KeyConfig, "navbuilder.yaml", Config("navbuilder.yaml")},
		{"Path", KeyPath, "/tmp/x", Path("/tmp/x")},
		{"Prefix", KeyPrefix, "/posts/", Prefix("/posts/")},
		{"Format", KeyFormat, "json", Format("json")},
		{"Event", KeyEvent, "WRITE", Event("WRITE")},
		{"Error", KeyError, "boom", Error(errors.New("boom"))},
		{"NilError", KeyError, "", Error(nil)},
	}
	for _, c := range cases {
		if c.attr.Key != c.attrKey {
			t.Fatalf("%s key mismatch: got %s want %s", c.name, c.attr.Key, c.attrKey)
		}
		if c.attr.Value.String() != c.attrVal {
			t.Fatalf("%s value mismatch: got %s want %s", c.name, c.attr.Value.String(), c.attrVal)
		}
	}
}

func TestNumericHelpers(t *testing.T) {
	if a := Entries(4); a.Key != KeyEntries || a.Value.Int64() != 4 {
		t.Fatalf("Entries attr = %v", a)
	}
	if a := Problems(2); a.Key != KeyProblems || a.Value.Int64() != 2 {
		t.Fatalf("Problems attr = %v", a)
	}
	if a := Warnings(1); a.Key != KeyWarnings || a.Value.Int64() != 1 {
		t.Fatalf("Warnings attr = %v", a)
	}
	if a := DurationMS(1.5); a.Key != KeyDurationMS || a.Value.Float64() != 1.5 {
		t.Fatalf("DurationMS attr = %v", a)
	}
}
