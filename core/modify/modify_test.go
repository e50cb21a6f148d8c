package modify

import "testing"

// TestSetTopLevel confirms Set assigns a top-level field without mutating
// the original document.
func TestSetTopLevel(t *testing.T) {
	doc := Document{"name": "Alice"}
	out := Set("age", 30).Apply(doc)

	if out["age"] != 30 {
		t.Errorf("age = %v, want 30", out["age"])
	}
	if _, ok := doc["age"]; ok {
		t.Error("Set mutated the original document")
	}
}

// TestSetNestedDoesNotAliasOriginal confirms Set on a dotted path does not
// mutate a nested map still referenced by the original document.
func TestSetNestedDoesNotAliasOriginal(t *testing.T) {
	nested := Document{"city": "Paris"}
	doc := Document{"address": nested}

	out := Set("address.city", "Lyon").Apply(doc)

	gotOut := out["address"].(Document)["city"]
	if gotOut != "Lyon" {
		t.Errorf("out address.city = %v, want Lyon", gotOut)
	}
	if nested["city"] != "Paris" {
		t.Errorf("original nested map was mutated: city = %v, want Paris", nested["city"])
	}
}

// TestSetCreatesIntermediateMaps confirms Set builds intermediate maps for
// a dotted path that doesn't exist yet.
func TestSetCreatesIntermediateMaps(t *testing.T) {
	doc := Document{}
	out := Set("a.b.c", 1).Apply(doc)

	a, ok := out["a"].(Document)
	if !ok {
		t.Fatalf("out[a] = %v (%T), want a map", out["a"], out["a"])
	}
	b, ok := a["b"].(Document)
	if !ok {
		t.Fatalf("out[a][b] = %v (%T), want a map", a["b"], a["b"])
	}
	if b["c"] != 1 {
		t.Errorf("out[a][b][c] = %v, want 1", b["c"])
	}
}

// TestUnset confirms Unset removes a top-level field and leaves the
// original document untouched.
func TestUnset(t *testing.T) {
	doc := Document{"name": "Alice", "age": 30}
	out := Unset("age").Apply(doc)

	if _, ok := out["age"]; ok {
		t.Error("age should have been removed")
	}
	if _, ok := doc["age"]; !ok {
		t.Error("Unset mutated the original document")
	}
}

// TestChain confirms Chain feeds each Modify's output into the next.
func TestChain(t *testing.T) {
	doc := Document{"name": "Alice", "age": 30}
	out := Chain(Set("age", 31), Unset("name")).Apply(doc)

	if out["age"] != 31 {
		t.Errorf("age = %v, want 31", out["age"])
	}
	if _, ok := out["name"]; ok {
		t.Error("name should have been removed")
	}
}
