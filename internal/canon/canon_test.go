package canon

import "testing"

func TestMarshalSortsKeys(t *testing.T) {
	in := map[string]interface{}{"b": 1, "a": 2, "c": map[string]interface{}{"z": 1, "y": 2}}
	got, err := Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"a":2,"b":1,"c":{"y":2,"z":1}}`
	if string(got) != want {
		t.Fatalf("got %s want %s", got, want)
	}
}

func TestMarshalPreservesNonASCII(t *testing.T) {
	in := map[string]interface{}{"label": "café"}
	got, err := Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"label":"café"}`
	if string(got) != want {
		t.Fatalf("got %s want %s", got, want)
	}
}

func TestMarshalNoWhitespace(t *testing.T) {
	in := []interface{}{"a", "b", 1}
	got, err := Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `["a","b",1]`
	if string(got) != want {
		t.Fatalf("got %s want %s", got, want)
	}
}

func TestCanonicalizeJSONArrayOrderPreserved(t *testing.T) {
	got, err := CanonicalizeJSON([]byte(`{"used":["3","1","2"]}`))
	if err != nil {
		t.Fatalf("CanonicalizeJSON: %v", err)
	}
	want := `{"used":["3","1","2"]}`
	if string(got) != want {
		t.Fatalf("array order should be preserved by the codec layer, got %s want %s", got, want)
	}
}

func TestSortUsedDeterministic(t *testing.T) {
	a := SortUsed([]string{"3", "1", "2"})
	b := SortUsed([]string{"2", "3", "1"})
	if len(a) != len(b) {
		t.Fatalf("length mismatch")
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("SortUsed not order-independent: %v vs %v", a, b)
		}
	}
}
