package colors

import "testing"

func strs(ss ...string) []*string {
	out := make([]*string, len(ss))
	for i := range ss {
		out[i] = &ss[i]
	}
	return out
}

func TestBuildMappingDeterministic(t *testing.T) {
	a := BuildMapping(strs("ops", "dev", "qa"))
	b := BuildMapping(strs("qa", "ops", "dev", "dev"))

	if len(a) != 3 || len(b) != 3 {
		t.Fatalf("expected 3 entries, got %d and %d", len(a), len(b))
	}
	for k, v := range a {
		if b[k] != v {
			t.Errorf("mapping differs for %q: %q vs %q", k, v, b[k])
		}
	}
	// Sorted assignment: dev < ops < qa.
	if a["dev"] != Palette[0] || a["ops"] != Palette[1] || a["qa"] != Palette[2] {
		t.Errorf("unexpected slot assignment: %v", a)
	}
}

func TestBuildMappingCyclesPalette(t *testing.T) {
	values := make([]*string, 0, len(Palette)+2)
	names := make([]string, len(Palette)+2)
	for i := range names {
		names[i] = string(rune('a'+i/26)) + string(rune('a'+i%26))
		values = append(values, &names[i])
	}

	mapping := BuildMapping(values)
	if len(mapping) != len(Palette)+2 {
		t.Fatalf("expected %d entries, got %d", len(Palette)+2, len(mapping))
	}
	// The values after the palette boundary wrap to the first slots.
	if mapping[names[len(Palette)]] != Palette[0] {
		t.Errorf("expected wrap to %q, got %q", Palette[0], mapping[names[len(Palette)]])
	}
}

func TestBuildMappingIgnoresNull(t *testing.T) {
	v := "ops"
	mapping := BuildMapping([]*string{nil, &v, nil})
	if len(mapping) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(mapping))
	}
	for _, class := range mapping {
		if class == DefaultClass {
			t.Error("default class must never be assigned to a palette value")
		}
	}
}

func TestClassFor(t *testing.T) {
	v := "ops"
	other := "unknown"
	mapping := BuildMapping([]*string{&v})

	if got := ClassFor(mapping, &v); got != Palette[0] {
		t.Errorf("ClassFor(ops) = %q, want %q", got, Palette[0])
	}
	if got := ClassFor(mapping, nil); got != DefaultClass {
		t.Errorf("ClassFor(nil) = %q, want default", got)
	}
	if got := ClassFor(mapping, &other); got != DefaultClass {
		t.Errorf("ClassFor(unknown) = %q, want default", got)
	}
}
