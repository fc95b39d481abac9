package compliance

import "testing"

func TestParse(t *testing.T) {
	cases := map[string]Mode{"": Permissive, "permissive": Permissive, "strict": Strict}
	for in, want := range cases {
		got, err := Parse(in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("Parse(%q) = %s, want %s", in, got, want)
		}
		if in != "" && got.String() != in {
			t.Fatalf("String() = %q, want %q", got.String(), in)
		}
	}
	if _, err := Parse("lenient"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}
