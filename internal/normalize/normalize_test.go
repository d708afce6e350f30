package normalize

import "testing"

func TestNameStripsDiacriticsAndCase(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"Vampyressa brockii", "vampyressa brockii"},
		{"Mus musculus Linné", "mus musculus linne"},
		{"Coelops frithii", "coelops frithii"},
		{"  Felis   catus  ", "felis catus"},
		{"Procyon-lotor", "procyon lotor"},
	}
	for _, tc := range cases {
		got, ok := Name(tc.input)
		if !ok {
			t.Fatalf("Name(%q) not ok", tc.input)
		}
		if got != tc.want {
			t.Fatalf("Name(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestNameDropsSubgenusParentheses(t *testing.T) {
	got, ok := Name("Vampyressa (Vampyriscus) brocki")
	if !ok || got != "vampyressa brocki" {
		t.Fatalf("got %q ok=%v", got, ok)
	}
}

func TestNameRejectsUnusableInput(t *testing.T) {
	for _, input := range []string{"", "   ", "()", "123", "?!"} {
		if got, ok := Name(input); ok {
			t.Fatalf("Name(%q) = %q, expected not ok", input, got)
		}
	}
}

func TestRootAndGenus(t *testing.T) {
	if root := Root("Vampyressa brockii"); root != "brockii" {
		t.Fatalf("Root = %q", root)
	}
	if root := Root("Mus musculus domesticus"); root != "domesticus" {
		t.Fatalf("trinomen Root = %q", root)
	}
	if genus := GenusOf("Vampyressa brockii"); genus != "vampyressa" {
		t.Fatalf("GenusOf = %q", genus)
	}
	if genus := GenusOf("Vampyressa"); genus != "" {
		t.Fatalf("uninomial GenusOf = %q, want empty", genus)
	}
}

func TestEquivalenceKeyPatronymicPairs(t *testing.T) {
	cases := []struct {
		a, b string
	}{
		{"brockii", "brocki"},
		{"wagneriae", "wagnerae"},
		{"smithiorum", "smithorum"},
		{"chinensis", "chiniensis"},
	}
	for _, tc := range cases {
		if !Equivalent(tc.a, tc.b) {
			t.Fatalf("expected %q and %q equivalent", tc.a, tc.b)
		}
	}
	if Equivalent("brocki", "blocki") {
		t.Fatal("distinct roots must not be equivalent")
	}
}

func TestEquivalenceIsTransitive(t *testing.T) {
	// brockii ~ brocki and brocki ~ brocki trivially; the canonical-key
	// construction makes any chain collapse to one key.
	names := []string{"brockii", "brocki"}
	key := EquivalenceKey(names[0])
	for _, name := range names[1:] {
		if EquivalenceKey(name) != key {
			t.Fatalf("key mismatch for %q", name)
		}
	}
}

func TestFamilyStemAndVariants(t *testing.T) {
	stem, ending := FamilyStem("Phyllostomidae")
	if stem != "phyllostom" || ending != "idae" {
		t.Fatalf("FamilyStem = %q, %q", stem, ending)
	}

	variants := FamilyVariants("Phyllostomidae")
	if len(variants) == 0 || variants[0] != "phyllostomidae" {
		t.Fatalf("variants = %v", variants)
	}
	want := map[string]bool{"phyllostominae": false, "phyllostomini": false, "phyllostomina": false, "phyllostomoidea": false}
	for _, v := range variants {
		if _, ok := want[v]; ok {
			want[v] = true
		}
	}
	for v, seen := range want {
		if !seen {
			t.Fatalf("missing variant %q in %v", v, variants)
		}
	}
}

func TestEditDistance(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"brocki", "brocki", 0},
		{"brocki", "brockii", 1},
		{"brocki", "brocky", 1},
		{"musculus", "muscula", 2},
		{"", "abc", 3},
	}
	for _, tc := range cases {
		if got := EditDistance(tc.a, tc.b); got != tc.want {
			t.Fatalf("EditDistance(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}
