package crawler

import (
	"reflect"
	"testing"
)

func TestSplitTrailingParen(t *testing.T) {
	tests := []struct {
		in, title, annotation string
	}{
		{"Dune (OV)", "Dune", "OV"},
		{"Dune (OmU - 3D)", "Dune", "OmU - 3D"},
		{"Dune", "Dune", ""},
		{"(500) Days of Summer", "(500) Days of Summer", ""},
		{"  Heimat 2 ( omu ) ", "Heimat 2", "omu"},
	}
	for _, tt := range tests {
		title, annotation := splitTrailingParen(tt.in)
		if title != tt.title || annotation != tt.annotation {
			t.Errorf("splitTrailingParen(%q) = %q, %q; want %q, %q", tt.in, title, annotation, tt.title, tt.annotation)
		}
	}
}

func TestShrinkCandidates(t *testing.T) {
	got := shrinkCandidates("Movie Name - Sneak Preview - 3D")
	want := []string{"Movie Name - Sneak Preview - 3D", "Movie Name - Sneak Preview", "Movie Name"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("shrinkCandidates = %v, want %v", got, want)
	}

	if got := shrinkCandidates("Plain Title"); !reflect.DeepEqual(got, []string{"Plain Title"}) {
		t.Errorf("single segment: %v", got)
	}
}

func TestDroppedSegments(t *testing.T) {
	title := "Movie Name - Sneak Preview - 3D"
	if got := droppedSegments(title, 0); len(got) != 0 {
		t.Errorf("candidate 0 dropped %v", got)
	}
	if got := droppedSegments(title, 1); !reflect.DeepEqual(got, []string{"3D"}) {
		t.Errorf("candidate 1 dropped %v", got)
	}
	if got := droppedSegments(title, 2); !reflect.DeepEqual(got, []string{"Sneak Preview", "3D"}) {
		t.Errorf("candidate 2 dropped %v", got)
	}
}

func TestBlacklisted(t *testing.T) {
	if !blacklisted("Sneak Preview") {
		t.Error("exact blacklist entry not matched")
	}
	if !blacklisted("sneak preview der woche") {
		t.Error("case-insensitive prefix not matched")
	}
	if !blacklisted("MET Opera: Tosca") {
		t.Error("event relay not matched")
	}
	if blacklisted("Der Sneak") {
		t.Error("non-prefix match should not hit")
	}
	if blacklisted("Oppenheimer") {
		t.Error("normal title blacklisted")
	}
}
