package pubs

import "testing"

func TestAcceptedPosition(t *testing.T) {
	five := []string{"Alpha A", "Beta B", "Gamma C", "Delta D", "Epsilon E"}
	cases := []struct {
		name     string
		authors  []string
		searched string
		want     bool
	}{
		{"first author", five, "Alpha", true},
		{"second author", five, "Beta", true},
		{"middle of five rejected", five, "Gamma", false},
		{"fourth of five is last two", five, "Delta", true},
		{"last author", five, "Epsilon", true},
		{"case insensitive", five, "alpha", true},
		{"not in list", five, "Omega", false},
		{"empty list", nil, "Alpha", false},
		{"single author", []string{"Solo S"}, "Solo", true},
		{"multi word last name", []string{"van der Berg JA", "Other O", "More M", "Names N", "Here H"}, "van der Berg", true},
		{"collective name never matches person", []string{"The BRAIN Consortium", "A A", "B B", "C C", "D D"}, "Consortium", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := AcceptedPosition(c.authors, c.searched); got != c.want {
				t.Errorf("got %v, want %v", got, c.want)
			}
		})
	}
}

func TestAcceptedPositionFirstMatchWins(t *testing.T) {
	// Two entries share the last name; position is decided by the first.
	authors := []string{"A A", "B B", "Smith JA", "D D", "E E", "Smith KB"}
	if AcceptedPosition(authors, "Smith") {
		t.Errorf("first matching position is 2 of 6, should be rejected")
	}
}

func TestSortByYearDesc(t *testing.T) {
	ps := []Publication{
		{PMID: "1", Year: "2019"},
		{PMID: "2", Year: "2021"},
		{PMID: "3", Year: "2021"},
		{PMID: "4", Year: ""},
		{PMID: "5", Year: "2020"},
	}
	SortByYearDesc(ps)
	wantOrder := []string{"2", "3", "5", "1", "4"}
	for i, want := range wantOrder {
		if ps[i].PMID != want {
			t.Errorf("position %d: got pmid %s, want %s", i, ps[i].PMID, want)
		}
	}
}

func TestSortByYearDescStable(t *testing.T) {
	ps := []Publication{
		{PMID: "a", Year: "2020"},
		{PMID: "b", Year: "2020"},
		{PMID: "c", Year: "2020"},
	}
	SortByYearDesc(ps)
	for i, want := range []string{"a", "b", "c"} {
		if ps[i].PMID != want {
			t.Errorf("tie order changed: position %d got %s, want %s", i, ps[i].PMID, want)
		}
	}
}
