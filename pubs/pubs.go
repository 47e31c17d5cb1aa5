// Package pubs defines the canonical publication entity produced by the
// aggregation pipeline, plus the ordering and author position rules that
// operate on it.
package pubs

import (
	"sort"
	"strings"
)

// Publication is the canonical record handed to renderers and exporters.
// Every field is defined after the pipeline ran: strings may be empty and
// counts zero, but no field is ever "missing".
type Publication struct {
	PMID          string   `json:"pmid"`
	Title         string   `json:"title"`
	Authors       []string `json:"authors"` // "LastName Initials" or collective name, source order
	Journal       string   `json:"journal"`
	Year          string   `json:"year"` // possibly empty, never validated
	DOI           string   `json:"doi,omitempty"`
	Abstract      string   `json:"abstract,omitempty"`
	SourceURL     string   `json:"source_url"`
	CitationCount int      `json:"citation_count"`
	// RCR is the authoritative relative citation ratio as reported by
	// iCite; empty means unknown, which is distinct from "0".
	RCR               string  `json:"rcr,omitempty"`
	FieldCitationRate string  `json:"field_citation_rate,omitempty"`
	RCRImputed        float64 `json:"rcr_imputed"`
}

// AuthorsDisplay joins the author sequence for one-line rendering.
func (p *Publication) AuthorsDisplay() string {
	return strings.Join(p.Authors, ", ")
}

// DOIURL returns a resolvable link for the DOI, empty when there is none.
func (p *Publication) DOIURL() string {
	if p.DOI == "" {
		return ""
	}
	return "https://doi.org/" + p.DOI
}

// lastNameOf extracts the last name from a display entry like "Smith JA".
// Everything up to the final token counts as the last name, so multi-word
// names ("van der Berg JA") work. Single-token entries are compared whole.
func lastNameOf(entry string) string {
	fields := strings.Fields(entry)
	switch len(fields) {
	case 0:
		return ""
	case 1:
		return fields[0]
	default:
		return strings.Join(fields[:len(fields)-1], " ")
	}
}

// AcceptedPosition reports whether the searched author sits in a significant
// position: among the first two or the last two entries. The first entry
// whose last name matches case-insensitively determines the position. When no
// entry matches, the record is rejected; we cannot verify the position, and
// excluding is the conservative choice.
func AcceptedPosition(authors []string, searchedLastName string) bool {
	pos := -1
	for i, a := range authors {
		if strings.EqualFold(lastNameOf(a), searchedLastName) {
			pos = i
			break
		}
	}
	if pos < 0 {
		return false
	}
	n := len(authors)
	return pos < 2 || pos >= n-2
}

// SortByYearDesc orders publications by year, newest first, using lexical
// string comparison. Lexical compare is exact for four digit years; malformed
// year strings sort unpredictably. Existing consumers depend on this exact
// ordering. The sort is stable, ties keep their fetch order.
func SortByYearDesc(ps []Publication) {
	sort.SliceStable(ps, func(i, j int) bool {
		return ps[i].Year > ps[j].Year
	})
}
