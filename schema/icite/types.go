// Package icite contains wire types for the NIH iCite API,
// https://icite.od.nih.gov/api.
package icite

import "strconv"

// Response is the envelope of /api/pubs.
type Response struct {
	Meta struct {
		Limit  int `json:"limit"`
		Offset int `json:"offset"`
	} `json:"meta"`
	Data []Pub `json:"data"`
}

// Pub carries the citation metrics for a single publication. The ratio and
// rate fields are null when iCite has no value, e.g. for very recent papers.
type Pub struct {
	PMID                  int64    `json:"pmid"`
	Year                  int      `json:"year"`
	CitationCount         int      `json:"citation_count"`
	CitationsPerYear      *float64 `json:"citations_per_year"`
	RelativeCitationRatio *float64 `json:"relative_citation_ratio"`
	FieldCitationRate     *float64 `json:"field_citation_rate"`
}

// ID returns the pmid as a string, the join key against fetched records.
func (p *Pub) ID() string {
	return strconv.FormatInt(p.PMID, 10)
}

// RCR renders the relative citation ratio, empty when absent.
func (p *Pub) RCR() string {
	return formatRatio(p.RelativeCitationRatio)
}

// FCR renders the field citation rate, empty when absent.
func (p *Pub) FCR() string {
	return formatRatio(p.FieldCitationRate)
}

func formatRatio(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}
