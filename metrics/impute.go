package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/davidaknowles/schola/pubs"
)

// neutralFallbackRCR is assigned when the authoritative ratio is present but
// not parseable. The exact value is load bearing for downstream sorting, do
// not change it without a compatibility review.
const neutralFallbackRCR = 1.5

// Impute derives an impact score for every publication, relative to the
// current wall clock year.
func Impute(ps []*pubs.Publication) {
	ImputeAt(ps, time.Now().Year())
}

// ImputeAt computes RCRImputed in place. When the authoritative ratio is
// known it is used directly; otherwise the score is estimated from citation
// velocity, citations per year since publication, with a bias toward papers
// from the current year. The function re-derives only from the source
// fields, so running it again yields identical values.
func ImputeAt(ps []*pubs.Publication, currentYear int) {
	for _, p := range ps {
		p.RCRImputed = imputeOne(p, currentYear)
	}
}

func imputeOne(p *pubs.Publication, currentYear int) float64 {
	if p.RCR != "" {
		v, err := strconv.ParseFloat(strings.TrimSpace(p.RCR), 64)
		if err != nil {
			return neutralFallbackRCR
		}
		return v
	}
	if p.Year == "" || p.CitationCount == 0 {
		return 0
	}
	year, err := strconv.Atoi(p.Year)
	if err != nil {
		return 0
	}
	yearsSince := currentYear - year
	if yearsSince > 0 {
		return float64(p.CitationCount) / float64(yearsSince)
	}
	return float64(p.CitationCount) + 1
}
