package metrics

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/davidaknowles/schola/pubs"
)

const mockICiteResponse = `{
  "meta": {"limit": 1000, "offset": 0},
  "data": [
    {"pmid": 33099000, "year": 2020, "citation_count": 42,
     "relative_citation_ratio": 2.13, "field_citation_rate": 7.5},
    {"pmid": 22222222, "year": 2023, "citation_count": 3,
     "relative_citation_ratio": null, "field_citation_rate": null}
  ]
}`

func TestLookup(t *testing.T) {
	var seen string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.URL.Path + "?" + r.URL.RawQuery
		fmt.Fprint(w, mockICiteResponse)
	}))
	defer ts.Close()
	client := &Client{BaseURL: ts.URL, Client: ts.Client()}
	m, err := client.Lookup(context.Background(), []string{"33099000", "22222222", "99999999"})
	if err != nil {
		t.Fatalf("got %v, want no error", err)
	}
	for _, fragment := range []string{"/pubs", "format=json", "pmids=33099000%2C22222222%2C99999999"} {
		if !strings.Contains(seen, fragment) {
			t.Errorf("request %v missing %v", seen, fragment)
		}
	}
	md, ok := m["33099000"]
	if !ok {
		t.Fatalf("missing metrics for 33099000")
	}
	if md.CitationCount != 42 {
		t.Errorf("citation count: got %v, want 42", md.CitationCount)
	}
	if got := md.RCR(); got != "2.13" {
		t.Errorf("rcr: got %v, want 2.13", got)
	}
	if got := md.FCR(); got != "7.5" {
		t.Errorf("fcr: got %v, want 7.5", got)
	}
	recent := m["22222222"]
	if got := recent.RCR(); got != "" {
		t.Errorf("null rcr: got %q, want empty", got)
	}
	if _, ok := m["99999999"]; ok {
		t.Errorf("unknown pmid must be absent from the map")
	}
}

func TestEnrich(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, mockICiteResponse)
	}))
	defer ts.Close()
	client := &Client{BaseURL: ts.URL, Client: ts.Client()}
	ps := []*pubs.Publication{
		{PMID: "33099000", RCR: "stale", CitationCount: 1},
		{PMID: "99999999", RCR: "stale", FieldCitationRate: "stale", CitationCount: 7},
	}
	client.Enrich(context.Background(), ps)
	if ps[0].CitationCount != 42 || ps[0].RCR != "2.13" || ps[0].FieldCitationRate != "7.5" {
		t.Errorf("matched record: got %+v", ps[0])
	}
	// Unmatched records are reset to explicit empty values, not left stale.
	if ps[1].CitationCount != 0 || ps[1].RCR != "" || ps[1].FieldCitationRate != "" {
		t.Errorf("unmatched record: got %+v, want empty metrics", ps[1])
	}
}

func TestEnrichBatching(t *testing.T) {
	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		pmids := r.URL.Query().Get("pmids")
		if strings.Contains(pmids, ",") {
			t.Errorf("batch size 1 violated: %v", pmids)
		}
		fmt.Fprint(w, `{"meta": {}, "data": []}`)
	}))
	defer ts.Close()
	client := &Client{BaseURL: ts.URL, BatchSize: 1, Client: ts.Client()}
	ps := []*pubs.Publication{{PMID: "1"}, {PMID: "2"}, {PMID: "3"}}
	client.Enrich(context.Background(), ps)
	if calls != 3 {
		t.Errorf("got %d calls, want 3", calls)
	}
}

func TestEnrichBatchFailure(t *testing.T) {
	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, mockICiteResponse)
	}))
	defer ts.Close()
	client := &Client{BaseURL: ts.URL, BatchSize: 1, Client: ts.Client()}
	ps := []*pubs.Publication{
		{PMID: "11111111", RCR: "stale", CitationCount: 9},
		{PMID: "33099000"},
	}
	client.Enrich(context.Background(), ps)
	// First batch failed, its record carries explicit empty metrics.
	if ps[0].CitationCount != 0 || ps[0].RCR != "" {
		t.Errorf("failed batch record: got %+v, want empty metrics", ps[0])
	}
	// Second batch still ran and matched.
	if ps[1].CitationCount != 42 || ps[1].RCR != "2.13" {
		t.Errorf("second batch record: got %+v", ps[1])
	}
}
