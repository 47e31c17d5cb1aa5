// Package metrics enriches publications with citation metrics from NIH
// iCite and derives a usable impact score for every record.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/segmentio/encoding/json"
	log "github.com/sirupsen/logrus"

	"github.com/davidaknowles/schola/pubs"
	"github.com/davidaknowles/schola/schema/icite"
)

const (
	// DefaultBaseURL of the iCite API.
	DefaultBaseURL = "https://icite.od.nih.gov/api"
	// DefaultBatchSize is the stated request limit of the pubs endpoint.
	DefaultBatchSize = 1000
	// DefaultPause between batch requests, a fair use courtesy.
	DefaultPause = 500 * time.Millisecond
)

// Doer abstracts https://pkg.go.dev/net/http#Client.Do.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client fetches citation metrics in bounded batches.
type Client struct {
	BaseURL   string
	UserAgent string
	BatchSize int
	Pause     time.Duration
	Client    Doer
}

func (c *Client) batchSize() int {
	if c.BatchSize > 0 {
		return c.BatchSize
	}
	return DefaultBatchSize
}

// Lookup issues one batch request and returns metrics keyed by pmid.
// Identifiers unknown to iCite are simply absent from the map.
func (c *Client) Lookup(ctx context.Context, pmids []string) (map[string]icite.Pub, error) {
	vs := url.Values{}
	vs.Set("pmids", strings.Join(pmids, ","))
	vs.Set("format", "json")
	base := c.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	link := fmt.Sprintf("%s/pubs?%s", strings.TrimRight(base, "/"), vs.Encode())
	req, err := http.NewRequestWithContext(ctx, "GET", link, nil)
	if err != nil {
		return nil, err
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("icite: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("icite: HTTP %d", resp.StatusCode)
	}
	var ir icite.Response
	if err := json.NewDecoder(resp.Body).Decode(&ir); err != nil {
		return nil, fmt.Errorf("icite decode: %w", err)
	}
	m := make(map[string]icite.Pub, len(ir.Data))
	for _, pub := range ir.Data {
		m[pub.ID()] = pub
	}
	return m, nil
}

// Enrich mutates publications in place with citation counts and ratios,
// batch by batch. A failed batch leaves its publications with explicit empty
// metric fields and the run continues; every record exits this function with
// its citation fields fully set, either to real or to empty values.
func (c *Client) Enrich(ctx context.Context, ps []*pubs.Publication) {
	size := c.batchSize()
	for i := 0; i < len(ps); i += size {
		end := i + size
		if end > len(ps) {
			end = len(ps)
		}
		batch := ps[i:end]
		if i > 0 && c.Pause > 0 {
			time.Sleep(c.Pause)
		}
		pmids := make([]string, len(batch))
		for j, p := range batch {
			pmids[j] = p.PMID
		}
		m, err := c.Lookup(ctx, pmids)
		if err != nil {
			log.WithFields(log.Fields{
				"batch": i / size,
				"size":  len(batch),
			}).Warnf("icite: batch failed, keeping empty metrics: %v", err)
			for _, p := range batch {
				p.CitationCount = 0
				p.RCR = ""
				p.FieldCitationRate = ""
			}
			continue
		}
		for _, p := range batch {
			md, ok := m[p.PMID]
			if !ok {
				p.CitationCount = 0
				p.RCR = ""
				p.FieldCitationRate = ""
				continue
			}
			p.CitationCount = md.CitationCount
			p.RCR = md.RCR()
			p.FieldCitationRate = md.FCR()
		}
		log.WithFields(log.Fields{
			"batch":   i / size,
			"matched": len(m),
			"size":    len(batch),
		}).Debug("icite: batch enriched")
	}
}
