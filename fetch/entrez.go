// Package fetch talks to the NCBI E-utilities API,
// https://www.ncbi.nlm.nih.gov/books/NBK25501/.
package fetch

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/segmentio/encoding/json"

	"github.com/davidaknowles/schola/schema/pubmed"
)

const (
	// DefaultBaseURL of the eutils endpoints.
	DefaultBaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"
	// DefaultRetMax caps the number of identifiers a search returns. Larger
	// result sets are cut off rather than paged through.
	DefaultRetMax = 10000
	// DefaultFetchBatchSize is the number of records per efetch call.
	DefaultFetchBatchSize = 100
)

// Doer abstracts https://pkg.go.dev/net/http#Client.Do.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client queries esearch and efetch against the pubmed database. Email and
// Tool are passed through to NCBI as a courtesy identification, unvalidated.
type Client struct {
	BaseURL   string
	Email     string
	Tool      string
	UserAgent string
	RetMax    int
	Client    Doer
}

// SearchTerm builds an author query with an optional inclusive year range.
// Open bounds fall back to effectively unbounded sentinel years.
func SearchTerm(authorQuery string, startYear, endYear string) string {
	term := fmt.Sprintf("%q[Author]", authorQuery)
	if startYear != "" || endYear != "" {
		if startYear == "" {
			startYear = "1900"
		}
		if endYear == "" {
			endYear = "3000"
		}
		term += fmt.Sprintf(` AND (%q[dp] : %q[dp])`, startYear, endYear)
	}
	return term
}

func (c *Client) retmax() int {
	if c.RetMax > 0 {
		return c.RetMax
	}
	return DefaultRetMax
}

func (c *Client) get(ctx context.Context, endpoint string, vs url.Values) (*http.Response, error) {
	if c.Email != "" {
		vs.Set("email", c.Email)
	}
	if c.Tool != "" {
		vs.Set("tool", c.Tool)
	}
	base := c.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	link := fmt.Sprintf("%s/%s?%s", strings.TrimRight(base, "/"), endpoint, vs.Encode())
	req, err := http.NewRequestWithContext(ctx, "GET", link, nil)
	if err != nil {
		return nil, err
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	return c.Client.Do(req)
}

// Search runs an esearch query and returns the matching identifiers, capped
// at RetMax.
func (c *Client) Search(ctx context.Context, term string) ([]string, error) {
	vs := url.Values{}
	vs.Set("db", "pubmed")
	vs.Set("term", term)
	vs.Set("retmax", strconv.Itoa(c.retmax()))
	vs.Set("retmode", "json")
	resp, err := c.get(ctx, "esearch.fcgi", vs)
	if err != nil {
		return nil, fmt.Errorf("esearch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("esearch: HTTP %d", resp.StatusCode)
	}
	var sr pubmed.ESearchResult
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("esearch decode: %w", err)
	}
	return sr.Result.IDList, nil
}

// Fetch retrieves the full records for one batch of identifiers via efetch.
func (c *Client) Fetch(ctx context.Context, pmids []string) ([]pubmed.Article, error) {
	vs := url.Values{}
	vs.Set("db", "pubmed")
	vs.Set("id", strings.Join(pmids, ","))
	vs.Set("retmode", "xml")
	resp, err := c.get(ctx, "efetch.fcgi", vs)
	if err != nil {
		return nil, fmt.Errorf("efetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("efetch: HTTP %d", resp.StatusCode)
	}
	var set pubmed.ArticleSet
	if err := xml.NewDecoder(resp.Body).Decode(&set); err != nil {
		return nil, fmt.Errorf("efetch decode: %w", err)
	}
	return set.Articles, nil
}
