// Package pipeline drives the end to end publication aggregation run:
// search, batched fetch, normalize, filter, enrich, impute, sort.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/davidaknowles/schola/convert"
	"github.com/davidaknowles/schola/fetch"
	"github.com/davidaknowles/schola/metrics"
	"github.com/davidaknowles/schola/pubs"
)

// Request describes one aggregation run.
type Request struct {
	// AuthorQuery is the search expression author, e.g. "Knowles DA".
	AuthorQuery string
	// StartYear and EndYear bound the publication date range, inclusive.
	// Either may be empty for an open bound.
	StartYear string
	EndYear   string
	// FilterByPosition keeps only records where the searched author is
	// among the first two or last two authors.
	FilterByPosition bool
}

// LastName returns the searched last name, the first whitespace token of the
// author query.
func (r Request) LastName() string {
	fields := strings.Fields(r.AuthorQuery)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Result carries the output records and run statistics.
type Result struct {
	RunID        uuid.UUID
	Publications []pubs.Publication
	// Found is the raw identifier count the search returned.
	Found int
	// SkippedBatches and SkippedRecords count recovered failures.
	SkippedBatches int
	SkippedRecords int
	// FilteredOut counts records rejected by the position filter.
	FilteredOut int
	Elapsed     time.Duration
}

// Pipeline wires the remote clients together.
type Pipeline struct {
	Entrez *fetch.Client
	ICite  *metrics.Client
	// FetchBatchSize partitions identifiers for efetch. Defaults to
	// fetch.DefaultFetchBatchSize.
	FetchBatchSize int
}

func (p *Pipeline) fetchBatchSize() int {
	if p.FetchBatchSize > 0 {
		return p.FetchBatchSize
	}
	return fetch.DefaultFetchBatchSize
}

// Run executes one aggregation. Only a failing search is returned as an
// error; failed fetch batches and malformed records are logged, counted and
// skipped, so partial results always survive.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	started := time.Now()
	result := &Result{RunID: uuid.New()}
	term := fetch.SearchTerm(req.AuthorQuery, req.StartYear, req.EndYear)
	logger := log.WithFields(log.Fields{
		"run":  result.RunID,
		"term": term,
	})
	logger.Info("searching pubmed")
	ids, err := p.Entrez.Search(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	result.Found = len(ids)
	logger.WithField("found", len(ids)).Info("search done")
	if len(ids) == 0 {
		result.Publications = []pubs.Publication{}
		result.Elapsed = time.Since(started)
		return result, nil
	}
	collected := p.collect(ctx, ids, req, result, logger)
	p.ICite.Enrich(ctx, collected)
	metrics.Impute(collected)
	result.Publications = make([]pubs.Publication, len(collected))
	for i, pub := range collected {
		result.Publications[i] = *pub
	}
	pubs.SortByYearDesc(result.Publications)
	result.Elapsed = time.Since(started)
	logger.WithFields(log.Fields{
		"publications":    len(result.Publications),
		"skipped_batches": result.SkippedBatches,
		"skipped_records": result.SkippedRecords,
		"filtered_out":    result.FilteredOut,
		"elapsed":         result.Elapsed,
	}).Info("run done")
	return result, nil
}

// collect fetches and normalizes records batch by batch, applying the
// position filter. Batch failures skip the batch, malformed records skip the
// record.
func (p *Pipeline) collect(ctx context.Context, ids []string, req Request, result *Result, logger *log.Entry) []*pubs.Publication {
	var (
		collected []*pubs.Publication
		size      = p.fetchBatchSize()
		lastName  = req.LastName()
	)
	for i := 0; i < len(ids); i += size {
		end := i + size
		if end > len(ids) {
			end = len(ids)
		}
		batch := ids[i:end]
		articles, err := p.Entrez.Fetch(ctx, batch)
		if err != nil {
			result.SkippedBatches++
			logger.WithField("batch", i/size).Warnf("fetch batch failed, skipping: %v", err)
			continue
		}
		for j := range articles {
			pub, err := convert.ArticleToPublication(&articles[j])
			if err != nil {
				result.SkippedRecords++
				logger.Warnf("record skipped: %v", err)
				continue
			}
			if req.FilterByPosition && !pubs.AcceptedPosition(pub.Authors, lastName) {
				result.FilteredOut++
				continue
			}
			collected = append(collected, pub)
		}
	}
	return collected
}
