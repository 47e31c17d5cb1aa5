// Package export writes finished publication lists to files: CSV, JSON, a
// standalone HTML report, and a compressed JSONL archive.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/segmentio/encoding/json"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/davidaknowles/schola/pubs"
)

// Format selects an output representation.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatHTML Format = "html"
)

// CleanName makes an author query safe for filenames.
func CleanName(author string) string {
	author = strings.ReplaceAll(author, " ", "_")
	return strings.ReplaceAll(author, `"`, "")
}

// Filename returns the conventional export filename for a run, e.g.
// "Knowles_DA_publications_20250115.csv".
func Filename(author string, t time.Time, ext string) string {
	return fmt.Sprintf("%s_publications_%s.%s", CleanName(author), t.Format("20060102"), ext)
}

var csvHeader = []string{
	"pmid", "title", "authors", "journal", "year", "doi",
	"abstract", "source_url", "citation_count", "rcr",
	"field_citation_rate", "rcr_imputed",
}

// WriteCSV writes one row per publication, authors joined by comma.
func WriteCSV(path string, ps []pubs.Publication) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for i := range ps {
		p := &ps[i]
		row := []string{
			p.PMID, p.Title, p.AuthorsDisplay(), p.Journal, p.Year, p.DOI,
			p.Abstract, p.SourceURL, strconv.Itoa(p.CitationCount), p.RCR,
			p.FieldCitationRate, strconv.FormatFloat(p.RCRImputed, 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WriteJSON writes the publication list as an indented JSON array.
func WriteJSON(path string, ps []pubs.Publication) error {
	b, err := json.MarshalIndent(ps, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// WriteHTML writes the standalone interactive report.
func WriteHTML(path, author string, ps []pubs.Publication) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return RenderHTML(f, author, ps)
}

// WriteAll writes the selected formats under dir, concurrently since the
// writers are independent. Returns the paths written.
func WriteAll(dir, author string, formats []Format, ps []pubs.Publication) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	var (
		g     errgroup.Group
		now   = time.Now()
		paths = make([]string, len(formats))
	)
	for i, format := range formats {
		path := filepath.Join(dir, Filename(author, now, string(format)))
		paths[i] = path
		format := format
		g.Go(func() error {
			switch format {
			case FormatCSV:
				return WriteCSV(path, ps)
			case FormatJSON:
				return WriteJSON(path, ps)
			case FormatHTML:
				return WriteHTML(path, author, ps)
			default:
				return fmt.Errorf("unknown format: %s", format)
			}
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for _, path := range paths {
		log.WithField("path", path).Info("export written")
	}
	return paths, nil
}
