// schola fetches all publications for an author from PubMed, enriches them
// with citation metrics from NIH iCite and writes a ranked report.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/sethgrid/pester"
	log "github.com/sirupsen/logrus"

	"github.com/davidaknowles/schola"
	"github.com/davidaknowles/schola/dateutil"
	"github.com/davidaknowles/schola/export"
	"github.com/davidaknowles/schola/fetch"
	"github.com/davidaknowles/schola/metrics"
	"github.com/davidaknowles/schola/pipeline"
)

var docs = strings.TrimLeft(`
# schola - author publication explorer

Fetches publications for an author from PubMed (NCBI E-utilities), adds
citation counts and relative citation ratios from NIH iCite, imputes a usable
impact score where iCite has none, and writes CSV, JSON or an interactive
HTML report.

## examples

$ schola "Knowles DA"
$ schola -email you@example.com -start-year 2020 "Smith J"
$ schola -format all -archive zst "Doe J"

## flags

`, "\n")

var (
	defaultOutputDir = path.Join(xdg.DataHome, schola.AppName)

	email       = flag.String("email", "", "contact email passed to NCBI Entrez")
	startYear   = flag.String("start-year", "", "start year for filtering publications")
	endYear     = flag.String("end-year", "", "end year for filtering publications")
	format      = flag.String("format", "html", "output format: csv, json, html or all")
	archiveExt  = flag.String("archive", "", "also write a compressed jsonl archive: zst or gz")
	outputDir   = flag.String("d", defaultOutputDir, "directory to write outputs to")
	noPosFilter = flag.Bool("no-position-filter", false, "keep papers regardless of author position")
	maxRetries  = flag.Int("r", 3, "max retries per request")
	timeout     = flag.Duration("T", 60*time.Second, "request timeout")
	icitePause  = flag.Duration("pause", metrics.DefaultPause, "pause between icite batches")
	verbose     = flag.Bool("verbose", false, "debug logging")
	showVersion = flag.Bool("version", false, "show version")
)

func main() {
	flag.Usage = func() {
		io.WriteString(os.Stderr, docs)
		flag.PrintDefaults()
	}
	flag.Parse()
	if *showVersion {
		fmt.Println(schola.Version)
		os.Exit(0)
	}
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}
	author := strings.TrimSpace(flag.Arg(0))
	if author == "" {
		log.Fatal(`missing author argument, e.g. schola "Knowles DA"`)
	}
	start, err := dateutil.ParseYear(*startYear)
	if err != nil {
		log.Fatalf("start year: %v", err)
	}
	end, err := dateutil.ParseYear(*endYear)
	if err != nil {
		log.Fatalf("end year: %v", err)
	}
	formats, err := parseFormats(*format)
	if err != nil {
		log.Fatal(err)
	}
	// HTTP client
	client := pester.New()
	client.Backoff = pester.ExponentialBackoff
	client.MaxRetries = *maxRetries
	client.RetryOnHTTP429 = true
	client.Timeout = *timeout
	p := &pipeline.Pipeline{
		Entrez: &fetch.Client{
			Email:     *email,
			Tool:      schola.AppName,
			UserAgent: schola.UserAgent,
			Client:    client,
		},
		ICite: &metrics.Client{
			UserAgent: schola.UserAgent,
			Pause:     *icitePause,
			Client:    client,
		},
	}
	result, err := p.Run(context.Background(), pipeline.Request{
		AuthorQuery:      author,
		StartYear:        start,
		EndYear:          end,
		FilterByPosition: !*noPosFilter,
	})
	if err != nil {
		log.Fatalf("run failed: %v", err)
	}
	if len(result.Publications) == 0 {
		fmt.Println("No publications found.")
		return
	}
	paths, err := export.WriteAll(*outputDir, author, formats, result.Publications)
	if err != nil {
		log.Fatalf("export: %v", err)
	}
	if *archiveExt != "" {
		fn := export.ArchiveFilename(author, time.Now(), result.RunID.String(), *archiveExt)
		archivePath := path.Join(*outputDir, fn)
		if err := export.WriteArchive(archivePath, result.Publications); err != nil {
			log.Fatalf("archive: %v", err)
		}
		paths = append(paths, archivePath)
	}
	fmt.Printf("Total publications: %d\n", len(result.Publications))
	if lo, hi, ok := yearRange(result); ok {
		fmt.Printf("Year range: %s - %s\n", lo, hi)
	}
	for _, p := range paths {
		fmt.Println(p)
	}
}

func parseFormats(s string) ([]export.Format, error) {
	switch s {
	case "csv":
		return []export.Format{export.FormatCSV}, nil
	case "json":
		return []export.Format{export.FormatJSON}, nil
	case "html":
		return []export.Format{export.FormatHTML}, nil
	case "all":
		return []export.Format{export.FormatCSV, export.FormatJSON, export.FormatHTML}, nil
	}
	return nil, fmt.Errorf("unknown format: %s (want csv, json, html or all)", s)
}

// yearRange returns the lexical min and max of the non-empty year strings.
func yearRange(result *pipeline.Result) (lo, hi string, ok bool) {
	for i := range result.Publications {
		y := result.Publications[i].Year
		if y == "" {
			continue
		}
		if !ok {
			lo, hi, ok = y, y, true
			continue
		}
		if y < lo {
			lo = y
		}
		if y > hi {
			hi = y
		}
	}
	return lo, hi, ok
}
