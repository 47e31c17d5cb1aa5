package export

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/klauspost/compress/zstd"
	gzip "github.com/klauspost/pgzip"
	"github.com/segmentio/encoding/json"

	"github.com/davidaknowles/schola/pubs"
)

var testPubs = []pubs.Publication{
	{
		PMID:          "33099000",
		Title:         "Mapping regulatory variants.",
		Authors:       []string{"Knowles DA", "Smith J"},
		Journal:       "Nature genetics",
		Year:          "2020",
		DOI:           "10.1038/s41588-020-0001",
		Abstract:      "Regulatory variants matter.",
		SourceURL:     "https://pubmed.ncbi.nlm.nih.gov/33099000/",
		CitationCount: 42,
		RCR:           "2.13",
		RCRImputed:    2.13,
	},
	{
		PMID:          "22222222",
		Title:         "Minimal record.",
		Authors:       []string{"Doe J"},
		Journal:       "Bioinformatics",
		Year:          "2019",
		SourceURL:     "https://pubmed.ncbi.nlm.nih.gov/22222222/",
		CitationCount: 5,
		RCRImputed:    0.83,
	},
}

func TestCleanName(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Knowles DA", "Knowles_DA"},
		{`"Knowles DA"`, "Knowles_DA"},
		{"Solo", "Solo"},
	}
	for _, c := range cases {
		if got := CleanName(c.in); got != c.want {
			t.Errorf("CleanName(%q): got %v, want %v", c.in, got, c.want)
		}
	}
}

func TestFilename(t *testing.T) {
	ts := time.Date(2025, 1, 15, 13, 37, 0, 0, time.UTC)
	got := Filename("Knowles DA", ts, "csv")
	want := "Knowles_DA_publications_20250115.csv"
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestArchiveFilename(t *testing.T) {
	ts := time.Date(2025, 1, 15, 13, 37, 0, 0, time.UTC)
	got := ArchiveFilename("Knowles DA", ts, "8f14e45f-1234-5678-9abc-def012345678", "zst")
	want := "Knowles_DA-2025-01-15-8f14e45f.jsonl.zst"
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	if err := WriteCSV(path, testPubs); err != nil {
		t.Fatalf("got %v, want no error", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header plus 2", len(rows))
	}
	if rows[0][0] != "pmid" || rows[0][len(rows[0])-1] != "rcr_imputed" {
		t.Errorf("header: got %v", rows[0])
	}
	if rows[1][0] != "33099000" {
		t.Errorf("first row pmid: got %v", rows[1][0])
	}
	if rows[1][2] != "Knowles DA, Smith J" {
		t.Errorf("authors column: got %v", rows[1][2])
	}
	if rows[2][9] != "" {
		t.Errorf("empty rcr must stay empty, got %q", rows[2][9])
	}
}

func TestWriteJSONRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	if err := WriteJSON(path, testPubs); err != nil {
		t.Fatalf("got %v, want no error", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var got []pubs.Publication
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got) != 2 || got[0].PMID != "33099000" || got[1].CitationCount != 5 {
		t.Errorf("roundtrip mismatch: %+v", got)
	}
}

func TestWriteAll(t *testing.T) {
	dir := t.TempDir()
	formats := []Format{FormatCSV, FormatJSON, FormatHTML}
	paths, err := WriteAll(dir, "Knowles DA", formats, testPubs)
	if err != nil {
		t.Fatalf("got %v, want no error", err)
	}
	if len(paths) != 3 {
		t.Fatalf("got %d paths, want 3", len(paths))
	}
	for _, p := range paths {
		fi, err := os.Stat(p)
		if err != nil {
			t.Errorf("stat %v: %v", p, err)
			continue
		}
		if fi.Size() == 0 {
			t.Errorf("%v is empty", p)
		}
	}
}

func TestWriteAllUnknownFormat(t *testing.T) {
	if _, err := WriteAll(t.TempDir(), "X", []Format{"yaml"}, testPubs); err == nil {
		t.Errorf("want error for unknown format")
	}
}

func TestWriteArchive(t *testing.T) {
	for _, ext := range []string{"zst", "gz"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "archive.jsonl."+ext)
			if err := WriteArchive(path, testPubs); err != nil {
				t.Fatalf("got %v, want no error", err)
			}
			f, err := os.Open(path)
			if err != nil {
				t.Fatal(err)
			}
			defer f.Close()
			var lines [][]byte
			switch ext {
			case "zst":
				dec, err := zstd.NewReader(f)
				if err != nil {
					t.Fatal(err)
				}
				defer dec.Close()
				lines = readLines(t, dec)
			case "gz":
				dec, err := gzip.NewReader(f)
				if err != nil {
					t.Fatal(err)
				}
				defer dec.Close()
				lines = readLines(t, dec)
			}
			if len(lines) != 2 {
				t.Fatalf("got %d lines, want 2", len(lines))
			}
			var p pubs.Publication
			if err := json.Unmarshal(lines[0], &p); err != nil {
				t.Fatalf("unmarshal line: %v", err)
			}
			if p.PMID != "33099000" {
				t.Errorf("pmid: got %v", p.PMID)
			}
		})
	}
}

func TestWriteArchiveUnknownExt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.jsonl.lz4")
	if err := WriteArchive(path, testPubs); err == nil {
		t.Errorf("want error for unsupported extension")
	}
}

func readLines(t *testing.T, r io.Reader) [][]byte {
	t.Helper()
	var lines [][]byte
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, append([]byte{}, scanner.Bytes()...))
	}
	if err := scanner.Err(); err != nil {
		t.Fatal(err)
	}
	return lines
}

func TestRenderHTML(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderHTML(&buf, "Knowles DA", testPubs); err != nil {
		t.Fatalf("got %v, want no error", err)
	}
	doc, err := goquery.NewDocumentFromReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if got := doc.Find(".publication").Length(); got != 2 {
		t.Errorf("publication cards: got %d, want 2", got)
	}
	summary := doc.Find(".summary").Text()
	if !strings.Contains(summary, "2") || !strings.Contains(summary, "47") {
		t.Errorf("summary: got %q, want counts 2 and 47", summary)
	}
	// Searched author is bolded in the author line.
	if got := doc.Find(".authors strong").First().Text(); got != "Knowles DA" {
		t.Errorf("highlight: got %q, want Knowles DA", got)
	}
	// Sort selector defaults to rcr.
	if _, ok := doc.Find("#sortBy option[selected]").Attr("value"); !ok {
		t.Errorf("missing preselected sort option")
	}
	first := doc.Find(".publication").First()
	if v, _ := first.Attr("data-rcr"); v != "2.13" {
		t.Errorf("data-rcr: got %v, want 2.13", v)
	}
}

func TestHighlightAuthors(t *testing.T) {
	cases := []struct {
		name    string
		authors []string
		query   string
		want    string
	}{
		{"match with initials", []string{"Knowles DA", "Smith J"}, "Knowles DA",
			"<strong>Knowles DA</strong>, Smith J"},
		{"initials prefix", []string{"Knowles D"}, "Knowles D",
			"<strong>Knowles D</strong>"},
		{"last name only query", []string{"Knowles DA", "Smith J"}, "Knowles",
			"<strong>Knowles DA</strong>, Smith J"},
		{"different initials", []string{"Knowles KB"}, "Knowles DA",
			"Knowles KB"},
		{"escapes html", []string{"O<Neil P"}, "Nobody X",
			"O&lt;Neil P"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := string(HighlightAuthors(c.authors, c.query)); got != c.want {
				t.Errorf("got %v, want %v", got, c.want)
			}
		})
	}
}

func TestRCRDisplay(t *testing.T) {
	cases := []struct {
		pub  pubs.Publication
		want string
	}{
		{pubs.Publication{RCR: "2.13", RCRImputed: 2.13}, "2.13"},
		{pubs.Publication{RCR: "", RCRImputed: 0.833}, "0.83"},
		{pubs.Publication{}, "N/A"},
	}
	for _, c := range cases {
		if got := rcrDisplay(c.pub); got != c.want {
			t.Errorf("got %v, want %v", got, c.want)
		}
	}
}
