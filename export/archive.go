package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jinzhu/now"
	"github.com/klauspost/compress/zstd"
	gzip "github.com/klauspost/pgzip"
	"github.com/segmentio/encoding/json"

	"github.com/davidaknowles/schola/pubs"
)

var bNewline = []byte("\n")

// ArchiveFilename names the per-run archive after the author, the run day
// and the run id, e.g. "Knowles_DA-2025-01-15-8f14e45f.jsonl.zst".
func ArchiveFilename(author string, t time.Time, runID string, ext string) string {
	day := now.With(t).BeginningOfDay().Format("2006-01-02")
	if len(runID) > 8 {
		runID = runID[:8]
	}
	return fmt.Sprintf("%s-%s-%s.jsonl.%s", CleanName(author), day, runID, ext)
}

// WriteArchive writes the publications as compressed JSONL, one record per
// line. The compressor is chosen by extension: ".zst" or ".gz".
func WriteArchive(path string, ps []pubs.Publication) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	var (
		w      io.Writer
		closer io.Closer
	)
	switch {
	case strings.HasSuffix(path, ".zst"):
		enc, err := zstd.NewWriter(f)
		if err != nil {
			return err
		}
		w, closer = enc, enc
	case strings.HasSuffix(path, ".gz"):
		enc := gzip.NewWriter(f)
		w, closer = enc, enc
	default:
		return fmt.Errorf("unsupported archive extension: %s", path)
	}
	for i := range ps {
		b, err := json.Marshal(&ps[i])
		if err != nil {
			return err
		}
		if _, err := w.Write(append(b, bNewline...)); err != nil {
			return err
		}
	}
	if err := closer.Close(); err != nil {
		return err
	}
	return f.Close()
}
