// Package convert normalizes raw bibliographic records into the canonical
// publication entity. Records that cannot be normalized yield a typed Skip
// error, so callers can drop them and keep going.
package convert

import "errors"

// Skip marks a per-record failure that the pipeline recovers from by
// dropping the record.
type Skip struct {
	err error
}

func (s Skip) Error() string {
	return s.err.Error()
}

// IsSkip reports whether err is a record level skip.
func IsSkip(err error) bool {
	var s Skip
	return errors.As(err, &s)
}

var (
	ErrSkipNoPMID    = Skip{err: errors.New("no pmid")}
	ErrSkipNoArticle = Skip{err: errors.New("empty article container")}
)
