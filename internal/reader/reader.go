package reader

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"unicode/utf8"

	"github.com/ACCESS-NRI/access-profiling/internal/model"
)

var (
	// ErrSourceNotFound reports a profiling source path that does not exist.
	ErrSourceNotFound = errors.New("source not found")
	// ErrSourceUnreadable reports content that cannot be decoded as text.
	ErrSourceUnreadable = errors.New("source unreadable")
)

// maxLineSize bounds a single profiling output line. Model logs occasionally
// dump very wide tables, so this is well above anything seen in practice.
const maxLineSize = 1024 * 1024

// Records streams RawRecord values from one file, a line at a time. It is a
// single-pass iterator: the underlying handle is released as soon as the
// stream is exhausted, fails, or is closed early.
//
//	recs, err := reader.Open(path)
//	if err != nil { ... }
//	defer recs.Close()
//	for recs.Next() {
//	    rec := recs.Record()
//	    ...
//	}
//	if err := recs.Err(); err != nil { ... }
type Records struct {
	path   string
	file   *os.File
	sc     *bufio.Scanner
	cur    model.RawRecord
	line   int
	err    error
	closed bool
}

// Open opens the file at path for record streaming.
func Open(path string) (*Records, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	info, err := f.Stat()
	if err == nil && info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%w: %s is a directory", ErrSourceUnreadable, path)
	}

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	return &Records{path: path, file: f, sc: sc}, nil
}

// Next advances to the next record. It returns false when the stream is
// exhausted or failed; check Err afterwards. The file handle is closed on
// both outcomes.
func (r *Records) Next() bool {
	if r.closed || r.err != nil {
		return false
	}
	if !r.sc.Scan() {
		if err := r.sc.Err(); err != nil {
			r.err = fmt.Errorf("%w: %s: %v", ErrSourceUnreadable, r.path, err)
		}
		r.Close()
		return false
	}
	text := r.sc.Text()
	r.line++
	if !utf8.ValidString(text) {
		r.err = fmt.Errorf("%w: %s:%d is not valid text", ErrSourceUnreadable, r.path, r.line)
		r.Close()
		return false
	}
	r.cur = model.RawRecord{Text: text, Source: r.path, Line: r.line}
	return true
}

// Record returns the record produced by the last successful Next.
func (r *Records) Record() model.RawRecord {
	return r.cur
}

// Err returns the first error hit while streaming, if any.
func (r *Records) Err() error {
	return r.err
}

// Close releases the file handle. Safe to call more than once and after
// Next has already closed the stream.
func (r *Records) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.file.Close()
}

// ReadAll reads every record from the file at path. The handle is released
// before returning, on success and failure alike.
func ReadAll(path string) ([]model.RawRecord, error) {
	recs, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer recs.Close()

	var all []model.RawRecord
	for recs.Next() {
		all = append(all, recs.Record())
	}
	if err := recs.Err(); err != nil {
		return nil, err
	}
	return all, nil
}
