package unit

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// DecoderFunc converts a JSONL line into a value of type T.
type DecoderFunc[T any] func([]byte) (T, error)

// LineError is a decode failure of a single line. The reader stays usable.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// Reader streams JSONL records of type T.
type Reader[T any] struct {
	br     *bufio.Reader
	decode DecoderFunc[T]
	lineNo int
}

// NewReader wraps r. decode == nil defaults to json.Unmarshal.
func NewReader[T any](r io.Reader, decode DecoderFunc[T]) *Reader[T] {
	if decode == nil {
		decode = func(b []byte) (T, error) {
			var v T
			err := json.Unmarshal(b, &v)
			return v, err
		}
	}
	return &Reader[T]{br: bufio.NewReader(r), decode: decode}
}

// Line returns the 1-based number of the last line read.
func (r *Reader[T]) Line() int { return r.lineNo }

// Next returns the next record. ok=false means EOF. A *LineError reports a
// line that failed to decode; calling Next again continues after it.
func (r *Reader[T]) Next() (T, bool, error) {
	var zero T
	if r == nil || r.br == nil {
		return zero, false, errors.New("reader not initialized")
	}
	for {
		line, err := r.readLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return zero, false, nil
			}
			return zero, false, err
		}
		trim := strings.TrimSpace(line)
		if trim == "" || strings.HasPrefix(trim, "#") {
			continue
		}
		v, derr := r.decode([]byte(trim))
		if derr != nil {
			return zero, false, &LineError{Line: r.lineNo, Err: derr}
		}
		return v, true, nil
	}
}

// ReadAll loads all records, stopping at the first error.
func (r *Reader[T]) ReadAll() ([]T, error) {
	var out []T
	for {
		v, ok, err := r.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, v)
	}
}

func (r *Reader[T]) readLine() (string, error) {
	var b []byte
	for {
		chunk, isPrefix, err := r.br.ReadLine()
		if err != nil {
			if len(b) > 0 && errors.Is(err, io.EOF) {
				return string(b), nil
			}
			return "", err
		}
		b = append(b, chunk...)
		if !isPrefix {
			r.lineNo++
			return string(b), nil
		}
	}
}
