// Package stream decodes the event stream returned by the chat endpoint and
// folds it into a single result.
package stream

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"net/http"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// maxErrorBody bounds how much of a failed response body is kept.
const maxErrorBody = 4096

// TransportError is returned when the HTTP exchange with the chat endpoint
// fails: a non 200 status, or a read error mid stream.
type TransportError struct {
	// StatusCode is 0 when no response was received.
	StatusCode int
	Status     string
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.Err != nil && e.StatusCode != 0:
		return fmt.Sprintf("transport: status %v: %v", e.StatusCode, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("transport: %v", e.Err)
	default:
		return fmt.Sprintf("transport: unexpected status code: %v, body: %v", e.Status, e.Body)
	}
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// FallbackEncoding resolves the charset used for lines which are not valid
// UTF-8. The empty label, and the various names of latin-1, resolve to
// ISO-8859-1 proper. Any other label goes through the WHATWG label table.
func FallbackEncoding(label string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "", "latin1", "latin-1", "iso-8859-1", "iso8859-1", "l1":
		return charmap.ISO8859_1, nil
	}
	enc, _ := charset.Lookup(label)
	if enc == nil {
		return nil, fmt.Errorf("unknown charset: %q", label)
	}
	return enc, nil
}

// Lines is a pull iterator over the decoded lines of an event stream. Every
// yielded line ends with exactly one "\n". Blank lines are skipped.
//
// The underlying body is closed once iteration ends, on a read error, or on
// Close, whichever happens first.
type Lines struct {
	body     io.ReadCloser
	br       *bufio.Reader
	decoder  *encoding.Decoder
	text     string
	err      error
	finished bool
	closed   bool
}

// Open checks the response status and wraps the body. A non 200 response is
// drained, closed and reported as a *TransportError. A nil fallback means
// ISO-8859-1.
func Open(res *http.Response, fallback encoding.Encoding) (*Lines, error) {
	if res.StatusCode != http.StatusOK {
		defer res.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		return nil, &TransportError{
			StatusCode: res.StatusCode,
			Status:     res.Status,
			Body:       string(body),
		}
	}
	return NewLines(res.Body, fallback), nil
}

// NewLines wraps an already accepted stream body.
func NewLines(body io.ReadCloser, fallback encoding.Encoding) *Lines {
	if fallback == nil {
		fallback = charmap.ISO8859_1
	}
	return &Lines{
		body:    body,
		br:      bufio.NewReader(body),
		decoder: fallback.NewDecoder(),
	}
}

// Next advances to the next non blank line. It returns false once the stream
// is exhausted, failed or closed.
func (l *Lines) Next() bool {
	for !l.finished && !l.closed {
		raw, err := l.br.ReadString('\n')
		if err != nil {
			l.finished = true
			if !errors.Is(err, io.EOF) {
				l.err = &TransportError{StatusCode: http.StatusOK, Status: "200 OK", Err: fmt.Errorf("failed to read line: %w", err)}
			}
			l.Close()
		}
		line, ok := l.decode(raw)
		if !ok {
			continue
		}
		l.text = line + "\n"
		return true
	}
	l.text = ""
	return false
}

func (l *Lines) decode(raw string) (string, bool) {
	raw = strings.TrimSuffix(raw, "\n")
	raw = strings.TrimSuffix(raw, "\r")
	if raw == "" {
		return "", false
	}
	if utf8.ValidString(raw) {
		return raw, true
	}
	decoded, err := l.decoder.String(raw)
	if err != nil {
		if misc.Truthy(os.Getenv("DEBUG")) {
			ancli.PrintWarn(fmt.Sprintf("dropping undecodable line: %v\n", err))
		}
		return "", false
	}
	return decoded, true
}

// Text returns the current line, newline terminated.
func (l *Lines) Text() string {
	return l.text
}

// Err returns the *TransportError which ended iteration, if any.
func (l *Lines) Err() error {
	return l.err
}

// Close releases the response body. It is safe to call more than once.
func (l *Lines) Close() error {
	if l.closed {
		return nil
	}
	l.closed = true
	return l.body.Close()
}

// All ranges over the remaining lines and closes the body when the loop ends,
// including on break. Check Err afterwards.
func (l *Lines) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		defer l.Close()
		for l.Next() {
			if !yield(l.Text()) {
				return
			}
		}
	}
}
