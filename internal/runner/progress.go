// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package runner

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"
	"sync"
)

// GDAL terminal progress prints "0...10...20..." without newlines and ends
// with "100 - done.".
var (
	progressStep = regexp.MustCompile(`(\d{1,3})(?:\.\.\.| - done)`)
	progressOnly = regexp.MustCompile(`^[\d. ]*(?:- done\.?)?$`)
)

// progressSink serializes output from stdout and stderr and turns it into
// Progress calls.
type progressSink struct {
	mu   sync.Mutex
	p    Progress
	last int
}

func newProgressSink(p Progress) *progressSink {
	return &progressSink{p: p, last: -1}
}

func (s *progressSink) writer() *lineWriter {
	return &lineWriter{sink: s}
}

// scan reports the highest percentage in text that is above the last one.
func (s *progressSink) scan(text string) {
	best := -1
	for _, m := range progressStep.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil || n > 100 {
			continue
		}
		if n > best {
			best = n
		}
	}
	if best > s.last {
		s.last = best
		s.p.SetPercentage(best)
	}
}

func (s *progressSink) line(text string) {
	text = strings.TrimRight(text, "\r")
	s.scan(text)
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || isProgressLine(trimmed) {
		return
	}
	s.p.Info(text)
}

// isProgressLine reports whether text holds nothing but GDAL progress steps.
// Plain numeric rows such as "0.1 0.7 0.2" are tool output.
func isProgressLine(text string) bool {
	return progressStep.MatchString(text) && progressOnly.MatchString(text)
}

// lineWriter buffers one stream and hands complete lines to the sink.
// Progress in the unterminated tail is reported as soon as it is written.
type lineWriter struct {
	sink *progressSink
	buf  []byte
}

func (w *lineWriter) Write(b []byte) (int, error) {
	w.sink.mu.Lock()
	defer w.sink.mu.Unlock()

	w.buf = append(w.buf, b...)
	for {
		i := bytes.IndexAny(w.buf, "\n\r")
		if i < 0 {
			break
		}
		w.sink.line(string(w.buf[:i]))
		w.buf = w.buf[i+1:]
	}
	if len(w.buf) > 0 {
		w.sink.scan(string(w.buf))
	}
	return len(b), nil
}

// Flush emits any unterminated final line.
func (w *lineWriter) Flush() {
	w.sink.mu.Lock()
	defer w.sink.mu.Unlock()

	if len(w.buf) > 0 {
		w.sink.line(string(w.buf))
		w.buf = nil
	}
}

// Discard is a Progress that ignores everything.
var Discard Progress = discard{}

type discard struct{}

func (discard) SetPercentage(int) {}
func (discard) Info(string)       {}
