package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"libfine/internal/core"
)

var (
	ErrInvalidDateFormat = errors.New("invalid date format")
	ErrInputClosed       = errors.New("input closed")
)

// ParseCalendarDate reads a "DD MM YYYY" line. Each field is read as a
// leading integer: reading stops at the first character that cannot
// continue a number, so "01 01 2024x" is 1/1/2024 and anything after the
// third number is ignored.
//
// Lines without three leading integers return ErrInvalidDateFormat.
// Well-formed triples that are not calendar dates return
// core.ErrInvalidCalendarDate.
func ParseCalendarDate(line string) (core.CalendarDate, error) {
	var parts [3]int
	rest := line
	for i := range parts {
		n, tail, ok := leadingInt(rest)
		if !ok {
			return core.CalendarDate{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, line)
		}
		parts[i], rest = n, tail
	}
	return core.NewCalendarDate(parts[0], parts[1], parts[2])
}

// parseCount reads the number of books from the start of line; trailing
// text is dropped with the rest of the line. ok is false for blank lines,
// which are skipped without complaint.
func parseCount(line string) (n int, ok bool, err error) {
	if strings.TrimSpace(line) == "" {
		return 0, false, nil
	}
	n, _, ok = leadingInt(line)
	if !ok {
		return 0, true, fmt.Errorf("not a number: %q", line)
	}
	if n < 0 {
		return 0, true, fmt.Errorf("negative count %d", n)
	}
	return n, true, nil
}

// leadingInt skips blanks, reads an optionally signed run of digits and
// returns the unread remainder of s. ok is false when no digits follow or
// the value overflows int.
func leadingInt(s string) (n int, rest string, ok bool) {
	s = strings.TrimLeft(s, " \t\v\f\r\n")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, s, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, s, false
	}
	return n, s[end:], true
}

// lineReader reads lines on a background goroutine so a cancelled context
// can interrupt a blocked read. The goroutine stays parked on the source
// until it returns.
type lineReader struct {
	src   io.Reader
	once  sync.Once
	lines chan string
	err   error
}

func newLineReader(src io.Reader) *lineReader {
	return &lineReader{src: src, lines: make(chan string)}
}

func (r *lineReader) start() {
	go func() {
		sc := bufio.NewScanner(r.src)
		sc.Buffer(make([]byte, 0, 4096), 1<<20)
		for sc.Scan() {
			r.lines <- sc.Text()
		}
		r.err = sc.Err()
		close(r.lines)
	}()
}

// next returns the next line without its line ending.
func (r *lineReader) next(ctx context.Context) (string, error) {
	r.once.Do(r.start)
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-r.lines:
		if !ok {
			if r.err != nil {
				return "", fmt.Errorf("read input: %w", r.err)
			}
			return "", ErrInputClosed
		}
		return strings.TrimSuffix(line, "\r"), nil
	}
}
