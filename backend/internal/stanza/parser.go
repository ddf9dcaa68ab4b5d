// Package stanza reads and writes the bracket-headed, "key: value" stanza
// format used by controlled vocabulary files. It knows nothing about what the
// stanzas describe.
package stanza

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"vocabgraph/backend/internal/constants"
	apperrors "vocabgraph/backend/pkg/errors"
)

// Stanza is one headed block of the file
type Stanza struct {
	Section    string // header word, e.g. "Term" or "Typedef"
	Attributes *Attributes
	Line       int // line number of the header
}

// Parse splits r into stanzas. Lines before the first header are dropped.
// A line without the ": " separator aborts parsing with an ErrMalformedLine.
func Parse(r io.Reader) ([]Stanza, error) {
	var (
		stanzas []Stanza
		current *Stanza
		lineNo  int
	)

	flush := func() {
		if current != nil && current.Section != "" {
			stanzas = append(stanzas, *current)
		}
		current = nil
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "":
			flush()
		case isHeader(line):
			flush()
			current = &Stanza{
				Section:    line[1 : len(line)-1],
				Attributes: NewAttributes(),
				Line:       lineNo,
			}
		default:
			key, value, ok := strings.Cut(line, constants.KeyValueSeparator)
			if !ok {
				return nil, apperrors.NewMalformedLine(lineNo, line)
			}
			if current == nil {
				// untyped block (file header); collected and thrown away
				current = &Stanza{Attributes: NewAttributes(), Line: lineNo}
			}
			current.Attributes.Add(key, value)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stanzas: %w", err)
	}
	flush()

	return stanzas, nil
}

func isHeader(line string) bool {
	return len(line) >= 2 && strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]")
}

// Write serializes stanzas in the format Parse reads
func Write(w io.Writer, stanzas []Stanza) error {
	bw := bufio.NewWriter(w)
	for i, s := range stanzas {
		if i > 0 {
			if _, err := bw.WriteString("\n"); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(bw, "[%s]\n", s.Section); err != nil {
			return err
		}
		for _, key := range s.Attributes.Keys() {
			for _, value := range s.Attributes.Get(key) {
				if _, err := fmt.Fprintf(bw, "%s%s%s\n", key, constants.KeyValueSeparator, value); err != nil {
					return err
				}
			}
		}
	}
	return bw.Flush()
}
