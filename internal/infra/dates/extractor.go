// Package dates extracts natural-language date expressions from task text.
package dates

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/runoshun/della/internal/domain"
)

// Ensure Extractor implements domain.DateExtractor.
var _ domain.DateExtractor = (*Extractor)(nil)

var isoDate = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)

// Extractor finds the right-most date expression in a line.
type Extractor struct {
	parser *when.Parser
}

// New creates an Extractor with the English and common rule sets.
func New() *Extractor {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &Extractor{parser: w}
}

// Extract returns the last date expression in text, resolved against base.
func (e *Extractor) Extract(text string, base time.Time) (*domain.DateMatch, error) {
	var best *domain.DateMatch

	offset := 0
	for offset < len(text) {
		r, err := e.parser.Parse(text[offset:], base)
		if err != nil {
			return nil, fmt.Errorf("parse date: %w", err)
		}
		if r == nil {
			break
		}
		start := offset + r.Index
		matched := strings.TrimSpace(r.Text)
		if matched == "" {
			break
		}
		if i := strings.Index(text[start:], matched); i > 0 {
			start += i
		}
		best = &domain.DateMatch{
			Text:  matched,
			Date:  domain.DateOf(r.Time),
			Start: start,
			End:   start + len(matched),
		}
		offset = best.End
	}

	if locs := isoDate.FindAllStringIndex(text, -1); len(locs) > 0 {
		loc := locs[len(locs)-1]
		if best == nil || loc[1] >= best.End {
			d, err := domain.ParseDate(text[loc[0]:loc[1]])
			if err == nil {
				best = &domain.DateMatch{
					Text:  text[loc[0]:loc[1]],
					Date:  d,
					Start: loc[0],
					End:   loc[1],
				}
			}
		}
	}

	return best, nil
}
