package domain

import (
	"fmt"
	"strings"
)

// DateMatch is a date expression found in free text.
// Start and End are byte offsets of the expression in the scanned text.
type DateMatch struct {
	Text  string
	Date  Date
	Start int
	End   int
}

// ParseResult is the structured form of one input line.
// Fields are ordered to minimize memory padding.
type ParseResult struct {
	Date        *DateMatch // Date expression removed from the line (nil if none)
	Input       string     // Original input line
	Content     string     // Remaining free text
	Command     Command    // Resolved command (CommandNone when absent)
	CommandWord string     // Command token as typed, marker dropped
	Target      string     // Address fragment, marker dropped
	HasTarget   bool       // True when an address token was present
}

// Parser turns input lines into ParseResults.
type Parser struct {
	dates          DateExtractor
	clock          Clock
	implicitTarget bool
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithImplicitTarget makes the first word after a command the target
// when no '#' token is present.
func WithImplicitTarget(enabled bool) ParserOption {
	return func(p *Parser) { p.implicitTarget = enabled }
}

// NewParser creates a Parser. A nil extractor disables date extraction.
func NewParser(dates DateExtractor, clock Clock, opts ...ParserOption) *Parser {
	if clock == nil {
		clock = RealClock{}
	}
	p := &Parser{dates: dates, clock: clock}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse decomposes line:
//  1. the last date expression in the full line is cut out;
//  2. the rest is split on whitespace;
//  3. a first token starting with '@' is the command; later '@' words are content;
//  4. the first '#' token is the target;
//  5. remaining tokens joined by single spaces form the content.
func (p *Parser) Parse(line string) (ParseResult, error) {
	res := ParseResult{Input: line}

	text := line
	if p.dates != nil {
		m, err := p.dates.Extract(line, p.clock.Now())
		if err != nil {
			return res, fmt.Errorf("extract date: %w", err)
		}
		if m != nil && m.Start >= 0 && m.End <= len(line) && m.Start < m.End {
			res.Date = m
			text = line[:m.Start] + " " + line[m.End:]
		}
	}

	tokens := strings.Fields(text)
	haveCommand := len(tokens) > 0 && strings.HasPrefix(tokens[0], CommandMarker)
	if haveCommand {
		res.CommandWord = tokens[0][len(CommandMarker):]
		tokens = tokens[1:]
	}

	rest := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		switch {
		case !res.HasTarget && strings.HasPrefix(tok, IDMarker):
			res.HasTarget = true
			res.Target = tok[len(IDMarker):]
		default:
			rest = append(rest, tok)
		}
	}

	if haveCommand {
		cmd, err := ResolveCommand(res.CommandWord)
		if err != nil {
			return res, err
		}
		res.Command = cmd
	}

	if p.implicitTarget && takesTarget(res.Command) && !res.HasTarget && len(rest) > 0 {
		res.HasTarget = true
		res.Target = rest[0]
		rest = rest[1:]
	}

	res.Content = strings.Join(rest, " ")
	return res, nil
}

func takesTarget(cmd Command) bool {
	switch cmd {
	case CommandList, CommandDelete, CommandSet, CommandMove, CommandID, CommandEdit:
		return true
	}
	return false
}
