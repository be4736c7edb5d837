package csv

import (
	shapetokenizer "github.com/shapestone/shape-core/pkg/tokenizer"
)

// Token kinds of the separator scan.
const (
	tokenQuote     = "DQuote"
	tokenSeparator = "Separator"
	tokenText      = "Text"
)

// detectSeparator returns the first candidate that splits line into more than
// one field, else the first candidate.
func detectSeparator(line string, candidates []rune) rune {
	for _, c := range candidates {
		if countDelimiter(line, c) > 0 {
			return c
		}
	}
	return candidates[0]
}

// countDelimiter counts occurrences of a delimiter, ignoring quoted sections.
// Every quote toggles the quoted state.
func countDelimiter(line string, delim rune) int {
	tok := shapetokenizer.NewTokenizerWithoutWhitespace(
		shapetokenizer.StringMatcherFunc(tokenQuote, `"`),
		shapetokenizer.StringMatcherFunc(tokenSeparator, string(delim)),
		textMatcher(delim),
	)
	tok.InitializeFromStream(shapetokenizer.NewStream(line))

	count := 0
	inQuotes := false
	for {
		token, ok := tok.NextToken()
		if !ok {
			break
		}

		switch token.Kind() {
		case tokenQuote:
			inQuotes = !inQuotes
		case tokenSeparator:
			if !inQuotes {
				count++
			}
		}
	}

	return count
}

// textMatcher matches a run of characters that are neither delim nor a quote.
func textMatcher(delim rune) shapetokenizer.Matcher {
	return func(stream shapetokenizer.Stream) *shapetokenizer.Token {
		var value []rune

		for {
			r, ok := stream.PeekChar()
			if !ok || r == delim || r == '"' {
				break
			}
			stream.NextChar()
			value = append(value, r)
		}

		if len(value) == 0 {
			return nil
		}
		return shapetokenizer.NewToken(tokenText, value)
	}
}
