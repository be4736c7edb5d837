package tokenizer

// state is the position of the tokenizer inside the current field.
type state uint8

const (
	// stateIdle is the start of a field: nothing consumed since the last
	// separator or newline.
	stateIdle state = iota
	// stateUnquoted is inside a field that did not start with a quote.
	stateUnquoted
	// stateQuoted is inside an open quoted field.
	stateQuoted
	// stateAfterQuote follows a quote inside a quoted field. The next
	// character decides between an escaped quote and the end of the quotes.
	stateAfterQuote
)

func (s state) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateUnquoted:
		return "unquoted"
	case stateQuoted:
		return "quoted"
	case stateAfterQuote:
		return "after-quote"
	default:
		return "invalid"
	}
}
