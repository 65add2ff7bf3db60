package interp

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultFillWords are skipped by OneArgument.
var DefaultFillWords = []string{"in", "from", "with", "the", "on", "at", "to"}

// Tokenizer extracts arguments from command remainders.
type Tokenizer struct {
	fill map[string]bool
}

// NewTokenizer returns a tokenizer that elides the given fill words. A nil
// slice selects DefaultFillWords.
func NewTokenizer(fillWords []string) *Tokenizer {
	if fillWords == nil {
		fillWords = DefaultFillWords
	}
	t := &Tokenizer{fill: make(map[string]bool, len(fillWords))}
	for _, w := range fillWords {
		t.fill[strings.ToLower(w)] = true
	}
	return t
}

// IsFillWord reports whether w is elided by OneArgument.
func (t *Tokenizer) IsFillWord(w string) bool {
	return t.fill[w]
}

// SkipSpaces drops leading whitespace, including the ideographic and
// no-break spaces Korean input methods produce.
func SkipSpaces(s string) string {
	return strings.TrimLeftFunc(s, unicode.IsSpace)
}

// AnyOneArg returns the first whitespace-delimited word of s, lowercased, and
// the text after it. Fill words are kept.
func AnyOneArg(s string) (arg, rest string) {
	s = SkipSpaces(s)
	end := strings.IndexFunc(s, unicode.IsSpace)
	if end < 0 {
		return strings.ToLower(s), ""
	}
	return strings.ToLower(s[:end]), s[end:]
}

// OneArgument is AnyOneArg repeated until a word that is not a fill word is
// found or the input runs out.
func (t *Tokenizer) OneArgument(s string) (arg, rest string) {
	rest = s
	for {
		arg, rest = AnyOneArg(rest)
		if arg == "" || !t.fill[arg] {
			return arg, rest
		}
	}
}

// TwoArguments extracts two OneArgument words.
func (t *Tokenizer) TwoArguments(s string) (first, second, rest string) {
	first, rest = t.OneArgument(s)
	second, rest = t.OneArgument(rest)
	return first, second, rest
}

// OneWord is OneArgument except that a word starting with a double quote
// runs to the closing quote, spaces included.
func (t *Tokenizer) OneWord(s string) (arg, rest string) {
	rest = s
	for {
		rest = SkipSpaces(rest)
		if strings.HasPrefix(rest, `"`) {
			rest = rest[1:]
			end := strings.IndexByte(rest, '"')
			if end < 0 {
				arg, rest = strings.ToLower(rest), ""
			} else {
				arg, rest = strings.ToLower(rest[:end]), rest[end+1:]
			}
		} else {
			arg, rest = AnyOneArg(rest)
		}
		if arg == "" || !t.fill[arg] {
			return arg, rest
		}
	}
}

// ReorderVerbFinal moves the last word of line to the front so that
// "<object> <verb>" reads as "<verb> <object>". Lines with a single word are
// returned unchanged.
func ReorderVerbFinal(line string) string {
	trimmed := strings.TrimFunc(line, unicode.IsSpace)
	i := strings.LastIndexFunc(trimmed, unicode.IsSpace)
	if i < 0 {
		return line
	}
	_, size := utf8.DecodeRuneInString(trimmed[i:])
	head := strings.TrimRightFunc(trimmed[:i], unicode.IsSpace)
	return trimmed[i+size:] + " " + head
}

// splitCommand separates the command word from its remainder. A line that
// does not start with a letter has that single character as its command.
func splitCommand(line string) (word, rest string) {
	r, size := utf8.DecodeRuneInString(line)
	if !unicode.IsLetter(r) {
		return line[:size], SkipSpaces(line[size:])
	}
	word, rest = AnyOneArg(line)
	return word, SkipSpaces(rest)
}

// Truncate cuts s to at most n bytes without splitting a rune.
func Truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
