package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSkipSpaces(t *testing.T) {
	assert.Equal(t, "look", SkipSpaces("  \tlook"))
	assert.Equal(t, "봐", SkipSpaces("　 봐"))
	assert.Equal(t, "", SkipSpaces("   "))
}

func TestAnyOneArg(t *testing.T) {
	tests := []struct {
		in, arg, rest string
	}{
		{"Look at the Sword", "look", " at the Sword"},
		{"   the", "the", ""},
		{"", "", ""},
		{"고블린　죽여", "고블린", "　죽여"},
	}
	for _, tt := range tests {
		arg, rest := AnyOneArg(tt.in)
		assert.Equal(t, tt.arg, arg, tt.in)
		assert.Equal(t, tt.rest, rest, tt.in)
	}
}

func TestOneArgumentSkipsFillWords(t *testing.T) {
	tok := NewTokenizer(nil)
	arg, rest := tok.OneArgument("at the Sword in bag")
	assert.Equal(t, "sword", arg)
	assert.Equal(t, " in bag", rest)

	arg, rest = tok.OneArgument("the in on")
	assert.Equal(t, "", arg)
	assert.Equal(t, "", rest)

	custom := NewTokenizer([]string{"에게"})
	arg, _ = custom.OneArgument("에게 철수")
	assert.Equal(t, "철수", arg)
	assert.True(t, custom.IsFillWord("에게"))
	assert.False(t, custom.IsFillWord("the"))
}

func TestTwoArguments(t *testing.T) {
	tok := NewTokenizer(nil)
	a, b, rest := tok.TwoArguments("put the gem in the bag now")
	assert.Equal(t, "put", a)
	assert.Equal(t, "gem", b)
	assert.Equal(t, " in the bag now", rest)
}

func TestOneWordQuoted(t *testing.T) {
	tok := NewTokenizer(nil)
	arg, rest := tok.OneWord(`"Big Red" hello`)
	assert.Equal(t, "big red", arg)
	assert.Equal(t, " hello", rest)

	arg, rest = tok.OneWord(`the "unterminated word`)
	assert.Equal(t, "unterminated word", arg)
	assert.Equal(t, "", rest)

	arg, _ = tok.OneWord("plain words")
	assert.Equal(t, "plain", arg)
}

func TestReorderVerbFinal(t *testing.T) {
	assert.Equal(t, "죽여 고블린", ReorderVerbFinal("고블린 죽여"))
	assert.Equal(t, "줘 큰 칼", ReorderVerbFinal("큰 칼 줘"))
	assert.Equal(t, "sword look", ReorderVerbFinal("  look sword  "))
	assert.Equal(t, "kill troll", ReorderVerbFinal("troll　kill"))
}

func TestReorderVerbFinalIdempotentOnSingleWords(t *testing.T) {
	for _, in := range []string{"n", "봐", "'hello", "look ", "", "say"} {
		assert.Equal(t, in, ReorderVerbFinal(in))
	}
}

func TestSplitCommand(t *testing.T) {
	w, r := splitCommand("'hello there")
	assert.Equal(t, "'", w)
	assert.Equal(t, "hello there", r)

	w, r = splitCommand(";  wizards only")
	assert.Equal(t, ";", w)
	assert.Equal(t, "wizards only", r)

	w, r = splitCommand("SAY  hi")
	assert.Equal(t, "say", w)
	assert.Equal(t, "hi", r)

	w, r = splitCommand("말 안녕")
	assert.Equal(t, "말", w)
	assert.Equal(t, "안녕", r)
}

func TestTruncateKeepsRunes(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abcdef", 3))
	assert.Equal(t, "가", Truncate("가나", 4))
	assert.Equal(t, "가나", Truncate("가나", 0))
}
