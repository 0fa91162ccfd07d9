package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLexer_SimpleTokens(t *testing.T) {
	testData := []struct {
		src      string
		expected []TokenType
	}{
		{src: "(){}[],.:;", expected: []TokenType{
			TkLParen, TkRParen, TkLBrace, TkRBrace, TkLBracket, TkRBracket,
			TkComma, TkDot, TkColon, TkSemi, TkEOF,
		}},
		{src: "== != <= >= && || = < >", expected: []TokenType{
			TkEq, TkNeq, TkLtEq, TkGtEq, TkAnd, TkOr, TkAssign, TkLt, TkGt, TkEOF,
		}},
		{src: "int bool char string void if else while for assert print return type break continue", expected: []TokenType{
			TkInt, TkBool, TkChar, TkString, TkVoid, TkIf, TkElse, TkWhile, TkFor,
			TkAssert, TkPrint, TkReturn, TkType, TkBreak, TkContinue, TkEOF,
		}},
	}
	for _, d := range testData {
		toks, err := NewLexer("t.while", d.src).Tokenize()
		assert.Nil(t, err)
		var got []TokenType
		for _, tok := range toks {
			got = append(got, tok.Type)
		}
		assert.Equal(t, d.expected, got)
	}
}

func TestLexer_IntLiteral(t *testing.T) {
	toks, err := NewLexer("t.while", "42").Tokenize()
	assert.Nil(t, err)
	assert.Equal(t, TkIntLiteral, toks[0].Type)
	assert.Equal(t, int32(42), toks[0].IntVal)
}

func TestLexer_StringEscapes(t *testing.T) {
	toks, err := NewLexer("t.while", `"a\nb\tc"`).Tokenize()
	assert.Nil(t, err)
	assert.Equal(t, "a\nb\tc", toks[0].StrVal)
}

func TestLexer_CharLiteral(t *testing.T) {
	toks, err := NewLexer("t.while", `'x'`).Tokenize()
	assert.Nil(t, err)
	assert.Equal(t, byte('x'), toks[0].CharVal)
}

func TestLexer_UnterminatedStringIsLexicalError(t *testing.T) {
	_, err := NewLexer("t.while", `"abc`).Tokenize()
	assert.NotNil(t, err)
	diag, ok := err.(*Diagnostic)
	assert.True(t, ok)
	assert.Equal(t, LexicalError, diag.Kind)
}

func TestLexer_UnknownCharacterIsLexicalError(t *testing.T) {
	_, err := NewLexer("t.while", "@").Tokenize()
	assert.NotNil(t, err)
	diag, ok := err.(*Diagnostic)
	assert.True(t, ok)
	assert.Equal(t, LexicalError, diag.Kind)
}

func TestLexer_IdentifierVsKeyword(t *testing.T) {
	toks, err := NewLexer("t.while", "ifx if").Tokenize()
	assert.Nil(t, err)
	assert.Equal(t, TkIdentifier, toks[0].Type)
	assert.Equal(t, "ifx", toks[0].Text)
	assert.Equal(t, TkIf, toks[1].Type)
}
