package token

import "testing"

func TestLookupIdent(t *testing.T) {
	tests := []struct {
		ident    string
		expected TokenType
	}{
		{"if", IF},
		{"else", ELSE},
		{"while", WHILE},
		{"for", FOR},
		{"return", RETURN},
		{"int", INT_TYPE},
		{"float", FLOAT_TYPE},
		{"string", STRING_TYPE},
		{"void", VOID},
		{"foo", IDENT},
		{"ifx", IDENT},
		{"If", IDENT},
		{"INT", IDENT},
		{"_while", IDENT},
		{"return2", IDENT},
	}

	for _, tt := range tests {
		got := LookupIdent(tt.ident)
		if got != tt.expected {
			t.Errorf("LookupIdent(%q): got %s, want %s", tt.ident, got, tt.expected)
		}
	}
}

func TestTokenTypeClassification(t *testing.T) {
	for _, tt := range []TokenType{IF, ELSE, WHILE, FOR, RETURN} {
		if !tt.IsKeyword() {
			t.Errorf("%s: IsKeyword() = false, want true", tt)
		}
		if tt.IsType() || tt.IsOperator() {
			t.Errorf("%s: classified as type or operator", tt)
		}
	}

	for _, tt := range []TokenType{INT_TYPE, FLOAT_TYPE, STRING_TYPE, VOID} {
		if !tt.IsType() {
			t.Errorf("%s: IsType() = false, want true", tt)
		}
		if tt.IsKeyword() || tt.IsOperator() {
			t.Errorf("%s: classified as keyword or operator", tt)
		}
	}

	for _, tt := range []TokenType{EQ, NE, LE, GE, AND, OR, ASSIGN, PLUS, MINUS, STAR, SLASH, LT, GT, NOT} {
		if !tt.IsOperator() {
			t.Errorf("%s: IsOperator() = false, want true", tt)
		}
	}

	for _, tt := range []TokenType{IDENT, NUMBER, STRING, ILLEGAL, EOF, SEMICOLON, LPAREN} {
		if tt.IsKeyword() || tt.IsType() || tt.IsOperator() {
			t.Errorf("%s: unexpectedly classified", tt)
		}
	}
}

func TestPositionString(t *testing.T) {
	p := Position{Filename: "main.mc", Line: 3, Column: 7, Offset: 42}
	if got := p.String(); got != "main.mc:3:7" {
		t.Errorf("Position.String(): got %q, want %q", got, "main.mc:3:7")
	}

	anon := Position{Line: 1, Column: 1}
	if got := anon.String(); got != "1:1" {
		t.Errorf("Position.String(): got %q, want %q", got, "1:1")
	}
}

func TestPositionBefore(t *testing.T) {
	a := Position{Line: 1, Column: 5}
	b := Position{Line: 1, Column: 9}
	c := Position{Line: 2, Column: 1}

	if !a.Before(b) || !b.Before(c) || !a.Before(c) {
		t.Error("expected a < b < c")
	}
	if b.Before(a) || c.Before(b) || a.Before(a) {
		t.Error("Before is not strict")
	}
}

func TestSpanFromToken(t *testing.T) {
	tok := New(IDENT, "count", Position{Filename: "main.mc", Line: 2, Column: 5, Offset: 20})
	span := SpanFromToken(tok)

	if span.Start != tok.Pos {
		t.Errorf("span start mismatch: got %v, want %v", span.Start, tok.Pos)
	}
	if span.End.Column != 10 || span.End.Offset != 25 {
		t.Errorf("span end mismatch: got %d:%d offset %d", span.End.Line, span.End.Column, span.End.Offset)
	}
	if span.Length() != 5 {
		t.Errorf("span length mismatch: got %d, want 5", span.Length())
	}
}
