package lexer

import (
	"testing"

	"github.com/minic-lang/minic/internal/token"
)

func TestLexerBasicTokens(t *testing.T) {
	input := `+ - * / = == != < <= > >= && || ! ( ) { } [ ] ; , .`

	expected := []token.TokenType{
		token.PLUS, token.MINUS, token.STAR, token.SLASH,
		token.ASSIGN, token.EQ, token.NE,
		token.LT, token.LE, token.GT, token.GE,
		token.AND, token.OR, token.NOT,
		token.LPAREN, token.RPAREN, token.LBRACE, token.RBRACE,
		token.LBRACKET, token.RBRACKET,
		token.SEMICOLON, token.COMMA, token.DOT,
		token.EOF,
	}

	l := New(input, "test.mc")
	tokens := l.ScanTokens()

	if len(tokens) != len(expected) {
		t.Fatalf("token count mismatch: got %d, want %d", len(tokens), len(expected))
	}

	for i, tok := range tokens {
		if tok.Type != expected[i] {
			t.Errorf("token[%d] type mismatch: got %s, want %s", i, tok.Type, expected[i])
		}
	}
}

func TestLexerKeywords(t *testing.T) {
	input := `if else while for return int float string void ifx form`

	l := New(input, "test.mc")
	tokens := l.ScanTokens()

	expected := []token.TokenType{
		token.IF, token.ELSE, token.WHILE, token.FOR, token.RETURN,
		token.INT_TYPE, token.FLOAT_TYPE, token.STRING_TYPE, token.VOID,
		token.IDENT, token.IDENT,
		token.EOF,
	}

	if len(tokens) != len(expected) {
		t.Fatalf("token count mismatch: got %d, want %d", len(tokens), len(expected))
	}

	for i, tok := range tokens {
		if tok.Type != expected[i] {
			t.Errorf("token[%d] type mismatch: got %s, want %s (literal: %s)",
				i, tok.Type, expected[i], tok.Literal)
		}
	}
}

func TestLexerDeclaration(t *testing.T) {
	input := `int x = 5;`

	l := New(input, "test.mc")
	tokens := l.ScanTokens()

	expected := []struct {
		typ     token.TokenType
		literal string
	}{
		{token.INT_TYPE, "int"},
		{token.IDENT, "x"},
		{token.ASSIGN, "="},
		{token.NUMBER, "5"},
		{token.SEMICOLON, ";"},
		{token.EOF, ""},
	}

	if len(tokens) != len(expected) {
		t.Fatalf("token count mismatch: got %d, want %d", len(tokens), len(expected))
	}

	for i, tok := range tokens {
		if tok.Type != expected[i].typ {
			t.Errorf("token[%d] type mismatch: got %s, want %s", i, tok.Type, expected[i].typ)
		}
		if expected[i].literal != "" && tok.Literal != expected[i].literal {
			t.Errorf("token[%d] literal mismatch: got %s, want %s", i, tok.Literal, expected[i].literal)
		}
	}
}

func TestLexerNumbers(t *testing.T) {
	tests := []struct {
		input string
		value interface{}
	}{
		{"0", int64(0)},
		{"7", int64(7)},
		{"42", int64(42)},
		{"123", int64(123)},
		{"3.14", 3.14},
		{"0.5", 0.5},
	}

	for _, tt := range tests {
		l := New(tt.input, "test.mc")
		tokens := l.ScanTokens()

		if len(tokens) != 2 { // number + EOF
			t.Errorf("input %q: expected 2 tokens, got %d", tt.input, len(tokens))
			continue
		}

		tok := tokens[0]
		if tok.Type != token.NUMBER {
			t.Errorf("input %q: type mismatch: got %s, want NUMBER", tt.input, tok.Type)
		}

		switch v := tt.value.(type) {
		case int64:
			if tok.Value.(int64) != v {
				t.Errorf("input %q: value mismatch: got %v, want %v", tt.input, tok.Value, v)
			}
		case float64:
			if tok.Value.(float64) != v {
				t.Errorf("input %q: value mismatch: got %v, want %v", tt.input, tok.Value, v)
			}
		}
	}
}

func TestLexerNumberFollowedByDot(t *testing.T) {
	// 小数点后面不是数字时，点属于后续 token
	input := `1.foo`

	l := New(input, "test.mc")
	tokens := l.ScanTokens()

	expected := []token.TokenType{
		token.NUMBER, token.DOT, token.IDENT, token.EOF,
	}

	if len(tokens) != len(expected) {
		t.Fatalf("token count mismatch: got %d, want %d", len(tokens), len(expected))
	}

	for i, tok := range tokens {
		if tok.Type != expected[i] {
			t.Errorf("token[%d] type mismatch: got %s, want %s", i, tok.Type, expected[i])
		}
	}
}

func TestLexerStrings(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`"hello"`, "hello"},
		{`""`, ""},
		{`"hello\nworld"`, "hello\nworld"},
		{`"tab\there"`, "tab\there"},
		{`"cr\rhere"`, "cr\rhere"},
		{`"quote\"here"`, `quote"here`},
		{`"back\\slash"`, `back\slash`},
		{`"sq\'here"`, "sq'here"},
		{`"unknown\qescape"`, `unknown\qescape`},
	}

	for _, tt := range tests {
		l := New(tt.input, "test.mc")
		tokens := l.ScanTokens()

		if l.HasErrors() {
			t.Errorf("input %q: unexpected errors: %v", tt.input, l.Errors())
			continue
		}

		if len(tokens) != 2 {
			t.Errorf("input %q: expected 2 tokens, got %d", tt.input, len(tokens))
			continue
		}

		tok := tokens[0]
		if tok.Type != token.STRING {
			t.Errorf("input %q: type mismatch: got %s, want STRING", tt.input, tok.Type)
		}
		if tok.Value.(string) != tt.expected {
			t.Errorf("input %q: value mismatch: got %q, want %q", tt.input, tok.Value, tt.expected)
		}
	}
}

func TestLexerComments(t *testing.T) {
	input := `
	// single line comment
	int a = 1;
	/* multi
	   line
	   comment */
	int b = 2;
	`

	l := New(input, "test.mc")
	tokens := l.ScanTokens()

	// 应该只有 int a = 1 ; int b = 2 ; EOF
	expectedTypes := []token.TokenType{
		token.INT_TYPE, token.IDENT, token.ASSIGN, token.NUMBER, token.SEMICOLON,
		token.INT_TYPE, token.IDENT, token.ASSIGN, token.NUMBER, token.SEMICOLON,
		token.EOF,
	}

	if len(tokens) != len(expectedTypes) {
		t.Fatalf("token count mismatch: got %d, want %d", len(tokens), len(expectedTypes))
	}

	for i, tok := range tokens {
		if tok.Type != expectedTypes[i] {
			t.Errorf("token[%d] type mismatch: got %s, want %s", i, tok.Type, expectedTypes[i])
		}
	}
}

func TestLexerNestedCommentStrict(t *testing.T) {
	input := "/* outer /* inner */ still */ int x;"

	l := New(input, "test.mc")
	l.ScanTokens()

	if !l.HasErrors() {
		t.Fatal("expected a nested comment error in strict mode")
	}

	errs := l.Errors()
	if len(errs) != 1 {
		t.Fatalf("error count mismatch: got %d, want 1", len(errs))
	}

	e := errs[0]
	if e.Kind != NestedComment {
		t.Errorf("error kind mismatch: got %d, want NestedComment", e.Kind)
	}
	// 内层 /* 的位置
	if e.Pos.Line != 1 || e.Pos.Column != 10 {
		t.Errorf("error position mismatch: got %d:%d, want 1:10", e.Pos.Line, e.Pos.Column)
	}
	// 外层注释起点
	if e.Related.Line != 1 || e.Related.Column != 1 {
		t.Errorf("related position mismatch: got %d:%d, want 1:1", e.Related.Line, e.Related.Column)
	}

	// 缺陷可恢复：注释之后的 token 正常产出
	var kinds []token.TokenType
	for _, tok := range l.tokens {
		if tok.Type != token.ILLEGAL {
			kinds = append(kinds, tok.Type)
		}
	}
	expected := []token.TokenType{token.INT_TYPE, token.IDENT, token.SEMICOLON, token.EOF}
	if len(kinds) != len(expected) {
		t.Fatalf("token count mismatch: got %d, want %d", len(kinds), len(expected))
	}
	for i, k := range kinds {
		if k != expected[i] {
			t.Errorf("token[%d] type mismatch: got %s, want %s", i, k, expected[i])
		}
	}
}

func TestLexerNestedCommentCounting(t *testing.T) {
	input := "/* outer /* inner */ still */ int x;"

	opts := Options{Profile: ProfileRecover, Nesting: NestCounting}
	l := NewWithOptions(input, "test.mc", opts)
	tokens := l.ScanTokens()

	if l.HasErrors() {
		t.Fatalf("unexpected errors in counting mode: %v", l.Errors())
	}

	expected := []token.TokenType{token.INT_TYPE, token.IDENT, token.SEMICOLON, token.EOF}
	if len(tokens) != len(expected) {
		t.Fatalf("token count mismatch: got %d, want %d", len(tokens), len(expected))
	}
	for i, tok := range tokens {
		if tok.Type != expected[i] {
			t.Errorf("token[%d] type mismatch: got %s, want %s", i, tok.Type, expected[i])
		}
	}
}

func TestLexerUnclosedComment(t *testing.T) {
	input := "int a;\n/* never closed\nint b;"

	l := New(input, "test.mc")
	l.ScanTokens()

	if !l.HasErrors() {
		t.Fatal("expected an unclosed comment error")
	}

	e := l.Errors()[0]
	if e.Kind != UnclosedComment {
		t.Errorf("error kind mismatch: got %d, want UnclosedComment", e.Kind)
	}
	// 位置为最外层 /* 的起点
	if e.Pos.Line != 2 || e.Pos.Column != 1 {
		t.Errorf("error position mismatch: got %d:%d, want 2:1", e.Pos.Line, e.Pos.Column)
	}
}

func TestLexerUnclosedNestedComment(t *testing.T) {
	// 内层闭合、外层未闭合：缺陷位置仍是最外层起点
	input := "/* a /* b */ c"

	opts := Options{Profile: ProfileRecover, Nesting: NestCounting}
	l := NewWithOptions(input, "test.mc", opts)
	l.ScanTokens()

	if !l.HasErrors() {
		t.Fatal("expected an unclosed comment error")
	}

	e := l.Errors()[0]
	if e.Kind != UnclosedComment {
		t.Errorf("error kind mismatch: got %d, want UnclosedComment", e.Kind)
	}
	if e.Pos.Line != 1 || e.Pos.Column != 1 {
		t.Errorf("error position mismatch: got %d:%d, want 1:1", e.Pos.Line, e.Pos.Column)
	}
}

func TestLexerUnterminatedString(t *testing.T) {
	input := "int a;\nstring s = \"oops\nint b;"

	l := New(input, "test.mc")
	l.ScanTokens()

	if !l.HasErrors() {
		t.Fatal("expected an unterminated string error")
	}

	e := l.Errors()[0]
	if e.Kind != UnterminatedString {
		t.Errorf("error kind mismatch: got %d, want UnterminatedString", e.Kind)
	}
	// 位置为起始引号
	if e.Pos.Line != 2 || e.Pos.Column != 12 {
		t.Errorf("error position mismatch: got %d:%d, want 2:12", e.Pos.Line, e.Pos.Column)
	}

	// 换行不被吞掉，下一行照常扫描
	var kinds []token.TokenType
	for _, tok := range l.tokens {
		if tok.Type != token.ILLEGAL {
			kinds = append(kinds, tok.Type)
		}
	}
	expected := []token.TokenType{
		token.INT_TYPE, token.IDENT, token.SEMICOLON,
		token.STRING_TYPE, token.IDENT, token.ASSIGN,
		token.INT_TYPE, token.IDENT, token.SEMICOLON,
		token.EOF,
	}
	if len(kinds) != len(expected) {
		t.Fatalf("token count mismatch: got %d, want %d", len(kinds), len(expected))
	}
	for i, k := range kinds {
		if k != expected[i] {
			t.Errorf("token[%d] type mismatch: got %s, want %s", i, k, expected[i])
		}
	}
}

func TestLexerBackslashBeforeNewline(t *testing.T) {
	// 反斜杠后紧跟换行：字符串未闭合，换行不能被转义吞掉
	input := "string s = \"abc\\\nint y = 2;"

	l := New(input, "test.mc")
	l.ScanTokens()

	if !l.HasErrors() {
		t.Fatal("expected an unterminated string error")
	}

	errs := l.Errors()
	if len(errs) != 1 {
		t.Fatalf("error count mismatch: got %d, want 1", len(errs))
	}
	if errs[0].Kind != UnterminatedString {
		t.Errorf("error kind mismatch: got %d, want UnterminatedString", errs[0].Kind)
	}
	// 位置为起始引号
	if errs[0].Pos.Line != 1 || errs[0].Pos.Column != 12 {
		t.Errorf("error position mismatch: got %d:%d, want 1:12", errs[0].Pos.Line, errs[0].Pos.Column)
	}

	// 下一行照常扫描，行号推进正确
	var kinds []token.Token
	for _, tok := range l.tokens {
		if tok.Type != token.ILLEGAL {
			kinds = append(kinds, tok)
		}
	}
	expected := []token.TokenType{
		token.STRING_TYPE, token.IDENT, token.ASSIGN,
		token.INT_TYPE, token.IDENT, token.ASSIGN, token.NUMBER, token.SEMICOLON,
		token.EOF,
	}
	if len(kinds) != len(expected) {
		t.Fatalf("token count mismatch: got %d, want %d", len(kinds), len(expected))
	}
	for i, tok := range kinds {
		if tok.Type != expected[i] {
			t.Errorf("token[%d] type mismatch: got %s, want %s", i, tok.Type, expected[i])
		}
	}
	// 第二行的 y 在第 2 行第 5 列
	if kinds[4].Literal != "y" || kinds[4].Pos.Line != 2 || kinds[4].Pos.Column != 5 {
		t.Errorf("token y position mismatch: got %q at %d:%d, want \"y\" at 2:5",
			kinds[4].Literal, kinds[4].Pos.Line, kinds[4].Pos.Column)
	}
}

func TestLexerNumberOverflow(t *testing.T) {
	// 超出 int64 范围的数字串依然是合法 NUMBER，不报缺陷
	tests := []struct {
		input string
		value float64
	}{
		{"99999999999999999999", 1e20},
		{"18446744073709551616", 18446744073709551616.0},
	}

	for _, tt := range tests {
		l := New(tt.input, "test.mc")
		tokens := l.ScanTokens()

		if l.HasErrors() {
			t.Errorf("input %q: unexpected errors: %v", tt.input, l.Errors())
			continue
		}

		if len(tokens) != 2 { // number + EOF
			t.Errorf("input %q: expected 2 tokens, got %d", tt.input, len(tokens))
			continue
		}

		tok := tokens[0]
		if tok.Type != token.NUMBER {
			t.Errorf("input %q: type mismatch: got %s, want NUMBER", tt.input, tok.Type)
		}
		if tok.Literal != tt.input {
			t.Errorf("input %q: literal mismatch: got %q", tt.input, tok.Literal)
		}
		if v, ok := tok.Value.(float64); !ok || v != tt.value {
			t.Errorf("input %q: value mismatch: got %v, want %v", tt.input, tok.Value, tt.value)
		}
	}
}

func TestLexerMalformedNumber(t *testing.T) {
	input := `1.2.3`

	l := New(input, "test.mc")
	tokens := l.ScanTokens()

	if !l.HasErrors() {
		t.Fatal("expected a malformed number error")
	}

	errs := l.Errors()
	if len(errs) != 1 {
		t.Fatalf("error count mismatch: got %d, want 1", len(errs))
	}
	if errs[0].Kind != MalformedNumber {
		t.Errorf("error kind mismatch: got %d, want MalformedNumber", errs[0].Kind)
	}

	// 整个串是一个 ILLEGAL token，不会拆成 NUMBER DOT NUMBER
	if len(tokens) != 2 {
		t.Fatalf("token count mismatch: got %d, want 2", len(tokens))
	}
	if tokens[0].Type != token.ILLEGAL {
		t.Errorf("token[0] type mismatch: got %s, want ILLEGAL", tokens[0].Type)
	}
	if tokens[0].Literal != "1.2.3" {
		t.Errorf("token[0] literal mismatch: got %q, want %q", tokens[0].Literal, "1.2.3")
	}
}

func TestLexerMalformedIdentifier(t *testing.T) {
	input := `123abc = 5;`

	l := New(input, "test.mc")
	tokens := l.ScanTokens()

	if !l.HasErrors() {
		t.Fatal("expected a malformed identifier error")
	}

	errs := l.Errors()
	if len(errs) != 1 {
		t.Fatalf("error count mismatch: got %d, want 1", len(errs))
	}
	if errs[0].Kind != MalformedIdentifier {
		t.Errorf("error kind mismatch: got %d, want MalformedIdentifier", errs[0].Kind)
	}

	expected := []struct {
		typ     token.TokenType
		literal string
	}{
		{token.ILLEGAL, "123abc"},
		{token.ASSIGN, "="},
		{token.NUMBER, "5"},
		{token.SEMICOLON, ";"},
		{token.EOF, ""},
	}

	if len(tokens) != len(expected) {
		t.Fatalf("token count mismatch: got %d, want %d", len(tokens), len(expected))
	}
	for i, tok := range tokens {
		if tok.Type != expected[i].typ {
			t.Errorf("token[%d] type mismatch: got %s, want %s", i, tok.Type, expected[i].typ)
		}
		if expected[i].literal != "" && tok.Literal != expected[i].literal {
			t.Errorf("token[%d] literal mismatch: got %s, want %s", i, tok.Literal, expected[i].literal)
		}
	}
}

func TestLexerUnexpectedCharacter(t *testing.T) {
	input := `int a @ 5; int b & 1; int c | 2;`

	l := New(input, "test.mc")
	tokens := l.ScanTokens()

	errs := l.Errors()
	if len(errs) != 3 {
		t.Fatalf("error count mismatch: got %d, want 3", len(errs))
	}
	for i, e := range errs {
		if e.Kind != UnexpectedCharacter {
			t.Errorf("error[%d] kind mismatch: got %d, want UnexpectedCharacter", i, e.Kind)
		}
	}

	// 缺陷各占一个 ILLEGAL，前后 token 正常
	var illegal int
	for _, tok := range tokens {
		if tok.Type == token.ILLEGAL {
			illegal++
		}
	}
	if illegal != 3 {
		t.Errorf("illegal token count mismatch: got %d, want 3", illegal)
	}

	if tokens[len(tokens)-1].Type != token.EOF {
		t.Errorf("last token type mismatch: got %s, want EOF", tokens[len(tokens)-1].Type)
	}
}

func TestLexerFailFast(t *testing.T) {
	input := "int a = 1;\nint @ = 2;\nint b = 3;"

	opts := Options{Profile: ProfileFailFast, Nesting: NestStrict}
	l := NewWithOptions(input, "test.mc", opts)
	tokens, err := l.Scan()

	if err == nil {
		t.Fatal("expected fail-fast scan to return an error")
	}
	if tokens != nil {
		t.Errorf("expected nil tokens, got %d", len(tokens))
	}

	lexErr, ok := err.(Error)
	if !ok {
		t.Fatalf("expected lexer.Error, got %T", err)
	}
	if lexErr.Kind != UnexpectedCharacter {
		t.Errorf("error kind mismatch: got %d, want UnexpectedCharacter", lexErr.Kind)
	}
	if lexErr.Pos.Line != 2 || lexErr.Pos.Column != 5 {
		t.Errorf("error position mismatch: got %d:%d, want 2:5", lexErr.Pos.Line, lexErr.Pos.Column)
	}

	// 缺陷之后不再产出 token，也没有 EOF
	if len(l.Errors()) != 1 {
		t.Errorf("error count mismatch: got %d, want 1", len(l.Errors()))
	}
	for _, tok := range l.tokens {
		if tok.Pos.Line > 2 {
			t.Errorf("token after defect line: %s at %d:%d", tok.Type, tok.Pos.Line, tok.Pos.Column)
		}
	}
}

func TestLexerPositions(t *testing.T) {
	input := "int x = 5;\nx = x + 1;"

	l := New(input, "test.mc")
	tokens := l.ScanTokens()

	if l.HasErrors() {
		t.Fatalf("unexpected errors: %v", l.Errors())
	}

	expected := []struct {
		line, column int
	}{
		{1, 1}, {1, 5}, {1, 7}, {1, 9}, {1, 10},
		{2, 1}, {2, 3}, {2, 5}, {2, 7}, {2, 9}, {2, 10},
		{2, 11}, // EOF
	}

	if len(tokens) != len(expected) {
		t.Fatalf("token count mismatch: got %d, want %d", len(tokens), len(expected))
	}

	for i, tok := range tokens {
		if tok.Pos.Line != expected[i].line || tok.Pos.Column != expected[i].column {
			t.Errorf("token[%d] (%s) position mismatch: got %d:%d, want %d:%d",
				i, tok.Type, tok.Pos.Line, tok.Pos.Column, expected[i].line, expected[i].column)
		}
	}

	// 位置单调不减
	for i := 1; i < len(tokens); i++ {
		prev, cur := tokens[i-1].Pos, tokens[i].Pos
		if cur.Line < prev.Line || (cur.Line == prev.Line && cur.Column < prev.Column) {
			t.Errorf("token[%d] position went backwards: %d:%d after %d:%d",
				i, cur.Line, cur.Column, prev.Line, prev.Column)
		}
	}
}

func TestLexerOffsetsReconstructLexemes(t *testing.T) {
	input := "int x = 5;\nstring s = \"a\\tb\";\nwhile (x <= 10) { x = x + 1; }"

	l := New(input, "test.mc")
	tokens := l.ScanTokens()

	if l.HasErrors() {
		t.Fatalf("unexpected errors: %v", l.Errors())
	}

	// 每个 token 的字节偏移切回源码即得到原始词素
	for i, tok := range tokens {
		if tok.Type == token.EOF {
			continue
		}
		end := tok.Pos.Offset + len(tok.Literal)
		if end > len(input) || input[tok.Pos.Offset:end] != tok.Literal {
			t.Errorf("token[%d] (%s) offset %d does not reconstruct literal %q",
				i, tok.Type, tok.Pos.Offset, tok.Literal)
		}
	}
}

func TestLexerEmptyInput(t *testing.T) {
	l := New("", "test.mc")
	tokens := l.ScanTokens()

	if len(tokens) != 1 {
		t.Fatalf("token count mismatch: got %d, want 1", len(tokens))
	}
	if tokens[0].Type != token.EOF {
		t.Errorf("token type mismatch: got %s, want EOF", tokens[0].Type)
	}
	if tokens[0].Pos.Line != 1 || tokens[0].Pos.Column != 1 {
		t.Errorf("EOF position mismatch: got %d:%d, want 1:1", tokens[0].Pos.Line, tokens[0].Pos.Column)
	}
}

func TestLexerWhitespaceOnly(t *testing.T) {
	l := New("  \t\n\n   \r\n", "test.mc")
	tokens := l.ScanTokens()

	if l.HasErrors() {
		t.Fatalf("unexpected errors: %v", l.Errors())
	}
	if len(tokens) != 1 || tokens[0].Type != token.EOF {
		t.Fatalf("expected only EOF, got %d tokens", len(tokens))
	}
}

func TestLexerUnicodeIdentifier(t *testing.T) {
	input := `int 变量 = 1;`

	l := New(input, "test.mc")
	tokens := l.ScanTokens()

	if l.HasErrors() {
		t.Fatalf("unexpected errors: %v", l.Errors())
	}
	if tokens[1].Type != token.IDENT || tokens[1].Literal != "变量" {
		t.Errorf("token[1] mismatch: got %s %q", tokens[1].Type, tokens[1].Literal)
	}
}
