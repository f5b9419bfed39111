package token

import "fmt"

// ============================================================================
// Token 类型定义
// ============================================================================
//
// TokenType 使用 iota 自动编号，按类别分组：
// 1. 特殊标记（ILLEGAL, EOF）
// 2. 字面量（标识符、数字、字符串）
// 3. 运算符（固定表：先双字符、后单字符）
// 4. 分隔符（括号、逗号、分号等）
// 5. 保留字（控制流关键字）
// 6. 类型字（基础类型名）
//
// ============================================================================

// TokenType 表示 Token 的类型
type TokenType int

const (
	// ----------------------------------------------------------
	// 特殊标记
	// ----------------------------------------------------------
	ILLEGAL TokenType = iota // 非法词素（携带错误消息）
	EOF                      // 文件结束

	// ----------------------------------------------------------
	// 字面量
	// ----------------------------------------------------------
	IDENT  // 标识符 (变量名、函数名等)
	NUMBER // 数字字面量（整数或小数）
	STRING // 字符串字面量（已解码转义）

	// ----------------------------------------------------------
	// 运算符（固定表策略：封闭集合，不做贪婪合并）
	// ----------------------------------------------------------
	operator_beg
	EQ     // ==
	NE     // !=
	LE     // <=
	GE     // >=
	AND    // &&
	OR     // ||
	ASSIGN // =
	PLUS   // +
	MINUS  // -
	STAR   // *
	SLASH  // /
	LT     // <
	GT     // >
	NOT    // !
	operator_end

	// ----------------------------------------------------------
	// 分隔符
	// ----------------------------------------------------------
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }
	LBRACKET  // [
	RBRACKET  // ]
	SEMICOLON // ;
	COMMA     // ,
	DOT       // .

	// ----------------------------------------------------------
	// 控制流保留字（每个保留字一个独立类型，便于语法分析器直接分发）
	// ----------------------------------------------------------
	keyword_beg
	IF     // if
	ELSE   // else
	WHILE  // while
	FOR    // for
	RETURN // return
	keyword_end

	// ----------------------------------------------------------
	// 类型字（同样按词分类型，原始词素保留在 Literal 中）
	// ----------------------------------------------------------
	type_beg
	INT_TYPE    // int
	FLOAT_TYPE  // float
	STRING_TYPE // string
	VOID        // void
	type_end
)

// ============================================================================
// Token 类型名称映射
// ============================================================================

var tokenNames = map[TokenType]string{
	ILLEGAL: "ILLEGAL",
	EOF:     "EOF",

	IDENT:  "IDENT",
	NUMBER: "NUMBER",
	STRING: "STRING",

	EQ:     "==",
	NE:     "!=",
	LE:     "<=",
	GE:     ">=",
	AND:    "&&",
	OR:     "||",
	ASSIGN: "=",
	PLUS:   "+",
	MINUS:  "-",
	STAR:   "*",
	SLASH:  "/",
	LT:     "<",
	GT:     ">",
	NOT:    "!",

	LPAREN:    "(",
	RPAREN:    ")",
	LBRACE:    "{",
	RBRACE:    "}",
	LBRACKET:  "[",
	RBRACKET:  "]",
	SEMICOLON: ";",
	COMMA:     ",",
	DOT:       ".",

	IF:     "if",
	ELSE:   "else",
	WHILE:  "while",
	FOR:    "for",
	RETURN: "return",

	INT_TYPE:    "int",
	FLOAT_TYPE:  "float",
	STRING_TYPE: "string",
	VOID:        "void",
}

// ============================================================================
// 词汇表
// ============================================================================
//
// keywords 和 typeWords 是两个封闭、不可变的集合。
// 标识符识别完成后，先查保留字表，再查类型字表
// （一个词不会同时出现在两个表中）。
//
// ============================================================================

var keywords = map[string]TokenType{
	"if":     IF,
	"else":   ELSE,
	"while":  WHILE,
	"for":    FOR,
	"return": RETURN,
}

var typeWords = map[string]TokenType{
	"int":    INT_TYPE,
	"float":  FLOAT_TYPE,
	"string": STRING_TYPE,
	"void":   VOID,
}

// LookupIdent 查找标识符是否为保留字或类型字
//
// 优化说明:
//   - 短词（2-4字符）使用 switch 直接匹配
//   - 短字符串的 switch 比 map 查找更快，因为避免了哈希计算
//   - 其余的词仍使用 map 查找
func LookupIdent(ident string) TokenType {
	switch len(ident) {
	case 2:
		if ident == "if" {
			return IF
		}
	case 3:
		switch ident {
		case "for":
			return FOR
		case "int":
			return INT_TYPE
		}
	case 4:
		switch ident {
		case "else":
			return ELSE
		case "void":
			return VOID
		}
	}

	if t, ok := keywords[ident]; ok {
		return t
	}
	if t, ok := typeWords[ident]; ok {
		return t
	}
	return IDENT
}

// IsKeyword 判断类型是否为控制流保留字
func (t TokenType) IsKeyword() bool {
	return t > keyword_beg && t < keyword_end
}

// IsType 判断类型是否为类型字
func (t TokenType) IsType() bool {
	return t > type_beg && t < type_end
}

// IsOperator 判断类型是否为运算符
func (t TokenType) IsOperator() bool {
	return t > operator_beg && t < operator_end
}

// String 返回 TokenType 的字符串表示
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", t)
}

// ============================================================================
// Position - 源代码位置
// ============================================================================

// Position 表示源代码中的位置
type Position struct {
	Filename string // 文件名
	Line     int    // 行号 (从1开始)
	Column   int    // 列号 (从1开始)
	Offset   int    // 字节偏移量 (从0开始)
}

// String 返回位置的字符串表示，格式为 "filename:line:column"
func (p Position) String() string {
	if p.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsValid 检查位置是否有效
func (p Position) IsValid() bool {
	return p.Line > 0
}

// Before 判断位置是否按 (行,列) 字典序先于 q
func (p Position) Before(q Position) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Column < q.Column
}

// ============================================================================
// Span - 源代码范围
// ============================================================================

// Span 表示源代码中的一个范围（开始到结束）
//
// 用于错误报告和编辑器高亮，可以精确定位问题代码的起止位置。
type Span struct {
	Start Position // 开始位置
	End   Position // 结束位置
}

// SpanFromToken 从 Token 创建 Span
//
// 本语言的所有词素都不跨行，直接按字面量长度推进列号即可。
func SpanFromToken(t Token) Span {
	endPos := t.Pos
	endPos.Column += len(t.Literal)
	endPos.Offset += len(t.Literal)
	return Span{Start: t.Pos, End: endPos}
}

// Length 返回 Span 的长度（仅在同一行有效）
func (s Span) Length() int {
	if s.Start.Line == s.End.Line {
		return s.End.Column - s.Start.Column
	}
	return 1
}

// ============================================================================
// Token - 词法单元
// ============================================================================

// Token 表示一个词法单元
//
// Token 是词法分析的产物，包含：
// - Type: token 类型（如 IDENT, NUMBER, IF 等）
// - Literal: 源代码中的原始词素
// - Value: 解析后的值（数字的数值、字符串的解码结果、ILLEGAL 的错误消息）
// - Pos: 词素首字符在源代码中的位置
type Token struct {
	Type    TokenType   // Token 类型
	Literal string      // 原始词素
	Value   interface{} // 解析后的值
	Pos     Position    // 位置信息
}

// String 返回 Token 的字符串表示（用于调试）
func (t Token) String() string {
	switch t.Type {
	case IDENT, NUMBER, STRING, ILLEGAL:
		return fmt.Sprintf("%s(%s) at %s", t.Type, t.Literal, t.Pos)
	default:
		return fmt.Sprintf("%s at %s", t.Type, t.Pos)
	}
}

// ============================================================================
// Token 构造函数
// ============================================================================

// New 创建一个新的 Token
func New(tokenType TokenType, literal string, pos Position) Token {
	return Token{
		Type:    tokenType,
		Literal: literal,
		Pos:     pos,
	}
}

// NewWithValue 创建一个带值的 Token
//
// 用于数字和字符串字面量，value 参数存储解析后的实际值。
func NewWithValue(tokenType TokenType, literal string, value interface{}, pos Position) Token {
	return Token{
		Type:    tokenType,
		Literal: literal,
		Value:   value,
		Pos:     pos,
	}
}
