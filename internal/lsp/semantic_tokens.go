package lsp

import (
	"github.com/minic-lang/minic/internal/token"
)

// ============================================================================
// 语义 token
// ============================================================================
//
// 语义高亮完全由词法 token 流驱动：扫描器产出的每个 token 按类别映射到
// LSP 语义 token 类型，再按协议要求做 (行,列) 增量编码。
//
// ============================================================================

// Semantic token types
const (
	TokenTypeKeyword = iota
	TokenTypeType
	TokenTypeVariable
	TokenTypeNumber
	TokenTypeString
	TokenTypeOperator
)

// SemanticTokenTypes 语义 token 类型列表（legend，顺序即编码下标）
var SemanticTokenTypes = []string{
	"keyword",
	"type",
	"variable",
	"number",
	"string",
	"operator",
}

// SemanticTokenModifiers 语义 token 修饰符列表（本服务器不使用修饰符）
var SemanticTokenModifiers = []string{}

// semanticToken 表示单个语义 token
type semanticToken struct {
	Line      uint32 // 0-based 行号
	StartChar uint32 // 0-based 列号
	Length    uint32
	TokenType uint32
}

// semanticTokenFor 将词法 token 类别映射到语义 token 类型
//
// 分隔符、ILLEGAL 和 EOF 不参与语义高亮，返回 false。
func semanticTokenFor(t token.Token) (uint32, bool) {
	switch {
	case t.Type.IsKeyword():
		return TokenTypeKeyword, true
	case t.Type.IsType():
		return TokenTypeType, true
	case t.Type.IsOperator():
		return TokenTypeOperator, true
	case t.Type == token.IDENT:
		return TokenTypeVariable, true
	case t.Type == token.NUMBER:
		return TokenTypeNumber, true
	case t.Type == token.STRING:
		return TokenTypeString, true
	default:
		return 0, false
	}
}

// EncodeSemanticTokens 将 token 流编码为 LSP 语义 token 数据
//
// 协议格式为每个 token 五个整数：
// deltaLine, deltaStartChar, length, tokenType, tokenModifiers。
// 词法流本身就按 (行,列) 单调有序，无需再排序。
func EncodeSemanticTokens(tokens []token.Token) []uint32 {
	var sems []semanticToken

	for _, t := range tokens {
		st, ok := semanticTokenFor(t)
		if !ok {
			continue
		}

		length := len(t.Literal)
		if length == 0 {
			continue
		}

		sems = append(sems, semanticToken{
			Line:      uint32(t.Pos.Line - 1),
			StartChar: uint32(t.Pos.Column - 1),
			Length:    uint32(length),
			TokenType: st,
		})
	}

	// 增量编码
	data := make([]uint32, 0, len(sems)*5)
	var prevLine, prevStart uint32

	for _, s := range sems {
		deltaLine := s.Line - prevLine
		deltaStart := s.StartChar
		if deltaLine == 0 {
			deltaStart = s.StartChar - prevStart
		}

		data = append(data, deltaLine, deltaStart, s.Length, s.TokenType, 0)
		prevLine = s.Line
		prevStart = s.StartChar
	}

	return data
}
