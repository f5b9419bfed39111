// Package errors 提供 minic 的词法诊断系统
package errors

import "github.com/minic-lang/minic/internal/lexer"

// ============================================================================
// 错误级别
// ============================================================================

// Level 错误级别
type Level int

const (
	LevelError   Level = iota // 错误
	LevelWarning              // 警告
	LevelNote                 // 提示
	LevelHelp                 // 帮助
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarning:
		return "warning"
	case LevelNote:
		return "note"
	case LevelHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ============================================================================
// 词法错误码 (E 开头)
// ============================================================================

const (
	E0002 = "E0002" // 意外的字符
	E0003 = "E0003" // 未闭合的字符串
	E0004 = "E0004" // 未闭合的注释
	E0005 = "E0005" // 无效的数字
	E0006 = "E0006" // 无效的标识符
	E0007 = "E0007" // 嵌套注释
)

// CodeForKind 返回词法缺陷种类对应的错误码
func CodeForKind(kind lexer.ErrorKind) string {
	switch kind {
	case lexer.UnexpectedCharacter:
		return E0002
	case lexer.UnterminatedString:
		return E0003
	case lexer.UnclosedComment:
		return E0004
	case lexer.MalformedNumber:
		return E0005
	case lexer.MalformedIdentifier:
		return E0006
	case lexer.NestedComment:
		return E0007
	default:
		return E0002
	}
}
