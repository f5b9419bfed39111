// Package i18n 提供 minic 工具链的多语言消息支持
package i18n

import (
	"fmt"
	"sync"
)

// Language 语言类型
type Language string

const (
	LangEnglish Language = "en"
	LangChinese Language = "zh"
)

// ============================================================================
// 消息 ID
// ============================================================================
//
// 所有用户可见的消息都通过消息 ID 查表获得，
// 词法分析器和命令行工具不直接内嵌英文或中文文案。
//
// ============================================================================

const (
	// 词法错误
	ErrUnexpectedChar      = "lexer.unexpected_char"
	ErrUnterminatedString  = "lexer.unterminated_string"
	ErrUnclosedComment     = "lexer.unclosed_comment"
	ErrNestedComment       = "lexer.nested_comment"
	ErrMalformedNumber     = "lexer.malformed_number"
	ErrMalformedIdentifier = "lexer.malformed_identifier"

	// 诊断标签
	LabelCommentOpenedHere = "label.comment_opened_here"
	LabelStringOpenedHere  = "label.string_opened_here"

	// 修复建议
	HintCloseComment = "hint.close_comment"
	HintCloseString  = "hint.close_string"
	HintRenameIdent  = "hint.rename_identifier"

	// 命令行
	MsgAnalyzingFile = "cli.analyzing_file"
	MsgErrorsFound   = "cli.errors_found"
	MsgValidTokens   = "cli.valid_tokens"
	MsgNoErrors      = "cli.no_errors"
	MsgReadFailed    = "cli.read_failed"
	MsgErrorCount    = "cli.error_count"
)

// 全局语言设置
var (
	currentLang Language = LangEnglish
	mu          sync.RWMutex
)

// SetLanguage 设置当前语言
func SetLanguage(lang Language) {
	mu.Lock()
	defer mu.Unlock()
	currentLang = lang
}

// SetLanguageFromString 从字符串设置语言
func SetLanguageFromString(lang string) {
	switch lang {
	case "zh", "zh-cn", "zh-tw", "zh-hk", "chinese":
		SetLanguage(LangChinese)
	default:
		SetLanguage(LangEnglish)
	}
}

// GetLanguage 获取当前语言
func GetLanguage() Language {
	mu.RLock()
	defer mu.RUnlock()
	return currentLang
}

// T 翻译消息（支持格式化参数）
func T(msgID string, args ...interface{}) string {
	mu.RLock()
	lang := currentLang
	mu.RUnlock()

	var messages map[string]string
	switch lang {
	case LangChinese:
		messages = messagesZH
	default:
		messages = messagesEN
	}

	if msg, ok := messages[msgID]; ok {
		if len(args) > 0 {
			return fmt.Sprintf(msg, args...)
		}
		return msg
	}

	// 回退到英文
	if msg, ok := messagesEN[msgID]; ok {
		if len(args) > 0 {
			return fmt.Sprintf(msg, args...)
		}
		return msg
	}

	// 找不到翻译则返回原始 ID
	return msgID
}
