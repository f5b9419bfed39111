package lexer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/minic-lang/minic/internal/i18n"
	"github.com/minic-lang/minic/internal/token"
)

// ============================================================================
// Lexer - 词法分析器
// ============================================================================
//
// 词法分析器负责将源代码字符串转换为 Token 序列。
// 单趟、从左到右扫描，所有可变状态（游标、注释帧栈）都由一次扫描独占。
//
// 模式匹配按固定优先级进行（顺序是语义的一部分，不是实现细节）：
// 空白 > 注释起始 > 非法标识符 > 非法数字 > 数字 > 字符串 > 标识符
// > 运算符 > 分隔符 > 未知字符。
// 非法标识符/非法数字必须先于合法数字和标识符判断，
// 否则 123abc 会被错误地拆成 NUMBER + IDENT 两个合法 token。
//
// 性能优化说明：
// 1. ASCII 快速路径：大多数源代码字符是 ASCII，避免不必要的 UTF-8 解码
// 2. Token 切片预分配：根据源码长度预估 token 数量，减少切片扩容
// 3. 空白字符批量跳过：一次性跳过连续空白，减少循环次数
// 4. 字符串快速路径：无转义字符时直接切片，避免逐字符拷贝
//
// ============================================================================

// Profile 错误传播策略
//
// 两种策略互斥，一次扫描只启用其中一种，且对所有错误种类一致生效。
type Profile int

const (
	// ProfileRecover 可恢复模式：每个缺陷变为输出流中的一个 ILLEGAL token，
	// 扫描跳过出错词素继续，一趟扫描报告文件中的所有缺陷。
	ProfileRecover Profile = iota

	// ProfileFailFast 快速失败模式：遇到第一个缺陷立即终止扫描，
	// 不产生缺陷之后的 token。
	ProfileFailFast
)

// NestingMode 块注释嵌套策略
type NestingMode int

const (
	// NestStrict 严格栈模式：注释内再次出现 /* 会压栈并报告一个可恢复的
	// 嵌套注释缺陷（同时给出内层位置和外层注释起点），扫描继续视为注释内；
	// */ 在深度大于 0 时弹出一帧，深度归零即闭合。
	NestStrict NestingMode = iota

	// NestCounting 计数模式：/* 与 */ 只增减深度，不报告嵌套缺陷，
	// 深度归零时注释闭合。
	NestCounting
)

// Options 扫描策略配置
//
// 策略在一次扫描开始前确定，扫描过程中不可变。
type Options struct {
	Profile Profile     // 错误传播策略
	Nesting NestingMode // 注释嵌套策略
}

// DefaultOptions 返回默认策略：可恢复 + 严格栈
func DefaultOptions() Options {
	return Options{Profile: ProfileRecover, Nesting: NestStrict}
}

// ============================================================================
// 错误类型
// ============================================================================

// ErrorKind 词法缺陷的种类
type ErrorKind int

const (
	UnexpectedCharacter ErrorKind = iota // 无法识别的字符
	UnterminatedString                   // 未闭合的字符串
	MalformedNumber                      // 多小数点数字
	MalformedIdentifier                  // 数字开头的标识符
	NestedComment                        // 嵌套注释（仅严格栈模式）
	UnclosedComment                      // 输入结束时仍未闭合的块注释
)

// Error 表示一个词法缺陷
type Error struct {
	Kind    ErrorKind      // 缺陷种类
	Pos     token.Position // 缺陷首次被观察到的位置
	Message string         // 错误信息
	Related token.Position // 关联位置（嵌套/未闭合注释的外层注释起点）
}

func (e Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// ============================================================================
// Lexer 结构体
// ============================================================================

// Lexer 词法分析器结构体
type Lexer struct {
	source   string        // 源代码字符串
	filename string        // 源文件名（用于错误报告）
	opts     Options       // 扫描策略
	tokens   []token.Token // 已扫描的 Token 列表

	start       int // 当前词素的起始位置（字节偏移）
	startLine   int // 当前词素起始行号
	startColumn int // 当前词素起始列号
	current     int // 当前扫描位置（字节偏移）
	line        int // 当前行号（从1开始）
	column      int // 当前列号（从1开始）

	frames []token.Position // 打开的块注释帧栈（栈深即嵌套层数）
	errors []Error          // 词法错误列表
	halted bool             // 快速失败模式下遇到缺陷后置位
}

// ============================================================================
// 构造函数
// ============================================================================

// New 创建一个使用默认策略的词法分析器
func New(source, filename string) *Lexer {
	return NewWithOptions(source, filename, DefaultOptions())
}

// NewWithOptions 创建一个新的词法分析器
//
// 参数:
//   - source: 源代码字符串
//   - filename: 源文件名（用于错误报告）
//   - opts: 扫描策略（错误传播、注释嵌套）
//
// 优化说明:
//   - 预分配 tokens 切片容量，经验值为 源码长度/5
func NewWithOptions(source, filename string, opts Options) *Lexer {
	estimatedTokens := len(source) / 5
	if estimatedTokens < 16 {
		estimatedTokens = 16
	}

	return &Lexer{
		source:   source,
		filename: filename,
		opts:     opts,
		tokens:   make([]token.Token, 0, estimatedTokens),
		line:     1,
		column:   1,
	}
}

// ============================================================================
// 公共方法
// ============================================================================

// ScanTokens 扫描所有 tokens
//
// 这是词法分析的主入口，会扫描整个源代码并返回 Token 序列。
// 可恢复模式下缺陷以 ILLEGAL token 的形式按扫描顺序混在有效 token 之间，
// 调用方可按类型分离；快速失败模式下遇到第一个缺陷即停止。
// 扫描正常走到输入末尾时，最后一个 Token 总是 EOF。
func (l *Lexer) ScanTokens() []token.Token {
	for !l.isAtEnd() && !l.halted {
		// 记录当前词素的起始位置
		l.start = l.current
		l.startLine = l.line
		l.startColumn = l.column
		l.scanToken()
	}

	if !l.halted {
		l.tokens = append(l.tokens, token.Token{
			Type: token.EOF,
			Pos: token.Position{
				Filename: l.filename,
				Line:     l.line,
				Column:   l.column,
				Offset:   l.current,
			},
		})
	}

	return l.tokens
}

// Scan 按配置的错误策略扫描
//
// 可恢复模式下总是返回完整 token 流（含 ILLEGAL 条目），error 为 nil；
// 快速失败模式下，若存在缺陷则返回 nil 和第一个缺陷。
func (l *Lexer) Scan() ([]token.Token, error) {
	tokens := l.ScanTokens()
	if l.opts.Profile == ProfileFailFast && len(l.errors) > 0 {
		return nil, l.errors[0]
	}
	return tokens, nil
}

// Errors 返回所有词法错误
func (l *Lexer) Errors() []Error {
	return l.errors
}

// HasErrors 检查是否有错误
func (l *Lexer) HasErrors() bool {
	return len(l.errors) > 0
}

// ============================================================================
// 核心扫描逻辑
// ============================================================================

// scanToken 扫描单个 token
//
// 这是词法分析的核心函数，根据当前字符决定如何处理。
// switch 分支按字符出现频率排序：空白 > 分隔符 > 运算符 > 字面量。
func (l *Lexer) scanToken() {
	ch := l.advance()

	switch ch {

	// ----------------------------------------------------------
	// 高频：空白字符
	// ----------------------------------------------------------
	case ' ', '\t', '\r':
		// 批量跳过连续空白字符
		l.skipWhitespace()

	case '\n':
		l.newLine()
		l.skipWhitespace()

	// ----------------------------------------------------------
	// 高频：分隔符（每个永远恰好一个字符一个 token）
	// ----------------------------------------------------------
	case '(':
		l.addToken(token.LPAREN)
	case ')':
		l.addToken(token.RPAREN)
	case '{':
		l.addToken(token.LBRACE)
	case '}':
		l.addToken(token.RBRACE)
	case '[':
		l.addToken(token.LBRACKET)
	case ']':
		l.addToken(token.RBRACKET)
	case ';':
		l.addToken(token.SEMICOLON)
	case ',':
		l.addToken(token.COMMA)
	case '.':
		l.addToken(token.DOT)

	// ----------------------------------------------------------
	// 运算符（固定表：先尝试双字符，再退回单字符）
	// ----------------------------------------------------------
	case '=':
		if l.match('=') {
			l.addToken(token.EQ)
		} else {
			l.addToken(token.ASSIGN)
		}

	case '!':
		if l.match('=') {
			l.addToken(token.NE)
		} else {
			l.addToken(token.NOT)
		}

	case '<':
		if l.match('=') {
			l.addToken(token.LE)
		} else {
			l.addToken(token.LT)
		}

	case '>':
		if l.match('=') {
			l.addToken(token.GE)
		} else {
			l.addToken(token.GT)
		}

	case '&':
		// 固定表中只有 &&，孤立的 & 不是合法词素
		if l.match('&') {
			l.addToken(token.AND)
		} else {
			l.error(UnexpectedCharacter, i18n.T(i18n.ErrUnexpectedChar, ch))
		}

	case '|':
		if l.match('|') {
			l.addToken(token.OR)
		} else {
			l.error(UnexpectedCharacter, i18n.T(i18n.ErrUnexpectedChar, ch))
		}

	case '+':
		l.addToken(token.PLUS)
	case '-':
		l.addToken(token.MINUS)
	case '*':
		l.addToken(token.STAR)

	case '/':
		// / 或 // 注释 或 /* 块注释
		if l.match('/') {
			l.lineComment()
		} else if l.match('*') {
			l.blockComment()
		} else {
			l.addToken(token.SLASH)
		}

	// ----------------------------------------------------------
	// 字符串字面量
	// ----------------------------------------------------------
	case '"':
		l.string()

	// ----------------------------------------------------------
	// 默认：数字、标识符或非法字符
	// ----------------------------------------------------------
	default:
		if isDigit(ch) {
			l.number()
		} else if isAlpha(ch) {
			l.identifier()
		} else {
			l.error(UnexpectedCharacter, i18n.T(i18n.ErrUnexpectedChar, ch))
		}
	}
}

// ============================================================================
// 空白字符处理
// ============================================================================

// skipWhitespace 批量跳过连续的空白字符
//
// 源代码中经常有连续的空格（缩进、对齐），一次性跳过比逐个处理更高效。
// 遇到换行时需要更新行号。
func (l *Lexer) skipWhitespace() {
	for !l.isAtEnd() {
		ch := l.peekByte()

		switch ch {
		case ' ', '\t', '\r':
			l.advanceByte()
		case '\n':
			l.advanceByte()
			l.newLine()
		default:
			return
		}
	}
}

// ============================================================================
// 注释处理
// ============================================================================

// lineComment 处理单行注释 //
//
// 单行注释从 // 开始，到行尾结束（不含换行符）。
// 注释内容被丢弃，不生成 Token，但位置推进照常进行。
func (l *Lexer) lineComment() {
	for !l.isAtEnd() && l.peekByte() != '\n' {
		l.advance()
	}
	// 不消费换行符，让主循环处理（更新行号）
}

// blockComment 处理块注释 /* */
//
// 每个打开的 /* 在帧栈上记录其起始位置，栈深即当前嵌套层数。
// 严格栈模式下，注释内再次出现 /* 会报告一个嵌套注释缺陷
// （指出内层位置和外层注释起点），随后继续按注释内容处理；
// 计数模式下嵌套只影响深度，不产生缺陷。
// 两种模式下，扫描到输入末尾时深度仍大于 0 都是未闭合注释缺陷，
// 缺陷位置取最外层帧记录的起点。
func (l *Lexer) blockComment() {
	// 进入时 /* 已被消费，词素起点即外层注释起点
	l.frames = append(l.frames, l.tokenPos())

	for len(l.frames) > 0 && !l.isAtEnd() && !l.halted {
		// 内层 /*
		if l.peekByte() == '/' && l.peekNextByte() == '*' {
			inner := token.Position{
				Filename: l.filename,
				Line:     l.line,
				Column:   l.column,
				Offset:   l.current,
			}
			l.advance()
			l.advance()
			outer := l.frames[0]
			l.frames = append(l.frames, inner)
			if l.opts.Nesting == NestStrict {
				l.addError(NestedComment, inner, l.source[inner.Offset:l.current],
					i18n.T(i18n.ErrNestedComment, outer.Line, outer.Column), outer)
			}
			continue
		}

		// 注释结束 */
		if l.peekByte() == '*' && l.peekNextByte() == '/' {
			l.advance()
			l.advance()
			l.frames = l.frames[:len(l.frames)-1]
			continue
		}

		// 处理换行
		if l.peekByte() == '\n' {
			l.advance()
			l.newLine()
			continue
		}

		l.advance()
	}

	// 走到输入末尾仍有未闭合的帧
	if len(l.frames) > 0 && !l.halted {
		outer := l.frames[0]
		l.addError(UnclosedComment, outer, l.source[l.start:l.current],
			i18n.T(i18n.ErrUnclosedComment, outer.Line, outer.Column), outer)
	}
	l.frames = l.frames[:0]
}

// ============================================================================
// 字符串处理
// ============================================================================

// string 处理字符串字面量
//
// 字符串由双引号界定，不允许跨行。
// 支持转义序列：\n \t \r \\ \" \'，各解码为对应的单字符；
// 不在此集合中的转义序列原样保留（反斜杠和后随字符都进入解码值）。
// 在闭合引号之前遇到换行或输入末尾是未闭合字符串缺陷，
// 缺陷位置为起始引号的位置，换行符不会被吞掉。
//
// 优化说明:
//   - 快速路径：如果字符串不包含转义字符，直接切片返回
//   - 慢速路径：包含转义字符时，使用 strings.Builder 构建
func (l *Lexer) string() {
	startOffset := l.current // 字符串内容的起始位置（引号后）

	// 快速扫描检查是否包含转义字符
	hasEscape := false
	scanPos := l.current

	for scanPos < len(l.source) {
		b := l.source[scanPos]
		if b == '\\' {
			hasEscape = true
			break
		}
		if b == '"' || b == '\n' {
			break
		}
		scanPos++
	}

	// ==========================================================
	// 快速路径：无转义字符，直接切片
	// ==========================================================
	if !hasEscape {
		for l.current < scanPos {
			l.advance()
		}

		if l.isAtEnd() || l.peekByte() == '\n' {
			l.error(UnterminatedString, i18n.T(i18n.ErrUnterminatedString))
			return
		}

		// 提取字符串内容（不包含引号）
		value := l.source[startOffset:l.current]
		l.advance() // 跳过结束引号

		l.addTokenWithValue(token.STRING, value)
		return
	}

	// ==========================================================
	// 慢速路径：包含转义字符，需要处理转义
	// ==========================================================
	var sb strings.Builder
	sb.Grow(scanPos - startOffset + 16)

	for !l.isAtEnd() {
		ch := l.peek()

		if ch == '"' {
			break
		}

		// 字符串不能跨行
		if ch == '\n' {
			l.error(UnterminatedString, i18n.T(i18n.ErrUnterminatedString))
			return
		}

		if ch == '\\' {
			l.advance() // 跳过反斜杠
			// 反斜杠后是换行或输入末尾：字符串未闭合。
			// 换行符留给主循环处理，行号推进不受影响。
			if l.isAtEnd() || l.peekByte() == '\n' {
				l.error(UnterminatedString, i18n.T(i18n.ErrUnterminatedString))
				return
			}

			escaped := l.advance()
			switch escaped {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '\\':
				sb.WriteByte('\\')
			case '"':
				sb.WriteByte('"')
			case '\'':
				sb.WriteByte('\'')
			default:
				// 集合外的转义序列原样通过
				sb.WriteByte('\\')
				sb.WriteRune(escaped)
			}
		} else {
			sb.WriteRune(l.advance())
		}
	}

	if l.isAtEnd() {
		l.error(UnterminatedString, i18n.T(i18n.ErrUnterminatedString))
		return
	}

	l.advance() // 跳过结束引号
	l.addTokenWithValue(token.STRING, sb.String())
}

// ============================================================================
// 数字与非法字面量处理
// ============================================================================

// number 处理数字字面量及两类非法字面量
//
// 合法形式：digit+ ('.' digit+)?
//
// 两类非法词素必须在这里整体识别，不能拆分成多个合法 token：
//   - 非法标识符：数字后紧跟字母或下划线（如 123abc），整个连续串是一个缺陷
//   - 非法数字：带两个及以上小数点的数字串（如 1.2.3），整个连续串是一个缺陷
//
// 优化说明:
//   - 一到两位整数直接计算，避免 strconv 调用（循环计数等场景非常常见）
func (l *Lexer) number() {
	for isDigit(l.peek()) {
		l.advance()
	}

	// 数字后紧跟标识符起始字符 → 非法标识符
	if isAlpha(l.peek()) {
		for isAlphaNumeric(l.peek()) {
			l.advance()
		}
		l.error(MalformedIdentifier, i18n.T(i18n.ErrMalformedIdentifier, l.source[l.start:l.current]))
		return
	}

	isFloat := false
	if l.peekByte() == '.' && isDigit(l.peekNextRune()) {
		isFloat = true
		l.advance() // 跳过 '.'

		for isDigit(l.peek()) {
			l.advance()
		}

		// 第二个小数点 → 非法数字，整段连续的 .digit 串都算进同一个缺陷
		if l.peekByte() == '.' && isDigit(l.peekNextRune()) {
			for l.peekByte() == '.' && isDigit(l.peekNextRune()) {
				l.advance()
				for isDigit(l.peek()) {
					l.advance()
				}
			}
			l.error(MalformedNumber, i18n.T(i18n.ErrMalformedNumber, l.source[l.start:l.current]))
			return
		}
	}

	literal := l.source[l.start:l.current]

	if isFloat {
		// 语法已经校验过（digit+ '.' digit+），超出范围时
		// ParseFloat 返回 ±Inf，词素仍是合法 NUMBER
		value, _ := strconv.ParseFloat(literal, 64)
		l.addTokenWithValue(token.NUMBER, value)
		return
	}

	// 一到两位整数快速路径
	if len(literal) == 1 {
		l.addTokenWithValue(token.NUMBER, int64(literal[0]-'0'))
		return
	}
	if len(literal) == 2 {
		l.addTokenWithValue(token.NUMBER, int64(literal[0]-'0')*10+int64(literal[1]-'0'))
		return
	}

	value, err := strconv.ParseInt(literal, 10, 64)
	if err != nil {
		// 超出 int64 范围的数字串仍是合法 NUMBER，退回浮点值承载
		f, _ := strconv.ParseFloat(literal, 64)
		l.addTokenWithValue(token.NUMBER, f)
		return
	}
	l.addTokenWithValue(token.NUMBER, value)
}

// ============================================================================
// 标识符处理
// ============================================================================

// identifier 处理标识符、保留字和类型字
//
// 标识符以字母或下划线开头，后跟字母、数字或下划线。
// 扫描完成后查词汇表：先保留字、后类型字，都不命中则保持 IDENT。
func (l *Lexer) identifier() {
	for isAlphaNumeric(l.peek()) {
		l.advance()
	}

	text := l.source[l.start:l.current]
	l.addToken(token.LookupIdent(text))
}

// ============================================================================
// 底层字符操作（带 ASCII 优化）
// ============================================================================

// isAtEnd 检查是否到达源代码末尾
func (l *Lexer) isAtEnd() bool {
	return l.current >= len(l.source)
}

// advance 前进一个字符并返回它
//
// 这是通用版本，支持完整的 UTF-8 字符。
// 对于 ASCII 字符，会自动使用快速路径。
// 所有消费都必须经过 advance/advanceByte，任何分支不得独立移动游标。
func (l *Lexer) advance() rune {
	if l.current >= len(l.source) {
		return 0
	}

	b := l.source[l.current]

	if b < utf8.RuneSelf {
		l.current++
		l.column++
		return rune(b)
	}

	r, size := utf8.DecodeRuneInString(l.source[l.current:])
	l.current += size
	l.column++
	return r
}

// advanceByte 前进一个字节（仅用于已知是 ASCII 的情况）
func (l *Lexer) advanceByte() {
	l.current++
	l.column++
}

// peek 查看当前字符但不前进
func (l *Lexer) peek() rune {
	if l.current >= len(l.source) {
		return 0
	}

	b := l.source[l.current]
	if b < utf8.RuneSelf {
		return rune(b)
	}

	r, _ := utf8.DecodeRuneInString(l.source[l.current:])
	return r
}

// peekByte 查看当前字节（仅用于 ASCII 检查）
func (l *Lexer) peekByte() byte {
	if l.current >= len(l.source) {
		return 0
	}
	return l.source[l.current]
}

// peekNextByte 查看下一个字节（用于 /* */ 等双字符序列检查）
func (l *Lexer) peekNextByte() byte {
	if l.current+1 >= len(l.source) {
		return 0
	}
	return l.source[l.current+1]
}

// peekNextRune 查看下一个 rune（用于 "." 后面是否是数字的检查）
func (l *Lexer) peekNextRune() rune {
	if l.current+1 >= len(l.source) {
		return 0
	}

	b := l.source[l.current+1]
	if b < utf8.RuneSelf {
		return rune(b)
	}

	r, _ := utf8.DecodeRuneInString(l.source[l.current+1:])
	return r
}

// match 如果当前字符匹配则前进
//
// 用于识别固定表中的双字符运算符，如 == != <= >= && ||。
func (l *Lexer) match(expected rune) bool {
	if l.current >= len(l.source) {
		return false
	}

	b := l.source[l.current]
	if b < utf8.RuneSelf {
		if rune(b) != expected {
			return false
		}
		l.current++
		l.column++
		return true
	}

	r, size := utf8.DecodeRuneInString(l.source[l.current:])
	if r != expected {
		return false
	}
	l.current += size
	l.column++
	return true
}

// ============================================================================
// 位置追踪
// ============================================================================

// newLine 处理换行：行号加一，列号重置为 1
func (l *Lexer) newLine() {
	l.line++
	l.column = 1
}

// tokenPos 获取当前词素的起始位置
func (l *Lexer) tokenPos() token.Position {
	return token.Position{
		Filename: l.filename,
		Line:     l.startLine,
		Column:   l.startColumn,
		Offset:   l.start,
	}
}

// ============================================================================
// Token 生成
// ============================================================================

// addToken 添加一个无值的 Token
func (l *Lexer) addToken(tokenType token.TokenType) {
	l.tokens = append(l.tokens, token.New(tokenType, l.source[l.start:l.current], l.tokenPos()))
}

// addTokenWithValue 添加一个带值的 Token
//
// 用于数字和字符串字面量，Value 字段存储解析后的值。
func (l *Lexer) addTokenWithValue(tokenType token.TokenType, value interface{}) {
	l.tokens = append(l.tokens, token.NewWithValue(tokenType, l.source[l.start:l.current], value, l.tokenPos()))
}

// ============================================================================
// 错误处理
// ============================================================================

// error 在当前词素起点记录一个词法错误
func (l *Lexer) error(kind ErrorKind, message string) {
	l.addError(kind, l.tokenPos(), l.source[l.start:l.current], message, token.Position{})
}

// addError 记录一个词法错误
//
// 可恢复模式下错误同时生成一个携带消息的 ILLEGAL token，扫描继续；
// 快速失败模式下置位 halted，主循环随即终止。
func (l *Lexer) addError(kind ErrorKind, pos token.Position, literal, message string, related token.Position) {
	l.errors = append(l.errors, Error{
		Kind:    kind,
		Pos:     pos,
		Message: message,
		Related: related,
	})

	if l.opts.Profile == ProfileFailFast {
		l.halted = true
		return
	}

	l.tokens = append(l.tokens, token.NewWithValue(token.ILLEGAL, literal, message, pos))
}

// ============================================================================
// 字符分类函数
// ============================================================================

// isDigit 判断是否为数字 0-9
func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

// isAlpha 判断是否为字母或下划线
//
// 支持 Unicode 字母，允许标识符使用非 ASCII 字符。
func isAlpha(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		ch == '_' ||
		unicode.IsLetter(ch)
}

// isAlphaNumeric 判断是否为字母、数字或下划线
func isAlphaNumeric(ch rune) bool {
	return isAlpha(ch) || isDigit(ch)
}
