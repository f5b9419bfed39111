package errors

import (
	"bufio"
	"fmt"
	"os"

	"github.com/minic-lang/minic/internal/i18n"
	"github.com/minic-lang/minic/internal/lexer"
)

// ============================================================================
// 错误报告器
// ============================================================================

// Reporter 错误报告器
//
// 聚合一次（或多次）扫描产生的词法缺陷，配合源代码缓存
// 渲染带源码摘录和下划线标注的诊断输出。
type Reporter struct {
	formatter   *Formatter
	sourceCache map[string][]string // 源代码缓存
	errors      []*LexError
}

// NewReporter 创建错误报告器
func NewReporter() *Reporter {
	return &Reporter{
		formatter:   NewFormatter(),
		sourceCache: make(map[string][]string),
		errors:      nil,
	}
}

// SetFormatter 设置格式化器
func (r *Reporter) SetFormatter(f *Formatter) {
	r.formatter = f
}

// LoadSource 加载源文件
func (r *Reporter) LoadSource(filename string) error {
	if _, ok := r.sourceCache[filename]; ok {
		return nil // 已加载
	}

	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return err
	}

	r.sourceCache[filename] = lines
	return nil
}

// SetSource 直接设置源代码内容（按行切分）
func (r *Reporter) SetSource(filename string, content string) {
	r.sourceCache[filename] = SplitLines(content)
}

// GetSourceLines 获取缓存的源代码行
func (r *Reporter) GetSourceLines(filename string) []string {
	return r.sourceCache[filename]
}

// ============================================================================
// 词法错误转换
// ============================================================================

// FromLex 将词法分析器的缺陷转换为带诊断信息的 LexError
//
// 缺陷种类决定错误码和修复建议；嵌套/未闭合注释的缺陷
// 附加一个指向外层注释起点的次级标签。
func FromLex(err lexer.Error) *LexError {
	le := &LexError{
		Code:    CodeForKind(err.Kind),
		Level:   LevelError,
		Message: err.Message,
		File:    err.Pos.Filename,
		Line:    err.Pos.Line,
		Column:  err.Pos.Column,
	}

	switch err.Kind {
	case lexer.UnterminatedString:
		le.Hints = append(le.Hints, i18n.T(i18n.HintCloseString))
	case lexer.UnclosedComment:
		le.Hints = append(le.Hints, i18n.T(i18n.HintCloseComment))
	case lexer.MalformedIdentifier:
		le.Hints = append(le.Hints, i18n.T(i18n.HintRenameIdent))
	}

	if err.Related.IsValid() && err.Related != err.Pos {
		le.Labels = append(le.Labels, Label{
			Line:    err.Related.Line,
			Column:  err.Related.Column,
			Length:  2, // 标注 "/*" 两个字符
			Message: i18n.T(i18n.LabelCommentOpenedHere),
		})
	}

	return le
}

// ============================================================================
// 报告接口
// ============================================================================

// AddLexErrors 转换并收集一次扫描产生的所有缺陷
func (r *Reporter) AddLexErrors(errs []lexer.Error) {
	for _, e := range errs {
		r.errors = append(r.errors, FromLex(e))
	}
}

// Report 收集一个错误
func (r *Reporter) Report(err *LexError) {
	r.errors = append(r.errors, err)
}

// PrintAll 将所有收集的错误渲染到 stderr
func (r *Reporter) PrintAll() {
	if len(r.errors) == 0 {
		return
	}
	fmt.Fprint(os.Stderr, r.formatter.FormatErrors(r.errors, r.sourceCache))
}

// HasErrors 检查是否有错误
func (r *Reporter) HasErrors() bool {
	return len(r.errors) > 0
}

// ErrorCount 返回错误数量
func (r *Reporter) ErrorCount() int {
	return len(r.errors)
}

// Errors 返回收集的所有错误
func (r *Reporter) Errors() []*LexError {
	return r.errors
}

// Clear 清空已收集的错误
func (r *Reporter) Clear() {
	r.errors = nil
}

// ============================================================================
// 工具函数
// ============================================================================

// SplitLines 将源代码按行切分（不含换行符）
func SplitLines(content string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			line := content[start:i]
			// 去掉 \r\n 的 \r
			if len(line) > 0 && line[len(line)-1] == '\r' {
				line = line[:len(line)-1]
			}
			lines = append(lines, line)
			start = i + 1
		}
	}
	if start < len(content) {
		lines = append(lines, content[start:])
	}
	return lines
}
