// Package printer 将扫描结果渲染为命令行输出
//
// 输出布局沿用演示工具的约定：先列出错误（位置 + 消息），
// 再以固定宽度表格列出有效 token。
package printer

import (
	"fmt"
	"io"
	"strings"

	"github.com/minic-lang/minic/internal/errors"
	"github.com/minic-lang/minic/internal/i18n"
	"github.com/minic-lang/minic/internal/lexer"
	"github.com/minic-lang/minic/internal/token"
)

// Printer 扫描结果打印器
type Printer struct {
	w io.Writer
}

// New 创建打印器
func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

// PrintHeader 打印文件头和源码内容
func (p *Printer) PrintHeader(filename, source string) {
	fmt.Fprintf(p.w, "\n%s\n", i18n.T(i18n.MsgAnalyzingFile, filename))
	fmt.Fprintln(p.w, strings.Repeat("=", 50))
	fmt.Fprintln(p.w, strings.TrimRight(source, "\n"))
}

// PrintErrors 打印错误列表（位置 + 消息）
func (p *Printer) PrintErrors(errs []lexer.Error) {
	if len(errs) == 0 {
		return
	}
	fmt.Fprintf(p.w, "\n%s\n", errors.Red(i18n.T(i18n.MsgErrorsFound)))
	for _, e := range errs {
		fmt.Fprintf(p.w, "  %s: %s\n", e.Pos, e.Message)
	}
}

// PrintTokens 打印有效 token 的固定宽度表格
//
// ILLEGAL 与 EOF 条目不进入表格：前者由错误列表呈现，后者只是流结束标记。
func (p *Printer) PrintTokens(tokens []token.Token) {
	fmt.Fprintf(p.w, "\n%s\n", i18n.T(i18n.MsgValidTokens))
	for _, t := range tokens {
		if t.Type == token.ILLEGAL || t.Type == token.EOF {
			continue
		}
		fmt.Fprintf(p.w, "  %-12s | %3d:%-3d | %q\n", kindName(t.Type), t.Pos.Line, t.Pos.Column, displayValue(t))
	}
	fmt.Fprintln(p.w, strings.Repeat("=", 50))
}

// PrintScan 打印一次扫描的完整结果
func (p *Printer) PrintScan(filename, source string, tokens []token.Token, errs []lexer.Error) {
	p.PrintHeader(filename, source)
	p.PrintErrors(errs)
	p.PrintTokens(tokens)
}

// kindName 返回表格中使用的类型名
//
// 运算符和分隔符的 String() 是符号本身，表格里统一展示分类名更整齐。
func kindName(t token.TokenType) string {
	switch {
	case t.IsKeyword():
		return strings.ToUpper(t.String())
	case t.IsType():
		return "TYPE(" + t.String() + ")"
	case t.IsOperator():
		return "OPERATOR"
	case t == token.IDENT, t == token.NUMBER, t == token.STRING:
		return t.String()
	default:
		return "PUNCT"
	}
}

// displayValue 返回表格中展示的值：优先解码值，其次原始词素
func displayValue(t token.Token) string {
	if t.Type == token.STRING {
		if s, ok := t.Value.(string); ok {
			return s
		}
	}
	return t.Literal
}
