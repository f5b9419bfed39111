package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"

	"github.com/minic-lang/minic/internal/errors"
	"github.com/minic-lang/minic/internal/i18n"
	"github.com/minic-lang/minic/internal/lexer"
)

// Server LSP 服务器
//
// 通过 stdio 提供两类能力：词法诊断（didOpen/didChange 时推送）
// 和全文档语义高亮（semanticTokens/full）。两者都只依赖 token 流。
type Server struct {
	docManager *DocumentManager
	logger     *Logger

	// 输入输出
	reader *bufio.Reader
	writer io.Writer
	mu     sync.Mutex

	// 服务器状态
	initialized bool
	shutdown    bool
}

// NewServer 创建 LSP 服务器
func NewServer(logPath string, opts lexer.Options) *Server {
	logger := NewLogger(logPath)

	s := &Server{
		logger: logger,
		reader: bufio.NewReader(os.Stdin),
		writer: os.Stdout,
	}

	s.docManager = NewDocumentManager(opts, logger)

	return s
}

// Run 启动 LSP 服务器主循环
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("minic language server started (debug=%v)", s.logger.IsEnabled())

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		msg, err := s.readMessage()
		if err != nil {
			if err == io.EOF {
				s.logger.Info("Client disconnected")
				return nil
			}
			s.logger.Error("Error reading message: %v", err)
			continue
		}

		s.handleMessage(msg)

		// 收到 exit 通知后退出
		if s.shutdown {
			s.logger.Info("Server shutdown")
			s.logger.Close()
			return nil
		}
	}
}

// readMessage 读取 LSP 消息
func (s *Server) readMessage() ([]byte, error) {
	// 读取头部
	var contentLength int
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimSpace(line)

		if line == "" {
			break
		}

		if strings.HasPrefix(line, "Content-Length:") {
			lengthStr := strings.TrimSpace(strings.TrimPrefix(line, "Content-Length:"))
			contentLength, err = strconv.Atoi(lengthStr)
			if err != nil {
				return nil, fmt.Errorf("invalid Content-Length: %s", lengthStr)
			}
		}
	}

	if contentLength == 0 {
		return nil, fmt.Errorf("missing Content-Length header")
	}

	content := make([]byte, contentLength)
	_, err := io.ReadFull(s.reader, content)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Received message: %d bytes", contentLength)
	return content, nil
}

// sendMessage 发送 LSP 消息
func (s *Server) sendMessage(msg interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	content, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	header := fmt.Sprintf("Content-Length: %d\r\n\r\n", len(content))

	s.logger.Debug("Sending message: %d bytes", len(content))

	if _, err := s.writer.Write([]byte(header)); err != nil {
		return err
	}
	_, err = s.writer.Write(content)
	return err
}

// handleMessage 处理收到的消息
func (s *Server) handleMessage(msg []byte) {
	var baseMsg struct {
		JSONRPC string          `json:"jsonrpc"`
		ID      json.RawMessage `json:"id,omitempty"`
		Method  string          `json:"method"`
		Params  json.RawMessage `json:"params,omitempty"`
	}

	if err := json.Unmarshal(msg, &baseMsg); err != nil {
		s.logger.Error("Error parsing message: %v", err)
		return
	}

	s.logger.Debug("Handling method: %s", baseMsg.Method)

	switch baseMsg.Method {
	case "initialize":
		s.handleInitialize(baseMsg.ID, baseMsg.Params)
	case "initialized":
		s.handleInitialized()
	case "shutdown":
		s.handleShutdown(baseMsg.ID)
	case "exit":
		s.handleExit()
	case "textDocument/didOpen":
		s.handleDidOpen(baseMsg.Params)
	case "textDocument/didChange":
		s.handleDidChange(baseMsg.Params)
	case "textDocument/didClose":
		s.handleDidClose(baseMsg.Params)
	case "textDocument/didSave":
		s.handleDidSave(baseMsg.Params)
	case "textDocument/semanticTokens/full":
		s.handleSemanticTokens(baseMsg.ID, baseMsg.Params)
	default:
		s.logger.Debug("Unhandled method: %s", baseMsg.Method)
		if baseMsg.ID != nil {
			s.sendError(baseMsg.ID, -32601, "Method not found: "+baseMsg.Method)
		}
	}
}

// handleInitialize 处理初始化请求
func (s *Server) handleInitialize(id json.RawMessage, params json.RawMessage) {
	var initParams protocol.InitializeParams
	if err := json.Unmarshal(params, &initParams); err != nil {
		s.sendError(id, -32700, "Parse error")
		return
	}

	s.logger.Info("Initialize: workspace=%s", initParams.RootURI)

	// 返回服务器能力
	result := map[string]interface{}{
		"capabilities": map[string]interface{}{
			// 文档同步：完整同步
			"textDocumentSync": map[string]interface{}{
				"openClose": true,
				"change":    1, // Full sync
				"save": map[string]interface{}{
					"includeText": true,
				},
			},
			// 语义高亮
			"semanticTokensProvider": map[string]interface{}{
				"legend": map[string]interface{}{
					"tokenTypes":     SemanticTokenTypes,
					"tokenModifiers": SemanticTokenModifiers,
				},
				"full": true,
			},
		},
		"serverInfo": map[string]interface{}{
			"name":    "minicls",
			"version": "0.1.0",
		},
	}

	s.sendResult(id, result)
}

// handleInitialized 处理初始化完成通知
func (s *Server) handleInitialized() {
	s.initialized = true
	s.logger.Info("Server initialized")
}

// handleShutdown 处理关闭请求
func (s *Server) handleShutdown(id json.RawMessage) {
	s.logger.Info("Shutdown requested")
	s.sendResult(id, nil)
}

// handleExit 处理退出通知
func (s *Server) handleExit() {
	s.shutdown = true
	s.logger.Info("Exit notification received")
}

// handleDidOpen 处理文档打开
func (s *Server) handleDidOpen(params json.RawMessage) {
	var p protocol.DidOpenTextDocumentParams
	if err := json.Unmarshal(params, &p); err != nil {
		s.logger.Error("Error parsing didOpen params: %v", err)
		return
	}

	docURI := string(p.TextDocument.URI)
	doc := s.docManager.Open(docURI, p.TextDocument.Text, int(p.TextDocument.Version))
	s.publishDiagnostics(doc)
}

// handleDidChange 处理文档变更
func (s *Server) handleDidChange(params json.RawMessage) {
	var p protocol.DidChangeTextDocumentParams
	if err := json.Unmarshal(params, &p); err != nil {
		s.logger.Error("Error parsing didChange params: %v", err)
		return
	}

	docURI := string(p.TextDocument.URI)

	// 完整同步：使用第一个变更的文本内容
	if len(p.ContentChanges) > 0 {
		newContent := p.ContentChanges[0].Text
		doc := s.docManager.Update(docURI, newContent, int(p.TextDocument.Version))
		s.publishDiagnostics(doc)
	}
}

// handleDidClose 处理文档关闭
func (s *Server) handleDidClose(params json.RawMessage) {
	var p protocol.DidCloseTextDocumentParams
	if err := json.Unmarshal(params, &p); err != nil {
		s.logger.Error("Error parsing didClose params: %v", err)
		return
	}

	s.docManager.Close(string(p.TextDocument.URI))
}

// handleDidSave 处理文档保存
func (s *Server) handleDidSave(params json.RawMessage) {
	var p protocol.DidSaveTextDocumentParams
	if err := json.Unmarshal(params, &p); err != nil {
		s.logger.Error("Error parsing didSave params: %v", err)
		return
	}

	s.logger.Debug("Document saved: %s", p.TextDocument.URI)

	if p.Text != "" {
		docURI := string(p.TextDocument.URI)
		if doc := s.docManager.Get(docURI); doc != nil {
			doc = s.docManager.Update(docURI, p.Text, doc.Version+1)
			s.publishDiagnostics(doc)
		}
	}
}

// handleSemanticTokens 处理全文档语义高亮请求
func (s *Server) handleSemanticTokens(id json.RawMessage, params json.RawMessage) {
	var p protocol.SemanticTokensParams
	if err := json.Unmarshal(params, &p); err != nil {
		s.sendError(id, -32700, "Parse error")
		return
	}

	doc := s.docManager.Get(string(p.TextDocument.URI))
	if doc == nil {
		s.sendResult(id, &protocol.SemanticTokens{Data: []uint32{}})
		return
	}

	tokens, _ := doc.ScanResult()
	data := EncodeSemanticTokens(tokens)

	s.logger.Debug("Semantic tokens: %s -> %d entries", p.TextDocument.URI, len(data)/5)
	s.sendResult(id, &protocol.SemanticTokens{Data: data})
}

// ============================================================================
// 诊断推送
// ============================================================================

// publishDiagnostics 将文档的词法缺陷推送给客户端
func (s *Server) publishDiagnostics(doc *Document) {
	_, lexErrs := doc.ScanResult()

	diagnostics := make([]protocol.Diagnostic, 0, len(lexErrs))
	for _, e := range lexErrs {
		diagnostics = append(diagnostics, s.toDiagnostic(doc, e))
	}

	params := protocol.PublishDiagnosticsParams{
		URI:         uri.URI(doc.URI),
		Diagnostics: diagnostics,
	}

	notification := map[string]interface{}{
		"jsonrpc": "2.0",
		"method":  "textDocument/publishDiagnostics",
		"params":  params,
	}

	s.logger.Debug("Publishing %d diagnostics for %s", len(diagnostics), doc.URI)
	if err := s.sendMessage(notification); err != nil {
		s.logger.Error("Error publishing diagnostics: %v", err)
	}
}

// toDiagnostic 将词法缺陷转换为 LSP 诊断
func (s *Server) toDiagnostic(doc *Document, e lexer.Error) protocol.Diagnostic {
	d := protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: uint32(e.Pos.Line - 1), Character: uint32(e.Pos.Column - 1)},
			End:   protocol.Position{Line: uint32(e.Pos.Line - 1), Character: uint32(e.Pos.Column)},
		},
		Severity: protocol.DiagnosticSeverityError,
		Code:     errors.CodeForKind(e.Kind),
		Source:   "minic",
		Message:  e.Message,
	}

	// 嵌套/未闭合注释附带外层注释起点
	if e.Related.IsValid() && e.Related != e.Pos {
		d.RelatedInformation = []protocol.DiagnosticRelatedInformation{
			{
				Location: protocol.Location{
					URI: uri.URI(doc.URI),
					Range: protocol.Range{
						Start: protocol.Position{Line: uint32(e.Related.Line - 1), Character: uint32(e.Related.Column - 1)},
						End:   protocol.Position{Line: uint32(e.Related.Line - 1), Character: uint32(e.Related.Column + 1)},
					},
				},
				Message: i18n.T(i18n.LabelCommentOpenedHere),
			},
		}
	}

	return d
}

// sendResult 发送成功响应
func (s *Server) sendResult(id json.RawMessage, result interface{}) {
	response := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      id,
		"result":  result,
	}
	s.sendMessage(response)
}

// sendError 发送错误响应
func (s *Server) sendError(id json.RawMessage, code int, message string) {
	response := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      id,
		"error": map[string]interface{}{
			"code":    code,
			"message": message,
		},
	}
	s.sendMessage(response)
}
