package lsp

import (
	"sync"

	"go.lsp.dev/uri"

	"github.com/minic-lang/minic/internal/errors"
	"github.com/minic-lang/minic/internal/lexer"
	"github.com/minic-lang/minic/internal/token"
)

// Document 表示一个打开的文档
type Document struct {
	URI     string
	Content string
	Version int
	Lines   []string

	// 延迟扫描的 token 流与缺陷列表
	tokens  []token.Token
	lexErrs []lexer.Error
	scanned bool
	opts    lexer.Options
	mu      sync.Mutex
}

// ScanResult 获取文档的 token 流和词法缺陷（延迟扫描）
func (d *Document) ScanResult() ([]token.Token, []lexer.Error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.scanned {
		d.scan()
	}
	return d.tokens, d.lexErrs
}

// scan 扫描文档（内部方法，不加锁）
func (d *Document) scan() {
	if d.scanned {
		return
	}

	// 检查文档大小限制（500KB）
	if len(d.Content) > 500*1024 {
		d.tokens = nil
		d.lexErrs = nil
		d.scanned = true
		return
	}

	// 编辑器场景总是用可恢复策略扫描：缺陷作为诊断发布，
	// 快速失败在这里没有意义
	opts := d.opts
	opts.Profile = lexer.ProfileRecover

	l := lexer.NewWithOptions(d.Content, uriToPath(d.URI), opts)
	d.tokens = l.ScanTokens()
	d.lexErrs = l.Errors()
	d.scanned = true
}

// Invalidate 标记文档需要重新扫描
func (d *Document) Invalidate() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.scanned = false
	d.tokens = nil
	d.lexErrs = nil
}

// uriToPath 从文档 URI 提取文件路径
func uriToPath(docURI string) string {
	parsed, err := uri.Parse(docURI)
	if err != nil {
		return docURI
	}
	return parsed.Filename()
}

// ============================================================================
// 文档管理器
// ============================================================================

// DocumentManager 文档管理器
type DocumentManager struct {
	docs      map[string]*Document // URI -> Document
	openOrder []string             // LRU 顺序（最近使用的在最后）
	maxDocs   int                  // 最多缓存的文档数量
	opts      lexer.Options        // 扫描策略
	mu        sync.Mutex
	logger    *Logger
}

// NewDocumentManager 创建文档管理器
func NewDocumentManager(opts lexer.Options, logger *Logger) *DocumentManager {
	return &DocumentManager{
		docs:      make(map[string]*Document),
		openOrder: make([]string, 0, 10),
		maxDocs:   10, // 最多缓存10个文档
		opts:      opts,
		logger:    logger,
	}
}

// Open 打开文档
func (dm *DocumentManager) Open(uri, content string, version int) *Document {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	// 如果文档已经打开，更新内容
	if doc, exists := dm.docs[uri]; exists {
		doc.Content = content
		doc.Version = version
		doc.Lines = errors.SplitLines(content)
		doc.Invalidate()
		dm.updateLRU(uri)
		dm.logger.Debug("Document updated: %s (version %d)", uri, version)
		return doc
	}

	// 检查是否需要淘汰旧文档
	if len(dm.docs) >= dm.maxDocs {
		dm.evictOldest()
	}

	doc := &Document{
		URI:     uri,
		Content: content,
		Version: version,
		Lines:   errors.SplitLines(content),
		opts:    dm.opts,
	}

	dm.docs[uri] = doc
	dm.openOrder = append(dm.openOrder, uri)
	dm.logger.Debug("Document opened: %s (version %d, size %d bytes)", uri, version, len(content))

	return doc
}

// Update 更新文档内容
func (dm *DocumentManager) Update(uri, content string, version int) *Document {
	return dm.Open(uri, content, version)
}

// Close 关闭文档
func (dm *DocumentManager) Close(uri string) {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	delete(dm.docs, uri)
	for i, u := range dm.openOrder {
		if u == uri {
			dm.openOrder = append(dm.openOrder[:i], dm.openOrder[i+1:]...)
			break
		}
	}
	dm.logger.Debug("Document closed: %s", uri)
}

// Get 获取文档
func (dm *DocumentManager) Get(uri string) *Document {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	return dm.docs[uri]
}

// updateLRU 将文档移动到 LRU 队列末尾
func (dm *DocumentManager) updateLRU(uri string) {
	for i, u := range dm.openOrder {
		if u == uri {
			dm.openOrder = append(dm.openOrder[:i], dm.openOrder[i+1:]...)
			dm.openOrder = append(dm.openOrder, uri)
			return
		}
	}
	dm.openOrder = append(dm.openOrder, uri)
}

// evictOldest 淘汰最久未使用的文档（内部方法，不加锁）
func (dm *DocumentManager) evictOldest() {
	if len(dm.openOrder) == 0 {
		return
	}
	oldest := dm.openOrder[0]
	dm.openOrder = dm.openOrder[1:]
	delete(dm.docs, oldest)
	dm.logger.Debug("Document evicted: %s", oldest)
}
