package i18n

var messagesZH = map[string]string{
	// ========== 词法分析 ==========
	ErrUnexpectedChar:      "意外字符 '%c'",
	ErrUnterminatedString:  "未闭合的字符串字面量",
	ErrUnclosedComment:     "未闭合的注释块（起始于第 %d 行第 %d 列）",
	ErrNestedComment:       "检测到嵌套注释（外层注释起始于第 %d 行第 %d 列）",
	ErrMalformedNumber:     "无效的数字格式: %s",
	ErrMalformedIdentifier: "无效的标识符（以数字开头）: %s",

	// ========== 诊断标签 ==========
	LabelCommentOpenedHere: "外层注释在此开始",
	LabelStringOpenedHere:  "字符串在此开始",

	// ========== 修复建议 ==========
	HintCloseComment: "在文件结束前补上匹配的 '*/'",
	HintCloseString:  "在行尾前补上闭合的 '\"'",
	HintRenameIdent:  "标识符必须以字母或 '_' 开头",

	// ========== 命令行 ==========
	MsgAnalyzingFile: "正在分析文件: %s",
	MsgErrorsFound:   "错误:",
	MsgValidTokens:   "有效 Token:",
	MsgNoErrors:      "未发现词法错误",
	MsgReadFailed:    "读取 %s 失败: %v",
	MsgErrorCount:    "错误: 共发现 %d 个错误",
}
