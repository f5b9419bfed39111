package i18n

var messagesEN = map[string]string{
	// ========== Lexer ==========
	ErrUnexpectedChar:      "unexpected character '%c'",
	ErrUnterminatedString:  "unterminated string literal",
	ErrUnclosedComment:     "unclosed comment block starting at line %d, column %d",
	ErrNestedComment:       "nested comment detected (outer comment started at line %d, column %d)",
	ErrMalformedNumber:     "invalid number format: %s",
	ErrMalformedIdentifier: "invalid identifier (starts with number): %s",

	// ========== Diagnostic labels ==========
	LabelCommentOpenedHere: "outer comment opened here",
	LabelStringOpenedHere:  "string opened here",

	// ========== Hints ==========
	HintCloseComment: "add a matching '*/' before the end of the file",
	HintCloseString:  "add a closing '\"' before the end of the line",
	HintRenameIdent:  "identifiers must start with a letter or '_'",

	// ========== CLI ==========
	MsgAnalyzingFile: "Analyzing file: %s",
	MsgErrorsFound:   "Errors:",
	MsgValidTokens:   "Valid tokens:",
	MsgNoErrors:      "no lexical errors found",
	MsgReadFailed:    "failed to read %s: %v",
	MsgErrorCount:    "error: found %d error(s)",
}
