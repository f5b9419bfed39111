// Package config 实现 minic 的扫描策略配置
//
// 策略（错误传播、注释嵌套、输出语言与颜色）在构建/配置期确定，
// 一次扫描过程中不可变。配置文件缺失时使用默认策略。
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/minic-lang/minic/internal/lexer"
)

// 常量定义
const (
	ConfigFileName = "minic.toml" // 配置文件名
)

// Config 扫描器配置
type Config struct {
	Scanner ScannerConfig `toml:"scanner"`
	Output  OutputConfig  `toml:"output"`
}

// ScannerConfig 扫描策略
type ScannerConfig struct {
	// Profile 错误传播策略："recover"（缺陷进入 token 流，继续扫描）
	// 或 "failfast"（第一个缺陷即终止）
	Profile string `toml:"profile"`

	// CommentNesting 块注释嵌套策略："strict"（嵌套报告缺陷）
	// 或 "counting"（只计数，不报告）
	CommentNesting string `toml:"comment_nesting"`
}

// OutputConfig 输出设置
type OutputConfig struct {
	// Color 颜色输出："auto"、"always" 或 "never"
	Color string `toml:"color"`

	// Language 消息语言："en" 或 "zh"
	Language string `toml:"language"`
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Scanner: ScannerConfig{
			Profile:        "recover",
			CommentNesting: "strict",
		},
		Output: OutputConfig{
			Color:    "auto",
			Language: "en",
		},
	}
}

// Load 从文件加载配置
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// LoadOrDefault 加载配置，文件不存在时返回默认配置
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// LexerOptions 将配置转换为词法分析器策略
func (c *Config) LexerOptions() (lexer.Options, error) {
	opts := lexer.DefaultOptions()

	switch strings.ToLower(c.Scanner.Profile) {
	case "", "recover":
		opts.Profile = lexer.ProfileRecover
	case "failfast", "fail-fast":
		opts.Profile = lexer.ProfileFailFast
	default:
		return opts, fmt.Errorf("unknown scanner profile %q (expected \"recover\" or \"failfast\")", c.Scanner.Profile)
	}

	switch strings.ToLower(c.Scanner.CommentNesting) {
	case "", "strict":
		opts.Nesting = lexer.NestStrict
	case "counting":
		opts.Nesting = lexer.NestCounting
	default:
		return opts, fmt.Errorf("unknown comment nesting mode %q (expected \"strict\" or \"counting\")", c.Scanner.CommentNesting)
	}

	return opts, nil
}

// Save 保存配置到文件
func (c *Config) Save(path string) error {
	content := generateConfigWithComments(c)

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// generateConfigWithComments 生成带注释的配置文件内容
func generateConfigWithComments(c *Config) string {
	var sb strings.Builder

	sb.WriteString("[scanner]\n")
	sb.WriteString("# 错误传播策略：recover（报告所有缺陷）或 failfast（第一个缺陷即终止）\n")
	sb.WriteString(fmt.Sprintf("profile = %q\n\n", c.Scanner.Profile))
	sb.WriteString("# 注释嵌套策略：strict（嵌套报告缺陷）或 counting（只计数）\n")
	sb.WriteString(fmt.Sprintf("comment_nesting = %q\n\n", c.Scanner.CommentNesting))

	sb.WriteString("[output]\n")
	sb.WriteString("# 颜色输出：auto、always 或 never\n")
	sb.WriteString(fmt.Sprintf("color = %q\n\n", c.Output.Color))
	sb.WriteString("# 消息语言：en 或 zh\n")
	sb.WriteString(fmt.Sprintf("language = %q\n", c.Output.Language))

	return sb.String()
}
