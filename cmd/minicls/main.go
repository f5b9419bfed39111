package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/minic-lang/minic/internal/config"
	"github.com/minic-lang/minic/internal/lexer"
	"github.com/minic-lang/minic/internal/lsp"
)

const Version = "0.1.0"

func main() {
	// 解析命令行参数
	showVersion := flag.Bool("version", false, "显示版本信息")
	showHelp := flag.Bool("help", false, "显示帮助信息")
	logFile := flag.String("log", "", "日志文件路径（默认不记录日志）")
	configPath := flag.String("config", config.ConfigFileName, "扫描器配置文件")

	flag.Parse()

	if *showVersion {
		fmt.Printf("minic Language Server v%s\n", Version)
		os.Exit(0)
	}

	if *showHelp {
		printUsage()
		os.Exit(0)
	}

	// 读取扫描器配置。编辑器诊断始终使用恢复模式，
	// 这里只取注释嵌套等词法选项。
	opts, err := lexerOptions(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// 创建并启动 LSP 服务器
	server := lsp.NewServer(*logFile, opts)
	ctx := context.Background()

	if err := server.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "LSP server error: %v\n", err)
		os.Exit(1)
	}
}

func lexerOptions(path string) (lexer.Options, error) {
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return lexer.Options{}, err
	}
	return cfg.LexerOptions()
}

func printUsage() {
	fmt.Println("minic Language Server - LSP 服务器")
	fmt.Println()
	fmt.Println("用法:")
	fmt.Println("  minicls [options]")
	fmt.Println()
	fmt.Println("选项:")
	fmt.Println("  --version       显示版本信息")
	fmt.Println("  --help          显示帮助信息")
	fmt.Println("  --log <file>    日志文件路径")
	fmt.Println("  --config <file> 扫描器配置文件")
	fmt.Println()
	fmt.Println("LSP 服务器通过标准输入输出 (stdio) 与编辑器通信。")
	fmt.Println()
	fmt.Println("支持的编辑器:")
	fmt.Println("  - VS Code (需要安装 LSP 客户端扩展)")
	fmt.Println("  - Sublime Text (需要安装 LSP 插件)")
	fmt.Println("  - Neovim (内置 LSP 支持)")
	fmt.Println("  - 任何支持 LSP 协议的编辑器")
}
