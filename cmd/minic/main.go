package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/minic-lang/minic/internal/config"
	"github.com/minic-lang/minic/internal/errors"
	"github.com/minic-lang/minic/internal/i18n"
	"github.com/minic-lang/minic/internal/lexer"
	"github.com/minic-lang/minic/internal/printer"
)

const (
	Version = "0.1.0"

	// SourceFileExtension minic 源文件扩展名
	SourceFileExtension = ".mc"
)

// 全局语言参数
var globalLang string

func main() {
	// 预扫描全局参数 --lang 或 -lang
	args := preprocessArgs(os.Args[1:])

	if globalLang != "" {
		i18n.SetLanguageFromString(globalLang)
	}

	if len(args) < 1 {
		printUsage()
		os.Exit(0)
	}

	command := args[0]

	switch command {
	case "tokens":
		cmdTokens(args[1:])
	case "check":
		cmdCheck(args[1:])
	case "init":
		cmdInit(args[1:])
	case "version", "-v", "--version":
		cmdVersion()
	case "help", "-h", "--help":
		printUsage()
	default:
		// 兼容旧用法：直接分析文件
		if len(args) >= 1 && !isFlag(args[0]) {
			cmdTokens(args)
		} else {
			fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", command)
			printUsage()
			os.Exit(1)
		}
	}
}

// preprocessArgs 预处理参数，提取全局 --lang 参数
func preprocessArgs(args []string) []string {
	var result []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--lang" || arg == "-lang" {
			if i+1 < len(args) {
				globalLang = args[i+1]
				i++ // 跳过下一个参数
				continue
			}
		} else if strings.HasPrefix(arg, "--lang=") {
			globalLang = strings.TrimPrefix(arg, "--lang=")
			continue
		} else if strings.HasPrefix(arg, "-lang=") {
			globalLang = strings.TrimPrefix(arg, "-lang=")
			continue
		}
		result = append(result, arg)
	}
	return result
}

func isFlag(s string) bool {
	return len(s) > 0 && s[0] == '-'
}

func printUsage() {
	fmt.Printf("minic lexical analyzer v%s\n\n", Version)
	fmt.Println("Usage:")
	fmt.Println("  minic [--lang en|zh] <command> [options] [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  tokens <file>   scan a source file and print the token table")
	fmt.Println("  check <file>    scan a source file and report diagnostics")
	fmt.Println("  init            write a default minic.toml to the current directory")
	fmt.Println("  version         print version information")
	fmt.Println("  help            print this help")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -config <path>  scanner config file (default minic.toml)")
	fmt.Println("  -fail-fast      stop at the first lexical defect")
	fmt.Println("  --lang <en|zh>  message language")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Printf("  minic tokens example1%s\n", SourceFileExtension)
	fmt.Printf("  minic check -fail-fast example1%s\n", SourceFileExtension)
	fmt.Printf("  minic --lang zh check example1%s\n", SourceFileExtension)
}

// loadOptions 读取配置文件并套用命令行覆盖项
func loadOptions(configPath string, failFast bool) lexer.Options {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	applyOutputConfig(cfg)

	opts, err := cfg.LexerOptions()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if failFast {
		opts.Profile = lexer.ProfileFailFast
	}
	return opts
}

// applyOutputConfig 套用输出相关配置（颜色、语言）
func applyOutputConfig(cfg *config.Config) {
	switch cfg.Output.Color {
	case "always":
		errors.SetColorsEnabled(true)
	case "never":
		errors.SetColorsEnabled(false)
	}

	// 命令行的 --lang 优先于配置文件
	if globalLang == "" && cfg.Output.Language != "" {
		i18n.SetLanguageFromString(cfg.Output.Language)
	}
}

// cmdTokens 扫描源文件并打印 token 表
func cmdTokens(args []string) {
	fs := flag.NewFlagSet("tokens", flag.ExitOnError)
	configPath := fs.String("config", config.ConfigFileName, "scanner config file")
	failFast := fs.Bool("fail-fast", false, "stop at the first lexical defect")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: minic tokens [options] <file>")
		os.Exit(1)
	}

	filename := fs.Arg(0)
	source, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintln(os.Stderr, i18n.T(i18n.MsgReadFailed, filename, err))
		os.Exit(1)
	}

	opts := loadOptions(*configPath, *failFast)
	l := lexer.NewWithOptions(string(source), filename, opts)
	tokens, scanErr := l.Scan()

	p := printer.New(os.Stdout)
	if scanErr != nil {
		// 快速失败：只打印第一个缺陷
		p.PrintHeader(filename, string(source))
		p.PrintErrors(l.Errors())
		os.Exit(1)
	}

	p.PrintScan(filename, string(source), tokens, l.Errors())

	if l.HasErrors() {
		os.Exit(1)
	}
}

// cmdCheck 扫描源文件并渲染诊断
func cmdCheck(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	configPath := fs.String("config", config.ConfigFileName, "scanner config file")
	failFast := fs.Bool("fail-fast", false, "stop at the first lexical defect")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: minic check [options] <file>")
		os.Exit(1)
	}

	filename := fs.Arg(0)
	source, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintln(os.Stderr, i18n.T(i18n.MsgReadFailed, filename, err))
		os.Exit(1)
	}

	opts := loadOptions(*configPath, *failFast)
	l := lexer.NewWithOptions(string(source), filename, opts)
	l.ScanTokens()

	if !l.HasErrors() {
		fmt.Println(i18n.T(i18n.MsgNoErrors))
		return
	}

	reporter := errors.NewReporter()
	reporter.SetSource(filename, string(source))
	reporter.AddLexErrors(l.Errors())
	reporter.PrintAll()
	os.Exit(1)
}

// cmdInit 在当前目录写入默认配置文件
func cmdInit(args []string) {
	path := config.ConfigFileName
	if len(args) > 0 {
		path = args[0]
	}

	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(os.Stderr, "%s already exists\n", path)
		os.Exit(1)
	}

	if err := config.Default().Save(path); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s\n", path)
}

func cmdVersion() {
	fmt.Printf("minic v%s\n", Version)
}
