package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	jsoniter "github.com/json-iterator/go"

	"github.com/fmzh2021/news-collection/internal/app/run"
	"github.com/fmzh2021/news-collection/internal/artifacts"
	"github.com/fmzh2021/news-collection/internal/config"
	"github.com/fmzh2021/news-collection/internal/infra/httpx"
	"github.com/fmzh2021/news-collection/internal/infra/sink"
	"github.com/fmzh2021/news-collection/internal/platform"
	"github.com/fmzh2021/news-collection/internal/platform/bing"
	"github.com/fmzh2021/news-collection/internal/platform/google"
	"github.com/fmzh2021/news-collection/internal/platform/toutiao"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func main() {
	// .env 是可选的本地便利（token、代理等），不存在不算错。
	_ = godotenv.Load()

	args := os.Args[1:]
	if len(args) == 0 || isHelp(args[0]) {
		printUsage()
		return
	}

	switch args[0] {
	case "search":
		if code := searchCmd(args[1:]); code != 0 {
			os.Exit(code)
		}
	case "results":
		if code := resultsCmd(args[1:]); code != 0 {
			os.Exit(code)
		}
	default:
		fmt.Fprintf(os.Stderr, "未知命令：%q\n\n", args[0])
		printUsage()
		os.Exit(2)
	}
}

func searchCmd(args []string) int {
	for _, a := range args {
		if isHelp(a) {
			printSearchUsage()
			return 0
		}
	}

	sa, err := parseSearchArgs(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "参数错误：%v\n\n", err)
		printSearchUsage()
		return 2
	}

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "读取当前目录失败：%v\n", err)
		return 1
	}

	eff, err := config.LoadEffective(cwd, config.CLIArgs{
		Keyword:      sa.Keyword,
		Platforms:    sa.Platforms,
		PlatformsSet: sa.PlatformsSet,
		Save:         sa.Save,
		SaveSet:      sa.SaveSet,
		OutDir:       sa.OutDir,
		OutDirSet:    sa.OutDirSet,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "配置错误（%s）：%v\n", config.Code(err), err)
		return 1
	}

	client, err := httpx.NewSearchClient(eff.ProxyURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化 HTTP client 失败：%v\n", err)
		return 1
	}

	reg, err := platform.NewRegistry(
		toutiao.Provider{},
		google.Provider{},
		bing.Provider{},
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化 platform registry 失败：%v\n", err)
		return 1
	}

	var obs run.Observer
	if isTTY(os.Stderr) {
		obs = newProgressUI(os.Stderr)
	}

	rep := run.ExecuteWithObserver(context.Background(), eff, run.Deps{
		Registry: reg,
		Client:   client,
	}, obs)

	exitCode := 0
	if eff.Save {
		if path, err := (sink.Store{Dir: eff.OutDir}).WriteReport(rep); err != nil {
			fmt.Fprintf(os.Stderr, "写入报告失败：%v\n", err)
			exitCode = 1
		} else if obs != nil {
			fmt.Fprintf(os.Stderr, "report: %s\n", path)
		}
	}

	// stdout 必须且仅输出一个报告 JSON（过程信息全部走 stderr）。
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(rep)
	return exitCode
}

func resultsCmd(args []string) int {
	if len(args) == 0 || isHelp(args[0]) {
		printResultsUsage()
		if len(args) == 0 {
			return 2
		}
		return 0
	}

	client := artifacts.Client{HTTP: &http.Client{Timeout: 30 * time.Second}}
	ctx := context.Background()

	switch args[0] {
	case "pages":
		if len(args) != 2 {
			fmt.Fprintln(os.Stderr, "用法：newsctl results pages <base-url>")
			return 2
		}
		rep, err := client.LatestFromPages(ctx, args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "拉取 latest 快照失败：%v\n", err)
			return 1
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(rep)
		return 0

	case "list":
		if len(args) != 3 && len(args) != 4 {
			fmt.Fprintln(os.Stderr, "用法：newsctl results list <owner> <repo> [token]")
			return 2
		}
		token := tokenFrom(args, 3)
		list, err := client.ListArtifacts(ctx, args[1], args[2], token)
		if err != nil {
			fmt.Fprintf(os.Stderr, "列出 artifact 失败：%v\n", err)
			return 1
		}
		for _, a := range list {
			fmt.Fprintf(os.Stdout, "%d\t%s\t%d bytes\t%s\texpired=%v\n",
				a.ID, a.Name, a.SizeBytes, a.CreatedAt.Format(time.RFC3339), a.Expired)
		}
		return 0

	case "download":
		if len(args) != 5 {
			fmt.Fprintln(os.Stderr, "用法：newsctl results download <owner> <repo> <artifact-id> <token>")
			return 2
		}
		id, err := strconv.ParseInt(args[3], 10, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "artifact-id 必须是数字：%q\n", args[3])
			return 2
		}
		cwd, err := os.Getwd()
		if err != nil {
			fmt.Fprintf(os.Stderr, "读取当前目录失败：%v\n", err)
			return 1
		}
		path, err := client.DownloadArtifact(ctx, args[1], args[2], id, args[4], cwd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "下载 artifact 失败：%v\n", err)
			return 1
		}
		fmt.Fprintln(os.Stdout, path)
		return 0

	default:
		fmt.Fprintf(os.Stderr, "未知子命令：%q\n\n", args[0])
		printResultsUsage()
		return 2
	}
}

// tokenFrom 读取第 idx 个位置参数, 缺省回落到环境变量 GITHUB_TOKEN。
func tokenFrom(args []string, idx int) string {
	if len(args) > idx {
		return args[idx]
	}
	return strings.TrimSpace(os.Getenv("GITHUB_TOKEN"))
}

type searchArgs struct {
	Keyword string

	Platforms    string
	PlatformsSet bool

	Save    bool
	SaveSet bool

	OutDir    string
	OutDirSet bool
}

func parseSearchArgs(args []string) (searchArgs, error) {
	sa := searchArgs{}

	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "--platforms":
			if i+1 >= len(args) {
				return searchArgs{}, fmt.Errorf("--platforms 需要一个值")
			}
			i++
			sa.Platforms = args[i]
			sa.PlatformsSet = true
		case strings.HasPrefix(a, "--platforms="):
			sa.Platforms = strings.TrimPrefix(a, "--platforms=")
			sa.PlatformsSet = true
		case a == "--save":
			sa.Save = true
			sa.SaveSet = true
		case strings.HasPrefix(a, "--save="):
			v := strings.TrimPrefix(a, "--save=")
			switch v {
			case "true":
				sa.Save = true
			case "false":
				sa.Save = false
			default:
				return searchArgs{}, fmt.Errorf("--save 只能是 true 或 false，实际是 %q", v)
			}
			sa.SaveSet = true
		case a == "--out":
			if i+1 >= len(args) {
				return searchArgs{}, fmt.Errorf("--out 需要一个值")
			}
			i++
			sa.OutDir = args[i]
			sa.OutDirSet = true
		case strings.HasPrefix(a, "--out="):
			sa.OutDir = strings.TrimPrefix(a, "--out=")
			sa.OutDirSet = true
		case strings.HasPrefix(a, "-"):
			return searchArgs{}, fmt.Errorf("未知参数 %q", a)
		default:
			if sa.Keyword != "" {
				return searchArgs{}, fmt.Errorf("重复的 keyword：%q 与 %q", sa.Keyword, a)
			}
			sa.Keyword = a
		}
	}

	if strings.TrimSpace(sa.Keyword) == "" {
		return searchArgs{}, fmt.Errorf("keyword 不能为空")
	}
	return sa, nil
}

func isHelp(s string) bool {
	return s == "-h" || s == "--help" || s == "help"
}

func printUsage() {
	fmt.Fprint(os.Stdout, `用法：
  newsctl search <keyword> [--platforms toutiao,google,bing] [--save[=true|false]] [--out DIR]
  newsctl results pages <base-url>
  newsctl results list <owner> <repo> [token]
  newsctl results download <owner> <repo> <artifact-id> <token>

命令：
  search   按关键词跑一轮全平台新闻搜索，stdout 输出聚合报告 JSON
  results  读取已发布的历史报告（Pages 快照 / Actions artifact）

使用 "newsctl search --help" 查看详细说明。
`)
}

func printSearchUsage() {
	fmt.Fprint(os.Stdout, `用法：
  newsctl search <keyword> [--platforms toutiao,google,bing] [--save[=true|false]] [--out DIR]

参数：
  --platforms  逗号分隔的平台列表（未指定则读配置文件；最终默认全部平台）
  --save       是否落盘报告文件（默认 true）；支持 --save=false 覆盖配置中的 save=true
  --out        报告落盘目录（默认 results/）
  -h, --help   显示帮助
`)
}

func printResultsUsage() {
	fmt.Fprint(os.Stdout, `用法：
  newsctl results pages <base-url>                            拉取 Pages 上的 latest 快照
  newsctl results list <owner> <repo> [token]                 列出 Actions artifact
  newsctl results download <owner> <repo> <artifact-id> <token>  下载 artifact zip 到当前目录
`)
}

func isTTY(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
