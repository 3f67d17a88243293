package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/John-Robertt/panelsdl/internal/app/run"
	"github.com/John-Robertt/panelsdl/internal/config"
	"github.com/John-Robertt/panelsdl/internal/domain"
	"github.com/John-Robertt/panelsdl/internal/manifest"
)

func main() {
	for _, a := range os.Args[1:] {
		if isHelp(a) {
			printUsage()
			return
		}
		fmt.Fprintf(os.Stderr, "未知参数：%q\n\n", a)
		printUsage()
		os.Exit(2)
	}

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "读取当前目录失败：%v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	code := runCmd(ctx, cwd, stdio{
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		stdoutTTY: isTTY(os.Stdout),
		stderrTTY: isTTY(os.Stderr),
	})
	if code != 0 {
		stop()
		os.Exit(code)
	}
}

// stdio 把输出目标与 TTY 判定从 os.* 中剥离出来，便于在进程内测试。
type stdio struct {
	stdout    io.Writer
	stderr    io.Writer
	stdoutTTY bool
	stderrTTY bool
}

func runCmd(ctx context.Context, cwd string, s stdio) int {
	eff, err := config.LoadEffective(cwd)
	if err != nil {
		fmt.Fprintf(s.stderr, "配置错误（%s）：%v\n", config.Code(err), err)
		return 1
	}

	var obs run.Observer
	if s.stderrTTY {
		obs = newLineUI(s.stderr)
	}

	rr, err := run.ExecuteWithObserver(ctx, eff, obs)
	if err != nil {
		var re *run.Error
		if errors.As(err, &re) {
			fmt.Fprintf(s.stderr, "运行失败（stage=%s）：%v\n", re.Stage, re.Err)
		} else {
			fmt.Fprintf(s.stderr, "运行失败：%v\n", err)
		}
		return 1
	}

	emitReport(s, rr)
	return 0
}

func emitReport(s stdio, rr domain.RunReport) {
	if s.stdoutTTY {
		fmt.Fprintln(s.stdout, summaryLine(rr))
		for _, l := range rr.Lanes {
			for _, it := range l.Items {
				if it.Status != domain.StatusSkipped {
					continue
				}
				fmt.Fprintf(s.stderr, "%s %s: %s\n", it.ID, it.ErrorCode, it.ErrorMsg)
			}
		}
		return
	}

	// stdout 非 TTY：stdout 只输出一个 RunReport JSON，摘要走 stderr。
	enc := json.NewEncoder(s.stdout)
	_ = enc.Encode(rr)
	fmt.Fprintln(s.stderr, summaryLine(rr))
}

func summaryLine(rr domain.RunReport) string {
	return fmt.Sprintf("完成：downloaded=%d skipped=%d workers=%d dir=%s",
		rr.Summary.Downloaded, rr.Summary.Skipped, rr.Workers, rr.Dir,
	)
}

func isHelp(s string) bool {
	return s == "-h" || s == "--help" || s == "help"
}

func printUsage() {
	fmt.Fprintf(os.Stdout, `用法：
  panelsdl

从 {panels_domain}%s 拉取 manifest，并发下载全部壁纸到 download_directory。

配置（可选）：当前目录下的 %s
  panels_domain:      默认 %s
  download_directory: 默认 %s（相对当前目录）
  workers:            默认 %d（小于 1 时按 1 处理）
`, manifest.APIPath, config.FileName, config.DefaultPanelsDomain, config.DefaultDownloadDir, config.DefaultWorkers)
}

func isTTY(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
