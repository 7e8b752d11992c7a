package integration

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/oellm/hfcache/internal/cache"
	"github.com/oellm/hfcache/internal/config"
	"github.com/oellm/hfcache/internal/fetch"
	"github.com/oellm/hfcache/internal/hubenv"
	"github.com/oellm/hfcache/internal/ingest"
)

// newStubDownloader 生成一个记录全部调用参数的下载器脚本，
// 第一个位置参数匹配 failName 时以非零码退出。
func newStubDownloader(t *testing.T, failName string) (bin, callLog string) {
	t.Helper()
	dir := t.TempDir()
	callLog = filepath.Join(dir, "calls.log")
	bin = filepath.Join(dir, "hf-stub")

	script := "#!/bin/sh\n" +
		"echo \"$@\" >> " + callLog + "\n" +
		"if [ \"$2\" = \"" + failName + "\" ]; then exit 1; fi\n" +
		"exit 0\n"
	if err := os.WriteFile(bin, []byte(script), 0o755); err != nil {
		t.Fatalf("写入下载器脚本失败: %v", err)
	}
	return bin, callLog
}

func readCalls(t *testing.T, callLog string) []string {
	t.Helper()
	data, err := os.ReadFile(callLog)
	if err != nil {
		t.Fatalf("读取调用记录失败: %v", err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func TestBatchIngestionThroughStubDownloader(t *testing.T) {
	bin, callLog := newStubDownloader(t, "org/bad")

	root, err := cache.Open(filepath.Join(t.TempDir(), "hf_data"), func(string) string { return "" }, config.DefaultRootTemplate, nil)
	if err != nil {
		t.Fatalf("初始化缓存根失败: %v", err)
	}

	cfg := &config.Config{
		DownloaderBin:  bin,
		MaxRetries:     1,
		InitialBackoff: config.Duration(time.Millisecond),
	}

	logger, hook := logtest.NewNullLogger()
	fetcher := fetch.NewExecFetcher(cfg, root, hubenv.New(root, false), logger)

	manifest := filepath.Join(t.TempDir(), "manifest.txt")
	content := strings.Join([]string{
		"# eval assets",
		"org/good-model",
		"dataset:cais/mmlu,all,test",
		"org/bad",
	}, "\n")
	if err := os.WriteFile(manifest, []byte(content), 0o644); err != nil {
		t.Fatalf("写入清单失败: %v", err)
	}

	ctrl := &ingest.Controller{
		Models:   fetcher,
		Datasets: fetcher,
		Logger:   logger,
		Token:    "hf_test_token",
		Revision: "main",
	}

	tally, err := ctrl.Ingest(context.Background(), manifest)
	if err != nil {
		t.Fatalf("批处理不应整体失败: %v", err)
	}
	if tally.Successes != 2 || tally.Failures != 1 {
		t.Fatalf("计数不符: %+v", tally)
	}

	// 失败条目按配置重试了一次，成功条目各调用一次。
	calls := readCalls(t, callLog)
	if len(calls) != 4 {
		t.Fatalf("调用次数不符: %v", calls)
	}
	if !strings.Contains(calls[0], "download org/good-model --revision main --cache-dir "+root.Hub) {
		t.Fatalf("模型下载参数不符: %s", calls[0])
	}
	if !strings.Contains(calls[1], "--repo-type dataset") ||
		!strings.Contains(calls[1], "--cache-dir "+root.Datasets) ||
		!strings.Contains(calls[1], "--config all --split test") {
		t.Fatalf("数据集下载参数不符: %s", calls[1])
	}

	// 批末汇总日志携带最终计数。
	var summary *logrus.Entry
	for _, e := range hook.AllEntries() {
		if e.Data["action"] == "batch_complete" {
			summary = e
		}
	}
	if summary == nil {
		t.Fatal("缺少 batch_complete 日志")
	}
	if summary.Data["successes"] != 2 || summary.Data["failures"] != 1 {
		t.Fatalf("汇总日志计数不符: %v", summary.Data)
	}
	if summary.Data["batch_id"] == "" {
		t.Fatal("汇总日志应携带 batch_id")
	}
}

func TestFetcherInjectsCacheEnvironment(t *testing.T) {
	dir := t.TempDir()
	envLog := filepath.Join(dir, "env.log")
	bin := filepath.Join(dir, "hf-stub")
	script := "#!/bin/sh\n" +
		"env | grep -E '^(HF_|TRANSFORMERS_)' | sort > " + envLog + "\n" +
		"exit 0\n"
	if err := os.WriteFile(bin, []byte(script), 0o755); err != nil {
		t.Fatalf("写入下载器脚本失败: %v", err)
	}

	root, err := cache.Open(filepath.Join(dir, "hf_data"), func(string) string { return "" }, config.DefaultRootTemplate, nil)
	if err != nil {
		t.Fatalf("初始化缓存根失败: %v", err)
	}

	cfg := &config.Config{DownloaderBin: bin, InitialBackoff: config.Duration(time.Millisecond)}
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	fetcher := fetch.NewExecFetcher(cfg, root, hubenv.New(root, false), logger)

	err = fetcher.FetchModel(context.Background(), fetch.ModelRequest{Name: "org/m", Token: "hf_abc"})
	if err != nil {
		t.Fatalf("下载失败: %v", err)
	}

	data, err := os.ReadFile(envLog)
	if err != nil {
		t.Fatalf("读取环境记录失败: %v", err)
	}
	text := string(data)
	for _, want := range []string{
		"HF_HOME=" + root.Home,
		"HF_HUB_CACHE=" + root.Hub,
		"HF_DATASETS_CACHE=" + root.Datasets,
		"HF_TOKEN=hf_abc",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("子进程环境缺少 %s:\n%s", want, text)
		}
	}
	// 登录节点在线下载，不应设置离线开关。
	if strings.Contains(text, "HF_HUB_OFFLINE=") {
		t.Fatalf("在线模式不应注入离线开关:\n%s", text)
	}
}
