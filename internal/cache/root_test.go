package cache

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/oellm/hfcache/internal/config"
)

func TestResolveRootPriority(t *testing.T) {
	lookup := envLookup(map[string]string{
		"HF_HOME":       "/env/hf_data",
		"USER":          "alice",
		"SLURM_ACCOUNT": "proj01",
	})

	got, err := ResolveRoot("/explicit/hf_data", lookup, config.DefaultRootTemplate)
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if got != "/explicit/hf_data" {
		t.Fatalf("显式参数应优先，得到 %s", got)
	}

	got, err = ResolveRoot("", lookup, config.DefaultRootTemplate)
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if got != "/env/hf_data" {
		t.Fatalf("HF_HOME 应次优先，得到 %s", got)
	}
}

func TestResolveRootTemplate(t *testing.T) {
	lookup := envLookup(map[string]string{
		"USER":    "alice",
		"ACCOUNT": "proj01",
	})
	got, err := ResolveRoot("", lookup, config.DefaultRootTemplate)
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	want := "/leonardo_work/proj01/users/alice/oellm-evals/hf_data"
	if got != want {
		t.Fatalf("模板展开不符: 期望 %s 得到 %s", want, got)
	}
}

func TestResolveRootSlurmAccountFallback(t *testing.T) {
	lookup := envLookup(map[string]string{
		"USER":          "bob",
		"SLURM_ACCOUNT": "proj02",
	})
	got, err := ResolveRoot("", lookup, config.DefaultRootTemplate)
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if got != "/leonardo_work/proj02/users/bob/oellm-evals/hf_data" {
		t.Fatalf("SLURM_ACCOUNT 回退失败: %s", got)
	}
}

func TestResolveRootMissingAccount(t *testing.T) {
	lookup := envLookup(map[string]string{"USER": "alice"})
	_, err := ResolveRoot("", lookup, config.DefaultRootTemplate)
	var cfgErr config.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("缺少账号时应返回 ConfigError，得到 %v", err)
	}
}

func TestInitCreatesLayoutIdempotently(t *testing.T) {
	root := newTestRoot(t)
	for _, dir := range []string{root.Home, root.Hub, root.Datasets, root.Assets, root.Xet} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("目录 %s 应已创建: %v", dir, err)
		}
	}
	// 重复初始化不应报错。
	if err := root.Init(); err != nil {
		t.Fatalf("幂等初始化失败: %v", err)
	}
}

func TestOpenResolvesAndInitialises(t *testing.T) {
	home := filepath.Join(t.TempDir(), "hf_data")
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	root, err := Open("", envLookup(map[string]string{"HF_HOME": home}), config.DefaultRootTemplate, logger)
	if err != nil {
		t.Fatalf("Open 失败: %v", err)
	}
	if root.Home != home {
		t.Fatalf("根目录不符: %s", root.Home)
	}
	if _, err := os.Stat(root.Xet); err != nil {
		t.Fatalf("xet 子目录未创建: %v", err)
	}
}
