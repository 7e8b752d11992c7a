package cache

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestCollectStats(t *testing.T) {
	root := newTestRoot(t)
	writeFile(t, filepath.Join(root.Hub, "models--org--m", "snapshots", "a", "w.bin"), strings.Repeat("x", 100))
	writeFile(t, filepath.Join(root.Datasets, "org___ds", "train.arrow"), strings.Repeat("y", 50))

	stats, err := CollectStats(root)
	if err != nil {
		t.Fatalf("统计失败: %v", err)
	}
	if stats.HubBytes != 100 || stats.DatasetsBytes != 50 || stats.Total() != 150 {
		t.Fatalf("统计数字不符: %+v", stats)
	}
}

func TestListCachedModelsDecodesNames(t *testing.T) {
	root := newTestRoot(t)
	writeFile(t, filepath.Join(root.Hub, "models--Qwen--Qwen2.5-0.5B", "snapshots", "a", "w.bin"), "xx")
	writeFile(t, filepath.Join(root.Hub, "models--org--model", "snapshots", "b", "w.bin"), "yyy")
	// 非模型前缀的目录应被跳过。
	writeFile(t, filepath.Join(root.Hub, "datasets--stray", "f"), "z")

	models, err := ListCachedModels(root)
	if err != nil {
		t.Fatalf("列举失败: %v", err)
	}
	if len(models) != 2 {
		t.Fatalf("应列出 2 个模型，得到 %d", len(models))
	}
	if models[0].Name != "Qwen/Qwen2.5-0.5B" || models[0].SizeBytes != 2 {
		t.Fatalf("首个模型条目不符: %+v", models[0])
	}
	if models[1].Name != "org/model" || models[1].SizeBytes != 3 {
		t.Fatalf("次个模型条目不符: %+v", models[1])
	}
}

func TestListCachedDatasetsSkipsHidden(t *testing.T) {
	root := newTestRoot(t)
	writeFile(t, filepath.Join(root.Datasets, "cais___mmlu", "train.arrow"), "data")
	writeFile(t, filepath.Join(root.Datasets, ".locks", "x"), "lockdata")

	datasets, err := ListCachedDatasets(root)
	if err != nil {
		t.Fatalf("列举失败: %v", err)
	}
	if len(datasets) != 1 {
		t.Fatalf("隐藏目录应被跳过，得到 %d 项", len(datasets))
	}
	if datasets[0].Name != "cais/mmlu" {
		t.Fatalf("数据集名称解码不符: %s", datasets[0].Name)
	}
}

func TestListOnMissingStoresReturnsEmpty(t *testing.T) {
	root, err := NewRoot(filepath.Join(t.TempDir(), "never-initialised"))
	if err != nil {
		t.Fatalf("构建失败: %v", err)
	}
	models, err := ListCachedModels(root)
	if err != nil || models != nil {
		t.Fatalf("缺失 hub 库应返回空: %v %v", models, err)
	}
	datasets, err := ListCachedDatasets(root)
	if err != nil || datasets != nil {
		t.Fatalf("缺失数据集库应返回空: %v %v", datasets, err)
	}
}
