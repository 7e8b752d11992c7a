package cache

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/oellm/hfcache/internal/naming"
)

// Stats 汇总模型与数据集两个库的磁盘占用，供 status 命令展示。
type Stats struct {
	HubBytes      int64
	DatasetsBytes int64
}

// Total 返回两个库的合计字节数。
func (s Stats) Total() int64 {
	return s.HubBytes + s.DatasetsBytes
}

// CollectStats 分别统计 hub 与 datasets 库的递归大小。
func CollectStats(root *Root) (Stats, error) {
	hub, err := TotalBytes(root.Hub)
	if err != nil {
		return Stats{}, err
	}
	datasets, err := TotalBytes(root.Datasets)
	if err != nil {
		return Stats{}, err
	}
	return Stats{HubBytes: hub, DatasetsBytes: datasets}, nil
}

// CachedArtifact 描述一个已缓存条目：解码后的逻辑名与占用大小。
type CachedArtifact struct {
	Name      string
	Path      string
	SizeBytes int64
}

// ListCachedModels 按字典序列出 hub 库中的模型快照目录。
func ListCachedModels(root *Root) ([]CachedArtifact, error) {
	entries, err := os.ReadDir(root.Hub)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var out []CachedArtifact
	for _, e := range entries {
		if !e.IsDir() || !naming.IsModelDir(e.Name()) {
			continue
		}
		path := filepath.Join(root.Hub, e.Name())
		size, err := TotalBytes(path)
		if err != nil {
			return nil, err
		}
		out = append(out, CachedArtifact{
			Name:      naming.DecodeModel(e.Name()),
			Path:      path,
			SizeBytes: size,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// ListCachedDatasets 列出数据集库顶层目录，跳过隐藏条目。
func ListCachedDatasets(root *Root) ([]CachedArtifact, error) {
	entries, err := os.ReadDir(root.Datasets)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var out []CachedArtifact
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		path := filepath.Join(root.Datasets, e.Name())
		size, err := TotalBytes(path)
		if err != nil {
			return nil, err
		}
		out = append(out, CachedArtifact{
			Name:      naming.DecodeDataset(e.Name()),
			Path:      path,
			SizeBytes: size,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}
