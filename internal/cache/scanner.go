package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/oellm/hfcache/internal/naming"
)

// StaleKind 区分三类陈旧产物，CleanupEngine 据此选择删除方式。
type StaleKind string

const (
	// KindLockFile 是外部下载库遗留的 *.lock 文件。本系统从不持有锁，
	// 只负责探测并清理它们。
	KindLockFile StaleKind = "lock"
	// KindIncomplete 是被中断传输留下的 *.incomplete 半成品文件。
	KindIncomplete StaleKind = "incomplete"
	// KindMisplacedDataset 是误入模型快照库的 datasets-- 目录，
	// 由此前 cache_dir 配置错误的传输产生。
	KindMisplacedDataset StaleKind = "misplaced_dataset"
)

const (
	lockSuffix       = ".lock"
	incompleteSuffix = ".incomplete"
)

// StaleArtifact 标记一个待清理条目，生命周期不超过一次扫描-清理循环。
type StaleArtifact struct {
	Kind StaleKind
	Path string
}

// Scan 只读扫描三类陈旧产物：全缓存范围的锁文件、模型快照库内的
// 未完成传输、模型快照库顶层的错位数据集目录。三趟互相独立，各自
// 保持字典序，可安全重复调用。
func Scan(root *Root) ([]StaleArtifact, error) {
	var out []StaleArtifact

	locks, err := suffixWalk(root.Home, lockSuffix)
	if err != nil {
		return nil, fmt.Errorf("scan lock files: %w", err)
	}
	for _, p := range locks {
		out = append(out, StaleArtifact{Kind: KindLockFile, Path: p})
	}

	incompletes, err := suffixWalk(root.Hub, incompleteSuffix)
	if err != nil {
		return nil, fmt.Errorf("scan incomplete transfers: %w", err)
	}
	for _, p := range incompletes {
		out = append(out, StaleArtifact{Kind: KindIncomplete, Path: p})
	}

	misplaced, err := misplacedDatasets(root.Hub)
	if err != nil {
		return nil, fmt.Errorf("scan misplaced datasets: %w", err)
	}
	out = append(out, misplaced...)

	return out, nil
}

// suffixWalk 按字典序收集 dir 下所有匹配后缀的普通文件；目录缺失视为空。
func suffixWalk(dir, suffix string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.Type().IsRegular() && strings.HasSuffix(d.Name(), suffix) {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// misplacedDatasets 只看 hub 库顶层条目，深层目录不可能由错误配置产生。
func misplacedDatasets(hubDir string) ([]StaleArtifact, error) {
	entries, err := os.ReadDir(hubDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if naming.IsMisplacedDatasetDir(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	out := make([]StaleArtifact, 0, len(names))
	for _, name := range names {
		out = append(out, StaleArtifact{Kind: KindMisplacedDataset, Path: filepath.Join(hubDir, name)})
	}
	return out, nil
}
