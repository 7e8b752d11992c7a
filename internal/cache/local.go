package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrDirectoryNotFound 表示 list-local 的目录参数不存在。
var ErrDirectoryNotFound = errors.New("directory not found")

// ListLocalModels 在 dir 下递归查找包含 safetensors 权重的模型目录，
// 常用于发现用户自己微调的 checkpoint。返回去重后的父目录列表，顺序
// 与权重文件的字典序一致。
func ListLocalModels(dir string) ([]string, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDirectoryNotFound, dir)
	}

	var found []string
	seen := make(map[string]struct{})
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.Type().IsRegular() || !strings.HasSuffix(d.Name(), ".safetensors") {
			return nil
		}
		parent := filepath.Dir(path)
		if _, ok := seen[parent]; !ok {
			seen[parent] = struct{}{}
			found = append(found, parent)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list local models: %w", err)
	}
	return found, nil
}
