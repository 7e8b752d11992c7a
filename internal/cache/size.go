package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
)

// TotalBytes 递归累加目录下所有普通文件的大小。目录不存在返回 0 而非
// 错误；符号链接等非普通条目按 0 计，且不会被跟随，避免循环重复计数。
func TotalBytes(dir string) (int64, error) {
	var total int64
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			// 文件在遍历过程中被移除，跳过即可。
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		total += info.Size()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("accumulate size: %w", err)
	}
	return total, nil
}

var byteUnits = []string{"B", "KB", "MB", "GB", "TB"}

// HumanBytes 以 1024 进制逐级换算并保留一位小数，单位用尽时落在 PB。
func HumanBytes(n int64) string {
	value := float64(n)
	for _, unit := range byteUnits {
		if value < 1024 {
			return fmt.Sprintf("%.1f %s", value, unit)
		}
		value /= 1024
	}
	return fmt.Sprintf("%.1f PB", value)
}
