package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Clean 先扫描再清理；dryRun 模式只回报动作、不触碰磁盘，返回值仍计入
// 本应清理的条目数。实际清理后再次调用返回 0，即幂等；无事可做是成功
// 而非错误。onItem 在每个条目被处理（或将被处理）时回调，用于 CLI 输出。
func Clean(root *Root, dryRun bool, onItem func(StaleArtifact)) (int, error) {
	artifacts, err := Scan(root)
	if err != nil {
		return 0, err
	}

	cleaned := 0
	for _, artifact := range artifacts {
		if onItem != nil {
			onItem(artifact)
		}
		if !dryRun {
			if err := remove(artifact); err != nil {
				return cleaned, fmt.Errorf("remove %s: %w", artifact.Path, err)
			}
		}
		cleaned++
	}
	return cleaned, nil
}

// remove 对锁文件/未完成传输做单文件删除，错位数据集做递归删除。
// 条目在扫描与删除之间消失不视为错误。
func remove(artifact StaleArtifact) error {
	var err error
	if artifact.Kind == KindMisplacedDataset {
		err = os.RemoveAll(artifact.Path)
	} else {
		err = os.Remove(artifact.Path)
	}
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
