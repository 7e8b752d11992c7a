package cache

import (
	"os"
	"path/filepath"
	"testing"
)

// newTestRoot 在临时目录上构建并初始化一个缓存根，测试结束自动回收。
func newTestRoot(t *testing.T) *Root {
	t.Helper()
	root, err := NewRoot(t.TempDir())
	if err != nil {
		t.Fatalf("构建缓存根失败: %v", err)
	}
	if err := root.Init(); err != nil {
		t.Fatalf("初始化缓存根失败: %v", err)
	}
	return root
}

// writeFile 创建含指定内容的文件，父目录不存在时一并创建。
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("创建目录失败: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("写入文件失败: %v", err)
	}
}

// envLookup 返回基于 map 的环境变量查询函数，避免测试污染真实环境。
func envLookup(env map[string]string) func(string) string {
	return func(key string) string { return env[key] }
}
