package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// useBufferWriters 把命令输出重定向到内存缓冲，测试结束后恢复。
func useBufferWriters(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	outBuf, errBuf := &bytes.Buffer{}, &bytes.Buffer{}
	origOut, origErr := stdOut, stdErr
	stdOut, stdErr = outBuf, errBuf
	t.Cleanup(func() {
		stdOut, stdErr = origOut, origErr
	})
	return outBuf, errBuf
}

// writeTestConfig 生成把日志写入临时文件的配置，避免污染测试输出；
// extra 以 TOML 行的形式追加。
func writeTestConfig(t *testing.T, extra ...string) string {
	t.Helper()
	dir := t.TempDir()
	content := fmt.Sprintf("LogLevel = \"debug\"\nLogFilePath = %q\n", filepath.Join(dir, "hfcache.log"))
	for _, line := range extra {
		content += line + "\n"
	}
	path := filepath.Join(dir, "hfcache.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("写入测试配置失败: %v", err)
	}
	return path
}

// newCacheHome 创建临时缓存根并让 HF_HOME 指向它。
func newCacheHome(t *testing.T) string {
	t.Helper()
	home := filepath.Join(t.TempDir(), "hf_data")
	t.Setenv("HF_HOME", home)
	return home
}

// seedFile 写入带父目录的测试文件。
func seedFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("创建目录失败: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("写入文件失败: %v", err)
	}
}
