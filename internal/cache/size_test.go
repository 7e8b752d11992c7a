package cache

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestTotalBytesMissingDirIsZero(t *testing.T) {
	total, err := TotalBytes(filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatalf("缺失目录不应报错: %v", err)
	}
	if total != 0 {
		t.Fatalf("缺失目录应为 0 字节，得到 %d", total)
	}
}

func TestTotalBytesSumsRegularFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.bin"), strings.Repeat("x", 10))
	writeFile(t, filepath.Join(dir, "sub", "b.bin"), strings.Repeat("y", 20))
	writeFile(t, filepath.Join(dir, "sub", "deep", "c.bin"), strings.Repeat("z", 30))

	total, err := TotalBytes(dir)
	if err != nil {
		t.Fatalf("统计失败: %v", err)
	}
	if total != 60 {
		t.Fatalf("期望 60 字节，得到 %d", total)
	}
}

func TestHumanBytes(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0.0 B"},
		{60, "60.0 B"},
		{1023, "1023.0 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1024 * 1024, "1.0 MB"},
		{5 * 1024 * 1024 * 1024, "5.0 GB"},
		{2 * 1024 * 1024 * 1024 * 1024, "2.0 TB"},
		{3 * 1024 * 1024 * 1024 * 1024 * 1024, "3.0 PB"},
	}
	for _, c := range cases {
		if got := HumanBytes(c.in); got != c.want {
			t.Fatalf("HumanBytes(%d) = %s，期望 %s", c.in, got, c.want)
		}
	}
}
