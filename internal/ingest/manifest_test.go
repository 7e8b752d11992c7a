package ingest

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseManifestSkipsCommentsAndBlanks(t *testing.T) {
	input := `
# Models
Qwen/Qwen2.5-0.5B

# Datasets
dataset:hellaswag
dataset:cais/mmlu,all
dataset:trl-lib/Capybara,,train
`
	entries, err := ParseManifest(strings.NewReader(input))
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}

	want := []Entry{
		{Kind: KindModel, Name: "Qwen/Qwen2.5-0.5B"},
		{Kind: KindDataset, Name: "hellaswag"},
		{Kind: KindDataset, Name: "cais/mmlu", Config: "all"},
		{Kind: KindDataset, Name: "trl-lib/Capybara", Split: "train"},
	}
	if !reflect.DeepEqual(entries, want) {
		t.Fatalf("解析结果不符:\n%v\n%v", entries, want)
	}
}

func TestParseManifestEmptyTrailingFieldsUnspecified(t *testing.T) {
	entries, err := ParseManifest(strings.NewReader("dataset:org/ds, , "))
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if entries[0].Config != "" || entries[0].Split != "" {
		t.Fatalf("空尾字段应视为未指定: %+v", entries[0])
	}
}

func TestParseManifestEmptyInput(t *testing.T) {
	entries, err := ParseManifest(strings.NewReader("# only comments\n\n"))
	if err != nil {
		t.Fatalf("解析失败: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("纯注释清单应为空: %v", entries)
	}
}

func TestDescribeRoundTrip(t *testing.T) {
	cases := []struct {
		entry Entry
		want  string
	}{
		{Entry{Kind: KindModel, Name: "org/m"}, "org/m"},
		{Entry{Kind: KindDataset, Name: "hellaswag"}, "hellaswag"},
		{Entry{Kind: KindDataset, Name: "cais/mmlu", Config: "all"}, "cais/mmlu,all"},
		{Entry{Kind: KindDataset, Name: "trl-lib/Capybara", Split: "train"}, "trl-lib/Capybara,,train"},
		{Entry{Kind: KindDataset, Name: "a/b", Config: "c", Split: "test"}, "a/b,c,test"},
	}
	for _, c := range cases {
		if got := c.entry.Describe(); got != c.want {
			t.Fatalf("Describe(%+v) = %s，期望 %s", c.entry, got, c.want)
		}
	}
}
