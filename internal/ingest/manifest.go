// Package ingest parses artifact manifests and drives batch ingestion:
// every non-comment line is classified as a model or dataset entry and
// dispatched to the injected fetch capabilities, with per-entry failures
// accumulated into a tally instead of aborting the batch.
package ingest

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const (
	datasetMarker = "dataset:"
	commentPrefix = "#"
)

// EntryKind 区分清单条目的两种类型。
type EntryKind string

const (
	KindModel   EntryKind = "model"
	KindDataset EntryKind = "dataset"
)

// Entry 是清单中的一条记录，仅在批处理期间存在。
type Entry struct {
	Kind   EntryKind
	Name   string
	Config string
	Split  string
}

// ParseManifest 逐行解析清单：空行与 # 注释跳过；dataset: 前缀行按
// name[,config[,split]] 拆分，空尾字段视为未指定而非空字符串；其余
// 非空行一律按模型标识处理。
func ParseManifest(r io.Reader) ([]Entry, error) {
	scanner := bufio.NewScanner(r)
	var entries []Entry
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, commentPrefix) {
			continue
		}
		if strings.HasPrefix(line, datasetMarker) {
			entries = append(entries, parseDatasetLine(line))
			continue
		}
		entries = append(entries, Entry{Kind: KindModel, Name: line})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return entries, nil
}

func parseDatasetLine(line string) Entry {
	parts := strings.Split(strings.TrimPrefix(line, datasetMarker), ",")
	entry := Entry{Kind: KindDataset, Name: strings.TrimSpace(parts[0])}
	if len(parts) > 1 {
		entry.Config = strings.TrimSpace(parts[1])
	}
	if len(parts) > 2 {
		entry.Split = strings.TrimSpace(parts[2])
	}
	return entry
}

// Describe 还原条目在清单中的紧凑写法，供 dry-run 列表展示。
func (e Entry) Describe() string {
	if e.Kind != KindDataset {
		return e.Name
	}
	desc := e.Name
	if e.Split != "" {
		return desc + "," + e.Config + "," + e.Split
	}
	if e.Config != "" {
		return desc + "," + e.Config
	}
	return desc
}
