// Package fetch defines the narrow transfer capabilities the cache manager
// delegates to: downloading a model snapshot or a dataset into the shared
// cache. The actual byte transfer is an external concern — the bundled
// implementation shells out to a downloader CLI with the cache environment
// installed on the child process — and the interfaces keep batch ingestion
// testable with in-memory fakes.
package fetch

import (
	"context"
	"fmt"
)

// ModelRequest 描述一次模型快照下载。
type ModelRequest struct {
	Name           string
	Revision       string
	IgnorePatterns []string
	Token          string
}

// DatasetRequest 描述一次数据集下载，Config/Split 为空表示未指定。
type DatasetRequest struct {
	Name            string
	Config          string
	Split           string
	TrustRemoteCode bool
	Token           string
}

// ModelFetcher 下载模型快照到共享 hub 库。
type ModelFetcher interface {
	FetchModel(ctx context.Context, req ModelRequest) error
}

// DatasetFetcher 下载数据集到共享数据集库。
type DatasetFetcher interface {
	FetchDataset(ctx context.Context, req DatasetRequest) error
}

// TransferError 表示外部传输能力失败。批处理捕获后计入失败数而不中断；
// 单条下载命令则据此返回非零退出码。
type TransferError struct {
	Kind string // "model" 或 "dataset"
	Name string
	Err  error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("fetch %s %s: %v", e.Kind, e.Name, e.Err)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}
