package naming

import "strings"

const (
	// ModelPrefix 是模型快照目录的固定前缀，例如 models--Qwen--Qwen2.5-0.5B。
	ModelPrefix = "models--"

	// MisplacedDatasetPrefix 标记被错误写入模型快照库的数据集目录，
	// 通常由上一次 cache_dir 配置错误的传输产生。
	MisplacedDatasetPrefix = "datasets--"

	modelSeparator   = "--"
	datasetSeparator = "___"
)

// EncodeModel 将 org/name 形式的模型标识编码为快照目录名。
// 编码是纯字符替换，不校验标识是否指向真实存在的模型。
func EncodeModel(id string) string {
	return ModelPrefix + strings.ReplaceAll(id, "/", modelSeparator)
}

// EncodeDataset 将数据集标识编码为 datasets 库下的目录名（无前缀）。
func EncodeDataset(id string) string {
	return strings.ReplaceAll(id, "/", datasetSeparator)
}

// DecodeModel 将快照目录名还原为逻辑标识，仅用于展示。
// 若原始 namespace/name 自身包含 "--"，解码结果有损且无法与分隔符区分；
// 需要精确往返的调用方应自行保留原始标识，而非依赖本函数。
func DecodeModel(encoded string) string {
	return strings.ReplaceAll(strings.TrimPrefix(encoded, ModelPrefix), modelSeparator, "/")
}

// DecodeDataset 将数据集目录名还原为逻辑标识，仅用于展示。
func DecodeDataset(encoded string) string {
	return strings.ReplaceAll(encoded, datasetSeparator, "/")
}

// IsModelDir 判断目录名是否属于模型快照编码族。
func IsModelDir(name string) bool {
	return strings.HasPrefix(name, ModelPrefix)
}

// IsMisplacedDatasetDir 判断模型快照库下的条目是否误用了数据集前缀约定。
func IsMisplacedDatasetDir(name string) bool {
	return strings.HasPrefix(name, MisplacedDatasetPrefix)
}
