package cache

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/oellm/hfcache/internal/naming"
)

// 检查项名称，CheckReport.Check 取值于此。
const (
	CheckModel   = "model"
	CheckDataset = "dataset"
)

// 可识别的权重文件格式，本地目录只要含其一即视为可用。
var weightSuffixes = []string{".safetensors", ".bin"}

// CheckReport 记录单项检查的结果，失败时附带补救命令，供 CLI 诊断输出。
type CheckReport struct {
	Check  string
	Ready  bool
	Detail string
	Remedy string
}

// VerifyOfflineReady 判断模型（以及可选的数据集）能否在离线模式下加载。
// 各检查独立出报告，最终结果是全部检查的逻辑与；不加载任何模型数据。
func VerifyOfflineReady(root *Root, model, dataset string) (bool, []CheckReport) {
	reports := []CheckReport{checkModel(root, model)}
	if dataset != "" {
		reports = append(reports, checkDataset(root, dataset))
	}

	ready := true
	for _, r := range reports {
		ready = ready && r.Ready
	}
	return ready, reports
}

// checkModel 优先把标识当作本地路径；不存在时按缓存标识编码后查快照库。
func checkModel(root *Root, model string) CheckReport {
	if info, err := os.Stat(model); err == nil {
		if info.IsDir() && hasWeightFile(model) {
			return CheckReport{Check: CheckModel, Ready: true,
				Detail: fmt.Sprintf("本地模型可用: %s", model)}
		}
		return CheckReport{Check: CheckModel, Ready: false,
			Detail: fmt.Sprintf("本地路径存在但没有权重文件: %s", model)}
	}

	cached := filepath.Join(root.Hub, naming.EncodeModel(model))
	if _, err := os.Stat(cached); err != nil {
		return CheckReport{Check: CheckModel, Ready: false,
			Detail: fmt.Sprintf("模型未缓存: %s", model),
			Remedy: "hfcache download-model " + model}
	}

	snaps, err := os.ReadDir(filepath.Join(cached, "snapshots"))
	if err != nil || len(snaps) == 0 {
		return CheckReport{Check: CheckModel, Ready: false,
			Detail: fmt.Sprintf("缓存目录存在但没有快照: %s", cached),
			Remedy: "hfcache download-model " + model}
	}
	return CheckReport{Check: CheckModel, Ready: true,
		Detail: fmt.Sprintf("模型已缓存: %s（%d 个快照）", model, len(snaps))}
}

// checkDataset 用前缀匹配容忍外部库追加的 config/split 后缀。
func checkDataset(root *Root, dataset string) CheckReport {
	prefix := naming.EncodeDataset(dataset)
	entries, err := os.ReadDir(root.Datasets)
	if err == nil {
		for _, e := range entries {
			if strings.HasPrefix(e.Name(), prefix) {
				return CheckReport{Check: CheckDataset, Ready: true,
					Detail: fmt.Sprintf("数据集已缓存: %s", dataset)}
			}
		}
	}
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return CheckReport{Check: CheckDataset, Ready: false,
			Detail: fmt.Sprintf("读取数据集库失败: %v", err)}
	}
	return CheckReport{Check: CheckDataset, Ready: false,
		Detail: fmt.Sprintf("数据集未缓存: %s", dataset),
		Remedy: "hfcache download-dataset " + dataset}
}

// hasWeightFile 只看目录的直接子项，不做递归。
func hasWeightFile(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		for _, suffix := range weightSuffixes {
			if strings.HasSuffix(e.Name(), suffix) {
				return true
			}
		}
	}
	return false
}
