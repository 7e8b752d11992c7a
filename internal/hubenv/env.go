// Package hubenv models the process-wide environment the external hub
// libraries read for cache discovery as an explicit value with an install
// lifecycle, instead of scattering os.Setenv calls through the code. An
// Environment is derived from a cache root plus an online/offline flag,
// can be installed idempotently through an injected setter, and can be
// queried back, so tests never touch the real process environment.
package hubenv

import (
	"fmt"
	"sort"

	"github.com/oellm/hfcache/internal/cache"
)

// 离线开关，三个变量始终一起设置。
var offlineVars = []string{"HF_DATASETS_OFFLINE", "HF_HUB_OFFLINE", "TRANSFORMERS_OFFLINE"}

// setup 子命令导出的变量子集及固定顺序。
var exportKeys = []string{"HF_HOME", "HF_HUB_CACHE", "HF_DATASETS_CACHE", "TRANSFORMERS_CACHE", "HF_HUB_OFFLINE"}

// Environment 是一组待安装的环境变量快照，构造后不可变。
type Environment struct {
	vars    map[string]string
	offline bool
}

// New 根据缓存根目录生成外部库所需的全部环境变量。offline 为真时额外
// 设置三个离线开关，使计算节点上的 from_pretrained/load_dataset 只读缓存。
func New(root *cache.Root, offline bool) Environment {
	vars := map[string]string{
		"HF_HOME":         root.Home,
		"HF_HUB_CACHE":    root.Hub,
		"HF_XET_CACHE":    root.Xet,
		"HF_ASSETS_CACHE": root.Assets,
		// 旧版库仍读取这两个变量。
		"HUGGINGFACE_HUB_CACHE":    root.Hub,
		"HUGGINGFACE_ASSETS_CACHE": root.Assets,
		"HF_DATASETS_CACHE":        root.Datasets,
		// 部分库仍使用 TRANSFORMERS_CACHE 定位模型。
		"TRANSFORMERS_CACHE":               root.Hub,
		"HF_HUB_DISABLE_PROGRESS_BARS":      "1",
		"HF_DATASETS_DISABLE_PROGRESS_BARS": "1",
	}
	if offline {
		for _, key := range offlineVars {
			vars[key] = "1"
		}
	}
	return Environment{vars: vars, offline: offline}
}

// Offline 返回当前快照是否启用离线模式，供调用方与测试回查。
func (e Environment) Offline() bool {
	return e.offline
}

// Lookup 查询快照中的单个变量。
func (e Environment) Lookup(key string) (string, bool) {
	v, ok := e.vars[key]
	return v, ok
}

// Install 通过注入的 setter 安装全部变量，按键名排序保证顺序确定。
// 变量值只依赖缓存根，重复安装结果一致，即幂等。
func (e Environment) Install(setenv func(key, value string) error) error {
	keys := make([]string, 0, len(e.vars))
	for k := range e.vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := setenv(k, e.vars[k]); err != nil {
			return fmt.Errorf("set %s: %w", k, err)
		}
	}
	return nil
}

// ExportLines 输出可直接粘贴到 shell 的 export 语句，仅含关键变量，
// 未设置的键（如在线模式下的 HF_HUB_OFFLINE）被跳过。
func (e Environment) ExportLines() []string {
	var lines []string
	for _, key := range exportKeys {
		if v, ok := e.vars[key]; ok {
			lines = append(lines, fmt.Sprintf("export %s=%s", key, v))
		}
	}
	return lines
}
