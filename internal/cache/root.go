package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oellm/hfcache/internal/config"
	"github.com/oellm/hfcache/internal/logging"
)

// 子目录名由外部 hub 库的缓存布局固定，不可配置。
const (
	hubDirName      = "hub"
	datasetsDirName = "datasets"
	assetsDirName   = "assets"
	xetDirName      = "xet"
)

// Root 持有缓存根目录及四个固定子目录的绝对路径。根目录归用户所有，
// 本系统只创建、从不删除。
type Root struct {
	Home     string
	Hub      string
	Datasets string
	Assets   string
	Xet      string
}

// ResolveRoot 按 显式参数 > HF_HOME 环境变量 > 集群模板 的顺序解析缓存
// 根目录。lookup 注入环境变量读取，便于测试替换；模板占位符 {account}
// 取自 ACCOUNT（或 SLURM_ACCOUNT），{user} 取自 USER。
func ResolveRoot(explicit string, lookup func(string) string, tpl string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if env := lookup("HF_HOME"); env != "" {
		return env, nil
	}

	user := lookup("USER")
	if user == "" {
		user = "unknown"
	}
	account := lookup("ACCOUNT")
	if account == "" {
		account = lookup("SLURM_ACCOUNT")
	}
	if account == "" {
		return "", config.NewConfigError("HF_HOME",
			"无法确定缓存根目录：请设置 HF_HOME 环境变量、ACCOUNT/SLURM_ACCOUNT，或使用 --hf-home 参数")
	}

	path := strings.ReplaceAll(tpl, "{account}", account)
	path = strings.ReplaceAll(path, "{user}", user)
	return path, nil
}

// NewRoot 将 home 规范化为绝对路径并派生四个子目录路径，不接触磁盘。
func NewRoot(home string) (*Root, error) {
	abs, err := filepath.Abs(home)
	if err != nil {
		return nil, fmt.Errorf("resolve cache root: %w", err)
	}
	return &Root{
		Home:     abs,
		Hub:      filepath.Join(abs, hubDirName),
		Datasets: filepath.Join(abs, datasetsDirName),
		Assets:   filepath.Join(abs, assetsDirName),
		Xet:      filepath.Join(abs, xetDirName),
	}, nil
}

// Init 幂等创建根目录与全部子目录，目录已存在不视为错误。
func (r *Root) Init() error {
	for _, dir := range []string{r.Home, r.Hub, r.Datasets, r.Assets, r.Xet} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create cache dir: %w", err)
		}
	}
	return nil
}

// Open 组合解析、构造与初始化，并输出一条确认日志说明最终路径。
func Open(explicit string, lookup func(string) string, tpl string, logger *logrus.Logger) (*Root, error) {
	home, err := ResolveRoot(explicit, lookup, tpl)
	if err != nil {
		return nil, err
	}
	root, err := NewRoot(home)
	if err != nil {
		return nil, err
	}
	if err := root.Init(); err != nil {
		return nil, err
	}

	if logger != nil {
		fields := logging.BaseFields("cache_root_ready", root.Home)
		fields["hub"] = root.Hub
		fields["datasets"] = root.Datasets
		logger.WithFields(fields).Info("缓存目录就绪")
	}
	return root, nil
}
