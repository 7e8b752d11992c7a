package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/oellm/hfcache/internal/cache"
	"github.com/oellm/hfcache/internal/config"
	"github.com/oellm/hfcache/internal/fetch"
	"github.com/oellm/hfcache/internal/hubenv"
	"github.com/oellm/hfcache/internal/identity"
	"github.com/oellm/hfcache/internal/logging"
)

var (
	stdOut io.Writer = os.Stdout
	stdErr io.Writer = os.Stderr
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// usageError 标记参数解析类错误，对应退出码 2。
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// run 构建命令树并执行，返回进程退出码——退出码是唯一的机器可读信号，
// 0 成功，1 操作失败，2 参数错误。
func run(args []string) int {
	a := &app{}
	root := newRootCommand(a)
	root.SetArgs(args)
	root.SetOut(stdOut)
	root.SetErr(stdErr)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(stdErr, err.Error())
		var uErr *usageError
		if errors.As(err, &uErr) {
			return 2
		}
		return 1
	}
	return 0
}

// app 聚合各子命令共享的运行时对象，在 PersistentPreRunE 中完成装配。
type app struct {
	cfgPath string
	hfHome  string

	cfg    *config.Config
	logger *logrus.Logger
	root   *cache.Root
}

// bootstrap 按 配置 → 日志 → 缓存根 的顺序初始化；缓存根解析失败
//（ConfigError）是致命错误，没有任何回退。
func (a *app) bootstrap() error {
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := logging.InitLogger(cfg)
	if err != nil {
		return err
	}
	a.logger = logger

	root, err := cache.Open(a.hfHome, os.Getenv, cfg.RootTemplate, logger)
	if err != nil {
		return err
	}
	a.root = root
	return nil
}

// newFetcher 构建注入缓存环境变量的外部下载桥接器。
func (a *app) newFetcher() *fetch.ExecFetcher {
	return fetch.NewExecFetcher(a.cfg, a.root, hubenv.New(a.root, false), a.logger)
}

// resolveToken 解析现有令牌（环境变量或令牌文件），不做网络校验。
func (a *app) resolveToken() string {
	return identity.ResolveToken(os.Getenv, identity.TokenFile(a.root))
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "hfcache",
		Short:         "共享 HF 缓存管理器：登录节点下载一次，计算节点离线复用",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// help/completion 以及裸根命令不需要装配运行时。
			if !cmd.Runnable() || cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}
			return a.bootstrap()
		},
	}
	applyVersion(root)

	root.PersistentFlags().StringVar(&a.cfgPath, "config", "", "配置文件路径（默认 ./hfcache.toml，缺失时使用内置默认值）")
	root.PersistentFlags().StringVar(&a.hfHome, "hf-home", "", "显式指定缓存根目录，优先于 HF_HOME 环境变量")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	root.AddCommand(
		newDownloadModelCommand(a),
		newDownloadDatasetCommand(a),
		newDownloadFromFileCommand(a),
		newStatusCommand(a),
		newCleanCommand(a),
		newVerifyCommand(a),
		newListLocalCommand(a),
		newLoginCommand(a),
		newSetupCommand(a),
	)
	return root
}
