package fetch

import (
	"context"
	"os"
	"os/exec"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oellm/hfcache/internal/cache"
	"github.com/oellm/hfcache/internal/config"
	"github.com/oellm/hfcache/internal/hubenv"
)

// ExecFetcher 通过调用外部下载器 CLI 完成真正的字节传输，本系统不实现
// 任何网络协议。子进程继承完整的缓存环境变量，失败时按指数退避重试。
type ExecFetcher struct {
	bin            string
	root           *cache.Root
	env            hubenv.Environment
	maxRetries     int
	initialBackoff time.Duration
	logger         *logrus.Logger

	// runCmd/sleep 可在测试中替换，避免真的拉起子进程或等待退避。
	runCmd func(ctx context.Context, name string, args, extraEnv []string) error
	sleep  func(time.Duration)
}

// NewExecFetcher 按配置构造下载桥接器。
func NewExecFetcher(cfg *config.Config, root *cache.Root, env hubenv.Environment, logger *logrus.Logger) *ExecFetcher {
	backoff := cfg.InitialBackoff.DurationValue()
	if backoff <= 0 {
		backoff = time.Second
	}
	return &ExecFetcher{
		bin:            cfg.DownloaderBin,
		root:           root,
		env:            env,
		maxRetries:     cfg.MaxRetries,
		initialBackoff: backoff,
		logger:         logger,
		runCmd:         runCommand,
		sleep:          time.Sleep,
	}
}

func (f *ExecFetcher) FetchModel(ctx context.Context, req ModelRequest) error {
	revision := req.Revision
	if revision == "" {
		revision = "main"
	}

	args := []string{"download", req.Name, "--revision", revision, "--cache-dir", f.root.Hub}
	for _, pattern := range req.IgnorePatterns {
		args = append(args, "--exclude", pattern)
	}

	if err := f.retry(ctx, "model", req.Name, args, req.Token); err != nil {
		return &TransferError{Kind: "model", Name: req.Name, Err: err}
	}
	return nil
}

func (f *ExecFetcher) FetchDataset(ctx context.Context, req DatasetRequest) error {
	args := []string{"download", req.Name, "--repo-type", "dataset", "--cache-dir", f.root.Datasets}
	if req.Config != "" {
		args = append(args, "--config", req.Config)
	}
	if req.Split != "" {
		args = append(args, "--split", req.Split)
	}
	if req.TrustRemoteCode {
		args = append(args, "--trust-remote-code")
	}

	if err := f.retry(ctx, "dataset", req.Name, args, req.Token); err != nil {
		return &TransferError{Kind: "dataset", Name: req.Name, Err: err}
	}
	return nil
}

// retry 最多执行 1+maxRetries 次，退避时长逐次翻倍；上下文取消立即停止。
func (f *ExecFetcher) retry(ctx context.Context, kind, name string, args []string, token string) error {
	extraEnv := make([]string, 0, 16)
	_ = f.env.Install(func(k, v string) error {
		extraEnv = append(extraEnv, k+"="+v)
		return nil
	})
	if token != "" {
		extraEnv = append(extraEnv, "HF_TOKEN="+token)
	}

	backoff := f.initialBackoff
	var lastErr error
	for attempt := 0; attempt <= f.maxRetries; attempt++ {
		if attempt > 0 {
			if f.logger != nil {
				f.logger.WithFields(logrus.Fields{
					"action":   "fetch_retry",
					"kind":     kind,
					"artifact": name,
					"attempt":  attempt,
				}).Warn("传输失败，准备重试")
			}
			f.sleep(backoff)
			backoff *= 2
		}

		lastErr = f.runCmd(ctx, f.bin, args, extraEnv)
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return lastErr
}

// runCommand 拉起子进程并透传其输出，下载进度直接呈现给用户。
func runCommand(ctx context.Context, name string, args, extraEnv []string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = append(os.Environ(), extraEnv...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
