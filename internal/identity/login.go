package identity

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Options 注入 login 流程的全部外部交互，均可被测试替换。
type Options struct {
	Lookup    func(string) string
	TokenFile string
	// Prompt 读取用户输入的新令牌；为 nil 时禁用交互（批处理环境）。
	Prompt func() (string, error)
	// Setenv 将确认后的令牌导出给本进程及子进程。
	Setenv func(key, value string) error
	Out    io.Writer
}

// EnsureToken 确保有可用令牌：现有令牌先静默校验；缺失或失效时转交互
// 输入；用户留空则跳过并继续匿名访问（仅公共模型）。返回空串表示跳过，
// 输入了令牌但校验失败不视为致命——受限模型的下载失败留给批处理阶段
// 按条目计入失败数。
func EnsureToken(ctx context.Context, v Validator, opts Options) (string, error) {
	out := opts.Out
	if out == nil {
		out = io.Discard
	}

	if token := ResolveToken(opts.Lookup, opts.TokenFile); token != "" {
		info, err := v.Whoami(ctx, token)
		if err == nil {
			fmt.Fprintf(out, "令牌有效，当前登录用户: %s（%s）\n", info.Name, info.Type)
			return token, nil
		}
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			return "", err
		}
		fmt.Fprintln(out, "现有令牌已失效或过期。")
	}

	if opts.Prompt == nil {
		return "", nil
	}

	fmt.Fprintln(out, "未找到可用令牌。下载受限/私有模型需要令牌，")
	fmt.Fprintln(out, "可在 https://huggingface.co/settings/tokens 获取。")

	entered, err := opts.Prompt()
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	entered = strings.TrimSpace(entered)
	if entered == "" {
		fmt.Fprintln(out, "已跳过，仅能下载公共模型。")
		return "", nil
	}

	if info, err := v.Whoami(ctx, entered); err != nil {
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			return "", err
		}
		fmt.Fprintln(out, "令牌校验未通过，仍将继续；受限模型下载可能失败。")
	} else {
		fmt.Fprintf(out, "令牌有效，当前登录用户: %s（%s）\n", info.Name, info.Type)
	}

	if opts.Setenv != nil {
		if err := opts.Setenv("HF_TOKEN", entered); err != nil {
			return "", fmt.Errorf("export token: %w", err)
		}
		fmt.Fprintln(out, "令牌已导出为 HF_TOKEN，供本次会话及子进程使用。")
	}
	return entered, nil
}
