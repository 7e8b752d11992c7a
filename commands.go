package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oellm/hfcache/internal/cache"
	"github.com/oellm/hfcache/internal/fetch"
	"github.com/oellm/hfcache/internal/hubenv"
	"github.com/oellm/hfcache/internal/identity"
	"github.com/oellm/hfcache/internal/ingest"
)

func newDownloadModelCommand(a *app) *cobra.Command {
	var revision string
	var ignorePatterns []string

	cmd := &cobra.Command{
		Use:   "download-model <org/model>",
		Short: "下载模型快照到共享缓存",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("revision") && a.cfg.DefaultRevision != "" {
				revision = a.cfg.DefaultRevision
			}
			req := fetch.ModelRequest{
				Name:           args[0],
				Revision:       revision,
				IgnorePatterns: ignorePatterns,
				Token:          a.resolveToken(),
			}
			fmt.Fprintf(stdOut, "开始下载模型: %s（revision=%s）\n", req.Name, req.Revision)
			if err := a.newFetcher().FetchModel(cmd.Context(), req); err != nil {
				return err
			}
			fmt.Fprintf(stdOut, "模型已缓存: %s\n", req.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&revision, "revision", "main", "Git revision（分支、标签或提交）")
	cmd.Flags().StringSliceVar(&ignorePatterns, "ignore-patterns", nil, "跳过匹配的文件，如 *.gguf,*.onnx")
	return cmd
}

func newDownloadDatasetCommand(a *app) *cobra.Command {
	var configName, split string
	var trustRemoteCode bool

	cmd := &cobra.Command{
		Use:   "download-dataset <org/dataset>",
		Short: "下载数据集到共享缓存",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := fetch.DatasetRequest{
				Name:            args[0],
				Config:          configName,
				Split:           split,
				TrustRemoteCode: trustRemoteCode,
				Token:           a.resolveToken(),
			}
			fmt.Fprintf(stdOut, "开始下载数据集: %s\n", req.Name)
			if err := a.newFetcher().FetchDataset(cmd.Context(), req); err != nil {
				return err
			}
			fmt.Fprintf(stdOut, "数据集已缓存: %s\n", req.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&configName, "name", "", "数据集配置名，如 cais/mmlu 的 all")
	cmd.Flags().StringVar(&split, "split", "", "仅下载指定 split，如 train")
	cmd.Flags().BoolVar(&trustRemoteCode, "trust-remote-code", false, "允许数据集仓库中的加载脚本执行")
	return cmd
}

func newDownloadFromFileCommand(a *app) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "download-from-file <manifest>",
		Short: "按清单批量下载，单条失败不中断",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dryRun {
				fmt.Fprintln(stdOut, "将要下载的条目:")
				return ingest.DryRun(args[0], stdOut)
			}

			// 批处理前先确认令牌；校验的网络错误只告警，不阻断下载。
			token, err := identity.EnsureToken(cmd.Context(), identity.NewHubValidator(a.cfg), identity.Options{
				Lookup:    os.Getenv,
				TokenFile: identity.TokenFile(a.root),
				Setenv:    os.Setenv,
				Out:       stdOut,
			})
			if err != nil {
				fmt.Fprintf(stdErr, "令牌校验不可用: %v\n", err)
				token = a.resolveToken()
			}

			fetcher := a.newFetcher()
			ctrl := &ingest.Controller{
				Models:   fetcher,
				Datasets: fetcher,
				Logger:   a.logger,
				Token:    token,
				Revision: a.cfg.DefaultRevision,
			}
			tally, err := ctrl.Ingest(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(stdOut, "批处理完成: %d 成功，%d 失败\n", tally.Successes, tally.Failures)
			if tally.Failures > 0 {
				return fmt.Errorf("%d 个条目下载失败", tally.Failures)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "只列出条目，不触发下载")
	return cmd
}

func newStatusCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "展示缓存占用与已缓存条目",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			stats, err := cache.CollectStats(a.root)
			if err != nil {
				return err
			}
			fmt.Fprintf(stdOut, "缓存根目录: %s\n", a.root.Home)
			fmt.Fprintf(stdOut, "总占用: %s（模型 %s，数据集 %s）\n",
				cache.HumanBytes(stats.Total()),
				cache.HumanBytes(stats.HubBytes),
				cache.HumanBytes(stats.DatasetsBytes))

			models, err := cache.ListCachedModels(a.root)
			if err != nil {
				return err
			}
			fmt.Fprintf(stdOut, "\n已缓存模型（%d 个）:\n", len(models))
			for _, m := range models {
				fmt.Fprintf(stdOut, "  %-10s %s\n", cache.HumanBytes(m.SizeBytes), m.Name)
			}

			datasets, err := cache.ListCachedDatasets(a.root)
			if err != nil {
				return err
			}
			fmt.Fprintf(stdOut, "\n已缓存数据集（%d 个）:\n", len(datasets))
			for _, d := range datasets {
				fmt.Fprintf(stdOut, "  %-10s %s\n", cache.HumanBytes(d.SizeBytes), d.Name)
			}

			// 只报告不处理，清理动作交给 clean 子命令。
			stale, err := cache.Scan(a.root)
			if err != nil {
				return err
			}
			locks := 0
			for _, s := range stale {
				if s.Kind == cache.KindLockFile {
					locks++
				}
			}
			if locks > 0 {
				fmt.Fprintf(stdOut, "\n警告: 发现 %d 个残留锁文件，可能拖慢缓存访问。\n", locks)
				fmt.Fprintln(stdOut, "建议执行: hfcache clean")
			}
			return nil
		},
	}
}

func newCleanCommand(a *app) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "清理残留锁、未完成下载与错位数据集",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			count, err := cache.Clean(a.root, dryRun, func(art cache.StaleArtifact) {
				prefix := ""
				if dryRun {
					prefix = "[DRY RUN] "
				}
				verb := "rm"
				if art.Kind == cache.KindMisplacedDataset {
					verb = "rm -rf"
				}
				fmt.Fprintf(stdOut, "%s%s %s\n", prefix, verb, art.Path)
			})
			if err != nil {
				return err
			}

			switch {
			case count == 0:
				fmt.Fprintln(stdOut, "缓存无需清理。")
			case dryRun:
				fmt.Fprintf(stdOut, "共 %d 项将被清理。\n", count)
			default:
				fmt.Fprintf(stdOut, "共清理 %d 项。\n", count)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "只列出将被清理的项，不做删除")
	return cmd
}

func newVerifyCommand(a *app) *cobra.Command {
	var dataset string

	cmd := &cobra.Command{
		Use:   "verify <model-or-path>",
		Short: "检查模型（及可选数据集）能否离线加载",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ready, reports := cache.VerifyOfflineReady(a.root, args[0], dataset)
			for _, r := range reports {
				mark := "OK"
				if !r.Ready {
					mark = "FAIL"
				}
				fmt.Fprintf(stdOut, "[%-4s] %s: %s\n", mark, r.Check, r.Detail)
				if r.Remedy != "" {
					fmt.Fprintf(stdOut, "       建议执行: %s\n", r.Remedy)
				}
			}
			if !ready {
				return errors.New("离线就绪检查未通过")
			}
			fmt.Fprintln(stdOut, "全部检查通过，可离线运行。")
			return nil
		},
	}
	cmd.Flags().StringVar(&dataset, "dataset", "", "同时检查指定数据集")
	return cmd
}

func newListLocalCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list-local <dir>",
		Short: "列出目录下含 safetensors 权重的本地模型",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			dirs, err := cache.ListLocalModels(args[0])
			if err != nil {
				return err
			}
			if len(dirs) == 0 {
				fmt.Fprintf(stdOut, "未在 %s 下找到 safetensors 模型。\n", args[0])
				return nil
			}
			for _, dir := range dirs {
				fmt.Fprintln(stdOut, dir)
			}
			return nil
		},
	}
}

func newLoginCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "校验或交互录入 HF 访问令牌",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			token, err := identity.EnsureToken(cmd.Context(), identity.NewHubValidator(a.cfg), identity.Options{
				Lookup:    os.Getenv,
				TokenFile: identity.TokenFile(a.root),
				Prompt:    identity.TerminalPrompt(os.Stdin, stdOut),
				Setenv:    os.Setenv,
				Out:       stdOut,
			})
			if err != nil {
				return err
			}
			if token == "" {
				return errors.New("未配置令牌")
			}
			return nil
		},
	}
}

func newSetupCommand(a *app) *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "为当前进程安装缓存环境变量并打印 export 语句",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			env := hubenv.New(a.root, offline)
			if err := env.Install(os.Setenv); err != nil {
				return err
			}

			mode := "在线（登录节点）"
			if env.Offline() {
				mode = "离线（计算节点）"
			}
			fmt.Fprintf(stdOut, "缓存环境已就绪，模式: %s\n", mode)
			fmt.Fprintf(stdOut, "HF_HOME=%s\n", a.root.Home)
			fmt.Fprintln(stdOut, "\n# 可复制到 shell 或作业脚本:")
			for _, line := range env.ExportLines() {
				fmt.Fprintln(stdOut, line)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&offline, "offline", false, "同时设置离线开关，适用于计算节点")
	return cmd
}
