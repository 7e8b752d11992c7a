package main

import (
	"github.com/spf13/cobra"

	"github.com/oellm/hfcache/internal/version"
)

// applyVersion 注入构建版本并统一 --version 的输出格式。
func applyVersion(cmd *cobra.Command) {
	cmd.Version = version.Full()
	cmd.SetVersionTemplate("{{.Version}}\n")
}
