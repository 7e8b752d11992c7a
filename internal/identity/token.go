// Package identity handles hub access tokens: resolving an existing token
// from the environment or the token file, validating it against the hub's
// whoami endpoint, and the interactive login flow. Validation is a thin
// wrapper over the external identity service; the Validator interface keeps
// the rest of the system testable without network access.
package identity

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/oellm/hfcache/internal/cache"
)

// 依次尝试的令牌来源环境变量，顺序即优先级。
var tokenEnvVars = []string{"HF_TOKEN", "HUGGINGFACE_HUB_TOKEN"}

// TokenFile 返回缓存根下存储令牌的文件路径，与外部 hub CLI 的 login 布局一致。
func TokenFile(root *cache.Root) string {
	return filepath.Join(root.Home, "token")
}

// ResolveToken 按 环境变量 > 令牌文件 的顺序解析现有令牌，找不到返回空串。
// lookup 注入环境变量读取，便于测试。
func ResolveToken(lookup func(string) string, tokenFile string) string {
	for _, key := range tokenEnvVars {
		if tok := strings.TrimSpace(lookup(key)); tok != "" {
			return tok
		}
	}

	data, err := os.ReadFile(tokenFile)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
