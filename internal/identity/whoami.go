package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/oellm/hfcache/internal/config"
)

// UserInfo 是 whoami 接口返回的用户摘要，供 CLI 展示。
type UserInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Validator 抽象身份校验能力，核心流程只依赖这一窄接口，测试注入假实现。
type Validator interface {
	Whoami(ctx context.Context, token string) (*UserInfo, error)
}

// ValidationError 表示令牌被上游明确拒绝，可恢复：调用方回退到交互式
// 输入或继续匿名访问。
type ValidationError struct {
	Status int
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("token rejected (%d): %s", e.Status, e.Detail)
}

// 共享的 HTTP 传输配置，复用长连接并集中管理各级超时。
var defaultTransport = &http.Transport{
	Proxy:                 http.ProxyFromEnvironment,
	MaxIdleConns:          10,
	IdleConnTimeout:       90 * time.Second,
	TLSHandshakeTimeout:   10 * time.Second,
	ExpectContinueTimeout: 1 * time.Second,
	ForceAttemptHTTP2:     true,
	DialContext: (&net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext,
}

// HubValidator 通过 hub API 的 whoami-v2 端点实现 Validator。
type HubValidator struct {
	endpoint string
	client   *http.Client
}

// NewHubValidator 按配置的端点与超时构造校验器。
func NewHubValidator(cfg *config.Config) *HubValidator {
	timeout := 30 * time.Second
	if cfg != nil && cfg.UpstreamTimeout.DurationValue() > 0 {
		timeout = cfg.UpstreamTimeout.DurationValue()
	}

	endpoint := "https://huggingface.co"
	if cfg != nil && cfg.HubEndpoint != "" {
		endpoint = strings.TrimRight(cfg.HubEndpoint, "/")
	}

	return &HubValidator{
		endpoint: endpoint,
		client: &http.Client{
			Timeout:   timeout,
			Transport: defaultTransport.Clone(),
		},
	}
}

func (v *HubValidator) Whoami(ctx context.Context, token string) (*UserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.endpoint+"/api/whoami-v2", nil)
	if err != nil {
		return nil, fmt.Errorf("build whoami request: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("whoami request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, &ValidationError{Status: resp.StatusCode, Detail: readDetail(resp.Body)}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("whoami unexpected status: %d", resp.StatusCode)
	}

	var info UserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode whoami response: %w", err)
	}
	if info.Type == "" {
		info.Type = "unknown"
	}
	return &info, nil
}

// readDetail 截取响应体前 256 字节作为诊断信息，避免日志被撑爆。
func readDetail(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 256))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
