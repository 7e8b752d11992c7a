package config

import "fmt"

// ConfigError 描述配置字段或缓存根目录无法解析的原因，属于致命错误，
// CLI 收到后直接报告并退出，不做任何回退。
type ConfigError struct {
	Field  string
	Reason string
}

func (e ConfigError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NewConfigError 创建包含字段路径与原因的 error，便于 CLI 定位。
func NewConfigError(field, reason string) error {
	return ConfigError{Field: field, Reason: reason}
}
