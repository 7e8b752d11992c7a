package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Duration 提供更灵活的反序列化能力，同时兼容纯秒整数与 Go Duration 字符串。
type Duration time.Duration

// UnmarshalText 使 Viper 可以识别诸如 "30s"、"5m" 或纯数字秒值等配置写法。
func (d *Duration) UnmarshalText(text []byte) error {
	raw := strings.TrimSpace(string(text))
	if raw == "" {
		*d = Duration(0)
		return nil
	}

	if parsed, err := time.ParseDuration(raw); err == nil {
		*d = Duration(parsed)
		return nil
	}

	if intVal, err := parseInt(raw); err == nil {
		*d = Duration(time.Duration(intVal) * time.Second)
		return nil
	}

	return fmt.Errorf("invalid duration value: %s", raw)
}

// DurationValue 返回真实的 time.Duration，便于调用方计算。
func (d Duration) DurationValue() time.Duration {
	return time.Duration(d)
}

// parseInt 支持十进制或 0x 前缀的十六进制字符串解析。
func parseInt(value string) (int64, error) {
	if strings.HasPrefix(value, "0x") || strings.HasPrefix(value, "0X") {
		return strconv.ParseInt(value, 0, 64)
	}
	return strconv.ParseInt(value, 10, 64)
}

// Config 描述缓存管理器的全部运行时参数，可由 TOML 文件覆盖默认值。
// 缓存根目录本身不在其中：根目录解析顺序（--hf-home 参数 > HF_HOME 环境
// 变量 > RootTemplate 模板）由 cache.ResolveRoot 执行。
type Config struct {
	LogLevel      string `mapstructure:"LogLevel"`
	LogFilePath   string `mapstructure:"LogFilePath"`
	LogMaxSize    int    `mapstructure:"LogMaxSize"`
	LogMaxBackups int    `mapstructure:"LogMaxBackups"`
	LogCompress   bool   `mapstructure:"LogCompress"`

	// RootTemplate 为集群默认缓存根模板，占位符 {account}/{user}
	// 由 ACCOUNT（或 SLURM_ACCOUNT）与 USER 环境变量填充。
	RootTemplate string `mapstructure:"RootTemplate"`

	// HubEndpoint 是身份校验（whoami）所用的上游 API 地址。
	HubEndpoint string `mapstructure:"HubEndpoint"`

	// DownloaderBin 指定实际执行字节传输的外部下载器命令。
	DownloaderBin   string   `mapstructure:"DownloaderBin"`
	DefaultRevision string   `mapstructure:"DefaultRevision"`
	MaxRetries      int      `mapstructure:"MaxRetries"`
	InitialBackoff  Duration `mapstructure:"InitialBackoff"`
	UpstreamTimeout Duration `mapstructure:"UpstreamTimeout"`
}

// Validate 针对语义级别做进一步校验，防止非法配置启动命令。
func (c *Config) Validate() error {
	if c == nil {
		return NewConfigError("Config", "配置为空")
	}
	if strings.TrimSpace(c.RootTemplate) == "" {
		return NewConfigError("RootTemplate", "不能为空")
	}
	if strings.TrimSpace(c.HubEndpoint) == "" {
		return NewConfigError("HubEndpoint", "不能为空")
	}
	if strings.TrimSpace(c.DownloaderBin) == "" {
		return NewConfigError("DownloaderBin", "不能为空")
	}
	if c.MaxRetries < 0 {
		return NewConfigError("MaxRetries", "不能为负数")
	}
	if c.InitialBackoff.DurationValue() <= 0 {
		return NewConfigError("InitialBackoff", "必须大于 0")
	}
	if c.UpstreamTimeout.DurationValue() <= 0 {
		return NewConfigError("UpstreamTimeout", "必须大于 0")
	}
	return nil
}
