package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: 8000, Env: "production"},
		Auth: AuthConfig{
			JWTSecret:       "unit-test-signing-secret-0123456789abcdef",
			AccessTokenTTL:  60 * time.Minute,
			RefreshTokenTTL: 7 * 24 * time.Hour,
		},
	}
}

func TestValidate_OK(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("合法配置不应校验失败: %v", err)
	}
}

func TestValidate_EmptySecret(t *testing.T) {
	cfg := validConfig()
	cfg.Auth.JWTSecret = ""

	if err := cfg.Validate(); err == nil {
		t.Error("空密钥应校验失败")
	}
}

func TestValidate_InsecurePlaceholderSecret(t *testing.T) {
	placeholders := []string{
		"change-this-in-production",
		"secret",
		"dev",
		"test",
		"your-secret-key-here",
	}

	for _, s := range placeholders {
		cfg := validConfig()
		cfg.Auth.JWTSecret = s
		if err := cfg.Validate(); err == nil {
			t.Errorf("占位密钥 %q 应校验失败", s)
		}
	}
}

func TestValidate_ShortSecret(t *testing.T) {
	cfg := validConfig()
	cfg.Auth.JWTSecret = strings.Repeat("a", minSecretLength-1)

	if err := cfg.Validate(); err == nil {
		t.Errorf("少于 %d 字符的密钥应校验失败", minSecretLength)
	}

	cfg.Auth.JWTSecret = strings.Repeat("a", minSecretLength)
	if err := cfg.Validate(); err != nil {
		t.Errorf("恰好 %d 字符的密钥应通过校验: %v", minSecretLength, err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	for _, port := range []int{0, -1, 70000} {
		cfg := validConfig()
		cfg.Server.Port = port
		if err := cfg.Validate(); err == nil {
			t.Errorf("端口 %d 应校验失败", port)
		}
	}
}

func TestIsDevelopment(t *testing.T) {
	cfg := validConfig()
	if cfg.IsDevelopment() {
		t.Error("production 环境不应判定为开发环境")
	}

	cfg.Server.Env = "Development"
	if !cfg.IsDevelopment() {
		t.Error("development（忽略大小写）应判定为开发环境")
	}
}
