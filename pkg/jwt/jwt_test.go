package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/Kaiki2/scheduler-app/config"
)

func newTestManager() *Manager {
	return NewManager(&config.AuthConfig{
		JWTSecret:               "test-secret-key-0123456789",
		AccessTokenTTL:          15 * time.Minute,
		RefreshTokenTTLDefault:  24 * time.Hour,
		RefreshTokenTTLRemember: 30 * 24 * time.Hour,
	})
}

func TestManager_AccessTokenRoundTrip(t *testing.T) {
	mgr := newTestManager()

	token, err := mgr.GenerateAccessToken("user-001")
	if err != nil {
		t.Fatalf("生成Access Token失败: %v", err)
	}

	claims, err := mgr.ParseToken(token)
	if err != nil {
		t.Fatalf("解析Token失败: %v", err)
	}
	if claims.UserID != "user-001" {
		t.Errorf("期望user-001，实际=%s", claims.UserID)
	}
	if claims.TokenType != "access" {
		t.Errorf("期望access类型，实际=%s", claims.TokenType)
	}
	if claims.ID == "" {
		t.Error("期望每个Token携带jti")
	}
}

func TestManager_RefreshTokenType(t *testing.T) {
	mgr := newTestManager()

	token, err := mgr.GenerateRefreshToken("user-001", true)
	if err != nil {
		t.Fatalf("生成Refresh Token失败: %v", err)
	}

	claims, err := mgr.ParseToken(token)
	if err != nil {
		t.Fatalf("解析Token失败: %v", err)
	}
	if claims.TokenType != "refresh" {
		t.Errorf("期望refresh类型，实际=%s", claims.TokenType)
	}
	if !claims.RememberMe {
		t.Error("期望保留remember_me标记")
	}
}

func TestManager_RememberMeExtendsTTL(t *testing.T) {
	mgr := newTestManager()

	short, err := mgr.GenerateRefreshToken("user-001", false)
	if err != nil {
		t.Fatalf("生成Refresh Token失败: %v", err)
	}
	long, err := mgr.GenerateRefreshToken("user-001", true)
	if err != nil {
		t.Fatalf("生成Refresh Token失败: %v", err)
	}

	shortClaims, err := mgr.ParseToken(short)
	if err != nil {
		t.Fatalf("解析Token失败: %v", err)
	}
	longClaims, err := mgr.ParseToken(long)
	if err != nil {
		t.Fatalf("解析Token失败: %v", err)
	}
	if !longClaims.ExpiresAt.Time.After(shortClaims.ExpiresAt.Time) {
		t.Error("remember_me令牌应有更长的有效期")
	}
}

func TestManager_RejectsTamperedToken(t *testing.T) {
	mgr := newTestManager()

	token, err := mgr.GenerateAccessToken("user-001")
	if err != nil {
		t.Fatalf("生成Access Token失败: %v", err)
	}

	tampered := token + "x"
	if _, err := mgr.ParseToken(tampered); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("期望 ErrTokenInvalid，实际: %v", err)
	}
}

func TestManager_RejectsForeignSecret(t *testing.T) {
	mgr := newTestManager()
	other := NewManager(&config.AuthConfig{
		JWTSecret:      "another-secret-key-9876543210",
		AccessTokenTTL: 15 * time.Minute,
	})

	token, err := other.GenerateAccessToken("user-001")
	if err != nil {
		t.Fatalf("生成Access Token失败: %v", err)
	}
	if _, err := mgr.ParseToken(token); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("期望 ErrTokenInvalid，实际: %v", err)
	}
}
