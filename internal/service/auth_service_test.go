package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Kaiki2/scheduler-app/config"
	"github.com/Kaiki2/scheduler-app/internal/dto"
	"github.com/Kaiki2/scheduler-app/internal/repository"
	"github.com/Kaiki2/scheduler-app/pkg/jwt"
)

func setupTestAuthService() AuthService {
	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:               "test-secret-key-0123456789",
			AccessTokenTTL:          15 * time.Minute,
			RefreshTokenTTLDefault:  24 * time.Hour,
			RefreshTokenTTLRemember: 30 * 24 * time.Hour,
		},
	}
	repo := &repository.Repository{
		User:     newMockUserRepo(),
		Event:    newMockEventRepo(),
		Override: newMockOverrideRepo(),
	}
	jwtMgr := jwt.NewManager(&cfg.Auth)
	// Redis 置空走降级路径
	return NewAuthService(cfg, repo, jwtMgr, nil, zap.NewNop())
}

func TestAuthService_Register_Success(t *testing.T) {
	svc := setupTestAuthService()

	user, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:       "  Alice@Example.com ",
		Password:    "password123",
		DisplayName: " Alice ",
	})
	if err != nil {
		t.Fatalf("Register 应成功: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("邮箱应归一为小写并去空白，实际=%s", user.Email)
	}
	if user.DisplayName != "Alice" {
		t.Errorf("昵称应去除首尾空白，实际=%s", user.DisplayName)
	}
}

func TestAuthService_Register_EmailTaken(t *testing.T) {
	svc := setupTestAuthService()

	req := &dto.RegisterRequest{Email: "alice@example.com", Password: "password123"}
	if _, err := svc.Register(context.Background(), req); err != nil {
		t.Fatalf("首次注册应成功: %v", err)
	}

	_, err := svc.Register(context.Background(), req)
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("期望 ErrEmailTaken，实际: %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc := setupTestAuthService()

	if _, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "alice@example.com",
		Password: "password123",
	}); err != nil {
		t.Fatalf("注册应成功: %v", err)
	}

	tokens, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "ALICE@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}
	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		t.Error("期望返回令牌对")
	}
	if tokens.ExpiresIn != int64((15 * time.Minute).Seconds()) {
		t.Errorf("期望expires_in=900，实际=%d", tokens.ExpiresIn)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	svc := setupTestAuthService()

	if _, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "alice@example.com",
		Password: "password123",
	}); err != nil {
		t.Fatalf("注册应成功: %v", err)
	}

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc := setupTestAuthService()

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "nobody@example.com",
		Password: "password123",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，实际: %v", err)
	}
}

func TestAuthService_RefreshToken_Success(t *testing.T) {
	svc := setupTestAuthService()

	if _, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "alice@example.com",
		Password: "password123",
	}); err != nil {
		t.Fatalf("注册应成功: %v", err)
	}
	tokens, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "alice@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}

	refreshed, err := svc.RefreshToken(context.Background(), tokens.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshToken 应成功: %v", err)
	}
	if refreshed.AccessToken == "" || refreshed.RefreshToken == "" {
		t.Error("期望轮换出新的令牌对")
	}
}

func TestAuthService_RefreshToken_RejectsAccessToken(t *testing.T) {
	svc := setupTestAuthService()

	if _, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "alice@example.com",
		Password: "password123",
	}); err != nil {
		t.Fatalf("注册应成功: %v", err)
	}
	tokens, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "alice@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("Login 应成功: %v", err)
	}

	// Access Token 不能当作刷新令牌使用
	_, err = svc.RefreshToken(context.Background(), tokens.AccessToken)
	if !errors.Is(err, ErrInvalidRefresh) {
		t.Errorf("期望 ErrInvalidRefresh，实际: %v", err)
	}
}

func TestAuthService_RefreshToken_RejectsGarbage(t *testing.T) {
	svc := setupTestAuthService()

	_, err := svc.RefreshToken(context.Background(), "not.a.token")
	if !errors.Is(err, ErrInvalidRefresh) {
		t.Errorf("期望 ErrInvalidRefresh，实际: %v", err)
	}
}

func TestAuthService_Logout_DegradesWithoutRedis(t *testing.T) {
	svc := setupTestAuthService()

	// Redis 不可用时登出降级为无操作，不报错
	if err := svc.Logout(context.Background(), "some-jti", time.Now().Add(time.Hour)); err != nil {
		t.Errorf("Logout 应降级成功: %v", err)
	}
}
