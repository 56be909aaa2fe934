package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"stylio/backend/config"
	"stylio/backend/internal/dto"
	"stylio/backend/internal/model"
	"stylio/backend/pkg/jwt"
)

func setupTestAuthService() (AuthService, *mocks, *mockBlacklist, *jwt.Manager) {
	cfg := &config.AuthConfig{
		JWTSecret:       "test-secret-key-for-unit-testing-2026",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	}
	repo, m := newMockRepository()
	jwtMgr := jwt.NewManager(cfg)
	blacklist := &mockBlacklist{}
	return NewAuthService(repo, jwtMgr, blacklist, zap.NewNop()), m, blacklist, jwtMgr
}

func createTestUser(m *mocks, email, password, role string) *model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	user := &model.User{
		UserID:       "user-" + role,
		FullName:     "测试用户",
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	m.users.users[user.UserID] = user
	return user
}

// ── 注册 ──

func TestRegister_Success(t *testing.T) {
	svc, _, _, _ := setupTestAuthService()

	result, err := svc.Register(context.Background(), &dto.RegisterRequest{
		FullName: " Nino Beridze ",
		Email:    "Nino@Example.com",
		Password: "password123",
		Role:     "owner",
	})
	if err != nil {
		t.Fatalf("Register 应成功: %v", err)
	}
	if result.User.Email != "nino@example.com" {
		t.Errorf("期望邮箱转为小写，实际=%s", result.User.Email)
	}
	if result.User.FullName != "Nino Beridze" {
		t.Errorf("期望去除首尾空格，实际=%q", result.User.FullName)
	}
	if result.User.Role != model.RoleOwner {
		t.Errorf("期望Role=owner，实际=%s", result.User.Role)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Error("应返回 Token 对")
	}
	if result.ExpiresIn != 900 {
		t.Errorf("期望ExpiresIn=900，实际=%d", result.ExpiresIn)
	}
}

func TestRegister_UnknownRoleFallsBackToCustomer(t *testing.T) {
	svc, _, _, _ := setupTestAuthService()

	result, err := svc.Register(context.Background(), &dto.RegisterRequest{
		FullName: "Guest", Email: "guest@example.com", Password: "password123", Role: "admin",
	})
	if err != nil {
		t.Fatalf("Register 应成功: %v", err)
	}
	if result.User.Role != model.RoleCustomer {
		t.Errorf("未知角色应按 customer 处理，实际=%s", result.User.Role)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, m, _, _ := setupTestAuthService()
	createTestUser(m, "taken@example.com", "password123", model.RoleCustomer)

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		FullName: "Dup", Email: "TAKEN@example.com", Password: "password123",
	})
	if !errors.Is(err, ErrEmailExists) {
		t.Errorf("期望 ErrEmailExists，实际 %v", err)
	}
}

// ── 登录 ──

func TestLogin(t *testing.T) {
	svc, m, _, _ := setupTestAuthService()
	createTestUser(m, "owner@example.com", "password123", model.RoleOwner)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"成功", "owner@example.com", "password123", nil},
		{"邮箱大小写不敏感", "OWNER@example.com", "password123", nil},
		{"密码错误", "owner@example.com", "wrong", ErrInvalidCredentials},
		{"用户不存在", "nobody@example.com", "password123", ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.Login(context.Background(), &dto.LoginRequest{Email: tt.email, Password: tt.password})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("期望 %v，实际 %v", tt.wantErr, err)
			}
			if tt.wantErr == nil && result.User.Role != model.RoleOwner {
				t.Errorf("期望Role=owner，实际=%s", result.User.Role)
			}
		})
	}
}

// ── 刷新与注销 ──

func TestRefreshToken(t *testing.T) {
	svc, m, _, jwtMgr := setupTestAuthService()
	user := createTestUser(m, "c@example.com", "password123", model.RoleCustomer)

	refresh, _ := jwtMgr.GenerateRefreshToken(user.UserID, user.Role)
	if _, err := svc.RefreshToken(context.Background(), refresh); err != nil {
		t.Errorf("有效 refresh token 应成功: %v", err)
	}

	access, _ := jwtMgr.GenerateAccessToken(user.UserID, user.Role)
	if _, err := svc.RefreshToken(context.Background(), access); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Errorf("access token 不能用于刷新，实际 %v", err)
	}

	orphan, _ := jwtMgr.GenerateRefreshToken("user-deleted", model.RoleCustomer)
	if _, err := svc.RefreshToken(context.Background(), orphan); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Errorf("用户不存在时期望 ErrInvalidRefreshToken，实际 %v", err)
	}
}

func TestLogout_BlacklistsToken(t *testing.T) {
	svc, m, blacklist, jwtMgr := setupTestAuthService()
	user := createTestUser(m, "c@example.com", "password123", model.RoleCustomer)

	access, _ := jwtMgr.GenerateAccessToken(user.UserID, user.Role)
	claims, err := jwtMgr.ParseToken(access)
	if err != nil {
		t.Fatalf("解析 Token 失败: %v", err)
	}

	if err := svc.Logout(context.Background(), claims); err != nil {
		t.Fatalf("Logout 应成功: %v", err)
	}
	ttl, ok := blacklist.tokens[claims.ID]
	if !ok {
		t.Fatal("jti 应被加入黑名单")
	}
	if ttl <= 0 || ttl > 15*time.Minute {
		t.Errorf("黑名单 TTL 应为剩余有效期，实际 %v", ttl)
	}
}

func TestLogout_WithoutBlacklist(t *testing.T) {
	repo, _ := newMockRepository()
	jwtMgr := jwt.NewManager(&config.AuthConfig{JWTSecret: "test-secret-key-for-unit-testing-2026", AccessTokenTTL: time.Minute})
	svc := NewAuthService(repo, jwtMgr, nil, zap.NewNop())

	if err := svc.Logout(context.Background(), &jwt.Claims{UserID: "u"}); err != nil {
		t.Errorf("未启用黑名单时 Logout 不应失败: %v", err)
	}
}

func TestGetCurrentUser(t *testing.T) {
	svc, m, _, _ := setupTestAuthService()
	user := createTestUser(m, "c@example.com", "password123", model.RoleCustomer)

	resp, err := svc.GetCurrentUser(context.Background(), user.UserID)
	if err != nil {
		t.Fatalf("GetCurrentUser 失败: %v", err)
	}
	if resp.ID != user.UserID || resp.Email != user.Email {
		t.Errorf("返回用户不正确: %+v", resp)
	}
	if _, err := svc.GetCurrentUser(context.Background(), "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，实际 %v", err)
	}
}
