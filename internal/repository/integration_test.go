//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"medfeedback/backend/internal/model"
	"medfeedback/backend/internal/repository"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=medfeedback password=medfeedback_password dbname=medfeedback_test sslmode=disable TimeZone=Asia/Shanghai"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		// 唯一索引冲突翻译为 gorm.ErrDuplicatedKey，与运行时配置一致
		TranslateError: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	if err := testDB.AutoMigrate(&model.User{}); err != nil {
		fmt.Fprintf(os.Stderr, "AutoMigrate 失败: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	os.Exit(code)
}

// uniqueEmail 生成不冲突的测试邮箱
func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s%d@hospital.test", prefix, time.Now().UnixNano())
}

// createUser 写入测试用户并返回清理函数
func createUser(t *testing.T, repo *repository.Repository, email, role string) (*model.User, func()) {
	t.Helper()
	ctx := context.Background()

	user := &model.User{
		Email:        email,
		PasswordHash: "$2a$12$placeholderplaceholderplaceholderplacehold",
		Role:         role,
	}
	if err := repo.User.Create(ctx, user); err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}

	cleanup := func() {
		testDB.Where("user_id = ?", user.UserID).Delete(&model.User{})
	}
	return user, cleanup
}

// ═══════════════════════════════════════════════════════════
// Test: Unique Email Constraint
// ═══════════════════════════════════════════════════════════

func TestUser_UniqueEmail(t *testing.T) {
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	email := uniqueEmail("unique")
	_, cleanup := createUser(t, repo, email, model.RoleStaff)
	defer cleanup()

	// 同邮箱二次创建应命中唯一索引
	dup := &model.User{
		Email:        email,
		PasswordHash: "$2a$12$placeholderplaceholderplaceholderplacehold",
		Role:         model.RoleStaff,
	}
	err := repo.User.Create(ctx, dup)
	if err == nil {
		testDB.Where("user_id = ?", dup.UserID).Delete(&model.User{})
		t.Fatal("期望唯一索引冲突，但创建成功了")
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Errorf("期望 gorm.ErrDuplicatedKey，得到: %v", err)
	}
}

func TestUser_GetByEmail_CaseSensitive(t *testing.T) {
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	email := uniqueEmail("Case")
	user, cleanup := createUser(t, repo, email, model.RoleStaff)
	defer cleanup()

	found, err := repo.User.GetByEmail(ctx, email)
	if err != nil {
		t.Fatalf("精确匹配应命中: %v", err)
	}
	if found.UserID != user.UserID {
		t.Errorf("ID 不匹配: expected %s, got %s", user.UserID, found.UserID)
	}

	// 大小写不同的邮箱不命中（默认排序规则下）
	_, err = repo.User.GetByEmail(ctx, "case"+email[4:])
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("期望 ErrRecordNotFound，得到: %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Replace (transactional delete + create)
// ═══════════════════════════════════════════════════════════

func TestUser_Replace(t *testing.T) {
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	email := uniqueEmail("replace")
	old, _ := createUser(t, repo, email, model.RoleAdmin)

	replacement := &model.User{
		Email:        email,
		PasswordHash: "$2a$12$newhashnewhashnewhashnewhashnewhashnewha",
		Role:         model.RoleAdmin,
	}
	if err := repo.User.Replace(ctx, replacement); err != nil {
		t.Fatalf("Replace 失败: %v", err)
	}
	defer testDB.Where("user_id = ?", replacement.UserID).Delete(&model.User{})

	// 旧行已删除
	if _, err := repo.User.GetByID(ctx, old.UserID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("旧行应已删除，得到: %v", err)
	}

	// 新行可按邮箱查到且哈希已替换
	found, err := repo.User.GetByEmail(ctx, email)
	if err != nil {
		t.Fatalf("查询新行失败: %v", err)
	}
	if found.UserID == old.UserID {
		t.Error("Replace 应写入新行而非复用旧行")
	}
	if found.PasswordHash != replacement.PasswordHash {
		t.Error("口令哈希应已替换")
	}
}

func TestUser_Replace_NoExistingRow(t *testing.T) {
	// 目标邮箱不存在时 Replace 等同于创建
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	user := &model.User{
		Email:        uniqueEmail("fresh"),
		PasswordHash: "$2a$12$placeholderplaceholderplaceholderplacehold",
		Role:         model.RoleAdmin,
	}
	if err := repo.User.Replace(ctx, user); err != nil {
		t.Fatalf("Replace 失败: %v", err)
	}
	defer testDB.Where("user_id = ?", user.UserID).Delete(&model.User{})

	if _, err := repo.User.GetByID(ctx, user.UserID); err != nil {
		t.Errorf("Replace 后应可查到新行: %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Count / List
// ═══════════════════════════════════════════════════════════

func TestUser_CountAndList(t *testing.T) {
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	before, err := repo.User.Count(ctx)
	if err != nil {
		t.Fatalf("Count 失败: %v", err)
	}

	var cleanups []func()
	for i := 0; i < 3; i++ {
		_, cleanup := createUser(t, repo, uniqueEmail(fmt.Sprintf("list%d", i)), model.RoleStaff)
		cleanups = append(cleanups, cleanup)
	}
	defer func() {
		for _, c := range cleanups {
			c()
		}
	}()

	after, err := repo.User.Count(ctx)
	if err != nil {
		t.Fatalf("Count 失败: %v", err)
	}
	if after != before+3 {
		t.Errorf("期望 Count 增加 3，before=%d after=%d", before, after)
	}

	users, total, err := repo.User.List(ctx, 0, 2)
	if err != nil {
		t.Fatalf("List 失败: %v", err)
	}
	if total != after {
		t.Errorf("List total 应与 Count 一致: total=%d count=%d", total, after)
	}
	if len(users) != 2 {
		t.Errorf("期望返回 2 条，得到 %d 条", len(users))
	}
}
