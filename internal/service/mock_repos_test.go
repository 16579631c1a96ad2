package service

import (
	"context"
	"fmt"
	"sync"

	"gorm.io/gorm"

	"medfeedback/backend/internal/model"
	"medfeedback/backend/internal/repository"
)

// ── Mock UserRepository ──
// 内存实现，邮箱唯一性语义与数据库唯一索引一致：
// 重复创建返回 gorm.ErrDuplicatedKey，并发安全

type mockUserRepo struct {
	mu      sync.Mutex
	byID    map[string]*model.User
	byEmail map[string]*model.User
	nextID  int

	// 可注入的错误，用于模拟持久化故障
	createErr error

	// 前 N 次 GetByEmail 强制未命中，用于模拟
	// "读取时不存在、创建时已被并发方写入"的时序
	emailMisses int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		byID:    make(map[string]*model.User),
		byEmail: make(map[string]*model.User),
	}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.byEmail[user.Email]; ok {
		return gorm.ErrDuplicatedKey
	}
	if user.UserID == "" {
		m.nextID++
		user.UserID = fmt.Sprintf("user-%d", m.nextID)
	}
	cp := *user
	m.byID[cp.UserID] = &cp
	m.byEmail[cp.Email] = &cp
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if u, ok := m.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.emailMisses > 0 {
		m.emailMisses--
		return nil, gorm.ErrRecordNotFound
	}

	// 精确匹配，区分大小写
	if u, ok := m.byEmail[email]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.byID)), nil
}

func (m *mockUserRepo) List(_ context.Context, offset, limit int) ([]model.User, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var all []model.User
	for _, u := range m.byID {
		all = append(all, *u)
	}
	total := int64(len(all))

	if offset > len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockUserRepo) Replace(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if old, ok := m.byEmail[user.Email]; ok {
		delete(m.byID, old.UserID)
		delete(m.byEmail, old.Email)
	}
	if user.UserID == "" {
		m.nextID++
		user.UserID = fmt.Sprintf("user-%d", m.nextID)
	}
	cp := *user
	m.byID[cp.UserID] = &cp
	m.byEmail[cp.Email] = &cp
	return nil
}

// newTestRepository 组装仅含 mock 用户仓库的聚合
func newTestRepository(userRepo *mockUserRepo) *repository.Repository {
	return &repository.Repository{User: userRepo}
}
