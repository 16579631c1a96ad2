package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"medfeedback/backend/internal/dto"
	"medfeedback/backend/internal/model"
	"medfeedback/backend/internal/repository"
	"medfeedback/backend/pkg/password"
)

// UserService 用户目录管理接口（管理员）
type UserService interface {
	GetByID(ctx context.Context, id string) (*dto.UserResponse, error)
	List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error)
	ParseImportFile(reader io.Reader) ([]ImportUserRow, error)
	ImportUsers(ctx context.Context, rows []ImportUserRow) (*dto.ImportUserResponse, error)
}

// ImportUserRow Excel 导入解析后的单行数据
type ImportUserRow struct {
	Row   int
	Email string
	Role  string
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

// ────────────────────── GetByID ──────────────────────

func (s *userService) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.toUserResponse(user), nil
}

// ────────────────────── List ──────────────────────

func (s *userService) List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error) {
	users, total, err := s.repo.User.List(ctx, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出用户失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		result = append(result, *s.toUserResponse(&u))
	}

	return result, total, nil
}

// ────────────────────── 批量导入 ──────────────────────

// ParseImportFile 解析导入 Excel（第一个工作表，首行为表头）
// 表头约定：A=邮箱，B=角色（admin/staff，留空默认 staff）
func (s *userService) ParseImportFile(reader io.Reader) ([]ImportUserRow, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("打开 Excel 文件失败: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("Excel 文件没有工作表")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("读取工作表失败: %w", err)
	}

	var result []ImportUserRow
	for i, row := range rows {
		if i == 0 {
			continue // 表头
		}
		r := ImportUserRow{Row: i + 1}
		if len(row) > 0 {
			r.Email = strings.TrimSpace(row[0])
		}
		if len(row) > 1 {
			r.Role = strings.TrimSpace(row[1])
		}
		if r.Email == "" {
			continue // 整行为空时跳过
		}
		result = append(result, r)
	}

	return result, nil
}

// ImportUsers 批量创建账号，每个账号生成一次性临时口令
// 单行失败不中断整批：重复邮箱、非法角色记入 Errors 继续处理
func (s *userService) ImportUsers(ctx context.Context, rows []ImportUserRow) (*dto.ImportUserResponse, error) {
	resp := &dto.ImportUserResponse{Total: len(rows)}

	for _, row := range rows {
		role := row.Role
		if role == "" {
			role = model.RoleStaff
		}
		if role != model.RoleAdmin && role != model.RoleStaff {
			resp.Failed++
			resp.Errors = append(resp.Errors, dto.ImportUserError{
				Row:    row.Row,
				Reason: fmt.Sprintf("非法角色 %q", row.Role),
			})
			continue
		}
		if !strings.Contains(row.Email, "@") {
			resp.Failed++
			resp.Errors = append(resp.Errors, dto.ImportUserError{
				Row:    row.Row,
				Reason: fmt.Sprintf("非法邮箱 %q", row.Email),
			})
			continue
		}

		tempPwd, err := generateTempPassword()
		if err != nil {
			return nil, err
		}
		hash, err := password.Hash(tempPwd)
		if err != nil {
			return nil, err
		}

		user := &model.User{
			Email:        row.Email,
			PasswordHash: hash,
			Role:         role,
		}
		if err := s.repo.User.Create(ctx, user); err != nil {
			resp.Failed++
			reason := "创建失败"
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				reason = "邮箱已存在"
			} else {
				s.logger.Error("导入用户失败", zap.Int("row", row.Row), zap.Error(err))
			}
			resp.Errors = append(resp.Errors, dto.ImportUserError{Row: row.Row, Reason: reason})
			continue
		}

		resp.Success++
		resp.Imported = append(resp.Imported, dto.ImportedUserResponse{
			Email:        user.Email,
			TempPassword: tempPwd,
		})
	}

	s.logger.Info("批量导入完成",
		zap.Int("total", resp.Total),
		zap.Int("success", resp.Success),
		zap.Int("failed", resp.Failed),
	)

	return resp, nil
}

// tempPasswordChars 临时口令字符集（去除易混淆字符）
const tempPasswordChars = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnpqrstuvwxyz23456789"

// tempPasswordLength 临时口令长度
const tempPasswordLength = 12

// generateTempPassword 生成加密安全的随机临时口令
func generateTempPassword() (string, error) {
	var b strings.Builder
	max := big.NewInt(int64(len(tempPasswordChars)))
	for i := 0; i < tempPasswordLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(tempPasswordChars[n.Int64()])
	}
	return b.String(), nil
}

func (s *userService) toUserResponse(u *model.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:    u.UserID,
		Email: u.Email,
		Role:  u.Role,
	}
}
