package service

import (
	"context"
	"errors"
	"strings"
	"time"

	groupModel "community_hub/internal/domain/group/model"
	"community_hub/internal/domain/user/model"
	"community_hub/internal/domain/user/repository"
	"community_hub/pkg/apperr"
	baseModel "community_hub/pkg/model"
	"community_hub/pkg/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// errInvalidCredentials 邮箱不存在与密码错误返回同一个错误，避免用户枚举
var errInvalidCredentials = apperr.Authentication("invalid email or password")

// GroupLister 查询用户加入/关注的群组
type GroupLister interface {
	JoinedGroups(ctx context.Context, userID string) ([]groupModel.Group, error)
	FollowedGroups(ctx context.Context, userID string) ([]groupModel.Group, error)
}

// AuthResult 注册/登录结果
type AuthResult struct {
	User      *model.User `json:"user"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

// Profile 用户资料，包含加入和关注的群组
type Profile struct {
	*model.User
	JoinedGroups   []groupModel.Group `json:"joinedGroups"`
	FollowedGroups []groupModel.Group `json:"followedGroups"`
}

// UserService 用户服务接口
type UserService interface {
	Register(ctx context.Context, name, email, password string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	GetProfile(ctx context.Context, id string) (*Profile, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateProfile(ctx context.Context, actorID, id, name, avatar string) (*model.User, error)
}

// userService 实现
type userService struct {
	repo   repository.UserRepository
	groups GroupLister
	jwt    *utils.JWTManager
	cost   int
	// dummyHash 用于邮箱不存在时仍执行一次 bcrypt 比较，使两种失败耗时接近
	dummyHash []byte
}

// NewUserService 创建用户服务
func NewUserService(repo repository.UserRepository, groups GroupLister, jwt *utils.JWTManager) UserService {
	return newUserService(repo, groups, jwt, bcrypt.DefaultCost)
}

func newUserService(repo repository.UserRepository, groups GroupLister, jwt *utils.JWTManager, cost int) *userService {
	dummy, _ := bcrypt.GenerateFromPassword([]byte("community-hub-dummy"), cost)
	return &userService{repo: repo, groups: groups, jwt: jwt, cost: cost, dummyHash: dummy}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register 注册
func (s *userService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	name = strings.TrimSpace(name)
	if name == "" || email == "" || password == "" {
		return nil, apperr.Validation("name, email and password are required")
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, apperr.Conflict("email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Internal(err, "lookup user by email")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, apperr.Internal(err, "hash password")
	}

	user := &model.User{
		Name:     name,
		Email:    email,
		Password: string(hash),
		Role:     model.RoleUser,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		// 并发注册时由唯一索引兜底
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("email already registered")
		}
		return nil, apperr.Internal(err, "create user")
	}

	return s.issue(user)
}

// Login 登录
func (s *userService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return nil, errInvalidCredentials
		}
		return nil, apperr.Internal(err, "lookup user by email")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, errInvalidCredentials
	}

	return s.issue(user)
}

func (s *userService) issue(user *model.User) (*AuthResult, error) {
	token, expireAt, err := s.jwt.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, apperr.Internal(err, "sign token")
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: expireAt}, nil
}

// GetProfile 获取用户资料
func (s *userService) GetProfile(ctx context.Context, id string) (*Profile, error) {
	if !baseModel.IsValidID(id) {
		return nil, apperr.Validation("invalid user id")
	}
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.FromStore(err, "user")
	}

	joined, err := s.groups.JoinedGroups(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err, "list joined groups")
	}
	followed, err := s.groups.FollowedGroups(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err, "list followed groups")
	}

	return &Profile{User: user, JoinedGroups: joined, FollowedGroups: followed}, nil
}

// GetByEmail 根据邮箱查找用户
func (s *userService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, apperr.FromStore(err, "user")
	}
	return user, nil
}

// UpdateProfile 更新用户资料，只能修改自己的
func (s *userService) UpdateProfile(ctx context.Context, actorID, id, name, avatar string) (*model.User, error) {
	if actorID != id {
		return nil, apperr.Forbidden("you can only edit your own profile")
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.FromStore(err, "user")
	}

	if name = strings.TrimSpace(name); name != "" {
		user.Name = name
	}
	if avatar != "" {
		user.Avatar = avatar
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, apperr.Internal(err, "update user")
	}
	return user, nil
}
