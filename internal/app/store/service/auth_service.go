package service

import (
	"context"
	"errors"
	"fmt"

	"elpro/internal/app/store/entity"
	"elpro/internal/app/store/repository"
	"elpro/internal/app/store/util"
	"elpro/pkg/metrics"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthService аутентификация и управление пользователями админки
type AuthService struct {
	userRepo   repository.UserRepository
	jwtManager *util.JWTManager
}

func NewAuthService(userRepo repository.UserRepository, jwtManager *util.JWTManager) *AuthService {
	return &AuthService{userRepo: userRepo, jwtManager: jwtManager}
}

// Register создает первого администратора
// Открыта только пока коллекция пользователей пуста; дальше
// пользователей заводит администратор через CreateUser
func (s *AuthService) Register(ctx context.Context, req *entity.RegisterRequest) (*entity.User, error) {
	existing, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing users: %w", err)
	}
	if len(existing) > 0 {
		return nil, ErrRegistrationClosed
	}

	return s.createUser(ctx, req.Username, req.Password, entity.RoleAdmin)
}

// Login проверяет учетные данные и выдает JWT
func (s *AuthService) Login(ctx context.Context, req *entity.LoginRequest) (*entity.LoginResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			metrics.AuthLogins.WithLabelValues("failed").Inc()
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !util.CheckPassword(req.Password, user.PasswordHash) {
		metrics.AuthLogins.WithLabelValues("failed").Inc()
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwtManager.GenerateToken(user.ID.Hex(), user.Username, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	metrics.AuthLogins.WithLabelValues("success").Inc()
	return &entity.LoginResponse{Token: token, User: *user}, nil
}

// CreateUser заводит нового пользователя админки
// Роль по умолчанию editor
func (s *AuthService) CreateUser(ctx context.Context, req *entity.CreateUserRequest) (*entity.User, error) {
	role := entity.RoleEditor
	if req.Role != "" {
		role = entity.UserRole(req.Role)
	}
	return s.createUser(ctx, req.Username, req.Password, role)
}

func (s *AuthService) createUser(ctx context.Context, username, password string, role entity.UserRole) (*entity.User, error) {
	hash, err := util.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// GetUsers возвращает всех пользователей админки
func (s *AuthService) GetUsers(ctx context.Context) ([]entity.User, error) {
	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}
	return users, nil
}

// UpdateUser меняет пароль и/или роль пользователя
func (s *AuthService) UpdateUser(ctx context.Context, id string, req *entity.UpdateUserRequest) (*entity.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	user, err := s.userRepo.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if req.NewPassword != "" {
		hash, err := util.HashPassword(req.NewPassword)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hash
	}
	if req.Role != "" {
		user.Role = entity.UserRole(req.Role)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// DeleteUser удаляет пользователя админки
func (s *AuthService) DeleteUser(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}

	if err := s.userRepo.Delete(ctx, oid); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
