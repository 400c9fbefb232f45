package user

import (
	"Invoice-Service/domain"
	"Invoice-Service/entities"
	"Invoice-Service/pkg/jwt"
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.RegisterResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
		Me(ctx context.Context, userID string) (domain.MeResponse, error)
	}

	userService struct {
		userRepository UserRepository
		jwtService     jwt.JWTService
	}
)

func NewUserService(userRepository UserRepository, jwtService jwt.JWTService) UserService {
	return &userService{
		userRepository: userRepository,
		jwtService:     jwtService,
	}
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.RegisterResponse, error) {
	if _, err := s.userRepository.GetUserByEmail(ctx, req.Email); err == nil {
		return domain.RegisterResponse{}, domain.ErrEmailAlreadyRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.RegisterResponse{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.RegisterResponse{}, domain.ErrHashPassword
	}

	newUser := &entities.User{
		Email:    req.Email,
		Password: string(hashed),
		IsActive: true,
	}
	if err := s.userRepository.CreateUser(ctx, newUser); err != nil {
		return domain.RegisterResponse{}, err
	}

	return domain.RegisterResponse{
		ID:    newUser.ID.String(),
		Email: newUser.Email,
	}, nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	found, err := s.userRepository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.LoginResponse{}, domain.ErrCredentialsInvalid
		}
		return domain.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(found.Password), []byte(req.Password)); err != nil {
		return domain.LoginResponse{}, domain.ErrCredentialsInvalid
	}

	token := s.jwtService.GenerateTokenUser(found.ID.String())

	return domain.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
	}, nil
}

func (s *userService) Me(ctx context.Context, userID string) (domain.MeResponse, error) {
	found, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.MeResponse{}, domain.ErrUserNotFound
		}
		return domain.MeResponse{}, err
	}

	return domain.MeResponse{
		ID:       found.ID.String(),
		Email:    found.Email,
		IsActive: found.IsActive,
	}, nil
}
