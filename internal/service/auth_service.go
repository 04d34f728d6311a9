package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"yatube/internal/config"
	"yatube/internal/logger"
	"yatube/internal/models"
	"yatube/internal/repository"
)

type SignupRequest struct {
	Username        string `validate:"required,max=150,username"`
	Email           string `validate:"omitempty,email,max=254"`
	FirstName       string `validate:"max=150"`
	LastName        string `validate:"max=150"`
	Password        string `validate:"required,min=8,max=128"`
	PasswordConfirm string `validate:"required,eqfield=Password"`
}

type AuthService interface {
	Signup(ctx context.Context, req SignupRequest) (*models.User, string, error)
	Login(ctx context.Context, username, password string) (*models.User, string, error)
	ParseSession(ctx context.Context, tokenString string) (*models.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	cfg      *config.Config
	validate *validator.Validate
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) AuthService {
	return &authService{
		userRepo: userRepo,
		cfg:      cfg,
		validate: newValidator(),
	}
}

// Signup creates the account and logs the new user in.
func (s *authService) Signup(ctx context.Context, req SignupRequest) (*models.User, string, error) {
	if err := validate(s.validate, req); err != nil {
		return nil, "", err
	}

	user := &models.User{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}

	err := s.userRepo.CreateUser(ctx, user, req.Password)
	if err != nil {
		if repository.IsConstraintViolation(err, repository.UniqueViolation) {
			return nil, "", fieldError("username", "Пользователь с таким именем уже существует.")
		}
		return nil, "", fmt.Errorf("ошибка при регистрации: %w", err)
	}

	token, err := s.generateSessionToken(user)
	if err != nil {
		return nil, "", err
	}

	logger.L.Info("user signed up", zap.Int64("user_id", user.UserID), zap.String("username", user.Username))
	return user, token, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	user, err := s.userRepo.VerifyPassword(ctx, username, password)
	if err != nil {
		if errors.Is(err, repository.ErrWrongPassword) || errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("ошибка аутентификации: %w", err)
	}

	token, err := s.generateSessionToken(user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// ParseSession validates the cookie token and reloads the user, so a session
// of a removed account stops working at once.
func (s *authService) ParseSession(ctx context.Context, tokenString string) (*models.User, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("неожиданный метод подписи: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: ошибка парсинга токена: %w", ErrInvalidSession, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: недействительный токен", ErrInvalidSession)
	}

	rawID, ok := claims["userId"].(float64)
	if !ok {
		return nil, fmt.Errorf("%w: неверные данные в токене", ErrInvalidSession)
	}

	user, err := s.userRepo.GetUserByID(ctx, int64(rawID))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки пользователя сессии: %w", err)
	}

	return user, nil
}

func (s *authService) generateSessionToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"userId":   user.UserID,
		"username": user.Username,
		"exp":      now.Add(s.cfg.SessionDuration).Unix(),
		"iat":      now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.cfg.JWTSecretKey))
	if err != nil {
		return "", fmt.Errorf("ошибка подписи токена: %w", err)
	}

	return tokenString, nil
}
