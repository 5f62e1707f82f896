// Package auth содержит логику бизнес-уровня для регистрации и аутентификации пользователей.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/beachcast/internal/lib/jwt"
	"github.com/magabrotheeeer/beachcast/internal/lib/password"
	"github.com/magabrotheeeer/beachcast/internal/models"
)

// ErrInvalidCredentials возвращается при неверном имени пользователя или пароле.
var ErrInvalidCredentials = errors.New("invalid credentials")

// trialDays — длительность пробного периода нового пользователя.
const trialDays = 7

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)

	// GetUserByUsername возвращает пользователя по имени или ошибку, если не найден.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// AuthService отвечает за регистрацию и авторизацию пользователей.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
	now      func() time.Time
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
		now:      time.Now,
	}
}

// Register создает нового пользователя с хэшированием пароля, дефолтной ролью "user"
// и пробным периодом, открытым с момента регистрации.
func (s *AuthService) Register(ctx context.Context, req models.DummyRegister) (string, error) {
	const op = "services.auth.Register"

	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	trialEndDate := s.now().UTC().AddDate(0, 0, trialDays)
	user := models.User{
		Email:              req.Email,
		Username:           req.Username,
		PasswordHash:       hashed,
		Role:               "user",
		Tier:               "free",
		SubscriptionStatus: "trial",
		TrialEndDate:       &trialEndDate,
	}
	uid, err := s.users.RegisterUser(ctx, user)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return uid, nil
}

// Login проверяет пароль пользователя и генерирует JWT.
func (s *AuthService) Login(ctx context.Context, req models.DummyLogin) (token, role string, err error) {
	const op = "services.auth.Login"

	user, err := s.users.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return "", "", ErrInvalidCredentials
	}
	if err := password.CompareHash(user.PasswordHash, req.Password); err != nil {
		return "", "", ErrInvalidCredentials
	}
	token, err = s.jwtMaker.GenerateToken(user.Username, user.Role, user.UID)
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}
	return token, user.Role, nil
}
