package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/enrudae/TutorToolkit/internal/apperrors"
	"github.com/enrudae/TutorToolkit/internal/models"
	"github.com/enrudae/TutorToolkit/internal/repository"
)

// AuthService представляет сервис авторизации
type AuthService struct {
	users         repository.UserRepository
	invitations   StudentInvitationService
	jwtSecret     string
	jwtExpiration time.Duration
}

// NewAuthService создает новый сервис авторизации
func NewAuthService(
	users repository.UserRepository,
	invitations StudentInvitationService,
	jwtSecret string,
	jwtExpiration time.Duration,
) *AuthService {
	return &AuthService{
		users:         users,
		invitations:   invitations,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

// AuthResult представляет результат авторизации
type AuthResult struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
	Role  string       `json:"role"`
}

// RegisterTutor регистрирует репетитора
func (s *AuthService) RegisterTutor(email, password, firstName, lastName string) (*AuthResult, error) {
	if email == "" || len(password) < 8 {
		return nil, apperrors.ErrValidation
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:                        uuid.New(),
		Email:                     email,
		PasswordHash:              string(hash),
		Role:                      models.RoleTutor,
		FirstName:                 firstName,
		LastName:                  lastName,
		ReceiveEmailNotifications: true,
	}
	if err := s.users.Create(user); err != nil {
		return nil, err
	}

	return s.buildAuthResult(user)
}

// RegisterStudent регистрирует ученика по коду приглашения: аккаунт
// создается и сразу привязывается к плану, имя берется из данных,
// заполненных репетитором
func (s *AuthService) RegisterStudent(email, password, inviteCode string) (*AuthResult, error) {
	if email == "" || len(password) < 8 || inviteCode == "" {
		return nil, apperrors.ErrValidation
	}

	plan, err := s.invitations.CheckInviteCode(inviteCode)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:                        uuid.New(),
		Email:                     email,
		PasswordHash:              string(hash),
		Role:                      models.RoleStudent,
		FirstName:                 plan.StudentFirstName,
		LastName:                  plan.StudentLastName,
		ReceiveEmailNotifications: true,
	}
	if err := s.users.Create(user); err != nil {
		return nil, err
	}

	if _, err := s.invitations.AddStudentToEducationPlan(inviteCode, user.ID); err != nil {
		return nil, err
	}

	return s.buildAuthResult(user)
}

// Login авторизует пользователя по email и паролю
func (s *AuthService) Login(email, password string) (*AuthResult, error) {
	user, err := s.users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperrors.ErrPermissionDenied
	}

	return s.buildAuthResult(user)
}

// ValidateToken проверяет JWT токен и возвращает пользователя
func (s *AuthService) ValidateToken(tokenString string) (*models.User, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	idValue, ok := claims["user_id"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	userID, err := uuid.Parse(idValue)
	if err != nil {
		return nil, fmt.Errorf("invalid user id in token")
	}

	return s.users.GetByID(userID)
}

func (s *AuthService) buildAuthResult(user *models.User) (*AuthResult, error) {
	token, err := s.generateJWT(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResult{User: user, Token: token, Role: string(user.Role)}, nil
}

func (s *AuthService) generateJWT(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"role":    string(user.Role),
		"exp":     time.Now().Add(s.jwtExpiration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}
