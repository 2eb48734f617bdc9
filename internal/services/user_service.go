package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"restaurant_ordering/internal/models"
	"restaurant_ordering/internal/repository"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterInput struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type ProfileInput struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User, password string) error
	Login(ctx context.Context, username, password string) (string, *models.User, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*Session, error)
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uint, in ProfileInput) (*models.User, error)
}

type userService struct {
	userRepo   repository.UserRepository
	sessions   SessionStore
	sessionTTL time.Duration
}

func NewUserService(userRepo repository.UserRepository, sessions SessionStore, sessionTTL time.Duration) UserService {
	return &userService{userRepo: userRepo, sessions: sessions, sessionTTL: sessionTTL}
}

func (s *userService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	fields := fieldErrors{}
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	if in.Username == "" {
		fields.add("username", "this field is required")
	} else if len(in.Username) > 150 {
		fields.add("username", "ensure this field has no more than 150 characters")
	}
	if !validEmail(in.Email) {
		fields.add("email", "enter a valid email address")
	}
	if len(in.Password) < 8 {
		fields.add("password", "password must contain at least 8 characters")
	}
	if err := fields.err(); err != nil {
		return nil, err
	}

	taken, err := s.userRepo.UsernameTaken(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		fields.add("username", "a user with that username already exists")
	}
	taken, err = s.userRepo.EmailTaken(ctx, in.Email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		fields.add("email", "this email is already in use")
	}
	if err := fields.err(); err != nil {
		return nil, err
	}

	user := &models.User{
		Username:  in.Username,
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Role:      string(models.Customer),
	}
	if err := s.CreateUser(ctx, user, in.Password); err != nil {
		return nil, err
	}
	return user, nil
}

// PrepareAccount hashes the password onto user and fills the defaults a new
// login needs. Nothing is persisted.
func PrepareAccount(user *models.User, password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hashedPassword)
	user.IsActive = true
	if user.Role == "" {
		user.Role = string(models.Customer)
	}
	return nil
}

func (s *userService) CreateUser(ctx context.Context, user *models.User, password string) error {
	if err := PrepareAccount(user, password); err != nil {
		return err
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return invalid("username", "a user with that username or email already exists")
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *userService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !user.IsActive {
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token := uuid.NewString()
	session := &Session{
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		CreatedAt: time.Now(),
	}
	if err := s.sessions.SetSession(ctx, token, session, s.sessionTTL); err != nil {
		return "", nil, fmt.Errorf("failed to store session: %w", err)
	}
	return token, user, nil
}

func (s *userService) Logout(ctx context.Context, token string) error {
	return s.sessions.DeleteSession(ctx, token)
}

func (s *userService) Authenticate(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrInvalidCredentials
	}
	session, err := s.sessions.GetSession(ctx, token)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrInvalidCredentials
	}
	return session, nil
}

func (s *userService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return user, nil
}

// UpdateProfile replaces email and names. The email must not belong to another user.
func (s *userService) UpdateProfile(ctx context.Context, userID uint, in ProfileInput) (*models.User, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	in.Email = strings.TrimSpace(in.Email)
	if !validEmail(in.Email) {
		return nil, invalid("email", "enter a valid email address")
	}
	taken, err := s.userRepo.EmailTaken(ctx, in.Email, user.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, invalid("email", "this email is already in use")
	}

	user.Email = in.Email
	user.FirstName = in.FirstName
	user.LastName = in.LastName
	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, invalid("email", "this email is already in use")
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

func validEmail(email string) bool {
	if email == "" || len(email) > 254 {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email && strings.Contains(email[strings.LastIndex(email, "@")+1:], ".")
}
