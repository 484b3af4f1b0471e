package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	intconfig "rideshare/internal/config"
	"rideshare/internal/domain"
	"rideshare/internal/domain/models"
	"rideshare/internal/repositories"
	"rideshare/internal/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// Claims is the JWT payload issued at login.
type Claims struct {
	UserID domain.ID `json:"user_id"`
	Role   string    `json:"role"`
	jwt.RegisteredClaims
}

type AuthService struct {
	DB        *sqlx.DB
	Secret    []byte
	TTL       time.Duration
	RequestID string
	Now       func() time.Time
}

func (s AuthService) db() *sqlx.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return utils.NowUTC()
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

func (s AuthService) Register(ctx context.Context, in RegisterInput) (models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Name == "" {
		return models.User{}, domain.ValidationError{Field: "name", Msg: "required"}
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return models.User{}, domain.ValidationError{Field: "email", Msg: "invalid email address"}
	}
	if len(in.Password) < 8 {
		return models.User{}, domain.ValidationError{Field: "password", Msg: "must be at least 8 characters"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, domain.InternalError{Msg: "failed to hash password", Err: err}
	}

	db := s.db()
	if db == nil {
		return models.User{}, domain.TransportError{Op: "register"}
	}
	user := models.User{
		Name:         in.Name,
		Email:        in.Email,
		Phone:        strings.TrimSpace(in.Phone),
		PasswordHash: string(hash),
		Role:         "user",
		CreatedAt:    s.now(),
	}
	id, err := repositories.UserRepo{DB: db}.Create(ctx, user)
	if err != nil {
		if domain.IsConflict(err) {
			return models.User{}, err
		}
		return models.User{}, domain.TransportError{Op: "insert user", Err: err}
	}
	user.ID = id

	utils.LogEventf(s.RequestID, "auth", "register", "user_id=%d", id)
	return user, nil
}

// Login checks the password and returns a signed token.
func (s AuthService) Login(ctx context.Context, email, password string) (string, models.User, error) {
	db := s.db()
	if db == nil {
		return "", models.User{}, domain.TransportError{Op: "login"}
	}
	user, err := repositories.UserRepo{DB: db}.GetByEmail(ctx, email)
	if err != nil {
		if domain.IsNotFound(err) {
			return "", models.User{}, ErrInvalidCredentials
		}
		return "", models.User{}, domain.TransportError{Op: "read user", Err: err}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", models.User{}, ErrInvalidCredentials
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return "", models.User{}, domain.InternalError{Msg: "failed to sign token", Err: err}
	}
	utils.LogEventf(s.RequestID, "auth", "login", "user_id=%d", user.ID)
	return token, user, nil
}

func (s AuthService) IssueToken(user models.User) (string, error) {
	ttl := s.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	now := s.now()
	claims := Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
}

// ParseToken verifies signature and expiry and returns the claims.
func ParseToken(secret []byte, raw string) (Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Claims{}, err
	}
	if !token.Valid || claims.UserID <= 0 {
		return Claims{}, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
