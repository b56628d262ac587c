package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const issuer = "jotpad"

// ErrInvalidPassword - пароль локального API не совпал.
var ErrInvalidPassword = errors.New("invalid password")

// Claims структура для JWT локального API.
type Claims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

// Service выдает и проверяет токены локального API.
// Если пароль не задан, API открыт и токены не нужны.
type Service struct {
	secret       []byte
	passwordHash []byte
	ttl          time.Duration
}

// NewService хэширует пароль через bcrypt. Пустой secret заменяется случайным:
// тогда токены не переживают перезапуск.
func NewService(password, secret string, ttl time.Duration) (*Service, error) {
	s := &Service{ttl: ttl}
	if secret == "" {
		secret = uuid.NewString() + uuid.NewString()
	}
	s.secret = []byte(secret)
	if ttl <= 0 {
		s.ttl = 24 * time.Hour
	}
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("could not hash password: %w", err)
		}
		s.passwordHash = hash
	}
	return s, nil
}

// Enabled сообщает, требует ли API токен.
func (s *Service) Enabled() bool {
	return len(s.passwordHash) > 0
}

// IssueToken проверяет пароль и создает новый JWT.
func (s *Service) IssueToken(password string) (string, time.Time, error) {
	if !s.Enabled() {
		return "", time.Time{}, errors.New("authentication is disabled")
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		return "", time.Time{}, ErrInvalidPassword
	}

	expirationTime := time.Now().Add(s.ttl)
	claims := &Claims{
		Scope: "api",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("could not sign token: %w", err)
	}
	return tokenString, expirationTime, nil
}

// ValidateToken проверяет JWT и возвращает claims, если токен валиден.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})

	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) {
			if ve.Errors&jwt.ValidationErrorMalformed != 0 {
				return nil, fmt.Errorf("token is malformed")
			} else if ve.Errors&(jwt.ValidationErrorExpired|jwt.ValidationErrorNotValidYet) != 0 {
				return nil, fmt.Errorf("token is expired or not active yet")
			}
		}
		return nil, fmt.Errorf("couldn't handle this token: %w", err)
	}

	if !token.Valid || claims.Issuer != issuer {
		return nil, fmt.Errorf("token is invalid")
	}
	return claims, nil
}
