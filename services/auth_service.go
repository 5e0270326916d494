package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"classquiz/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SessionCookieName is the cookie that carries the signed session token.
const SessionCookieName = "classquiz_session"

const flashTTL = 10 * time.Minute

// Flash is a one-time status message shown on the next rendered page.
type Flash struct {
	Kind    string `json:"kind"` // "success" or "error"
	Message string `json:"message"`
}

type sessionRecord struct {
	UserID    uint      `json:"user_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// AuthService authenticates users and owns the server-side session state.
// The cookie holds a signed token naming a session ID; the authoritative
// record lives in redis so logout revokes it immediately.
type AuthService struct {
	db     *gorm.DB
	redis  *redis.Client
	secret []byte
	ttl    time.Duration
	log    *zap.Logger
}

func NewAuthService(db *gorm.DB, redisClient *redis.Client, secret string, ttl time.Duration, log *zap.Logger) *AuthService {
	return &AuthService{
		db:     db,
		redis:  redisClient,
		secret: []byte(secret),
		ttl:    ttl,
		log:    log,
	}
}

func (s *AuthService) Register(name, email, password, role string) (*models.User, error) {
	hash, err := bcryptHash(password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Login verifies the credentials and opens a session. The returned token is
// the cookie value.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	var user models.User
	err := s.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", ErrInvalidLogin
	}
	if err != nil {
		return nil, "", err
	}

	if !bcryptCompare(user.PasswordHash, password) {
		return nil, "", ErrInvalidLogin
	}

	sessionID := uuid.NewString()
	record := sessionRecord{
		UserID:    user.ID,
		Role:      user.Role,
		CreatedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(record)
	if err != nil {
		return nil, "", err
	}
	if err := s.redis.Set(ctx, "session:"+sessionID, data, s.ttl).Err(); err != nil {
		return nil, "", fmt.Errorf("failed to store session: %w", err)
	}

	claims := sessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(user.ID),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, "", err
	}

	s.log.Info("user logged in", zap.Uint("user_id", user.ID), zap.String("role", user.Role))
	return &user, token, nil
}

// Authenticate resolves a cookie token back to a user. Any failure along
// the way (bad signature, expired token, revoked session, deleted user) is
// reported as a plain error; callers treat it as "no session".
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, string, error) {
	parsed, err := jwt.ParseWithClaims(token, &sessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, "", err
	}
	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || !parsed.Valid || claims.SessionID == "" {
		return nil, "", errors.New("invalid session token")
	}

	data, err := s.redis.Get(ctx, "session:"+claims.SessionID).Result()
	if err != nil {
		if err != redis.Nil {
			s.log.Error("redis error loading session", zap.Error(err))
		}
		return nil, "", errors.New("session not found")
	}

	var record sessionRecord
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		return nil, "", err
	}

	var user models.User
	if err := s.db.First(&user, record.UserID).Error; err != nil {
		return nil, "", errors.New("session user not found")
	}

	return &user, claims.SessionID, nil
}

// Logout deletes the session record; the cookie token is useless afterward.
func (s *AuthService) Logout(ctx context.Context, sessionID string) {
	if err := s.redis.Del(ctx, "session:"+sessionID, "flash:"+sessionID).Err(); err != nil {
		s.log.Error("redis error deleting session", zap.Error(err))
	}
}

// SetFlash stores the status message shown on the next rendered page.
func (s *AuthService) SetFlash(ctx context.Context, sessionID, kind, message string) {
	if sessionID == "" {
		return
	}
	data, err := json.Marshal(Flash{Kind: kind, Message: message})
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, "flash:"+sessionID, data, flashTTL).Err(); err != nil {
		s.log.Error("redis error storing flash", zap.Error(err))
	}
}

// PopFlash reads and clears the pending flash message, if any.
func (s *AuthService) PopFlash(ctx context.Context, sessionID string) *Flash {
	if sessionID == "" {
		return nil
	}
	data, err := s.redis.GetDel(ctx, "flash:"+sessionID).Result()
	if err != nil {
		if err != redis.Nil {
			s.log.Error("redis error reading flash", zap.Error(err))
		}
		return nil
	}

	var flash Flash
	if err := json.Unmarshal([]byte(data), &flash); err != nil {
		return nil
	}
	return &flash
}
