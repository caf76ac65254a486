package services

import (
	"strconv"
	"time"

	"github.com/Santhu8632/metamorphosisworkshop/internal/models"
	"github.com/Santhu8632/metamorphosisworkshop/internal/repository"
	"github.com/Santhu8632/metamorphosisworkshop/pkg/logger"
	"github.com/Santhu8632/metamorphosisworkshop/pkg/metrics"

	"github.com/cockroachdb/errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const invalidCredentialsMessage = "Invalid username or password"

// dummyHash сравнивается с паролем, когда пользователь не найден,
// чтобы время ответа не выдавало существование имени
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("metamorphosis-timing-guard"), bcrypt.DefaultCost)

// AuthService представляет сервис авторизации администратора
type AuthService struct {
	adminRepo   *repository.AdminRepository
	sessionRepo *repository.SessionRepository
	secret      []byte
	ttl         time.Duration
	now         func() time.Time
	log         *logger.Logger
}

// NewAuthService создает новый сервис авторизации
func NewAuthService(
	adminRepo *repository.AdminRepository,
	sessionRepo *repository.SessionRepository,
	secret string,
	ttl time.Duration,
	log *logger.Logger,
) *AuthService {
	return &AuthService{
		adminRepo:   adminRepo,
		sessionRepo: sessionRepo,
		secret:      []byte(secret),
		ttl:         ttl,
		now:         func() time.Time { return time.Now().UTC() },
		log:         log.Named("auth"),
	}
}

// ClientInfo описывает клиента, с которого выполняется вход
type ClientInfo struct {
	UserAgent  string
	RemoteAddr string
}

// LoginResult представляет результат успешного входа
type LoginResult struct {
	Admin     *models.Admin
	Token     string
	ExpiresAt time.Time
}

// sessionClaims — содержимое подписанного cookie сессии
type sessionClaims struct {
	jwt.RegisteredClaims
}

// Login проверяет учетные данные и открывает сессию.
// Ошибка всегда одна и та же, что бы ни было неверно.
func (s *AuthService) Login(username, password string, client ClientInfo) (*LoginResult, error) {
	admin, err := s.adminRepo.GetActiveByUsername(username)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Wrap(err, "failed to load admin")
		}
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		metrics.LoginAttempts.WithLabelValues("rejected").Inc()
		return nil, errors.WithHint(ErrInvalidCredentials, invalidCredentialsMessage)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(password)); err != nil {
		metrics.LoginAttempts.WithLabelValues("rejected").Inc()
		return nil, errors.WithHint(ErrInvalidCredentials, invalidCredentialsMessage)
	}

	now := s.now()
	session := &models.AdminSession{
		ID:         uuid.New().String(),
		AdminID:    admin.ID,
		UserAgent:  truncate(client.UserAgent, 255),
		RemoteAddr: truncate(client.RemoteAddr, 64),
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.ttl),
	}
	if err := s.sessionRepo.Create(session); err != nil {
		return nil, errors.Wrap(err, "failed to create session")
	}

	if err := s.adminRepo.TouchLastLogin(admin.ID, now); err != nil {
		_ = s.sessionRepo.Delete(session.ID)
		return nil, errors.Wrap(err, "failed to record last login")
	}
	admin.LastLogin = &now

	token, err := s.sign(session)
	if err != nil {
		_ = s.sessionRepo.Delete(session.ID)
		return nil, err
	}

	metrics.LoginAttempts.WithLabelValues("accepted").Inc()
	s.log.Infow("admin logged in", "admin_id", admin.ID, "session_id", session.ID)

	return &LoginResult{Admin: admin, Token: token, ExpiresAt: session.ExpiresAt}, nil
}

// Authenticate проверяет токен сессии и возвращает администратора
func (s *AuthService) Authenticate(token string) (*models.Admin, error) {
	claims, err := s.parse(token)
	if err != nil {
		return nil, err
	}

	session, err := s.sessionRepo.GetByID(claims.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Wrap(ErrUnauthenticated, "session revoked")
		}
		return nil, errors.Wrap(err, "failed to load session")
	}

	if session.IsExpired(s.now()) || strconv.FormatUint(uint64(session.AdminID), 10) != claims.Subject {
		return nil, errors.Wrap(ErrUnauthenticated, "session expired")
	}

	admin, err := s.adminRepo.GetByID(session.AdminID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Wrap(ErrUnauthenticated, "admin removed")
		}
		return nil, errors.Wrap(err, "failed to load admin")
	}
	if !admin.IsActive {
		return nil, errors.Wrap(ErrUnauthenticated, "admin disabled")
	}

	return admin, nil
}

// Logout удаляет сессию, на которую указывает токен.
// Недействительный токен не считается ошибкой.
func (s *AuthService) Logout(token string) error {
	claims, err := s.parse(token)
	if err != nil {
		return nil
	}
	if err := s.sessionRepo.Delete(claims.ID); err != nil {
		return errors.Wrap(err, "failed to delete session")
	}
	s.log.Infow("admin logged out", "session_id", claims.ID)
	return nil
}

// PurgeExpiredSessions удаляет истекшие сессии
func (s *AuthService) PurgeExpiredSessions() (int64, error) {
	return s.sessionRepo.DeleteExpired(s.now())
}

// TTL возвращает время жизни сессии
func (s *AuthService) TTL() time.Duration {
	return s.ttl
}

func (s *AuthService) sign(session *models.AdminSession) (string, error) {
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        session.ID,
			Subject:   strconv.FormatUint(uint64(session.AdminID), 10),
			IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign session token")
	}
	return signed, nil
}

func (s *AuthService) parse(tokenString string) (*sessionClaims, error) {
	if tokenString == "" {
		return nil, ErrUnauthenticated
	}

	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, errors.Wrapf(ErrUnauthenticated, "invalid token: %v", err)
	}
	if claims.ID == "" {
		return nil, errors.Wrap(ErrUnauthenticated, "token without session id")
	}

	return claims, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
