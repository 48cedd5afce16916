package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/m04kA/DS-BookingService/internal/api/handlers"
)

const (
	msgMissingToken = "authorization token is required"
	msgInvalidToken = "invalid or expired token"
	msgAdminOnly    = "admin access required"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Auth проверяет bearer-токен и кладет uid и признак администратора
// в контекст запроса. Ядро сервиса про JWT не знает.
type Auth struct {
	secret    []byte
	adminUIDs map[string]struct{}
	logger    Logger
}

// NewAuth создает middleware аутентификации.
// adminUIDs - допуск-список администраторов из конфигурации.
func NewAuth(secret string, adminUIDs []string, logger Logger) *Auth {
	admins := make(map[string]struct{}, len(adminUIDs))
	for _, uid := range adminUIDs {
		admins[uid] = struct{}{}
	}
	return &Auth{
		secret:    []byte(secret),
		adminUIDs: admins,
		logger:    logger,
	}
}

// Authenticate пропускает только запросы с валидным bearer-токеном
func (a *Auth) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, err := a.parseToken(r)
		if err != nil {
			a.logger.Warn("%s %s - unauthorized: %v", r.Method, r.URL.Path, err)
			msg := msgInvalidToken
			if r.Header.Get("Authorization") == "" {
				msg = msgMissingToken
			}
			handlers.RespondUnauthorized(w, msg)
			return
		}

		ctx := WithUserUID(r.Context(), uid)
		_, isAdmin := a.adminUIDs[uid]
		ctx = WithIsAdmin(ctx, isAdmin)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin пропускает только администраторов из допуск-списка.
// Вешается поверх Authenticate: 401 и 403 различаются.
func (a *Auth) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, ok := GetUserUID(r.Context())
		if !ok {
			handlers.RespondUnauthorized(w, msgMissingToken)
			return
		}
		if !IsAdmin(r.Context()) {
			a.logger.Warn("%s %s - admin access denied for uid=%s", r.Method, r.URL.Path, uid)
			handlers.RespondForbidden(w, msgAdminOnly)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// parseToken достает и проверяет bearer-токен, возвращает uid из claim sub
func (a *Auth) parseToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", errors.New("missing authorization header")
	}

	raw, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return "", errors.New("authorization header is not a bearer token")
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", errors.New("token has no subject")
	}

	return subject, nil
}
