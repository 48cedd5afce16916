package middleware

import "context"

type ctxKey int

const (
	userUIDKey ctxKey = iota
	isAdminKey
)

// WithUserUID кладет uid аутентифицированного пользователя в контекст
func WithUserUID(ctx context.Context, uid string) context.Context {
	return context.WithValue(ctx, userUIDKey, uid)
}

// GetUserUID достает uid аутентифицированного пользователя из контекста
func GetUserUID(ctx context.Context) (string, bool) {
	uid, ok := ctx.Value(userUIDKey).(string)
	return uid, ok
}

// WithIsAdmin помечает контекст признаком администратора
func WithIsAdmin(ctx context.Context, isAdmin bool) context.Context {
	return context.WithValue(ctx, isAdminKey, isAdmin)
}

// IsAdmin возвращает признак администратора из контекста
func IsAdmin(ctx context.Context) bool {
	isAdmin, ok := ctx.Value(isAdminKey).(bool)
	return ok && isAdmin
}
