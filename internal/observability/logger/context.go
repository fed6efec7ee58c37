package logger

import (
	"context"

	"go.uber.org/zap"
)

// Clave propia: ningún otro paquete puede pisar el logger del contexto.
type ctxKey struct{}

// ToContext guarda un logger en el contexto. El middleware de logging lo usa
// para que handlers y services hereden los campos del request (request_id,
// method, path) sin pasarlos a mano.
func ToContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// From recupera el logger del contexto. Nunca retorna nil: sin logger en el
// contexto (o con ctx nil) cae al global, así que From(ctx) es seguro en
// cualquier punto del código.
func From(ctx context.Context) *zap.Logger {
	if ctx == nil {
		return L()
	}
	if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok && l != nil {
		return l
	}
	return L()
}
