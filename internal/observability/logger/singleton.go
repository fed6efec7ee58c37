package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	once sync.Once
	root *zap.Logger
)

// Init construye el logger global a partir de la configuración. Solo la
// primera llamada tiene efecto; las siguientes son no-ops, de modo que los
// tests pueden usar L() sin coordinar un Init previo.
func Init(cfg Config) {
	once.Do(func() {
		root = build(cfg)
	})
}

// L retorna el logger global. Si nadie llamó a Init, se inicializa con
// defaults de desarrollo (consola, nivel info).
func L() *zap.Logger {
	if root == nil {
		Init(Config{Env: "dev", Level: "info"})
	}
	return root
}

// Named cuelga un subcomponente del logger global ("main", "app", "realtime").
func Named(name string) *zap.Logger {
	return L().Named(name)
}

// Sync descarga los buffers pendientes. Pensado para defer en main.
func Sync() error {
	if root == nil {
		return nil
	}
	return root.Sync()
}
