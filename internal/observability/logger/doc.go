// Package logger es el logging estructurado del servidor, sobre zap.
//
// Hay un logger global (Init una vez en main, L() en el resto) y un logger
// por request que el middleware de logging inyecta en el contexto con los
// campos del request ya cargados. El código de negocio siempre arranca de
// From(ctx) y agrega sus propios campos:
//
//	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("auth"))
//	log.Info("user signed up", logger.UserID(id))
//
// En "dev" la salida es consola con colores; en "prod", JSON. El nivel se
// controla con Config.Level.
package logger
