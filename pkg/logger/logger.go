package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log = zap.NewNop()

// Init construye el logger global. level acepta debug|info|warn|error; si no se
// reconoce se usa info.
func Init(level string) error {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "json" // Logs estructurados en JSON
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.MessageKey = "msg"
	cfg.EncoderConfig.LevelKey = "level"
	cfg.EncoderConfig.CallerKey = "caller"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	built, err := cfg.Build()
	if err != nil {
		return err
	}
	log = built
	return nil
}

// Logger retorna el logger estructurado
func Logger() *zap.Logger {
	return log
}

// Sugar retorna un logger más "friendly" para usar con printf-like
func Sugar() *zap.SugaredLogger {
	return log.Sugar()
}

// Sync vacía los buffers; llamar antes de salir.
func Sync() {
	_ = log.Sync()
}
