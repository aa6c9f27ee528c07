package logger

import (
	"time"

	"go.uber.org/zap"
)

// Campos estándar HTTP.

func RequestID(v string) zap.Field { return zap.String("request_id", v) }
func Method(v string) zap.Field    { return zap.String("method", v) }
func Path(v string) zap.Field      { return zap.String("path", v) }
func Status(v int) zap.Field       { return zap.Int("status", v) }
func Bytes(v int) zap.Field        { return zap.Int("bytes", v) }

// DurationMs crea un campo para la duración en milisegundos.
func DurationMs(v time.Duration) zap.Field { return zap.Int64("duration_ms", v.Milliseconds()) }

// Campos estándar de negocio.

func UserID(v string) zap.Field    { return zap.String("user_id", v) }
func Username(v string) zap.Field  { return zap.String("username", v) }
func ClientID(v string) zap.Field  { return zap.String("client_id", v) }
func GrantType(v string) zap.Field { return zap.String("grant_type", v) }
func Role(v string) zap.Field      { return zap.String("role", v) }

// Campos estándar de sistema.

func Component(v string) zap.Field { return zap.String("component", v) }
func Op(v string) zap.Field        { return zap.String("op", v) }
func Layer(v string) zap.Field     { return zap.String("layer", v) }
func Err(err error) zap.Field      { return zap.Error(err) }
