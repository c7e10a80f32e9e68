package constants

import (
	"github.com/go-playground/validator/v10"
)

type ContextKey int

const (
	PoolKey ContextKey = iota
	TxKey
	LoggerKey
	UserKey
	RequestIDKey
)

var Validate = validator.New(validator.WithRequiredStructEnabled())
