package polystash

import "errors"

var (
	ErrNotInitialized     = errors.New("cache is not initialized")
	ErrAlreadyInitialized = errors.New("cache is already initialized")
	ErrEncode             = errors.New("value cannot be encoded")
	ErrDecode             = errors.New("payload cannot be decoded")
	ErrKeyNotFound        = errors.New("key not found")
	ErrClosed             = errors.New("cache is closed")
	ErrInvalidConfig      = errors.New("invalid configuration")
)
