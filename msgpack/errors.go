package msgpack

import "errors"

// Errors
var (
	ErrUnexpectedEof           = errors.New("msgpack: unexpected end of input")
	ErrReservedCode            = errors.New("msgpack: reserved code 0xc1")
	ErrUnsupportedExt          = errors.New("msgpack: ext types are not supported")
	ErrInvalidInteger          = errors.New("msgpack: integer does not fit the target type")
	ErrInvalidType             = errors.New("msgpack: invalid type")
	ErrInvalidUnicodeCodePoint = errors.New("msgpack: string is not valid utf-8")
	ErrExpectedInteger         = errors.New("msgpack: expected an integer")
	ErrExpectedNumber          = errors.New("msgpack: expected a number")
	ErrExpectedString          = errors.New("msgpack: expected a string")
	ErrExpectedBin             = errors.New("msgpack: expected a binary blob")
	ErrExpectedNil             = errors.New("msgpack: expected nil")
	ErrExpectedBool            = errors.New("msgpack: expected a boolean")
	ErrExpectedArray           = errors.New("msgpack: expected an array")
	ErrExpectedMap             = errors.New("msgpack: expected a map")
	ErrExpectedStruct          = errors.New("msgpack: expected an array or map")
	ErrExpectedEnum            = errors.New("msgpack: expected an enum value")
	ErrExpectedIdentifier      = errors.New("msgpack: expected a string or integer identifier")
	ErrTrailingElements        = errors.New("msgpack: container has unconsumed elements")
	ErrInvalidLength           = errors.New("msgpack: length does not fit in memory")
)
