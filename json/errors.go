package json

import "errors"

// Errors
var (
	ErrUnexpectedEof            = errors.New("json: unexpected end of input")
	ErrInvalidEscapeSequence    = errors.New("json: invalid escape sequence")
	ErrStringControlChar        = errors.New("json: control character in string")
	ErrExpectedColon            = errors.New("json: expected ':'")
	ErrExpectedArrayCommaOrEnd  = errors.New("json: expected ',' or ']'")
	ErrLeadingArrayComma        = errors.New("json: leading comma in array")
	ErrTrailingArrayComma       = errors.New("json: trailing comma in array")
	ErrExpectedObjectCommaOrEnd = errors.New("json: expected ',' or '}'")
	ErrLeadingObjectComma       = errors.New("json: leading comma in object")
	ErrTrailingObjectComma      = errors.New("json: trailing comma in object")
	ErrExpectedToken            = errors.New("json: expected token")
	ErrExpectedNull             = errors.New("json: expected null")
	ErrExpectedString           = errors.New("json: expected string")
	ErrExpectedArrayEnd         = errors.New("json: expected end of array")
	ErrExpectedArray            = errors.New("json: expected array")
	ErrExpectedObject           = errors.New("json: expected object")
	ErrExpectedEnumValue        = errors.New("json: expected string or object for enum")
	ErrExpectedEnumObjectEnd    = errors.New("json: expected end of enum object")
	ErrInvalidNumber            = errors.New("json: invalid number")
	ErrInvalidType              = errors.New("json: invalid type")
	ErrInvalidUnicodeCodePoint  = errors.New("json: invalid unicode code point")
	ErrKeyMustBeAString         = errors.New("json: object key must be a string")
	ErrTrailingCharacters       = errors.New("json: trailing characters")
	ErrUnexpectedChar           = errors.New("json: unexpected character")
	ErrInvalidLength            = errors.New("json: invalid length")

	// serializer-side
	ErrInvalidKeyType = errors.New("json: map key cannot be encoded as a string")
)
