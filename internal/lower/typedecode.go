package lower

import (
	"fmt"
	"strconv"

	"github.com/olix3001/ccash/internal/ast"
	"github.com/olix3001/ccash/internal/cst"
	"github.com/olix3001/ccash/internal/lexer"
)

// DecodeType maps a type literal token to its semantic type.
//
// The width is whatever follows a fixed-length prefix: three characters
// ("int") for integer literals and five ("float") for float literals. The
// remainder must be a positive decimal integer with no sign.
func DecodeType(kind cst.LiteralKind, token string) (ast.Type, error) {
	switch kind {
	case cst.IntLiteral:
		width, err := decodeWidth(token, lexer.IntTypePrefix)
		if err != nil {
			return nil, err
		}
		t, err := ast.NewIntType(width)
		if err != nil {
			return nil, err
		}
		return t, nil
	case cst.FloatLiteral:
		width, err := decodeWidth(token, lexer.FloatTypePrefix)
		if err != nil {
			return nil, err
		}
		t, err := ast.NewFloatType(width)
		if err != nil {
			return nil, err
		}
		return t, nil
	default:
		return nil, fmt.Errorf("%w: type literal kind %s", ErrUnsupportedConstruct, kind)
	}
}

func decodeWidth(token, prefix string) (int, error) {
	if len(token) <= len(prefix) || token[:len(prefix)] != prefix {
		return 0, fmt.Errorf("%w: %q is not of the form %s<width>", ErrMalformedWidth, token, prefix)
	}
	digits := token[len(prefix):]
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return 0, fmt.Errorf("%w: %q has non-numeric width %q", ErrMalformedWidth, token, digits)
		}
	}
	width, err := strconv.ParseInt(digits, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q width out of range: %w", ErrMalformedWidth, token, err)
	}
	if width <= 0 {
		return 0, fmt.Errorf("%w: %q width must be positive", ErrMalformedWidth, token)
	}
	return int(width), nil
}
