package ast

import (
	"fmt"
	"strconv"
)

// Type is a resolved semantic type. Types are values: two types are equal
// exactly when == reports them equal.
type Type interface {
	Node
	// Width returns the bit width; always positive for a constructed type.
	Width() int
	String() string
	typeNode()
}

// IntType is a signed integer type of a fixed bit width.
type IntType struct {
	width int
}

// NewIntType returns the integer type of the given width.
func NewIntType(width int) (IntType, error) {
	if width <= 0 {
		return IntType{}, fmt.Errorf("%w: int width must be positive, got %d", ErrInvalidNode, width)
	}
	return IntType{width: width}, nil
}

func (t IntType) Width() int { return t.width }
func (t IntType) String() string { return "int" + strconv.Itoa(t.width) }
func (IntType) astNode() {}
func (IntType) typeNode() {}

// FloatType is a floating-point type of a fixed bit width.
type FloatType struct {
	width int
}

// NewFloatType returns the floating-point type of the given width.
func NewFloatType(width int) (FloatType, error) {
	if width <= 0 {
		return FloatType{}, fmt.Errorf("%w: float width must be positive, got %d", ErrInvalidNode, width)
	}
	return FloatType{width: width}, nil
}

func (t FloatType) Width() int { return t.width }
func (t FloatType) String() string { return "float" + strconv.Itoa(t.width) }
func (FloatType) astNode() {}
func (FloatType) typeNode() {}

// validType rejects nil and zero-value types, which can be spelled outside
// this package as IntType{} but were never produced by a constructor.
func validType(t Type) bool {
	return t != nil && t.Width() > 0
}
