package utils

import (
	"github.com/cockroachdb/errors"
)

var PowerOfTwoError = errors.New("value must be a power of two")

type Number interface {
	~int | ~uint | ~uint32 | ~uint64
}

// CheckPow2 returns PowerOfTwoError, annotated with the value's name, if number is not zero and
// not a power of two
func CheckPow2[T Number](number T, name string) error {
	if number&(number-1) != 0 {
		return errors.Wrapf(PowerOfTwoError, "%s is %d", name, number)
	}
	return nil
}

func AlignUp(value int, alignment uint) int {
	if alignment <= 1 {
		return value
	}
	return (value + int(alignment) - 1) & int(^(alignment - 1))
}
