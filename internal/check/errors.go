package check

import (
	"errors"
	"fmt"
	"strconv"
)

// Common errors.
var (
	ErrDomain          = errors.New("domain error")
	ErrInvalidArgument = errors.New("invalid argument")
)

// DomainError reports an argument outside the domain of a function.
type DomainError struct {
	Function string  // Function that rejected the argument (e.g. "normal_lpdf")
	Argument string  // Argument name
	Index    int     // Element index for slice arguments, -1 for scalars
	Value    float64 // Offending value
	Msg      string  // Constraint that was violated
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	name := e.Argument
	if e.Index >= 0 {
		name += "[" + strconv.Itoa(e.Index) + "]"
	}
	return fmt.Sprintf("%s: %s is %g, but must be %s", e.Function, name, e.Value, e.Msg)
}

// Is makes errors.Is(err, ErrDomain) hold.
func (e *DomainError) Is(target error) bool {
	return target == ErrDomain
}

// SizeError reports arguments whose lengths disagree.
type SizeError struct {
	Function string
	Argument string // First argument whose length differs
	Len      int
	Expected int
	Against  string // Argument that fixed the expected length
}

// Error implements the error interface.
func (e *SizeError) Error() string {
	return fmt.Sprintf("%s: size of %s (%d) must match size of %s (%d)",
		e.Function, e.Argument, e.Len, e.Against, e.Expected)
}

// Is makes errors.Is(err, ErrInvalidArgument) hold.
func (e *SizeError) Is(target error) bool {
	return target == ErrInvalidArgument
}
