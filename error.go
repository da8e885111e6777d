package micropdf

import "fmt"

type constError string

// ErrInvalidSize may be returned from [New] and size setters.
const ErrInvalidSize = constError("invalid size")

// ErrInvalidPolicy may be returned from [Store.SetPolicy].
const ErrInvalidPolicy = constError("invalid eviction policy")

// ErrInvalidKind may be returned from operations scoped to a [Kind].
const ErrInvalidKind = constError("invalid resource kind")

func (errStr constError) Error() string { return string(errStr) }

func negativeSizeError(size int64) error {
	return fmt.Errorf(
		"%w: must be >=0 but %d was requested",
		ErrInvalidSize, size)
}

func policyError(policy Policy) error {
	return fmt.Errorf(
		"%w: %d", ErrInvalidPolicy, policy)
}

func kindError(kind Kind) error {
	return fmt.Errorf(
		"%w: %d", ErrInvalidKind, kind)
}
