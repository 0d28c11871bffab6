package domain

import (
	"errors"
	"fmt"
)

var (
	ErrStockExceeded  = errors.New("requested amount exceeds stock")
	ErrNotFound       = errors.New("product not in cart")
	ErrServiceFailure = errors.New("catalog service failure")
)

type Op string

const (
	OpAdd    Op = "add"
	OpRemove Op = "remove"
	OpUpdate Op = "update"
)

// OpError reports an aborted cart mutation. Err wraps one of
// ErrStockExceeded, ErrNotFound or ErrServiceFailure.
type OpError struct {
	Op        Op
	ProductID int64
	Err       error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s product[%d]: %v", e.Op, e.ProductID, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}
