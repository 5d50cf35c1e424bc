package editor

import (
	"errors"
	"fmt"
)

// ErrUnknownCommand is returned by Run for a name with no registered command.
var ErrUnknownCommand = errors.New("unknown command")

// ContractError reports an operation invoked against a cursor or box shape
// it does not accept. It indicates a caller bug.
type ContractError struct {
	Op     string
	Reason string
	Err    error
}

func (e *ContractError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

func (e *ContractError) Unwrap() error {
	return e.Err
}

// IsContractError reports whether err is or wraps a *ContractError.
func IsContractError(err error) bool {
	var ce *ContractError
	return errors.As(err, &ce)
}

func contract(op, reason string, err error) error {
	return &ContractError{Op: op, Reason: reason, Err: err}
}
