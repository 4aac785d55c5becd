package memory

import (
	"errors"
	"fmt"
)

var (
	// ErrMemoryFault is returned when a cell outside the populated tape range is accessed
	ErrMemoryFault = errors.New("memory fault")
)

func makeError(err error, message string, args ...interface{}) error {
	return fmt.Errorf("%w: "+message, append([]any{err}, args...)...)
}
