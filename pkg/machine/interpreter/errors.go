package interpreter

import (
	"errors"

	"github.com/Manu343726/cinta/pkg/machine/memory"
	"github.com/Manu343726/cinta/pkg/machine/program"
	"github.com/Manu343726/cinta/pkg/utils"
)

var (
	// ErrSyntax is returned when a program with unmatched brackets is loaded
	ErrSyntax = program.ErrSyntax
	// ErrMemoryFault is reported when the tape is accessed outside its populated range
	ErrMemoryFault = memory.ErrMemoryFault
	// ErrInput is returned by Resume when the input is not exactly one 8 bit character
	ErrInput = errors.New("invalid input")
	// ErrInvalidState is returned when an operation is not allowed in the current state
	ErrInvalidState = errors.New("invalid state")
	// ErrInvalidBreakpoint is returned when a breakpoint does not point to an instruction
	ErrInvalidBreakpoint = errors.New("invalid breakpoint")
)

func makeError(err error, message string, args ...any) error {
	return utils.MakeError(err, message, args...)
}
