// Package vm defines the types shared by the working-set virtual memory
// components: process IDs, virtual page numbers, physical frames and the
// bindings between them.
package vm

import (
	"errors"
	"fmt"
)

// PID stands for Process ID. PIDs are handed out in creation order, starting
// from 0.
type PID uint32

// PageNumber is a virtual page number within a process address space.
type PageNumber uint32

// Frame is the index of a physical frame slot.
type Frame int

// Address is a physical address.
type Address uint64

// AddressOf returns the base address of a frame.
func AddressOf(f Frame, log2PageSize uint64) Address {
	return Address(uint64(f) << log2PageSize)
}

// A Binding records that a virtual page is resident in a physical frame.
type Binding struct {
	Page  PageNumber
	Frame Frame
}

func (b Binding) String() string {
	return fmt.Sprintf("page %d -> frame %d", b.Page, b.Frame)
}

var (
	// ErrExhausted is returned when no free frame is left.
	ErrExhausted = errors.New("frame pool exhausted")

	// ErrAtCapacity is returned when no more process can be admitted.
	ErrAtCapacity = errors.New("process limit reached")

	// ErrUnknownProcess is returned for a PID that was never admitted.
	ErrUnknownProcess = errors.New("unknown process")

	// ErrPageOutOfRange is returned for a page outside the page-number space.
	ErrPageOutOfRange = errors.New("page number out of range")
)
