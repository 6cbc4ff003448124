package app

import (
	"context"
	"fmt"

	"github.com/example/certbatch/internal/core/serial"
	"github.com/example/certbatch/internal/ports/secondary"
)

// Allocation is one reserved serial number.
type Allocation struct {
	Prefix       string
	Count        int
	SerialNumber string
}

// SerialAllocator hands out serial numbers per template series. A number is
// consumed when it is reserved; numbers whose certificate is never issued
// are voided, not reissued.
type SerialAllocator struct {
	counterRepo secondary.SerialCounterRepository
}

// NewSerialAllocator creates a SerialAllocator with injected dependencies.
func NewSerialAllocator(counterRepo secondary.SerialCounterRepository) *SerialAllocator {
	return &SerialAllocator{counterRepo: counterRepo}
}

// Allocate reserves the next serial number for prefix.
func (a *SerialAllocator) Allocate(ctx context.Context, prefix string) (*Allocation, error) {
	count, err := a.counterRepo.Reserve(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate serial number: %w", err)
	}

	return &Allocation{
		Prefix:       prefix,
		Count:        count,
		SerialNumber: serial.Format(prefix, count),
	}, nil
}

// Void marks an allocation as never issued.
func (a *SerialAllocator) Void(ctx context.Context, alloc *Allocation, reason string) error {
	return a.counterRepo.Void(ctx, &secondary.VoidedSerialRecord{
		Prefix:       alloc.Prefix,
		Count:        alloc.Count,
		SerialNumber: alloc.SerialNumber,
		Reason:       reason,
	})
}
