package lottery

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
)

// Validation errors for ingested tickets and draws.
var (
	ErrWrongLength   = errors.New("wrong number count")
	ErrOutOfRange    = errors.New("number out of range")
	ErrRepeatCap     = errors.New("number repeated too many times")
	ErrWrongDrawSize = errors.New("wrong draw number count")
)

// Rules describes the shape of the number pool. Supplied from
// configuration so the engine is reusable for different pool shapes.
type Rules struct {
	TicketLength int
	DrawLength   int
	MinValue     int
	MaxValue     int
	MaxRepeats   int
}

// DefaultRules returns the production pool shape: 10 numbers per ticket
// from [1,25], at most 4 repeats of a value, 5 numbers per draw.
func DefaultRules() Rules {
	return Rules{
		TicketLength: 10,
		DrawLength:   5,
		MinValue:     1,
		MaxValue:     25,
		MaxRepeats:   4,
	}
}

// ValidateTicket checks a manually selected ticket against the rules.
// The repeat cap is a hard invariant: a ticket the auto-fill could never
// produce is rejected rather than tolerated.
func (r Rules) ValidateTicket(numbers []int) error {
	if len(numbers) != r.TicketLength {
		return fmt.Errorf("%w: got %d, want %d", ErrWrongLength, len(numbers), r.TicketLength)
	}
	counts := make(map[int]int, len(numbers))
	for _, n := range numbers {
		if n < r.MinValue || n > r.MaxValue {
			return fmt.Errorf("%w: %d not in [%d,%d]", ErrOutOfRange, n, r.MinValue, r.MaxValue)
		}
		counts[n]++
		if r.MaxRepeats > 0 && counts[n] > r.MaxRepeats {
			return fmt.Errorf("%w: %d appears more than %d times", ErrRepeatCap, n, r.MaxRepeats)
		}
	}
	return nil
}

// ValidateDraw checks an admin-published draw against the rules.
func (r Rules) ValidateDraw(numbers []int) error {
	if len(numbers) != r.DrawLength {
		return fmt.Errorf("%w: got %d, want %d", ErrWrongDrawSize, len(numbers), r.DrawLength)
	}
	for _, n := range numbers {
		if n < r.MinValue || n > r.MaxValue {
			return fmt.Errorf("%w: %d not in [%d,%d]", ErrOutOfRange, n, r.MinValue, r.MaxValue)
		}
	}
	return nil
}

// AutoFill generates a random ticket within the rules: repeated picks
// over the whole value range, skipping values that already hit the
// repeat cap, result sorted ascending for canonical display.
func (r Rules) AutoFill(rng *rand.Rand) []int {
	numbers := make([]int, 0, r.TicketLength)
	counts := make(map[int]int, r.TicketLength)
	span := r.MaxValue - r.MinValue + 1

	for len(numbers) < r.TicketLength {
		n := r.MinValue + rng.Intn(span)
		if r.MaxRepeats > 0 && counts[n] >= r.MaxRepeats {
			continue
		}
		numbers = append(numbers, n)
		counts[n]++
	}

	sort.Ints(numbers)
	return numbers
}

// Canonical returns a copy of numbers sorted ascending, the stored form
// for every ticket.
func Canonical(numbers []int) []int {
	out := make([]int, len(numbers))
	copy(out, numbers)
	sort.Ints(out)
	return out
}
