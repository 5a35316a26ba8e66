package services

import (
	"learning-lab/errors"
)

type ICalculatorService interface {
	NewAverager() *Averager
	PrimeFactors(n int64, emit func(factor int64) error) error
}

type CalculatorService struct {
	legacyTrailingFactor bool
}

// NewCalculatorService builds the calculator.
// With legacyTrailingFactor the decomposition emits the last divisor once more
// after the loop, which older clients expect: 12 gives [2 2 3 3].
func NewCalculatorService(legacyTrailingFactor bool) *CalculatorService {
	return &CalculatorService{legacyTrailingFactor: legacyTrailingFactor}
}

// Averager accumulates a stream of numbers.
type Averager struct {
	sum   int64
	count int64
}

func (s *CalculatorService) NewAverager() *Averager {
	return &Averager{}
}

func (a *Averager) Add(n int32) {
	a.sum += int64(n)
	a.count++
}

func (a *Averager) Count() int64 {
	return a.count
}

// Average is sum/count over everything added so far.
func (a *Averager) Average() (float64, error) {
	if a.count == 0 {
		return 0, errors.ErrEmptyAverage
	}
	return float64(a.sum) / float64(a.count), nil
}

// PrimeFactors decomposes n by trial division starting at 2 and calls emit
// for every factor found, in increasing order. It stops at the first emit error.
func (s *CalculatorService) PrimeFactors(n int64, emit func(factor int64) error) error {
	if n < 1 {
		return errors.ErrInvalidNumber
	}
	divisor := int64(2)
	for n > 1 {
		if n%divisor == 0 {
			if err := emit(divisor); err != nil {
				return err
			}
			n /= divisor
			continue
		}
		// Past the square root, what remains is prime.
		if divisor > n/divisor {
			divisor = n
			continue
		}
		divisor++
	}
	if s.legacyTrailingFactor {
		return emit(divisor)
	}
	return nil
}
