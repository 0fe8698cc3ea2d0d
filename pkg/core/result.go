package core

import "fmt"

// Attempt is the outcome of a best-effort action: the value to use and the
// error that was absorbed to produce it, if any.
type Attempt[T any] struct {
	Action   string
	Value    T
	Absorbed error
}

// OK returns true if the action completed without anything being absorbed.
func (a Attempt[T]) OK() bool {
	return a.Absorbed == nil
}

// BestEffort runs fn and absorbs any failure, including a panic raised by the
// driver. On failure the fallback is returned as the value.
func BestEffort[T any](action string, fallback T, fn func() (T, error)) (res Attempt[T]) {
	res = Attempt[T]{Action: action, Value: fallback}

	defer func() {
		if r := recover(); r != nil {
			res.Value = fallback
			res.Absorbed = fmt.Errorf("%s: panic: %v", action, r)
		}
	}()

	v, err := fn()
	if err != nil {
		res.Absorbed = err
		return res
	}
	res.Value = v
	return res
}

// BestEffortDo is BestEffort for actions without a result value.
func BestEffortDo(action string, fn func() error) Attempt[struct{}] {
	return BestEffort(action, struct{}{}, func() (struct{}, error) {
		return struct{}{}, fn()
	})
}
