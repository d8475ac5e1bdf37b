// Package task defines the request/response envelopes exchanged between the
// coordinator and its workers.
//
// Both envelope types are validated at construction time: every payload field
// must lie in [MinValue, MaxValue]. An out-of-range field is an expected,
// recoverable condition reported through *ValidationError, never a panic.
// Envelopes are immutable once built; callers read them through accessors.
package task

import "fmt"

// Bounds for every envelope field. A batch therefore holds at most MaxValue
// tasks, since the request index shares the same range as the payload.
const (
	MinValue = 1
	MaxValue = 100
)

// FailureValue is the sentinel payload carried by a failure response.
const FailureValue = 1

// ValidationError reports an envelope field outside [MinValue, MaxValue].
type ValidationError struct {
	Field string
	Value int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s out of range [%d, %d]: %d", e.Field, MinValue, MaxValue, e.Value)
}

func checkValue(field string, value int) error {
	if value < MinValue || value > MaxValue {
		return &ValidationError{Field: field, Value: value}
	}
	return nil
}

// Request is a single unit of work handed to a worker. The index is the
// unique, 1-based ordering key assigned at submission time; the value is the
// task input.
type Request struct {
	index int
	value int
}

// NewRequest validates both fields and builds an immutable Request.
func NewRequest(index, value int) (Request, error) {
	if err := checkValue("request_index", index); err != nil {
		return Request{}, err
	}
	if err := checkValue("request_value", value); err != nil {
		return Request{}, err
	}
	return Request{index: index, value: value}, nil
}

// Index returns the 1-based submission order key.
func (r Request) Index() int { return r.index }

// Value returns the task input.
func (r Request) Value() int { return r.value }

// Response is the outcome of exactly one Request, correlated back to it by
// the request index.
type Response struct {
	index int
	value int
	ok    bool
}

// NewResponse validates the result value and builds an immutable Response.
func NewResponse(index, value int, ok bool) (Response, error) {
	if err := checkValue("response_value", value); err != nil {
		return Response{}, err
	}
	return Response{index: index, value: value, ok: ok}, nil
}

// Failure builds the sentinel response for a task that could not produce a
// valid result. It carries FailureValue and never fails validation.
func Failure(index int) Response {
	return Response{index: index, value: FailureValue, ok: false}
}

// Index returns the index of the originating request.
func (r Response) Index() int { return r.index }

// Value returns the computed result; meaningful only when Succeeded is true.
func (r Response) Value() int { return r.value }

// Succeeded reports whether the task produced a valid result.
func (r Response) Succeeded() bool { return r.ok }
