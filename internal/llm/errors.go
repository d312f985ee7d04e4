package llm

import "errors"

var (
	// ErrOllamaUnavailable indicates the model server is unreachable.
	ErrOllamaUnavailable = errors.New("ollama server unavailable")

	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("llm request timed out")

	// ErrInvalidOutput indicates the response could not be parsed into the
	// expected structure.
	ErrInvalidOutput = errors.New("invalid llm output format")

	ErrRetryExhausted = errors.New("llm retry attempts exhausted")

	// ErrDisabled is returned by services when the LLM is switched off.
	ErrDisabled = errors.New("llm disabled")
)
