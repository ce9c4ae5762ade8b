package blizzard

import "fmt"

const snippetLength = 500

// StatusError - a non-success response from the blizzard api
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Blizzard API returned status %d: %s", e.Status, e.Body)
}

// DecodeError - a success response whose body could not be decoded
type DecodeError struct {
	Resource string
	Length   int
	Snippet  string
	Err      error
}

func (e *DecodeError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf(
			"Failed to deserialize %s: JSON deserialized to null. Response length: %d characters.",
			e.Resource,
			e.Length,
		)
	}

	return fmt.Sprintf("Failed to deserialize %s: %s. JSON snippet: %s", e.Resource, e.Err.Error(), e.Snippet)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func newDecodeError(resource string, body []byte, err error) *DecodeError {
	return &DecodeError{
		Resource: resource,
		Length:   len(body),
		Snippet:  snippet(body, snippetLength),
		Err:      err,
	}
}

func snippet(body []byte, limit int) string {
	runes := []rune(string(body))
	if len(runes) <= limit {
		return string(runes)
	}

	return string(runes[:limit]) + "..."
}
