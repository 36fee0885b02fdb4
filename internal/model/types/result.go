package types

// MaaResult is the uniform response envelope of the public API.
type MaaResult[T any] struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Data       T      `json:"data,omitempty"`
}

func Success[T any](msg string, data T) *MaaResult[T] {
	return &MaaResult[T]{
		StatusCode: 200,
		Message:    msg,
		Data:       data,
	}
}
