package serverutils

// WebResponse is the envelope every HTTP handler returns.
// Code mirrors the HTTP status so clients that only read the body
// can still branch on it.
type WebResponse[T any] struct {
	Code    int    `json:"code"`
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
}

func SuccessResponse[T any](message string, data T) WebResponse[T] {
	return WebResponse[T]{
		Code:    200,
		Status:  "OK",
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(code int, message string) WebResponse[any] {
	return WebResponse[any]{
		Code:    code,
		Status:  "ERROR",
		Message: message,
	}
}
