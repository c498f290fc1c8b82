package response

// Response represents the envelope handed back across the presentation
// boundary for every dispatched request
type Response struct {
	Status string      `json:"status"` // "success" or "error"
	Data   interface{} `json:"data,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// Success returns a standard success response wrapping the data
func Success(data interface{}) Response {
	return Response{
		Status: "success",
		Data:   data,
	}
}

// Error returns a standard error response wrapping the error message
func Error(err string) Response {
	return Response{
		Status: "error",
		Error:  err,
	}
}
