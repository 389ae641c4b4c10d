package response

// JSON is the envelope used by middleware-level rejections. Handler-level
// responses go through fres.
type JSON struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func Error(code, message string, data any) JSON {
	return JSON{Code: code, Message: message, Data: data}
}
