package dto

// Response is the envelope of every successful API response
type Response struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
	Meta    any  `json:"meta,omitempty"`
}

// OK wraps data in a successful envelope
func OK(data any) Response {
	return Response{Success: true, Data: data}
}

// OKWithMeta wraps data and metadata in a successful envelope
func OKWithMeta(data, meta any) Response {
	return Response{Success: true, Data: data, Meta: meta}
}
