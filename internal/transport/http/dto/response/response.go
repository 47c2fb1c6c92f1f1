package response

// Response общий конверт JSON API; Count заполняется только для списков
type Response struct {
	Status  string      `json:"status"`
	Data    interface{} `json:"data,omitempty"`
	Count   *int        `json:"count,omitempty"`
	Message string      `json:"message,omitempty"`
}

type ErrorResponse struct {
	Status  string `json:"status"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func SuccessResponse(data interface{}) Response {
	return Response{
		Status: "success",
		Data:   data,
	}
}

// ListResponse конверт для коллекции: пустой список отдаётся как [] с count 0
func ListResponse[T any](items []T) Response {
	if items == nil {
		items = []T{}
	}

	n := len(items)

	return Response{
		Status: "success",
		Data:   items,
		Count:  &n,
	}
}

func ErrorResponseWithDetails(err, details string) ErrorResponse {
	return ErrorResponse{
		Status:  "error",
		Error:   err,
		Details: details,
	}
}
