package response

var (
	ErrInvalidRequestFormat = ErrorResponse{
		Status:  "error",
		Error:   "invalid_request",
		Details: "Invalid request format",
	}

	ErrPostNotFound = ErrorResponse{
		Status:  "error",
		Error:   "post_not_found",
		Details: "Post with this id does not exist",
	}

	ErrInternal = ErrorResponse{
		Status:  "error",
		Error:   "internal_error",
		Details: "Something went wrong, try again later",
	}
)
