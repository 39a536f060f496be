package errors

import stderrors "errors"

// ErrorCode represents a specific error code in the system.
type ErrorCode string

const (
	// GeneralInternalServerError represents a generic internal error.
	GeneralInternalServerError ErrorCode = "general_internal_server_error"
	// GeneralBadRequestError represents a generic bad request error.
	GeneralBadRequestError ErrorCode = "general_bad_request_error"
	// GeneralNotFoundError represents a generic not found error.
	GeneralNotFoundError ErrorCode = "general_not_found_error"

	// OrderRejectedError represents a submitted order that failed validation.
	OrderRejectedError ErrorCode = "order_rejected_error"
	// OrderNotFoundError represents a cancel/modify against an unknown or terminal order id.
	OrderNotFoundError ErrorCode = "order_not_found_error"

	// ExportWriteError represents a failure writing a CSV export file.
	ExportWriteError ErrorCode = "export_write_error"
	// FeedConnectionError represents a failure dialing or reading the market-data stream.
	FeedConnectionError ErrorCode = "feed_connection_error"
	// TradePublishError represents a failure publishing a trade event.
	TradePublishError ErrorCode = "trade_publish_error"
)

// NewCodeTracer creates an ErrorTracer carrying the given engine error code.
func NewCodeTracer(code ErrorCode) *ErrorTracer {
	tracer := NewTracer(string(code))
	tracer.Code = code
	return tracer
}

// CodeOf extracts the engine error code carried by err, unwrapping as far
// as needed. Errors without a code map to GeneralInternalServerError.
func CodeOf(err error) ErrorCode {
	var tracer *ErrorTracer
	if stderrors.As(err, &tracer) && tracer.Code != "" {
		return tracer.Code
	}
	return GeneralInternalServerError
}
