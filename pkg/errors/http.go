package errors

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ToHTTPStatus maps an application code to an HTTP status.
func ToHTTPStatus(code string) int {
	if status, ok := httpStatusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ToHTTPError converts err into an echo HTTP error.
// Internal errors never expose the wrapped cause to the client.
func ToHTTPError(err error) *echo.HTTPError {
	if err == nil {
		return nil
	}

	if echoErr, ok := err.(*echo.HTTPError); ok {
		return echoErr
	}

	var appErr *AppError
	if As(err, &appErr) {
		status := ToHTTPStatus(appErr.Code())
		if status >= http.StatusInternalServerError {
			return echo.NewHTTPError(status, http.StatusText(status)).SetInternal(err)
		}
		return echo.NewHTTPError(status, appErr.Message()).SetInternal(err)
	}

	return echo.NewHTTPError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)).SetInternal(err)
}
