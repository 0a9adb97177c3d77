package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ougirez/mothertongue/internal/domain"
	"github.com/ougirez/mothertongue/internal/pkg/constants"
	"github.com/ougirez/mothertongue/internal/pkg/logger"
)

func httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	msg := err.Error()
	code := http.StatusInternalServerError
	for err != nil {
		if ce, ok := err.(*constants.CodedError); ok {
			code = ce.Code()
			break
		}
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			msg = fmt.Sprint(he.Message)
			break
		}
		err = errors.Unwrap(err)
	}

	if code >= http.StatusInternalServerError {
		logger.Error(c.Request().Context(), msg, "status", code)
	}

	_ = c.JSON(code, domain.ErrorResponse{
		Message: msg,
		Code:    code,
	})
}
