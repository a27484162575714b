package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/contactbook/internal/common"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = fmt.Errorf("%w: not logged in or session expired", common.ErrorUnauthorized)
	ErrRateLimited  = errors.New("too many requests, try again later")
)

type errorBody struct {
	Detail string `json:"detail"`
}

func statusError(status int, detail string) error {
	var class error
	switch status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusTooManyRequests:
		return ErrRateLimited
	case http.StatusNotFound:
		class = common.ErrorNotFound
	case http.StatusConflict:
		class = common.ErrorConflict
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		class = common.ErrorValidation
	default:
		return fmt.Errorf("api error: status %d: %s", status, detail)
	}
	if detail == "" {
		return class
	}
	return fmt.Errorf("%w: %s", class, detail)
}
