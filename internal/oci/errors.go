package oci

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/antounmoubarak/fsdr-precheck/internal/model"
)

// serviceError is the part of common.ServiceError used to classify failures.
type serviceError interface {
	GetHTTPStatusCode() int
	GetMessage() string
}

// translateError maps a service 404 to model.ErrNotFound. Other errors pass through.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var se serviceError
	if errors.As(err, &se) && se.GetHTTPStatusCode() == http.StatusNotFound {
		return fmt.Errorf("%w: %s", model.ErrNotFound, se.GetMessage())
	}
	return err
}
