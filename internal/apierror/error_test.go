package apierror_test

import (
	"net/http"
	"testing"

	"github.com/mdouchement/itemstore/internal/apierror"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestAPIError(t *testing.T) {
	err := apierror.New("some message")

	assert.Equal(t, "some message", err.Error())
	assert.Equal(t, http.StatusInternalServerError, apierror.StatusCode(err))
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusUnprocessableEntity, apierror.StatusCode(apierror.Validation("Title is required.")))
	assert.Equal(t, http.StatusNotFound, apierror.StatusCode(apierror.NotFound("Item not found.")))
	assert.Equal(t, http.StatusInternalServerError, apierror.StatusCode(errors.New("boom")))

	err := apierror.NotFound("Item not found.")
	assert.Equal(t, apierror.TagNotFound, err.Tag())
}
