package server

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/mdouchement/itemstore/internal/apierror"
	"github.com/mdouchement/itemstore/internal/server/serializer"
	"github.com/mdouchement/itemstore/internal/server/service"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fastjson"
)

// item contains all item handlers.
type item struct {
	items     *service.Items
	log       logrus.FieldLogger
	heartbeat time.Duration
}

///// List
////
//

// List returns all the items, newest first.
func (h *item) List(c echo.Context) error {
	items, err := h.items.List()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, serializer.Items(items))
}

///// Show
////
//

// Show returns the requested item.
func (h *item) Show(c echo.Context) error {
	item, err := h.items.Find(c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, serializer.Item(item))
}

///// Create
////
//

// Create adds a new item to the collection.
// The server assigns its id and dates.
func (h *item) Create(c echo.Context) error {
	var params service.CreateParams
	if err := c.Bind(&params); err != nil {
		var terr *json.UnmarshalTypeError
		if errors.As(err, &terr) && terr.Field != "" {
			return apierror.Validation(terr.Field + " must be a string.")
		}
		return c.JSON(http.StatusBadRequest, apierror.New("Could not get item params."))
	}

	item, err := h.items.Create(params)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, serializer.Item(item))
}

///// Patch
////
//

// Patch updates the fields present in the request body.
// Absent (or null) fields are left untouched.
func (h *item) Patch(c echo.Context) error {
	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return errors.Wrap(err, "could not read request body")
	}
	if len(payload) == 0 {
		return c.JSON(http.StatusBadRequest, apierror.New("Request body can't be empty"))
	}

	params, err := patchParams(payload)
	if err != nil {
		return err
	}

	item, err := h.items.Patch(c.Param("id"), params)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, serializer.Item(item))
}

func patchParams(payload []byte) (params service.PatchParams, err error) {
	v, err := fastjson.ParseBytes(payload)
	if err != nil {
		return params, apierror.NewWithTagCode(http.StatusBadRequest, "", "Could not get item params.")
	}
	if v.Type() != fastjson.TypeObject {
		return params, apierror.NewWithTagCode(http.StatusBadRequest, "", "Could not get item params.")
	}

	field := func(name string) (*string, error) {
		f := v.Get(name)
		if f == nil || f.Type() == fastjson.TypeNull {
			return nil, nil
		}
		if f.Type() != fastjson.TypeString {
			return nil, apierror.Validation(name + " must be a string.")
		}
		s := string(f.GetStringBytes())
		return &s, nil
	}

	if params.Title, err = field("title"); err != nil {
		return params, err
	}
	params.Description, err = field("description")
	return params, err
}

///// Delete
////
//

// Delete removes the requested item.
// Removing an unknown item succeeds.
func (h *item) Delete(c echo.Context) error {
	if err := h.items.Delete(c.Param("id")); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
