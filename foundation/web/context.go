package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Context wraps the gin context with the request scoped context.Context and
// the helpers every handler uses to read input and write output.
type Context struct {
	*gin.Context
	Ctx context.Context

	log         *zap.Logger
	paramErrors []string
	queryErrors []string
}

// BindFunc binds the request body (json, form or multipart, depending on the
// content type) into data and then checks that the named fields are set. An
// empty json body binds nothing.
func (c *Context) BindFunc(data interface{}, requiredFields ...string) error {
	if err := c.ShouldBind(data); err != nil && !c.emptyJSON(err) {
		return NewRequestError(errors.Wrap(err, "binding request"), http.StatusBadRequest)
	}

	return ValidateStruct(data, requiredFields...)
}

func (c *Context) emptyJSON(err error) bool {
	if c.ContentType() != binding.MIMEJSON {
		return false
	}

	body := c.Request.Body
	return errors.Is(err, io.EOF) || body == nil || body == http.NoBody
}

// GetParam reads a path parameter as the given kind. Parse failures are
// collected and reported by ValidParam.
func (c *Context) GetParam(kind reflect.Kind, key string) interface{} {
	raw := c.Param(key)

	v, err := parseKind(kind, raw)
	if err != nil {
		c.paramErrors = append(c.paramErrors, fmt.Sprintf("invalid %s", key))
		return reflect.Zero(kindType(kind)).Interface()
	}

	return v
}

// ValidParam reports the path parameters that failed to parse.
func (c *Context) ValidParam() error {
	if len(c.paramErrors) == 0 {
		return nil
	}

	return NewRequestError(errors.New(strings.Join(c.paramErrors, ", ")), http.StatusBadRequest)
}

// GetQueryFunc reads an optional query parameter as a pointer of the given
// kind. It returns nil when the parameter is absent.
func (c *Context) GetQueryFunc(kind reflect.Kind, key string) interface{} {
	raw, ok := c.GetQuery(key)
	if !ok {
		return nil
	}

	v, err := parseKind(kind, raw)
	if err != nil {
		c.queryErrors = append(c.queryErrors, fmt.Sprintf("invalid %s", key))
		return nil
	}

	ptr := reflect.New(kindType(kind))
	ptr.Elem().Set(reflect.ValueOf(v))

	return ptr.Interface()
}

// ValidQuery reports the query parameters that failed to parse.
func (c *Context) ValidQuery() error {
	if len(c.queryErrors) == 0 {
		return nil
	}

	return NewRequestError(errors.New(strings.Join(c.queryErrors, ", ")), http.StatusBadRequest)
}

// Respond converts a Go value to JSON and sends it to the client.
func (c *Context) Respond(data interface{}, statusCode int) error {
	if statusCode == http.StatusNoContent {
		c.Status(statusCode)
		return nil
	}

	c.JSON(statusCode, data)

	return nil
}

// RespondError sends an error response back to the client. Errors that do
// not carry a status are reported as 500 with their raw message.
func (c *Context) RespondError(err error) error {
	status := StatusOf(err)

	if status >= http.StatusInternalServerError {
		c.log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Error(err),
		)
	} else {
		c.log.Debug("request rejected",
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Error(err),
		)
	}

	c.AbortWithStatusJSON(status, map[string]interface{}{
		"message": err.Error(),
		"status":  false,
	})

	return nil
}

// ValidateStruct checks that every named field of data holds a non-empty
// value. Strings made only of spaces count as empty.
func ValidateStruct(data interface{}, fields ...string) error {
	if len(fields) == 0 {
		return nil
	}

	v := reflect.Indirect(reflect.ValueOf(data))
	if v.Kind() != reflect.Struct {
		return errors.Errorf("validate: expected struct, got %s", v.Kind())
	}

	var missing []string
	for _, name := range fields {
		sf, ok := v.Type().FieldByName(name)
		if !ok {
			return errors.Errorf("validate: unknown field %q", name)
		}

		if isEmpty(v.FieldByIndex(sf.Index)) {
			missing = append(missing, fieldLabel(sf))
		}
	}

	if len(missing) > 0 {
		return NewRequestError(
			errors.New("missing required fields: "+strings.Join(missing, ", ")),
			http.StatusBadRequest,
		)
	}

	return nil
}

func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return true
		}
		return isEmpty(v.Elem())
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Float32, reflect.Float64, reflect.Int, reflect.Int64, reflect.Bool:
		// Numbers are validated by presence (pointer) only; zero is a value.
		return false
	default:
		return v.IsZero()
	}
}

func fieldLabel(sf reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.Split(sf.Tag.Get(tag), ",")[0]
		if name != "" && name != "-" {
			return name
		}
	}

	return sf.Name
}

func kindType(kind reflect.Kind) reflect.Type {
	switch kind {
	case reflect.Int:
		return reflect.TypeOf(int(0))
	case reflect.Int64:
		return reflect.TypeOf(int64(0))
	case reflect.Float64:
		return reflect.TypeOf(float64(0))
	case reflect.Bool:
		return reflect.TypeOf(false)
	default:
		return reflect.TypeOf("")
	}
}

func parseKind(kind reflect.Kind, raw string) (interface{}, error) {
	switch kind {
	case reflect.Int:
		return strconv.Atoi(raw)
	case reflect.Int64:
		return strconv.ParseInt(raw, 10, 64)
	case reflect.Float64:
		return strconv.ParseFloat(raw, 64)
	case reflect.Bool:
		return strconv.ParseBool(raw)
	default:
		return raw, nil
	}
}
