package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/pageza/recipebox/backend/internal/logging"
	"github.com/pageza/recipebox/backend/internal/models"
	"github.com/pageza/recipebox/backend/internal/service"
)

const (
	msgNotFound = "Not found."
	msgInternal = "Internal server error."
)

// ErrorHandler renders the last error attached with c.Error once the
// handler chain has finished, unless a response was already written.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status, body := Render(err)
		if status >= http.StatusInternalServerError {
			logging.FromContext(c.Request.Context()).Error("request failed",
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"error", err,
			)
		}
		if status == http.StatusUnauthorized {
			c.Header("WWW-Authenticate", `Bearer realm="api"`)
		}
		c.JSON(status, body)
	}
}

// Render maps an error to a status code and JSON body.
func Render(err error) (int, any) {
	var (
		verr      *service.ValidationError
		fieldErrs validator.ValidationErrors
		typeErr   *json.UnmarshalTypeError
		syntaxErr *json.SyntaxError
	)

	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Fields
	case errors.As(err, &fieldErrs):
		return http.StatusBadRequest, validationFields(fieldErrs)
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			return http.StatusBadRequest, gin.H{"non_field_errors": []string{"Invalid data."}}
		}
		return http.StatusBadRequest, map[string][]string{field: {typeMessage(typeErr.Type)}}
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return http.StatusBadRequest, gin.H{"detail": "JSON parse error - " + err.Error()}
	case errors.Is(err, io.EOF):
		return http.StatusBadRequest, gin.H{"non_field_errors": []string{"No data provided"}}
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusBadRequest, gin.H{"non_field_errors": []string{service.ErrInvalidCredentials.Error()}}
	case errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized, gin.H{"detail": service.ErrInvalidToken.Error()}
	case errors.Is(err, service.ErrInactiveUser):
		return http.StatusUnauthorized, gin.H{"detail": service.ErrInactiveUser.Error()}
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrForbidden):
		return http.StatusNotFound, gin.H{"detail": msgNotFound}
	default:
		return http.StatusInternalServerError, gin.H{"detail": msgInternal}
	}
}

// NotFound answers unknown routes.
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"detail": msgNotFound})
}

// MethodNotAllowed answers known routes hit with an unsupported method.
func MethodNotAllowed(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, gin.H{
		"detail": fmt.Sprintf("Method %q not allowed.", c.Request.Method),
	})
}

// RegisterJSONTagNames makes binding errors report json field names.
func RegisterJSONTagNames() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
}

func validationFields(errs validator.ValidationErrors) map[string][]string {
	out := make(map[string][]string, len(errs))
	for _, fe := range errs {
		field := fe.Field()
		// nested entries such as tags[0].name are reported on the list
		if i := strings.IndexByte(fe.Namespace(), '['); i > 0 {
			parts := strings.Split(fe.Namespace(), ".")
			if len(parts) > 1 {
				field = strings.SplitN(parts[1], "[", 2)[0]
			}
		}
		out[field] = append(out[field], tagMessage(fe))
	}
	return out
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return service.MsgRequired
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "min":
		return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
	case "email":
		return "Enter a valid email address."
	default:
		return "Invalid value."
	}
}

var priceType = reflect.TypeOf(models.Price{})

func typeMessage(t reflect.Type) string {
	if t == nil {
		return "Invalid value."
	}
	if t == priceType {
		return "A valid number is required."
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "A valid integer is required."
	case reflect.String:
		return "Not a valid string."
	case reflect.Slice, reflect.Array:
		return "Expected a list of items."
	case reflect.Struct, reflect.Map:
		return "Invalid data. Expected a dictionary."
	default:
		return "Invalid value."
	}
}
