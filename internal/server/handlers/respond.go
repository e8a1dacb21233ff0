package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mamadbah2/loftkeeper/internal/domain/apperr"
	"github.com/mamadbah2/loftkeeper/internal/domain/models"
)

// UserIDKey is the gin context key holding the authenticated user id.
const UserIDKey = "auth.user_id"

var registerOnce sync.Once

// RegisterValidation makes validation errors report JSON field names.
func RegisterValidation() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	})
}

type errorBody struct {
	Error  string              `json:"error"`
	Fields []apperr.FieldError `json:"fields,omitempty"`
}

// respondError writes the HTTP form of err. Unclassified errors become a
// generic 500 and are logged.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		c.AbortWithStatusJSON(statusFor(ae.Kind), errorBody{Error: ae.Message, Fields: ae.Fields})
		return
	}
	switch {
	case errors.Is(err, apperr.ErrDuplicateKey):
		c.AbortWithStatusJSON(http.StatusConflict, errorBody{Error: "resource already exists"})
		return
	case errors.Is(err, apperr.ErrForeignKey):
		c.AbortWithStatusJSON(http.StatusConflict, errorBody{Error: "resource is still referenced"})
		return
	}

	logger.Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Error(err))
	c.AbortWithStatusJSON(http.StatusInternalServerError, errorBody{Error: "internal server error"})
}

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// bindJSON decodes and validates the request body into dst. On failure the
// 400 response is already written and false is returned.
func bindJSON(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &verrs):
		fields := make([]apperr.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, apperr.FieldError{Field: fe.Field(), Constraint: fe.Tag()})
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, errorBody{Error: "validation failed", Fields: fields})
	case errors.As(err, &typeErr):
		c.AbortWithStatusJSON(http.StatusBadRequest, errorBody{
			Error:  "validation failed",
			Fields: []apperr.FieldError{{Field: typeErr.Field, Constraint: "type"}},
		})
	default:
		c.AbortWithStatusJSON(http.StatusBadRequest, errorBody{Error: "invalid request body"})
	}
	return false
}

// currentUser returns the id stored by RequireAuth.
func currentUser(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apperr.Invalid(key, "number")
	}
	return n, nil
}

func queryBool(c *gin.Context, key string) (*bool, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, apperr.Invalid(key, "boolean")
	}
	return &v, nil
}

func queryDate(c *gin.Context, key string) (models.Date, error) {
	raw := c.Query(key)
	if raw == "" {
		return models.Date{}, apperr.Invalid(key, "required")
	}
	d, err := models.ParseDate(raw)
	if err != nil {
		return models.Date{}, apperr.Invalid(key, "date")
	}
	return d, nil
}

// queryEnum validates an optional enumerated query value.
func queryEnum(c *gin.Context, key string, allowed ...string) (string, error) {
	raw := c.Query(key)
	if raw == "" {
		return "", nil
	}
	for _, a := range allowed {
		if raw == a {
			return raw, nil
		}
	}
	return "", apperr.Invalid(key, "oneof")
}
