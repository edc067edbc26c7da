package middleware

import (
    "errors"
    "fmt"
    "net/http"
    "reflect"
    "strings"

    "github.com/go-playground/validator/v10"
    "github.com/labstack/echo/v4"
)

// Validator adapts go-playground/validator to echo.Validator so handlers
// can call c.Validate on bound request bodies.
type Validator struct {
    v *validator.Validate
}

func NewValidator() *Validator {
    v := validator.New(validator.WithRequiredStructEnabled())
    // report json names instead of Go field names
    v.RegisterTagNameFunc(func(f reflect.StructField) string {
        name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
        if name == "-" {
            return ""
        }
        return name
    })
    return &Validator{v: v}
}

// Validate returns a 400 HTTPError naming the first failing field.
func (cv *Validator) Validate(i interface{}) error {
    err := cv.v.Struct(i)
    if err == nil {
        return nil
    }
    var verrs validator.ValidationErrors
    if errors.As(err, &verrs) && len(verrs) > 0 {
        return echo.NewHTTPError(http.StatusBadRequest, describe(verrs[0]))
    }
    return echo.NewHTTPError(http.StatusBadRequest, err.Error())
}

func describe(fe validator.FieldError) string {
    switch fe.Tag() {
    case "required":
        return fmt.Sprintf("%s is required", fe.Field())
    case "email":
        return fmt.Sprintf("%s must be a valid email", fe.Field())
    case "oneof":
        return fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param())
    case "min", "gte":
        return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
    case "max", "lte":
        return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
    }
    return fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag())
}
