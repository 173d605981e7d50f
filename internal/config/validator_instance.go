package config

import (
	"net/url"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

// validatorInstance configures and returns the shared validator instance used across the config package.
func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		_ = v.RegisterValidation("theme_mode", func(fl validator.FieldLevel) bool {
			mode := strings.ToLower(fl.Field().String())
			return mode == "light" || mode == "dark"
		})

		_ = v.RegisterValidation("page_size", func(fl validator.FieldLevel) bool {
			return slices.Contains(PageSizes, int(fl.Field().Int()))
		})

		_ = v.RegisterValidation("api_url", func(fl validator.FieldLevel) bool {
			raw := strings.TrimSpace(fl.Field().String())
			if raw == "" {
				return false
			}
			parsed, err := url.Parse(raw)
			if err != nil {
				return false
			}
			scheme := strings.ToLower(parsed.Scheme)
			return (scheme == "http" || scheme == "https") && parsed.Host != ""
		})

		validateInst = v
	})

	return validateInst
}
