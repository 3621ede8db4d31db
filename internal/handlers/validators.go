package handlers

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Chart-of-account codes: digits with optional dotted segments, e.g.
// "1001" or "1001.10".
var accountCodePattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)*$`)

func validAccountCode(fl validator.FieldLevel) bool {
	return accountCodePattern.MatchString(fl.Field().String())
}

// RegisterValidators installs custom binding validators. Call once at
// startup before routes are served.
func RegisterValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("accountcode", validAccountCode)
	}
}
