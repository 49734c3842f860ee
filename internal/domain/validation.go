package domain

import (
	"regexp"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	slugPattern  = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	registerOnce sync.Once
	registerErr  error
)

// RegisterValidators adds the "slug" and "content_type" rules to gin's validator
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		if registerErr = v.RegisterValidation("slug", validateSlug); registerErr != nil {
			return
		}
		registerErr = v.RegisterValidation("content_type", validateContentType)
	})
	return registerErr
}

func validateSlug(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return len(s) <= 255 && slugPattern.MatchString(s)
}

func validateContentType(fl validator.FieldLevel) bool {
	return ContentType(fl.Field().String()).Valid()
}

// IsSlug reports whether s is a well-formed slug
func IsSlug(s string) bool {
	return slugPattern.MatchString(s)
}
