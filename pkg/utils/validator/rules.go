package validator

import (
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Custom validation tags
const (
	TagDBName       = "dbname"       // MongoDB database name
	TagCollName     = "collname"     // MongoDB collection name
	TagNoWhitespace = "nowhitespace" // No whitespace characters
)

const (
	maxDBNameLen   = 63
	maxCollNameLen = 255

	// Characters MongoDB forbids in database names on any platform.
	dbNameForbidden = `/\. "$*<>:|?`
)

func (v *Validator) registerCustomRules() {
	_ = v.validate.RegisterValidation(TagDBName, validateDBName)
	_ = v.validate.RegisterValidation(TagCollName, validateCollName)
	_ = v.validate.RegisterValidation(TagNoWhitespace, validateNoWhitespace)
}

// validateDBName validates a MongoDB database name.
func validateDBName(fl validator.FieldLevel) bool {
	return ValidDBName(fl.Field().String())
}

// validateCollName validates a MongoDB collection name.
func validateCollName(fl validator.FieldLevel) bool {
	return ValidCollName(fl.Field().String())
}

func validateNoWhitespace(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		if unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// ValidDBName reports whether name is usable as a MongoDB database name.
func ValidDBName(name string) bool {
	if name == "" || len(name) > maxDBNameLen {
		return false
	}
	return !strings.ContainsAny(name, dbNameForbidden+"\x00")
}

// ValidCollName reports whether name is usable as a MongoDB collection name.
func ValidCollName(name string) bool {
	if name == "" || len(name) > maxCollNameLen {
		return false
	}
	if strings.HasPrefix(name, "system.") {
		return false
	}
	return !strings.ContainsAny(name, "$\x00")
}
