package syllabus

import (
	"sort"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// requiredScalars are the metadata fields a version cannot be stored without.
var requiredScalars = map[string]any{
	"heb_name": "required",
	"year":     "required",
	"semester": "required",
}

// ValidateContent checks normalized content for the required metadata scalars
// and returns a *ValidationError naming every missing field, or nil.
func ValidateContent(c Content) error {
	failed := validate.ValidateMap(c, requiredScalars)
	if len(failed) == 0 {
		return nil
	}
	fields := make([]string, 0, len(failed))
	for f := range failed {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return &ValidationError{Fields: fields}
}
