// Package validate enforces type-correctness of custom field values.
//
// Each field type maps to exactly one validator in a lookup table, so adding a
// type means adding one entry; there is no conditional chain to keep in sync.
package validate

import (
	"encoding/json"
	"net/url"
	"regexp"
	"strconv"
	"time"

	"fieldgate/internal/fields/models"
	dErrors "fieldgate/pkg/domain-errors"
)

// validator checks a raw text value against one field type's rule. The
// definition is passed for option lists; validators must not mutate it.
type validator func(def *models.FieldDefinition, value string) error

// validators maps every field type to its rule. Types absent from the table
// carry no structural validation.
var validators = map[models.FieldType]validator{
	models.TypeNumeric:     validateNumber,
	models.TypeCurrency:    validateNumber,
	models.TypePercent:     validateNumber,
	models.TypeRating:      validateNumber,
	models.TypeDate:        validateDate,
	models.TypeDatetime:    validateDatetime,
	models.TypeEmail:       validateEmail,
	models.TypeURL:         validateURL,
	models.TypeDropdown:    validateOption,
	models.TypeRadio:       validateOption,
	models.TypeMultiSelect: validateMultiOption,
	models.TypeCheckbox:    validateMultiOption,
	models.TypeJSON:        validateJSON,
	models.TypeText:        nil,
	models.TypeTextarea:    nil,
	models.TypePhone:       nil,
	models.TypeFile:        nil,
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// dateLayouts are the calendar formats accepted for date fields.
var dateLayouts = []string{"2006-01-02", "02-01-2006", "02/01/2006", "2006/01/02"}

// datetimeLayouts extend dateLayouts with time-of-day forms.
var datetimeLayouts = append([]string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}, dateLayouts...)

// Value checks a raw text value against its field definition's rule.
//
// Empty values skip type validation entirely; a required field with an empty
// value fails. Every failure is a validation-coded error naming the field
// label and the violated constraint, per the engine's error contract.
func Value(def *models.FieldDefinition, value string) error {
	if value == "" {
		if def.IsRequired {
			return dErrors.Newf(dErrors.CodeValidation, "field %q is required", def.Label)
		}
		return nil
	}
	check, ok := validators[def.Type]
	if !ok {
		return dErrors.Newf(dErrors.CodeValidation, "field %q has unknown type %q", def.Label, def.Type)
	}
	if check == nil {
		return nil
	}
	return check(def, value)
}

func validateNumber(def *models.FieldDefinition, value string) error {
	if _, err := strconv.ParseFloat(value, 64); err != nil {
		return dErrors.Newf(dErrors.CodeValidation, "field %q must be a number", def.Label)
	}
	return nil
}

func parseAny(value string, layouts []string) bool {
	for _, layout := range layouts {
		if _, err := time.Parse(layout, value); err == nil {
			return true
		}
	}
	return false
}

func validateDate(def *models.FieldDefinition, value string) error {
	if !parseAny(value, dateLayouts) {
		return dErrors.Newf(dErrors.CodeValidation, "field %q must be a valid date", def.Label)
	}
	return nil
}

func validateDatetime(def *models.FieldDefinition, value string) error {
	if !parseAny(value, datetimeLayouts) {
		return dErrors.Newf(dErrors.CodeValidation, "field %q must be a valid date/time", def.Label)
	}
	return nil
}

func validateEmail(def *models.FieldDefinition, value string) error {
	if !emailPattern.MatchString(value) {
		return dErrors.Newf(dErrors.CodeValidation, "field %q must be a valid email address", def.Label)
	}
	return nil
}

func validateURL(def *models.FieldDefinition, value string) error {
	parsed, err := url.Parse(value)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return dErrors.Newf(dErrors.CodeValidation, "field %q must be a well-formed URL", def.Label)
	}
	return nil
}

func inOptions(options []string, value string) bool {
	for _, option := range options {
		if option == value {
			return true
		}
	}
	return false
}

// validateOption checks membership in the configured option list. Fields
// without configured options accept any value.
func validateOption(def *models.FieldDefinition, value string) error {
	options := def.FieldParams.Options
	if len(options) == 0 {
		return nil
	}
	if !inOptions(options, value) {
		return dErrors.Newf(dErrors.CodeValidation, "field %q does not allow value %q", def.Label, value)
	}
	return nil
}

// validateMultiOption requires a JSON array literal whose every element is a
// configured option.
func validateMultiOption(def *models.FieldDefinition, value string) error {
	var selected []string
	if err := json.Unmarshal([]byte(value), &selected); err != nil {
		return dErrors.Newf(dErrors.CodeValidation, "field %q must be a JSON array of strings", def.Label)
	}
	options := def.FieldParams.Options
	if len(options) == 0 {
		return nil
	}
	for _, element := range selected {
		if !inOptions(options, element) {
			return dErrors.Newf(dErrors.CodeValidation, "field %q does not allow value %q", def.Label, element)
		}
	}
	return nil
}

func validateJSON(def *models.FieldDefinition, value string) error {
	if !json.Valid([]byte(value)) {
		return dErrors.Newf(dErrors.CodeValidation, "field %q must be valid JSON", def.Label)
	}
	return nil
}
