package validation

import (
	"errors"
	"fmt"
	"strings"

	"jobs-admin-backend/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps json field names to user-friendly labels
var FieldLabels = map[string]string{
	// Company fields
	"refId":       "Ref ID",
	"name":        "Company Name",
	"description": "Description",
	"industry":    "Industry",
	"website":     "Website",

	// Primary contact fields
	"contactFirstName": "Contact First Name",
	"contactLastName":  "Contact Last Name",
	"contactEmail":     "Contact Email",
	"contactRole":      "Contact Role",
	"contactPhone":     "Contact Phone",

	// Job fields
	"companyId":   "Company",
	"title":       "Title",
	"status":      "Status",
	"location":    "Location",
	"basis":       "Basis",
	"seniority":   "Seniority",
	"closingDate": "Closing Date",
	"salaryBands": "Salary Bands",
	"categories":  "Categories",

	// Upload
	"logo": "Logo",
}

// Issues converts validator.ValidationErrors to field-addressable issues.
// Field paths drop the root struct name, so a bad category reads "categories[1]".
func Issues(err error) []apperror.Issue {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		// Not a validation error, return generic message
		return []apperror.Issue{{Message: err.Error()}}
	}

	issues := make([]apperror.Issue, 0, len(validationErrors))
	for _, e := range validationErrors {
		issues = append(issues, apperror.Issue{
			Field:   fieldPath(e.Namespace()),
			Message: formatSingleError(e),
		})
	}
	return issues
}

// formatSingleError formats a single validation error to a user-friendly message
func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.Field())
	param := e.Param()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label)

	case "min":
		if e.Kind().String() == "slice" {
			return fmt.Sprintf("%s must contain at least %s item(s)", label, param)
		}
		return fmt.Sprintf("%s must be at least %s characters", label, param)

	case "max":
		if e.Kind().String() == "slice" {
			return fmt.Sprintf("%s must contain at most %s item(s)", label, param)
		}
		return fmt.Sprintf("%s must be at most %s characters", label, param)

	case "unique":
		return fmt.Sprintf("%s must not contain duplicates", label)

	case "email":
		return fmt.Sprintf("Valid %s is required", strings.ToLower(label))

	case "uuid":
		return fmt.Sprintf("%s must be a valid id", label)

	case "datetime":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", label)

	case "job_status":
		return fmt.Sprintf("%s must be one of: open, closed, draft", label)

	case "seniority", "salary_band", "job_category":
		return fmt.Sprintf("%s has an unknown value %q", label, fmt.Sprint(e.Value()))

	default:
		// Fallback for unknown tags
		return fmt.Sprintf("%s failed validation (%s)", label, e.Tag())
	}
}

// fieldPath strips the leading struct name from a validator namespace.
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

// getFieldLabel returns the user-friendly label for a field.
// Dive errors arrive as "categories[1]" and use the label of the slice.
func getFieldLabel(fieldName string) string {
	if i := strings.IndexByte(fieldName, '['); i >= 0 {
		fieldName = fieldName[:i]
	}
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	return formatCamelCase(fieldName)
}

// formatCamelCase converts camelCase to spaced words
func formatCamelCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune(' ')
		}
		result.WriteRune(r)
	}
	return result.String()
}
