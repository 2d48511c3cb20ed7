package usecase

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var nonDigit = regexp.MustCompile(`\D`)

func ValidateCaptureLeadInput(input CaptureLeadInput) []ValidationError {
	var errors []ValidationError

	errors = append(errors, validateName("name", input.Name)...)
	errors = append(errors, validateEmail("email", input.Email)...)

	source := entity.LeadSource(input.Source)
	if input.Source == "" {
		errors = append(errors, ValidationError{"source", "is required"})
	} else if !source.Valid() || source == entity.SourceManual {
		errors = append(errors, ValidationError{"source", "must be b2b_form, b2e_form or contact_form"})
	}

	if input.Phone != "" && !isValidPhoneNumber(input.Phone) {
		errors = append(errors, ValidationError{"phone", "must be a valid phone number"})
	}
	if len(input.Message) > 5000 {
		errors = append(errors, ValidationError{"message", "must not exceed 5000 characters"})
	}

	return errors
}

func ValidateCreateLeadInput(input CreateLeadInput) []ValidationError {
	var errors []ValidationError

	errors = append(errors, validateName("name", input.Name)...)
	errors = append(errors, validateEmail("email", input.Email)...)

	if !entity.Segment(input.Segment).Valid() {
		errors = append(errors, ValidationError{"segment", "must be B2B, B2E or other"})
	}
	if input.Phone != "" && !isValidPhoneNumber(input.Phone) {
		errors = append(errors, ValidationError{"phone", "must be a valid phone number"})
	}

	return errors
}

func ValidateConvertLeadInput(input ConvertLeadInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.LeadID) == "" {
		errors = append(errors, ValidationError{"lead_id", "is required"})
	}
	errors = append(errors, validateOrganization(input.Organization)...)

	return errors
}

func ValidateCreateOrganizationInput(input CreateOrganizationInput) []ValidationError {
	var errors []ValidationError

	errors = append(errors, validateOrganization(input.Organization)...)
	if strings.TrimSpace(input.OwnerName) == "" {
		errors = append(errors, ValidationError{"owner_name", "is required"})
	}

	return errors
}

func ValidateCreatePackageInput(input CreatePackageInput) []ValidationError {
	var errors []ValidationError

	errors = append(errors, validateName("name", input.Name)...)
	if !entity.Segment(input.Segment).Valid() {
		errors = append(errors, ValidationError{"segment", "must be B2B, B2E or other"})
	}
	if input.PriceCents < 0 {
		errors = append(errors, ValidationError{"price_cents", "must not be negative"})
	}
	if input.Seats < 1 {
		errors = append(errors, ValidationError{"seats", "must be at least 1"})
	}
	if input.DurationMonths < 1 || input.DurationMonths > 60 {
		errors = append(errors, ValidationError{"duration_months", "must be between 1 and 60"})
	}

	return errors
}

func validateOrganization(org OrganizationInput) []ValidationError {
	var errors []ValidationError

	errors = append(errors, validateName("organization.name", org.Name)...)
	if strings.TrimSpace(org.ContactName) == "" {
		errors = append(errors, ValidationError{"organization.contact_name", "is required"})
	}
	errors = append(errors, validateEmail("organization.contact_email", org.ContactEmail)...)

	segment := entity.Segment(org.Segment)
	if org.Segment == "" {
		errors = append(errors, ValidationError{"organization.segment", "is required"})
	} else if !segment.Valid() {
		errors = append(errors, ValidationError{"organization.segment", "must be B2B, B2E or other"})
	}

	return errors
}

func validateName(field, name string) []ValidationError {
	trimmed := strings.TrimSpace(name)
	switch {
	case trimmed == "":
		return []ValidationError{{field, "is required"}}
	case len(trimmed) < 2:
		return []ValidationError{{field, "must have at least 2 characters"}}
	case len(trimmed) > 200:
		return []ValidationError{{field, "must not exceed 200 characters"}}
	}
	return nil
}

func validateEmail(field, email string) []ValidationError {
	if strings.TrimSpace(email) == "" {
		return []ValidationError{{field, "is required"}}
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return []ValidationError{{field, "is invalid"}}
	}
	return nil
}

func isValidPhoneNumber(phone string) bool {
	cleaned := nonDigit.ReplaceAllString(phone, "")
	return len(cleaned) >= 8 && len(cleaned) <= 15
}

// The lifecycle operations receive raw strings from the transport layer and
// reject anything outside the closed vocabularies.

func parseDemoStatus(s string) (entity.DemoStatus, error) {
	status := entity.DemoStatus(s)
	if !status.Valid() {
		return "", InvalidArgument("invalid demo status: " + s)
	}
	return status, nil
}

func parseQuoteStatus(s string) (entity.QuoteStatus, error) {
	status := entity.QuoteStatus(s)
	if !status.Valid() {
		return "", InvalidArgument("invalid quote status: " + s)
	}
	return status, nil
}

func parseEngagementType(s string) (entity.EngagementType, error) {
	t := entity.EngagementType(s)
	if !t.Valid() {
		return "", InvalidArgument("invalid engagement type: " + s)
	}
	return t, nil
}
