package model

import (
	"fmt"
	"strings"
	"time"
)

// ValidationError reports a record that failed entity validation. Field
// names the offending attribute so the caller can point the user at it.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

const dateLayout = "2006-01-02"

func validDate(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}

func (u User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return invalid("name", "required")
	}
	switch u.Classification {
	case ClassificationAfterSchool, ClassificationChildDev:
	default:
		return invalid("classification", "unknown classification")
	}
	if u.DeletedAt != nil && u.Active {
		return invalid("active", "deleted user must be inactive")
	}
	return nil
}

func (r DailyReport) Validate() error {
	if r.BusinessDate == "" {
		return invalid("business_date", "required")
	}
	if !validDate(r.BusinessDate) {
		return invalid("business_date", "must be YYYY-MM-DD")
	}
	if r.HydrationML < 0 {
		return invalid("hydration_ml", "must be non-negative")
	}
	if r.TransportCount < 0 {
		return invalid("transport_count", "must be non-negative")
	}
	return nil
}

func (a StaffAccount) Validate() error {
	if strings.TrimSpace(a.UserID) == "" {
		return invalid("user_id", "required")
	}
	if a.PasswordHash == "" {
		return invalid("password_hash", "required")
	}
	if strings.TrimSpace(a.DisplayName) == "" {
		return invalid("display_name", "required")
	}
	if a.DeletedAt != nil && a.Active {
		return invalid("active", "deleted account must be inactive")
	}
	return nil
}

func (m MorningMeeting) Validate() error {
	if m.Date == "" {
		return invalid("date", "required")
	}
	if !validDate(m.Date) {
		return invalid("date", "must be YYYY-MM-DD")
	}
	return nil
}

func (t Tag) Validate() error {
	if !t.TagType.Valid() {
		return invalid("tag_type", "must be learning, free_play or group_play")
	}
	if strings.TrimSpace(t.TagName) == "" {
		return invalid("tag_name", "required")
	}
	return nil
}

func (r DailyUserRecord) Validate() error {
	if r.Date == "" {
		return invalid("date", "required")
	}
	if !validDate(r.Date) {
		return invalid("date", "must be YYYY-MM-DD")
	}
	if r.UserID <= 0 {
		return invalid("user_id", "required")
	}
	return nil
}
