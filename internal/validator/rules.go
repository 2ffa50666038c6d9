package validator

import (
	"log"

	"meetlink_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules регистрирует кастомные правила для
// доменных перечислений из statuses.go.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// Без этих правил приложение не должно запускаться
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-meeting-type", validateMeetingType)
	mustRegister("is-meeting-format", validateMeetingFormat)
	mustRegister("is-meeting-status", validateMeetingStatus)
	mustRegister("is-compensation-type", validateCompensationType)
	mustRegister("is-meeting-rate", validateMeetingRate)
}

func validateMeetingType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // пустые проверяет 'required'
	}
	for _, t := range models.AllMeetingTypes {
		if models.MeetingType(value) == t {
			return true
		}
	}
	return false
}

func validateMeetingFormat(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.MeetingFormat(value) {
	case models.MeetingFormatOnline, models.MeetingFormatInPerson, models.MeetingFormatBoth:
		return true
	default:
		return false
	}
}

func validateMeetingStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.MeetingStatus(value) {
	case models.MeetingStatusPending, models.MeetingStatusAccepted, models.MeetingStatusRejected,
		models.MeetingStatusModified, models.MeetingStatusCancelled, models.MeetingStatusCompleted:
		return true
	default:
		return false
	}
}

func validateCompensationType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.CompensationType(value) {
	case models.CompensationNone, models.CompensationMonetary, models.CompensationInKind:
		return true
	default:
		return false
	}
}

func validateMeetingRate(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.MeetingRate(value) {
	case models.MeetingRateFree, models.MeetingRatePerHour, models.MeetingRatePerMinute, models.MeetingRateCustom:
		return true
	default:
		return false
	}
}
