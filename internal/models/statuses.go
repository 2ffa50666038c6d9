package models

type UserRole string
type MeetingStatus string
type MeetingType string
type MeetingFormat string
type CompensationType string
type MeetingRate string

const (
	UserRoleUser       UserRole = "user"
	UserRoleSuperAdmin UserRole = "superadmin"

	MeetingStatusPending   MeetingStatus = "pending"
	MeetingStatusAccepted  MeetingStatus = "accepted"
	MeetingStatusRejected  MeetingStatus = "rejected"
	MeetingStatusModified  MeetingStatus = "modified"
	MeetingStatusCancelled MeetingStatus = "cancelled"
	MeetingStatusCompleted MeetingStatus = "completed"

	MeetingTypePaidConsulting   MeetingType = "paid-consulting"
	MeetingTypeProBono          MeetingType = "pro-bono"
	MeetingTypeStartupAdvice    MeetingType = "startup-advice"
	MeetingTypeSoundboard       MeetingType = "soundboard"
	MeetingTypeInvestorPitch    MeetingType = "investor-pitch"
	MeetingTypeEmotionalSupport MeetingType = "emotional-support"
	MeetingTypeDating           MeetingType = "dating"
	MeetingTypeExpertAdvice     MeetingType = "expert-advice"
	MeetingTypeSkillsTraining   MeetingType = "skills-training"
	MeetingTypeTroubleshooting  MeetingType = "troubleshooting"
	MeetingTypeOther            MeetingType = "other"

	MeetingFormatOnline   MeetingFormat = "online"
	MeetingFormatInPerson MeetingFormat = "in-person"
	MeetingFormatBoth     MeetingFormat = "both" // только для предпочтений пользователя

	CompensationNone     CompensationType = "none"
	CompensationMonetary CompensationType = "monetary"
	CompensationInKind   CompensationType = "in-kind"

	MeetingRateFree      MeetingRate = "free"
	MeetingRatePerHour   MeetingRate = "per-hour"
	MeetingRatePerMinute MeetingRate = "per-minute"
	MeetingRateCustom    MeetingRate = "custom"
)

// AllMeetingTypes - закрытый список типов встреч
var AllMeetingTypes = []MeetingType{
	MeetingTypePaidConsulting,
	MeetingTypeProBono,
	MeetingTypeStartupAdvice,
	MeetingTypeSoundboard,
	MeetingTypeInvestorPitch,
	MeetingTypeEmotionalSupport,
	MeetingTypeDating,
	MeetingTypeExpertAdvice,
	MeetingTypeSkillsTraining,
	MeetingTypeTroubleshooting,
	MeetingTypeOther,
}

// IsTerminal - rejected, cancelled и completed не имеют исходящих переходов
func (s MeetingStatus) IsTerminal() bool {
	return s == MeetingStatusRejected || s == MeetingStatusCancelled || s == MeetingStatusCompleted
}
