package auth

// Роли пользователей платформы
const (
	RoleUser       = "user"
	RoleSuperAdmin = "superadmin"
)

// Action - действие над ресурсом, проверяемое политикой доступа
type Action string

const (
	ActionMeetingView     Action = "meeting:view"
	ActionMeetingAccept   Action = "meeting:accept"
	ActionMeetingReject   Action = "meeting:reject"
	ActionMeetingModify   Action = "meeting:modify"
	ActionMeetingCancel   Action = "meeting:cancel"
	ActionMeetingComplete Action = "meeting:complete"
	ActionMeetingPay      Action = "meeting:pay"

	ActionUserUpdate     Action = "user:update"
	ActionUserDelete     Action = "user:delete"
	ActionUserDeactivate Action = "user:deactivate"
	ActionUserActivate   Action = "user:activate"
)

// Caller - субъект, выполняющий действие
type Caller struct {
	ID   string
	Role string
}

// MeetingRefs - минимальная проекция встречи для проверки прав
type MeetingRefs struct {
	SenderID    string
	RecipientID string
}

// CanActOnMeeting - единая точка авторизации для операций над
// meeting-request: (caller, resource, action) -> allow/deny.
// Все мутации жизненного цикла обязаны проходить через нее.
func CanActOnMeeting(caller Caller, m MeetingRefs, action Action) bool {
	isSender := caller.ID == m.SenderID
	isRecipient := caller.ID == m.RecipientID

	switch action {
	case ActionMeetingAccept, ActionMeetingReject, ActionMeetingModify:
		return isRecipient
	case ActionMeetingCancel, ActionMeetingComplete, ActionMeetingView:
		return isSender || isRecipient
	case ActionMeetingPay:
		return isSender
	default:
		return false
	}
}

// UserRefs - минимальная проекция пользователя-цели админ-операции
type UserRefs struct {
	ID   string
	Role string
}

// CanAdministerUser решает, может ли caller выполнить админ-действие над
// целевым аккаунтом. Супер-админы защищены от действий других админов;
// обновить супер-админа может только он сам.
func CanAdministerUser(caller Caller, target UserRefs, action Action) bool {
	if caller.Role != RoleSuperAdmin {
		return false
	}

	switch action {
	case ActionUserUpdate:
		if target.Role == RoleSuperAdmin && target.ID != caller.ID {
			return false
		}
		return true
	case ActionUserDelete, ActionUserDeactivate:
		return target.Role != RoleSuperAdmin
	case ActionUserActivate:
		return true
	default:
		return false
	}
}
