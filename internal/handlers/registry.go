package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler    *AuthHandler
	ProfileHandler *ProfileHandler
	MeetingHandler *MeetingHandler
	SearchHandler  *SearchHandler
	PaymentHandler *PaymentHandler
	AdminHandler   *AdminHandler
}
