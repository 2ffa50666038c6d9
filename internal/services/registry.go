package services

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService    AuthService
	ProfileService ProfileService
	MeetingService MeetingService
	SearchService  SearchService
	PaymentService PaymentService
	AdminService   AdminService
}
