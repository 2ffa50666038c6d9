// @title           MeetLink API
// @version         1.0
// @description     Backend для маркетплейса встреч: запросы, расписание, оплата (документация Swagger).
// @contact.name    MeetLink
// @contact.email   support@meetlink.app
// @host            localhost:4000
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import "meetlink_backend/internal/app"

func main() {
	app.Run()
}
