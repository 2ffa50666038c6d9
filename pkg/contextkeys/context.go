package contextkeys

// UserIDContextKey - ключ авторизованного пользователя (gin context)
const UserIDContextKey = "userID"

// RoleContextKey - ключ роли авторизованного пользователя (gin context)
const RoleContextKey = "role"
