package enums

type UserRole string

const (
	UserRoleFan      UserRole = "fan"
	UserRoleMusician UserRole = "musician"
	UserRoleAdmin    UserRole = "admin"
)
