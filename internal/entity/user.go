package entity

type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

type UserLoginData struct {
	ID    string
	Email string
	Role  Role
}
