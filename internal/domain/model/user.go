package model

import (
	"time"

	"github.com/Aizen-Agency/dreamster-be/internal/domain/enums"
)

type User struct {
	ID        string         `json:"id"`
	Username  string         `json:"username"`
	Email     string         `json:"email"`
	Role      enums.UserRole `json:"role"`
	CreatedAt time.Time      `json:"created_at"`
}
