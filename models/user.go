package models

const (
	RoleAdmin     = "admin"
	RoleScientist = "scientist"
	RoleViewer    = "viewer"
)

// User ist ein angemeldeter Wissenschaftler. Benutzer werden nie hart gelöscht.
type User struct {
	Base
	Email          string `json:"email" gorm:"size:255;uniqueIndex;not null"`
	HashedPassword string `json:"-" gorm:"size:255;not null"`
	FullName       string `json:"full_name" gorm:"size:255"`
	IsActive       bool   `json:"is_active" gorm:"not null"`
	Role           string `json:"role" gorm:"size:50;not null"`

	Projects []Project `json:"-" gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
}

func (User) TableName() string { return "users" }

// ValidRole prüft, ob role eine bekannte Rolle ist.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleScientist, RoleViewer:
		return true
	}
	return false
}
