package models

import "time"

type Model struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// The multi-tenant sketch below was carried by one schema revision of the old
// app and never got endpoints. The tables are still migrated so existing
// databases keep their columns; nothing writes to them yet.

type User struct {
	Model
	Name          string `gorm:"size:100" json:"name"`
	Email         string `gorm:"size:200;uniqueIndex" json:"email"`
	FamilyGroupID *uint  `json:"family_group_id,omitempty"`
}

type FamilyGroup struct {
	Model
	Name    string `gorm:"size:100" json:"name"`
	Members []User `gorm:"foreignKey:FamilyGroupID" json:"members,omitempty"`
}

type Comment struct {
	Model
	MediaID uint   `gorm:"index" json:"media_id"`
	Author  string `gorm:"size:100" json:"author"`
	Body    string `gorm:"type:text" json:"body"`
}
