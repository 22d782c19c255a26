// internal/models/category.go
package models

import "github.com/google/uuid"

// Category is a three-level tree scoped per owner: level 1 top-level,
// levels 2 and 3 hang off a parent one level up.
type Category struct {
	BaseModel
	Name     string     `json:"name" gorm:"size:100;not null"`
	ParentID *uuid.UUID `json:"parent_id,omitempty" gorm:"type:uuid;index"`
	Level    int        `json:"level" gorm:"not null"`
	OwnerID  uuid.UUID  `json:"owner_id" gorm:"type:uuid;not null;index"`

	// Relationships
	Parent        *Category  `json:"parent,omitempty" gorm:"foreignKey:ParentID"`
	SubCategories []Category `json:"sub_categories,omitempty" gorm:"foreignKey:ParentID"`
}
