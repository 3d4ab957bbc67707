package entities

import "time"

// User persists an account row. Account details are managed outside this
// service; rows are provisioned on first use so conversations always have
// an owner to reference.
type User struct {
	ID        uint      `gorm:"primaryKey"`
	Email     *string   `gorm:"type:varchar(255);uniqueIndex"`
	Superuser bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName specifies the table name for User.
func (User) TableName() string {
	return "users"
}
