package model

import "time"

// Customer represents a customer record. Customers carry no change history.
type Customer struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null;index"`
	Email     *string   `json:"email" gorm:"type:varchar(255);index"`
	Phone     *string   `json:"phone" gorm:"type:varchar(50)"`
	Address   *string   `json:"address" gorm:"type:text"`
	Notes     *string   `json:"notes" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
