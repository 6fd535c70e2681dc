package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Subscriber struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	SubscriberNo string       `gorm:"column:subscriber_no;size:64;not null;uniqueIndex" json:"subscriberNo"`
	Name         string       `gorm:"size:200;not null" json:"name"`
	Email        string       `gorm:"size:320;not null" json:"email"`
	CreatedAt    time.Time    `gorm:"not null" json:"createdAt"`
	UpdatedAt    time.Time    `gorm:"not null" json:"updatedAt"`
}

func (Subscriber) TableName() string { return "subscribers" }

// NormalizeNumber is the comparison key for subscriber numbers.
func NormalizeNumber(no string) string {
	return strings.ToLower(strings.TrimSpace(no))
}
