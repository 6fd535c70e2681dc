package ratelimit

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
)

// QueryLimitLog is one subscriber's query counter for one UTC day.
type QueryLimitLog struct {
	ID           snowflake.ID `gorm:"primaryKey"`
	SubscriberNo string       `gorm:"column:subscriber_no;size:64;not null;uniqueIndex:ux_query_limit_logs_subscriber_date,priority:1"`
	Date         time.Time    `gorm:"column:date;type:date;not null;uniqueIndex:ux_query_limit_logs_subscriber_date,priority:2;index"`
	Count        int          `gorm:"column:count;not null;default:0"`
	CreatedAt    time.Time    `gorm:"not null"`
	UpdatedAt    time.Time    `gorm:"not null"`
}

func (QueryLimitLog) TableName() string { return "query_limit_logs" }

type Decision struct {
	Allowed bool
	Count   int
	Limit   int
	Day     time.Time
}

// Day truncates t to the start of its UTC calendar day.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func counterKey(subscriberNo string) string {
	return strings.ToLower(strings.TrimSpace(subscriberNo))
}
