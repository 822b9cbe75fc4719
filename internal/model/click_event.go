package model

import (
	"time"
)

// ClickEvent is an immutable record of one resolved visit
type ClickEvent struct {
	ID          int64       `json:"id" gorm:"primaryKey;autoIncrement"`
	EventID     string      `json:"event_id" gorm:"type:varchar(36);uniqueIndex;not null"`
	LinkID      int64       `json:"link_id" gorm:"index;not null"`
	ClickedAt   time.Time   `json:"clicked_at" gorm:"index;not null"`
	DeviceType  DeviceClass `json:"device_type" gorm:"type:varchar(16)"`
	Referrer    string      `json:"referrer" gorm:"type:varchar(512)"`
	CountryCode string      `json:"country_code" gorm:"type:varchar(8)"`
	VisitorHash string      `json:"visitor_hash" gorm:"type:varchar(32)"`
}

// TableName returns the table name for ClickEvent
func (ClickEvent) TableName() string {
	return "click_events"
}

// ClickEventMessage is the wire form of a ClickEvent on the message queue
type ClickEventMessage struct {
	EventID     string    `json:"event_id"`
	LinkID      int64     `json:"link_id"`
	ClickedAt   time.Time `json:"clicked_at"`
	DeviceType  string    `json:"device_type"`
	Referrer    string    `json:"referrer"`
	CountryCode string    `json:"country_code"`
	VisitorHash string    `json:"visitor_hash"`
}

// Message converts the event to its queue representation
func (e *ClickEvent) Message() *ClickEventMessage {
	return &ClickEventMessage{
		EventID:     e.EventID,
		LinkID:      e.LinkID,
		ClickedAt:   e.ClickedAt,
		DeviceType:  string(e.DeviceType),
		Referrer:    e.Referrer,
		CountryCode: e.CountryCode,
		VisitorHash: e.VisitorHash,
	}
}

// Event converts a queue message back into a ClickEvent
func (m *ClickEventMessage) Event() *ClickEvent {
	return &ClickEvent{
		EventID:     m.EventID,
		LinkID:      m.LinkID,
		ClickedAt:   m.ClickedAt,
		DeviceType:  DeviceClass(m.DeviceType),
		Referrer:    m.Referrer,
		CountryCode: m.CountryCode,
		VisitorHash: m.VisitorHash,
	}
}
