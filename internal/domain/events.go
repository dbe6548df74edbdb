package domain

import "time"

// EventType тип события в шине уведомлений
type EventType string

const EventEmailRequested EventType = "email.requested"

// EmailMessage готовое к отправке письмо
type EmailMessage struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	Text    string `json:"text,omitempty"`
}

// Event конверт события для kafka
type Event struct {
	ID         string        `json:"id"`
	Type       EventType     `json:"type"`
	Key        string        `json:"key"`
	Email      *EmailMessage `json:"email,omitempty"`
	OccurredAt time.Time     `json:"occurred_at"`
}
