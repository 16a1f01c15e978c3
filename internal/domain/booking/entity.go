package booking

import "time"

type AvailabilityInput struct {
	ServiceID uint
	Date      time.Time
}

type TimeSlot struct {
	Start   string    `json:"start"`
	End     string    `json:"end"`
	StartAt time.Time `json:"start_at"`
}
