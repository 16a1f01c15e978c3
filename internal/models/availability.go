package models

import "time"

// WeeklyAvailability define el horario regular del estudio para un día de
// la semana. Como máximo una regla activa por weekday.
type WeeklyAvailability struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Weekday int `gorm:"uniqueIndex;not null" json:"weekday"` // 0=domingo ... 6=sábado (time.Weekday)

	StartTime string `gorm:"size:5" json:"start_time"` // "09:00"
	EndTime   string `gorm:"size:5" json:"end_time"`   // "20:00"
	Active    bool   `json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AvailabilityOverride es una excepción para una fecha puntual: feriado
// (Blocked=true) o ventana reemplazante. Tiene precedencia sobre la regla
// semanal.
type AvailabilityOverride struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Date time.Time `gorm:"type:date;uniqueIndex;not null" json:"date"`

	Blocked   bool   `json:"blocked"`
	StartTime string `gorm:"size:5" json:"start_time"`
	EndTime   string `gorm:"size:5" json:"end_time"`

	Reason string `gorm:"size:255" json:"reason"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
