package model

import (
	"fmt"
	"time"
)

// Room is a single cell in the clinic layout grid
type Room struct {
	Label string `json:"label" bson:"label"`
	Row   int    `json:"row" bson:"row"`
	Col   int    `json:"col" bson:"col"`
	Kind  string `json:"kind,omitempty" bson:"kind,omitempty"` // e.g. "exam", "waiting", "lab"
}

// RoomLayout is the clinic floor grid shown on the clinician dashboard
type RoomLayout struct {
	Rows  int    `json:"rows" bson:"rows"`
	Cols  int    `json:"cols" bson:"cols"`
	Rooms []Room `json:"rooms,omitempty" bson:"rooms,omitempty"`
}

// Validate checks grid bounds and cell uniqueness.
func (l *RoomLayout) Validate() error {
	if l.Rows <= 0 || l.Cols <= 0 {
		return fmt.Errorf("layout must have positive dimensions, got %dx%d", l.Rows, l.Cols)
	}
	seen := make(map[[2]int]bool, len(l.Rooms))
	for _, room := range l.Rooms {
		if room.Row < 0 || room.Row >= l.Rows || room.Col < 0 || room.Col >= l.Cols {
			return fmt.Errorf("room %q at (%d,%d) outside %dx%d grid", room.Label, room.Row, room.Col, l.Rows, l.Cols)
		}
		cell := [2]int{room.Row, room.Col}
		if seen[cell] {
			return fmt.Errorf("duplicate room at (%d,%d)", room.Row, room.Col)
		}
		seen[cell] = true
	}
	return nil
}

// Clinic is a registered practice patients check in to
type Clinic struct {
	ID        string     `json:"id" bson:"_id,omitempty"`
	Code      string     `json:"code" bson:"code"` // short join code patients use
	Name      string     `json:"name" bson:"name"`
	Address   string     `json:"address,omitempty" bson:"address,omitempty"`
	Layout    RoomLayout `json:"layout" bson:"layout"`
	CreatedAt time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// ClinicMeta is the cached subset of clinic state used on hot paths
type ClinicMeta struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}
