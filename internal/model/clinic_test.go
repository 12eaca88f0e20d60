package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomLayoutValidate(t *testing.T) {
	layout := RoomLayout{
		Rows: 2,
		Cols: 2,
		Rooms: []Room{
			{Label: "Exam 1", Row: 0, Col: 0},
			{Label: "Exam 2", Row: 1, Col: 1},
		},
	}
	require.NoError(t, layout.Validate())
}

func TestRoomLayoutRejectsOutOfBounds(t *testing.T) {
	layout := RoomLayout{
		Rows:  2,
		Cols:  2,
		Rooms: []Room{{Label: "Lab", Row: 2, Col: 0}},
	}
	assert.Error(t, layout.Validate())
}

func TestRoomLayoutRejectsOverlap(t *testing.T) {
	layout := RoomLayout{
		Rows: 2,
		Cols: 2,
		Rooms: []Room{
			{Label: "A", Row: 0, Col: 0},
			{Label: "B", Row: 0, Col: 0},
		},
	}
	assert.Error(t, layout.Validate())
}

func TestRoomLayoutRejectsEmptyGrid(t *testing.T) {
	layout := RoomLayout{}
	assert.Error(t, layout.Validate())
}
