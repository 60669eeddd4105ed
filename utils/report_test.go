package utils

import (
	"bytes"
	"testing"
	"time"

	"hostel_manager/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestBuildOccupancyReport(t *testing.T) {
	rooms := []model.RoomView{
		{ID: 1, RoomNumber: "101", Capacity: 2, Assigned: 2, Occupied: true, Students: []model.StudentSummary{
			{ID: 1, User: model.UserDisplay{Name: "Ann"}},
			{ID: 2, User: model.UserDisplay{Name: "Ben"}},
		}},
		{ID: 2, RoomNumber: "102", Capacity: 4},
		{ID: 3, RoomNumber: "103", Capacity: 1, Assigned: 2, Occupied: true},
	}

	data, err := BuildOccupancyReport(rooms, time.Date(2024, 9, 1, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{OccupancySheet}, f.GetSheetList())
	rows, err := f.GetRows(OccupancySheet)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 4)

	assert.Equal(t, occupancyHeader, rows[0])
	assert.Equal(t, []string{"101", "2", "2", "0", "100", "FULL", "Ann, Ben"}, rows[1])
	assert.Equal(t, "EMPTY", rows[2][5])
	assert.Equal(t, "OVER CAPACITY", rows[3][5])
	assert.Equal(t, "0", rows[3][3])

	footer, err := f.GetCellValue(OccupancySheet, "A6")
	require.NoError(t, err)
	assert.Equal(t, "Generated at 2024-09-01 08:00:00", footer)
}

func TestOccupancyRate(t *testing.T) {
	assert.Equal(t, 50.0, OccupancyRate(1, 2))
	assert.Equal(t, 33.33, OccupancyRate(1, 3))
	assert.Equal(t, 0.0, OccupancyRate(3, 0))
}
