package utils

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"hostel_manager/model"

	"github.com/xuri/excelize/v2"
)

const OccupancySheet = "Occupancy"

var occupancyHeader = []string{"Room", "Capacity", "Assigned", "Free", "Occupancy %", "Status", "Students"}

// BuildOccupancyReport renders one row per room into an XLSX workbook.
func BuildOccupancyReport(rooms []model.RoomView, generatedAt time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(OccupancySheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for col, header := range occupancyHeader {
		if err := setCell(f, col+1, 1, header); err != nil {
			return nil, err
		}
	}
	last, err := excelize.CoordinatesToCellName(len(occupancyHeader), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(OccupancySheet, "A1", last, headerStyle); err != nil {
		return nil, fmt.Errorf("set header style: %w", err)
	}
	if err := f.SetColWidth(OccupancySheet, "A", "A", 15); err != nil {
		return nil, fmt.Errorf("set column width: %w", err)
	}
	if err := f.SetColWidth(OccupancySheet, "G", "G", 60); err != nil {
		return nil, fmt.Errorf("set column width: %w", err)
	}

	for i, room := range rooms {
		row := i + 2
		free := int64(room.Capacity) - room.Assigned
		if free < 0 {
			free = 0
		}
		names := make([]string, 0, len(room.Students))
		for _, s := range room.Students {
			names = append(names, s.User.Name)
		}
		values := []any{
			room.RoomNumber,
			room.Capacity,
			room.Assigned,
			free,
			OccupancyRate(room.Assigned, room.Capacity),
			roomStatus(room),
			strings.Join(names, ", "),
		}
		for col, v := range values {
			if err := setCell(f, col+1, row, v); err != nil {
				return nil, err
			}
		}
	}

	footer := len(rooms) + 3
	if err := setCell(f, 1, footer, "Generated at "+generatedAt.Format("2006-01-02 15:04:05")); err != nil {
		return nil, err
	}

	if err := f.SetPanes(OccupancySheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("freeze header: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func roomStatus(room model.RoomView) string {
	switch {
	case room.Assigned > int64(room.Capacity):
		return "OVER CAPACITY"
	case room.Occupied:
		return "FULL"
	case room.Assigned == 0:
		return "EMPTY"
	}
	return "AVAILABLE"
}

func setCell(f *excelize.File, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(OccupancySheet, cell, value); err != nil {
		return fmt.Errorf("set cell %s: %w", cell, err)
	}
	return nil
}
