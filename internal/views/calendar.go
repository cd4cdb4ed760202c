package views

import (
	"time"

	"showbill/internal/models"
)

// MonthGrid groups one calendar month's events by day of month. Only days
// that have at least one event appear in the result; within a day the input
// order is kept.
func MonthGrid(events []models.Event, year int, month time.Month) map[int][]models.Event {
	grid := make(map[int][]models.Event)
	for _, ev := range events {
		at, err := ev.StartsAt()
		if err != nil {
			continue
		}
		if at.Year() != year || at.Month() != month {
			continue
		}
		day := at.Day()
		grid[day] = append(grid[day], ev)
	}
	return grid
}
