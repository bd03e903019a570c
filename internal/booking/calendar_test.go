package booking_test

import (
	"errors"
	"testing"
	"time"

	"atlas/internal/booking"
)

// fixedCalendar returns a calendar whose "now" is 2024-06-15 10:30 UTC.
func fixedCalendar() *booking.Calendar {
	return &booking.Calendar{
		Now:      func() time.Time { return time.Date(2024, time.June, 15, 10, 30, 0, 0, time.UTC) },
		Location: time.UTC,
	}
}

func TestMonthGrid_PastDaysDisabled(t *testing.T) {
	t.Parallel()

	grid := fixedCalendar().MonthGrid(2024, time.June, nil)

	if len(grid.Days) != 30 {
		t.Fatalf("expected 30 days in June, got %d", len(grid.Days))
	}
	for _, cell := range grid.Days {
		wantDisabled := cell.Day < 15
		if cell.Disabled != wantDisabled {
			t.Errorf("day %d: disabled=%v, want %v", cell.Day, cell.Disabled, wantDisabled)
		}
		if cell.Today != (cell.Day == 15) {
			t.Errorf("day %d: today=%v", cell.Day, cell.Today)
		}
	}
	if !grid.PrevDisabled {
		t.Error("expected previous-month control disabled on the current month")
	}
	if grid.NextDisabled {
		t.Error("next-month control must always be enabled")
	}
}

func TestMonthGrid_LeadingBlanks(t *testing.T) {
	t.Parallel()

	// 1 June 2024 is a Saturday.
	grid := fixedCalendar().MonthGrid(2024, time.June, nil)
	if grid.LeadingBlanks != 6 {
		t.Errorf("expected 6 leading blanks, got %d", grid.LeadingBlanks)
	}

	weeks := grid.Weeks()
	if len(weeks) != 6 {
		t.Fatalf("expected 6 rows, got %d", len(weeks))
	}
	if weeks[0][5] != nil || weeks[0][6] == nil || weeks[0][6].Day != 1 {
		t.Error("expected day 1 in the Saturday column of the first row")
	}
	for _, week := range weeks {
		if len(week) != 7 {
			t.Fatalf("expected 7 columns, got %d", len(week))
		}
	}
}

func TestMonthGrid_PastMonthFullyDisabled(t *testing.T) {
	t.Parallel()

	grid := fixedCalendar().MonthGrid(2024, time.May, nil)
	if !grid.PrevDisabled {
		t.Error("expected previous-month control disabled for May 2024")
	}
	for _, cell := range grid.Days {
		if !cell.Disabled {
			t.Fatalf("day %d of a past month should be disabled", cell.Day)
		}
	}
}

func TestMonthGrid_FutureMonthSelectable(t *testing.T) {
	t.Parallel()

	selected := time.Date(2024, time.July, 4, 15, 0, 0, 0, time.UTC)
	grid := fixedCalendar().MonthGrid(2024, time.July, &selected)

	if grid.PrevDisabled {
		t.Error("expected previous-month control enabled for July")
	}
	for _, cell := range grid.Days {
		if cell.Disabled {
			t.Fatalf("day %d of a future month should be selectable", cell.Day)
		}
		if cell.Selected != (cell.Day == 4) {
			t.Errorf("day %d: selected=%v", cell.Day, cell.Selected)
		}
	}
}

func TestValidateDate(t *testing.T) {
	t.Parallel()

	cal := fixedCalendar()

	if _, err := cal.ValidateDate(time.Date(2024, time.June, 14, 23, 59, 0, 0, time.UTC)); !errors.Is(err, booking.ErrPastDate) {
		t.Errorf("expected ErrPastDate for yesterday, got %v", err)
	}

	got, err := cal.ValidateDate(time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("today must be selectable: %v", err)
	}
	if !got.Equal(time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected normalized date %v", got)
	}

	got, err = cal.ValidateDate(time.Date(2030, time.January, 1, 18, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("far future must be selectable: %v", err)
	}
	if got.Hour() != 0 {
		t.Errorf("expected midnight, got %v", got)
	}
}

func TestDatePicker_Lifecycle(t *testing.T) {
	t.Parallel()

	picker := booking.NewDatePicker(fixedCalendar())

	if picker.State() != booking.PickerClosed {
		t.Fatal("picker should start closed")
	}
	if _, err := picker.Select(20); !errors.Is(err, booking.ErrPickerClosed) {
		t.Errorf("expected ErrPickerClosed, got %v", err)
	}

	picker.Open()
	if _, err := picker.Select(10); !errors.Is(err, booking.ErrPastDate) {
		t.Errorf("expected ErrPastDate, got %v", err)
	}
	if picker.State() != booking.PickerOpen {
		t.Error("picker should stay open after a rejected selection")
	}
	if _, err := picker.Select(31); !errors.Is(err, booking.ErrInvalidDay) {
		t.Errorf("expected ErrInvalidDay, got %v", err)
	}

	date, err := picker.Select(20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if date.Day() != 20 || picker.State() != booking.PickerClosed {
		t.Errorf("expected day 20 selected and picker closed, got %v / %s", date, picker.State())
	}
	if sel := picker.Selected(); sel == nil || !sel.Equal(date) {
		t.Errorf("expected selection %v, got %v", date, sel)
	}

	picker.Open()
	picker.Cancel()
	if picker.State() != booking.PickerClosed || picker.Selected() == nil {
		t.Error("cancel should close without clearing the selection")
	}
}

func TestDatePicker_MonthNavigation(t *testing.T) {
	t.Parallel()

	picker := booking.NewDatePicker(fixedCalendar())

	if err := picker.PrevMonth(); !errors.Is(err, booking.ErrPrevMonthDisabled) {
		t.Fatalf("expected ErrPrevMonthDisabled, got %v", err)
	}

	for i := 0; i < 7; i++ {
		picker.NextMonth()
	}
	year, month := picker.Cursor()
	if year != 2025 || month != time.January {
		t.Errorf("expected January 2025, got %s %d", month, year)
	}

	if err := picker.PrevMonth(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	year, month = picker.Cursor()
	if year != 2024 || month != time.December {
		t.Errorf("expected December 2024, got %s %d", month, year)
	}
}
