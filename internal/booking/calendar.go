package booking

import "time"

// Calendar validates travel dates against "today" in a fixed location.
type Calendar struct {
	// Now returns the current instant. Defaults to time.Now.
	Now func() time.Time
	// Location is the timezone "today" is evaluated in. Defaults to time.Local.
	Location *time.Location
}

// NewCalendar creates a Calendar evaluating dates in loc.
func NewCalendar(loc *time.Location) *Calendar {
	return &Calendar{Now: time.Now, Location: loc}
}

func (c *Calendar) loc() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

func (c *Calendar) now() time.Time {
	if c.Now == nil {
		return time.Now().In(c.loc())
	}
	return c.Now().In(c.loc())
}

// Midnight normalizes t to the start of its day in the calendar's location.
func (c *Calendar) Midnight(t time.Time) time.Time {
	t = t.In(c.loc())
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, c.loc())
}

// Today returns midnight of the current day.
func (c *Calendar) Today() time.Time {
	return c.Midnight(c.now())
}

// IsPast reports whether d, normalized to midnight, is strictly before today.
func (c *Calendar) IsPast(d time.Time) bool {
	return c.Midnight(d).Before(c.Today())
}

// ValidateDate returns d normalized to midnight, or ErrPastDate.
func (c *Calendar) ValidateDate(d time.Time) (time.Time, error) {
	if c.IsPast(d) {
		return time.Time{}, ErrPastDate
	}
	return c.Midnight(d), nil
}

// DayCell is one selectable cell of a month grid.
type DayCell struct {
	Day      int       `json:"day"`
	Date     time.Time `json:"date"`
	Disabled bool      `json:"disabled"`
	Today    bool      `json:"today"`
	Selected bool      `json:"selected"`
}

// Grid is a month laid out for a 7-column (Sunday-first) picker.
type Grid struct {
	Year          int        `json:"year"`
	Month         time.Month `json:"month"`
	LeadingBlanks int        `json:"leadingBlanks"`
	Days          []DayCell  `json:"days"`
	PrevDisabled  bool       `json:"prevDisabled"`
	NextDisabled  bool       `json:"nextDisabled"`
}

// Weeks splits the grid into rows of seven; nil entries are blank cells.
func (g Grid) Weeks() [][]*DayCell {
	cells := make([]*DayCell, 0, g.LeadingBlanks+len(g.Days))
	for i := 0; i < g.LeadingBlanks; i++ {
		cells = append(cells, nil)
	}
	for i := range g.Days {
		cells = append(cells, &g.Days[i])
	}
	for len(cells)%7 != 0 {
		cells = append(cells, nil)
	}

	weeks := make([][]*DayCell, 0, len(cells)/7)
	for i := 0; i < len(cells); i += 7 {
		weeks = append(weeks, cells[i:i+7])
	}
	return weeks
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthGrid lays out the given month. selected may be nil.
func (c *Calendar) MonthGrid(year int, month time.Month, selected *time.Time) Grid {
	loc := c.loc()
	today := c.Today()
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)

	var sel time.Time
	if selected != nil {
		sel = c.Midnight(*selected)
	}

	n := DaysIn(year, month)
	days := make([]DayCell, 0, n)
	for d := 1; d <= n; d++ {
		date := time.Date(year, month, d, 0, 0, 0, 0, loc)
		days = append(days, DayCell{
			Day:      d,
			Date:     date,
			Disabled: date.Before(today),
			Today:    date.Equal(today),
			Selected: selected != nil && date.Equal(sel),
		})
	}

	return Grid{
		Year:          year,
		Month:         month,
		LeadingBlanks: int(first.Weekday()),
		Days:          days,
		PrevDisabled:  !monthAfter(year, month, today.Year(), today.Month()),
		NextDisabled:  false,
	}
}

// monthAfter reports whether (y1, m1) is strictly after (y2, m2).
func monthAfter(y1 int, m1 time.Month, y2 int, m2 time.Month) bool {
	if y1 != y2 {
		return y1 > y2
	}
	return m1 > m2
}

// PickerState is the open/closed state of a DatePicker.
type PickerState string

const (
	PickerClosed PickerState = "closed"
	PickerOpen   PickerState = "open"
)

// DatePicker tracks a displayed-month cursor and a selected date.
// The cursor is independent of the selection and starts at the current month.
type DatePicker struct {
	cal      *Calendar
	state    PickerState
	year     int
	month    time.Month
	selected *time.Time
}

// NewDatePicker creates a closed picker showing the current month.
func NewDatePicker(cal *Calendar) *DatePicker {
	today := cal.Today()
	return &DatePicker{
		cal:   cal,
		state: PickerClosed,
		year:  today.Year(),
		month: today.Month(),
	}
}

// State returns whether the picker is open.
func (p *DatePicker) State() PickerState { return p.state }

// Open shows the picker.
func (p *DatePicker) Open() { p.state = PickerOpen }

// Cancel hides the picker without changing the selection.
func (p *DatePicker) Cancel() { p.state = PickerClosed }

// Selected returns the chosen date or nil.
func (p *DatePicker) Selected() *time.Time {
	if p.selected == nil {
		return nil
	}
	d := *p.selected
	return &d
}

// Cursor returns the displayed month.
func (p *DatePicker) Cursor() (int, time.Month) { return p.year, p.month }

// Grid renders the displayed month.
func (p *DatePicker) Grid() Grid {
	return p.cal.MonthGrid(p.year, p.month, p.selected)
}

// PrevMonth moves the cursor back one month unless it shows the current month.
func (p *DatePicker) PrevMonth() error {
	if p.Grid().PrevDisabled {
		return ErrPrevMonthDisabled
	}
	first := time.Date(p.year, p.month-1, 1, 0, 0, 0, 0, time.UTC)
	p.year, p.month = first.Year(), first.Month()
	return nil
}

// NextMonth moves the cursor forward one month. There is no upper bound.
func (p *DatePicker) NextMonth() {
	first := time.Date(p.year, p.month+1, 1, 0, 0, 0, 0, time.UTC)
	p.year, p.month = first.Year(), first.Month()
}

// Select picks a day of the displayed month and closes the picker.
// Disabled days are rejected and leave the picker open.
func (p *DatePicker) Select(day int) (time.Time, error) {
	if p.state != PickerOpen {
		return time.Time{}, ErrPickerClosed
	}
	if day < 1 || day > DaysIn(p.year, p.month) {
		return time.Time{}, ErrInvalidDay
	}

	date, err := p.cal.ValidateDate(time.Date(p.year, p.month, day, 0, 0, 0, 0, p.cal.loc()))
	if err != nil {
		return time.Time{}, err
	}

	p.selected = &date
	p.state = PickerClosed
	return date, nil
}
