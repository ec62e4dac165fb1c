package report

// ========================================
// REPORT DTOs
// ========================================

// DayBoardRow is one employee's line on the daily board. Missing times render
// as a dash; durations always render, zero included.
type DayBoardRow struct {
	AttendanceID *string `json:"attendance_id,omitempty"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeName string  `json:"employee_name"`
	ClockIn      string  `json:"clock_in"`
	ClockOut     string  `json:"clock_out"`
	Break        string  `json:"break"`
	Total        string  `json:"total"`
}

// DayBoard is the daily view over every employee.
type DayBoard struct {
	Date     string        `json:"date"`
	Label    string        `json:"label"`
	PrevDate string        `json:"prev_date"`
	NextDate string        `json:"next_date"`
	Rows     []DayBoardRow `json:"rows"`
}
