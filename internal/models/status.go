package models

// NextStatus is the click cycle of the attendance grid:
// present -> absent -> holiday -> present. An unmarked day (empty current)
// starts at present. The cycle never returns to unmarked; only deleting the
// record does that.
func NextStatus(current AttendanceStatus) AttendanceStatus {
	switch current {
	case Present:
		return Absent
	case Absent:
		return Holiday
	default:
		return Present
	}
}

func (s AttendanceStatus) Valid() bool {
	switch s {
	case Present, Absent, Holiday:
		return true
	}
	return false
}
