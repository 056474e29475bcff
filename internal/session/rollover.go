package session

// CheckRollover resets the transient fields when s was last saved on a
// different calendar day than today. It reports whether it did; the caller
// persists. A session never saved (zero date) rolls over too.
func CheckRollover(s *WorkSession, today Date) bool {
	if s.LastSaveDate == today {
		return false
	}
	s.ResetTransient()
	return true
}
