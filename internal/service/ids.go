package service

import "github.com/google/uuid"

// validRowID reports whether id can address a report or feedback row. Only the
// canonical 36 character UUID form is accepted.
func validRowID(id string) bool {
	if len(id) != 36 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}
