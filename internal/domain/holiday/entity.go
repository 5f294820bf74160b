package holiday

import "time"

type Holiday struct {
	ID        string
	Date      string // zoned YYYY-MM-DD
	Name      string
	IsPaid    bool
	CreatedAt time.Time
}
