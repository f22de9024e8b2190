package paymentaudit

import "time"

// Entry is one observed payment event of a session
type Entry struct {
	UID         string
	SessionUID  string
	EventType   string
	OrderID     string
	PaymentID   string
	Status      string
	Success     bool
	Description string `datastore:",noindex"`
	ReceivedAt  time.Time
}
