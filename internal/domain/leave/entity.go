package leave

import "time"

// RequestType is the category a time-off request is booked against.
type RequestType string

const (
	RequestTypePTO    RequestType = "pto"
	RequestTypeNonPTO RequestType = "non_pto"
	RequestTypeMakeUp RequestType = "make_up"
)

type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusApproved  RequestStatus = "approved"
	RequestStatusRejected  RequestStatus = "rejected"
	RequestStatusCancelled RequestStatus = "cancelled"
)

// TimeOffRequest is a PTO, unpaid time off or make-up request. StartDate and
// EndDate are inclusive zoned day keys (YYYY-MM-DD).
type TimeOffRequest struct {
	ID         string
	UserID     string
	Type       RequestType
	StartDate  string
	EndDate    string
	Hours      float64
	Status     RequestStatus
	ApprovedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
