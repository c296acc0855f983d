package seat

// Status is the advisory occupancy classification of a seat for a candidate
// time window. It drives display and clickability only; the booking command
// re-validates at commit time.
type Status string

const (
	StatusAvailable Status = "available"
	StatusBooked    Status = "booked"
	StatusUsing     Status = "using"
	StatusClosed    Status = "closed"
)

func (s Status) String() string {
	return string(s)
}
