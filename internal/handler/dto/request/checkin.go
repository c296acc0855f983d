package request

type CheckInRequest struct {
	Token string `json:"token" binding:"required,uuid4"`
}
