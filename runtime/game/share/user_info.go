package share

// UserInfo is what a table knows about a seated user.
type UserInfo struct {
	UserID    string
	SeatIndex int
}

func NewUserInfo(userID string, seatIndex int) *UserInfo {
	return &UserInfo{
		UserID:    userID,
		SeatIndex: seatIndex,
	}
}
