package model

// PointTotal is one leaderboard row: points earned by a member from
// completed assignments within a date window.
type PointTotal struct {
	MemberID   int64  `json:"member_id"`
	MemberName string `json:"member_name"`
	Points     int    `json:"points"`
}
