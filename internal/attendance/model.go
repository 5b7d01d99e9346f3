package attendance

import "time"

type Attendance struct {
	ID        string    `db:"id" json:"id"`
	SessionID string    `db:"session_id" json:"sessionId"`
	ClientID  string    `db:"client_id" json:"clientId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type WithDetails struct {
	Attendance
	SessionTitle string    `db:"session_title" json:"sessionTitle"`
	SessionStart time.Time `db:"session_start" json:"sessionStart"`
	SessionEnd   time.Time `db:"session_end" json:"sessionEnd"`
	ClientName   string    `db:"client_name" json:"clientName"`
	ClientEmail  string    `db:"client_email" json:"clientEmail"`
}

type AddAttendeeRequest struct {
	ClientID string `json:"clientId" binding:"required"`
}
