package model

import "time"

const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

// FriendRequest is one directed proposal FromUser -> ToUser. Status starts
// at pending and moves to accepted or rejected exactly once.
type FriendRequest struct {
	ID        int       `json:"id"`
	FromUser  int       `json:"from_user"`
	ToUser    int       `json:"to_user"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// SendRequest is the payload of POST /friend_request/.
type SendRequest struct {
	ToUser int `json:"to_user" validate:"required,numeric,gte=1"`
}

// FriendRequestView is a request with the sender resolved to a profile.
type FriendRequestView struct {
	ID       int      `json:"id"`
	FromUser UserView `json:"from_user"`
	ToUser   int      `json:"to_user"`
	Status   string   `json:"status"`
}
