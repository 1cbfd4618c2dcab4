package contract

import (
	"errors"
	"fmt"
)

// Categories a caller can branch on. All of them mean "fix the input and
// retry"; anything else coming out of a repository is an internal error.
var (
	ErrSelfRequest     = errors.New("user can't send request to self")
	ErrRequestExists   = errors.New("friendship request already exists")
	ErrRequestReceived = errors.New("friendship request already received")
	ErrRateLimited     = errors.New("exceeded the limit of sending friend requests")
	ErrNotFound        = errors.New("friendship request not found")
	ErrNotReceiver     = errors.New("request id does not belong to caller")
)

// TransitionError reports an accept or reject on a request that already
// left the pending state. Status is the state the request is stuck in.
type TransitionError struct {
	Status string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("its a %s request", e.Status)
}
