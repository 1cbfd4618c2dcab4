// Package service implements the friend-request state machine: a request is
// created pending and moves to accepted or rejected exactly once, only by
// the user it was sent to. Acceptance also creates the symmetric friendship.
package service

import (
	"time"

	"github.com/vgeorgieva/Social-Network/contract"
	"github.com/vgeorgieva/Social-Network/model"
)

// Callers may send at most this many requests inside the trailing window
// before the next one is rejected. The comparison is strictly-greater-than,
// so a third send passes and a fourth is blocked.
const (
	rateLimitWindow = time.Minute
	rateLimitMax    = 2
)

type FriendService struct {
	requests contract.FriendRequestRepo
	friends  contract.FriendshipRepo
	users    contract.UserRepo

	now func() time.Time
}

func NewFriendService(requests contract.FriendRequestRepo, friends contract.FriendshipRepo, users contract.UserRepo) *FriendService {
	return &FriendService{
		requests: requests,
		friends:  friends,
		users:    users,
		now:      time.Now,
	}
}

// Send creates a pending request from caller to target. Checks run in a
// fixed order: self-request, duplicate in either direction, rate limit.
func (s *FriendService) Send(caller, target int) (*model.FriendRequest, error) {
	if target == caller {
		return nil, contract.ErrSelfRequest
	}

	existing, err := s.requests.FindPendingBetween(caller, target)
	if err != nil && err != contract.ErrNotFound {
		return nil, err
	}
	if existing != nil {
		if existing.FromUser == caller {
			return nil, contract.ErrRequestExists
		}
		return nil, contract.ErrRequestReceived
	}

	windowStart := s.now().Add(-rateLimitWindow)
	sent, err := s.requests.CountSentSince(caller, windowStart)
	if err != nil {
		return nil, err
	}
	if sent > rateLimitMax {
		return nil, contract.ErrRateLimited
	}

	return s.requests.Create(caller, target)
}

// PendingFor lists the pending requests addressed to caller, each with the
// sender resolved to a public profile.
func (s *FriendService) PendingFor(caller int) ([]model.FriendRequestView, error) {
	requests, err := s.requests.FindPendingReceivedBy(caller)
	if err != nil {
		return nil, err
	}

	senderIDs := make([]int, 0, len(requests))
	for _, request := range requests {
		senderIDs = append(senderIDs, request.FromUser)
	}
	senders, err := s.users.FindByIDs(senderIDs)
	if err != nil {
		return nil, err
	}
	profiles := make(map[int]model.UserView, len(senders))
	for i := range senders {
		profiles[senders[i].ID] = senders[i].View()
	}

	views := make([]model.FriendRequestView, 0, len(requests))
	for _, request := range requests {
		views = append(views, model.FriendRequestView{
			ID:       request.ID,
			FromUser: profiles[request.FromUser],
			ToUser:   request.ToUser,
			Status:   request.Status,
		})
	}
	return views, nil
}

// Accept moves the request to accepted and records the friendship both
// ways. Only the user the request was sent to may accept it.
func (s *FriendService) Accept(caller, requestID int) error {
	request, err := s.requests.FindByID(requestID)
	if err != nil {
		return err
	}
	if request.ToUser != caller {
		return contract.ErrNotReceiver
	}
	if request.Status != model.StatusPending {
		return &contract.TransitionError{Status: request.Status}
	}
	return s.requests.Accept(requestID)
}

// Reject moves the request to rejected. The friendship graph is untouched.
func (s *FriendService) Reject(caller, requestID int) error {
	request, err := s.requests.FindByID(requestID)
	if err != nil {
		return err
	}
	if request.ToUser != caller {
		return contract.ErrNotReceiver
	}
	if request.Status != model.StatusPending {
		return &contract.TransitionError{Status: request.Status}
	}
	return s.requests.Transition(requestID, model.StatusRejected)
}

// FriendsOf resolves caller's friends to public profiles.
func (s *FriendService) FriendsOf(caller int) ([]model.UserView, error) {
	ids, err := s.friends.FriendsOf(caller)
	if err != nil {
		return nil, err
	}
	friends, err := s.users.FindByIDs(ids)
	if err != nil {
		return nil, err
	}

	profiles := make(map[int]model.UserView, len(friends))
	for i := range friends {
		profiles[friends[i].ID] = friends[i].View()
	}

	// Keep the repository's ordering.
	views := make([]model.UserView, 0, len(ids))
	for _, id := range ids {
		if profile, ok := profiles[id]; ok {
			views = append(views, profile)
		}
	}
	return views, nil
}
