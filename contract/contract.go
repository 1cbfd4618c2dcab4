package contract

import (
	"time"

	"github.com/vgeorgieva/Social-Network/model"
)

type UserRepo interface {
	FindByID(id int) (*model.User, error)
	FindByIDs(ids []int) ([]model.User, error)
	FindByEmail(email string) (*model.User, error)
	Search(keyword string, start, count int) ([]model.User, error)
	Create(user *model.User) (*model.User, error)
}

// FriendRequestRepo is the ledger of friend requests. Create and Accept run
// inside one transaction each: Create so the pending-pair check and the
// insert cannot interleave with a concurrent send, Accept so the status flip
// and the friendship edges land together.
type FriendRequestRepo interface {
	Create(fromUser, toUser int) (*model.FriendRequest, error)
	FindByID(id int) (*model.FriendRequest, error)
	FindPendingBetween(userOne, userTwo int) (*model.FriendRequest, error)
	FindPendingReceivedBy(userID int) ([]model.FriendRequest, error)
	CountSentSince(userID int, since time.Time) (int, error)
	Transition(id int, status string) error
	Accept(id int) error
}

// FriendshipRepo holds the symmetric is-friend-of relation.
type FriendshipRepo interface {
	AddEdge(userOne, userTwo int) error
	FriendsOf(userID int) ([]int, error)
}
