package service

import (
	"database/sql"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vgeorgieva/Social-Network/contract"
	"github.com/vgeorgieva/Social-Network/model"
)

// In-memory stand-ins for the MySQL repositories. The ledger fake holds a
// pointer to the graph fake so Accept mirrors the production transaction
// that writes both tables.

type fakeGraph struct {
	edges map[int]map[int]bool
}

func newFakeGraph() *fakeGraph {
	return &fakeGraph{edges: map[int]map[int]bool{}}
}

func (g *fakeGraph) AddEdge(userOne, userTwo int) error {
	for _, pair := range [][2]int{{userOne, userTwo}, {userTwo, userOne}} {
		if g.edges[pair[0]] == nil {
			g.edges[pair[0]] = map[int]bool{}
		}
		g.edges[pair[0]][pair[1]] = true
	}
	return nil
}

func (g *fakeGraph) FriendsOf(userID int) ([]int, error) {
	friends := []int{}
	for id := range g.edges[userID] {
		friends = append(friends, id)
	}
	sort.Ints(friends)
	return friends, nil
}

type fakeLedger struct {
	requests map[int]*model.FriendRequest
	graph    *fakeGraph
	nextID   int
}

func newFakeLedger(graph *fakeGraph) *fakeLedger {
	return &fakeLedger{requests: map[int]*model.FriendRequest{}, graph: graph, nextID: 1}
}

func (l *fakeLedger) Create(fromUser, toUser int) (*model.FriendRequest, error) {
	if request, _ := l.FindPendingBetween(fromUser, toUser); request != nil {
		return nil, contract.ErrRequestExists
	}
	request := &model.FriendRequest{
		ID:        l.nextID,
		FromUser:  fromUser,
		ToUser:    toUser,
		Status:    model.StatusPending,
		CreatedAt: now,
	}
	l.nextID++
	l.requests[request.ID] = request
	return request, nil
}

func (l *fakeLedger) FindByID(id int) (*model.FriendRequest, error) {
	request, ok := l.requests[id]
	if !ok {
		return nil, contract.ErrNotFound
	}
	copied := *request
	return &copied, nil
}

func (l *fakeLedger) FindPendingBetween(userOne, userTwo int) (*model.FriendRequest, error) {
	for _, request := range l.requests {
		if request.Status != model.StatusPending {
			continue
		}
		if (request.FromUser == userOne && request.ToUser == userTwo) ||
			(request.FromUser == userTwo && request.ToUser == userOne) {
			copied := *request
			return &copied, nil
		}
	}
	return nil, contract.ErrNotFound
}

func (l *fakeLedger) FindPendingReceivedBy(userID int) ([]model.FriendRequest, error) {
	pending := []model.FriendRequest{}
	for _, request := range l.requests {
		if request.ToUser == userID && request.Status == model.StatusPending {
			pending = append(pending, *request)
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		if !pending[i].CreatedAt.Equal(pending[j].CreatedAt) {
			return pending[i].CreatedAt.After(pending[j].CreatedAt)
		}
		return pending[i].ID > pending[j].ID
	})
	return pending, nil
}

func (l *fakeLedger) CountSentSince(userID int, since time.Time) (int, error) {
	count := 0
	for _, request := range l.requests {
		if request.FromUser == userID && request.CreatedAt.After(since) {
			count++
		}
	}
	return count, nil
}

func (l *fakeLedger) Transition(id int, status string) error {
	request, ok := l.requests[id]
	if !ok {
		return contract.ErrNotFound
	}
	if request.Status != model.StatusPending {
		return &contract.TransitionError{Status: request.Status}
	}
	request.Status = status
	return nil
}

func (l *fakeLedger) Accept(id int) error {
	request, ok := l.requests[id]
	if !ok {
		return contract.ErrNotFound
	}
	if request.Status != model.StatusPending {
		return &contract.TransitionError{Status: request.Status}
	}
	request.Status = model.StatusAccepted
	return l.graph.AddEdge(request.FromUser, request.ToUser)
}

type fakeUsers struct {
	users map[int]model.User
}

func (u *fakeUsers) FindByID(id int) (*model.User, error) {
	user, ok := u.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &user, nil
}

func (u *fakeUsers) FindByIDs(ids []int) ([]model.User, error) {
	users := []model.User{}
	for _, id := range ids {
		if user, ok := u.users[id]; ok {
			users = append(users, user)
		}
	}
	return users, nil
}

func (u *fakeUsers) FindByEmail(email string) (*model.User, error) {
	for _, user := range u.users {
		if user.Email == email {
			return &user, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (u *fakeUsers) Search(keyword string, start, count int) ([]model.User, error) {
	return nil, nil
}

func (u *fakeUsers) Create(user *model.User) (*model.User, error) {
	u.users[user.ID] = *user
	return user, nil
}

var now = time.Date(2021, 3, 1, 12, 0, 0, 0, time.UTC)

func newService() (*FriendService, *fakeLedger, *fakeGraph) {
	graph := newFakeGraph()
	ledger := newFakeLedger(graph)
	users := &fakeUsers{users: map[int]model.User{
		1: {ID: 1, Username: "ivan", Email: "ivan@example.com", FirstName: "Ivan"},
		2: {ID: 2, Username: "maria", Email: "maria@example.com", FirstName: "Maria"},
		3: {ID: 3, Username: "georgi", Email: "georgi@example.com", FirstName: "Georgi"},
		4: {ID: 4, Username: "lily", Email: "lily@example.com", FirstName: "Lily"},
		5: {ID: 5, Username: "petar", Email: "petar@example.com", FirstName: "Petar"},
	}}

	s := NewFriendService(ledger, graph, users)
	s.now = func() time.Time { return now }
	return s, ledger, graph
}

func TestFriendService_Send(t *testing.T) {
	t.Run("creates a pending request", func(t *testing.T) {
		s, _, _ := newService()

		request, err := s.Send(1, 2)
		assert.NoError(t, err)
		assert.Equal(t, 1, request.FromUser)
		assert.Equal(t, 2, request.ToUser)
		assert.Equal(t, model.StatusPending, request.Status)
	})

	t.Run("to self", func(t *testing.T) {
		s, _, _ := newService()

		request, err := s.Send(1, 1)
		assert.Nil(t, request)
		assert.True(t, errors.Is(err, contract.ErrSelfRequest))
	})

	t.Run("already sent", func(t *testing.T) {
		s, _, _ := newService()

		_, err := s.Send(1, 2)
		assert.NoError(t, err)

		_, err = s.Send(1, 2)
		assert.True(t, errors.Is(err, contract.ErrRequestExists))
	})

	t.Run("already received from target", func(t *testing.T) {
		s, _, _ := newService()

		first, err := s.Send(1, 2)
		assert.NoError(t, err)

		_, err = s.Send(2, 1)
		assert.True(t, errors.Is(err, contract.ErrRequestReceived))

		// The original request is untouched.
		stored, err := s.requests.FindByID(first.ID)
		assert.NoError(t, err)
		assert.Equal(t, model.StatusPending, stored.Status)
	})

	t.Run("fourth send within a minute is blocked", func(t *testing.T) {
		s, _, _ := newService()

		_, err := s.Send(1, 2)
		assert.NoError(t, err)
		_, err = s.Send(1, 3)
		assert.NoError(t, err)
		_, err = s.Send(1, 4)
		assert.NoError(t, err)

		_, err = s.Send(1, 5)
		assert.True(t, errors.Is(err, contract.ErrRateLimited))
	})

	t.Run("limit clears once the window passes", func(t *testing.T) {
		s, _, _ := newService()

		_, _ = s.Send(1, 2)
		_, _ = s.Send(1, 3)
		_, _ = s.Send(1, 4)

		now = now.Add(61 * time.Second)
		defer func() { now = now.Add(-61 * time.Second) }()

		_, err := s.Send(1, 5)
		assert.NoError(t, err)
	})

	t.Run("duplicate wins over rate limit", func(t *testing.T) {
		s, _, _ := newService()

		_, _ = s.Send(1, 2)
		_, _ = s.Send(1, 3)
		_, _ = s.Send(1, 4)

		_, err := s.Send(1, 2)
		assert.True(t, errors.Is(err, contract.ErrRequestExists))
	})
}

func TestFriendService_Accept(t *testing.T) {
	t.Run("receiver accepts and both become friends", func(t *testing.T) {
		s, _, _ := newService()

		request, _ := s.Send(1, 2)
		err := s.Accept(2, request.ID)
		assert.NoError(t, err)

		friendsOfOne, _ := s.FriendsOf(1)
		friendsOfTwo, _ := s.FriendsOf(2)
		assert.Equal(t, []model.UserView{{ID: 2, Username: "maria", Email: "maria@example.com", FirstName: "Maria"}}, friendsOfOne)
		assert.Equal(t, []model.UserView{{ID: 1, Username: "ivan", Email: "ivan@example.com", FirstName: "Ivan"}}, friendsOfTwo)
	})

	t.Run("sender may not accept", func(t *testing.T) {
		s, _, _ := newService()

		request, _ := s.Send(1, 2)
		err := s.Accept(1, request.ID)
		assert.True(t, errors.Is(err, contract.ErrNotReceiver))
	})

	t.Run("third party may not accept", func(t *testing.T) {
		s, _, _ := newService()

		request, _ := s.Send(1, 2)
		err := s.Accept(3, request.ID)
		assert.True(t, errors.Is(err, contract.ErrNotReceiver))
	})

	t.Run("unknown id", func(t *testing.T) {
		s, _, _ := newService()

		err := s.Accept(2, 42)
		assert.True(t, errors.Is(err, contract.ErrNotFound))
	})

	t.Run("accepted is terminal", func(t *testing.T) {
		s, _, _ := newService()

		request, _ := s.Send(1, 2)
		assert.NoError(t, s.Accept(2, request.ID))

		err := s.Accept(2, request.ID)
		var transition *contract.TransitionError
		assert.True(t, errors.As(err, &transition))
		assert.Equal(t, model.StatusAccepted, transition.Status)
		assert.Equal(t, "its a accepted request", err.Error())

		err = s.Reject(2, request.ID)
		assert.True(t, errors.As(err, &transition))
	})
}

func TestFriendService_Reject(t *testing.T) {
	t.Run("receiver rejects, no friendship", func(t *testing.T) {
		s, _, graph := newService()

		request, _ := s.Send(1, 2)
		err := s.Reject(2, request.ID)
		assert.NoError(t, err)

		friends, _ := graph.FriendsOf(1)
		assert.Empty(t, friends)

		stored, _ := s.requests.FindByID(request.ID)
		assert.Equal(t, model.StatusRejected, stored.Status)
	})

	t.Run("rejected is terminal", func(t *testing.T) {
		s, _, _ := newService()

		request, _ := s.Send(1, 2)
		assert.NoError(t, s.Reject(2, request.ID))

		err := s.Accept(2, request.ID)
		var transition *contract.TransitionError
		assert.True(t, errors.As(err, &transition))
		assert.Equal(t, model.StatusRejected, transition.Status)
	})

	t.Run("sender may not reject", func(t *testing.T) {
		s, _, _ := newService()

		request, _ := s.Send(1, 2)
		err := s.Reject(1, request.ID)
		assert.True(t, errors.Is(err, contract.ErrNotReceiver))
	})
}

func TestFriendService_PendingFor(t *testing.T) {
	t.Run("enriched with sender profiles, newest first", func(t *testing.T) {
		s, _, _ := newService()

		first, _ := s.Send(1, 2)
		now = now.Add(10 * time.Second)
		second, _ := s.Send(3, 2)
		now = now.Add(-10 * time.Second)

		pending, err := s.PendingFor(2)
		assert.NoError(t, err)
		assert.Len(t, pending, 2)
		assert.Equal(t, second.ID, pending[0].ID)
		assert.Equal(t, "georgi", pending[0].FromUser.Username)
		assert.Equal(t, first.ID, pending[1].ID)
		assert.Equal(t, "ivan", pending[1].FromUser.Username)
		assert.Equal(t, model.StatusPending, pending[0].Status)
	})

	t.Run("accepted requests drop out", func(t *testing.T) {
		s, _, _ := newService()

		request, _ := s.Send(1, 2)
		_ = s.Accept(2, request.ID)

		pending, err := s.PendingFor(2)
		assert.NoError(t, err)
		assert.Empty(t, pending)
	})

	t.Run("nothing pending", func(t *testing.T) {
		s, _, _ := newService()

		pending, err := s.PendingFor(2)
		assert.NoError(t, err)
		assert.Empty(t, pending)
	})
}

func TestFriendService_FriendsOf(t *testing.T) {
	t.Run("no friends", func(t *testing.T) {
		s, _, _ := newService()

		friends, err := s.FriendsOf(1)
		assert.NoError(t, err)
		assert.Empty(t, friends)
	})

	t.Run("friendship is symmetric across accepts", func(t *testing.T) {
		s, _, _ := newService()

		toMaria, _ := s.Send(1, 2)
		toGeorgi, _ := s.Send(1, 3)
		_ = s.Accept(2, toMaria.ID)
		_ = s.Accept(3, toGeorgi.ID)

		friends, err := s.FriendsOf(1)
		assert.NoError(t, err)
		assert.Len(t, friends, 2)
		assert.Equal(t, 2, friends[0].ID)
		assert.Equal(t, 3, friends[1].ID)
	})
}
