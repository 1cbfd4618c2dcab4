package repository

import (
	"database/sql"
	"fmt"
	"log"
)

// FriendshipRepoMysql holds the symmetric friend relation as two directed
// rows per edge, one per participant.
type FriendshipRepoMysql struct {
	db *sql.DB
}

func NewFriendshipRepoMysql(user, password, dbname string) *FriendshipRepoMysql {
	connectionString := fmt.Sprintf("%s:%s@/%s?parseTime=true", user, password, dbname)
	repo := &FriendshipRepoMysql{}
	var err error
	repo.db, err = sql.Open("mysql", connectionString)
	if err != nil {
		log.Fatal(err)
	}
	return repo
}

// AddEdge makes userOne and userTwo friends of each other. Adding an edge
// that already exists has no effect.
func (f *FriendshipRepoMysql) AddEdge(userOne, userTwo int) error {
	statement := "INSERT IGNORE INTO friends(user_id, friend_id) VALUES(?, ?)"
	if _, err := f.db.Exec(statement, userOne, userTwo); err != nil {
		return err
	}
	if _, err := f.db.Exec(statement, userTwo, userOne); err != nil {
		return err
	}
	return nil
}

func (f *FriendshipRepoMysql) FriendsOf(userID int) ([]int, error) {
	statement := "SELECT friend_id FROM friends WHERE user_id = ? ORDER BY friend_id"
	rows, err := f.db.Query(statement, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	friends := []int{}
	for rows.Next() {
		var friendID int
		if err := rows.Scan(&friendID); err != nil {
			return nil, err
		}
		friends = append(friends, friendID)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return friends, nil
}
