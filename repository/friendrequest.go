package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/vgeorgieva/Social-Network/contract"
	"github.com/vgeorgieva/Social-Network/model"
)

const (
	pending  = model.StatusPending
	accepted = model.StatusAccepted
	rejected = model.StatusRejected
)

type FriendRequestRepoMysql struct {
	db *sql.DB
}

func NewFriendRequestRepoMysql(user, password, dbname string) *FriendRequestRepoMysql {
	connectionString := fmt.Sprintf("%s:%s@/%s?parseTime=true", user, password, dbname)
	repo := &FriendRequestRepoMysql{}
	var err error
	repo.db, err = sql.Open("mysql", connectionString)
	if err != nil {
		log.Fatal(err)
	}

	repo.db.SetConnMaxLifetime(time.Minute * 5)
	repo.db.SetMaxOpenConns(10)
	repo.db.SetMaxIdleConns(10)

	return repo
}

// Create inserts a pending request from fromUser to toUser. The pending-pair
// check and the insert run in one serializable transaction so that two
// concurrent sends for the same pair cannot both pass the check.
func (f *FriendRequestRepoMysql) Create(fromUser, toUser int) (*model.FriendRequest, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	tx, err := f.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var existing int
	statement := `SELECT id FROM friend_request
					WHERE ((from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ?))
					AND status = ? FOR UPDATE`
	err = tx.QueryRow(statement, fromUser, toUser, toUser, fromUser, pending).Scan(&existing)
	if err == nil {
		return nil, contract.ErrRequestExists
	}
	if err != sql.ErrNoRows {
		return nil, err
	}

	request := &model.FriendRequest{
		FromUser:  fromUser,
		ToUser:    toUser,
		Status:    pending,
		CreatedAt: time.Now().UTC(),
	}

	statement = "INSERT INTO friend_request(from_user_id, to_user_id, status, created_at) VALUES(?, ?, ?, ?)"
	result, err := tx.Exec(statement, request.FromUser, request.ToUser, request.Status, request.CreatedAt)
	if err != nil {
		return nil, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	request.ID = int(id)

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return request, nil
}

func (f *FriendRequestRepoMysql) FindByID(id int) (*model.FriendRequest, error) {
	statement := "SELECT id, from_user_id, to_user_id, status, created_at FROM friend_request WHERE id = ?"
	request := &model.FriendRequest{}
	err := f.db.QueryRow(statement, id).
		Scan(&request.ID, &request.FromUser, &request.ToUser, &request.Status, &request.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, contract.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return request, nil
}

// FindPendingBetween returns the pending request between the pair in either
// direction, or contract.ErrNotFound.
func (f *FriendRequestRepoMysql) FindPendingBetween(userOne, userTwo int) (*model.FriendRequest, error) {
	statement := `SELECT id, from_user_id, to_user_id, status, created_at FROM friend_request
					WHERE ((from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ?))
					AND status = ?`
	request := &model.FriendRequest{}
	err := f.db.QueryRow(statement, userOne, userTwo, userTwo, userOne, pending).
		Scan(&request.ID, &request.FromUser, &request.ToUser, &request.Status, &request.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, contract.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return request, nil
}

// FindPendingReceivedBy lists pending requests addressed to userID, newest
// first, id as tiebreak so the order is total.
func (f *FriendRequestRepoMysql) FindPendingReceivedBy(userID int) ([]model.FriendRequest, error) {
	statement := `SELECT id, from_user_id, to_user_id, status, created_at FROM friend_request
					WHERE to_user_id = ? AND status = ?
					ORDER BY created_at DESC, id DESC`
	rows, err := f.db.Query(statement, userID, pending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := []model.FriendRequest{}
	for rows.Next() {
		var request model.FriendRequest
		err := rows.Scan(&request.ID, &request.FromUser, &request.ToUser, &request.Status, &request.CreatedAt)
		if err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return requests, nil
}

func (f *FriendRequestRepoMysql) CountSentSince(userID int, since time.Time) (int, error) {
	statement := "SELECT COUNT(*) FROM friend_request WHERE from_user_id = ? AND created_at > ?"
	var count int
	err := f.db.QueryRow(statement, userID, since).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Transition moves a pending request to status. The update is conditional on
// the row still being pending, so of two concurrent transitions exactly one
// wins; the loser is told what state the request ended up in.
func (f *FriendRequestRepoMysql) Transition(id int, status string) error {
	statement := "UPDATE friend_request SET status = ? WHERE id = ? AND status = ?"
	result, err := f.db.Exec(statement, status, id, pending)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 1 {
		return nil
	}

	request, err := f.FindByID(id)
	if err != nil {
		return err
	}
	return &contract.TransitionError{Status: request.Status}
}

// Accept flips the request to accepted and inserts both friendship edges in
// one transaction, so an accepted request can never exist without its edges.
func (f *FriendRequestRepoMysql) Accept(id int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	tx, err := f.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var fromUser, toUser int
	var status string
	statement := "SELECT from_user_id, to_user_id, status FROM friend_request WHERE id = ? FOR UPDATE"
	err = tx.QueryRow(statement, id).Scan(&fromUser, &toUser, &status)
	if err == sql.ErrNoRows {
		return contract.ErrNotFound
	}
	if err != nil {
		return err
	}
	if status != pending {
		return &contract.TransitionError{Status: status}
	}

	statement = "UPDATE friend_request SET status = ? WHERE id = ?"
	if _, err := tx.Exec(statement, accepted, id); err != nil {
		return err
	}

	statement = "INSERT IGNORE INTO friends(user_id, friend_id) VALUES(?, ?)"
	if _, err := tx.Exec(statement, fromUser, toUser); err != nil {
		return err
	}
	if _, err := tx.Exec(statement, toUser, fromUser); err != nil {
		return err
	}

	return tx.Commit()
}
