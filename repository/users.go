package repository

import (
	"database/sql"
	"fmt"
	"log"
	"strings"

	_ "github.com/go-sql-driver/mysql"

	"github.com/vgeorgieva/Social-Network/model"
)

type UserRepoMysql struct {
	db *sql.DB
}

func NewUserRepoMysql(user, password, dbname string) *UserRepoMysql {
	connectionString := fmt.Sprintf("%s:%s@/%s?parseTime=true", user, password, dbname)
	repo := &UserRepoMysql{}
	var err error
	repo.db, err = sql.Open("mysql", connectionString)
	if err != nil {
		log.Fatal(err)
	}
	return repo
}

func (u *UserRepoMysql) FindByID(id int) (*model.User, error) {
	statement := "SELECT id, username, email, first_name, last_name, password FROM users WHERE id = ?"
	user := &model.User{}
	err := u.db.QueryRow(statement, id).
		Scan(&user.ID, &user.Username, &user.Email, &user.FirstName, &user.LastName, &user.Password)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (u *UserRepoMysql) FindByIDs(ids []int) ([]model.User, error) {
	if len(ids) == 0 {
		return []model.User{}, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	statement := fmt.Sprintf(
		"SELECT id, username, email, first_name, last_name, password FROM users WHERE id IN (%s)",
		placeholders)

	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := u.db.Query(statement, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var user model.User
		err := rows.Scan(&user.ID, &user.Username, &user.Email, &user.FirstName, &user.LastName, &user.Password)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// FindByEmail matches the email case-insensitively.
func (u *UserRepoMysql) FindByEmail(email string) (*model.User, error) {
	statement := "SELECT id, username, email, first_name, last_name, password FROM users WHERE LOWER(email) = LOWER(?)"
	user := &model.User{}
	err := u.db.QueryRow(statement, email).
		Scan(&user.ID, &user.Username, &user.Email, &user.FirstName, &user.LastName, &user.Password)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Search matches first or last name by substring and email by exact
// case-insensitive equality.
func (u *UserRepoMysql) Search(keyword string, start, count int) ([]model.User, error) {
	statement := `SELECT id, username, email, first_name, last_name, password FROM users
					WHERE first_name LIKE ? OR last_name LIKE ? OR LOWER(email) = LOWER(?)
					LIMIT ? OFFSET ?`
	pattern := "%" + keyword + "%"
	rows, err := u.db.Query(statement, pattern, pattern, keyword, count, start)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var user model.User
		err := rows.Scan(&user.ID, &user.Username, &user.Email, &user.FirstName, &user.LastName, &user.Password)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (u *UserRepoMysql) Create(user *model.User) (*model.User, error) {
	statement := "INSERT INTO users(username, email, first_name, last_name, password) VALUES(?, ?, ?, ?, ?)"
	result, err := u.db.Exec(statement, user.Username, user.Email, user.FirstName, user.LastName, user.Password)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	user.ID = int(id)
	return user, nil
}
