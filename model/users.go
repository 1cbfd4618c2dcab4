package model

import "github.com/dgrijalva/jwt-go"

type User struct {
	ID        int    `json:"id" validate:"numeric,gte=0"`
	Username  string `json:"username" validate:"required,min=3,max=32"`
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password,omitempty"`
}

// Register is the payload of POST /register/. Password2 must repeat Password.
type Register struct {
	Username  string `json:"username" validate:"required,min=3,max=32"`
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Password  string `json:"password" validate:"required,min=4"`
	Password2 string `json:"password2" validate:"required,eqfield=Password"`
}

type UserLogin struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserToken struct {
	UserID   string `json:"id"`
	Username string `json:"username"`
	jwt.StandardClaims
}

// UserView is the public profile shape returned by search, friend lists
// and the nested sender of a pending friend request.
type UserView struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
}

func (u *User) View() UserView {
	return UserView{ID: u.ID, Username: u.Username, Email: u.Email, FirstName: u.FirstName}
}
