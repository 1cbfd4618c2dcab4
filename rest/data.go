package rest

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/vgeorgieva/Social-Network/model"
)

// AddData seeds a few accounts and requests for local development.
//
// Ivan --> Maria (pending)
// Maria + Georgi (friends)
func (a *App) AddData() {
	pass, _ := bcrypt.GenerateFromPassword([]byte("1234"), bcrypt.DefaultCost)

	ivan, _ := a.Users.Create(&model.User{
		Username: "ivan", Email: "ivan@example.com",
		FirstName: "Ivan", LastName: "Petrov", Password: string(pass),
	})
	maria, _ := a.Users.Create(&model.User{
		Username: "maria", Email: "maria@example.com",
		FirstName: "Maria", LastName: "Ivanova", Password: string(pass),
	})
	georgi, _ := a.Users.Create(&model.User{
		Username: "georgi", Email: "georgi@example.com",
		FirstName: "Georgi", LastName: "Dimitrov", Password: string(pass),
	})

	if ivan == nil || maria == nil || georgi == nil {
		return
	}

	_, _ = a.Friends.Send(ivan.ID, maria.ID)

	if request, err := a.Friends.Send(georgi.ID, maria.ID); err == nil {
		_ = a.Friends.Accept(maria.ID, request.ID)
	}
}
