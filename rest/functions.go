package rest

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"github.com/vgeorgieva/Social-Network/contract"
	"github.com/vgeorgieva/Social-Network/model"
)

// Users //

func (a *App) register(w http.ResponseWriter, r *http.Request) {
	payload := &model.Register{}
	if err := json.NewDecoder(r.Body).Decode(payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := a.Validator.Struct(payload); err != nil {
		errs := err.(validator.ValidationErrors)
		respondWithValidationError(errs.Translate(a.Translator), w)
		return
	}

	// Email is unique, case insensitive.
	switch _, err := a.Users.FindByEmail(payload.Email); err {
	case sql.ErrNoRows:
		// email is free
	case nil:
		respondWithError(w, http.StatusBadRequest, "User already exists")
		return
	default:
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	pass, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Password encryption failed")
		return
	}

	user := &model.User{
		Username:  payload.Username,
		Email:     payload.Email,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Password:  string(pass),
	}
	if user, err = a.Users.Create(user); err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusCreated, user.View())
}

func (a *App) login(w http.ResponseWriter, r *http.Request) {
	credentials := &model.UserLogin{}
	if err := json.NewDecoder(r.Body).Decode(credentials); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	user, err := a.Users.FindByEmail(credentials.Email)
	if err != nil {
		respondWithError(w, http.StatusUnauthorized, "Invalid email or password.")
		return
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(credentials.Password))
	if err != nil {
		respondWithError(w, http.StatusUnauthorized, "Invalid email or password.")
		return
	}

	expiresAt := time.Now().Add(time.Minute * 30).Unix()
	claims := &model.UserToken{
		UserID:   strconv.Itoa(user.ID),
		Username: user.Username,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: expiresAt,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(jwtSecret())
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"token": tokenString})
}

func (a *App) searchUsers(w http.ResponseWriter, r *http.Request) {
	const (
		minOffset = 0
		maxLimit  = 10
	)

	keyword := r.FormValue("search")
	users, err := a.Users.Search(keyword, minOffset, maxLimit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	views := make([]model.UserView, 0, len(users))
	for i := range users {
		views = append(views, users[i].View())
	}
	respondWithJSON(w, http.StatusOK, views)
}

// Friend requests //

func (a *App) sendRequest(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Missing auth token")
		return
	}

	payload := &model.SendRequest{}
	if err := json.NewDecoder(r.Body).Decode(payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := a.Validator.Struct(payload); err != nil {
		errs := err.(validator.ValidationErrors)
		respondWithValidationError(errs.Translate(a.Translator), w)
		return
	}

	if _, err := a.Users.FindByID(payload.ToUser); err != nil {
		switch err {
		case sql.ErrNoRows:
			respondWithError(w, http.StatusBadRequest, "No such user")
		default:
			respondWithError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	request, err := a.Friends.Send(caller, payload.ToUser)
	if err != nil {
		a.respondWithServiceError(w, err)
		return
	}

	sender, err := a.Users.FindByID(caller)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondWithJSON(w, http.StatusCreated, model.FriendRequestView{
		ID:       request.ID,
		FromUser: sender.View(),
		ToUser:   request.ToUser,
		Status:   request.Status,
	})
}

func (a *App) getPendingRequests(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Missing auth token")
		return
	}

	pending, err := a.Friends.PendingFor(caller)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, pending)
}

func (a *App) acceptRequest(w http.ResponseWriter, r *http.Request) {
	caller, requestID, ok := a.requestAction(w, r)
	if !ok {
		return
	}

	if err := a.Friends.Accept(caller, requestID); err != nil {
		a.respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Friendship request accepted."})
}

func (a *App) rejectRequest(w http.ResponseWriter, r *http.Request) {
	caller, requestID, ok := a.requestAction(w, r)
	if !ok {
		return
	}

	if err := a.Friends.Reject(caller, requestID); err != nil {
		a.respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Friendship request rejected."})
}

func (a *App) requestAction(w http.ResponseWriter, r *http.Request) (caller, requestID int, ok bool) {
	caller, ok = callerID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Missing auth token")
		return 0, 0, false
	}

	vars := mux.Vars(r)
	requestID, err := strconv.Atoi(vars["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request ID")
		return 0, 0, false
	}
	return caller, requestID, true
}

func (a *App) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respondWithError(w, http.StatusMethodNotAllowed, `Method "PUT" not allowed.`)
}

// Friends //

func (a *App) getFriends(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Missing auth token")
		return
	}

	friends, err := a.Friends.FriendsOf(caller)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, friends)
}

// respondWithServiceError maps the service error taxonomy onto HTTP. All
// categories are caller errors; anything unrecognized is internal.
func (a *App) respondWithServiceError(w http.ResponseWriter, err error) {
	var transition *contract.TransitionError

	switch {
	case errors.Is(err, contract.ErrSelfRequest):
		respondWithRequestError(w, http.StatusBadRequest, "User can't send request to self")
	case errors.Is(err, contract.ErrRequestExists):
		respondWithRequestError(w, http.StatusBadRequest, "Friendship request already exists.")
	case errors.Is(err, contract.ErrRequestReceived):
		respondWithRequestError(w, http.StatusBadRequest, "Friendship request already received")
	case errors.Is(err, contract.ErrRateLimited):
		respondWithRequestError(w, http.StatusBadRequest, "Exceeded the limit of sending friend requests.")
	case errors.Is(err, contract.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "Friendship request not found")
	case errors.Is(err, contract.ErrNotReceiver):
		respondWithError(w, http.StatusBadRequest, "Unauthenticated request Id")
	case errors.As(err, &transition):
		respondWithError(w, http.StatusBadRequest, transition.Error())
	default:
		respondWithError(w, http.StatusInternalServerError, err.Error())
	}
}
