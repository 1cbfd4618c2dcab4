package rest

import (
	"net/http"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"

	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/vgeorgieva/Social-Network/contract"
	"github.com/vgeorgieva/Social-Network/repository"
	"github.com/vgeorgieva/Social-Network/service"
)

type App struct {
	Router  *mux.Router
	Users   contract.UserRepo
	Friends *service.FriendService

	Validator  *validator.Validate
	Translator ut.Translator
}

func (a *App) Init(user, password, dbname string) {
	a.Users = repository.NewUserRepoMysql(user, password, dbname)
	requests := repository.NewFriendRequestRepoMysql(user, password, dbname)
	friendships := repository.NewFriendshipRepoMysql(user, password, dbname)
	a.Friends = service.NewFriendService(requests, friendships, a.Users)

	a.initValidation()

	a.Router = mux.NewRouter()
	a.Router.Use(logRequests)
	a.initializeRoutes()
}

func (a *App) initValidation() {
	a.Validator = validator.New()
	eng := en.New()
	uni := ut.New(eng, eng)

	var found bool
	a.Translator, found = uni.GetTranslator("en")
	if !found {
		log.Fatal("translator not found")
	}
	if err := en_translations.RegisterDefaultTranslations(a.Validator, a.Translator); err != nil {
		log.Fatal(err)
	}
}

func (a *App) Run(addr string) {
	log.WithField("addr", addr).Info("serving")
	log.Fatal(http.ListenAndServe(addr, a.Router))
}

func (a *App) initializeRoutes() {
	a.Router.HandleFunc("/register/", a.register).Methods(http.MethodPost)
	a.Router.HandleFunc("/login/", a.login).Methods(http.MethodPost)

	// Auth routes
	s := a.Router.PathPrefix("/").Subrouter()
	s.Use(JwtVerify)
	s.HandleFunc("/search_user/", a.searchUsers).Methods(http.MethodGet)
	s.HandleFunc("/friends/", a.getFriends).Methods(http.MethodGet)
	s.HandleFunc("/friend_request/", a.sendRequest).Methods(http.MethodPost)
	s.HandleFunc("/friend_request/", a.getPendingRequests).Methods(http.MethodGet)
	s.HandleFunc("/friend_request/{id:[0-9]+}/accept/", a.acceptRequest).Methods(http.MethodPut)
	s.HandleFunc("/friend_request/{id:[0-9]+}/reject/", a.rejectRequest).Methods(http.MethodPut)

	// No generic replace of a friend request.
	s.HandleFunc("/friend_request/", a.methodNotAllowed).Methods(http.MethodPut)
	s.HandleFunc("/friend_request/{id:[0-9]+}/", a.methodNotAllowed).Methods(http.MethodPut)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.WithFields(log.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Info("request")
		next.ServeHTTP(w, r)
	})
}
