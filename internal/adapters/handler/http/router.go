package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/4UT15T1Ck/pollApp/internal/core/domain"
)

func NewHandler(
	pollHandler *PollHandler,
	voteHandler *VoteHandler,
	userHandler *UserHandler,
	authHandler *AuthHandler,
	jwtSecret []byte,
	allowedOrigins []string,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(CORS(allowedOrigins))

	auth := AuthMiddleware(jwtSecret)
	admin := RequireRole(domain.RoleAdmin)

	r.Route("/api", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("welcome"))
		})

		r.Route("/users", func(r chi.Router) {
			r.Post("/register", userHandler.Register)
			r.Post("/login", authHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(auth)
				r.Get("/me", userHandler.GetMe)
				r.Put("/me", userHandler.UpdateMe)

				r.Group(func(r chi.Router) {
					r.Use(admin)
					r.Post("/", userHandler.CreateUser)
					r.Get("/", userHandler.ListUsers)
					r.Get("/{id}", userHandler.GetUser)
					r.Put("/{id}", userHandler.UpdateUser)
					r.Delete("/{id}", userHandler.DeleteUser)
				})
			})
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/refresh", authHandler.Refresh)
			r.Post("/logout", authHandler.Logout)
		})

		r.Route("/polls", func(r chi.Router) {
			r.Use(auth)

			r.Get("/", pollHandler.ListPolls)
			r.Get("/{id}", pollHandler.GetPoll)
			r.Get("/{id}/my-vote", voteHandler.MyVote)
			r.Post("/{id}/votes", voteHandler.Cast)
			r.Delete("/{id}/votes", voteHandler.Withdraw)

			r.Group(func(r chi.Router) {
				r.Use(admin)
				r.Post("/", pollHandler.CreatePoll)
				r.Put("/{id}", pollHandler.UpdatePoll)
				r.Delete("/{id}", pollHandler.DeletePoll)
				r.Patch("/{id}/lock", pollHandler.LockPoll)
				r.Patch("/{id}/unlock", pollHandler.UnlockPoll)
				r.Post("/{id}/options", pollHandler.AddOption)
				r.Delete("/{id}/options/{optionId}", pollHandler.RemoveOption)
			})
		})
	})

	return r
}
