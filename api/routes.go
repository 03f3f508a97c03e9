package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	rh "github.com/coreybb/tasknest/route-handlers"
	"github.com/coreybb/tasknest/webutil"
)

const (
	signupPath    = "/signup"
	signinPath    = "/signin"
	mePath        = "/me"
	healthPath    = "/health"
	dashboardPath = "/dashboard"
	todosPath     = "/todos"
	remindersPath = "/reminders"
)

const (
	paramID = "id"

	requestTimeout = 60 * time.Second
)

// Options configures cross-cutting router behaviour.
type Options struct {
	// RequireAuth makes a bearer credential mandatory on every resource route.
	RequireAuth    bool
	AllowedOrigins []string
	// Client serves the single-page app on every path the API does not claim.
	// Nil disables it.
	Client http.Handler
}

func SetupRoutes(
	opts Options,
	verifier CredentialVerifier,
	authHandler *rh.AuthHandler,
	todoHandler *rh.TodoHandler,
	reminderHandler *rh.ReminderHandler,
	dashboardHandler *rh.DashboardHandler,
	healthHandler *rh.HealthHandler,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(CORS(opts.AllowedOrigins))
	r.Use(SetHeader("X-Content-Type-Options", "nosniff"))

	r.Get(healthPath, webutil.MakeHandler(healthHandler.HandleHealth))

	r.Post(signupPath, webutil.MakeHandler(authHandler.HandleSignup))
	r.Post(signinPath, webutil.MakeHandler(authHandler.HandleSignin))
	r.With(Authenticate(verifier, true)).Get(mePath, webutil.MakeHandler(authHandler.HandleMe))

	r.Group(func(r chi.Router) {
		r.Use(Authenticate(verifier, opts.RequireAuth))

		r.Get(dashboardPath, webutil.MakeHandler(dashboardHandler.HandleGetDashboard))
		configureTodoRoutes(r, todoHandler)
		configureReminderRoutes(r, reminderHandler)
	})

	if opts.Client != nil {
		r.Handle("/*", opts.Client)
	}

	return r
}

func pathWithParam(paramName string) string {
	return "/{" + paramName + "}"
}

func configureTodoRoutes(r chi.Router, handler *rh.TodoHandler) {
	r.Route(todosPath, func(r chi.Router) {
		r.Get("/", webutil.MakeHandler(handler.HandleGetTodos))
		r.Post("/", webutil.MakeHandler(handler.HandleCreateTodo))
		r.Route(pathWithParam(paramID), func(r chi.Router) {
			r.Get("/", webutil.MakeHandler(handler.HandleGetTodo))
			r.Put("/", webutil.MakeHandler(handler.HandleUpdateTodo))
			r.Delete("/", webutil.MakeHandler(handler.HandleDeleteTodo))
		})
	})
}

// Reminders are read-only once created.
func configureReminderRoutes(r chi.Router, handler *rh.ReminderHandler) {
	r.Route(remindersPath, func(r chi.Router) {
		r.Get("/", webutil.MakeHandler(handler.HandleGetReminders))
		r.Post("/", webutil.MakeHandler(handler.HandleCreateReminder))
		r.Get(pathWithParam(paramID), webutil.MakeHandler(handler.HandleGetReminder))
	})
}
