package application

import (
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/orgnest/orgnest/pkg/eventbus"
)

// Controller is a self-registering group of HTTP routes.
type Controller interface {
	Key() string
	Register(r *mux.Router)
}

// Application carries the shared process-wide collaborators controllers and
// services are wired with.
type Application struct {
	Pool     *pgxpool.Pool
	EventBus eventbus.EventBus
	Logger   *logrus.Logger

	controllers []Controller
}

func New(pool *pgxpool.Pool, bus eventbus.EventBus, logger *logrus.Logger) *Application {
	return &Application{Pool: pool, EventBus: bus, Logger: logger}
}

func (a *Application) RegisterControllers(controllers ...Controller) {
	a.controllers = append(a.controllers, controllers...)
}

func (a *Application) Controllers() []Controller {
	return a.controllers
}
