package itf

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/orgnest/orgnest/modules/org/domain/office"
	"github.com/orgnest/orgnest/modules/org/domain/unit"
	"github.com/orgnest/orgnest/modules/org/domain/user"
	"github.com/orgnest/orgnest/modules/org/services"
	"github.com/orgnest/orgnest/pkg/application"
	"github.com/orgnest/orgnest/pkg/composables"
	"github.com/orgnest/orgnest/pkg/eventbus"
)

// nopTx marks a context as transactional so mutations join it instead of
// opening a real transaction. Its methods are never invoked when joining.
type nopTx struct{ pgx.Tx }

// TxContext returns a background context carrying a joinable transaction
// marker.
func TxContext() context.Context {
	return composables.WithTx(context.Background(), nopTx{})
}

// NewTestLogger returns a logger that swallows output, keeping test runs
// quiet.
func NewTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// TestContext is a fluent builder for an in-memory org environment.
type TestContext struct {
	units   []*unit.OrgUnit
	offices []*office.Office
	users   []*user.User
	userID  int64
}

func NewTestContext() *TestContext {
	return &TestContext{}
}

func (tc *TestContext) WithUnits(units ...*unit.OrgUnit) *TestContext {
	tc.units = append(tc.units, units...)
	return tc
}

func (tc *TestContext) WithOffices(offices ...*office.Office) *TestContext {
	tc.offices = append(tc.offices, offices...)
	return tc
}

func (tc *TestContext) WithUsers(users ...*user.User) *TestContext {
	tc.users = append(tc.users, users...)
	return tc
}

// WithActingUser sets the authenticated user id injected into request
// contexts by Router.
func (tc *TestContext) WithActingUser(id int64) *TestContext {
	tc.userID = id
	return tc
}

// TestEnvironment wires the in-memory repositories into real services.
type TestEnvironment struct {
	Ctx         context.Context
	Logger      *logrus.Logger
	Tree        *InMemoryTree
	Offices     *InMemoryOffices
	Users       *InMemoryUsers
	Bus         eventbus.EventBus
	Permissions *services.PermissionService
	Units       *services.UnitService

	userID int64
}

func (tc *TestContext) Build(tb testing.TB) *TestEnvironment {
	tb.Helper()

	logger := NewTestLogger()
	tree := NewInMemoryTree(tc.units...)
	offices := NewInMemoryOffices(tc.offices...)
	users := NewInMemoryUsers(tc.users...)
	bus := eventbus.NewEventPublisher(logger)
	permissions := services.NewPermissionService(tree, offices, logger)

	return &TestEnvironment{
		Ctx:         TxContext(),
		Logger:      logger,
		Tree:        tree,
		Offices:     offices,
		Users:       users,
		Bus:         bus,
		Permissions: permissions,
		Units:       services.NewUnitService(tree, offices, users, permissions, bus, logger),
		userID:      tc.userID,
	}
}

// Router registers the controllers on a fresh mux router wrapped in
// middleware that injects the transaction marker, logger, request id, and
// acting user, mirroring the server's middleware chain.
func (e *TestEnvironment) Router(controllers ...application.Controller) http.Handler {
	r := mux.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := composables.WithTx(req.Context(), nopTx{})
			ctx = composables.WithLogger(ctx, e.Logger.WithField("test", true))
			ctx = composables.WithRequestID(ctx, "test-request")
			if e.userID != 0 {
				ctx = composables.WithUserID(ctx, e.userID)
			}
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	for _, c := range controllers {
		c.Register(r)
	}
	return r
}
