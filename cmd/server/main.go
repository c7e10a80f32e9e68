package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orgnest/orgnest/modules/org/domain/events"
	"github.com/orgnest/orgnest/modules/org/infrastructure/persistence"
	orgcontrollers "github.com/orgnest/orgnest/modules/org/presentation/controllers"
	"github.com/orgnest/orgnest/modules/org/services"
	"github.com/orgnest/orgnest/pkg/application"
	"github.com/orgnest/orgnest/pkg/configuration"
	"github.com/orgnest/orgnest/pkg/eventbus"
	"github.com/orgnest/orgnest/pkg/metrics"
	"github.com/orgnest/orgnest/pkg/middleware"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			configuration.Use().Unload()
			log.Println(r)
			debug.PrintStack()
			os.Exit(1)
		}
	}()

	conf := configuration.Use()
	logger := conf.Logger()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	pool, err := pgxpool.New(ctx, conf.Database.Opts)
	if err != nil {
		panic(err)
	}
	defer pool.Close()

	bus := eventbus.NewEventPublisher(logger)
	bus.Subscribe(func(ev events.UnitCreated) {
		logger.WithField("unit", ev.Unit.ID).Info("org unit created")
	})
	bus.Subscribe(func(ev events.UnitDeleted) {
		logger.WithField("unit", ev.Unit.ID).Info("org unit deleted")
	})

	app := application.New(pool, bus, logger)

	tree := persistence.NewTreeRepository()
	offices := persistence.NewOfficeRepository()
	users := persistence.NewUserRepository()
	permissions := services.NewPermissionService(tree, offices, logger)
	units := services.NewUnitService(tree, offices, users, permissions, bus, logger)

	app.RegisterControllers(orgcontrollers.NewOrgAPIController(units))
	if conf.Prometheus.Enabled {
		app.RegisterControllers(metrics.NewPrometheusController(conf.Prometheus.Path))
	}

	router := mux.NewRouter()
	router.Use(
		middleware.WithPool(pool),
		middleware.RequestID(),
		middleware.RequestLogger(logger),
		middleware.ProvideUser(),
	)
	for _, c := range app.Controllers() {
		c.Register(router)
		logger.WithField("controller", c.Key()).Debug("registered controller")
	}

	srv := &http.Server{
		Addr:         conf.SocketAddress,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Infof("listening on %s", conf.SocketAddress)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	}
	configuration.Use().Unload()
}
