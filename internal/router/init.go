package router

import (
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/pratsy91/todo-backend/config"
	"github.com/pratsy91/todo-backend/internal/application"
	"github.com/pratsy91/todo-backend/internal/container"
	"github.com/pratsy91/todo-backend/internal/infrastructure/cache"
	"github.com/pratsy91/todo-backend/internal/infrastructure/store"
	handlers "github.com/pratsy91/todo-backend/internal/interface/http"
	"github.com/pratsy91/todo-backend/internal/interface/middleware"
	"github.com/pratsy91/todo-backend/internal/router/modules"
	"github.com/pratsy91/todo-backend/pkg/helpers"
	"github.com/pratsy91/todo-backend/pkg/metrics"
)

// Deps are the shared components modules are built from.
// Redis, Publisher and Metrics are optional.
type Deps struct {
	Config    *config.Config
	Logger    *logrus.Logger
	Store     *store.Store
	Redis     *redis.Client
	JWT       *helpers.JWTManager
	Publisher application.JobPublisher
	Metrics   *metrics.Metrics
}

// DepsFromContainer collects the singletons set up by main.
func DepsFromContainer() Deps {
	cfg := container.GetConfig()
	d := Deps{
		Config:  cfg,
		Logger:  container.GetLogger(),
		Store:   container.GetStore(),
		Redis:   container.GetRedis(),
		JWT:     container.GetJWT(),
		Metrics: container.GetMetrics(),
	}
	// Only assign a live publisher; a typed nil would defeat the nil check downstream.
	if pub := container.GetRabbitPub(); pub != nil && cfg.MailSendEnabled {
		d.Publisher = pub
	}
	return d
}

// BuildModules wires services, handlers and route modules from d.
func BuildModules(d Deps) []Module {
	// Existence checks always hit the store; the cache only serves profiles.
	authMW := middleware.Auth(d.JWT, d.Store.Users)

	authSvc := application.NewAuthService(d.Store.Users, d.JWT, d.Logger, d.Config.BcryptCost)
	authSvc.Publisher = d.Publisher
	authSvc.AppName = d.Config.AppName
	authSvc.AppURL = d.Config.AppURL
	if d.Redis != nil {
		authSvc.Profiles = cache.NewUserCache(d.Store.Users, d.Redis, d.Config.UserCacheTTL, d.Logger)
	}
	authSvc.Metrics = d.Metrics

	todoSvc := application.NewTodoService(d.Store.Todos, d.Logger)
	todoSvc.Metrics = d.Metrics

	mods := []Module{
		modules.NewHealthModule(handlers.NewHealthHandler(d.Store, d.Logger)),
		modules.NewUserModule(handlers.NewAuthHandler(authSvc, d.Logger), handlers.NewUserHandler(authSvc, d.Logger), authMW),
		modules.NewTodoModule(handlers.NewTodoHandler(todoSvc, d.Logger), authMW),
	}
	if d.Metrics != nil && d.Config.MetricsEnabled {
		mods = append(mods, modules.NewMetricsModule(d.Metrics))
	}
	return mods
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	r.Add(BuildModules(DepsFromContainer())...)
}
