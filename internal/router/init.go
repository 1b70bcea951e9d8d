package router

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/noxven/gestion-ie/config"
	"github.com/noxven/gestion-ie/internal/application"
	"github.com/noxven/gestion-ie/internal/container"
	"github.com/noxven/gestion-ie/internal/domain/repository"
	"github.com/noxven/gestion-ie/internal/infrastructure/cache"
	"github.com/noxven/gestion-ie/internal/infrastructure/oauth"
	pginfra "github.com/noxven/gestion-ie/internal/infrastructure/postgres"
	"github.com/noxven/gestion-ie/internal/infrastructure/search"
	"github.com/noxven/gestion-ie/internal/infrastructure/session"
	handlers "github.com/noxven/gestion-ie/internal/interface/http"
	"github.com/noxven/gestion-ie/internal/interface/middleware"
	"github.com/noxven/gestion-ie/internal/router/modules"
	"github.com/noxven/gestion-ie/pkg/helpers"
)

// Deps are the collaborators the HTTP modules are built from.
type Deps struct {
	Config   *config.Config
	Logger   logrus.FieldLogger
	UoW      repository.UnitOfWork
	Repos    repository.Repos
	Redis    *redis.Client
	Sessions *session.Store
	Hasher   application.PasswordHasher
	Events   application.EventPublisher
	Searcher application.ProfileSearcher
	GitHub   handlers.ExternalProvider
	Metrics  prometheus.Registerer
}

// DepsFromContainer wires the production stack: Postgres behind a cached
// role repository, Redis sessions and the optional RabbitMQ, Elasticsearch
// and GitHub integrations.
func DepsFromContainer() Deps {
	cfg := container.GetConfig()
	store := pginfra.NewStore(container.GetPGPool())
	repos := store.Repos()
	repos.Roles = cache.NewRoleRepository(repos.Roles, cfg.RoleCacheTTL)

	d := Deps{
		Config:   cfg,
		Logger:   container.GetLogger(),
		UoW:      store,
		Repos:    repos,
		Redis:    container.GetRedis(),
		Sessions: session.NewStore(container.GetRedis(), container.GetJWT(), cfg.SessionCookie),
		Hasher:   helpers.NewBcryptHasher(bcrypt.DefaultCost),
	}
	if pub := container.GetRabbitPub(); pub != nil {
		d.Events = pub
	}
	if es := container.GetES(); es != nil {
		d.Searcher = search.NewProfileIndex(es, cfg.ESProfilesIndex)
	}
	if cfg.GitHubEnabled() {
		d.GitHub = oauth.NewGitHub(oauth.GitHubConfig{
			ClientID:     cfg.GitHubClientID,
			ClientSecret: cfg.GitHubClientSecret,
			RedirectURL:  cfg.GitHubRedirectURL,
		}, container.GetRedis())
	}
	return d
}

// InitModules builds services and handlers from d and registers every
// module with r. Call once during startup.
func InitModules(r *Registry, d Deps) error {
	cfg := d.Config
	logger := d.Logger

	synchronizer := &application.Synchronizer{
		UoW:         d.UoW,
		Profiles:    d.Repos.Profiles,
		Roles:       d.Repos.Roles,
		DefaultRole: cfg.DefaultRole,
		Sessions:    d.Sessions,
		Events:      d.Events,
		Logger:      logger,
	}
	auth := &application.AuthService{
		UoW:         d.UoW,
		Identities:  d.Repos.Identities,
		Credentials: d.Repos.Credentials,
		Hasher:      d.Hasher,
		Sessions:    d.Sessions,
		Sync:        synchronizer,
		DefaultRole: cfg.DefaultRole,
		Logger:      logger,
	}
	registrar := &application.Registrar{
		UoW:        d.UoW,
		Identities: d.Repos.Identities,
		Hasher:     d.Hasher,
		Events:     d.Events,
		Logger:     logger,
	}
	profiles := &application.ProfileService{
		Profiles: d.Repos.Profiles,
		Roles:    d.Repos.Roles,
		Searcher: d.Searcher,
		Events:   d.Events,
		Logger:   logger,
	}
	transactions := &application.TransactionService{Transactions: d.Repos.Transactions, Profiles: d.Repos.Profiles}
	roles := &application.RoleService{Roles: d.Repos.Roles}

	resolver := application.NewSessionResolver(d.Sessions)
	gate := middleware.NewGate(application.NewAuthorizer(resolver, d.Repos.Profiles), cfg.LoginPath, logger)
	cookies := helpers.NewCookie(cfg.SessionCookie, cfg.CookieDomain, cfg.CookieSecure)

	var allow middleware.AllowFunc
	if cfg.Env == "development" {
		allow = middleware.AllowPrivateIP()
	}

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(auth, resolver, cookies, d.GitHub, cfg.PostLoginRedirect, logger), d.Redis, allow))
	r.Add(modules.NewRegistrationModule(handlers.NewRegistrationHandler(registrar, logger), d.Redis, allow))
	r.Add(modules.NewProfileModule(handlers.NewProfileHandler(profiles, synchronizer, logger), gate))
	r.Add(modules.NewTransactionModule(handlers.NewTransactionHandler(transactions, logger), gate, d.Redis))
	r.Add(modules.NewRoleModule(handlers.NewRoleHandler(roles, logger), gate))

	if cfg.MetricsEnabled {
		h, err := middleware.RegisterMetrics(d.Metrics)
		if err != nil {
			return err
		}
		r.Use(middleware.Metrics())
		r.Add(modules.NewMetricsModule(h, d.Redis))
	}
	return nil
}
