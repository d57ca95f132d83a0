package bootstrap

import (
	"github.com/agrohub-unirv/edital-hub/internal/config"
	"github.com/agrohub-unirv/edital-hub/internal/infra/cache"
	"github.com/agrohub-unirv/edital-hub/internal/infra/db"
	"github.com/agrohub-unirv/edital-hub/internal/infra/logger"
	"github.com/agrohub-unirv/edital-hub/internal/modules/handler"
	"github.com/agrohub-unirv/edital-hub/internal/modules/model"
	"github.com/agrohub-unirv/edital-hub/internal/modules/repo"
	"github.com/agrohub-unirv/edital-hub/internal/modules/service"
	"github.com/agrohub-unirv/edital-hub/internal/pkg/gencache"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func BuildContainer() *do.Injector {
	inj := do.New()

	// config
	do.Provide(inj, func(i *do.Injector) (*config.Config, error) {
		return config.Load()
	})

	// logger
	do.Provide(inj, func(i *do.Injector) (*zap.Logger, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return logger.New(cfg.Log.Level)
	})

	// DB
	do.Provide(inj, func(i *do.Injector) (*gorm.DB, error) {
		cfg := do.MustInvoke[*config.Config](i)
		d, err := db.New(cfg)
		if err != nil {
			return nil, err
		}
		// [optional] auto migrate
		if cfg.Database.AutoMigrate {
			_ = d.AutoMigrate(
				&model.User{},
				&model.Edital{},
				&model.Cronograma{},
				&model.EditalValor{},
				&model.EditalHistory{},
				&model.Project{},
			)
		}
		return d, nil
	})

	// Redis
	do.Provide(inj, func(i *do.Injector) (*redis.Client, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return cache.New(cfg), nil
	})

	// Listing cache
	do.Provide(inj, func(i *do.Injector) (*gencache.Store, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return gencache.New(
			do.MustInvoke[*redis.Client](i),
			do.MustInvoke[*zap.Logger](i),
			cfg.Listing.GenerationKey,
		), nil
	})

	// Repo
	do.Provide(inj, func(i *do.Injector) (repo.EditalRepo, error) {
		return repo.NewEditalRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.HistoryRepo, error) {
		return repo.NewHistoryRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.ProjectRepo, error) {
		return repo.NewProjectRepo(do.MustInvoke[*gorm.DB](i)), nil
	})

	// Service
	do.Provide(inj, func(i *do.Injector) (service.EditalService, error) {
		return service.NewEditalService(
			do.MustInvoke[repo.EditalRepo](i),
			do.MustInvoke[repo.HistoryRepo](i),
			do.MustInvoke[*gencache.Store](i),
			do.MustInvoke[*zap.Logger](i),
			do.MustInvoke[*config.Config](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.ProjectService, error) {
		return service.NewProjectService(
			do.MustInvoke[repo.ProjectRepo](i),
			do.MustInvoke[repo.EditalRepo](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	// Handler
	do.Provide(inj, func(i *do.Injector) (*handler.EditalHandler, error) {
		return handler.NewEditalHandler(do.MustInvoke[service.EditalService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.ProjectHandler, error) {
		return handler.NewProjectHandler(do.MustInvoke[service.ProjectService](i)), nil
	})

	return inj
}
