package cmd

//	@title			Hub de Editais API
//	@version		1.0
//	@description	API for the AgroHub UniRV funding-opportunity portal.
//	@schemes		http https
//	@BasePath		/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				User API key (e.g., "Bearer hk-xxxx")

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/agrohub-unirv/edital-hub/internal/bootstrap"
	"github.com/agrohub-unirv/edital-hub/internal/config"
	"github.com/agrohub-unirv/edital-hub/internal/modules/handler"
	"github.com/agrohub-unirv/edital-hub/internal/router"
	"github.com/agrohub-unirv/edital-hub/internal/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		inj := bootstrap.BuildContainer()

		cfg := do.MustInvoke[*config.Config](inj)
		log := do.MustInvoke[*zap.Logger](inj)
		db := do.MustInvoke[*gorm.DB](inj)
		rdb := do.MustInvoke[*redis.Client](inj)
		defer rdb.Close()

		tp, err := telemetry.SetupTracing(cfg)
		if err != nil {
			log.Sugar().Warnw("failed to setup tracing, continuing without tracing", "err", err)
		} else if tp != nil {
			log.Sugar().Infow("OpenTelemetry tracing enabled", "endpoint", cfg.Telemetry.OtlpEndpoint)
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := telemetry.Shutdown(ctx); err != nil {
					log.Sugar().Errorw("failed to shutdown tracer", "err", err)
				}
			}()
		}

		gin.SetMode(cfg.App.Env)

		engine := router.NewRouter(router.RouterDeps{
			Config:         cfg,
			DB:             db,
			Log:            log,
			EditalHandler:  do.MustInvoke[*handler.EditalHandler](inj),
			ProjectHandler: do.MustInvoke[*handler.ProjectHandler](inj),
		})

		addr := fmt.Sprintf("%s:%d", cfg.App.Host, cfg.App.Port)
		srv := &http.Server{Addr: addr, Handler: engine}

		go func() {
			log.Sugar().Infow("starting http server", "addr", addr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Sugar().Fatalw("listen error", "err", err)
			}
		}()

		// graceful shutdown
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Sugar().Errorw("server shutdown", "err", err)
		}
		log.Sugar().Info("server exited")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
