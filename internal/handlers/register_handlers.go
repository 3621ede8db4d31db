package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openledger/bookkeeper/internal/core/services"
	"github.com/openledger/bookkeeper/internal/repositories/database/pgsql"
)

// RegisterHandlers wires repositories, services and routes onto the API
// group.
func RegisterHandlers(rg *gin.RouterGroup, pool *pgxpool.Pool) {
	repos := pgsql.NewRepositoryContainer(pool)

	accountService := services.NewAccountService(repos.Account)
	postingService := services.NewPostingService(repos.Journal, repos.Account)
	reportingService := services.NewReportingService(repos.Reporting)

	registerAccountRoutes(rg, accountService, postingService)
	registerJournalRoutes(rg, postingService)
	registerReportingRoutes(rg, reportingService)
}

// RegisterHealthRoute exposes a liveness endpoint outside the API group.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
