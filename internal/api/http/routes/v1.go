package routes

import (
	"github.com/gin-gonic/gin"

	authhttp "github.com/wxllspace/wxllspace-backend/internal/auth/http"
	"github.com/wxllspace/wxllspace-backend/internal/dashboard"
	"github.com/wxllspace/wxllspace-backend/internal/notify"
	projecthttp "github.com/wxllspace/wxllspace-backend/internal/projects/http"
	projectsvc "github.com/wxllspace/wxllspace-backend/internal/projects/service"
	proposalhttp "github.com/wxllspace/wxllspace-backend/internal/proposals/http"
	proposalsvc "github.com/wxllspace/wxllspace-backend/internal/proposals/service"
	"github.com/wxllspace/wxllspace-backend/internal/session"
	"github.com/wxllspace/wxllspace-backend/internal/stats"
	"github.com/wxllspace/wxllspace-backend/internal/wizard"
	wizardhttp "github.com/wxllspace/wxllspace-backend/internal/wizard/http"
)

type V1Deps struct {
	Sessions      *session.Service
	AuthLimit     gin.HandlerFunc
	Stats         *stats.Service
	Dashboard     *dashboard.Service
	Projects      *projectsvc.ProjectService
	Proposals     *proposalsvc.ProposalService
	Wizard        *wizard.Service
	Notifications *notify.Publisher
}

// RegisterV1 mounts the JSON API under /api/v1. The session middleware is
// expected to run on r already.
func RegisterV1(r *gin.Engine, dep V1Deps) {
	api := r.Group("/api/v1")

	authhttp.New(dep.Sessions).Register(api.Group("/auth"), dep.AuthLimit)
	stats.NewHandler(dep.Stats).Register(api)
	dashboard.NewHandler(dep.Dashboard).Register(api)
	projecthttp.New(dep.Projects).Register(api)
	proposalhttp.New(dep.Proposals).Register(api)
	wizardhttp.New(dep.Wizard).Register(api)
	notify.NewHandler(dep.Notifications).Register(api)
}
