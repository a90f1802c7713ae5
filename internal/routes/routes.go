package routes

import (
	"io"
	"net/http"

	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rail_announcer/internal/announcement"
	"rail_announcer/internal/controllers"
	"rail_announcer/internal/middleware"
	"rail_announcer/internal/services"
	"rail_announcer/internal/store"
)

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	Store        *store.Store
	Translations *services.TranslationService
	Audio        *services.AudioService
	Templates    *services.TemplateService
	Assembler    *announcement.Assembler

	JWTSecret   []byte // empty disables auth
	CORSOrigins []string
	VideoDir    string
	VideoPrefix string

	// AccessLog receives request logs; nil uses gin.DefaultWriter.
	AccessLog io.Writer
}

// controllerSet groups one handler struct per resource.
type controllerSet struct {
	routes        *controllers.RouteController
	translations  *controllers.TranslationController
	audio         *controllers.AudioController
	templates     *controllers.TemplateController
	announcements *controllers.AnnouncementController
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()

	accessLog := d.AccessLog
	if accessLog == nil {
		accessLog = gin.DefaultWriter
	}
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.CORS(d.CORSOrigins),
		ginlog.SetLogger(
			ginlog.WithWriter(accessLog),
			ginlog.WithUTC(true),
			ginlog.WithSkipPath([]string{"/healthz", "/metrics"}),
		),
	)

	r.GET("/healthz", func(c *gin.Context) {
		if err := d.Store.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	files := d.Store.Files()
	r.Static(files.Prefix(), files.Root())
	if d.VideoDir != "" && d.VideoPrefix != "" {
		r.Static(d.VideoPrefix, d.VideoDir)
	}

	cs := controllerSet{
		routes:        &controllers.RouteController{Store: d.Store},
		translations:  &controllers.TranslationController{Store: d.Store, Service: d.Translations},
		audio:         &controllers.AudioController{Store: d.Store, Service: d.Audio},
		templates:     &controllers.TemplateController{Store: d.Store, Service: d.Templates},
		announcements: &controllers.AnnouncementController{Assembler: d.Assembler, VideoDir: d.VideoDir, VideoPrefix: d.VideoPrefix},
	}

	auth := middleware.RequireAuth(d.JWTSecret)
	admin := middleware.RequireRole(d.JWTSecret, "admin")

	RouteRoutes(r, cs.routes, auth, admin)
	TranslationRoutes(r, cs.translations, auth, admin)
	AudioRoutes(r, cs.audio, auth, admin)
	TemplateRoutes(r, cs.templates, auth, admin)
	AnnouncementRoutes(r, cs.announcements)

	return r
}
