package main

import (
	"time"
	"yatube/auth"
	"yatube/config"
	"yatube/db"
	"yatube/handlers"
	"yatube/models"
	"yatube/templates"
	"yatube/utils"
	"yatube/web"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/expvar"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	gormsessions "github.com/gin-contrib/sessions/gorm"
	"github.com/gin-gonic/gin"
)

const sessionExpirationTime = auth.SessionDays * 86400

// newRouter wires all routes. cleanup enables the periodic removal of expired sessions.
func newRouter(cleanup bool) (*gin.Engine, error) {
	if !config.DEBUG_MODE {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.CustomRecovery(web.Recovery))
	_ = router.SetTrustedProxies([]string{})
	if config.DEBUG_MODE {
		router.Use(utils.ErrorLogMiddleware)
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Origin"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           30 * 24 * time.Hour,
	}))

	// HTML templates
	tmpl, err := templates.Parse()
	if err != nil {
		return nil, err
	}
	router.SetHTMLTemplate(tmpl)

	cookieStore := gormsessions.NewStore(db.Instance, cleanup, []byte(config.SESSION_KEY))
	cookieStore.Options(sessions.Options{Path: "/", MaxAge: sessionExpirationTime, HttpOnly: true})
	router.Use(sessions.Sessions(auth.CookieName, cookieStore))
	if !config.DEBUG_MODE {
		router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/media/"})))
	}
	router.Use((&utils.CacheRouter{CacheTime: utils.CacheNoCache}).Handler()) // No cache by default, individual end-points can override that

	// Feeds and posts
	router.GET("/", web.Index)
	router.GET("/group/:slug/", web.GroupPosts)
	router.GET("/profile/:username/", web.Profile)
	router.GET("/posts/:id/", web.PostDetail)
	// Create and edit check the user themselves
	router.GET("/create/", web.PostCreate)
	router.POST("/create/", web.PostCreate)
	router.GET("/posts/:id/edit/", web.PostEdit)
	router.POST("/posts/:id/edit/", web.PostEdit)
	// Accounts
	router.GET("/auth/signup/", web.Signup)
	router.POST("/auth/signup/", web.Signup)
	router.GET("/auth/login/", web.Login)
	router.POST("/auth/login/", web.Login)
	router.GET("/auth/logout/", web.Logout)
	router.POST("/auth/logout/", web.Logout)
	// Media
	router.GET("/media/:id", handlers.ImageFetch)
	// Admin
	authRouter := &auth.Router{Base: router}
	authRouter.GET("/admin/groups/", handlers.GroupList, models.PermissionAdmin)
	authRouter.POST("/admin/groups/", handlers.GroupCreate, models.PermissionAdmin)
	authRouter.GET("/admin/buckets/", handlers.BucketList, models.PermissionAdmin)
	authRouter.POST("/admin/buckets/", handlers.BucketSave, models.PermissionAdmin)
	router.GET("/debug/vars", authRouter.Handler(expvar.Handler(), models.PermissionAdmin))
	// Misc
	router.GET("/robots.txt", web.DisallowRobots)
	router.NoRoute(web.NotFound)
	return router, nil
}
