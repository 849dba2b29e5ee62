package router

import (
	"github.com/gin-gonic/gin"
	"github.com/qingnian/blog-api/internal/controller"
	"github.com/qingnian/blog-api/internal/database"
	"github.com/qingnian/blog-api/internal/middleware"
	"github.com/qingnian/blog-api/internal/service"
	"github.com/qingnian/blog-api/internal/store"
)

// Setup 初始化存储、服务和全部路由
func Setup(r *gin.Engine) {
	st := store.NewGormStore(database.GetDB())
	Register(r, st)
}

// Register 在给定存储上装配服务与路由，测试可注入内存存储
func Register(r *gin.Engine, st store.EntityStore) {
	projections := service.NewProjectionService(st)
	articles := service.NewArticleService(st)
	favorites := service.NewFavoriteService(st)
	comments := service.NewCommentService(st)
	users := service.NewUserService(st)

	articleApi := controller.NewArticleApi(articles, favorites)
	commentApi := controller.NewCommentApi(comments)
	userApi := controller.NewUserApi(users, projections)

	api := r.Group("/api")
	setupArticleRoutes(api, articleApi, commentApi)
	setupUserRoutes(api, userApi)
}

// setupArticleRoutes 文章与评论路由
func setupArticleRoutes(api *gin.RouterGroup, articleApi *controller.ArticleApi, commentApi *controller.CommentApi) {
	articles := api.Group("/articles")
	{
		articles.GET("", articleApi.List)
		articles.GET("/drafts", middleware.JWTAuth(), articleApi.ListDrafts)
		articles.GET("/:id", middleware.OptionalAuth(), articleApi.Get)
		articles.POST("", middleware.JWTAuth(), articleApi.Create)
		articles.PUT("/:id", middleware.JWTAuth(), articleApi.Update)
		articles.DELETE("/:id", middleware.JWTAuth(), articleApi.Delete)
		articles.POST("/:id/like", articleApi.Like)
		articles.POST("/:id/favorite", middleware.JWTAuth(), articleApi.Favorite)
		articles.DELETE("/:id/favorite", middleware.JWTAuth(), articleApi.Unfavorite)

		comments := articles.Group("/:id/comments")
		{
			comments.GET("", commentApi.List)
			comments.POST("", middleware.JWTAuth(), commentApi.Add)
			comments.POST("/:commentId/like", commentApi.Like)
			comments.DELETE("/:commentId", middleware.JWTAuth(), commentApi.Remove)
		}
	}
}

// setupUserRoutes 用户路由
func setupUserRoutes(api *gin.RouterGroup, userApi *controller.UserApi) {
	users := api.Group("/users")
	{
		users.POST("/register", userApi.Register)
		users.POST("/login", userApi.Login)
		users.POST("/logout", middleware.JWTAuth(), userApi.Logout)
		users.POST("/refresh", middleware.RefreshAuth(), userApi.RefreshToken)
		users.GET("/me", middleware.JWTAuth(), userApi.GetMe)
		users.PUT("/me", middleware.JWTAuth(), userApi.UpdateMe)
		users.GET("/me/favorites", middleware.JWTAuth(), userApi.GetFavorites)
		users.GET("/:id/articles", middleware.OptionalAuth(), userApi.GetUserArticles)
		users.POST("/:id/refresh-snapshot", middleware.AdminAuth(), userApi.RefreshSnapshot)
	}
}
