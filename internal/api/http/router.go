package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/blog-service/internal/api/http/handlers"
	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/chat"
	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Posts          *handlers.PostsHandler
	Comments       *handlers.CommentsHandler
	Chats          *handlers.ChatsHandler
	Gateway        *chat.Gateway
	Metrics        *observability.Metrics
	AuthMiddleware *auth.Middleware
	PostIsMine     auth.OwnershipPredicate
	CommentIsMine  auth.OwnershipPredicate
}

// RegisterRoutes wires HTTP routes. Every route states its own rule.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	require := cfg.AuthMiddleware.Require
	public := require(auth.Rule{Public: true})
	access := require(auth.Rule{})
	refresh := require(auth.Rule{Kind: auth.TokenRefresh})
	admin := require(auth.Rule{Roles: []domain.Role{domain.RoleAdmin}})
	postOwner := require(auth.Rule{Ownership: &auth.Ownership{Param: "postId", IsMine: cfg.PostIsMine}})
	commentOwner := require(auth.Rule{Ownership: &auth.Ownership{Param: "commentId", IsMine: cfg.CommentIsMine}})

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	authGroup := app.Group("/auth")
	authGroup.Post("/token/access", refresh, cfg.Auth.TokenAccess)
	authGroup.Post("/token/refresh", refresh, cfg.Auth.TokenRefresh)
	authGroup.Post("/login/email", public, cfg.Auth.LoginEmail)
	authGroup.Post("/register/email", public, cfg.Auth.RegisterEmail)

	users := app.Group("/users")
	users.Get("/", admin, cfg.Users.List)
	users.Get("/follow/me", access, cfg.Users.MyFollowers)
	users.Post("/follow/:id", access, cfg.Users.Follow)
	users.Patch("/follow/:id/confirm", access, cfg.Users.ConfirmFollow)
	users.Delete("/follow/:id", access, cfg.Users.Unfollow)

	posts := app.Group("/posts")
	posts.Get("/", public, cfg.Posts.List)
	posts.Post("/", access, cfg.Posts.Create)
	posts.Post("/random", access, cfg.Posts.GenerateRandom)
	posts.Get("/:postId", public, cfg.Posts.Get)
	posts.Patch("/:postId", postOwner, cfg.Posts.Update)
	posts.Delete("/:postId", postOwner, cfg.Posts.Delete)

	comments := posts.Group("/:postId/comments", cfg.Posts.RequirePostExists)
	comments.Get("/", public, cfg.Comments.List)
	comments.Get("/:commentId", public, cfg.Comments.Get)
	comments.Post("/", access, cfg.Comments.Create)
	comments.Patch("/:commentId", commentOwner, cfg.Comments.Update)
	comments.Delete("/:commentId", commentOwner, cfg.Comments.Delete)

	chats := app.Group("/chats")
	if cfg.Gateway != nil {
		chats.Get("/ws", cfg.Gateway.Upgrade, cfg.Gateway.Handler())
	}
	chats.Get("/", access, cfg.Chats.List)
	chats.Get("/:cid/messages", access, cfg.Chats.Messages)
}
