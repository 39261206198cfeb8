package router

import (
	"github.com/derintolu/frs-partner-network/internal/handler"
	"github.com/derintolu/frs-partner-network/internal/middleware"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	User        *handler.UserHandler
	Company     *handler.CompanyHandler
	Membership  *handler.MembershipHandler
	Partnership *handler.PartnershipHandler
	Activity    *handler.ActivityHandler
	Ingest      *handler.IngestHandler
}

func InitRouter(h Handlers) *gin.Engine {
	r := gin.Default()

	userGroup := r.Group("/api/user")
	{
		userGroup.POST("/register", h.User.Register)
		userGroup.POST("/login", h.User.Login)
	}

	tokenGroup := r.Group("/api/token")
	{
		tokenGroup.POST("/refresh", h.User.TokenRefresh)
	}

	// Invite links are public: the token is the invitee's identity.
	inviteGroup := r.Group("/api/invite")
	{
		inviteGroup.GET("/:token", h.Partnership.View)
		inviteGroup.POST("/:token/respond", h.Partnership.Respond)
	}

	authGroup := r.Group("/api/auth")
	authGroup.Use(middleware.AuthMiddleware())
	{
		authGroup.POST("/logout", h.User.Logout)
		authGroup.POST("/change-password", h.User.ChangePassword)
	}

	companyGroup := r.Group("/api/company")
	companyGroup.Use(middleware.AuthMiddleware())
	{
		companyGroup.POST("/create", h.Company.Create)
		companyGroup.GET("/list", h.Company.List)
		companyGroup.GET("/:id", h.Company.Get)
		companyGroup.PUT("/:id/branding", h.Company.UpdateBranding)
		companyGroup.DELETE("/:id", h.Company.Delete)

		companyGroup.GET("/:id/members", h.Membership.List)
		companyGroup.PUT("/:id/members/role", h.Membership.ChangeRole)
		companyGroup.DELETE("/:id/members/:userID", h.Membership.Remove)

		companyGroup.POST("/:id/partnerships", h.Partnership.Invite)
		companyGroup.GET("/:id/partnerships", h.Partnership.ListByCompany)

		companyGroup.POST("/:id/activity", h.Activity.Post)
		companyGroup.GET("/:id/activity", h.Activity.List)

		companyGroup.POST("/:id/import", h.Ingest.Import)
	}

	partnershipGroup := r.Group("/api/partnership")
	partnershipGroup.Use(middleware.AuthMiddleware())
	{
		partnershipGroup.POST("/:id/resend", h.Partnership.Resend)
	}

	return r
}
