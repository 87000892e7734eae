package routes

import (
	"academic-management-api/controllers"
	"academic-management-api/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/auth/register", controllers.Register)
			public.POST("/auth/login", controllers.Login)
			public.POST("/auth/refresh", controllers.RefreshToken)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Academic Management API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// Session management
			protected.GET("/auth/me", controllers.GetProfile)
			protected.POST("/auth/logout", controllers.Logout)
			protected.GET("/refresh-tokens/active", controllers.GetActiveSessions)
			protected.POST("/refresh-tokens/revoke/:id", controllers.RevokeSession)

			users := protected.Group("/users")
			{
				users.GET("", controllers.GetUsers)
				users.GET("/:id", controllers.GetUser)
				users.PUT("/:id", controllers.UpdateUser)
				users.PUT("/:id/password", controllers.UpdateUserPassword)
				users.DELETE("/:id", controllers.DeleteUser)
			}

			// Reference data
			countries := protected.Group("/countries")
			{
				countries.GET("", controllers.GetCountries)
				countries.GET("/:id", controllers.GetCountry)
				countries.POST("", controllers.CreateCountry)
				countries.PUT("/:id", controllers.UpdateCountry)
				countries.DELETE("/:id", controllers.DeleteCountry)
			}

			keywords := protected.Group("/keywords")
			{
				keywords.GET("", controllers.GetKeywords)
				keywords.GET("/:id", controllers.GetKeyword)
				keywords.POST("", controllers.CreateKeyword)
				keywords.PUT("/:id", controllers.UpdateKeyword)
				keywords.DELETE("/:id", controllers.DeleteKeyword)
			}

			publicationTypes := protected.Group("/publication-types")
			{
				publicationTypes.GET("", controllers.GetPublicationTypes)
				publicationTypes.GET("/:id", controllers.GetPublicationType)
				publicationTypes.POST("", controllers.CreatePublicationType)
				publicationTypes.PUT("/:id", controllers.UpdatePublicationType)
				publicationTypes.DELETE("/:id", controllers.DeletePublicationType)
			}

			journals := protected.Group("/journals")
			{
				journals.GET("", controllers.GetJournals)
				journals.GET("/:id", controllers.GetJournal)
				journals.POST("", controllers.CreateJournal)
				journals.PUT("/:id", controllers.UpdateJournal)
				journals.DELETE("/:id", controllers.DeleteJournal)
			}

			conferences := protected.Group("/conferences")
			{
				conferences.GET("", controllers.GetConferences)
				conferences.GET("/:id", controllers.GetConference)
				conferences.POST("", controllers.CreateConference)
				conferences.PUT("/:id", controllers.UpdateConference)
				conferences.DELETE("/:id", controllers.DeleteConference)
			}

			authors := protected.Group("/authors")
			{
				authors.GET("", controllers.GetAuthors)
				authors.GET("/:id", controllers.GetAuthor)
				authors.POST("", controllers.CreateAuthor)
				authors.POST("/fetch-from-orcid", controllers.FetchAuthorFromOrcid)
				authors.PUT("/:id", controllers.UpdateAuthor)
				authors.DELETE("/:id", controllers.DeleteAuthor)
			}

			// Publications and their links
			publications := protected.Group("/publications")
			{
				publications.GET("", controllers.GetPublications)
				publications.GET("/:id", controllers.GetPublication)
				publications.POST("", controllers.CreatePublication)
				publications.PUT("/:id", controllers.UpdatePublication)
				publications.DELETE("/:id", controllers.DeletePublication)

				publications.GET("/:id/authors", controllers.GetPublicationAuthors)
				publications.POST("/:id/authors", controllers.AddPublicationAuthor)
				publications.PUT("/:id/authors/reorder", controllers.ReorderPublicationAuthors)
				publications.PUT("/:id/authors/:author_id", controllers.UpdatePublicationAuthor)
				publications.DELETE("/:id/authors/:author_id", controllers.RemovePublicationAuthor)

				publications.GET("/:id/keywords", controllers.GetPublicationKeywords)
				publications.POST("/:id/keywords", controllers.AddPublicationKeyword)
				publications.POST("/:id/keywords/batch", controllers.AddPublicationKeywordsBatch)
				publications.DELETE("/:id/keywords/:keyword_id", controllers.RemovePublicationKeyword)

				publications.GET("/:id/references", controllers.GetPublicationReferences)
				publications.POST("/:id/references", controllers.AddPublicationReference)
				publications.PUT("/:id/references/reorder", controllers.ReorderPublicationReferences)
				publications.PUT("/:id/references/:reference_id", controllers.UpdatePublicationReference)
				publications.DELETE("/:id/references/:reference_id", controllers.DeletePublicationReference)
			}

			// Projects (permissions are checked per project)
			projects := protected.Group("/projects")
			{
				projects.GET("", controllers.GetProjects)
				projects.GET("/:id", controllers.GetProject)
				projects.POST("", controllers.CreateProject)
				projects.PUT("/:id", controllers.UpdateProject)
				projects.DELETE("/:id", controllers.DeleteProject)

				projects.GET("/:id/members", controllers.GetProjectMembers)
				projects.PUT("/:id/members/:user_id", controllers.PutProjectMemberByUser)
				projects.DELETE("/:id/members/:user_id", controllers.DeleteProjectMemberByUser)
			}

			projectMembers := protected.Group("/project-members")
			{
				projectMembers.GET("", controllers.GetProjectMembers)
				projectMembers.GET("/:id", controllers.GetProjectMember)
				projectMembers.POST("", controllers.CreateProjectMember)
				projectMembers.PUT("/:id", controllers.UpdateProjectMember)
				projectMembers.DELETE("/:id", controllers.DeleteProjectMember)
			}

			milestones := protected.Group("/milestones")
			{
				milestones.GET("", controllers.GetMilestones)
				milestones.GET("/:id", controllers.GetMilestone)
				milestones.POST("", controllers.CreateMilestone)
				milestones.PUT("/:id", controllers.UpdateMilestone)
				milestones.DELETE("/:id", controllers.DeleteMilestone)
			}

			deliverables := protected.Group("/deliverables")
			{
				deliverables.GET("", controllers.GetDeliverables)
				deliverables.GET("/:id", controllers.GetDeliverable)
				deliverables.POST("", controllers.CreateDeliverable)
				deliverables.PUT("/:id", controllers.UpdateDeliverable)
				deliverables.DELETE("/:id", controllers.DeleteDeliverable)
			}

			acquisitions := protected.Group("/acquisitions")
			{
				acquisitions.GET("", controllers.GetAcquisitions)
				acquisitions.GET("/:id", controllers.GetAcquisition)
				acquisitions.POST("", controllers.CreateAcquisition)
				acquisitions.PUT("/:id", controllers.UpdateAcquisition)
				acquisitions.DELETE("/:id", controllers.DeleteAcquisition)
			}

			// ORCID integration
			orcid := protected.Group("/orcid")
			{
				orcid.GET("", controllers.GetOrcidStatus)
				orcid.POST("/sync/:orcid_id", controllers.SyncOrcid)
				orcid.GET("/researcher/:orcid_id", controllers.GetOrcidResearcher)
				orcid.GET("/researcher/:orcid_id/works", controllers.GetOrcidResearcherWorks)
				orcid.GET("/sync-runs", controllers.GetOrcidSyncRuns)
			}
		}
	}
}
