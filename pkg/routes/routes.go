package pkg

import (
	"FacultyQuizPortal/internal/auth"
	"FacultyQuizPortal/internal/config"
	"FacultyQuizPortal/internal/faculty"
	"FacultyQuizPortal/internal/gql"
	"FacultyQuizPortal/internal/quiz"
	"FacultyQuizPortal/internal/review"
	"FacultyQuizPortal/internal/subject"
	"FacultyQuizPortal/pkg/middleware"
	"context"
	"log"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

var EchoModules = fx.Module("echo",
	fx.Provide(zap.NewProduction),
	fx.Provide(NewEchoServer),
	fx.Provide(config.NewMongoDBConfig),
	fx.Provide(config.NewMongoDBClient),
	fx.Provide(config.NewResendConfig),
	fx.Provide(config.NewEmailService),
	fx.Provide(subject.NewRepository),
	fx.Provide(func(r *subject.Repository) subject.Registry { return r }),
	fx.Provide(auth.NewFacultyRepository),
	fx.Provide(func(r *auth.FacultyRepository) auth.FacultyStore { return r }),
	fx.Provide(faculty.NewCardRepository),
	fx.Provide(func(r *faculty.CardRepository) faculty.CardStore { return r }),
	fx.Provide(faculty.NewService),
	fx.Provide(func(s *faculty.Service) auth.CardEnsurer { return s }),
	fx.Provide(auth.NewService),
	fx.Provide(auth.NewAuthHandler),
	fx.Provide(faculty.NewAssignmentHandler),
	fx.Provide(quiz.NewRepository),
	fx.Provide(func(r *quiz.Repository) quiz.Store { return r }),
	fx.Provide(quiz.NewService),
	fx.Provide(quiz.NewQuizHandler),
	fx.Provide(func(e *config.EmailService) quiz.Sender { return e }),
	fx.Provide(quiz.NewAvailabilityScheduler),
	fx.Provide(review.NewRepository),
	fx.Provide(func(r *review.Repository) review.Store { return r }),
	fx.Provide(review.NewService),
	fx.Provide(review.NewReviewHandler),
	fx.Provide(gql.NewHandler),
	fx.Invoke(EnsureIndexes),
	fx.Invoke(RegisterRoutes),
	fx.Invoke(func(lc fx.Lifecycle, s *quiz.AvailabilityScheduler) { s.Start(lc) }),
)

// FxLogger routes fx lifecycle events through zap.
func FxLogger() fx.Option {
	return fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
		return &fxevent.ZapLogger{Logger: logger}
	})
}

func NewEchoServer(lc fx.Lifecycle) *echo.Echo {
	e := echo.New()
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{"http://localhost:5173"},
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE, echo.OPTIONS},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	port := ":8080"
	log.Println("Server running on http://localhost" + port[1:])
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := e.Start(port); err != nil {
					log.Fatal("Failed to start the server:", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("shutting down the server ...")
			return e.Shutdown(ctx)
		},
	})
	return e
}

func EnsureIndexes(db *mongo.Database) {
	config.UniqueFieldIndex(db.Collection("faculty"), "email")
	config.UniqueFieldIndex(db.Collection("faculty"), "amizone_id")
	config.UniqueFieldIndex(db.Collection("facultycards"), "card_key")
	config.UniqueFieldIndex(db.Collection("subjects"), "name_lower")
}

func RegisterRoutes(
	e *echo.Echo,
	authHandler *auth.AuthHandler,
	assignmentHandler *faculty.AssignmentHandler,
	quizHandler *quiz.QuizHandler,
	reviewHandler *review.ReviewHandler,
	gqlHandler *gql.Handler,
) {
	e.POST("/register", authHandler.Register)
	e.POST("/login", authHandler.Login)

	protected := e.Group("/api")
	protected.Use(middleware.JWTMiddleware)

	protected.GET("/profile", authHandler.Profile)
	protected.PUT("/profile", authHandler.UpdateProfile)

	protected.GET("/faculty/assignments", assignmentHandler.FetchAssignments)
	protected.POST("/faculty/assignments", assignmentHandler.SaveAssignments)

	protected.POST("/quizzes", quizHandler.Create)
	protected.GET("/quizzes", quizHandler.List)
	protected.GET("/quizzes/:id", quizHandler.Get)
	protected.PUT("/quizzes/:id", quizHandler.Update)
	protected.DELETE("/quizzes/:id", quizHandler.Delete)
	protected.POST("/quizzes/:id/attempts", quizHandler.SubmitAttempt)
	protected.GET("/quiz-results", quizHandler.Results)

	protected.GET("/projects", reviewHandler.ListProjects)
	protected.GET("/projects/:id", reviewHandler.GetProject)
	protected.PUT("/projects/:id/status", reviewHandler.ReviewProject)
	protected.GET("/research-requests", reviewHandler.ListResearchRequests)
	protected.PUT("/research-requests/:id/status", reviewHandler.ReviewResearchRequest)

	protected.POST("/graphql", gqlHandler.Query)
}
