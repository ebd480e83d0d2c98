package routes

import (
	"log"
	"net/http"

	"quizapi/handlers"
	"quizapi/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // no auth layer, any origin may watch
	},
}

func SetupRoutes(
	router *gin.Engine,
	questionHandler *handlers.QuestionHandler,
	quizHandler *handlers.QuizHandler,
	exportHandler *handlers.ExportHandler,
	hub *services.Hub,
) {
	// API routes
	api := router.Group("/api")
	{
		questions := api.Group("/questions")
		{
			questions.GET("", questionHandler.SearchQuestions)
			questions.POST("", questionHandler.CreateQuestion)
		}

		quizzes := api.Group("/quizzes")
		{
			quizzes.GET("", quizHandler.ListQuizzes)
			quizzes.POST("", quizHandler.CreateQuiz)
			quizzes.GET("/:id", quizHandler.GetQuizByID)
			quizzes.PUT("/:id", quizHandler.UpdateQuiz)
			quizzes.DELETE("/:id", quizHandler.DeleteQuiz)
			quizzes.GET("/:id/export", exportHandler.ExportQuiz)
		}

		api.GET("/export/formats", exportHandler.ListFormats)
	}

	// WebSocket feed of quiz changes
	router.GET("/ws/quizzes", func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("WebSocket upgrade failed: %v", err)
			return
		}
		hub.RegisterClient(conn)
	})

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
