package connection

import (
	"log"
	"log/slog"

	authcontroller "taskpanel/controller/auth"
	taskcontroller "taskpanel/controller/task"
	usercontroller "taskpanel/controller/user"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func StartServer() {
	router := gin.Default()

	db, err := DBConnection()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "Api is running!"})
	})

	router.Use(cors.Default())

	authcontroller.SignInController(router, db)
	authcontroller.RefreshController(router, db)
	taskcontroller.TaskController(router, db)
	usercontroller.UserController(router, db)

	slog.Info("server starting")
	router.Run()
}
