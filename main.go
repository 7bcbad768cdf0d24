package main

import (
	"log"

	"github.com/tendai-dev/SLIZ/config"
	controllers "github.com/tendai-dev/SLIZ/controllers/course"
	"github.com/tendai-dev/SLIZ/database"
	courseRoutes "github.com/tendai-dev/SLIZ/routers/courseRoutes"
	scormRoutes "github.com/tendai-dev/SLIZ/routers/scormRoutes"
	"github.com/tendai-dev/SLIZ/scorm"
	"github.com/tendai-dev/SLIZ/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",        // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Serve the SCORM package trees to the player iframe. The frame headers
	// keep the content embeddable by this origin only.
	app.Use("/scorm-courses", func(c *fiber.Ctx) error {
		c.Set("X-Frame-Options", "SAMEORIGIN")
		c.Set("Content-Security-Policy", "frame-ancestors 'self'")
		return c.Next()
	})
	app.Static("/scorm-courses", config.AppConfig.ScormCoursesPath)

	// With SCORM_API_BASE_URL set this instance runs as a player-only node:
	// bridge state is flushed over HTTP to the instance that owns the
	// database. Unset, the reconciler is called in-process.
	if config.AppConfig.ScormAPIBaseURL != "" {
		controllers.RTEManager = scorm.NewManager(
			scorm.NewHTTPFlusher(config.AppConfig.ScormAPIBaseURL, config.AppConfig.JWTKey))
		log.Printf("SCORM progress flushes to remote API at %s", config.AppConfig.ScormAPIBaseURL)
	}

	// Integrate the SCORM packages into the catalog on boot, then keep them
	// fresh on the configured rescan schedule
	integrator := scorm.NewIntegrator(config.AppConfig.ScormCoursesPath, database.Database.Db)
	controllers.ScormIntegrator = integrator
	if err := integrator.Sync(); err != nil {
		log.Printf("SCORM course integration failed: %v", err)
	}
	utils.StartScormScheduler(integrator)

	courseRoutes.SetupCourseRoutes(app)
	scormRoutes.SetupScormRoutes(app)

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
