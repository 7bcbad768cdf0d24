package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/tendai-dev/SLIZ/config"
	"github.com/tendai-dev/SLIZ/database"
	"github.com/tendai-dev/SLIZ/middleware"
	courseModels "github.com/tendai-dev/SLIZ/models/course"
	"github.com/tendai-dev/SLIZ/routers/courseRoutes"
	"github.com/tendai-dev/SLIZ/routers/scormRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupApp wires a fresh in-memory database into the global instance and
// builds the app with the real middleware chain and routes.
func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	config.LoadConfig()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	courseRoutes.SetupCourseRoutes(app)
	scormRoutes.SetupScormRoutes(app)
	return app, db
}

func authToken(t *testing.T, userID string) string {
	t.Helper()
	token, err := middleware.GenerateJWT(userID, "Test User", "student", userID+"@sliz.test")
	require.NoError(t, err)
	return token
}

// doJSON performs one request and decodes the standard response envelope
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := app.Test(req, -1)
	require.NoError(t, err)
	defer res.Body.Close()

	var envelope map[string]interface{}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&envelope))
	return res.StatusCode, envelope
}

func dataOf(t *testing.T, envelope map[string]interface{}) map[string]interface{} {
	t.Helper()
	data, ok := envelope["data"].(map[string]interface{})
	require.True(t, ok, "envelope has no data object: %v", envelope)
	return data
}

func seedScormCourse(t *testing.T, db *gorm.DB, id, title string) {
	t.Helper()
	require.NoError(t, db.Create(&courseModels.Course{
		ID:           id,
		Title:        title,
		Description:  "SCORM course content",
		InstructorID: "system",
		CategoryID:   "scorm-courses",
		LaunchURL:    "/scorm-courses/" + id + "/index.html",
		IsPublished:  true,
	}).Error)
}

// seedScormPackage writes a minimal SCORM 1.2 package into root
func seedScormPackage(t *testing.T, root, dir, title string) {
	t.Helper()
	manifest := fmt.Sprintf(`<?xml version="1.0"?>
<manifest version="1.2">
  <organizations>
    <organization><title>%s</title></organization>
  </organizations>
  <resources>
    <resource href="scormcontent/index.html"/>
  </resources>
</manifest>`, title)
	require.NoError(t, os.MkdirAll(filepath.Join(root, dir), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, dir, "imsmanifest.xml"), []byte(manifest), 0o644))
}

// seedQuiz creates len(correct) questions with the given correct option
// indexes, in order.
func seedQuiz(t *testing.T, db *gorm.DB, courseID string, correct []int) {
	t.Helper()
	for i, answer := range correct {
		require.NoError(t, db.Create(&courseModels.QuizQuestion{
			CourseID:      courseID,
			Question:      fmt.Sprintf("Question %d", i+1),
			Options:       datatypes.JSON([]byte(`["A","B","C","D"]`)),
			CorrectAnswer: answer,
			Explanation:   fmt.Sprintf("Explanation %d", i+1),
			OrderIndex:    i + 1,
		}).Error)
	}
}
