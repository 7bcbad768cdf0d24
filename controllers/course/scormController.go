package controllers

import (
	"time"

	"github.com/tendai-dev/SLIZ/database"
	"github.com/tendai-dev/SLIZ/middleware"
	courseModels "github.com/tendai-dev/SLIZ/models/course"
	"github.com/tendai-dev/SLIZ/scorm"
	courseValidators "github.com/tendai-dev/SLIZ/validators/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RTEManager owns the live runtime bridge sessions. The in-process flusher
// writes straight through the progress reconciler.
var RTEManager = scorm.NewManager(EnrollmentFlusher{})

// ScormIntegrator is set at startup and reused by the admin sync endpoint
// and the rescan scheduler.
var ScormIntegrator *scorm.Integrator

// EnrollmentFlusher persists bridge state through the reconciler without a
// network hop. scorm.HTTPFlusher is the remote-deployment alternative.
type EnrollmentFlusher struct{}

func (EnrollmentFlusher) Flush(p scorm.FlushPayload) error {
	_, err := ReconcileProgress(p.UserID, ReconcileInput{
		CourseID:        p.CourseID,
		Progress:        p.Progress,
		ScormData:       p.ScormData,
		Completed:       p.Completed,
		CurrentLocation: p.CurrentLocation,
		SuspendData:     p.SuspendData,
	})
	return err
}

// ReconcileInput is one bridge-reported state snapshot
type ReconcileInput struct {
	CourseID        string
	Progress        int
	ScormData       map[string]string
	Completed       bool
	CurrentLocation string
	SuspendData     string
}

// ReconcileProgress applies a reported snapshot to the user's enrollment.
// A missing enrollment is auto-created first: a progress report is never
// rejected just because enrollment bookkeeping is missing. Progress is
// applied unconditionally (last-write-wins policy, no regression guard).
func ReconcileProgress(userID string, in ReconcileInput) (*courseModels.Enrollment, error) {
	db := database.Database.Db

	var enrollment courseModels.Enrollment
	err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, in.CourseID, false).
		First(&enrollment).Error
	if err == gorm.ErrRecordNotFound {
		enrollment = courseModels.Enrollment{
			UserID:     userID,
			CourseID:   in.CourseID,
			Progress:   0,
			EnrolledAt: time.Now(),
		}
		if err := db.Create(&enrollment).Error; err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	now := time.Now()
	enrollment.Progress = in.Progress
	enrollment.LastAccessedAt = &now

	if in.ScormData != nil {
		data := datatypes.JSONMap{}
		for k, v := range in.ScormData {
			data[k] = v
		}
		enrollment.ScormData = data
	}
	if in.CurrentLocation != "" {
		enrollment.CurrentLocation = in.CurrentLocation
	}
	if in.SuspendData != "" {
		enrollment.SuspendData = in.SuspendData
	}
	// Completion is reached either by the derived progress or by the bridge
	// reporting it outright (content can mark completed below full score)
	if (in.Completed || in.Progress >= 100) && enrollment.CompletedAt == nil {
		enrollment.CompletedAt = &now
	}

	if err := db.Save(&enrollment).Error; err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// GetCourseLaunch resolves the iframe source for a course
func GetCourseLaunch(c *fiber.Ctx) error {
	_, ok := c.Locals("userId").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(string)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).
		First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if course.LaunchURL == "" {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course has no SCORM content!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Launch URL resolved!", fiber.Map{
		"launchUrl": course.LaunchURL,
	})
}

// RecordScormLaunch records a launch telemetry event
func RecordScormLaunch(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := c.Locals("validatedScormLaunch").(*courseValidators.ScormLaunchRequest)

	event := courseModels.ScormEvent{
		UserID:    userID,
		CourseID:  reqData.CourseID,
		EventType: "LAUNCH",
		LaunchURL: reqData.LaunchURL,
	}
	if err := database.Database.Db.Create(&event).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record launch!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Launch recorded!", fiber.Map{
		"success": true,
	})
}

// UpdateScormProgress is the core reconciliation write: it accepts the
// runtime bridge's reported state and persists it onto the enrollment.
func UpdateScormProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := c.Locals("validatedScormProgress").(*courseValidators.ScormProgressRequest)

	enrollment, err := ReconcileProgress(userID, ReconcileInput{
		CourseID:        reqData.CourseID,
		Progress:        reqData.Progress,
		ScormData:       reqData.ScormData,
		Completed:       reqData.Completed,
		CurrentLocation: reqData.CurrentLocation,
		SuspendData:     reqData.SuspendData,
	})
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress saved!", fiber.Map{
		"success":    true,
		"enrollment": enrollment,
	})
}

// RecordScormClose records a close telemetry event
func RecordScormClose(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := c.Locals("validatedScormClose").(*courseValidators.ScormCloseRequest)

	event := courseModels.ScormEvent{
		UserID:    userID,
		CourseID:  reqData.CourseID,
		EventType: "CLOSE",
	}
	if err := database.Database.Db.Create(&event).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record close!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Close recorded!", fiber.Map{
		"success": true,
	})
}

// OpenRTESession creates a runtime bridge session for one player instance,
// seeded from the user's enrollment when there is one (resume).
func OpenRTESession(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData := c.Locals("validatedRTEOpen").(*courseValidators.RTEOpenRequest)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND is_published = ?", reqData.CourseID, false, true).
		First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	seed := scorm.SeedState{ScormData: map[string]string{}}

	var enrollment courseModels.Enrollment
	err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, reqData.CourseID, false).
		First(&enrollment).Error
	if err == nil {
		seed.Progress = enrollment.Progress
		seed.CurrentLocation = enrollment.CurrentLocation
		seed.SuspendData = enrollment.SuspendData
		for k, v := range enrollment.ScormData {
			if s, ok := v.(string); ok {
				seed.ScormData[k] = s
			}
		}
	}

	session := RTEManager.Open(userID, reqData.CourseID, seed)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Session opened!", fiber.Map{
		"sessionId": session.ID,
	})
}

// CallRTESession dispatches one RTE operation from the player adapter to
// the session. Returns the operation's string result per the SCORM calling
// conventions.
func CallRTESession(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	sessionID := c.Params("sessionId")
	reqData := c.Locals("validatedRTECall").(*courseValidators.RTECallRequest)

	session, found := RTEManager.Get(sessionID)
	if !found {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Session not found!", nil)
	}
	if session.UserID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Session belongs to another user!", nil)
	}

	result, known := session.Call(reqData.Op, reqData.Key, reqData.Value)
	if !known {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Unknown RTE operation!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "OK", fiber.Map{
		"result": result,
	})
}

// CloseRTESession tears the session down with one final flush
func CloseRTESession(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	sessionID := c.Params("sessionId")

	session, found := RTEManager.Get(sessionID)
	if !found {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Session not found!", nil)
	}
	if session.UserID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Session belongs to another user!", nil)
	}

	if err := RTEManager.Close(sessionID); err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Session not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Session closed!", fiber.Map{
		"success": true,
	})
}

// TriggerScormSync re-runs the package integration batch on demand
func TriggerScormSync(c *fiber.Ctx) error {
	if ScormIntegrator == nil {
		return middleware.JsonResponse(c, fiber.StatusServiceUnavailable, false, "SCORM integration is not configured!", nil)
	}
	if err := ScormIntegrator.Sync(); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "SCORM sync failed!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "SCORM courses synced!", fiber.Map{
		"success": true,
	})
}
