package controllers

import (
	"github.com/tendai-dev/SLIZ/database"
	"github.com/tendai-dev/SLIZ/middleware"
	courseModels "github.com/tendai-dev/SLIZ/models/course"

	"github.com/gofiber/fiber/v2"
)

// GetStudentDashboard returns the authenticated user's learning stats
func GetStudentDashboard(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	var enrolledCount int64
	db.Model(&courseModels.Enrollment{}).
		Where("user_id = ? AND is_deleted = ?", userID, false).
		Count(&enrolledCount)

	var completedCount int64
	db.Model(&courseModels.Enrollment{}).
		Where("user_id = ? AND is_deleted = ? AND completed_at IS NOT NULL", userID, false).
		Count(&completedCount)

	var badgeCount int64
	db.Model(&courseModels.Badge{}).
		Where("user_id = ? AND is_deleted = ?", userID, false).
		Count(&badgeCount)

	var certificateCount int64
	db.Model(&courseModels.Certificate{}).
		Where("user_id = ? AND is_deleted = ?", userID, false).
		Count(&certificateCount)

	// Average progress across all enrollments
	var avgProgress float64
	db.Model(&courseModels.Enrollment{}).
		Where("user_id = ? AND is_deleted = ?", userID, false).
		Select("COALESCE(AVG(progress), 0)").
		Scan(&avgProgress)

	// Most recently accessed courses
	var recent []courseModels.Enrollment
	db.Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("last_accessed_at desc").Limit(5).Find(&recent)

	type RecentActivity struct {
		courseModels.Enrollment
		Course courseModels.Course `json:"course"`
	}
	recentActivity := make([]RecentActivity, len(recent))
	for i, enrollment := range recent {
		recentActivity[i] = RecentActivity{Enrollment: enrollment}
		db.Where("id = ?", enrollment.CourseID).First(&recentActivity[i].Course)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard stats fetched successfully!", fiber.Map{
		"enrolled_courses":  enrolledCount,
		"completed_courses": completedCount,
		"badges":            badgeCount,
		"certificates":      certificateCount,
		"average_progress":  avgProgress,
		"recent_activity":   recentActivity,
	})
}
