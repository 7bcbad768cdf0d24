package controllers

import (
	"encoding/json"
	"log"
	"math"
	"time"

	"github.com/tendai-dev/SLIZ/database"
	"github.com/tendai-dev/SLIZ/middleware"
	"github.com/tendai-dev/SLIZ/models"
	courseModels "github.com/tendai-dev/SLIZ/models/course"
	"github.com/tendai-dev/SLIZ/scorm"
	"github.com/tendai-dev/SLIZ/utils"
	courseValidators "github.com/tendai-dev/SLIZ/validators/course"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PassingScore is the quiz pass mark in percent
const PassingScore = 80

// GetQuizQuestions returns a course's quiz with the correct answers and
// explanations stripped
func GetQuizQuestions(c *fiber.Ctx) error {
	_, ok := c.Locals("userId").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(string)

	var questions []courseModels.QuizQuestion
	if err := database.Database.Db.Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("order_index asc").Find(&questions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quiz questions!", nil)
	}

	type ClientQuestion struct {
		ID       uint            `json:"id"`
		Question string          `json:"question"`
		Options  json.RawMessage `json:"options"`
	}

	result := make([]ClientQuestion, len(questions))
	for i, q := range questions {
		result[i] = ClientQuestion{
			ID:       q.ID,
			Question: q.Question,
			Options:  json.RawMessage(q.Options),
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz questions fetched successfully!", fiber.Map{
		"questions": result,
	})
}

// SubmitQuiz scores a quiz submission and, on a pass, awards the course
// badge, marks the enrollment complete and evaluates certificate
// eligibility.
func SubmitQuiz(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(string)
	reqData := c.Locals("validatedQuizSubmit").(*courseValidators.QuizSubmitRequest)

	var questions []courseModels.QuizQuestion
	if err := database.Database.Db.Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("order_index asc").Find(&questions).Error; err != nil || len(questions) == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No quiz found for this course!", nil)
	}

	// Score: one selected option index per question, in question order
	correctAnswers := 0
	for i, answer := range reqData.Answers {
		if i < len(questions) && answer == questions[i].CorrectAnswer {
			correctAnswers++
		}
	}
	score := int(math.Round(float64(correctAnswers) / float64(len(questions)) * 100))
	passed := score >= PassingScore

	answersJSON, _ := json.Marshal(reqData.Answers)
	attempt := courseModels.QuizAttempt{
		UserID:    userID,
		CourseID:  courseID,
		Answers:   answersJSON,
		Score:     score,
		Passed:    passed,
		TimeSpent: reqData.TimeSpent,
	}
	if err := database.Database.Db.Create(&attempt).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit quiz!", nil)
	}

	var certificate *courseModels.Certificate
	if passed {
		awardBadge(userID, courseID, attempt.ID)

		// A passed quiz completes the course
		if _, err := ReconcileProgress(userID, ReconcileInput{CourseID: courseID, Progress: 100}); err != nil {
			log.Printf("[QUIZ] Error updating progress for %s: %v", userID, err)
		}

		certificate = maybeIssueCertificate(userID)
	}

	type Explanation struct {
		Question      string `json:"question"`
		CorrectAnswer int    `json:"correctAnswer"`
		Explanation   string `json:"explanation"`
	}
	explanations := make([]Explanation, len(questions))
	for i, q := range questions {
		explanations[i] = Explanation{
			Question:      q.Question,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz submitted!", fiber.Map{
		"score":             score,
		"passed":            passed,
		"correctAnswers":    correctAnswers,
		"totalQuestions":    len(questions),
		"explanations":      explanations,
		"badgeEarned":       passed,
		"certificateEarned": certificate != nil,
		"certificate":       certificate,
	})
}

// GetQuizAttempts lists the authenticated user's quiz attempts
func GetQuizAttempts(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var attempts []courseModels.QuizAttempt
	if err := database.Database.Db.Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("created_at desc").Find(&attempts).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quiz attempts!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz attempts fetched successfully!", fiber.Map{
		"attempts": attempts,
	})
}

// GetUserBadges lists the authenticated user's badges with display metadata
func GetUserBadges(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var badges []courseModels.Badge
	if err := database.Database.Db.Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("earned_at desc").Find(&badges).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch badges!", nil)
	}

	type BadgeWithMetadata struct {
		courseModels.Badge
		Name        string `json:"name"`
		Description string `json:"description"`
		ImageURL    string `json:"image_url"`
		Issuer      string `json:"issuer"`
	}

	result := make([]BadgeWithMetadata, len(badges))
	for i, badge := range badges {
		result[i] = BadgeWithMetadata{
			Badge:       badge,
			Name:        badgeName(badge.BadgeID),
			Description: badgeDescription(badge.BadgeID),
			ImageURL:    "/badges/sliz-badge.png",
			Issuer:      "SLIZ",
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Badges fetched successfully!", fiber.Map{
		"badges": result,
	})
}

// GetUserCertificates lists the authenticated user's certificates
func GetUserCertificates(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(string)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var certificates []courseModels.Certificate
	if err := database.Database.Db.Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("issued_at desc").Find(&certificates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", fiber.Map{
		"certificates": certificates,
	})
}

// awardBadge creates the course badge for a passed attempt, once
func awardBadge(userID, courseID string, attemptID uint) {
	var existing courseModels.Badge
	err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).
		First(&existing).Error
	if err == nil {
		return
	}
	if err != gorm.ErrRecordNotFound {
		log.Printf("[QUIZ] Error checking badge for %s: %v", userID, err)
		return
	}

	badge := courseModels.Badge{
		UserID:        userID,
		CourseID:      courseID,
		BadgeID:       "badge_" + courseID,
		QuizAttemptID: attemptID,
		EarnedAt:      time.Now(),
	}
	if err := database.Database.Db.Create(&badge).Error; err != nil {
		log.Printf("[QUIZ] Error awarding badge for %s: %v", userID, err)
	}
}

// maybeIssueCertificate issues the programme certificate when every
// published SCORM course has an earned badge. Returns nil when the user is
// not yet eligible or already holds one.
func maybeIssueCertificate(userID string) *courseModels.Certificate {
	db := database.Database.Db

	var courseCount int64
	db.Model(&courseModels.Course{}).
		Where("category_id = ? AND is_deleted = ? AND is_published = ?", scorm.ScormCategoryID, false, true).
		Count(&courseCount)

	// Only badges earned on SCORM-category courses count toward the
	// programme certificate; quizzes on other courses award badges too.
	var badgeCount int64
	db.Model(&courseModels.Badge{}).
		Joins("JOIN courses ON courses.id = badges.course_id").
		Distinct("badges.course_id").
		Where("badges.user_id = ? AND badges.is_deleted = ? AND courses.category_id = ? AND courses.is_deleted = ? AND courses.is_published = ?",
			userID, false, scorm.ScormCategoryID, false, true).
		Count(&badgeCount)

	if courseCount == 0 || badgeCount < courseCount {
		return nil
	}

	var existing courseModels.Certificate
	if err := db.Where("user_id = ? AND is_deleted = ?", userID, false).First(&existing).Error; err == nil {
		return nil
	}

	number := uuid.NewString()
	certificate := courseModels.Certificate{
		UserID:            userID,
		CertificateNumber: number,
		CertificateURL:    "/certificates/" + number + ".pdf",
		IssuedAt:          time.Now(),
	}
	if err := db.Create(&certificate).Error; err != nil {
		log.Printf("[QUIZ] Error issuing certificate for %s: %v", userID, err)
		return nil
	}
	log.Printf("[QUIZ] Certificate issued for %s: %s", userID, number)

	// Notify asynchronously; issuance does not wait on the mail server
	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err == nil && user.Email != "" {
		go func(email, number string) {
			if err := utils.SendCertificateEmail(email, number); err != nil {
				log.Printf("[QUIZ] Error sending certificate email: %v", err)
			}
		}(user.Email, number)
	}

	return &certificate
}

// badgeName maps a badge ID to its display name
func badgeName(badgeID string) string {
	names := map[string]string{
		"badge_scorm-course-1": "Sport Facility and Event Management Badge",
		"badge_scorm-course-2": "Basic Finance Management Badge",
		"badge_scorm-course-3": "Sport Marketing Badge",
		"badge_scorm-course-4": "Management of Sport Organizations Badge",
	}
	if name, ok := names[badgeID]; ok {
		return name
	}
	return "Course Badge"
}

// badgeDescription maps a badge ID to its display description
func badgeDescription(badgeID string) string {
	descriptions := map[string]string{
		"badge_scorm-course-1": "Completed Sport Facility and Event Management course with 80%+ score",
		"badge_scorm-course-2": "Completed Basic Finance Management course with 80%+ score",
		"badge_scorm-course-3": "Completed Sport Marketing course with 80%+ score",
		"badge_scorm-course-4": "Completed Management of Sport Organizations course with 80%+ score",
	}
	if description, ok := descriptions[badgeID]; ok {
		return description
	}
	return "Course completion badge"
}
