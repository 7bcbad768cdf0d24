package scorm

import (
	"fmt"
	"log"
	"time"

	courseModels "github.com/tendai-dev/SLIZ/models/course"

	"gorm.io/gorm"
)

const (
	// SystemInstructorID owns every SCORM-derived course
	SystemInstructorID = "system"
	// ScormCategoryID is the fixed catalog bucket for SCORM packages
	ScormCategoryID = "scorm-courses"
)

// Thumbnail filenames probed relative to the package. Existence is not
// verified; the first candidate is used as-is and the UI falls back when the
// file 404s.
var commonThumbnails = []string{
	"thumbnail.jpg", "thumbnail.png", "cover.jpg", "cover.png",
	"assets/thumbnail.jpg", "assets/cover.jpg", "scormcontent/assets/cover.jpg",
}

// Integrator projects parsed SCORM packages into Course/Module/Lesson
// records, idempotently: fixed derived IDs mean a re-run updates in place
// and never duplicates.
type Integrator struct {
	parser *Parser
	db     *gorm.DB
}

func NewIntegrator(root string, db *gorm.DB) *Integrator {
	return &Integrator{
		parser: NewParser(root),
		db:     db,
	}
}

// Sync parses every package under the root and upserts each one. A single
// course's failure is logged and skipped; it does not abort the batch.
func (i *Integrator) Sync() error {
	log.Println("[SCORM-SYNC] Initializing SCORM courses...")

	if err := i.ensureCategory(); err != nil {
		return fmt.Errorf("ensure scorm category: %w", err)
	}

	courses := i.parser.ParseAll()
	integrated := 0
	for _, sc := range courses {
		if err := i.Integrate(sc); err != nil {
			log.Printf("[SCORM-SYNC] Error integrating course %s: %v", sc.Title, err)
			continue
		}
		integrated++
	}

	log.Printf("[SCORM-SYNC] Successfully integrated %d SCORM courses", integrated)
	return nil
}

// Integrate ensures a matching Course/Module/Lesson trio exists for one
// parsed package and is current.
func (i *Integrator) Integrate(sc ScormCourse) error {
	var existing courseModels.Course
	err := i.db.Where("id = ?", sc.ID).First(&existing).Error
	switch {
	case err == gorm.ErrRecordNotFound:
		log.Printf("[SCORM-SYNC] Creating new SCORM course: %s", sc.Title)
		return i.createCourse(sc)
	case err != nil:
		return err
	default:
		log.Printf("[SCORM-SYNC] SCORM course %s already exists, updating...", sc.Title)
		return i.updateCourse(sc)
	}
}

// ensureCategory creates the fixed SCORM catalog bucket once
func (i *Integrator) ensureCategory() error {
	var category courseModels.Category
	err := i.db.Where("id = ?", ScormCategoryID).First(&category).Error
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}
	return i.db.Create(&courseModels.Category{
		ID:          ScormCategoryID,
		Name:        "SCORM Courses",
		Description: "Interactive SCORM-based learning modules from the Sports Leaders Institute of Zimbabwe",
	}).Error
}

func (i *Integrator) createCourse(sc ScormCourse) error {
	course := courseModels.Course{
		ID:           sc.ID,
		Title:        sc.Title,
		Description:  sc.Description,
		ImageURL:     i.courseThumbnail(sc),
		InstructorID: SystemInstructorID,
		CategoryID:   ScormCategoryID,
		LaunchURL:    sc.LaunchURL,
		IsPublished:  true,
	}
	if err := i.db.Create(&course).Error; err != nil {
		return err
	}

	module := courseModels.Module{
		ID:          sc.ID + "-module-1",
		CourseID:    course.ID,
		Title:       sc.Title,
		Description: "Interactive SCORM content",
		OrderIndex:  1,
	}
	if err := i.db.Create(&module).Error; err != nil {
		return err
	}

	lesson := courseModels.Lesson{
		ID:         sc.ID + "-lesson-1",
		ModuleID:   module.ID,
		Title:      sc.Title,
		Content:    i.lessonContent(sc),
		OrderIndex: 1,
		// SCORM courses don't have a predefined duration
	}
	return i.db.Create(&lesson).Error
}

func (i *Integrator) updateCourse(sc ScormCourse) error {
	err := i.db.Model(&courseModels.Course{}).Where("id = ?", sc.ID).Updates(map[string]interface{}{
		"title":        sc.Title,
		"description":  sc.Description,
		"image_url":    i.courseThumbnail(sc),
		"launch_url":   sc.LaunchURL,
		"is_published": true,
		"updated_at":   time.Now(),
	}).Error
	if err != nil {
		return err
	}

	// Refresh the first lesson's embed payload to match the re-parsed manifest
	return i.db.Model(&courseModels.Lesson{}).Where("id = ?", sc.ID+"-lesson-1").Updates(map[string]interface{}{
		"title":   sc.Title,
		"content": i.lessonContent(sc),
	}).Error
}

// lessonContent generates the embed payload for the SCORM-derived lesson:
// the player container, the sandboxed iframe and the runtime bridge adapter
// that exposes window.API / window.API_1484_11 to the embedded content while
// the player is open.
func (i *Integrator) lessonContent(sc ScormCourse) string {
	return fmt.Sprintf(`
<div class="scorm-lesson-container" data-course-id="%[1]s">
  <div class="scorm-info">
    <h3>Interactive Learning Module</h3>
    <p>%[2]s</p>
    <p><strong>Version:</strong> %[3]s</p>
  </div>

  <div class="scorm-launch-section">
    <button class="scorm-launch-btn" onclick="launchScormContent('%[4]s', '%[1]s')">
      Launch Interactive Content
    </button>
  </div>

  <div id="scorm-player-%[1]s" class="scorm-player-container" style="display: none;">
    <div class="scorm-player-header">
      <h4>%[5]s</h4>
      <button onclick="closeScormPlayer('%[1]s')">Close</button>
    </div>
    <iframe id="scorm-iframe-%[1]s" src="" width="100%%" height="600px" frameborder="0"
      sandbox="allow-scripts allow-same-origin allow-forms allow-popups allow-modals"
      allowfullscreen></iframe>
  </div>
</div>

<script>
  var scormSessionId = null;

  function authHeader() {
    return 'Bearer ' + (localStorage.getItem('token') || '');
  }

  function rteCall(op, key, value) {
    if (!scormSessionId) return '';
    // The RTE contract is synchronous call-and-return, so the adapter uses a
    // blocking request on the hosting page, outside the content sandbox.
    var xhr = new XMLHttpRequest();
    xhr.open('POST', '/api/scorm/rte/' + scormSessionId, false);
    xhr.setRequestHeader('Content-Type', 'application/json');
    xhr.setRequestHeader('Authorization', authHeader());
    xhr.send(JSON.stringify({ op: op, key: key || '', value: value || '' }));
    if (xhr.status !== 200) return '';
    return JSON.parse(xhr.responseText).data.result;
  }

  function bindScormAPI() {
    var api = {
      LMSInitialize: function () { return rteCall('LMSInitialize'); },
      LMSFinish: function () { return rteCall('LMSFinish'); },
      LMSGetValue: function (key) { return rteCall('LMSGetValue', key); },
      LMSSetValue: function (key, value) { return rteCall('LMSSetValue', key, value); },
      LMSCommit: function () { return rteCall('LMSCommit'); },
      LMSGetLastError: function () { return rteCall('LMSGetLastError'); },
      LMSGetErrorString: function (code) { return rteCall('LMSGetErrorString', code); },
      LMSGetDiagnostic: function (code) { return rteCall('LMSGetDiagnostic', code); },
      Initialize: function () { return rteCall('Initialize'); },
      Terminate: function () { return rteCall('Terminate'); },
      GetValue: function (key) { return rteCall('GetValue', key); },
      SetValue: function (key, value) { return rteCall('SetValue', key, value); },
      Commit: function () { return rteCall('Commit'); },
      GetLastError: function () { return rteCall('GetLastError'); },
      GetErrorString: function (code) { return rteCall('GetErrorString', code); },
      GetDiagnostic: function (code) { return rteCall('GetDiagnostic', code); }
    };
    window.API = api;          // SCORM 1.2 global
    window.API_1484_11 = api;  // SCORM 2004 global, same object
  }

  function unbindScormAPI() {
    delete window.API;
    delete window.API_1484_11;
  }

  function launchScormContent(launchUrl, courseId) {
    fetch('/api/scorm/rte/open', {
      method: 'POST',
      headers: { 'Content-Type': 'application/json', 'Authorization': authHeader() },
      body: JSON.stringify({ courseId: courseId })
    })
      .then(function (res) { return res.json(); })
      .then(function (body) {
        scormSessionId = body.data.sessionId;
        bindScormAPI();

        var playerContainer = document.getElementById('scorm-player-' + courseId);
        var iframe = document.getElementById('scorm-iframe-' + courseId);
        iframe.src = launchUrl;
        playerContainer.style.display = 'block';
        playerContainer.scrollIntoView({ behavior: 'smooth' });

        // Track course launch
        fetch('/api/scorm/launch', {
          method: 'POST',
          headers: { 'Content-Type': 'application/json', 'Authorization': authHeader() },
          body: JSON.stringify({ courseId: courseId, launchUrl: launchUrl })
        });
      });
  }

  function closeScormPlayer(courseId) {
    var playerContainer = document.getElementById('scorm-player-' + courseId);
    var iframe = document.getElementById('scorm-iframe-' + courseId);
    playerContainer.style.display = 'none';
    iframe.src = '';

    if (scormSessionId) {
      // Closing always triggers one last flush server-side
      fetch('/api/scorm/rte/' + scormSessionId + '/close', {
        method: 'POST',
        headers: { 'Authorization': authHeader() }
      });
      scormSessionId = null;
    }
    unbindScormAPI();

    // Track course close
    fetch('/api/scorm/close', {
      method: 'POST',
      headers: { 'Content-Type': 'application/json', 'Authorization': authHeader() },
      body: JSON.stringify({ courseId: courseId })
    });
  }
</script>
`, sc.ID, sc.Description, sc.Version, sc.LaunchURL, sc.Title)
}

// courseThumbnail returns the conventional thumbnail URL for a package. The
// candidate list is probed in name only; no existence check is made.
func (i *Integrator) courseThumbnail(sc ScormCourse) string {
	// First candidate wins; the client falls back to a placeholder on 404
	return "/scorm-courses/" + sc.Dir + "/" + commonThumbnails[0]
}
