package scorm

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleManifest = `<?xml version="1.0" encoding="UTF-8"?>
<manifest identifier="com.sliz.course3" version="1.2"
  xmlns="http://www.imsproject.org/xml/ns/imscp1p1p2">
  <organizations default="ORG-1">
    <organization identifier="ORG-1">
      <title>Sport Marketing</title>
      <item identifier="ITEM-1" identifierref="RES-1">
        <title>Sport Marketing Module</title>
      </item>
    </organization>
  </organizations>
  <resources>
    <resource identifier="RES-1" type="webcontent" adlcp:scormtype="sco"
      href="scormcontent/index.html" xmlns:adlcp="http://www.adlnet.org/xsd/adlcp_rootv1p2"/>
  </resources>
</manifest>`

func writePackage(t *testing.T, root, dir, manifest string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(root, dir), 0o755))
	if manifest != "" {
		require.NoError(t, os.WriteFile(filepath.Join(root, dir, "imsmanifest.xml"), []byte(manifest), 0o644))
	}
}

func TestGenerateCourseID(t *testing.T) {
	tests := []struct {
		dir  string
		want string
	}{
		{"s-l-i-z-micro-course-3-sport-marketing-scorm12-LpQGKIfD", "scorm-course-3"},
		{"s-l-i-z-micro-course-12-finance-scorm12-AbCd1234", "scorm-course-12"},
		{"My Custom Course!", "my-custom-course-"},
		{"already-clean", "already-clean"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GenerateCourseID(tt.dir), "dir %q", tt.dir)
	}
}

func TestGenerateCourseIDStable(t *testing.T) {
	dir := "s-l-i-z-micro-course-3-sport-marketing-scorm12-LpQGKIfD"
	first := GenerateCourseID(dir)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, GenerateCourseID(dir))
	}
}

func TestFormatDirectoryName(t *testing.T) {
	got := FormatDirectoryName("s-l-i-z-micro-course-3-sport-marketing-scorm12-LpQGKIfD")
	assert.Equal(t, "Sport Marketing", got)

	got = FormatDirectoryName("basic-finance")
	assert.Equal(t, "Basic Finance", got)
}

func TestParseCourse(t *testing.T) {
	root := t.TempDir()
	dir := "s-l-i-z-micro-course-3-sport-marketing-scorm12-LpQGKIfD"
	writePackage(t, root, dir, sampleManifest)

	course, err := NewParser(root).ParseCourse(dir)
	require.NoError(t, err)

	assert.Equal(t, "scorm-course-3", course.ID)
	assert.Equal(t, "Sport Marketing", course.Title)
	assert.Equal(t, "1.2", course.Version)
	assert.Equal(t, "/scorm-courses/"+dir+"/scormcontent/index.html", course.LaunchURL)
	assert.Equal(t, defaultDescription, course.Description)
	assert.Equal(t, filepath.Join(root, dir, "imsmanifest.xml"), course.ManifestPath)
}

func TestParseCourseTitleFallsBackToItem(t *testing.T) {
	manifest := `<?xml version="1.0"?>
<manifest version="1.2">
  <organizations>
    <organization>
      <title></title>
      <item><title>Item Title</title></item>
    </organization>
  </organizations>
  <resources>
    <resource href="index.html"/>
  </resources>
</manifest>`

	root := t.TempDir()
	writePackage(t, root, "pkg", manifest)

	course, err := NewParser(root).ParseCourse("pkg")
	require.NoError(t, err)
	assert.Equal(t, "Item Title", course.Title)
}

func TestParseCourseTitleFallsBackToDirectoryName(t *testing.T) {
	manifest := `<?xml version="1.0"?>
<manifest>
  <organizations>
    <organization/>
  </organizations>
  <resources>
    <resource href="index.html"/>
  </resources>
</manifest>`

	root := t.TempDir()
	writePackage(t, root, "sport-leadership-basics", manifest)

	course, err := NewParser(root).ParseCourse("sport-leadership-basics")
	require.NoError(t, err)
	assert.Equal(t, "Sport Leadership Basics", course.Title)
	assert.Equal(t, "1.0", course.Version) // no version attribute
}

func TestLaunchURLProbesEntryPoints(t *testing.T) {
	manifest := `<?xml version="1.0"?>
<manifest>
  <organizations><organization><title>T</title></organization></organizations>
  <resources><resource/></resources>
</manifest>`

	root := t.TempDir()
	writePackage(t, root, "pkg", manifest)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "pkg", "scormdriver"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "pkg", "scormdriver", "indexAPI.html"), []byte("<html/>"), 0o644))

	course, err := NewParser(root).ParseCourse("pkg")
	require.NoError(t, err)
	assert.Equal(t, "/scorm-courses/pkg/scormdriver/indexAPI.html", course.LaunchURL)
}

func TestLaunchURLDefaultsToIndex(t *testing.T) {
	manifest := `<?xml version="1.0"?>
<manifest>
  <organizations><organization><title>T</title></organization></organizations>
  <resources><resource/></resources>
</manifest>`

	root := t.TempDir()
	writePackage(t, root, "pkg", manifest)

	course, err := NewParser(root).ParseCourse("pkg")
	require.NoError(t, err)
	assert.Equal(t, "/scorm-courses/pkg/index.html", course.LaunchURL)
}

func TestDescriptionFromMetadata(t *testing.T) {
	root := t.TempDir()
	writePackage(t, root, "pkg", sampleManifest)

	metadata := `<?xml version="1.0"?>
<lom>
  <general>
    <description><langstring>Marketing fundamentals for sport leaders</langstring></description>
  </general>
</lom>`
	require.NoError(t, os.WriteFile(filepath.Join(root, "pkg", "metadata.xml"), []byte(metadata), 0o644))

	course, err := NewParser(root).ParseCourse("pkg")
	require.NoError(t, err)
	assert.Equal(t, "Marketing fundamentals for sport leaders", course.Description)
}

func TestDescriptionIgnoresPlaceholder(t *testing.T) {
	root := t.TempDir()
	writePackage(t, root, "pkg", sampleManifest)

	metadata := `<?xml version="1.0"?>
<lom><general><description><langstring>Description</langstring></description></general></lom>`
	require.NoError(t, os.WriteFile(filepath.Join(root, "pkg", "metadata.xml"), []byte(metadata), 0o644))

	course, err := NewParser(root).ParseCourse("pkg")
	require.NoError(t, err)
	assert.Equal(t, defaultDescription, course.Description)
}

func TestParseAllSkipsBrokenPackages(t *testing.T) {
	root := t.TempDir()
	writePackage(t, root, "good", sampleManifest)
	writePackage(t, root, "no-manifest", "")
	writePackage(t, root, "malformed", "<manifest><organizations>")
	writePackage(t, root, ".hidden", sampleManifest)

	courses := NewParser(root).ParseAll()
	require.Len(t, courses, 1)
	assert.Equal(t, "good", courses[0].Dir)
}

func TestParseAllMissingRoot(t *testing.T) {
	courses := NewParser(filepath.Join(t.TempDir(), "does-not-exist")).ParseAll()
	assert.Empty(t, courses)
}
