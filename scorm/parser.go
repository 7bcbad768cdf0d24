package scorm

import (
	"encoding/xml"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// ScormCourse is the parse-time projection of one SCORM package. It is
// produced fresh on every scan and never persisted as its own record.
type ScormCourse struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Version      string `json:"version"`
	LaunchURL    string `json:"launch_url"`
	ManifestPath string `json:"manifest_path"`
	ContentPath  string `json:"content_path"`
	Dir          string `json:"dir"` // package directory name under the root
}

const defaultDescription = "SCORM course content"

// Entry points probed when the manifest's resource has no href
var commonEntryPoints = []string{"index.html", "scormdriver/indexAPI.html", "launch.html"}

var (
	courseIDPattern = regexp.MustCompile(`^s-l-i-z-micro-course-(\d+)`)
	nonIDChars      = regexp.MustCompile(`[^a-z0-9-]`)
	titlePrefix     = regexp.MustCompile(`^s-l-i-z-micro-course-\d+-`)
	titleSuffix     = regexp.MustCompile(`-scorm12-[a-zA-Z0-9]+$`)
)

// imsmanifest.xml structure (IMS Content Packaging)
type manifestXML struct {
	XMLName       xml.Name `xml:"manifest"`
	Version       string   `xml:"version,attr"`
	Organizations struct {
		Organizations []organizationXML `xml:"organization"`
	} `xml:"organizations"`
	Resources struct {
		Resources []resourceXML `xml:"resource"`
	} `xml:"resources"`
}

type organizationXML struct {
	Title string `xml:"title"`
	Items []struct {
		Title string `xml:"title"`
	} `xml:"item"`
}

type resourceXML struct {
	Href string `xml:"href,attr"`
}

// metadata.xml structure (IEEE LOM)
type lomXML struct {
	XMLName xml.Name `xml:"lom"`
	General struct {
		Description struct {
			Langstring string `xml:"langstring"`
		} `xml:"description"`
	} `xml:"general"`
}

// Parser reads SCORM packages laid out as sibling directories under a root
type Parser struct {
	root string
}

func NewParser(root string) *Parser {
	return &Parser{root: root}
}

// ParseAll scans every package directory under the root. A directory without
// a manifest, or with one that fails to parse, is logged and skipped; it
// never aborts the scan.
func (p *Parser) ParseAll() []ScormCourse {
	var courses []ScormCourse

	entries, err := os.ReadDir(p.root)
	if err != nil {
		log.Printf("[SCORM-PARSER] Error reading courses directory %s: %v", p.root, err)
		return courses
	}

	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		course, err := p.ParseCourse(entry.Name())
		if err != nil {
			log.Printf("[SCORM-PARSER] Skipping %s: %v", entry.Name(), err)
			continue
		}
		courses = append(courses, *course)
	}

	return courses
}

// ParseCourse parses a single package directory into a ScormCourse
func (p *Parser) ParseCourse(courseDir string) (*ScormCourse, error) {
	coursePath := filepath.Join(p.root, courseDir)
	manifestPath := filepath.Join(coursePath, "imsmanifest.xml")

	raw, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("no imsmanifest.xml found: %w", err)
	}

	var manifest manifestXML
	if err := xml.Unmarshal(raw, &manifest); err != nil {
		return nil, fmt.Errorf("malformed manifest: %w", err)
	}

	if len(manifest.Organizations.Organizations) == 0 || len(manifest.Resources.Resources) == 0 {
		return nil, fmt.Errorf("invalid manifest structure")
	}

	defaultOrg := manifest.Organizations.Organizations[0]

	version := manifest.Version
	if version == "" {
		version = "1.0"
	}

	return &ScormCourse{
		ID:           GenerateCourseID(courseDir),
		Title:        p.extractTitle(defaultOrg, courseDir),
		Description:  p.extractDescription(coursePath),
		Version:      version,
		LaunchURL:    p.extractLaunchURL(manifest.Resources.Resources, courseDir),
		ManifestPath: manifestPath,
		ContentPath:  coursePath,
		Dir:          courseDir,
	}, nil
}

// extractTitle prefers the default organization's title, then the first
// item's title, then a readable transform of the directory name.
func (p *Parser) extractTitle(org organizationXML, fallbackDir string) string {
	if title := strings.TrimSpace(org.Title); title != "" {
		return title
	}
	if len(org.Items) > 0 {
		if title := strings.TrimSpace(org.Items[0].Title); title != "" {
			return title
		}
	}
	return FormatDirectoryName(fallbackDir)
}

// extractLaunchURL reads the first resource's href; absent that it probes
// the conventional entry points and falls back to index.html.
func (p *Parser) extractLaunchURL(resources []resourceXML, courseDir string) string {
	if href := resources[0].Href; href != "" {
		return "/scorm-courses/" + courseDir + "/" + href
	}

	for _, entryPoint := range commonEntryPoints {
		fullPath := filepath.Join(p.root, courseDir, filepath.FromSlash(entryPoint))
		if _, err := os.Stat(fullPath); err == nil {
			return "/scorm-courses/" + courseDir + "/" + entryPoint
		}
	}

	return "/scorm-courses/" + courseDir + "/index.html"
}

// extractDescription reads the optional metadata.xml LOM description,
// ignoring the authoring tool's "Description" placeholder.
func (p *Parser) extractDescription(coursePath string) string {
	raw, err := os.ReadFile(filepath.Join(coursePath, "metadata.xml"))
	if err != nil {
		return defaultDescription
	}

	var lom lomXML
	if err := xml.Unmarshal(raw, &lom); err != nil {
		log.Printf("[SCORM-PARSER] Error parsing metadata in %s: %v", coursePath, err)
		return defaultDescription
	}

	desc := strings.TrimSpace(lom.General.Description.Langstring)
	if desc == "" || desc == "Description" {
		return defaultDescription
	}
	return desc
}

// GenerateCourseID derives a stable identifier from the package directory
// name: numbered micro-course packages map to scorm-course-N, anything else
// is sanitized into a lowercase hyphenated token.
func GenerateCourseID(courseDir string) string {
	if m := courseIDPattern.FindStringSubmatch(courseDir); m != nil {
		return "scorm-course-" + m[1]
	}
	return nonIDChars.ReplaceAllString(strings.ToLower(courseDir), "-")
}

// FormatDirectoryName converts a package directory name to a readable title
func FormatDirectoryName(dir string) string {
	dir = titlePrefix.ReplaceAllString(dir, "")
	dir = titleSuffix.ReplaceAllString(dir, "")

	words := strings.Split(dir, "-")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
