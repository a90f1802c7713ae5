package store

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strconv"

	"rail_announcer/internal/models"
)

// Files lays out audio clips under a root directory and names the public
// references they are served at.
//
//	{root}/routes/{route_id}/{field}_{lang}.wav
//	{root}/templates/{category}/part_{index}_{lang}.wav
type Files struct {
	root   string
	prefix string
}

// NewFiles serves files under root at the URL path prefix, e.g. "/audio".
func NewFiles(root, publicPrefix string) *Files {
	if publicPrefix == "" {
		publicPrefix = "/audio"
	}
	return &Files{root: root, prefix: path.Clean("/" + publicPrefix)}
}

// Root is the directory clips are written under.
func (f *Files) Root() string { return f.root }

// Prefix is the URL path the root is served at.
func (f *Files) Prefix() string { return f.prefix }

var unsafeSegment = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

func segment(s string) string {
	if s = unsafeSegment.ReplaceAllString(s, "_"); s == "" {
		return "_"
	}
	return s
}

func (f *Files) routeDir(routeID uint) string {
	return filepath.Join(f.root, "routes", strconv.FormatUint(uint64(routeID), 10))
}

func (f *Files) templateDir(category string) string {
	return filepath.Join(f.root, "templates", segment(category))
}

// RouteClip returns the file path and public reference for a route field clip.
func (f *Files) RouteClip(routeID uint, field models.Field, lang string) (file, ref string) {
	name := fmt.Sprintf("%s_%s.wav", field, segment(lang))
	id := strconv.FormatUint(uint64(routeID), 10)
	return filepath.Join(f.routeDir(routeID), name), path.Join(f.prefix, "routes", id, name)
}

// TemplateClip returns the file path and public reference for a template part clip.
func (f *Files) TemplateClip(category string, index int, lang string) (file, ref string) {
	name := fmt.Sprintf("part_%d_%s.wav", index, segment(lang))
	return filepath.Join(f.templateDir(category), name), path.Join(f.prefix, "templates", segment(category), name)
}

// Write stores data at file through a temp file and rename, so readers
// never see a partial clip.
func (f *Files) Write(file string, data []byte) error {
	staged, err := f.Stage(file, data)
	if err != nil {
		return err
	}
	return f.Promote(staged, file)
}

// Stage writes data to a hidden temp file next to file and returns its
// path. The clip only becomes visible once Promote renames it. A target
// that exists and is not a regular file is refused.
func (f *Files) Stage(file string, data []byte) (string, error) {
	if fi, err := os.Lstat(file); err == nil && !fi.Mode().IsRegular() {
		return "", fmt.Errorf("cannot replace %s: not a regular file", file)
	}

	dir := filepath.Dir(file)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create audio dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".clip-*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("write %s: %w", file, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("close %s: %w", file, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("chmod %s: %w", file, err)
	}
	return tmpName, nil
}

// Promote moves a staged clip over file.
func (f *Files) Promote(staged, file string) error {
	if err := os.Rename(staged, file); err != nil {
		os.Remove(staged)
		return fmt.Errorf("rename %s: %w", file, err)
	}
	return nil
}

// Discard removes a staged clip that will not be promoted.
func (f *Files) Discard(staged string) {
	os.Remove(staged)
}

// removeMatching deletes files in dir matching the glob pattern, except
// those listed in keep.
func removeMatching(dir, pattern string, keep map[string]bool) error {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return err
	}
	for _, m := range matches {
		if keep[m] {
			continue
		}
		if err := os.Remove(m); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s: %w", m, err)
		}
	}
	return nil
}

// RemoveRoute deletes the clip directory of a route.
func (f *Files) RemoveRoute(routeID uint) error {
	return os.RemoveAll(f.routeDir(routeID))
}

// RemoveAllRoutes deletes every route clip.
func (f *Files) RemoveAllRoutes() error {
	return os.RemoveAll(filepath.Join(f.root, "routes"))
}

// PruneTemplateLanguage deletes the part clips of one template language
// other than the files in keep.
func (f *Files) PruneTemplateLanguage(category, lang string, keep map[string]bool) error {
	return removeMatching(f.templateDir(category), "part_*_"+segment(lang)+".wav", keep)
}

// RemoveTemplate deletes the clip directory of a template category.
func (f *Files) RemoveTemplate(category string) error {
	return os.RemoveAll(f.templateDir(category))
}

// RemoveAllTemplates deletes every template clip.
func (f *Files) RemoveAllTemplates() error {
	return os.RemoveAll(filepath.Join(f.root, "templates"))
}
