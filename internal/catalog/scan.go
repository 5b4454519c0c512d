package catalog

import (
	"io/fs"
	"net/url"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/cmorgan-dev/go-dict-engine/internal/errors"
	"github.com/cmorgan-dev/go-dict-engine/model"
)

// dictFilePattern matches dictionary files (case-insensitive) that do not
// start with a dot.
var dictFilePattern = regexp.MustCompile(`(?i)^[^.].*\.jdx$`)

// URLForPath converts an absolute filesystem path to a file:// url.
func URLForPath(p string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(p)}
	return u.String()
}

// PathForURL converts a file:// url back to a filesystem path.
func PathForURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", errors.NewInvalidParameterError("malformed url %q: %v", raw, err)
	}
	if u.Scheme != "file" || u.Path == "" {
		return "", errors.NewInvalidParameterError("not a file url: %q", raw)
	}
	return filepath.FromSlash(u.Path), nil
}

// FileStem returns the decoded file name of a url without its extension,
// used as the default title of a discovered leaf.
func FileStem(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	base := path.Base(u.Path)
	if decoded, err := url.PathUnescape(base); err == nil {
		base = decoded
	}
	return strings.TrimSuffix(base, path.Ext(base))
}

// ScanDirectories walks the given roots and returns a transient group
// holding one candidate leaf per dictionary file found. Dot-files and
// dot-directories are skipped. Walk order is lexical, so repeated scans of
// an unchanged tree produce the same candidate order.
func (m *Manager) ScanDirectories(roots []string) (*model.Profile, error) {
	scanned := model.NewGroup("Scanned directories", model.DefaultGroupID)
	tempID := model.ProfileID(1000)

	for _, root := range roots {
		if !filepath.IsAbs(root) {
			return nil, errors.NewInvalidParameterError("library root must be absolute: %q", root)
		}
		err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			name := d.Name()
			if d.IsDir() {
				if p != root && strings.HasPrefix(name, ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if !dictFilePattern.MatchString(name) {
				return nil
			}
			leaf := model.NewLeaf("", URLForPath(p), model.InvalidProfileID)
			leaf.Title = FileStem(leaf.URL)
			leaf.Options = m.defaultOptions
			scanned.ReplaceChild(leaf, tempID)
			tempID++
			return nil
		})
		if err != nil {
			return nil, errors.NewInvalidParameterError("failed to scan %q: %v", root, err)
		}
	}
	return scanned, nil
}

// mergeProfilesByURL rebuilds target's children from source's candidate
// list: a candidate whose url already exists in target keeps the existing
// profile untouched, a new url gets a fresh globally unique id, and
// existing children whose url is absent from source are dropped. The
// result order follows the candidate order, which makes the merge
// idempotent and insensitive to previous catalog order.
func mergeProfilesByURL(target, source *model.Profile, nextID *model.ProfileID) {
	if source.Profiles == nil {
		target.Profiles = []*model.Profile{}
		return
	}
	existing := make(map[string]*model.Profile, len(target.Profiles))
	for _, p := range target.Profiles {
		existing[p.URL] = p
	}
	merged := make([]*model.Profile, 0, len(source.Profiles))
	for _, candidate := range source.Profiles {
		if old, ok := existing[candidate.URL]; ok {
			merged = append(merged, old)
			continue
		}
		fresh := candidate.Clone()
		fresh.ProfileID = *nextID
		*nextID++
		merged = append(merged, fresh)
	}
	target.Profiles = merged
}
