package catalog

import (
	"os"
	"strings"

	"github.com/cmorgan-dev/go-dict-engine/internal/errors"
	"github.com/cmorgan-dev/go-dict-engine/model"
)

// Icon is a profile's logo image, probed from files next to the
// dictionary file.
type Icon struct {
	Data []byte
	Mime string
}

var iconExtensions = []struct {
	ext  string
	mime string
}{
	{".png", "image/png"},
	{".jpg", "image/jpeg"},
	{".jpeg", "image/jpeg"},
	{".gif", "image/gif"},
	{".bmp", "image/bmp"},
	{".ico", "image/x-icon"},
	{".webp", "image/webp"},
}

// IconForProfile returns the icon for a leaf profile, looking for an image
// file sharing the dictionary file's base name. Results are held in a
// bounded LRU so repeated listings do not re-read the filesystem. Returns
// nil when the profile has no icon.
func (m *Manager) IconForProfile(id model.ProfileID) (*Icon, error) {
	p := m.FindProfile(id)
	if p == nil {
		return nil, errors.NewProfileNotFoundError(id)
	}
	if p.IsGroup() || p.URL == "" {
		return nil, nil
	}
	if icon, ok := m.icons.Get(id); ok {
		return &icon, nil
	}

	dictPath, err := PathForURL(p.URL)
	if err != nil {
		return nil, err
	}
	base := strings.TrimSuffix(dictPath, pathExt(dictPath))
	for _, cand := range iconExtensions {
		data, err := os.ReadFile(base + cand.ext) // #nosec G304 -- derived from catalog urls
		if err != nil {
			continue
		}
		icon := Icon{Data: data, Mime: cand.mime}
		m.icons.Add(id, icon)
		return &icon, nil
	}
	return nil, nil
}

func pathExt(p string) string {
	if i := strings.LastIndexByte(p, '.'); i >= 0 && !strings.ContainsAny(p[i:], "/\\") {
		return p[i:]
	}
	return ""
}
