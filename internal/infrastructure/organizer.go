package infrastructure

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/yourusername/mediagrab/internal/domain"
)

// filesystemIllegal lists characters replaced with '_' in path components
// and filenames. The set covers Windows restrictions so downloads stay
// portable across mounts and OSes.
const filesystemIllegal = `<>:"/\|?*`

// SanitizeName replaces filesystem-illegal characters in a single path
// component with underscores.
func SanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(filesystemIllegal, r) {
			return '_'
		}
		return r
	}, name)
}

// CreatorOrganizer derives the platform/creator output hierarchy.
type CreatorOrganizer struct {
	logger *zap.Logger
}

// NewCreatorOrganizer creates a new organizer
func NewCreatorOrganizer(logger *zap.Logger) *CreatorOrganizer {
	return &CreatorOrganizer{logger: logger}
}

// Organize composes baseDir/platform/creator, creating missing directories.
// Empty components default to "Unknown". If directory creation fails the
// base directory is returned unchanged so the job can still land somewhere
// instead of aborting.
func (o *CreatorOrganizer) Organize(baseDir, creator, platform string) string {
	if platform == "" {
		platform = domain.UnknownCreator
	}
	if creator == "" {
		creator = domain.UnknownCreator
	}

	target := filepath.Join(baseDir, SanitizeName(platform), SanitizeName(creator))
	if err := os.MkdirAll(target, 0755); err != nil {
		if o.logger != nil {
			o.logger.Warn("Failed to create organized directory, falling back to base",
				zap.String("target", target),
				zap.Error(err))
		}
		return baseDir
	}
	return target
}
