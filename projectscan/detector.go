// Package projectscan is a collaborator (not core): it locates the Go
// project root enclosing a source file and reads its module path, the way
// inspector/repository/detector.go's Detector does for the teacher's own
// coder/info collaborators.
package projectscan

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/viant/afs"
	"golang.org/x/mod/modfile"
)

// Project describes the Go module enclosing a scanned file.
type Project struct {
	RootPath     string
	ModulePath   string
	RelativePath string
}

// Detector finds the nearest go.mod above a file and parses its module path.
type Detector struct {
	fs afs.Service
}

// New builds a Detector backed by afs, mirroring analyzer.Analyzer's own
// afs.New() wiring.
func New() *Detector {
	return &Detector{fs: afs.New()}
}

// DetectProject walks upward from filePath looking for the nearest go.mod,
// the same upward marker search inspector/repository/detector.go performs
// for its broader marker set, narrowed here to the one marker the core's
// collaborator layer actually needs.
func (d *Detector) DetectProject(ctx context.Context, filePath string) (*Project, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return nil, fmt.Errorf("projectscan: detect project: %w", err)
	}

	startDir := absPath
	if info, statErr := os.Stat(absPath); statErr == nil && !info.IsDir() {
		startDir = filepath.Dir(absPath)
	}

	dir := startDir
	for {
		goModPath := filepath.Join(dir, "go.mod")
		if _, statErr := os.Stat(goModPath); statErr == nil {
			modulePath, modErr := d.readModulePath(ctx, goModPath)
			if modErr != nil {
				return nil, modErr
			}
			relPath, relErr := filepath.Rel(dir, absPath)
			if relErr != nil {
				relPath = filepath.Base(absPath)
			}
			return &Project{
				RootPath:     dir,
				ModulePath:   modulePath,
				RelativePath: filepath.ToSlash(relPath),
			}, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return &Project{RootPath: startDir}, nil
}

func (d *Detector) readModulePath(ctx context.Context, goModPath string) (string, error) {
	content, err := d.fs.DownloadWithURL(ctx, goModPath)
	if err != nil {
		return "", fmt.Errorf("projectscan: read go.mod: %w", err)
	}
	mod, err := modfile.Parse(goModPath, content, nil)
	if err != nil {
		return "", fmt.Errorf("projectscan: parse go.mod: %w", err)
	}
	return mod.Module.Mod.Path, nil
}
