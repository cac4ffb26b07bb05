// Package walker enumerates city and plan directories of a scraped source tree.
package walker

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// PlanDetailsFile marks a directory as a plan directory.
const PlanDetailsFile = "plan_details.json"

// Dir is one enumerated directory.
type Dir struct {
	Name string
	Path string
}

// DetailsPath returns the plan_details.json path inside a plan directory.
func (d Dir) DetailsPath() string {
	return filepath.Join(d.Path, PlanDetailsFile)
}

// ListCities returns the immediate, non-hidden subdirectories of root.
func ListCities(root string) ([]Dir, error) {
	cities, err := ListDirs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to list source directory: %w", err)
	}
	return cities, nil
}

// ListDirs returns the immediate, non-hidden subdirectories of dir in name order.
func ListDirs(dir string) ([]Dir, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var dirs []Dir
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if !isDir(path, e) {
			continue
		}
		dirs = append(dirs, Dir{Name: e.Name(), Path: path})
	}
	return dirs, nil
}

// ListPlans returns the immediate subdirectories of cityDir holding a
// plan_details.json file. Other entries are skipped.
func ListPlans(cityDir string) ([]Dir, error) {
	entries, err := os.ReadDir(cityDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list city directory: %w", err)
	}

	var plans []Dir
	for _, e := range entries {
		path := filepath.Join(cityDir, e.Name())
		if !isDir(path, e) {
			continue
		}
		d := Dir{Name: e.Name(), Path: path}
		if !IsPlanDir(d.Path) {
			continue
		}
		plans = append(plans, d)
	}
	return plans, nil
}

// IsPlanDir reports whether dir contains a plan_details.json file.
func IsPlanDir(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, PlanDetailsFile))
	return err == nil && !info.IsDir()
}

// isDir follows symlinks the way a directory listing consumer expects.
func isDir(path string, e fs.DirEntry) bool {
	if e.Type()&fs.ModeSymlink == 0 {
		return e.IsDir()
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
