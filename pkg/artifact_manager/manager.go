package artifact_manager

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dtnitsch/planning-repo/models"
	"github.com/dtnitsch/planning-repo/pkg/city"
	"github.com/dtnitsch/planning-repo/pkg/storage"
)

const (
	CitiesDir   = "cities"
	PlansDir    = "plans"
	MetadataDir = "metadata"

	DocumentsDir = "documents" // raw documents
	ExtractedDir = "extracted" // extracted content
	AnalysisDir  = "analysis"  // analysis output

	PlanMetadataFile = "plan_metadata.json"
	PlanReadmeFile   = "README.md"
	CityMetadataFile = "city_metadata.json"
	MasterIndexFile  = "plans_master_index.json"
)

// planSubdirs are created under every plan directory.
var planSubdirs = []string{DocumentsDir, ExtractedDir, AnalysisDir}

// GetCityDir returns the target directory for a city display name.
// Example: out/cities/תל-אביב
func GetCityDir(baseDir, cityName string) string {
	return filepath.Join(baseDir, CitiesDir, city.NormalizeName(cityName))
}

// GetPlanDir returns the target directory for a plan inside a city directory.
// Example: out/cities/תל-אביב/plans/552-0137539
func GetPlanDir(cityDir, planDirName string) string {
	return filepath.Join(cityDir, PlansDir, planDirName)
}

// GetMetadataDir returns the repository-wide metadata directory.
func GetMetadataDir(baseDir string) string {
	return filepath.Join(baseDir, MetadataDir)
}

// Manager writes artifacts into the target repository tree.
// Writes overwrite; nothing is ever removed.
type Manager struct {
	baseDir string
	store   *storage.Storage
}

// NewManager creates a Manager rooted at baseDir.
func NewManager(baseDir string) (*Manager, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("target directory is required")
	}
	return &Manager{baseDir: baseDir, store: &storage.Storage{}}, nil
}

// BaseDir returns the target root.
func (m *Manager) BaseDir() string {
	return m.baseDir
}

// EnsureCityDir creates the target directory for a city.
func (m *Manager) EnsureCityDir(cityName string) (string, error) {
	dir := GetCityDir(m.baseDir, cityName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create city directory: %w", err)
	}
	return dir, nil
}

// EnsurePlanDir creates a plan directory and its fixed subdirectories.
func (m *Manager) EnsurePlanDir(cityDir, planDirName string) (string, error) {
	dir := GetPlanDir(cityDir, planDirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create plan directory: %w", err)
	}
	for _, sub := range planSubdirs {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0755); err != nil {
			return "", fmt.Errorf("failed to create %s directory: %w", sub, err)
		}
	}
	return dir, nil
}

// SetPlanMetadata writes plan_metadata.json into planDir.
func (m *Manager) SetPlanMetadata(planDir string, md *models.PlanMetadata) error {
	if err := m.store.SaveJSON(filepath.Join(planDir, PlanMetadataFile), md); err != nil {
		return fmt.Errorf("failed to write plan metadata: %w", err)
	}
	return nil
}

// SetPlanReadme writes README.md into planDir.
func (m *Manager) SetPlanReadme(planDir, content string) error {
	if err := m.store.SaveFile(filepath.Join(planDir, PlanReadmeFile), []byte(content)); err != nil {
		return fmt.Errorf("failed to write plan README: %w", err)
	}
	return nil
}

// SetCityMetadata writes city_metadata.json into cityDir.
func (m *Manager) SetCityMetadata(cityDir string, md *models.CityMetadata) error {
	if err := m.store.SaveJSON(filepath.Join(cityDir, CityMetadataFile), md); err != nil {
		return fmt.Errorf("failed to write city metadata: %w", err)
	}
	return nil
}

// GetPlanMetadata reads plan_metadata.json back from planDir.
func (m *Manager) GetPlanMetadata(planDir string) (*models.PlanMetadata, error) {
	var md models.PlanMetadata
	if err := m.store.ReadJSON(filepath.Join(planDir, PlanMetadataFile), &md); err != nil {
		return nil, err
	}
	return &md, nil
}

// GetCityMetadata reads city_metadata.json back from cityDir.
func (m *Manager) GetCityMetadata(cityDir string) (*models.CityMetadata, error) {
	var md models.CityMetadata
	if err := m.store.ReadJSON(filepath.Join(cityDir, CityMetadataFile), &md); err != nil {
		return nil, err
	}
	return &md, nil
}

// SetMasterIndex writes metadata/plans_master_index.json and returns its path.
func (m *Manager) SetMasterIndex(v any) (string, error) {
	dir := GetMetadataDir(m.baseDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create metadata directory: %w", err)
	}
	path := filepath.Join(dir, MasterIndexFile)
	if err := m.store.SaveJSON(path, v); err != nil {
		return "", fmt.Errorf("failed to write master index: %w", err)
	}
	return path, nil
}

// MasterIndexPath returns where the master index lives under baseDir.
func MasterIndexPath(baseDir string) string {
	return filepath.Join(GetMetadataDir(baseDir), MasterIndexFile)
}
