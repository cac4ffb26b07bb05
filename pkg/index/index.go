// Package index builds the repository-wide master index from a processed target tree.
package index

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"github.com/dtnitsch/planning-repo/models"
	"github.com/dtnitsch/planning-repo/pkg/artifact_manager"
	"github.com/dtnitsch/planning-repo/pkg/city"
	dbpkg "github.com/dtnitsch/planning-repo/pkg/db"
	"github.com/dtnitsch/planning-repo/pkg/storage"
	"github.com/dtnitsch/planning-repo/pkg/transform"
	"github.com/dtnitsch/planning-repo/pkg/walker"
)

// MasterIndex is written as metadata/plans_master_index.json.
type MasterIndex struct {
	RepositoryInfo     RepositoryInfo       `json:"repository_info"`
	Cities             []CityEntry          `json:"cities"`
	QuickAccess        map[string]PlanEntry `json:"quick_access"`
	SearchKeywords     map[string][]string  `json:"search_keywords"`
	SearchOptimization SearchOptimization   `json:"search_optimization"`
}

type RepositoryInfo struct {
	TotalPlans       int    `json:"total_plans"`
	TotalCities      int    `json:"total_cities"`
	ProcessedPlans   int    `json:"processed_plans"`
	ProcessingStatus string `json:"processing_status"`
	SourceSystem     string `json:"source_system"`
	ProcessorVersion string `json:"processor_version"`
	GeneratedAt      string `json:"generated_at"`
}

type CityEntry struct {
	Name          string `json:"name"`
	NameEN        string `json:"name_en"`
	Code          int    `json:"code"`
	Language      string `json:"language"`
	PlanCount     int    `json:"plan_count"`
	LastProcessed string `json:"last_processed,omitempty"`
	Path          string `json:"path"`
}

// PlanEntry is the flattened view of one plan used by search.
type PlanEntry struct {
	PlanNumber         string        `json:"plan_number"`
	City               string        `json:"city"`
	CityEN             string        `json:"city_en"`
	CityCode           int           `json:"city_code"`
	Status             string        `json:"status"`
	Type               string        `json:"type"`
	StatusDate         string        `json:"status_date"`
	RelationType       string        `json:"relation_type"`
	Keywords           []string      `json:"keywords"`
	Documents          DocumentFlags `json:"documents"`
	AppendixCount      int           `json:"appendix_count"`
	DrawingCount       int           `json:"drawing_count"`
	Path               string        `json:"path"`
	LastUpdated        string        `json:"last_updated"`
	ProcessingComplete bool          `json:"processing_complete"`
}

type DocumentFlags struct {
	Takanon       bool `json:"takanon"`
	Tasritim      bool `json:"tasritim"`
	Nispachim     bool `json:"nispachim"`
	MMG           bool `json:"mmg"`
	GovernmentMap bool `json:"government_map"`
}

// SearchOptimization groups plan keys by common facets.
type SearchOptimization struct {
	ByCity   map[string][]string `json:"by_city"`
	ByStatus map[string][]string `json:"by_status"`
	ByType   map[string][]string `json:"by_type"`
}

// Processing status values of the repository.
const (
	StatusComplete = "complete"
	StatusPartial  = "partial"
	StatusEmpty    = "empty"
)

// Store receives the index rows. *db.DB satisfies it.
type Store interface {
	UpsertCity(c dbpkg.CityRow) error
	UpsertPlan(p dbpkg.PlanRow) (int64, error)
}

// Options configure a Builder. Zero values use defaults.
type Options struct {
	Config *models.Config
	Logger *slog.Logger
	Now    func() time.Time
	Store  Store
}

// Builder reads a processed target tree.
type Builder struct {
	manager    *artifact_manager.Manager
	store      *storage.Storage
	translator *city.Translator
	cfg        *models.Config
	logger     *slog.Logger
	now        func() time.Time
	db         Store
	langs      *Detector
}

// Result is what Write produced.
type Result struct {
	Index      *MasterIndex
	Path       string
	Warnings   []string
	DBUpdated  bool
	PlanErrors int
}

// New creates a Builder over targetRoot.
func New(targetRoot string, opts Options) (*Builder, error) {
	manager, err := artifact_manager.NewManager(targetRoot)
	if err != nil {
		return nil, err
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = models.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Builder{
		manager:    manager,
		store:      &storage.Storage{},
		translator: city.NewTranslator(cfg.CityTranslations),
		cfg:        cfg,
		logger:     logger,
		now:        now,
		db:         opts.Store,
		langs:      NewDetector(),
	}, nil
}

// Build reads every city and plan of the target tree into a MasterIndex.
// Unreadable plan files are skipped and reported as warnings.
func (b *Builder) Build(ctx context.Context) (*MasterIndex, []string, error) {
	base := b.manager.BaseDir()
	citiesRoot := filepath.Join(base, artifact_manager.CitiesDir)

	cityDirs, err := walker.ListDirs(citiesRoot)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list cities: %w", err)
	}

	idx := &MasterIndex{
		Cities:         []CityEntry{},
		QuickAccess:    map[string]PlanEntry{},
		SearchKeywords: map[string][]string{},
		SearchOptimization: SearchOptimization{
			ByCity:   map[string][]string{},
			ByStatus: map[string][]string{},
			ByType:   map[string][]string{},
		},
	}
	var warnings []string
	warn := func(msg string, args ...any) {
		w := fmt.Sprintf(msg, args...)
		warnings = append(warnings, w)
		b.logger.Warn(w)
	}

	for _, cd := range cityDirs {
		if err := ctx.Err(); err != nil {
			return nil, warnings, fmt.Errorf("index interrupted: %w", err)
		}

		entry := b.cityEntry(cd, warn)
		planDirs, err := walker.ListDirs(filepath.Join(cd.Path, artifact_manager.PlansDir))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			warn("failed to list plans of %s: %v", cd.Name, err)
		}

		for _, pd := range planDirs {
			plan, ok := b.planEntry(entry, pd, warn)
			if !ok {
				continue
			}
			key := plan.PlanNumber
			if _, taken := idx.QuickAccess[key]; taken || key == "" {
				key = plan.Path
			}
			idx.QuickAccess[key] = plan
			entry.PlanCount++

			for _, kw := range plan.Keywords {
				idx.SearchKeywords[kw] = appendUnique(idx.SearchKeywords[kw], key)
			}
			idx.SearchOptimization.ByCity[plan.City] = append(idx.SearchOptimization.ByCity[plan.City], key)
			if plan.Status != "" {
				idx.SearchOptimization.ByStatus[plan.Status] = append(idx.SearchOptimization.ByStatus[plan.Status], key)
			}
			if plan.Type != "" {
				idx.SearchOptimization.ByType[plan.Type] = append(idx.SearchOptimization.ByType[plan.Type], key)
			}
		}
		idx.Cities = append(idx.Cities, entry)
	}

	sort.SliceStable(idx.Cities, func(i, j int) bool { return idx.Cities[i].Name < idx.Cities[j].Name })

	processed := 0
	for _, p := range idx.QuickAccess {
		if p.ProcessingComplete {
			processed++
		}
	}
	idx.RepositoryInfo = RepositoryInfo{
		TotalPlans:       len(idx.QuickAccess),
		TotalCities:      len(idx.Cities),
		ProcessedPlans:   processed,
		ProcessingStatus: processingStatus(processed, len(idx.QuickAccess)),
		SourceSystem:     b.cfg.SourceSystem,
		ProcessorVersion: b.cfg.ProcessorVersion,
		GeneratedAt:      transform.ISOTimestamp(b.now()),
	}
	return idx, warnings, nil
}

// Write builds the index, writes plans_master_index.json and, when a Store
// is configured, upserts every city and plan into it.
func (b *Builder) Write(ctx context.Context) (*Result, error) {
	idx, warnings, err := b.Build(ctx)
	if err != nil {
		return nil, err
	}

	path, err := b.manager.SetMasterIndex(idx)
	if err != nil {
		return nil, err
	}
	b.logger.Info("Master index written", "path", path,
		"plans", idx.RepositoryInfo.TotalPlans, "cities", idx.RepositoryInfo.TotalCities)

	res := &Result{Index: idx, Path: path, Warnings: warnings}
	if b.db == nil {
		return res, nil
	}

	for _, c := range idx.Cities {
		if err := b.db.UpsertCity(dbpkg.CityRow{
			Name:          c.Name,
			NameEN:        c.NameEN,
			Code:          c.Code,
			Language:      c.Language,
			TotalPlans:    c.PlanCount,
			LastProcessed: c.LastProcessed,
		}); err != nil {
			return nil, err
		}
	}
	for _, key := range sortedKeys(idx.QuickAccess) {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("index interrupted: %w", err)
		}
		if _, err := b.db.UpsertPlan(planRow(idx.QuickAccess[key])); err != nil {
			res.PlanErrors++
			b.logger.Error("Failed to index plan", "plan", key, "error", err)
		}
	}
	res.DBUpdated = true
	return res, nil
}

func (b *Builder) cityEntry(cd walker.Dir, warn func(string, ...any)) CityEntry {
	entry := CityEntry{
		Name: cd.Name,
		Path: b.relPath(cd.Path),
	}
	md, err := b.manager.GetCityMetadata(cd.Path)
	switch {
	case err == nil:
		entry.Name = md.CityInfo.Name
		entry.NameEN = md.CityInfo.NameEN
		entry.Code = md.CityInfo.CityCode
		entry.LastProcessed = md.CityInfo.LastProcessed
	case errors.Is(err, fs.ErrNotExist):
		entry.NameEN = b.translator.English(entry.Name)
	default:
		warn("failed to read city metadata of %s: %v", cd.Name, err)
		entry.NameEN = b.translator.English(entry.Name)
	}
	entry.Language = b.langs.Detect(entry.Name)
	return entry
}

// planEntry reads one plan directory. Plans without metadata are kept as
// incomplete entries named after their directory and dated by its mtime.
func (b *Builder) planEntry(c CityEntry, pd walker.Dir, warn func(string, ...any)) (PlanEntry, bool) {
	plan := PlanEntry{
		PlanNumber: pd.Name,
		City:       c.Name,
		CityEN:     c.NameEN,
		CityCode:   c.Code,
		Keywords:   []string{},
		Path:       b.relPath(pd.Path),
	}

	md, err := b.manager.GetPlanMetadata(pd.Path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			warn("failed to read plan metadata of %s/%s: %v", c.Name, pd.Name, err)
		}
		if stats, err := b.store.GetFileStats(pd.Path); err == nil {
			plan.LastUpdated = transform.ISOTimestamp(stats.ModTime)
		}
		return plan, true
	}

	info := md.BasicInfo
	if n := models.Text(info.PlanNumber); n != "" {
		plan.PlanNumber = n
	}
	if name := models.Text(info.City); name != "" {
		plan.City = name
	}
	plan.Status = models.Text(info.Status)
	plan.Type = models.Text(info.PlanType)
	plan.StatusDate = info.StatusDate
	plan.RelationType = models.Text(info.RelationType)
	plan.LastUpdated = info.ProcessingDate
	if md.SearchKeywords != nil {
		plan.Keywords = md.SearchKeywords
	}

	docs := md.DocumentsInventory
	plan.Documents = DocumentFlags{
		Takanon:       docs.Takanon != nil,
		Tasritim:      len(docs.Tasritim) > 0,
		Nispachim:     len(docs.Nispachim) > 0,
		MMG:           docs.MMG != nil,
		GovernmentMap: docs.GovernmentMap != nil,
	}
	plan.AppendixCount = len(docs.Nispachim)
	plan.DrawingCount = len(docs.Tasritim)
	plan.ProcessingComplete = md.ProcessingMetadata.Status == models.ProcessedStatus &&
		b.store.HasFile(filepath.Join(pd.Path, artifact_manager.PlanReadmeFile))
	return plan, true
}

func (b *Builder) relPath(p string) string {
	rel, err := filepath.Rel(b.manager.BaseDir(), p)
	if err != nil {
		return filepath.ToSlash(p)
	}
	return filepath.ToSlash(rel)
}

func planRow(p PlanEntry) dbpkg.PlanRow {
	return dbpkg.PlanRow{
		Path:          p.Path,
		PlanNumber:    p.PlanNumber,
		City:          p.City,
		CityEN:        p.CityEN,
		CityCode:      p.CityCode,
		Status:        p.Status,
		PlanType:      p.Type,
		StatusDate:    p.StatusDate,
		RelationType:  p.RelationType,
		HasTakanon:    p.Documents.Takanon,
		HasTasritim:   p.Documents.Tasritim,
		HasNispachim:  p.Documents.Nispachim,
		HasMMG:        p.Documents.MMG,
		HasMap:        p.Documents.GovernmentMap,
		AppendixCount: p.AppendixCount,
		DrawingCount:  p.DrawingCount,
		LastUpdated:   p.LastUpdated,
		Keywords:      p.Keywords,
	}
}

func processingStatus(processed, total int) string {
	switch {
	case total == 0:
		return StatusEmpty
	case processed == total:
		return StatusComplete
	default:
		return StatusPartial
	}
}

func appendUnique(list []string, v string) []string {
	for _, s := range list {
		if s == v {
			return list
		}
	}
	return append(list, v)
}

func sortedKeys(m map[string]PlanEntry) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
