// Package processor runs the source-to-target conversion of a planning repository.
package processor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dtnitsch/planning-repo/models"
	"github.com/dtnitsch/planning-repo/pkg/artifact_manager"
	"github.com/dtnitsch/planning-repo/pkg/city"
	"github.com/dtnitsch/planning-repo/pkg/render"
	"github.com/dtnitsch/planning-repo/pkg/storage"
	"github.com/dtnitsch/planning-repo/pkg/transform"
	"github.com/dtnitsch/planning-repo/pkg/walker"
	"github.com/google/uuid"
)

// Ledger receives run and per-plan outcomes. It is optional.
type Ledger interface {
	StartRun(runID, sourceRoot, targetRoot string, startedAt time.Time) error
	RecordPlan(runID string, res models.PlanResult) error
	FinishRun(summary *models.RunSummary) error
}

// Options configure a Processor. Zero values use defaults.
type Options struct {
	Config *models.Config
	Logger *slog.Logger
	// Now is the clock used for every timestamp written.
	Now    func() time.Time
	Ledger Ledger
}

// Processor walks a source tree and writes the normalized target tree.
// It runs sequentially and is not safe for concurrent use.
type Processor struct {
	manager     *artifact_manager.Manager
	store       *storage.Storage
	transformer *transform.Transformer
	translator  *city.Translator
	cfg         *models.Config
	logger      *slog.Logger
	now         func() time.Time
	ledger      Ledger

	processed int
	errors    int
}

// New creates a Processor writing under targetRoot.
func New(targetRoot string, opts Options) (*Processor, error) {
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

	return &Processor{
		manager:     manager,
		store:       &storage.Storage{},
		transformer: transform.New(cfg, now),
		translator:  city.NewTranslator(cfg.CityTranslations),
		cfg:         cfg,
		logger:      logger,
		now:         now,
		ledger:      opts.Ledger,
	}, nil
}

// Run processes every city under sourceRoot. Per-item failures are logged and
// counted in the summary; the returned error is only set when ctx is cancelled.
func (p *Processor) Run(ctx context.Context, sourceRoot string) (*models.RunSummary, error) {
	p.processed, p.errors = 0, 0

	summary := &models.RunSummary{
		RunID:      uuid.NewString(),
		SourceRoot: sourceRoot,
		TargetRoot: p.manager.BaseDir(),
		StartedAt:  time.Now(),
	}
	logger := p.logger.With("run_id", summary.RunID)
	logger.Info("Starting data processing", "source", sourceRoot, "target", summary.TargetRoot)

	if p.ledger != nil {
		if err := p.ledger.StartRun(summary.RunID, sourceRoot, summary.TargetRoot, summary.StartedAt); err != nil {
			logger.Warn("Failed to record run start", "error", err)
		}
	}

	var runErr error
	cities, err := walker.ListCities(sourceRoot)
	if err != nil {
		logger.Error("Error listing source directory", "source", sourceRoot, "error", err)
		p.errors++
	}

	for _, dir := range cities {
		if err := ctx.Err(); err != nil {
			runErr = fmt.Errorf("run interrupted: %w", err)
			break
		}
		res := p.processCity(ctx, logger, summary.RunID, dir)
		summary.Cities = append(summary.Cities, res)
	}

	summary.FinishedAt = time.Now()
	summary.Processed = p.processed
	summary.Errors = p.errors

	if p.ledger != nil {
		if err := p.ledger.FinishRun(summary); err != nil {
			logger.Warn("Failed to record run summary", "error", err)
		}
	}

	logger.Info("Processing complete", "processed", p.processed, "errors", p.errors)
	return summary, runErr
}

// processCity converts one city directory. The city metadata file is written
// even when some plans, or the plan listing itself, failed.
func (p *Processor) processCity(ctx context.Context, logger *slog.Logger, runID string, dir walker.Dir) models.CityResult {
	name, code := city.ParseDirName(dir.Name)
	res := models.CityResult{
		SourceDir: dir.Path,
		Name:      name,
		NameEN:    p.translator.English(name),
		Code:      code,
	}
	logger = logger.With("city", name)
	logger.Info("Processing city", "code", code)
	if !p.translator.Known(name) {
		logger.Warn("No English name for city, add one under city_translations in the config")
	}

	cityDir, err := p.manager.EnsureCityDir(name)
	if err != nil {
		p.cityFailed(logger, &res, models.ErrorTypeWrite, err)
		return res
	}
	res.TargetDir = cityDir

	plans, err := walker.ListPlans(dir.Path)
	if err != nil {
		p.cityFailed(logger, &res, models.ErrorTypeList, err)
	}

	for _, plan := range plans {
		if ctx.Err() != nil {
			break
		}
		pr := p.processPlan(cityDir, name, plan)
		if pr.OK() {
			res.Processed++
			logger.Debug("Processed plan", "plan", plan.Name)
		} else {
			p.errors++
			logger.Error("Error processing plan", "plan", plan.Name, "error_type", pr.ErrorType, "error", pr.Error)
		}
		if p.ledger != nil {
			if err := p.ledger.RecordPlan(runID, pr); err != nil {
				logger.Warn("Failed to record plan result", "plan", plan.Name, "error", err)
			}
		}
		res.Plans = append(res.Plans, pr)
	}

	md := p.cityMetadata(res)
	if err := p.manager.SetCityMetadata(cityDir, md); err != nil {
		if res.Error == nil {
			p.cityFailed(logger, &res, models.ErrorTypeWrite, err)
		} else {
			logger.Error("Error writing city metadata", "error", err)
		}
	} else {
		res.MetadataWritten = true
	}
	p.processed += res.Processed

	logger.Info("Completed city", "plans_processed", res.Processed)
	return res
}

func (p *Processor) cityFailed(logger *slog.Logger, res *models.CityResult, errorType string, err error) {
	res.Error = err
	res.ErrorType = errorType
	p.errors++
	logger.Error("Error processing city", "dir", res.SourceDir, "error_type", errorType, "error", err)
}

func (p *Processor) cityMetadata(res models.CityResult) *models.CityMetadata {
	return &models.CityMetadata{
		CityInfo: models.CityInfo{
			Name:          res.Name,
			NameEN:        res.NameEN,
			CityCode:      res.Code,
			TotalPlans:    res.Processed,
			LastProcessed: transform.ISOTimestamp(p.now()),
		},
		ProcessingInfo: p.cfg.CityProcessingInfo(),
	}
}

// processPlan converts one plan directory: load, map, classify, render, write.
// The target directories are created before the record is read, so a failed
// plan can leave empty directories behind.
func (p *Processor) processPlan(cityDir, cityName string, plan walker.Dir) models.PlanResult {
	res := models.PlanResult{City: cityName, PlanDir: plan.Name}

	planDir, err := p.manager.EnsurePlanDir(cityDir, plan.Name)
	if err != nil {
		return failed(res, models.ErrorTypeWrite, err)
	}
	res.TargetDir = planDir

	detailsPath := plan.DetailsPath()
	if !p.store.HasFile(detailsPath) {
		return res
	}

	data, err := p.store.ReadFile(detailsPath)
	if err != nil {
		return failed(res, models.ErrorTypeRead, err)
	}

	rec, err := models.DecodePlanRecord(data)
	if err != nil {
		return failed(res, models.ErrorTypeParse, fmt.Errorf("invalid %s: %w", walker.PlanDetailsFile, err))
	}
	res.PlanNumber = models.Text(rec.PlanNumber())

	md, err := p.transformer.PlanMetadata(rec)
	if err != nil {
		return failed(res, models.ErrorTypeShape, err)
	}

	if err := p.manager.SetPlanMetadata(planDir, md); err != nil {
		return failed(res, models.ErrorTypeWrite, err)
	}
	if err := p.manager.SetPlanReadme(planDir, render.PlanReadme(rec, md)); err != nil {
		return failed(res, models.ErrorTypeWrite, err)
	}

	res.Written = true
	return res
}

func failed(res models.PlanResult, errorType string, err error) models.PlanResult {
	res.Error = err
	res.ErrorType = errorType
	return res
}
