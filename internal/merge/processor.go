package merge

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/inodb/mafmerge/internal/sample"
	"github.com/inodb/mafmerge/internal/tabular"
)

// Mutation file column roles, resolved case-insensitively.
const (
	ColGene        = "Hugo_Symbol"
	ColVariantType = "Variant_Type"
	ColHGVSp       = "HGVSp"
	ColSample      = "Tumor_Sample_Barcode"
	ColConsequence = "Consequence"
)

// Record is one merged mutation row.
type Record struct {
	Project         string
	Gene            string
	Sample          string
	VariantType     string
	HGVSp           string
	FrameshiftStart string
	FrameshiftLen   string
}

// Fields returns the record's values in output column order.
func (r Record) Fields() []string {
	return []string{
		r.Project,
		r.Gene,
		r.Sample,
		r.VariantType,
		r.HGVSp,
		r.FrameshiftStart,
		r.FrameshiftLen,
	}
}

// FileStats describes what happened to one mutation file.
type FileStats struct {
	Kept     int
	Filtered int
	Skipped  bool
}

var digitRuns = regexp.MustCompile(`\d+`)

// Processor streams single mutation files, deciding file-level inclusion
// and filtering and transforming rows. Failures are logged and yield zero
// records; they never abort a merge.
type Processor struct {
	modelSamples map[string]struct{}
	includeModel bool
	logger       *zap.Logger
}

// NewProcessor creates a processor that drops rows belonging to the given
// model samples.
func NewProcessor(modelSamples map[string]struct{}) *Processor {
	if modelSamples == nil {
		modelSamples = make(map[string]struct{})
	}
	return &Processor{
		modelSamples: modelSamples,
		logger:       zap.NewNop(),
	}
}

// SetIncludeModel disables all model filtering, both path-based and
// metadata-based.
func (p *Processor) SetIncludeModel(include bool) {
	p.includeModel = include
}

// SetLogger sets the logger for diagnostic messages.
func (p *Processor) SetLogger(logger *zap.Logger) {
	p.logger = logger
}

// Process handles one mutation file. The seen set tracks study identities
// across calls; a file whose study was already merged is skipped and the
// set is updated in place.
func (p *Processor) Process(path string, seen map[string]struct{}) ([]Record, FileStats) {
	study := StudyFromPath(path)

	if _, dup := seen[study.Key()]; dup {
		p.logger.Info("skipping duplicate study", zap.String("project", study.Project))
		return nil, FileStats{Skipped: true}
	}
	seen[study.Key()] = struct{}{}

	if !p.includeModel && IsModelStudyPath(path) {
		p.logger.Info("skipping model study (path)", zap.String("project", study.Project))
		return nil, FileStats{Skipped: true}
	}

	if !p.includeModel && len(p.modelSamples) > 0 {
		entirely, err := p.entirelyModel(path)
		if err != nil {
			p.logger.Warn("error reading mutation file",
				zap.String("path", path), zap.Error(err))
			return nil, FileStats{Skipped: true}
		}
		if entirely {
			p.logger.Info("skipping model study (all samples)",
				zap.String("project", study.Project))
			return nil, FileStats{Skipped: true}
		}
	}

	records, stats, err := p.processRows(path, study)
	if err != nil {
		p.logger.Warn("error processing mutation file",
			zap.String("path", path), zap.Error(err))
		return nil, FileStats{Skipped: true}
	}
	return records, stats
}

// entirelyModel reports whether every sample identifier in the file is a
// known model sample. A file with no resolvable sample column or no sample
// identifiers is never entirely model.
func (p *Processor) entirelyModel(path string) (bool, error) {
	f, err := tabular.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	headers := f.Header()
	if len(headers) == 0 {
		return false, nil
	}

	sampleIdx := tabular.ResolveColumn(headers, sample.IDColumns)
	if sampleIdx < 0 {
		return false, nil
	}

	inFile := make(map[string]struct{})
	for {
		fields, err := f.Next()
		if err != nil {
			return false, err
		}
		if fields == nil {
			break
		}
		if id := strings.TrimSpace(tabular.Field(fields, sampleIdx)); id != "" {
			inFile[id] = struct{}{}
		}
	}

	if len(inFile) == 0 {
		return false, nil
	}
	for id := range inFile {
		if _, ok := p.modelSamples[id]; !ok {
			return false, nil
		}
	}
	return true, nil
}

// processRows streams the file once, filtering model-sample rows and
// transforming the rest into output records.
func (p *Processor) processRows(path string, study Study) ([]Record, FileStats, error) {
	f, err := tabular.Open(path)
	if err != nil {
		return nil, FileStats{}, err
	}
	defer f.Close()

	headers := f.Header()
	if len(headers) == 0 {
		p.logger.Warn("empty mutation file", zap.String("path", path))
		return nil, FileStats{Skipped: true}, nil
	}

	geneIdx := tabular.ResolveColumn(headers, []string{ColGene})
	vtypeIdx := tabular.ResolveColumn(headers, []string{ColVariantType})
	hgvspIdx := tabular.ResolveColumn(headers, []string{ColHGVSp})
	sampleIdx := tabular.ResolveColumn(headers, []string{ColSample})
	consIdx := tabular.ResolveColumn(headers, []string{ColConsequence})

	if sampleIdx < 0 {
		sampleIdx = tabular.ResolveColumn(headers, sample.IDColumns)
	}

	if hgvspIdx < 0 {
		p.logger.Warn("missing HGVSp column", zap.String("project", study.Project))
		return nil, FileStats{Skipped: true}, nil
	}

	var records []Record
	var stats FileStats

	for {
		fields, err := f.Next()
		if err != nil {
			return nil, FileStats{}, err
		}
		if fields == nil {
			break
		}

		if !p.includeModel && sampleIdx >= 0 && len(p.modelSamples) > 0 {
			id := strings.TrimSpace(tabular.Field(fields, sampleIdx))
			if _, model := p.modelSamples[id]; model && id != "" {
				stats.Filtered++
				continue
			}
		}

		rec := Record{
			Project:     study.Project,
			Gene:        tabular.Field(fields, geneIdx),
			Sample:      tabular.Field(fields, sampleIdx),
			VariantType: tabular.Field(fields, vtypeIdx),
			HGVSp:       tabular.Field(fields, hgvspIdx),
		}
		consequence := strings.ToLower(tabular.Field(fields, consIdx))

		// In-frame protein changes are recorded downstream as
		// single-nucleotide-style variants, regardless of the file's
		// own annotation.
		if strings.Contains(consequence, "inframe") {
			rec.VariantType = "SNP"
		}

		rec.FrameshiftStart, rec.FrameshiftLen = frameshift(consequence, rec.HGVSp)

		records = append(records, rec)
		stats.Kept++
	}

	if stats.Filtered > 0 {
		p.logger.Debug("filtered model sample rows",
			zap.String("project", study.Project),
			zap.Int("rows", stats.Filtered))
	}
	return records, stats, nil
}

// frameshift derives the frameshift start and length fields from the
// lowercased consequence and the HGVSp protein change. For frameshift
// consequences the first digit run in the protein change is the start and
// the second is the length; anything missing defaults to start "" and
// length "0".
func frameshift(consequence, hgvsp string) (start, length string) {
	if !strings.Contains(consequence, "frameshift") {
		return "", "0"
	}

	runs := digitRuns.FindAllString(hgvsp, -1)
	length = "0"
	if len(runs) >= 1 {
		start = runs[0]
	}
	if len(runs) >= 2 {
		length = runs[1]
	}
	return start, length
}
