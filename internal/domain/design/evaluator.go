package design

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"freelance-match/internal/pkg/workerpool"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrImageFetch = errors.New("image fetch failed")
	ErrImageScore = errors.New("image scoring failed")
)

const (
	defaultFetchTimeout = 10 * time.Second
	defaultWorkers      = 4
	styleBoost          = 1.2
	neutralRequirement  = 50.0
	noImagesMessage     = "No images to evaluate"
)

var qualityPrompts = []string{
	"a professional user interface design",
	"a clean and organized layout",
	"a visually appealing design",
	"a well-structured interface",
	"a modern web design",
}

var uiElementPrompts = []string{
	"a user interface with navigation menu",
	"a user interface with buttons",
	"a user interface with text content",
	"a user interface with images and graphics",
	"a user interface with forms and inputs",
	"a user interface with cards and containers",
}

type Image struct {
	Ref  string
	Data []byte
}

// ImageTextScorer returns how well an image matches a caption, in [0,100].
type ImageTextScorer interface {
	Similarity(ctx context.Context, img Image, text string) (float64, error)
}

type ImageFetcher interface {
	Fetch(ctx context.Context, ref string) ([]byte, error)
}

type Weights struct {
	OverallSimilarity float64 `yaml:"overall_similarity" json:"overall_similarity"`
	DesignQuality     float64 `yaml:"design_quality" json:"design_quality"`
	RequirementMatch  float64 `yaml:"requirement_match" json:"requirement_match"`
	UIElements        float64 `yaml:"ui_elements" json:"ui_elements"`
}

func DefaultWeights() Weights {
	return Weights{OverallSimilarity: 0.30, DesignQuality: 0.25, RequirementMatch: 0.35, UIElements: 0.10}
}

type Breakdown struct {
	OverallSimilarity float64 `json:"overall_similarity"`
	DesignQuality     float64 `json:"design_quality"`
	RequirementMatch  float64 `json:"requirement_match"`
	UIElements        float64 `json:"ui_elements"`
}

func (b Breakdown) Final(w Weights) float64 {
	return clamp(b.OverallSimilarity*w.OverallSimilarity +
		b.DesignQuality*w.DesignQuality +
		b.RequirementMatch*w.RequirementMatch +
		b.UIElements*w.UIElements)
}

type ImageEvaluation struct {
	Ref        string    `json:"ref"`
	FinalScore float64   `json:"final_score"`
	Breakdown  Breakdown `json:"breakdown"`
}

type ImageError struct {
	Ref    string `json:"ref"`
	Reason string `json:"reason"`
	Err    error  `json:"-"`
}

type SubmissionResult struct {
	FinalScore      float64      `json:"final_score"`
	Breakdown       Breakdown    `json:"breakdown"`
	ImagesEvaluated int          `json:"images_evaluated"`
	ImageErrors     []ImageError `json:"image_errors,omitempty"`
	NoImages        bool         `json:"no_images"`
	Error           string       `json:"error,omitempty"`
	Requirements    Requirements `json:"requirements"`
}

type Submission struct {
	ID          uuid.UUID
	ApplicantID uuid.UUID
	Images      []string
	FigmaURL    string
}

type DesignEvaluation struct {
	SubmissionID uuid.UUID `json:"submission_id"`
	ApplicantID  uuid.UUID `json:"applicant_id"`
	SubmissionResult
	UsedFigmaPreview bool `json:"used_figma_preview"`
	Rank             int  `json:"rank"`
}

type Evaluator struct {
	scorer       ImageTextScorer
	fetcher      ImageFetcher
	figma        FigmaPreviewResolver
	weights      Weights
	workers      int
	fetchRPS     int
	fetchTimeout time.Duration
	logger       *zap.Logger
}

type Option func(*Evaluator)

func WithFigmaPreview(r FigmaPreviewResolver) Option {
	return func(e *Evaluator) { e.figma = r }
}

func WithWeights(w Weights) Option {
	return func(e *Evaluator) { e.weights = w }
}

func WithWorkers(n int) Option {
	return func(e *Evaluator) { e.workers = n }
}

// WithFetchRate caps image fetch starts per second across workers; zero means unlimited.
func WithFetchRate(rps int) Option {
	return func(e *Evaluator) { e.fetchRPS = rps }
}

func WithFetchTimeout(d time.Duration) Option {
	return func(e *Evaluator) { e.fetchTimeout = d }
}

func WithLogger(l *zap.Logger) Option {
	return func(e *Evaluator) { e.logger = l }
}

func NewEvaluator(scorer ImageTextScorer, fetcher ImageFetcher, opts ...Option) *Evaluator {
	e := &Evaluator{
		scorer:       scorer,
		fetcher:      fetcher,
		weights:      DefaultWeights(),
		workers:      defaultWorkers,
		fetchTimeout: defaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	if e.weights == (Weights{}) {
		e.weights = DefaultWeights()
	}
	if e.workers <= 0 {
		e.workers = defaultWorkers
	}
	if e.fetchTimeout <= 0 {
		e.fetchTimeout = defaultFetchTimeout
	}
	return e
}

func (e *Evaluator) EvaluateImage(ctx context.Context, img Image, description string) (ImageEvaluation, error) {
	return e.evaluateImage(ctx, img, description, ExtractRequirements(description))
}

func (e *Evaluator) evaluateImage(ctx context.Context, img Image, description string, req Requirements) (ImageEvaluation, error) {
	sim := func(text string) (float64, error) {
		v, err := e.scorer.Similarity(ctx, img, text)
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %v", ErrImageScore, text, err)
		}
		return clamp(v), nil
	}
	mean := func(prompts []string) (float64, error) {
		var sum float64
		for _, p := range prompts {
			v, err := sim(p)
			if err != nil {
				return 0, err
			}
			sum += v
		}
		return sum / float64(len(prompts)), nil
	}

	var (
		b   Breakdown
		err error
	)
	if b.OverallSimilarity, err = sim(description); err != nil {
		return ImageEvaluation{}, err
	}
	if b.DesignQuality, err = mean(qualityPrompts); err != nil {
		return ImageEvaluation{}, err
	}
	if b.RequirementMatch, err = e.requirementMatch(sim, req); err != nil {
		return ImageEvaluation{}, err
	}
	if b.UIElements, err = mean(uiElementPrompts); err != nil {
		return ImageEvaluation{}, err
	}

	b = b.rounded()
	return ImageEvaluation{Ref: img.Ref, FinalScore: round1(b.Final(e.weights)), Breakdown: b}, nil
}

func (e *Evaluator) requirementMatch(sim func(string) (float64, error), req Requirements) (float64, error) {
	if req.Empty() {
		return neutralRequirement, nil
	}

	var scores []float64
	add := func(prompt string, boost float64) error {
		v, err := sim(prompt)
		if err != nil {
			return err
		}
		scores = append(scores, v*boost)
		return nil
	}
	for _, k := range req.Keywords {
		if err := add("a user interface with "+k, 1); err != nil {
			return 0, err
		}
	}
	for _, f := range req.Features {
		if err := add("a design that includes "+f, 1); err != nil {
			return 0, err
		}
	}
	for _, s := range req.Styles {
		if err := add("a "+s+" design", styleBoost); err != nil {
			return 0, err
		}
	}
	for _, c := range req.Colors {
		if err := add("a design with "+c+" colors", 1); err != nil {
			return 0, err
		}
	}

	var sum float64
	for _, v := range scores {
		sum += v
	}
	return clamp(sum / float64(len(scores))), nil
}

// EvaluateSubmission fetches and scores every image concurrently. Images that fail are recorded and
// left out of the average.
func (e *Evaluator) EvaluateSubmission(ctx context.Context, refs []string, description string) SubmissionResult {
	req := ExtractRequirements(description)
	res := SubmissionResult{Requirements: req}

	refs = nonBlank(refs)
	if len(refs) == 0 {
		res.NoImages = true
		res.Error = noImagesMessage
		return res
	}

	evals := make([]*ImageEvaluation, len(refs))
	errs := make([]error, len(refs))
	tasks := make([]workerpool.Task, len(refs))
	for i, ref := range refs {
		tasks[i] = func(ctx context.Context) error {
			ev, err := e.fetchAndEvaluate(ctx, ref, description, req)
			if err != nil {
				errs[i] = err
				return err
			}
			evals[i] = &ev
			return nil
		}
	}
	workerpool.DoRateLimited(ctx, e.workers, e.fetchRPS, tasks)

	var ok []ImageEvaluation
	for i, ref := range refs {
		switch {
		case evals[i] != nil:
			ok = append(ok, *evals[i])
		default:
			err := errs[i]
			if err == nil {
				err = fmt.Errorf("%w: %v", ErrImageFetch, ctx.Err())
			}
			e.logger.Warn("design image skipped", zap.String("ref", ref), zap.Error(err))
			res.ImageErrors = append(res.ImageErrors, ImageError{Ref: ref, Reason: err.Error(), Err: err})
		}
	}

	return e.aggregate(res, ok)
}

func (e *Evaluator) fetchAndEvaluate(ctx context.Context, ref, description string, req Requirements) (ImageEvaluation, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, e.fetchTimeout)
	data, err := e.fetcher.Fetch(fetchCtx, ref)
	cancel()
	if err != nil {
		if errors.Is(err, ErrImageFetch) {
			return ImageEvaluation{}, err
		}
		return ImageEvaluation{}, fmt.Errorf("%w: %s: %v", ErrImageFetch, ref, err)
	}
	return e.evaluateImage(ctx, Image{Ref: ref, Data: data}, description, req)
}

func (e *Evaluator) aggregate(res SubmissionResult, evals []ImageEvaluation) SubmissionResult {
	res.ImagesEvaluated = len(evals)
	if len(evals) == 0 {
		res.NoImages = true
		res.Error = noImagesMessage
		return res
	}

	var final float64
	var b Breakdown
	for _, ev := range evals {
		final += ev.FinalScore
		b.OverallSimilarity += ev.Breakdown.OverallSimilarity
		b.DesignQuality += ev.Breakdown.DesignQuality
		b.RequirementMatch += ev.Breakdown.RequirementMatch
		b.UIElements += ev.Breakdown.UIElements
	}
	n := float64(len(evals))
	res.FinalScore = round1(final / n)
	res.Breakdown = Breakdown{
		OverallSimilarity: b.OverallSimilarity / n,
		DesignQuality:     b.DesignQuality / n,
		RequirementMatch:  b.RequirementMatch / n,
		UIElements:        b.UIElements / n,
	}.rounded()
	return res
}

// Evaluate scores one submission, falling back to its Figma preview when it carries no images.
func (e *Evaluator) Evaluate(ctx context.Context, sub Submission, description string) DesignEvaluation {
	out := DesignEvaluation{SubmissionID: sub.ID, ApplicantID: sub.ApplicantID}

	if len(nonBlank(sub.Images)) == 0 && e.figma != nil && strings.TrimSpace(sub.FigmaURL) != "" {
		img, err := e.figma.Resolve(ctx, sub.FigmaURL)
		if err == nil {
			out.UsedFigmaPreview = true
			out.SubmissionResult = e.evaluatePreview(ctx, img, description)
			return out
		}
		e.logger.Warn("figma preview unavailable",
			zap.String("submission_id", sub.ID.String()),
			zap.Error(err),
		)
		out.SubmissionResult = SubmissionResult{
			Requirements: ExtractRequirements(description),
			NoImages:     true,
			Error:        noImagesMessage,
			ImageErrors:  []ImageError{{Ref: sub.FigmaURL, Reason: err.Error(), Err: err}},
		}
		return out
	}

	out.SubmissionResult = e.EvaluateSubmission(ctx, sub.Images, description)
	return out
}

func (e *Evaluator) evaluatePreview(ctx context.Context, img Image, description string) SubmissionResult {
	req := ExtractRequirements(description)
	res := SubmissionResult{Requirements: req}
	ev, err := e.evaluateImage(ctx, img, description, req)
	if err != nil {
		res.ImageErrors = []ImageError{{Ref: img.Ref, Reason: err.Error(), Err: err}}
		return e.aggregate(res, nil)
	}
	return e.aggregate(res, []ImageEvaluation{ev})
}

// RankSubmissions keeps every submission; ones without evaluable images score 0.
func (e *Evaluator) RankSubmissions(ctx context.Context, description string, subs []Submission) []DesignEvaluation {
	out := make([]DesignEvaluation, 0, len(subs))
	for _, s := range subs {
		out = append(out, e.Evaluate(ctx, s, description))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].FinalScore > out[j].FinalScore
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

func (b Breakdown) rounded() Breakdown {
	return Breakdown{
		OverallSimilarity: round1(b.OverallSimilarity),
		DesignQuality:     round1(b.DesignQuality),
		RequirementMatch:  round1(b.RequirementMatch),
		UIElements:        round1(b.UIElements),
	}
}

func nonBlank(refs []string) []string {
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}

func clamp(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
