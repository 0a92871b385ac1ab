package endpoints

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"datalake/internal/domain"
	apperrors "datalake/internal/errors"
	"datalake/internal/services/batch"
	"datalake/internal/services/poller"
)

const (
	lookupPath             = "mrti/threats/lookup/"
	bulkLookupPath         = "mrti/threats/bulk-lookup/"
	bulkManualThreatsPath  = "mrti/bulk-manual-threats/"
	bulkManualThreatsTasks = "mrti/bulk-manual-threats/task/" + poller.TaskUUIDPlaceholder + "/"
)

// UnknownValue fills hashkeys and atom_values of chunks whose task did not report them.
const UnknownValue = "Unknown"

//nolint:gochecknoglobals // per-operation output capabilities
var (
	lookupOutputs     = domain.Outputs{domain.OutputJSON, domain.OutputCSV, domain.OutputSTIX, domain.OutputMISP}
	bulkLookupOutputs = domain.Outputs{domain.OutputJSON, domain.OutputCSV}
)

// OverrideType controls how submitted scores combine with existing ones.
type OverrideType string

const (
	OverridePermanent OverrideType = "permanent"
	OverrideLock      OverrideType = "lock"
	OverrideTemporary OverrideType = "temporary"
)

// Threats covers lookups and manual threat creation.
type Threats struct {
	endpoint
	poller   domain.TaskPoller
	settings Settings
}

// NewThreats creates the threats operation family.
func NewThreats(
	baseURL string,
	newExecutor ExecutorFactory,
	taskPoller domain.TaskPoller,
	settings Settings,
	logger *slog.Logger,
) *Threats {
	return &Threats{
		endpoint: newEndpoint("threats", baseURL, newExecutor, logger),
		poller:   taskPoller,
		settings: settings,
	}
}

// Lookup fetches the threat record of one atom.
func (t *Threats) Lookup(
	ctx context.Context,
	atomType domain.AtomType,
	value string,
	hashkeyOnly bool,
	output domain.Output,
) (*domain.Result, error) {
	if err := checkOutput("lookup", lookupOutputs, output); err != nil {
		return nil, err
	}
	if err := checkAtomType(atomType); err != nil {
		return nil, err
	}
	if strings.TrimSpace(value) == "" {
		return nil, apperrors.NewValidationError("atom_value", value, "required", "atom value is required")
	}

	query := url.Values{}
	query.Set("atom_value", value)
	query.Set("atom_type", string(atomType))
	query.Set("hashkey_only", strconv.FormatBool(hashkeyOnly))

	return t.executor.Execute(ctx, t.request(http.MethodGet, lookupPath, query, nil, output))
}

// BulkLookup looks up many atoms, grouped by type, in one request.
func (t *Threats) BulkLookup(
	ctx context.Context,
	atoms map[domain.AtomType][]string,
	hashkeyOnly bool,
	output domain.Output,
) (*domain.Result, error) {
	if err := checkOutput("bulk lookup", bulkLookupOutputs, output); err != nil {
		return nil, err
	}

	body := map[string]any{"hashkey_only": hashkeyOnly}
	total := 0
	for atomType, values := range atoms {
		if err := checkAtomType(atomType); err != nil {
			return nil, err
		}
		if len(values) == 0 {
			continue
		}
		body[string(atomType)] = values
		total += len(values)
	}
	if total == 0 {
		return nil, apperrors.NewValidationError("atoms", "", "required", "at least one atom is required")
	}

	t.logger.DebugContext(ctx, "Bulk lookup", "atoms", total, "output", output)
	return t.executor.Execute(ctx, t.request(http.MethodPost, bulkLookupPath, nil, body, output))
}

// ThreatScore is the score given to one threat type.
type ThreatScore struct {
	ThreatType domain.ThreatType `json:"threat_type"`
	Score      int               `json:"score"`
}

// AddThreatsRequest describes threats to create from a list of atoms of one type.
type AddThreatsRequest struct {
	AtomType     domain.AtomType
	AtomValues   []string
	Scores       []ThreatScore
	Tags         []string
	Public       bool
	Whitelist    bool
	OverrideType OverrideType
}

func (r AddThreatsRequest) validate() error {
	if err := checkAtomType(r.AtomType); err != nil {
		return err
	}
	if len(r.AtomValues) == 0 {
		return apperrors.NewValidationError("atom_values", "", "required", "at least one atom value is required")
	}
	if !r.Whitelist && len(r.Scores) == 0 {
		return apperrors.NewValidationError("scores", "", "required", "threat scores are required unless whitelisting")
	}
	for _, s := range r.Scores {
		if !s.ThreatType.Valid() {
			return apperrors.NewValidationError("threat_type", string(s.ThreatType), "threat_types", "unknown threat type")
		}
		if s.Score < 0 || s.Score > 100 {
			return apperrors.NewValidationError("score", strconv.Itoa(s.Score), "range", "score must be between 0 and 100")
		}
	}
	switch r.OverrideType {
	case "", OverridePermanent, OverrideLock, OverrideTemporary:
	default:
		return apperrors.NewValidationError("override_type", string(r.OverrideType), "override_types",
			"override type must be permanent, lock or temporary")
	}
	return nil
}

func (r AddThreatsRequest) body(values []string) map[string]any {
	scores := r.Scores
	if r.Whitelist {
		scores = make([]ThreatScore, 0, len(domain.ThreatTypes()))
		for _, threatType := range domain.ThreatTypes() {
			scores = append(scores, ThreatScore{ThreatType: threatType, Score: 0})
		}
	}

	override := r.OverrideType
	if override == "" {
		override = OverrideTemporary
	}

	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}

	return map[string]any{
		"atom_type":     string(r.AtomType),
		"atom_values":   strings.Join(values, "\n"),
		"threat_types":  scores,
		"tags":          tags,
		"public":        r.Public,
		"whitelist":     r.Whitelist,
		"override_type": string(override),
	}
}

// ThreatChunk is the outcome of one submitted chunk of atoms.
type ThreatChunk struct {
	Index      int
	Submitted  []string
	TaskUUID   string
	State      domain.TaskState
	Hashkeys   []string
	AtomValues []string
	Err        error
}

// AddThreatsResult gathers every chunk of an AddThreats call, in submission order.
type AddThreatsResult struct {
	Chunks []ThreatChunk
}

// Hashkeys returns the hashkeys of every chunk, sentinels included.
func (r *AddThreatsResult) Hashkeys() []string {
	var hashkeys []string
	for _, c := range r.Chunks {
		hashkeys = append(hashkeys, c.Hashkeys...)
	}
	return hashkeys
}

// Err joins the errors of failed chunks.
func (r *AddThreatsResult) Err() error {
	errs := make([]error, 0, len(r.Chunks))
	for _, c := range r.Chunks {
		if c.Err != nil {
			errs = append(errs, fmt.Errorf("chunk %d: %w", c.Index, c.Err))
		}
	}
	return apperrors.Join(errs...)
}

// AddThreats creates threats in chunks of 100 atoms, keeping at most MaxInFlight
// creation tasks outstanding. Chunks whose task did not report hashkeys or atom
// values get UnknownValue for each submitted atom.
func (t *Threats) AddThreats(ctx context.Context, req AddThreatsRequest) (*AddThreatsResult, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	submit := func(ctx context.Context, chunk []string) (string, error) {
		return t.submitTask(ctx, bulkManualThreatsPath, req.body(chunk))
	}
	poll := func(ctx context.Context, taskUUID string) (*domain.TaskResult, error) {
		return t.poller.Poll(ctx, domain.PollRequest{
			TaskUUID:          taskUUID,
			StatusURLTemplate: t.url(bulkManualThreatsTasks, nil),
			Timeout:           t.settings.MaxBulkThreatsTime,
			Checks:            []domain.AcceptanceCheck{hasThreatArrays},
			Backoff:           poller.BulkThreatsBackoff(t.settings.MaxBackOffTime),
		})
	}

	orchestrator := batch.NewOrchestrator[string](batch.Config{
		ChunkSize:   batch.DefaultChunkSize,
		MaxInFlight: t.settings.MaxInFlight,
	}, t.logger)

	results, err := orchestrator.Run(ctx, req.AtomValues, submit, poll)

	out := &AddThreatsResult{Chunks: make([]ThreatChunk, 0, len(results))}
	for _, r := range results {
		out.Chunks = append(out.Chunks, threatChunk(r))
	}

	return out, err
}

func threatChunk(r batch.Result[string]) ThreatChunk {
	chunk := ThreatChunk{
		Index:     r.Index,
		Submitted: r.Items,
		TaskUUID:  r.TaskUUID,
		State:     domain.TaskUnknown,
		Err:       r.Err,
	}

	var body map[string]any
	if r.Task != nil {
		chunk.State = r.Task.State
		body = r.Task.Body
		if r.Task.State == domain.TaskCancelled && chunk.Err == nil {
			chunk.Err = fmt.Errorf("%w: %s", apperrors.ErrTaskCancelled, r.TaskUUID)
		}
	}

	chunk.Hashkeys = stringsOr(body, "hashkeys", len(r.Items))
	chunk.AtomValues = stringsOr(body, "atom_values", len(r.Items))
	return chunk
}

// stringsOr reads a string array from body, or returns n UnknownValue sentinels when
// the array is absent or empty.
func stringsOr(body map[string]any, key string, n int) []string {
	if raw, ok := body[key].([]any); ok && len(raw) > 0 {
		values := make([]string, 0, len(raw))
		for _, v := range raw {
			if s, ok := v.(string); ok {
				values = append(values, s)
			}
		}
		return values
	}
	return slices.Repeat([]string{UnknownValue}, max(n, 1))
}

// hasThreatArrays accepts a DONE body once both result arrays are populated.
func hasThreatArrays(body map[string]any) bool {
	hashkeys, _ := body["hashkeys"].([]any)
	values, _ := body["atom_values"].([]any)
	return len(hashkeys) > 0 && len(values) > 0
}
