package scorer

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/opsdesk/mailtriage/pkg/formatting"
)

// Agent is a System backed by a go-agents chat model. Each Rank call creates
// its own agent instance, so a single Agent value is safe for concurrent use.
type Agent struct {
	cfg     gaconfig.AgentConfig
	timeout time.Duration
	logger  *slog.Logger
}

// NewAgent creates an agent-backed scorer. A non-zero timeout bounds each
// Rank call; a timeout surfaces as ErrScoreFailed, which callers treat as a
// per-segment classification failure rather than a fatal error.
func NewAgent(cfg gaconfig.AgentConfig, timeout time.Duration, logger *slog.Logger) *Agent {
	return &Agent{
		cfg:     cfg,
		timeout: timeout,
		logger:  logger.With("system", "scorer"),
	}
}

type rankResponse struct {
	Rankings []Score `json:"rankings"`
}

// Rank sends the text and candidate set to the model and returns the
// validated ranking, best first.
func (a *Agent) Rank(ctx context.Context, text string, candidates []Candidate) ([]Score, error) {
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	ag, err := agent.New(&a.cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: create agent: %w", ErrScoreFailed, err)
	}

	resp, err := ag.Chat(ctx, composePrompt(text, candidates))
	if err != nil {
		return nil, fmt.Errorf("%w: chat call: %w", ErrScoreFailed, err)
	}

	scores, err := ParseRankings(resp.Content(), candidates)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("ranked candidates", "top", scores[0].Label, "confidence", scores[0].Confidence)
	return scores, nil
}

// ParseRankings parses model output into a ranking over the candidate set.
// Labels are matched case-insensitively and returned in canonical form,
// confidences are clamped to [0,1], repeated labels keep their first score,
// and labels outside the candidate set are rejected. An empty result is
// ErrMalformedResponse.
func ParseRankings(content string, candidates []Candidate) ([]Score, error) {
	parsed, err := formatting.Parse[rankResponse](content)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	canonical := make(map[string]string, len(candidates))
	for _, c := range candidates {
		canonical[strings.ToLower(c.Label)] = c.Label
	}

	scores := make([]Score, 0, len(parsed.Rankings))
	seen := make(map[string]bool, len(parsed.Rankings))
	for _, s := range parsed.Rankings {
		label, ok := canonical[strings.ToLower(strings.TrimSpace(s.Label))]
		if !ok {
			return nil, fmt.Errorf("%w: label %q is not a candidate", ErrMalformedResponse, s.Label)
		}
		if seen[label] {
			continue
		}
		seen[label] = true
		scores = append(scores, Score{Label: label, Confidence: clamp(s.Confidence)})
	}

	if len(scores) == 0 {
		return nil, fmt.Errorf("%w: empty ranking", ErrMalformedResponse)
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Confidence > scores[j].Confidence
	})

	return scores, nil
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
