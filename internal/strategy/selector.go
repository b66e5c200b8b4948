package strategy

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/dshills/mdchunk-mcp/pkg/types"
)

// Selector ranks and attempts strategies until one produces a consistent
// chunk sequence. Selection is deterministic for identical inputs: strict
// mode walks the fixed priority order, weighted mode sorts by combined score
// with ties broken by that same priority order.
type Selector struct {
	strategies []Strategy
	logger     *log.Logger
}

// NewSelector creates a selector with the full strategy catalog registered
// in priority order.
func NewSelector(logger *log.Logger) *Selector {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Selector{
		strategies: []Strategy{
			codeStrategy{},
			mixedStrategy{},
			listStrategy{},
			tableStrategy{},
			structuralStrategy{},
			sentenceStrategy{},
		},
		logger: logger,
	}
}

// Strategies returns the registered catalog in priority order
func (s *Selector) Strategies() []Strategy {
	return s.strategies
}

// Select picks and applies a strategy, returning its name and the committed
// chunk sequence with sequencing metadata stamped. It never fails: if every
// strategy fails, the entire document is returned as a single flagged chunk.
func (s *Selector) Select(doc *Document, cfg *types.ChunkConfig) (string, []*types.Chunk) {
	if strings.TrimSpace(doc.Text) == "" {
		return NameSentences, []*types.Chunk{}
	}

	order := s.strategies
	if !cfg.StrictSelection {
		order = s.weightedOrder(doc, cfg)
	}

	for _, st := range order {
		if st.Name() != NameSentences && !st.CanHandle(doc, cfg) {
			continue
		}
		chunks, err := st.Apply(doc, cfg)
		if err != nil {
			s.logger.Warn("strategy failed, advancing to next", "strategy", st.Name(), "error", err)
			continue
		}
		if err := checkCandidate(doc, chunks); err != nil {
			s.logger.Warn("strategy produced inconsistent result, advancing", "strategy", st.Name(), "error", err)
			continue
		}
		stampSequence(chunks, st.Name())
		return st.Name(), chunks
	}

	// Must never fail: the whole document becomes one flagged chunk.
	s.logger.Error("all strategies failed, using emergency single-chunk fallback")
	return NameEmergency, []*types.Chunk{emergencyChunk(doc, cfg)}
}

// weightedOrder sorts strategies by combined quality and priority score. A
// configured preferred strategy receives a boost that biases selection
// without forcing it.
func (s *Selector) weightedOrder(doc *Document, cfg *types.ChunkConfig) []Strategy {
	n := len(s.strategies)
	type scored struct {
		st    Strategy
		score float64
	}
	items := make([]scored, 0, n)
	for rank, st := range s.strategies {
		priorityTerm := 1 - float64(rank)/float64(n)
		score := 0.75*st.Quality(doc, cfg) + 0.25*priorityTerm
		if cfg.PreferredStrategy != "" && cfg.PreferredStrategy == st.Name() {
			score += 0.15
		}
		s.logger.Debug("strategy score", "strategy", st.Name(), "score", score)
		items = append(items, scored{st, score})
	}
	// stable sort keeps priority order on equal scores
	sort.SliceStable(items, func(i, j int) bool { return items[i].score > items[j].score })

	out := make([]Strategy, n)
	for i, it := range items {
		out[i] = it.st
	}
	return out
}

// checkCandidate rejects inconsistent strategy output: empty results for
// non-empty input, blank chunks, bad line ranges, or out-of-order chunks.
func checkCandidate(doc *Document, chunks []*types.Chunk) error {
	if len(chunks) == 0 {
		return fmt.Errorf("empty chunk list for non-empty input")
	}
	prevStart := 0
	for i, c := range chunks {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("chunk %d: %w", i, err)
		}
		if c.EndLine > doc.LineCount() {
			return fmt.Errorf("chunk %d: end line %d beyond document end %d", i, c.EndLine, doc.LineCount())
		}
		if c.StartLine < prevStart {
			return fmt.Errorf("chunk %d: start line %d before previous chunk", i, c.StartLine)
		}
		prevStart = c.StartLine
	}
	return nil
}

// stampSequence fills the sequencing metadata after a result is committed
func stampSequence(chunks []*types.Chunk, name string) {
	for i, c := range chunks {
		c.Metadata.Index = i
		c.Metadata.Total = len(chunks)
		c.Metadata.First = i == 0
		c.Metadata.Last = i == len(chunks)-1
		if c.Metadata.Strategy == "" {
			c.Metadata.Strategy = name
		}
	}
}

func emergencyChunk(doc *Document, cfg *types.ChunkConfig) *types.Chunk {
	return &types.Chunk{
		Content:   doc.Text,
		StartLine: 1,
		EndLine:   doc.LineCount(),
		Metadata: types.ChunkMetadata{
			Strategy:          NameEmergency,
			ContentType:       types.ContentMixed,
			Index:             0,
			Total:             1,
			First:             true,
			Last:              true,
			Oversize:          len(doc.Text) > cfg.MaxChunkSize,
			EmergencyFallback: true,
		},
	}
}
