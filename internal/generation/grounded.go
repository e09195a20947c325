package generation

import (
	"context"
	"fmt"

	"github.com/kalambet/devo/internal/artifact"
	"github.com/kalambet/devo/internal/devotional"
	"github.com/kalambet/devo/internal/rag"
)

// GroundedGenerator emits the static sections but persists a real
// GroundingMap built from catalog excerpts, so the full artifact
// lifecycle runs without an LLM: generate, save, auto-resolve, validate,
// audit. Identical (topic, day) inputs produce the same grounding map id,
// so repeated calls overwrite rather than accumulate.
type GroundedGenerator struct {
	Excerpts *rag.ExcerptCatalog
	Store    *artifact.GroundingStore
}

// Grounding slot assignment: paragraphs 2 and 3 take the full context and
// theological excerpt sets; paragraphs 1 and 4 reuse the first available
// excerpt so every slot is non-empty.
func paragraphExcerpts(catalog *rag.ExcerptCatalog, topic, passage string) map[int][]artifact.SourceExcerpt {
	ctxExcerpts := catalog.RetrieveForParagraph("context", passage, topic, []string{"commentary"})
	theoExcerpts := catalog.RetrieveForParagraph("theological", passage, topic, []string{"commentary"})

	para2 := toSourceExcerpts(ctxExcerpts)
	if len(para2) == 0 {
		para2 = []artifact.SourceExcerpt{toSourceExcerpt(rag.ShortageExcerpt("context"))}
	}
	para3 := toSourceExcerpts(theoExcerpts)
	if len(para3) == 0 {
		para3 = []artifact.SourceExcerpt{toSourceExcerpt(rag.ShortageExcerpt("theological"))}
	}

	first := append(toSourceExcerpts(ctxExcerpts), toSourceExcerpts(theoExcerpts)...)
	if len(first) == 0 {
		first = []artifact.SourceExcerpt{toSourceExcerpt(rag.ShortageExcerpt(""))}
	}
	first = first[:1]

	return map[int][]artifact.SourceExcerpt{1: first, 2: para2, 3: para3, 4: first}
}

func toSourceExcerpt(e rag.Excerpt) artifact.SourceExcerpt {
	return artifact.SourceExcerpt{Text: e.Text, SourceTitle: e.SourceTitle}
}

func toSourceExcerpts(es []rag.Excerpt) []artifact.SourceExcerpt {
	out := make([]artifact.SourceExcerpt, len(es))
	for i, e := range es {
		out[i] = toSourceExcerpt(e)
	}
	return out
}

func (g *GroundedGenerator) GenerateDay(_ context.Context, topic string, dayNumber, attemptNumber int) (devotional.Day, error) {
	day, err := devotional.NewDay(dayNumber)
	if err != nil {
		return devotional.Day{}, err
	}
	fillStaticSections(&day, dayNumber)

	expositionID := fmt.Sprintf("expo-%s-day%d", topic, dayNumber)
	gmID := artifact.GroundingMapID(expositionID)

	gm, err := artifact.GroundingMapBuilder{}.Build(expositionID, paragraphExcerpts(g.Excerpts, topic, day.Scripture.Reference), nil)
	if err != nil {
		return devotional.Day{}, fmt.Errorf("building grounding map: %w", err)
	}
	// Stamp the deterministic id over the builder's provisional one.
	gm.ID = gmID
	if err := g.Store.Save(gm); err != nil {
		return devotional.Day{}, err
	}

	day.Exposition.GroundingMapID = gmID
	return day, nil
}
