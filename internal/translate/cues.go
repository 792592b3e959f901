package translate

import (
	"context"
	"fmt"

	"github.com/mgpai22/cuedit/internal/logging"
	"github.com/mgpai22/cuedit/internal/subtitle"
)

// how translated text is placed into the target cues
type CueOptions struct {
	Concurrency int
	Overlay     bool // translated text above the original, bilingual
	WrapWidth   int  // reflow translations longer than this, 0 to keep as is
	Log         *logging.Logger
}

// TranslateCues derives target-track cues from source cues: timing and ids
// are kept, text is replaced by its translation. Cues the provider skipped
// keep their original text.
func TranslateCues(
	ctx context.Context,
	translator Translator,
	cues []subtitle.Cue,
	opts CueOptions,
) ([]subtitle.Cue, error) {
	log := logging.OrNop(opts.Log)
	if l, ok := translator.(interface{ SetLogger(*logging.Logger) }); ok {
		l.SetLogger(log)
	}

	items := make([]TranslationItem, len(cues))
	for i, cue := range cues {
		items[i] = TranslationItem{Index: i, Text: cue.Text}
	}

	var results []TranslationResult
	var err error
	if concurrent, ok := translator.(ConcurrentTranslator); ok {
		results, err = concurrent.TranslateWithConcurrency(ctx, items, opts.Concurrency)
	} else {
		results, err = translator.Translate(ctx, items)
	}
	if err != nil {
		return nil, fmt.Errorf("translation failed: %w", err)
	}

	target := make([]subtitle.Cue, len(cues))
	copy(target, cues)

	translated := make([]bool, len(cues))
	for _, result := range results {
		if result.Index < 0 || result.Index >= len(cues) {
			log.Warnw("Skipping invalid result index",
				"index", result.Index,
				"max", len(cues)-1,
			)
			continue
		}

		text := subtitle.Wrap(result.Text, opts.WrapWidth)
		if opts.Overlay {
			text = text + "\n" + cues[result.Index].Text
		}
		target[result.Index].Text = text
		translated[result.Index] = true
	}

	for i, ok := range translated {
		if !ok {
			log.Warnw("Cue left untranslated", "index", i)
		}
	}

	return target, nil
}
