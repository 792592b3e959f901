package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgpai22/cuedit/internal/subtitle"
	"github.com/mgpai22/cuedit/internal/translate"
)

var translateCmd = &cobra.Command{
	Use:   "translate [subtitle_file]",
	Short: "Translate subtitles to another language using AI",
	Long: `Translate an SRT or WebVTT file into a target track.

Cue timing and ids are copied from the source, only the text changes.
The output keeps the input format.

The --overlay flag creates bilingual subtitles with the translated text
first, followed by the original text on the next line.

Examples:
  cuedit translate video.srt --target-language japanese
  cuedit translate video.vtt -t ja --overlay --provider anthropic
  cuedit translate video.srt -l english -t spanish --rate-limit 30 -o es.srt`,
	Args: cobra.ExactArgs(1),
	RunE: runTranslate,
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().
		StringP("target-language", "t", "", "Target language for translation (required)")
	translateCmd.Flags().
		Bool("overlay", false, "Overlay translated text with original (bilingual subtitles)")
	translateCmd.Flags().
		StringP("api-key", "k", "", "API key (or set GEMINI_API_KEY/OPENAI_API_KEY/ANTHROPIC_API_KEY)")
	translateCmd.Flags().
		String("model", "", "Model to use for translation (provider-specific, uses sensible defaults)")
	translateCmd.Flags().
		String("provider", "gemini", "Translation provider (gemini, openai, anthropic)")
	translateCmd.Flags().
		Int("concurrency", 3, "Number of parallel translation workers")
	translateCmd.Flags().
		Int("batch-size", translate.DefaultBatchSize, "Number of cues per API request")
	translateCmd.Flags().
		Int("rate-limit", 0, "Maximum API requests per minute (0 for no limit)")
	translateCmd.Flags().
		Int("wrap", subtitle.DefaultMaxCharsPerLine, "Split translated lines longer than this (0 to disable)")

	_ = translateCmd.MarkFlagRequired("target-language")
}

func runTranslate(cmd *cobra.Command, args []string) error {
	subtitlePath := args[0]
	ctx := cmd.Context()

	targetLang, _ := cmd.Flags().GetString("target-language")
	overlay, _ := cmd.Flags().GetBool("overlay")
	apiKey, _ := cmd.Flags().GetString("api-key")
	model, _ := cmd.Flags().GetString("model")
	providerStr, _ := cmd.Flags().GetString("provider")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	batchSize, _ := cmd.Flags().GetInt("batch-size")
	rateLimit, _ := cmd.Flags().GetInt("rate-limit")
	wrap, _ := cmd.Flags().GetInt("wrap")
	outputPath, _ := cmd.Flags().GetString("output")
	inputLang, _ := cmd.Flags().GetString("language")

	if _, err := os.Stat(subtitlePath); os.IsNotExist(err) {
		return fmt.Errorf("subtitle file not found: %s", subtitlePath)
	}
	if _, err := subtitle.FormatFromExtension(subtitlePath); err != nil {
		return err
	}

	if targetLang == "" {
		return fmt.Errorf("target language is required")
	}

	if inputLang != "" &&
		strings.EqualFold(
			strings.TrimSpace(inputLang),
			strings.TrimSpace(targetLang),
		) {
		return fmt.Errorf(
			"input language %q and target language %q cannot be the same",
			inputLang,
			targetLang,
		)
	}

	provider := translate.Provider(providerStr)
	apiKey, err := resolveAPIKey(apiKey, provider)
	if err != nil {
		return err
	}

	if concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive, got %d", concurrency)
	}
	if batchSize <= 0 {
		return fmt.Errorf("batch-size must be positive, got %d", batchSize)
	}
	if rateLimit < 0 {
		return fmt.Errorf("rate-limit cannot be negative, got %d", rateLimit)
	}

	if outputPath == "" {
		outputPath = translatedOutputPath(subtitlePath, targetLang, overlay)
	}

	logger.Infow("Starting subtitle translation",
		"input", subtitlePath,
		"output", outputPath,
		"target_language", targetLang,
		"input_language", inputLang,
		"provider", provider,
		"overlay", overlay,
		"model", model,
	)

	file, err := subtitle.Open(subtitlePath)
	if err != nil {
		return fmt.Errorf("failed to parse subtitle file: %w", err)
	}
	if len(file.Cues) == 0 {
		return fmt.Errorf("subtitle file contains no cues")
	}
	for _, w := range file.Warnings {
		logger.Warnw("Skipped malformed block", "block", w.Block, "reason", w.Reason)
	}

	logger.Infow("Parsed subtitle file",
		"cues", len(file.Cues),
		"format", file.Format,
	)

	opts := translate.Options{
		InputLanguage:   inputLang,
		TargetLanguage:  targetLang,
		Model:           model,
		BatchSize:       batchSize,
		RateLimitPerMin: rateLimit,
	}

	translator, err := translate.Factory(ctx, provider, apiKey, opts)
	if err != nil {
		return fmt.Errorf("failed to create translator: %w", err)
	}

	logger.Infow("Translating subtitles",
		"cues", len(file.Cues),
		"concurrency", concurrency,
	)

	target, err := translate.TranslateCues(ctx, translator, file.Cues, translate.CueOptions{
		Concurrency: concurrency,
		Overlay:     overlay,
		WrapWidth:   wrap,
		Log:         logger,
	})
	if err != nil {
		return err
	}

	logger.Infow("Writing output file")
	if err := subtitle.WriteFile(outputPath, target, file.Format); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	absOutput, _ := filepath.Abs(outputPath)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Subtitles translated successfully: %s\n", absOutput)
	fmt.Fprintf(out, "  Cues: %d\n", len(target))
	fmt.Fprintf(out, "  Target language: %s\n", targetLang)
	if overlay {
		fmt.Fprintf(out, "  Mode: bilingual overlay\n")
	}

	return nil
}

// flag value, else the provider's environment variable
func resolveAPIKey(flagValue string, provider translate.Provider) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	envVar := provider.APIKeyEnv()
	if key := os.Getenv(envVar); key != "" {
		return key, nil
	}
	return "", fmt.Errorf(
		"API key is required: use --api-key flag or set %s environment variable",
		envVar,
	)
}

// video.srt -> video.ja.srt, or video.ja.overlay.srt for bilingual output
func translatedOutputPath(inputPath, targetLang string, overlay bool) string {
	ext := filepath.Ext(inputPath)
	baseName := strings.TrimSuffix(inputPath, ext)
	if overlay {
		return fmt.Sprintf("%s.%s.overlay%s", baseName, targetLang, ext)
	}
	return fmt.Sprintf("%s.%s%s", baseName, targetLang, ext)
}
