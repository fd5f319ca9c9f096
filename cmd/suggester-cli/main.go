// Package main provides the local CLI for the suggestion pipeline: point it
// at conversation screenshots and it prints the analyzed situation and, on
// request, generated reply and title suggestions.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/gleelab/glee-suggester/internal/chat"
	"github.com/gleelab/glee-suggester/internal/imageproc"
	"github.com/gleelab/glee-suggester/internal/logging"
	"github.com/gleelab/glee-suggester/internal/ocr"
	"github.com/gleelab/glee-suggester/internal/pipeline"
	"github.com/gleelab/glee-suggester/internal/suggest"
)

// CLI flags
var (
	styleFlag    bool
	generateFlag bool
	toneFlag     string
	purposeFlag  string
	detailFlag   string
)

// rootCmd is the main Cobra command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "suggester-cli [screenshots...]",
	Short: "AI reply suggestions from conversation screenshots",
	Long: `Suggester CLI extracts the conversation from up to 4 screenshots via OCR,
summarizes the situation, and optionally generates reply and title
suggestions.

Set CLOVA_OCR_URL, CLOVA_OCR_SECRET, and CLOVA_AI_BEARER_TOKEN to use the
CLOVA backends, or GEMINI_API_KEY to run generation against Gemini instead.

Examples:
  suggester-cli chat1.png chat2.png
  suggester-cli --style chat.png
  suggester-cli --generate --tone "정중한 존댓말" --purpose "회사 메신저" chat.png
  suggester-cli  # Interactive mode - prompts for a screenshot path`,
	Run: runMain,
}

func init() {
	rootCmd.Flags().BoolVar(&styleFlag, "style", false, "Also analyze tone and purpose from the conversation")
	rootCmd.Flags().BoolVarP(&generateFlag, "generate", "g", false, "Generate reply and title suggestions")
	rootCmd.Flags().StringVar(&toneFlag, "tone", "", "Desired reply tone (with --generate)")
	rootCmd.Flags().StringVar(&purposeFlag, "purpose", "", "Reply purpose or channel (with --generate)")
	rootCmd.Flags().StringVar(&detailFlag, "detail", "", "Extra free-form guidance (with --generate)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// runMain is the main execution logic called by Cobra.
func runMain(cmd *cobra.Command, args []string) {
	logging.Init()

	paths := args
	if len(paths) == 0 {
		paths = []string{promptForScreenshot()}
	}

	images := loadImages(paths)
	p := pipeline.New(buildOCRBackend(), buildChatBackend())
	ctx := context.Background()

	if styleFlag {
		result, err := p.AnalyzeStyle(ctx, images)
		if err != nil {
			log.Fatal().Err(err).Msg("Style analysis failed")
		}
		fmt.Printf("\n상황: %s\n말투: %s\n용도: %s\n", result.Situation, result.Tone, result.Purpose)
		if generateFlag {
			printBatch(generate(ctx, p, result.Situation, result.Tone, result.Purpose))
		}
		return
	}

	situation, err := p.AnalyzeSituation(ctx, images)
	if err != nil {
		log.Fatal().Err(err).Msg("Situation analysis failed")
	}
	fmt.Printf("\n상황: %s\n", situation)

	if generateFlag {
		printBatch(generate(ctx, p, situation, toneFlag, purposeFlag))
	}
}

// generate picks the mode from the provided style flags.
func generate(ctx context.Context, p *pipeline.Pipeline, situation, tone, purpose string) suggest.Batch {
	var mode suggest.Mode
	switch {
	case tone != "" && purpose != "" && detailFlag != "":
		mode = suggest.ManualStyleWithDetail{Situation: situation, Tone: tone, Purpose: purpose, Detail: detailFlag}
	case tone != "" && purpose != "":
		mode = suggest.ManualStyle{Situation: situation, Tone: tone, Purpose: purpose}
	default:
		mode = suggest.SituationOnly{Situation: situation}
	}

	batch, err := p.GenerateReplies(ctx, mode)
	if err != nil {
		log.Fatal().Err(err).Msg("Suggestion generation failed")
	}
	return batch
}

func printBatch(batch suggest.Batch) {
	fmt.Println("\n--- 답변 제안 ---")
	for i, reply := range batch.Replies {
		fmt.Printf("%d. %s\n", i+1, reply)
	}
	if len(batch.Titles) > 0 {
		fmt.Println("\n--- 제목 제안 ---")
		for i, title := range batch.Titles {
			fmt.Printf("%d. %s\n", i+1, title)
		}
	}
}

// loadImages reads the screenshot files and logs their metadata.
func loadImages(paths []string) []ocr.ImageInput {
	images := make([]ocr.ImageInput, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("Failed to read screenshot")
		}
		meta := imageproc.ProbeMetadata(data)
		log.Debug().Str("path", path).Str("meta", meta.Summary()).Msg("Screenshot loaded")
		images = append(images, ocr.ImageInput{Name: filepath.Base(path), Data: data})
	}
	return images
}

// buildOCRBackend creates the CLOVA OCR client from the environment.
func buildOCRBackend() ocr.Backend {
	url := os.Getenv("CLOVA_OCR_URL")
	secret := os.Getenv("CLOVA_OCR_SECRET")
	if url == "" || secret == "" {
		log.Fatal().Msg("CLOVA_OCR_URL and CLOVA_OCR_SECRET are required")
	}
	return ocr.NewClovaClient(url, secret)
}

// buildChatBackend prefers CLOVA Studio, falling back to Gemini when only a
// Gemini key is configured.
func buildChatBackend() chat.Backend {
	if token := os.Getenv("CLOVA_AI_BEARER_TOKEN"); token != "" {
		return chat.NewClovaClient(os.Getenv("CLOVA_STUDIO_BASE_URL"), token)
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		client, err := chat.NewGeminiClient(context.Background(), key)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create Gemini client")
		}
		log.Info().Msg("Using Gemini chat backend")
		return client
	}
	log.Fatal().Msg("CLOVA_AI_BEARER_TOKEN or GEMINI_API_KEY is required")
	return nil
}

// promptForScreenshot interactively asks for a screenshot path.
func promptForScreenshot() string {
	fmt.Print("Screenshot path: ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read input")
	}
	path := strings.TrimSpace(line)
	if path == "" {
		log.Fatal().Msg("A screenshot path is required")
	}
	return path
}
