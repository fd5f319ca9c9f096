// Package pipeline composes the OCR, analysis, and generation agents into
// the entry points the CLI, web server, and Lambda share. Dependencies are
// explicit: a Pipeline is constructed once per process with the backends it
// should use, and holds no per-request state.
package pipeline

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gleelab/glee-suggester/internal/chat"
	"github.com/gleelab/glee-suggester/internal/metrics"
	"github.com/gleelab/glee-suggester/internal/ocr"
	"github.com/gleelab/glee-suggester/internal/suggest"
)

// Pipeline is the AI-orchestration core's exposed interface.
type Pipeline struct {
	ocrAgent     *ocr.Agent
	summarizer   *suggest.Summarizer
	styleAgent   *suggest.StyleAgent
	orchestrator *suggest.Orchestrator
	refiner      *suggest.Refiner
}

// New builds a pipeline from an OCR backend and a chat backend. ocrOpts are
// forwarded to the extraction agent.
func New(ocrBackend ocr.Backend, chatBackend chat.Backend, ocrOpts ...ocr.AgentOption) *Pipeline {
	return &Pipeline{
		ocrAgent:     ocr.NewAgent(ocrBackend, ocrOpts...),
		summarizer:   suggest.NewSummarizer(chatBackend),
		styleAgent:   suggest.NewStyleAgent(chatBackend),
		orchestrator: suggest.NewOrchestrator(chatBackend),
		refiner:      suggest.NewRefiner(chatBackend),
	}
}

// ExtractText runs OCR over the screenshot batch and returns the cleaned
// conversation text. An empty image set is the only error.
func (p *Pipeline) ExtractText(ctx context.Context, images []ocr.ImageInput) (string, error) {
	rec := metrics.New("extract_text")
	defer rec.Flush()
	start := time.Now()

	text, err := p.ocrAgent.Run(ctx, images)
	rec.Count("ImageCount", len(images)).
		Count("TextLength", len([]rune(text))).
		Duration("Latency", time.Since(start))
	return text, err
}

// AnalyzeSituation extracts text from the screenshots and condenses it into
// a situation summary. The summary is empty only on total failure.
func (p *Pipeline) AnalyzeSituation(ctx context.Context, images []ocr.ImageInput) (string, error) {
	rec := metrics.New("analyze_situation")
	defer rec.Flush()
	start := time.Now()

	text, err := p.ocrAgent.Run(ctx, images)
	if err != nil {
		return "", err
	}
	situation := p.summarizer.Run(ctx, text)
	rec.Count("SituationLength", len([]rune(situation))).
		Duration("Latency", time.Since(start))
	return situation, nil
}

// AnalyzeStyle extracts text from the screenshots and derives the
// (situation, tone, purpose) triple. Degraded analysis yields the sentinel
// tone/purpose pair, never an error.
func (p *Pipeline) AnalyzeStyle(ctx context.Context, images []ocr.ImageInput) (suggest.StyleResult, error) {
	rec := metrics.New("analyze_style")
	defer rec.Flush()
	start := time.Now()

	text, err := p.ocrAgent.Run(ctx, images)
	if err != nil {
		return suggest.StyleResult{}, err
	}
	result := p.styleAgent.Run(ctx, text)
	degraded := 0
	if result.Tone == suggest.DefaultTone && result.Purpose == suggest.GeneralPurpose {
		degraded = 1
	}
	rec.Count("Degraded", degraded).Duration("Latency", time.Since(start))
	return result, nil
}

// GenerateReplies produces the reply/title batch for the given mode.
func (p *Pipeline) GenerateReplies(ctx context.Context, mode suggest.Mode) (suggest.Batch, error) {
	rec := metrics.New("generate_replies")
	defer rec.Flush()
	start := time.Now()

	batch, err := p.orchestrator.Run(ctx, mode)
	if err != nil {
		return batch, err
	}
	rec.Count("ReplyCount", len(batch.Replies)).
		Count("TitleCount", len(batch.Titles)).
		Duration("Latency", time.Since(start))
	log.Info().
		Int("replies", len(batch.Replies)).
		Int("titles", len(batch.Titles)).
		Msg("suggestion batch generated")
	return batch, nil
}

// RefineReply runs the quality-gated single-reply path over the input text.
func (p *Pipeline) RefineReply(ctx context.Context, input string) (string, error) {
	rec := metrics.New("refine_reply")
	defer rec.Flush()
	start := time.Now()

	reply, err := p.refiner.Run(ctx, input)
	rec.Count("ReplyLength", len([]rune(reply))).
		Duration("Latency", time.Since(start))
	return reply, err
}
