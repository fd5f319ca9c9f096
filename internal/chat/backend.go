// Package chat provides the chat-completion backends behind the suggestion
// agents. The primary backend is CLOVA Studio (streamed token events over
// HTTP); a Gemini-backed implementation of the same interface exists for
// environments without CLOVA access. Agents depend only on the Backend
// interface, so tests substitute scripted fakes.
package chat

import "context"

// Request describes one chat-completion call.
type Request struct {
	// Bundle names the prompt template bundle (see internal/assets).
	Bundle string

	// Input is the user content placed under the bundle's system prompt.
	Input string

	// RandomSeed requests a fresh sampling seed per call, so repeated
	// calls over the same input diverge. Non-determinism here is a
	// property of the product, not a defect.
	RandomSeed bool
}

// Backend performs a single chat-completion call and returns the fully
// assembled response text. Implementations buffer/decode any streaming
// themselves; callers never see partial tokens.
type Backend interface {
	Complete(ctx context.Context, req Request) (string, error)
}
