package processor

import "github.com/JannisHoch/conflict-model/helper"

type Processor struct {
	WebProcessor     WebProcessor
	WebViewProcessor WebViewProcessor
	RunProcessor     RunProcessor
}

// NewProcessor wires the model processors with their external collaborators:
// the conflict-event provider, the polygon provider and the variable-source
// provider are supplied from outside the core.
func NewProcessor(h helper.Helper, conflicts ConflictProvider, polys PolygonProvider, sources VariableSourceProvider) Processor {
	runner := NewRunProcessor(h, conflicts, polys, sources)
	return Processor{
		WebProcessor:     NewWebProcessor(h.LoggerHelper, runner),
		WebViewProcessor: NewWebViewProcessor(h.LoggerHelper),
		RunProcessor:     runner,
	}
}
