package budget

// Fixed decoding settings sent with every generation request.
const (
	NumBeams          = 4
	RepetitionPenalty = 1.1
)

// GenerationParams is the full parameter set handed to a summarization backend.
type GenerationParams struct {
	TokenBudget
	NumBeams          int     `json:"num_beams"`
	DoSample          bool    `json:"do_sample"`
	Truncation        bool    `json:"truncation"`
	RepetitionPenalty float64 `json:"repetition_penalty"`
}

// Params wraps b with the fixed beam search settings.
func (b TokenBudget) Params() GenerationParams {
	return GenerationParams{
		TokenBudget:       b,
		NumBeams:          NumBeams,
		DoSample:          false,
		Truncation:        true,
		RepetitionPenalty: RepetitionPenalty,
	}
}
