package entity

// RoutingDecision records how a single request was routed.
// It is created per request and handed back to the caller.
type RoutingDecision struct {
	DetectedLang      LanguageTag `json:"detected"`
	PivotLang         LanguageTag `json:"pivot_lang,omitempty"`
	Pivoted           bool        `json:"pivoted"`
	SummarySourceLang LanguageTag `json:"summary_src"`
}

// SummaryResult is the outcome of a routed summarization.
type SummaryResult struct {
	RoutingDecision
	TargetLang LanguageTag `json:"target_lang"`
	Translated bool        `json:"translated"`
	Summary    string      `json:"summary"`
}
