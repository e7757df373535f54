package metrics

import (
	"time"
)

// RecordSummary records the outcome of one routed summarization request.
// pivot is empty when the input was summarized in its own language.
func RecordSummary(detected, pivot, summaryLang string, success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "failure"
	}
	if pivot == "" {
		pivot = "none"
	}
	if detected == "" {
		detected = "unknown"
	}
	SummariesTotal.WithLabelValues(detected, pivot, status).Inc()
	SummarizationDuration.WithLabelValues(summaryLang).Observe(duration.Seconds())
}

// RecordChunks records how many chunks were summarized for one input.
func RecordChunks(count int) {
	SummarizationChunks.Observe(float64(count))
}

// RecordInputTokens records the token count of an input handed to a backend.
func RecordInputTokens(lang string, tokens int) {
	SummarizationInputTokens.WithLabelValues(lang).Observe(float64(tokens))
}

// RecordContentFetchSuccess records a successful article extraction.
func RecordContentFetchSuccess(duration time.Duration) {
	ContentFetchAttemptsTotal.WithLabelValues("success").Inc()
	ContentFetchDuration.Observe(duration.Seconds())
}

// RecordContentFetchFailed records a failed article extraction.
func RecordContentFetchFailed(duration time.Duration) {
	ContentFetchAttemptsTotal.WithLabelValues("failure").Inc()
	ContentFetchDuration.Observe(duration.Seconds())
}

// RecordDBQuery records the duration of a database query.
func RecordDBQuery(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
