package summarize

import (
	"strings"

	"polysum/internal/domain/entity"
)

// SummarizeRequest is the body of POST /summarize.
type SummarizeRequest struct {
	Text       string `json:"text"`
	TargetLang string `json:"target_lang,omitempty"`
	Mode       string `json:"mode,omitempty"`
}

// Params normalizes the optional fields. An empty mode yields
// entity.DefaultMode; an unknown one yields *entity.InvalidModeError.
func (r SummarizeRequest) Params() (entity.LanguageTag, entity.LengthMode, error) {
	target := entity.NormalizeTag(r.TargetLang)
	m := strings.TrimSpace(r.Mode)
	if m == "" {
		return target, entity.DefaultMode, nil
	}
	mode, err := entity.ParseLengthMode(strings.ToLower(m))
	if err != nil {
		return "", "", err
	}
	return target, mode, nil
}

// ExtractRequest is the body of POST /extract_article.
type ExtractRequest struct {
	URL string `json:"url"`
}

// ExtractResponse is the body returned by POST /extract_article.
type ExtractResponse struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Text  string `json:"text"`
}
