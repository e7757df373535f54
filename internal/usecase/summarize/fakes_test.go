package summarize

import (
	"context"
	"fmt"
	"sync"

	"polysum/internal/budget"
	"polysum/internal/domain/entity"
)

type generateCall struct {
	text   string
	params budget.GenerationParams
}

// fakeGenerator answers with a fixed reply or "partN." per call.
type fakeGenerator struct {
	mu    sync.Mutex
	calls []generateCall
	reply string
	err   error
}

func (f *fakeGenerator) Generate(_ context.Context, text string, params budget.GenerationParams) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, generateCall{text: text, params: params})
	if f.err != nil {
		return "", f.err
	}
	if f.reply != "" {
		return f.reply, nil
	}
	return fmt.Sprintf("part%d.", len(f.calls)), nil
}

type translateCall struct {
	text string
	src  entity.LanguageTag
	tgt  entity.LanguageTag
}

type fakeTranslator struct {
	calls []translateCall
	err   error
}

func (f *fakeTranslator) Translate(_ context.Context, text string, src, tgt entity.LanguageTag) (string, error) {
	f.calls = append(f.calls, translateCall{text: text, src: src, tgt: tgt})
	if f.err != nil {
		return "", f.err
	}
	return fmt.Sprintf("[%s] %s", tgt, text), nil
}

type summarizeCall struct {
	text string
	mode entity.LengthMode
}

// fakeSummarizer prefixes its input with the language it writes in.
type fakeSummarizer struct {
	lang  entity.LanguageTag
	calls []summarizeCall
	err   error
}

func (f *fakeSummarizer) Summarize(_ context.Context, text string, mode entity.LengthMode) (string, error) {
	f.calls = append(f.calls, summarizeCall{text: text, mode: mode})
	if f.err != nil {
		return "", f.err
	}
	return fmt.Sprintf("%s-summary(%s)", f.lang, text), nil
}
