package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"polysum/internal/domain/entity"
	"polysum/internal/infra/fetcher"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	gotText   string
	gotTarget entity.LanguageTag
	gotMode   entity.LengthMode
	err       error
}

func (s *stubService) RouteAndSummarize(_ context.Context, raw string, target entity.LanguageTag, mode entity.LengthMode) (*entity.SummaryResult, error) {
	s.gotText, s.gotTarget, s.gotMode = raw, target, mode
	if s.err != nil {
		return nil, s.err
	}
	return &entity.SummaryResult{
		RoutingDecision: entity.RoutingDecision{
			DetectedLang:      "ko",
			PivotLang:         "ja",
			Pivoted:           true,
			SummarySourceLang: "ja",
		},
		TargetLang: "en",
		Translated: true,
		Summary:    "  the summary \n",
	}, nil
}

type stubFetcher struct {
	article *fetcher.Article
	err     error
}

func (f *stubFetcher) Extract(context.Context, string) (*fetcher.Article, error) {
	return f.article, f.err
}

func builder(svc *stubService, f *stubFetcher) (buildFunc, *bool) {
	closed := false
	return func(context.Context) (*engine, func(), error) {
		e := &engine{svc: svc}
		if f != nil {
			e.fetcher = f
		}
		return e, func() { closed = true }, nil
	}, &closed
}

func TestRun_StdinText(t *testing.T) {
	svc := &stubService{}
	build, closed := builder(svc, nil)
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"--mode", "SHORT", "--target", "en"},
		strings.NewReader("입력 텍스트"), &stdout, &stderr, build)

	require.Equal(t, 0, code, stderr.String())
	assert.Equal(t, "입력 텍스트", svc.gotText)
	assert.Equal(t, entity.ModeShort, svc.gotMode)
	assert.Equal(t, entity.LangEnglish, svc.gotTarget)
	assert.Equal(t, "Route: ko -> ja -> en\n\nthe summary\n", stdout.String())
	assert.True(t, *closed)
}

func TestRun_FileJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.txt")
	require.NoError(t, os.WriteFile(path, []byte("from file"), 0o600))

	svc := &stubService{}
	build, _ := builder(svc, nil)
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"--file", path, "--output", "json"},
		strings.NewReader("ignored"), &stdout, &stderr, build)

	require.Equal(t, 0, code, stderr.String())
	assert.Equal(t, "from file", svc.gotText)
	assert.Equal(t, entity.DefaultMode, svc.gotMode)

	var got map[string]any
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &got))
	assert.Equal(t, "ko", got["detected"])
	assert.Equal(t, true, got["translated"])
}

func TestRun_URL(t *testing.T) {
	svc := &stubService{}
	build, _ := builder(svc, &stubFetcher{article: &fetcher.Article{Title: "Headline", Text: "Body."}})
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"--url", "https://example.com/a"}, nil, &stdout, &stderr, build)

	require.Equal(t, 0, code, stderr.String())
	assert.Equal(t, "Headline\n\nBody.", svc.gotText)
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		svcErr   error
		fetchErr error
		wantCode int
		wantErr  string
	}{
		{name: "bad output", args: []string{"--output", "xml"}, wantCode: 2, wantErr: "invalid output"},
		{name: "bad mode", args: []string{"--mode", "tiny"}, wantCode: 2, wantErr: "tiny"},
		{name: "file and url", args: []string{"--file", "a", "--url", "b"}, wantCode: 2, wantErr: "mutually exclusive"},
		{name: "unknown flag", args: []string{"--period", "week"}, wantCode: 2},
		{name: "missing file", args: []string{"--file", filepath.Join(os.TempDir(), "polysum-missing.txt")}, wantCode: 1, wantErr: "read input"},
		{name: "service failure", svcErr: context.DeadlineExceeded, wantCode: 1, wantErr: "504"},
		{name: "fetch failure", args: []string{"--url", "http://localhost"}, fetchErr: fetcher.ErrPrivateIP, wantCode: 1, wantErr: "extract article"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubService{err: tt.svcErr}
			build, _ := builder(svc, &stubFetcher{err: tt.fetchErr})
			var stdout, stderr bytes.Buffer

			code := run(context.Background(), tt.args, strings.NewReader("text"), &stdout, &stderr, build)

			assert.Equal(t, tt.wantCode, code)
			assert.Contains(t, stderr.String(), tt.wantErr)
			assert.Empty(t, stdout.String())
		})
	}
}

func TestRun_BuildFailure(t *testing.T) {
	build := func(context.Context) (*engine, func(), error) {
		return nil, nil, errors.New("SUMMARIZER_LANGS must include en")
	}
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), nil, strings.NewReader("text"), &stdout, &stderr, build)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "failed to initialize")
}

func TestRun_Help(t *testing.T) {
	build, _ := builder(&stubService{}, nil)
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"-h"}, nil, &stdout, &stderr, build)

	assert.Equal(t, 0, code)
	assert.Contains(t, stderr.String(), "Usage: polysum-summarize")
}
