package backend

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInvoker struct {
	input  *lambda.InvokeInput
	output *lambda.InvokeOutput
	err    error
	calls  int
}

func (f *fakeInvoker) Invoke(_ context.Context, params *lambda.InvokeInput, _ ...func(*lambda.Options)) (*lambda.InvokeOutput, error) {
	f.calls++
	f.input = params
	return f.output, f.err
}

func TestLambdaGenerator_Invoke(t *testing.T) {
	invoker := &fakeInvoker{output: &lambda.InvokeOutput{
		StatusCode: 200,
		Payload:    []byte(`[{"summary_text":"lambda summary"}]`),
	}}
	cfg := testConfig(KindLambda)
	cfg.FunctionName = "summarizer-en"
	gen := NewLambdaGeneratorWithClient(cfg, invoker)
	quiet(&gen.guard)

	out, err := gen.Generate(context.Background(), "some text", testParams())
	require.NoError(t, err)
	assert.Equal(t, "lambda summary", out)

	require.NotNil(t, invoker.input)
	assert.Equal(t, "summarizer-en", *invoker.input.FunctionName)

	var payload inferenceRequest
	require.NoError(t, json.Unmarshal(invoker.input.Payload, &payload))
	assert.Equal(t, "some text", payload.Inputs)
	assert.Equal(t, 120, payload.Parameters.MaxNewTokens)
	assert.Equal(t, 4, payload.Parameters.NumBeams)
}

func TestLambdaGenerator_FunctionError(t *testing.T) {
	fnErr := "Unhandled"
	invoker := &fakeInvoker{output: &lambda.InvokeOutput{
		FunctionError: &fnErr,
		Payload:       []byte(`{"errorMessage":"CUDA out of memory"}`),
	}}
	cfg := testConfig(KindLambda)
	cfg.FunctionName = "summarizer-en"
	gen := NewLambdaGeneratorWithClient(cfg, invoker)
	quiet(&gen.guard)

	_, err := gen.Generate(context.Background(), "some text", testParams())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CUDA out of memory")
	assert.Equal(t, 1, invoker.calls)
}
