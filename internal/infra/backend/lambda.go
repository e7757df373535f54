package backend

import (
	"context"
	"encoding/json"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/lambda"

	"polysum/internal/budget"
)

// LambdaInvoker is the subset of the Lambda client used by LambdaGenerator.
type LambdaInvoker interface {
	Invoke(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error)
}

// LambdaGenerator runs the model inside an AWS Lambda function that accepts
// the same payload as the HTTP inference server.
type LambdaGenerator struct {
	guard
	client LambdaInvoker
	config Config
}

// NewLambdaGenerator creates a Lambda backend using the default AWS credential chain.
func NewLambdaGenerator(ctx context.Context, cfg Config) (*LambdaGenerator, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return NewLambdaGeneratorWithClient(cfg, lambda.NewFromConfig(awsCfg)), nil
}

// NewLambdaGeneratorWithClient creates a Lambda backend with an explicit client.
func NewLambdaGeneratorWithClient(cfg Config, client LambdaInvoker) *LambdaGenerator {
	return &LambdaGenerator{
		guard:  newGuard(cfg),
		client: client,
		config: cfg,
	}
}

// Generate implements Generator.
func (l *LambdaGenerator) Generate(ctx context.Context, text string, params budget.GenerationParams) (string, error) {
	return l.run(ctx, text, params, func(ctx context.Context) (string, error) {
		return l.doGenerate(ctx, text, params)
	})
}

func (l *LambdaGenerator) doGenerate(ctx context.Context, text string, params budget.GenerationParams) (string, error) {
	payload, err := json.Marshal(inferenceRequest{Inputs: text, Parameters: params})
	if err != nil {
		return "", fmt.Errorf("encode inference request: %w", err)
	}

	functionName := l.config.FunctionName
	result, err := l.client.Invoke(ctx, &lambda.InvokeInput{
		FunctionName: &functionName,
		Payload:      payload,
	})
	if err != nil {
		return "", fmt.Errorf("invoke lambda: %w", err)
	}
	if result.FunctionError != nil {
		return "", fmt.Errorf("lambda error: %s: %s", *result.FunctionError, string(result.Payload))
	}
	return parseInferenceResponse(result.Payload)
}
