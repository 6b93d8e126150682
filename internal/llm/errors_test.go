package llm

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/googleapis/gax-go/v2/apierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/durationpb"
)

func TestNewCallError_RetryInfo(t *testing.T) {
	st, err := status.New(codes.ResourceExhausted, "Resource has been exhausted (e.g. check quota).").
		WithDetails(&errdetails.RetryInfo{RetryDelay: durationpb.New(21 * time.Second)})
	require.NoError(t, err)

	apiErr, ok := apierror.FromError(st.Err())
	require.True(t, ok)

	ce := newCallError("gemini-2.0-flash", fmt.Errorf("send: %w", apiErr))
	assert.Equal(t, 429, ce.StatusCode)
	assert.Equal(t, 21*time.Second, ce.RetryDelay)
	assert.Contains(t, ce.Error(), `"retryDelay":"21s"`)
	assert.Contains(t, ce.Error(), "status 429")
	assert.Contains(t, ce.Error(), "gemini-2.0-flash")
}

func TestNewCallError_PlainError(t *testing.T) {
	cause := errors.New("connection reset")
	ce := newCallError("m", cause)

	assert.Zero(t, ce.StatusCode)
	assert.Zero(t, ce.RetryDelay)
	assert.ErrorIs(t, ce, cause)
	assert.NotContains(t, ce.Error(), "status")
	assert.NotContains(t, ce.Error(), "retryDelay")
}

func TestGRPCToHTTP(t *testing.T) {
	assert.Equal(t, 429, grpcToHTTP(codes.ResourceExhausted))
	assert.Equal(t, 503, grpcToHTTP(codes.Unavailable))
	assert.Equal(t, 0, grpcToHTTP(codes.Aborted))
}

func TestExtractTextFromResponse(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text("[{\"question\":"), genai.Text("\"Q\"}]")}},
		}},
	}
	text, err := extractTextFromResponse(resp)
	require.NoError(t, err)
	assert.Equal(t, `[{"question":"Q"}]`, text)

	_, err = extractTextFromResponse(&genai.GenerateContentResponse{})
	require.Error(t, err)

	_, err = extractTextFromResponse(&genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []genai.Part{genai.Blob{MIMEType: "image/png"}}}}},
	})
	require.Error(t, err)
}
