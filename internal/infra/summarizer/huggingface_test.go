package summarizer

import (
	"context"
	"errors"
	"testing"

	"commentlens/internal/usecase/summarize"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePoster struct {
	model   string
	payload any
	body    string
	err     error
}

func (f *fakePoster) Post(_ context.Context, model string, payload any) ([]byte, error) {
	f.model = model
	f.payload = payload
	return []byte(f.body), f.err
}

func TestHuggingFace_Summarize_Request(t *testing.T) {
	poster := &fakePoster{body: `[{"summary_text":"Viewers loved the editing."}]`}
	hf := NewHuggingFace(poster, "")
	hf.metricsRecorder = &mockMetricsRecorder{}

	got, err := hf.Summarize(context.Background(), "comments", summarize.ParamsFor(180))

	require.NoError(t, err)
	assert.Equal(t, summarize.Output("Viewers loved the editing."), got)
	assert.Equal(t, DefaultHuggingFaceModel, poster.model)
	assert.Equal(t, bartRequest{
		Inputs:     "comments",
		Parameters: bartParameters{MaxLength: 180, MinLength: 60, DoSample: false},
		Options:    bartOptions{WaitForModel: true},
	}, poster.payload)
}

func TestHuggingFace_Summarize_ShapeCheck(t *testing.T) {
	tests := []struct {
		name string
		body string
		want summarize.Result
	}{
		{"valid", `[{"summary_text":"ok"}]`, summarize.Output("ok")},
		{"extra elements ignored", `[{"summary_text":"first"},{"summary_text":"second"}]`, summarize.Output("first")},
		{"empty list", `[]`, summarize.NoOutput()},
		{"missing key", `[{"generated_text":"x"}]`, summarize.NoOutput()},
		{"non-string value", `[{"summary_text":42}]`, summarize.NoOutput()},
		{"blank text", `[{"summary_text":"   "}]`, summarize.NoOutput()},
		{"object instead of list", `{"summary_text":"x"}`, summarize.NoOutput()},
		{"not json", `oops`, summarize.NoOutput()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &mockMetricsRecorder{}
			hf := NewHuggingFace(&fakePoster{body: tt.body}, "m")
			hf.metricsRecorder = rec

			got, err := hf.Summarize(context.Background(), "x", summarize.ParamsFor(0))

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			if !tt.want.OK {
				assert.Equal(t, 1, rec.noOutputs)
			}
		})
	}
}

func TestHuggingFace_Summarize_TransportError(t *testing.T) {
	boom := errors.New("connection reset")
	hf := NewHuggingFace(&fakePoster{err: boom}, "m")

	_, err := hf.Summarize(context.Background(), "x", summarize.ParamsFor(0))

	assert.ErrorIs(t, err, boom)
}
