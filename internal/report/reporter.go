package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bruniai/bruni/internal/verdict"
)

// chunkSize is how many page reports travel per request. One report per
// chunk bounds payload size: image refs dominate and a chunk carries at
// most one page's screenshots.
const chunkSize = 1

// Reporter sends analysis reports to the bruni reporting backend.
type Reporter struct {
	token   string
	apiURL  string
	httpCli *http.Client
}

// NewReporter creates a reporting client. An empty token disables sending.
func NewReporter(token, apiURL string) *Reporter {
	return &Reporter{
		token:   token,
		apiURL:  apiURL,
		httpCli: &http.Client{Timeout: 60 * time.Second},
	}
}

// Enabled reports whether a token was configured.
func (r *Reporter) Enabled() bool {
	return r.token != ""
}

// chunkEnvelope is the wire format for one slice of a multi-page report.
type chunkEnvelope struct {
	Reports     []verdict.PageReport `json:"reports"`
	TestData    verdict.TestData     `json:"test_data"`
	ChunkIndex  int                  `json:"chunk_index"`
	TotalChunks int                  `json:"total_chunks"`
	TestID      string               `json:"test_id,omitempty"`
}

// ChunkResponse is the backend's answer to one chunk.
type ChunkResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// Send posts a single verdict to the backend. No-op without a token.
func (r *Reporter) Send(ctx context.Context, v *verdict.Verdict) error {
	if !r.Enabled() {
		return nil
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	if _, err := r.post(ctx, payload); err != nil {
		return fmt.Errorf("sending report: %w", err)
	}
	return nil
}

// SendMultiPage sends a multi-page report as sequential chunks over the
// same logical session. The test_id from the first chunk's response is
// carried into subsequent chunks so the backend can group them. Any failed
// chunk aborts the remaining sends.
func (r *Reporter) SendMultiPage(ctx context.Context, data *verdict.MultiPageReportData) ([]ChunkResponse, error) {
	if !r.Enabled() {
		return nil, nil
	}

	var chunks [][]verdict.PageReport
	for i := 0; i < len(data.Reports); i += chunkSize {
		end := i + chunkSize
		if end > len(data.Reports) {
			end = len(data.Reports)
		}
		chunks = append(chunks, data.Reports[i:end])
	}

	var responses []ChunkResponse
	var testID string
	for i, chunk := range chunks {
		env := chunkEnvelope{
			Reports:     chunk,
			TestData:    data.TestData,
			ChunkIndex:  i,
			TotalChunks: len(chunks),
			TestID:      testID,
		}
		payload, err := json.Marshal(env)
		if err != nil {
			return responses, fmt.Errorf("marshaling chunk %d: %w", i, err)
		}

		resp, err := r.post(ctx, payload)
		if err != nil {
			return responses, fmt.Errorf("sending chunk %d/%d: %w", i+1, len(chunks), err)
		}
		if testID == "" {
			testID = resp.ID
		}
		responses = append(responses, resp)
	}

	return responses, nil
}

func (r *Reporter) post(ctx context.Context, payload []byte) (ChunkResponse, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", r.apiURL, bytes.NewReader(payload))
	if err != nil {
		return ChunkResponse{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.token)

	resp, err := r.httpCli.Do(req)
	if err != nil {
		return ChunkResponse{}, fmt.Errorf("posting report: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ChunkResponse{}, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return ChunkResponse{}, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var parsed ChunkResponse
	// Some deployments answer with plain text; an unparseable success
	// body is not an error.
	_ = json.Unmarshal(body, &parsed)
	return parsed, nil
}
