package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"creditdispute-backend/internal/shared/telemetry"

	"creditdispute-backend/internal/llm"
)

// minUsableOCRChars is the cutoff below which an OCR sub-strategy's output is
// considered failed and the next sub-strategy is attempted.
const minUsableOCRChars = 100

// ExtractReportText OCRs a scanned report. It first uploads the document via
// the files API and references it from a chat completion; if that yields too
// little text it retries with the document embedded as a base64 data URL in a
// vision completion. The remote file is always deleted, success or failure.
func (c *Client) ExtractReportText(ctx context.Context, input llm.ExtractInput) (string, error) {
	uploaded, upErr := c.extractWithFileUpload(ctx, input)
	if upErr == nil && len(strings.TrimSpace(uploaded)) >= minUsableOCRChars {
		return uploaded, nil
	}
	if upErr != nil {
		telemetry.Warn("ocr.file_upload_failed", map[string]any{
			"file":  input.FileName,
			"error": upErr.Error(),
		})
	}

	vision, visErr := c.extractWithDataURL(ctx, input)
	if visErr == nil && len(strings.TrimSpace(vision)) >= minUsableOCRChars {
		return vision, nil
	}
	if visErr != nil {
		telemetry.Warn("ocr.vision_failed", map[string]any{
			"file":  input.FileName,
			"error": visErr.Error(),
		})
	}

	// Neither sub-strategy produced enough text; hand back the longer partial
	// so the extractor can still prefer it over nothing.
	best := uploaded
	if len(vision) > len(best) {
		best = vision
	}
	if strings.TrimSpace(best) == "" {
		if visErr != nil {
			return "", visErr
		}
		if upErr != nil {
			return "", upErr
		}
		return "", fmt.Errorf("ocr produced no text")
	}
	return best, nil
}

func (c *Client) extractWithFileUpload(ctx context.Context, input llm.ExtractInput) (string, error) {
	fileID, err := c.uploadFile(ctx, input)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := c.deleteFile(context.WithoutCancel(ctx), fileID); err != nil {
			telemetry.Warn("ocr.file_delete_failed", map[string]any{
				"file_id": fileID,
				"error":   err.Error(),
			})
		}
	}()

	messages := []chatMessage{
		{Role: "system", Content: ocrSystemPrompt},
		{Role: "user", Content: []contentPart{
			{Type: "file", File: &fileRef{FileID: fileID}},
			{Type: "text", Text: ocrUserPrompt},
		}},
	}
	text, usage, err := c.chatOnce(ctx, messages, nil)
	if err != nil {
		return "", err
	}
	logUsage(c.model, "ocr_file", usage)
	return text, nil
}

func (c *Client) extractWithDataURL(ctx context.Context, input llm.ExtractInput) (string, error) {
	mimeType := strings.TrimSpace(input.MimeType)
	if mimeType == "" {
		mimeType = "application/pdf"
	}
	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(input.Data))

	messages := []chatMessage{
		{Role: "system", Content: ocrSystemPrompt},
		{Role: "user", Content: []contentPart{
			{Type: "image_url", ImageURL: &imageURL{URL: dataURL}},
			{Type: "text", Text: ocrUserPrompt},
		}},
	}
	text, usage, err := c.chatOnce(ctx, messages, nil)
	if err != nil {
		return "", err
	}
	logUsage(c.model, "ocr_vision", usage)
	return text, nil
}

type uploadResponse struct {
	ID    string `json:"id"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

func (c *Client) uploadFile(ctx context.Context, input llm.ExtractInput) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := writer.WriteField("purpose", "user_data"); err != nil {
		return "", err
	}
	fileName := strings.TrimSpace(input.FileName)
	if fileName == "" {
		fileName = "report.pdf"
	}
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(input.Data); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/files", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var parsed uploadResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("openai upload parse: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("openai upload error: %s (%s)", parsed.Error.Message, parsed.Error.Type)
	}
	if parsed.ID == "" {
		return "", fmt.Errorf("openai upload missing file id")
	}
	return parsed.ID, nil
}

func (c *Client) deleteFile(ctx context.Context, fileID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/files/"+fileID, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("openai delete file %s: status %d", fileID, resp.StatusCode)
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}
