package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"patrol/pkg/domain"
	"patrol/pkg/serrors"
	"patrol/pkg/transport"
)

// RecognizePlate submits a plate photograph to the recognition service as
// multipart form data with a single "file" field. The recognizer is a
// separate unauthenticated service, so the request is sent anonymously.
//
// A non-success response carrying a "detail" message means the recognizer
// found multiple candidate plates; that message surfaces verbatim. A success
// response missing any of the four plate fields is rejected rather than
// applied partially.
func (c *Client) RecognizePlate(ctx context.Context, filename string, image io.Reader) (*domain.RecognitionResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("could not create form file: %w", err)
	}
	if _, err := io.Copy(fw, image); err != nil {
		return nil, fmt.Errorf("could not read image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("could not finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(transport.Anonymous(ctx), http.MethodPost, c.recognizerURL, &buf)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	status, body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if !success(status) {
		var ae apiError
		if jsonErr := json.Unmarshal(body, &ae); jsonErr == nil && ae.Detail != "" {
			return nil, serrors.With(serrors.ErrAmbiguousDetection, "%s", ae.Detail)
		}

		return nil, serrors.With(serrors.ErrRemote, "failed to detect plate")
	}

	var result domain.RecognitionResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("could not decode response: %w", err)
	}
	if result.RegionPrefix == "" || result.Letter == "" ||
		result.SequenceNumber == "" || result.CityCode == "" {
		return nil, serrors.With(serrors.ErrMalformedRecognition,
			"plate format is incorrect, recognizer returned a partial plate")
	}

	return &result, nil
}
