package convertapi

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// SuccessPayload is the decoded success envelope of the conversion endpoint.
type SuccessPayload struct {
	FileName      string
	MimeType      string
	ContentBase64 string
}

// Blob is decoded binary content tagged with its MIME type.
type Blob struct {
	Data     []byte
	MimeType string
}

// ExtractErrorMessage reads a human-readable message from an error envelope:
// a top-level "message" or a nested "error.message", trimmed and non-empty.
// It returns fallback when neither is present.
func ExtractErrorMessage(payload any, fallback string) string {
	object, ok := payload.(map[string]any)
	if !ok {
		return fallback
	}

	if message, ok := object["message"].(string); ok {
		if trimmed := strings.TrimSpace(message); trimmed != "" {
			return trimmed
		}
	}

	if nested, ok := object["error"].(map[string]any); ok {
		if message, ok := nested["message"].(string); ok {
			if trimmed := strings.TrimSpace(message); trimmed != "" {
				return trimmed
			}
		}
	}

	return fallback
}

// ParseSuccessPayload validates the structural shape of a success payload:
// fileName, mimeType, and contentBase64 must all be non-empty strings.
func ParseSuccessPayload(payload any) (SuccessPayload, bool) {
	object, ok := payload.(map[string]any)
	if !ok {
		return SuccessPayload{}, false
	}

	fileName, _ := object["fileName"].(string)
	mimeType, _ := object["mimeType"].(string)
	contentBase64, _ := object["contentBase64"].(string)

	if strings.TrimSpace(fileName) == "" ||
		strings.TrimSpace(mimeType) == "" ||
		strings.TrimSpace(contentBase64) == "" {
		return SuccessPayload{}, false
	}

	return SuccessPayload{
		FileName:      fileName,
		MimeType:      mimeType,
		ContentBase64: contentBase64,
	}, true
}

// IsSuccessPayload reports whether a payload has the success envelope shape.
func IsSuccessPayload(payload any) bool {
	_, ok := ParseSuccessPayload(payload)
	return ok
}

// DecodeContent decodes a base64 payload into a blob tagged with mimeType.
func DecodeContent(contentBase64, mimeType string) (Blob, error) {
	data, err := base64.StdEncoding.DecodeString(contentBase64)
	if err != nil {
		return Blob{}, fmt.Errorf("decode content: %w", err)
	}
	return Blob{Data: data, MimeType: mimeType}, nil
}
