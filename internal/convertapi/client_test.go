package convertapi_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"openconvert/internal/convertapi"
)

func TestSubmitSendsMultipartAndParsesBody(t *testing.T) {
	var gotFrom, gotTo, gotFileName string
	var gotContent []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		gotFrom = r.FormValue("from")
		gotTo = r.FormValue("to")
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
			return
		}
		defer file.Close()
		gotFileName = header.Filename
		gotContent, _ = io.ReadAll(file)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"fileName":"photo.jpg","mimeType":"image/jpeg","contentBase64":"AQID"}`))
	}))
	defer server.Close()

	client := convertapi.New(server.URL, convertapi.WithHTTPClient(server.Client()))
	response, err := client.Submit(context.Background(), convertapi.Request{
		From:     "png",
		To:       "jpg",
		FileName: "photo.png",
		Data:     []byte{0xff, 0x00, 0x7f},
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if !response.OK {
		t.Fatal("expected OK response")
	}
	if gotFrom != "png" || gotTo != "jpg" || gotFileName != "photo.png" {
		t.Fatalf("unexpected fields: from=%q to=%q fileName=%q", gotFrom, gotTo, gotFileName)
	}
	if !bytes.Equal(gotContent, []byte{0xff, 0x00, 0x7f}) {
		t.Fatalf("unexpected file content: %v", gotContent)
	}
	if !convertapi.IsSuccessPayload(response.Payload) {
		t.Fatalf("expected success payload, got %#v", response.Payload)
	}
}

func TestSubmitToleratesNonJSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream exploded"))
	}))
	defer server.Close()

	client := convertapi.New(server.URL, convertapi.WithHTTPClient(server.Client()))
	response, err := client.Submit(context.Background(), convertapi.Request{From: "png", To: "jpg", FileName: "a.png"})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if response.OK {
		t.Fatal("expected non-OK response")
	}
	if response.Payload != nil {
		t.Fatalf("expected nil payload, got %#v", response.Payload)
	}
}

func TestSubmitRequiresEndpoint(t *testing.T) {
	client := convertapi.New("")
	if _, err := client.Submit(context.Background(), convertapi.Request{}); err == nil {
		t.Fatal("expected error for unconfigured endpoint")
	}
}

func TestExtractErrorMessage(t *testing.T) {
	cases := []struct {
		name    string
		payload any
		want    string
	}{
		{"top-level message", map[string]any{"message": " boom "}, "boom"},
		{"nested error message", map[string]any{"error": map[string]any{"code": "x", "message": "upstream failed"}}, "upstream failed"},
		{"blank message falls back", map[string]any{"message": "   "}, "fallback"},
		{"nil payload", nil, "fallback"},
		{"non-object payload", []any{"message"}, "fallback"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := convertapi.ExtractErrorMessage(tc.payload, "fallback"); got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestParseSuccessPayload(t *testing.T) {
	valid := map[string]any{"fileName": "a.jpg", "mimeType": "image/jpeg", "contentBase64": "AQID"}
	if _, ok := convertapi.ParseSuccessPayload(valid); !ok {
		t.Fatal("expected valid payload")
	}

	invalid := []any{
		nil,
		map[string]any{"fileName": "a.jpg", "mimeType": "image/jpeg"},
		map[string]any{"fileName": "a.jpg", "mimeType": " ", "contentBase64": "AQID"},
		map[string]any{"fileName": 1, "mimeType": "image/jpeg", "contentBase64": "AQID"},
	}
	for i, payload := range invalid {
		if convertapi.IsSuccessPayload(payload) {
			t.Fatalf("case %d: expected invalid payload", i)
		}
	}
}

func TestDecodeContentHandlesArbitraryBytes(t *testing.T) {
	raw := []byte{0x00, 0xff, 0x10, 0x80, 0x7f}
	encoded := base64.StdEncoding.EncodeToString(raw)

	blob, err := convertapi.DecodeContent(encoded, "application/octet-stream")
	if err != nil {
		t.Fatalf("DecodeContent failed: %v", err)
	}
	if !bytes.Equal(blob.Data, raw) || blob.MimeType != "application/octet-stream" {
		t.Fatalf("unexpected blob: %+v", blob)
	}

	if _, err := convertapi.DecodeContent("not base64!!", "image/png"); err == nil {
		t.Fatal("expected error for invalid base64")
	}
}
