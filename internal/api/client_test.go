package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"regwiz/internal/draft"
	"regwiz/internal/registration"
)

func testForm() registration.FormData {
	f := registration.Defaults()
	f.PersonalInfo.FullName = "Nguyễn Văn An"
	f.PersonalInfo.Email = "an@example.org"
	f.PackageSelection.SetAdultPackage("ADULT_A", 1)
	return f
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL, APIKey: "test-key", Timeout: 5 * time.Second})
}

func TestSaveDraft_SendsMultipartDataField(t *testing.T) {
	var gotData []byte
	var gotPath, gotKey, gotRequestID string

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("X-API-Key")
		gotRequestID = r.Header.Get("X-Request-ID")

		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotData = []byte(r.FormValue("data"))

		_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
	})

	require.NoError(t, c.SaveDraft(context.Background(), testForm()))

	require.Equal(t, "/registration/draft", gotPath)
	require.Equal(t, "test-key", gotKey)
	require.NotEmpty(t, gotRequestID)

	decoded, err := draft.Decode(gotData)
	require.NoError(t, err)
	require.Equal(t, "Nguyễn Văn An", decoded.PersonalInfo.FullName)
	require.True(t, decoded.IsDraft)
}

func TestSubmit_MarksFinalAndAttachesReceipt(t *testing.T) {
	receiptPath := filepath.Join(t.TempDir(), "receipt.png")
	require.NoError(t, os.WriteFile(receiptPath, []byte("png-bytes"), 0o600))

	var gotData []byte
	var gotReceipt []byte
	var gotReceiptName string

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/registration", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotData = []byte(r.FormValue("data"))

		file, header, err := r.FormFile("receiptImage")
		require.NoError(t, err)
		defer func() { _ = file.Close() }()
		gotReceiptName = header.Filename
		gotReceipt, err = io.ReadAll(file)
		require.NoError(t, err)

		_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
	})

	f := testForm()
	receipt, err := registration.LoadReceipt(receiptPath)
	require.NoError(t, err)
	f.Payment.Receipt = receipt

	require.NoError(t, c.Submit(context.Background(), f))

	decoded, err := draft.Decode(gotData)
	require.NoError(t, err)
	require.False(t, decoded.IsDraft, "submission is not a draft")
	require.Equal(t, "receipt.png", gotReceiptName)
	require.Equal(t, []byte("png-bytes"), gotReceipt)
}

func TestSubmit_NoReceiptOmitsFilePart(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, _, err := r.FormFile("receiptImage")
		require.Error(t, err, "no receipt part expected")
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true})
	})

	require.NoError(t, c.Submit(context.Background(), testForm()))
}

func TestFetchDraft_RoundTrip(t *testing.T) {
	stored, err := draft.Encode(testForm(), true, time.Now().UTC())
	require.NoError(t, err)

	var gotEmail string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotEmail = r.URL.Query().Get("email")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    json.RawMessage(stored),
		})
	})

	got, err := c.FetchDraft(context.Background(), "an@example.org")

	require.NoError(t, err)
	require.Equal(t, "an@example.org", gotEmail)
	require.Equal(t, "Nguyễn Văn An", got.PersonalInfo.FullName)
}

func TestFetchDraft_404IsNotFoundError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := c.FetchDraft(context.Background(), "missing@example.org")

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, "missing@example.org", notFound.Email)
}

func TestFetchDraft_CachesWithinTTL(t *testing.T) {
	stored, err := draft.Encode(testForm(), true, time.Now().UTC())
	require.NoError(t, err)

	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    json.RawMessage(stored),
		})
	})

	_, err = c.FetchDraft(context.Background(), "an@example.org")
	require.NoError(t, err)
	_, err = c.FetchDraft(context.Background(), "an@example.org")
	require.NoError(t, err)

	require.Equal(t, 1, calls, "second fetch is served from cache")
}

func TestSaveDraft_InvalidatesCachedDraft(t *testing.T) {
	stored, err := draft.Encode(testForm(), true, time.Now().UTC())
	require.NoError(t, err)

	fetches := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			fetches++
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    json.RawMessage(stored),
		})
	})

	_, err = c.FetchDraft(context.Background(), "an@example.org")
	require.NoError(t, err)

	require.NoError(t, c.SaveDraft(context.Background(), testForm()))

	_, err = c.FetchDraft(context.Background(), "an@example.org")
	require.NoError(t, err)
	require.Equal(t, 2, fetches, "save invalidates the cached draft")
}

func TestServerError_UsesServerMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"message": "registration closed",
		})
	})

	err := c.Submit(context.Background(), testForm())

	var serr *ServerError
	require.ErrorAs(t, err, &serr)
	require.Equal(t, http.StatusBadRequest, serr.StatusCode)
	require.Equal(t, "registration closed", serr.Message)
}

func TestServerError_FallbackMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	err := c.SaveDraft(context.Background(), testForm())

	var serr *ServerError
	require.ErrorAs(t, err, &serr)
	require.Equal(t, "failed to save draft", serr.Message)
}
