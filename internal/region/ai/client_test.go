package ai

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eramap/internal/region/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestFetchRegionsDisabled(t *testing.T) {
	client := New("", discard())
	resp, err := client.FetchRegions(context.Background(), "Roman Empire", -27, 117, "")
	require.NoError(t, err)
	assert.Nil(t, resp)
}

func TestFetchRegionsValidResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Roman Empire", r.URL.Query().Get("period"))
		assert.Equal(t, "-27", r.URL.Query().Get("startYear"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"type": "empire",
			"countries": ["IT", "FR", "xx", "gr", "Q1"],
			"confidence": "high",
			"description": "Roman Empire at its height"
		}`))
	}))
	defer srv.Close()

	client := New(srv.URL, discard())
	resp, err := client.FetchRegions(context.Background(), "Roman Empire", -27, 117, "")
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.Equal(t, "empire", resp.Type)
	assert.Equal(t, []string{"IT", "FR", "GR"}, resp.Countries, "malformed and unknown codes dropped individually")
	assert.Equal(t, models.ConfidenceHigh, resp.Confidence)
	assert.Equal(t, "Roman Empire at its height", resp.Reasoning)
	assert.Empty(t, resp.Suggestions)
}

func TestFetchRegionsCoercesUnknownConfidence(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"countries": ["DE"], "confidence": "certain"}`))
	}))
	defer srv.Close()

	resp, err := New(srv.URL, discard()).FetchRegions(context.Background(), "test", 1800, 1900, "")
	require.NoError(t, err)
	assert.Equal(t, models.ConfidenceLow, resp.Confidence)
}

func TestFetchRegionsSoftFailures(t *testing.T) {
	t.Run("non-2xx status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		resp, err := New(srv.URL, discard()).FetchRegions(context.Background(), "x", 0, 1, "")
		assert.Error(t, err)
		assert.Nil(t, resp)
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"countries": `))
		}))
		defer srv.Close()

		resp, err := New(srv.URL, discard()).FetchRegions(context.Background(), "x", 0, 1, "")
		assert.Error(t, err)
		assert.Nil(t, resp)
	})

	t.Run("timeout aborts the call", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		defer srv.Close()

		client := New(srv.URL, discard(), WithTimeout(20*time.Millisecond))
		start := time.Now()
		resp, err := client.FetchRegions(context.Background(), "x", 0, 1, "")
		assert.Error(t, err)
		assert.Nil(t, resp)
		assert.Less(t, time.Since(start), time.Second, "deadline must abort the in-flight call")
	})
}

func TestFetchRegionsTruncatesTitle(t *testing.T) {
	var gotTitle string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTitle = r.URL.Query().Get("title")
		_, _ = w.Write([]byte(`{"countries": []}`))
	}))
	defer srv.Close()

	long := make([]rune, 300)
	for i := range long {
		long[i] = 'a'
	}
	_, err := New(srv.URL, discard()).FetchRegions(context.Background(), "x", 0, 1, string(long))
	require.NoError(t, err)
	assert.Len(t, gotTitle, 120)
}
