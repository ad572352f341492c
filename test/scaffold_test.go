package test

import (
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	catalogHandler "seatcheck/internal/catalog/handler"
	catalogService "seatcheck/internal/catalog/service"
	catalogStore "seatcheck/internal/catalog/store"
	"seatcheck/internal/platform/metrics"
	httptransport "seatcheck/internal/transport/http"
	verificationHandler "seatcheck/internal/verification/handler"
	verificationModel "seatcheck/internal/verification/models"
	verificationService "seatcheck/internal/verification/service"
	verificationStore "seatcheck/internal/verification/store"
	"seatcheck/pkg/testutil"
)

// newTestRouter assembles the full HTTP surface over in-memory stores.
func newTestRouter(t *testing.T) (http.Handler, *verificationStore.InMemory) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	vStore := verificationStore.NewInMemory()
	vService := verificationService.NewService(vStore)
	vHandler := verificationHandler.New(vService, logger, 0.1, verificationModel.StrategySystematic)

	cStore := catalogStore.NewInMemory()
	cHandler := catalogHandler.New(catalogService.NewService(cStore), logger)

	router := httptransport.NewRouter(logger, metrics.New(), httptransport.RouterConfig{
		JWTSigningKey: "test-signing-key",
	}, vHandler, cHandler)
	return router, vStore
}

func seedFileWithRecords(store *verificationStore.InMemory, n int) int64 {
	processed := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	file := store.SeedFile(verificationModel.ProcessedFile{
		Filename:      "round1.pdf",
		ProcessedDate: processed,
		RecordsCount:  n,
	})
	recs := make([]verificationModel.CounsellingRecord, n)
	for i := range recs {
		recs[i] = verificationModel.CounsellingRecord{
			Rank:      (i + 1) * 3,
			CreatedAt: processed.Add(time.Minute),
			FileID:    &file.ID,
		}
	}
	store.SeedCounselling(recs...)
	return file.ID
}

func TestRouterScaffold(t *testing.T) {
	testutil.Given(t, "the assembled HTTP router", func(t *testing.T) {
		router, vStore := newTestRouter(t)
		fileID := seedFileWithRecords(vStore, 30)

		testutil.When(t, "building a sample over the file", func(t *testing.T) {
			req := testutil.NewRequestWithBody(t, http.MethodPost, "/api/verification/sample",
				`{"fileId":1,"sampleRate":0.2}`)
			rec := testutil.DoRequest(router, req)

			testutil.Then(t, "it reports the realized sample", func(t *testing.T) {
				testutil.AssertStatus(t, rec, http.StatusCreated)
				testutil.AssertJSONContains(t, rec, "totalRecords", float64(30))
				testutil.AssertJSONContains(t, rec, "sampleSize", float64(6))
			})
		})

		testutil.When(t, "listing the sampled records", func(t *testing.T) {
			req := testutil.NewRequest(t, http.MethodGet, "/api/verification/files/1/records")
			rec := testutil.DoRequest(router, req)

			testutil.Then(t, "the sample is visible", func(t *testing.T) {
				testutil.AssertStatusOK(t, rec)
				testutil.AssertJSONContains(t, rec, "fileId", float64(fileID))
				testutil.AssertJSONHasKey(t, rec, "records")
			})
		})

		testutil.When(t, "applying a verdict to the first record", func(t *testing.T) {
			req := testutil.NewRequestWithBody(t, http.MethodPost, "/api/verification/records/1/status",
				`{"status":"verified","notes":"matches source"}`)
			rec := testutil.DoRequest(router, req)

			testutil.Then(t, "the record is verified", func(t *testing.T) {
				testutil.AssertStatusOK(t, rec)
				testutil.AssertJSONContains(t, rec, "status", "verified")
			})
		})

		testutil.When(t, "fetching the summary", func(t *testing.T) {
			req := testutil.NewRequest(t, http.MethodGet, "/api/verification/summary")
			rec := testutil.DoRequest(router, req)

			testutil.Then(t, "it reconciles counts", func(t *testing.T) {
				testutil.AssertStatusOK(t, rec)
				summary := testutil.UnmarshalResponse[map[string]any](t, rec)
				records := (*summary)["records"].(map[string]any)
				if got := records["verified"].(float64); got != 1 {
					t.Fatalf("expected 1 verified record, got %v", got)
				}
				if got := records["pending"].(float64); got != 5 {
					t.Fatalf("expected 5 pending records, got %v", got)
				}
			})
		})

		testutil.When(t, "hitting an unknown endpoint", func(t *testing.T) {
			req := testutil.NewRequest(t, http.MethodGet, "/api/unknown")
			rec := testutil.DoRequest(router, req)

			testutil.Then(t, "it responds not found", func(t *testing.T) {
				testutil.AssertStatus(t, rec, http.StatusNotFound)
			})
		})

		testutil.When(t, "checking health", func(t *testing.T) {
			req := testutil.NewRequest(t, http.MethodGet, "/healthz")
			rec := testutil.DoRequest(router, req)

			testutil.Then(t, "it reports ok", func(t *testing.T) {
				testutil.AssertStatusOK(t, rec)
				testutil.AssertJSONContains(t, rec, "status", "ok")
			})
		})
	})
}
