package insights

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type stubImporter struct {
	raw []map[string]any
	err error
}

func (s *stubImporter) ImportRaw(_ context.Context, raw []map[string]any, _ time.Time) (int, error) {
	s.raw = raw
	if s.err != nil {
		return 0, s.err
	}
	return len(raw), nil
}

func TestImportOrdersHappyPath(t *testing.T) {
	importer := &stubImporter{}
	service := &stubReportService{}
	handler := ImportOrders(importer, service, nil)

	body := `{"orders":[{"order_id":"legacy-1","total":"129.50","status":"delivered"}]}`
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/orders/import", strings.NewReader(body)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if len(importer.raw) != 1 {
		t.Fatalf("expected 1 raw record, got %d", len(importer.raw))
	}
	if !service.invalidated {
		t.Fatal("import must drop cached reports")
	}
}

func TestImportOrdersRequiresRecords(t *testing.T) {
	importer := &stubImporter{}
	handler := ImportOrders(importer, &stubReportService{}, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/orders/import", strings.NewReader(`{"orders":[]}`)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if importer.raw != nil {
		t.Fatal("importer should not be invoked on an empty payload")
	}
}

func TestImportOrdersStoreFailureDoesNotInvalidate(t *testing.T) {
	importer := &stubImporter{err: errors.New("store down")}
	service := &stubReportService{}
	handler := ImportOrders(importer, service, nil)

	body := `{"orders":[{"order_id":"legacy-1"}]}`
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/orders/import", strings.NewReader(body)))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if service.invalidated {
		t.Fatal("a failed import must leave the cache alone")
	}
}
