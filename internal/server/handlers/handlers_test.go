package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/k-ymmt/invoice-maker/internal/config"
	"github.com/k-ymmt/invoice-maker/internal/model"
	"github.com/k-ymmt/invoice-maker/internal/server/handlers"
	"github.com/k-ymmt/invoice-maker/internal/service/billing"
)

func buildRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	documents := config.DocumentsConfig{
		WorkDetailPath: filepath.Join(dir, "work_detail.xlsx"),
		InvoicePath:    filepath.Join(dir, "invoice.xlsx"),
	}

	detail := excelize.NewFile()
	if err := detail.SetSheetName("Sheet1", "2024-5月分"); err != nil {
		t.Fatalf("SetSheetName failed: %v", err)
	}
	for ref, value := range map[string]interface{}{
		"B3": "項目名",
		"B5": "材料費", "C5": 1, "E5": 5, "F5": "個", "G5": 100, "H5": 500,
		"B6": "工程管理", "C6": 1, "E6": 1, "F6": "式", "G6": 50, "H6": 50,
		"B9": "合計", "C7": 550, "C8": 55, "C9": 605,
	} {
		if err := detail.SetCellValue("2024-5月分", ref, value); err != nil {
			t.Fatalf("SetCellValue(%s) failed: %v", ref, err)
		}
	}
	if err := detail.SaveAs(documents.WorkDetailPath); err != nil {
		t.Fatalf("SaveAs failed: %v", err)
	}

	invoice := excelize.NewFile()
	if err := invoice.SetSheetName("Sheet1", "テンプレート"); err != nil {
		t.Fatalf("SetSheetName failed: %v", err)
	}
	for ref, value := range map[string]interface{}{
		"E2": "請求日: ", "E3": "請求番号: ",
		"B5": "品 番 • 品 名", "E5": "数 量", "G5": "単 価",
		"B15": "備考", "B16": "お支払い期限: ",
	} {
		if err := invoice.SetCellValue("テンプレート", ref, value); err != nil {
			t.Fatalf("SetCellValue(%s) failed: %v", ref, err)
		}
	}
	if err := invoice.SaveAs(documents.InvoicePath); err != nil {
		t.Fatalf("SaveAs failed: %v", err)
	}

	service := billing.NewService(documents, nil)
	h := handlers.NewHandlers(service, nil)

	router := gin.New()
	h.RegisterRoutes(router.Group("/api"))
	return router
}

func postSubmission(t *testing.T, router *gin.Engine, month string) *httptest.ResponseRecorder {
	t.Helper()

	submission := model.FormSubmission{
		Responses: []model.FormItemResponse{
			{Title: model.BillingMonthItemTitle, Answer: month},
		},
	}
	body, err := json.Marshal(submission)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/form/submit", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSubmitFormGenerates(t *testing.T) {
	router := buildRouter(t)

	w := postSubmission(t, router, "2024-5")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s, want 200", w.Code, w.Body.String())
	}

	var resp struct {
		Code int            `json:"code"`
		Data billing.Result `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if resp.Code != 0 || resp.Data.Status != model.RunStatusGenerated {
		t.Fatalf("response=%s, want generated", w.Body.String())
	}
}

func TestSubmitFormMissingMonthIsQuiet(t *testing.T) {
	router := buildRouter(t)

	w := postSubmission(t, router, "2024-6")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s, want 200", w.Code, w.Body.String())
	}

	var resp struct {
		Data billing.Result `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if resp.Data.Status != model.RunStatusSkipped {
		t.Fatalf("response=%s, want skipped", w.Body.String())
	}
}

func TestSubmitFormMalformedMonth(t *testing.T) {
	router := buildRouter(t)

	if w := postSubmission(t, router, "2024/5"); w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d body=%s, want 400", w.Code, w.Body.String())
	}
}

func TestSubmitFormDuplicateTarget(t *testing.T) {
	router := buildRouter(t)

	if w := postSubmission(t, router, "2024-5"); w.Code != http.StatusOK {
		t.Fatalf("first submission status=%d, want 200", w.Code)
	}
	if w := postSubmission(t, router, "2024-5"); w.Code != http.StatusConflict {
		t.Fatalf("second submission status=%d, want 409", w.Code)
	}
}

func TestHealth(t *testing.T) {
	router := buildRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200", w.Code)
	}
}
