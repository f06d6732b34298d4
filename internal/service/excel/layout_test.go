package excel_test

import (
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/k-ymmt/invoice-maker/internal/service/excel"
)

func TestDetailLayoutValidate(t *testing.T) {
	sheet := buildDetailSheet(t)

	if err := excel.DefaultDetailLayout().Validate(sheet); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
}

func TestDetailLayoutValidateMissingAnchor(t *testing.T) {
	file := excelize.NewFile()
	file.SetCellValue("Sheet1", "B3", "項目名")
	sheet := mustSheet(t, file, "Sheet1")

	err := excel.DefaultDetailLayout().Validate(sheet)
	if err == nil {
		t.Fatal("Validate should fail without the totals anchor")
	}
	if !strings.Contains(err.Error(), "合計") {
		t.Fatalf("error should name the missing anchor: %v", err)
	}
}

func TestInvoiceLayoutValidate(t *testing.T) {
	workbook := buildInvoiceWorkbook(t)
	sheet, ok := workbook.Sheet("テンプレート")
	if !ok {
		t.Fatal("template sheet not found")
	}

	if err := excel.DefaultInvoiceLayout().Validate(sheet); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
}

func TestInvoiceLayoutValidateReportsAllMissingAnchors(t *testing.T) {
	file := excelize.NewFile()
	if err := file.SetSheetName("Sheet1", "テンプレート"); err != nil {
		t.Fatalf("SetSheetName failed: %v", err)
	}
	file.SetCellValue("テンプレート", "E2", "請求日: ")
	sheet := mustSheet(t, file, "テンプレート")

	err := excel.DefaultInvoiceLayout().Validate(sheet)
	if err == nil {
		t.Fatal("Validate should fail on an incomplete template")
	}
	for _, anchor := range []string{"請求番号: ", "品 番 • 品 名", "数 量", "単 価", "備考"} {
		if !strings.Contains(err.Error(), anchor) {
			t.Fatalf("error should name missing anchor %q: %v", anchor, err)
		}
	}
}
