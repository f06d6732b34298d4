package excel

import (
	"fmt"
	"strings"
)

// DetailLayout 工作明细表的锚点与相对列偏移
// 所有定位都从锚点文本出发，偏移以项目名所在列为 0
type DetailLayout struct {
	ItemHeaderLabel string
	TotalsLabel     string
	SentinelItem    string

	RequiredUnitOffset int
	AmountOffset       int
	UnitOffset         int
	UnitPriceOffset    int
	SubtotalOffset     int
}

// DefaultDetailLayout 现行工作明细表的布局
func DefaultDetailLayout() DetailLayout {
	return DetailLayout{
		ItemHeaderLabel:    "項目名",
		TotalsLabel:        "合計",
		SentinelItem:       "工程管理",
		RequiredUnitOffset: 1,
		AmountOffset:       3,
		UnitOffset:         4,
		UnitPriceOffset:    5,
		SubtotalOffset:     6,
	}
}

// Validate 校验 sheet 上两个锚点都能找到
func (l DetailLayout) Validate(sheet *Sheet) error {
	return validateAnchors(sheet, []string{l.ItemHeaderLabel, l.TotalsLabel})
}

// InvoiceLayout 请求书模板的锚点与格式约定
type InvoiceLayout struct {
	TemplateSheet string
	SheetPosition int

	InvoiceDateLabel     string
	InvoiceNumberLabel   string
	ItemColumnLabel      string
	AmountColumnLabel    string
	UnitPriceColumnLabel string
	RemarksLabel         string
	SentinelItem         string

	DateLayout        string
	NumberLayout      string
	NumberSuffix      string
	RemarksDateLayout string
}

// DefaultInvoiceLayout 现行请求书模板的布局
func DefaultInvoiceLayout() InvoiceLayout {
	return InvoiceLayout{
		TemplateSheet:        "テンプレート",
		SheetPosition:        2,
		InvoiceDateLabel:     "請求日: ",
		InvoiceNumberLabel:   "請求番号: ",
		ItemColumnLabel:      "品 番 • 品 名",
		AmountColumnLabel:    "数 量",
		UnitPriceColumnLabel: "単 価",
		RemarksLabel:         "備考",
		SentinelItem:         "工程管理",
		DateLayout:           "2006/01/02",
		NumberLayout:         "20060102",
		NumberSuffix:         "-01",
		RemarksDateLayout:    "1/02",
	}
}

// Validate 启动时在模板 sheet 上逐个确认锚点，缺失即失败
// 模板列被挪动时在这里立刻暴露，而不是写错单元格
func (l InvoiceLayout) Validate(sheet *Sheet) error {
	return validateAnchors(sheet, []string{
		l.InvoiceDateLabel,
		l.InvoiceNumberLabel,
		l.ItemColumnLabel,
		l.AmountColumnLabel,
		l.UnitPriceColumnLabel,
		l.RemarksLabel,
	})
}

func validateAnchors(sheet *Sheet, labels []string) error {
	missing := make([]string, 0, len(labels))
	for _, label := range labels {
		if _, ok := sheet.FindText(label); !ok {
			missing = append(missing, label)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("sheet %q is missing anchors: %s", sheet.Name(), strings.Join(missing, ", "))
	}
	return nil
}
