package excel

import (
	"fmt"

	"github.com/k-ymmt/invoice-maker/internal/model"
)

// Extractor 从工作明细 sheet 提取 WorkRecord
type Extractor struct {
	layout DetailLayout
}

// NewExtractor 创建提取器
func NewExtractor(layout DetailLayout) *Extractor {
	return &Extractor{layout: layout}
}

// Extract 提取一个请求月的工作明细
// 任一锚点找不到、或结束行缺失时返回 (nil, nil)，由调用方按"无记录"静默处理
func (e *Extractor) Extract(sheet *Sheet) (*model.WorkRecord, error) {
	header, ok := sheet.FindText(e.layout.ItemHeaderLabel)
	if !ok {
		return nil, nil
	}

	items, err := e.extractItems(sheet, header)
	if err != nil {
		return nil, err
	}
	if items == nil {
		return nil, nil
	}

	totalsLabel, ok := sheet.FindText(e.layout.TotalsLabel)
	if !ok {
		return nil, nil
	}

	// 合計标签右侧是总额，往上两格依次是税额、小计
	cell := totalsLabel.Neighbor(Forward)
	total, err := numberAt(cell)
	if err != nil {
		return nil, err
	}
	cell = cell.Neighbor(Up)
	tax, err := numberAt(cell)
	if err != nil {
		return nil, err
	}
	cell = cell.Neighbor(Up)
	subtotal, err := numberAt(cell)
	if err != nil {
		return nil, err
	}

	return &model.WorkRecord{
		Name:     sheet.Name(),
		Items:    items,
		Subtotal: subtotal,
		Tax:      tax,
		Total:    total,
	}, nil
}

// extractItems 从表头逐行向下取项目，空行跳过，取到结束行（含）为止
// 走到数据区底部仍没有结束行时返回 nil，视为明细表不完整
func (e *Extractor) extractItems(sheet *Sheet, header Cell) ([]model.LineItem, error) {
	maxRow := sheet.RowCount()
	items := []model.LineItem{}

	cell := header
	for {
		cell = cell.Neighbor(Down)
		if cell.Row() > maxRow {
			return nil, nil
		}

		item, ok, err := e.readItem(cell)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		items = append(items, item)
		if item.Name == e.layout.SentinelItem {
			return items, nil
		}
	}
}

// readItem 以项目名单元格为基准按固定列偏移读一行项目，项目名为空时返回 ok=false
func (e *Extractor) readItem(nameCell Cell) (model.LineItem, bool, error) {
	value, err := nameCell.Value()
	if err != nil {
		return model.LineItem{}, false, err
	}
	if value.IsEmpty() {
		return model.LineItem{}, false, nil
	}
	name := value.Text()

	sheet := nameCell.sheet
	row := nameCell.Row()
	base := nameCell.Column()

	requiredUnit, err := numberAt(sheet.Cell(row, base+e.layout.RequiredUnitOffset))
	if err != nil {
		return model.LineItem{}, false, err
	}
	amount, err := numberAt(sheet.Cell(row, base+e.layout.AmountOffset))
	if err != nil {
		return model.LineItem{}, false, err
	}
	unitValue, err := sheet.Cell(row, base+e.layout.UnitOffset).Value()
	if err != nil {
		return model.LineItem{}, false, err
	}
	unitPrice, err := numberAt(sheet.Cell(row, base+e.layout.UnitPriceOffset))
	if err != nil {
		return model.LineItem{}, false, err
	}
	subtotal, err := numberAt(sheet.Cell(row, base+e.layout.SubtotalOffset))
	if err != nil {
		return model.LineItem{}, false, err
	}

	return model.LineItem{
		Name:         name,
		RequiredUnit: requiredUnit,
		UnitPrice:    unitPrice,
		Amount:       amount,
		Unit:         unitValue.Text(),
		Subtotal:     subtotal,
	}, true, nil
}

func numberAt(cell Cell) (float64, error) {
	value, err := cell.Value()
	if err != nil {
		return 0, err
	}
	n, err := value.Number()
	if err != nil {
		return 0, fmt.Errorf("cell %s: %w", cell.Ref(), err)
	}
	return n, nil
}
