package excel

import (
	"errors"
	"fmt"
	"time"

	"github.com/k-ymmt/invoice-maker/internal/model"
)

// ErrSheetExists 目标 sheet 已存在，本次生成整体中止
var ErrSheetExists = errors.New("invoice sheet already exists")

// Generator 请求书生成器：克隆模板 sheet 并按锚点写入记录
type Generator struct {
	workbook *Workbook
	layout   InvoiceLayout
	now      func() time.Time
}

// NewGenerator 创建生成器并立即校验模板布局
// now 为空时使用系统时钟
func NewGenerator(workbook *Workbook, layout InvoiceLayout, now func() time.Time) (*Generator, error) {
	template, ok := workbook.Sheet(layout.TemplateSheet)
	if !ok {
		return nil, fmt.Errorf("template sheet %q not found", layout.TemplateSheet)
	}
	if err := layout.Validate(template); err != nil {
		return nil, fmt.Errorf("template layout mismatch: %w", err)
	}
	if now == nil {
		now = time.Now
	}
	return &Generator{workbook: workbook, layout: layout, now: now}, nil
}

// Generate 为一条 WorkRecord 生成请求书 sheet
// 同名 sheet 已存在时返回 ErrSheetExists，且不做任何修改
func (g *Generator) Generate(record *model.WorkRecord, period model.BillingPeriod) (*Sheet, error) {
	if g.workbook.HasSheet(record.Name) {
		return nil, fmt.Errorf("sheet %q: %w", record.Name, ErrSheetExists)
	}

	sheet, err := g.cloneTemplate(record.Name)
	if err != nil {
		return nil, err
	}

	if err := g.setHeader(sheet); err != nil {
		return nil, err
	}
	if err := g.setItems(sheet, record.Items); err != nil {
		return nil, err
	}
	if err := g.setRemarks(sheet, period); err != nil {
		return nil, err
	}
	return sheet, nil
}

// cloneTemplate 复制模板（保留样式与公式）、重命名并挪到固定位置
func (g *Generator) cloneTemplate(name string) (*Sheet, error) {
	file := g.workbook.File()

	templateIdx, err := file.GetSheetIndex(g.layout.TemplateSheet)
	if err != nil {
		return nil, fmt.Errorf("template sheet %q not found: %w", g.layout.TemplateSheet, err)
	}
	newIdx, err := file.NewSheet(name)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet %q: %w", name, err)
	}
	if err := file.CopySheet(templateIdx, newIdx); err != nil {
		return nil, fmt.Errorf("failed to copy template: %w", err)
	}
	if err := g.moveToPosition(name, g.layout.SheetPosition); err != nil {
		return nil, err
	}

	sheet, ok := g.workbook.Sheet(name)
	if !ok {
		return nil, fmt.Errorf("cloned sheet %q not found", name)
	}
	return sheet, nil
}

func (g *Generator) moveToPosition(name string, position int) error {
	list := g.workbook.File().GetSheetList()
	if position < 1 || position > len(list) {
		return nil
	}
	target := list[position-1]
	if target == name {
		return nil
	}
	if err := g.workbook.File().MoveSheet(name, target); err != nil {
		return fmt.Errorf("failed to move sheet %q: %w", name, err)
	}
	return nil
}

// setHeader 写入请求日与请求番号（当日日期 + "-01" 连番）
func (g *Generator) setHeader(sheet *Sheet) error {
	now := g.now()

	dateCell, err := anchorNeighbor(sheet, g.layout.InvoiceDateLabel, Forward)
	if err != nil {
		return err
	}
	if err := dateCell.SetValue(now.Format(g.layout.DateLayout)); err != nil {
		return err
	}

	numberCell, err := anchorNeighbor(sheet, g.layout.InvoiceNumberLabel, Forward)
	if err != nil {
		return err
	}
	return numberCell.SetValue(now.Format(g.layout.NumberLayout) + g.layout.NumberSuffix)
}

// setItems 用三个独立的列游标逐行写入项目
// 结束行（工程管理）在模板上隔了一个空行，写它之前三个游标都要多下移一行
func (g *Generator) setItems(sheet *Sheet, items []model.LineItem) error {
	itemCell, ok := sheet.FindText(g.layout.ItemColumnLabel)
	if !ok {
		return fmt.Errorf("anchor %q not found in sheet %q", g.layout.ItemColumnLabel, sheet.Name())
	}
	amountCell, ok := sheet.FindText(g.layout.AmountColumnLabel)
	if !ok {
		return fmt.Errorf("anchor %q not found in sheet %q", g.layout.AmountColumnLabel, sheet.Name())
	}
	unitPriceCell, ok := sheet.FindText(g.layout.UnitPriceColumnLabel)
	if !ok {
		return fmt.Errorf("anchor %q not found in sheet %q", g.layout.UnitPriceColumnLabel, sheet.Name())
	}

	for _, item := range items {
		itemCell = itemCell.Neighbor(Down)
		if item.Name == g.layout.SentinelItem {
			itemCell = itemCell.Neighbor(Down)
			amountCell = amountCell.Neighbor(Down)
			unitPriceCell = unitPriceCell.Neighbor(Down)
		}
		if err := itemCell.SetValue(item.Name); err != nil {
			return err
		}

		amountCell = amountCell.Neighbor(Down)
		if err := amountCell.SetValue(item.Amount); err != nil {
			return err
		}
		if err := amountCell.Neighbor(Forward).SetValue(item.Unit); err != nil {
			return err
		}

		unitPriceCell = unitPriceCell.Neighbor(Down)
		if err := unitPriceCell.SetValue(item.UnitPrice); err != nil {
			return err
		}
	}
	return nil
}

// setRemarks 在备考栏已有文本后追加请求月末日（模板里是一句待补全的话）
func (g *Generator) setRemarks(sheet *Sheet, period model.BillingPeriod) error {
	label, ok := sheet.FindText(g.layout.RemarksLabel)
	if !ok {
		return fmt.Errorf("anchor %q not found in sheet %q", g.layout.RemarksLabel, sheet.Name())
	}
	cell := label.Neighbor(Down)
	value, err := cell.Value()
	if err != nil {
		return err
	}
	dueDate := period.EndOfMonth().Format(g.layout.RemarksDateLayout)
	return cell.SetValue(value.Text() + dueDate)
}

func anchorNeighbor(sheet *Sheet, label string, direction Direction) (Cell, error) {
	anchor, ok := sheet.FindText(label)
	if !ok {
		return Cell{}, fmt.Errorf("anchor %q not found in sheet %q", label, sheet.Name())
	}
	return anchor.Neighbor(direction), nil
}
