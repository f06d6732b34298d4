package excel

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// Direction 单元格移动方向
type Direction int

const (
	// Forward 同一行向右一列
	Forward Direction = iota
	// Backward 同一行向左一列
	Backward
	// Up 同一列向上一行
	Up
	// Down 同一列向下一行
	Down
)

// Workbook excelize 工作簿的薄封装
type Workbook struct {
	file *excelize.File
}

// OpenWorkbook 从路径打开工作簿
func OpenWorkbook(path string) (*Workbook, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	return &Workbook{file: file}, nil
}

// NewWorkbook 封装一个已有的 excelize 工作簿（测试用内存工作簿等）
func NewWorkbook(file *excelize.File) *Workbook {
	return &Workbook{file: file}
}

// File 返回底层 excelize 工作簿
func (w *Workbook) File() *excelize.File {
	return w.file
}

// Sheet 按名称取 sheet，不存在时返回 false
func (w *Workbook) Sheet(name string) (*Sheet, bool) {
	idx, err := w.file.GetSheetIndex(name)
	if err != nil || idx == -1 {
		return nil, false
	}
	return &Sheet{workbook: w, name: name}, true
}

// HasSheet 判断 sheet 是否存在
func (w *Workbook) HasSheet(name string) bool {
	_, ok := w.Sheet(name)
	return ok
}

// Save 保存到打开时的路径
func (w *Workbook) Save() error {
	return w.file.Save()
}

// Close 关闭工作簿
func (w *Workbook) Close() error {
	return w.file.Close()
}

// Sheet 工作簿内的一个 sheet
type Sheet struct {
	workbook *Workbook
	name     string
}

// Name sheet 名称
func (s *Sheet) Name() string {
	return s.name
}

// Cell 按 1 起始的行列号定位单元格，不做边界检查
func (s *Sheet) Cell(row, column int) Cell {
	return Cell{sheet: s, row: row, column: column}
}

// FindText 按阅读顺序（先行后列）返回第一个值与 text 完全相等的单元格
func (s *Sheet) FindText(text string) (Cell, bool) {
	if s == nil || s.workbook == nil {
		return Cell{}, false
	}
	refs, err := s.workbook.file.SearchSheet(s.name, text)
	if err != nil || len(refs) == 0 {
		return Cell{}, false
	}
	row, column, err := parseCellRef(refs[0])
	if err != nil {
		return Cell{}, false
	}
	return s.Cell(row, column), true
}

// RowCount 已有数据的行数
func (s *Sheet) RowCount() int {
	if s == nil || s.workbook == nil {
		return 0
	}
	rows, err := s.workbook.file.GetRows(s.name)
	if err != nil {
		return 0
	}
	return len(rows)
}

// Cell sheet 上的一个位置，行列号都从 1 开始
type Cell struct {
	sheet  *Sheet
	row    int
	column int
}

// Row 行号
func (c Cell) Row() int {
	return c.row
}

// Column 列号
func (c Cell) Column() int {
	return c.column
}

// Ref A1 形式的单元格地址
func (c Cell) Ref() string {
	return ColumnIndexToNotation(c.column) + strconv.Itoa(c.row)
}

// Neighbor 返回指定方向上相邻一格的单元格，不检查是否越界
func (c Cell) Neighbor(direction Direction) Cell {
	switch direction {
	case Forward:
		return c.sheet.Cell(c.row, c.column+1)
	case Backward:
		return c.sheet.Cell(c.row, c.column-1)
	case Up:
		return c.sheet.Cell(c.row-1, c.column)
	default:
		return c.sheet.Cell(c.row+1, c.column)
	}
}

// Value 读取单元格的值
func (c Cell) Value() (CellValue, error) {
	if err := c.check(); err != nil {
		return CellValue{}, err
	}
	raw, err := c.sheet.workbook.file.GetCellValue(c.sheet.name, c.Ref())
	if err != nil {
		return CellValue{}, fmt.Errorf("failed to read cell %s: %w", c.Ref(), err)
	}
	return classifyValue(raw), nil
}

// SetValue 写入单元格的值
func (c Cell) SetValue(value interface{}) error {
	if err := c.check(); err != nil {
		return err
	}
	if err := c.sheet.workbook.file.SetCellValue(c.sheet.name, c.Ref(), value); err != nil {
		return fmt.Errorf("failed to write cell %s: %w", c.Ref(), err)
	}
	return nil
}

func (c Cell) check() error {
	if c.sheet == nil {
		return fmt.Errorf("cell is not bound to a sheet")
	}
	if c.row < 1 || c.column < 1 {
		return fmt.Errorf("cell position out of range: row=%d column=%d", c.row, c.column)
	}
	return nil
}

// ValueKind 单元格值的类别
type ValueKind int

const (
	// KindEmpty 空单元格
	KindEmpty ValueKind = iota
	// KindText 文本
	KindText
	// KindNumber 数值
	KindNumber
)

// CellValue 单元格标量值：空 / 文本 / 数值三种之一
type CellValue struct {
	kind   ValueKind
	raw    string
	number float64
}

// xlsx 的数值单元格不带类型标记，这里按能否解析为数值归类
func classifyValue(raw string) CellValue {
	if raw == "" {
		return CellValue{kind: KindEmpty}
	}
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		return CellValue{kind: KindNumber, raw: raw, number: n}
	}
	return CellValue{kind: KindText, raw: raw}
}

// Kind 值类别
func (v CellValue) Kind() ValueKind {
	return v.kind
}

// IsEmpty 是否为空
func (v CellValue) IsEmpty() bool {
	return v.kind == KindEmpty
}

// Text 原始文本，空单元格返回 ""
func (v CellValue) Text() string {
	return v.raw
}

// Number 数值转换，非数值单元格返回错误
func (v CellValue) Number() (float64, error) {
	if v.kind != KindNumber {
		return 0, fmt.Errorf("cell value %q is not a number", v.raw)
	}
	return v.number, nil
}

func parseCellRef(ref string) (int, int, error) {
	i := 0
	for i < len(ref) && ref[i] >= 'A' && ref[i] <= 'Z' {
		i++
	}
	column, err := ColumnNotationToIndex(ref[:i])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid cell reference %q: %w", ref, err)
	}
	row, err := strconv.Atoi(ref[i:])
	if err != nil || row < 1 {
		return 0, 0, fmt.Errorf("invalid cell reference %q", ref)
	}
	return row, column, nil
}
