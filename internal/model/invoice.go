package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SentinelItemName 明细表的结束行项目（工程管理行），提取到该行即停止
const SentinelItemName = "工程管理"

// BillingMonthItemTitle 表单中请求月字段的标题
const BillingMonthItemTitle = "請求月"

// ErrMalformedPeriod 请求月格式错误（期望 YYYY-M）
var ErrMalformedPeriod = errors.New("malformed billing month")

// FormItemResponse 表单中单个问题的回答
type FormItemResponse struct {
	Title  string `json:"title"`
	Answer string `json:"answer"`
}

// FormSubmission 一次表单提交事件
type FormSubmission struct {
	Responses []FormItemResponse `json:"responses"`
}

// BillingMonth 取出请求月字段的原始值，其余字段忽略
func (s FormSubmission) BillingMonth() (string, bool) {
	for _, r := range s.Responses {
		if r.Title == BillingMonthItemTitle {
			return r.Answer, true
		}
	}
	return "", false
}

// BillingPeriod 请求月（年+月）
type BillingPeriod struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// ParseBillingPeriod 解析 "YYYY-M" 形式的请求月
func ParseBillingPeriod(s string) (BillingPeriod, error) {
	parts := strings.SplitN(strings.TrimSpace(s), "-", 2)
	if len(parts) != 2 {
		return BillingPeriod{}, fmt.Errorf("%w: %q", ErrMalformedPeriod, s)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return BillingPeriod{}, fmt.Errorf("%w: %q", ErrMalformedPeriod, s)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 || year < 1 {
		return BillingPeriod{}, fmt.Errorf("%w: %q", ErrMalformedPeriod, s)
	}
	return BillingPeriod{Year: year, Month: month}, nil
}

// SheetName 对应的工作明细 sheet 名，如 "2024-5月分"
// xlsx 的 sheet 名不允许包含 : \ / ? * [ ]，年月分隔用 "-"
func (p BillingPeriod) SheetName() string {
	return fmt.Sprintf("%d-%d月分", p.Year, p.Month)
}

// EndOfMonth 请求月的最后一天
func (p BillingPeriod) EndOfMonth() time.Time {
	return time.Date(p.Year, time.Month(p.Month)+1, 0, 0, 0, 0, 0, time.Local)
}

// String 还原为 "YYYY-M" 形式
func (p BillingPeriod) String() string {
	return fmt.Sprintf("%d-%d", p.Year, p.Month)
}

// LineItem 工作明细表中的一行项目
type LineItem struct {
	Name         string  `json:"name"`
	RequiredUnit float64 `json:"requiredUnit"`
	UnitPrice    float64 `json:"unitPrice"`
	Amount       float64 `json:"amount"`
	Unit         string  `json:"unit"`
	Subtotal     float64 `json:"subtotal"`
}

// WorkRecord 一个请求月的工作明细提取结果
type WorkRecord struct {
	Name     string     `json:"name"`
	Items    []LineItem `json:"items"`
	Subtotal float64    `json:"subtotal"`
	Tax      float64    `json:"tax"`
	Total    float64    `json:"total"`
}

// 生成运行状态
const (
	RunStatusGenerated = "generated"
	RunStatusSkipped   = "skipped"
	RunStatusFailed    = "failed"
)

// GenerationRun 一次请求书生成的运行记录
type GenerationRun struct {
	ID        string    `json:"id"`
	Period    string    `json:"period"`
	SheetName string    `json:"sheetName"`
	Status    string    `json:"status"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
