package billing

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/k-ymmt/invoice-maker/internal/config"
	"github.com/k-ymmt/invoice-maker/internal/model"
	"github.com/k-ymmt/invoice-maker/internal/service/excel"
	"github.com/k-ymmt/invoice-maker/internal/store"
)

// Service 一次表单提交的完整处理：解析请求月 → 提取明细 → 生成请求书
type Service struct {
	documents config.DocumentsConfig
	store     *store.Store

	detailLayout  excel.DetailLayout
	invoiceLayout excel.InvoiceLayout
	now           func() time.Time

	// 同名 sheet 的检查和克隆必须原子，提交串行化
	mu sync.Mutex
}

// Result 一次提交的处理结果
type Result struct {
	Status    string `json:"status"`
	SheetName string `json:"sheetName,omitempty"`
	Detail    string `json:"detail,omitempty"`
}

// NewService 创建服务，store 可为 nil（不记录运行日志）
func NewService(documents config.DocumentsConfig, st *store.Store) *Service {
	return &Service{
		documents:     documents,
		store:         st,
		detailLayout:  excel.DefaultDetailLayout(),
		invoiceLayout: excel.DefaultInvoiceLayout(),
		now:           time.Now,
	}
}

// Submit 处理一次表单提交事件
func (s *Service) Submit(submission model.FormSubmission) (*Result, error) {
	raw, ok := submission.BillingMonth()
	if !ok {
		return nil, fmt.Errorf("%w: item %q is missing", model.ErrMalformedPeriod, model.BillingMonthItemTitle)
	}
	period, err := model.ParseBillingPeriod(raw)
	if err != nil {
		return nil, err
	}
	return s.GenerateForPeriod(period)
}

// GenerateForPeriod 为指定请求月提取明细并生成请求书
// 来源 sheet 或明细不存在属于常态（该月没有提交），按 skipped 静默返回
func (s *Service) GenerateForPeriod(period model.BillingPeriod) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.extract(period)
	if err != nil {
		s.logRun(period, "", model.RunStatusFailed, err.Error())
		return nil, err
	}
	if record == nil {
		detail := fmt.Sprintf("work detail for sheet %q not found", period.SheetName())
		log.Printf("skip generation: %s", detail)
		s.logRun(period, "", model.RunStatusSkipped, detail)
		return &Result{Status: model.RunStatusSkipped, Detail: detail}, nil
	}

	if err := s.generate(record, period); err != nil {
		s.logRun(period, record.Name, model.RunStatusFailed, err.Error())
		return nil, err
	}

	s.logRun(period, record.Name, model.RunStatusGenerated, "")
	return &Result{Status: model.RunStatusGenerated, SheetName: record.Name}, nil
}

// extract 打开工作明细工作簿并提取记录，sheet 不存在时返回 (nil, nil)
func (s *Service) extract(period model.BillingPeriod) (*model.WorkRecord, error) {
	workbook, err := excel.OpenWorkbook(s.documents.WorkDetailPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open work detail workbook: %w", err)
	}
	defer workbook.Close()

	sheet, ok := workbook.Sheet(period.SheetName())
	if !ok {
		return nil, nil
	}

	return excel.NewExtractor(s.detailLayout).Extract(sheet)
}

// generate 打开请求书工作簿、生成 sheet 并保存
func (s *Service) generate(record *model.WorkRecord, period model.BillingPeriod) error {
	workbook, err := excel.OpenWorkbook(s.documents.InvoicePath)
	if err != nil {
		return fmt.Errorf("failed to open invoice workbook: %w", err)
	}
	defer workbook.Close()

	generator, err := excel.NewGenerator(workbook, s.invoiceLayout, s.now)
	if err != nil {
		return err
	}
	if _, err := generator.Generate(record, period); err != nil {
		return err
	}
	if err := workbook.Save(); err != nil {
		return fmt.Errorf("failed to save invoice workbook: %w", err)
	}
	return nil
}

// logRun 写运行记录，失败只打日志不影响主流程
func (s *Service) logRun(period model.BillingPeriod, sheetName, status, detail string) {
	if s.store == nil {
		return
	}
	run := model.GenerationRun{
		ID:        uuid.New().String(),
		Period:    period.String(),
		SheetName: sheetName,
		Status:    status,
		Detail:    detail,
	}
	if err := s.store.CreateGenerationRun(run); err != nil {
		log.Printf("failed to record generation run: %v", err)
	}
}
