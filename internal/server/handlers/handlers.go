package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/k-ymmt/invoice-maker/internal/model"
	"github.com/k-ymmt/invoice-maker/internal/service/billing"
	"github.com/k-ymmt/invoice-maker/internal/service/excel"
	"github.com/k-ymmt/invoice-maker/internal/store"
)

// Handlers API处理器
type Handlers struct {
	billing *billing.Service
	store   *store.Store
}

// NewHandlers 创建处理器，store 可为 nil
func NewHandlers(billingService *billing.Service, st *store.Store) *Handlers {
	return &Handlers{
		billing: billingService,
		store:   st,
	}
}

// Response 通用响应
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, Response{
		Code:    status,
		Message: message,
	})
}

// RegisterRoutes 注册路由
func (h *Handlers) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/health", h.Health)
	api.POST("/form/submit", h.SubmitForm)
	api.GET("/runs", h.ListRuns)
}

// Health 健康检查
func (h *Handlers) Health(c *gin.Context) {
	success(c, gin.H{"status": "ok"})
}

// SubmitForm 表单提交 webhook：为请求月生成请求书
func (h *Handlers) SubmitForm(c *gin.Context) {
	var submission model.FormSubmission
	if err := c.ShouldBindJSON(&submission); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	result, err := h.billing.Submit(submission)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrMalformedPeriod):
			fail(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, excel.ErrSheetExists):
			fail(c, http.StatusConflict, err.Error())
		default:
			fail(c, http.StatusInternalServerError, err.Error())
		}
		return
	}

	success(c, result)
}

// ListRuns 列出最近的生成运行记录
func (h *Handlers) ListRuns(c *gin.Context) {
	if h.store == nil {
		success(c, []model.GenerationRun{})
		return
	}

	runs, err := h.store.ListGenerationRuns(50)
	if err != nil {
		fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	success(c, runs)
}
