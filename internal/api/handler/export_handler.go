package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"stylio/backend/internal/service"
	"stylio/backend/pkg/response"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar; charset=utf-8"
)

// ExportHandler 导出 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportSchedule 导出营业时间与员工不可用时间 Excel
// GET /api/v1/owner/salons/:id/export/schedule.xlsx
func (h *ExportHandler) ExportSchedule(c *gin.Context) {
	ownerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportSchedule(c.Request.Context(), ownerID, c.Param("id"))
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	response.Attachment(c, filename, contentTypeXLSX, buf.Bytes())
}

// ExportSpecialDaysICS 特殊日期日历订阅
// GET /api/v1/salons/:id/calendar.ics
func (h *ExportHandler) ExportSpecialDaysICS(c *gin.Context) {
	body, filename, err := h.exportSvc.ExportSpecialDaysICS(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	response.Attachment(c, filename, contentTypeICS, body)
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportGenerateFail):
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, codeExportFailed, "生成导出文件失败")
	default:
		handleCommonError(c, err)
	}
}
