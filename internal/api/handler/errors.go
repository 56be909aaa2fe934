package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"stylio/backend/internal/availability"
	"stylio/backend/internal/service"
	"stylio/backend/pkg/response"
	"stylio/backend/pkg/storage"
)

// 业务错误码: 10xxx 通用, 11xxx 认证, 12xxx 沙龙, 13xxx 服务/员工,
// 14xxx 照片, 15xxx 营业时间与可用性, 16xxx 评价, 17xxx 导出
const (
	codeInvalidParams = 10001

	codeInvalidCredentials = 11001
	codeEmailExists        = 11002
	codeInvalidRefresh     = 11003
	codeUserNotFound       = 11004

	codeSalonNotFound  = 12001
	codeSalonNotOwner  = 12002
	codeInvalidMapLink = 12003

	codeServiceNotFound   = 13001
	codeStaffNotFound     = 13002
	codeSkillNotInSalon   = 13003
	codeStaffNoSkill      = 13004
	codeStaffPhotoMissing = 13005

	codePhotoNotFound    = 14001
	codePhotoLimit       = 14002
	codeUnsupportedImage = 14003
	codeFileTooLarge     = 14004
	codeEmptyFile        = 14005

	codeDayClosed          = 15001
	codeOutsideHours       = 15002
	codeInvalidTimeSlot    = 15003
	codeInvalidDate        = 15004
	codeInvalidHours       = 15005
	codeInvalidWeekday     = 15006
	codeWeeklyNotFound     = 15007
	codeSpecialDayNotFound = 15008
	codeStaffUnavailable   = 15009

	codeInvalidRating = 16001

	codeExportFailed = 17001
)

// slotDetails 取出错误携带的具体值
func slotDetails(err error) string {
	var slotErr *availability.SlotError
	if errors.As(err, &slotErr) {
		return slotErr.Time
	}
	return ""
}

// handleBindError 时间、日期格式不合法时按对应业务错误返回并带上原始值，其余为通用参数错误
func handleBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			value := fieldValue(fe.Value())
			switch {
			case fe.Tag() == "isodate":
				handleCommonError(c, &availability.SlotError{Err: availability.ErrInvalidDate, Time: value})
				return
			case fe.Tag() == "hhmm" && (fe.StructField() == "StartTime" || fe.StructField() == "EndTime"):
				handleCommonError(c, &availability.SlotError{Err: availability.ErrInvalidHours, Time: value})
				return
			case fe.Tag() == "hhmm":
				handleCommonError(c, &availability.SlotError{Err: availability.ErrInvalidTimeSlot, Time: value})
				return
			}
		}
	}
	response.BadRequest(c, codeInvalidParams, "参数校验失败")
}

func fieldValue(v interface{}) string {
	if p, ok := v.(*string); ok {
		if p == nil {
			return ""
		}
		return *p
	}
	return fmt.Sprint(v)
}

// handleCommonError 处理各模块共享的业务错误，未识别的错误返回 500
func handleCommonError(c *gin.Context, err error) {
	switch {
	// 沙龙归属
	case errors.Is(err, service.ErrSalonNotFound):
		response.NotFound(c, codeSalonNotFound, "沙龙不存在")
	case errors.Is(err, service.ErrSalonNotOwner):
		response.Forbidden(c, codeSalonNotOwner, "无权管理该沙龙")
	case errors.Is(err, service.ErrStaffNotFound):
		response.NotFound(c, codeStaffNotFound, "员工不存在")
	case errors.Is(err, service.ErrServiceNotFound):
		response.NotFound(c, codeServiceNotFound, "服务项目不存在")

	// 营业时间规则
	case errors.Is(err, availability.ErrDayClosed):
		response.Unprocessable(c, codeDayClosed, "当天不营业", "")
	case errors.Is(err, availability.ErrOutsideWorkingHours):
		response.Unprocessable(c, codeOutsideHours, "时间不在营业时间内", slotDetails(err))
	case errors.Is(err, availability.ErrInvalidTimeSlot):
		response.Unprocessable(c, codeInvalidTimeSlot, "无效的时段", slotDetails(err))
	case errors.Is(err, availability.ErrInvalidDate):
		response.ErrorWithDetails(c, http.StatusBadRequest, codeInvalidDate, "无效的日期", slotDetails(err))
	case errors.Is(err, availability.ErrInvalidHours):
		response.ErrorWithDetails(c, http.StatusBadRequest, codeInvalidHours, "营业时需同时提供开始与结束时间，且开始早于结束", slotDetails(err))
	case errors.Is(err, availability.ErrInvalidWeekday):
		response.BadRequest(c, codeInvalidWeekday, "星期必须在 0-6 之间")

	// 图片
	case errors.Is(err, service.ErrUnsupportedImage), errors.Is(err, storage.ErrUnsupportedExtension):
		response.BadRequest(c, codeUnsupportedImage, "仅支持 jpg、jpeg、png、webp 图片")
	case errors.Is(err, storage.ErrFileTooLarge):
		response.Error(c, http.StatusRequestEntityTooLarge, codeFileTooLarge, "图片过大")
	case errors.Is(err, storage.ErrEmptyFile):
		response.BadRequest(c, codeEmptyFile, "图片内容为空")

	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}
