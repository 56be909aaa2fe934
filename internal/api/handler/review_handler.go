package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"stylio/backend/internal/dto"
	"stylio/backend/internal/service"
	"stylio/backend/pkg/response"
)

// ReviewHandler 评价 HTTP 处理器
type ReviewHandler struct {
	reviewSvc service.ReviewService
}

// NewReviewHandler 创建 ReviewHandler
func NewReviewHandler(reviewSvc service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewSvc: reviewSvc}
}

// ListReviews GET /api/v1/salons/:id/reviews
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	reviews, err := h.reviewSvc.ListReviews(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleReviewError(c, err)
		return
	}
	response.OK(c, gin.H{"list": reviews})
}

// AddReview 发表评价，返回最新的评价数与平均分
// POST /api/v1/salons/:id/reviews
func (h *ReviewHandler) AddReview(c *gin.Context) {
	var req dto.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, codeInvalidParams, "参数校验失败")
		return
	}
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.reviewSvc.AddReview(c.Request.Context(), c.Param("id"), userID, &req)
	if err != nil {
		h.handleReviewError(c, err)
		return
	}
	response.Created(c, result)
}

func (h *ReviewHandler) handleReviewError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidRating):
		response.BadRequest(c, codeInvalidRating, "评分必须在 1 到 5 之间")
	default:
		handleCommonError(c, err)
	}
}
