package dto

// ── 评价模块 DTO ──

// ReviewRequest 新增评价请求；评分范围由 service 层校验
type ReviewRequest struct {
	Rating  int    `json:"rating"  binding:"required"`
	Comment string `json:"comment" binding:"max=2000"`
}

// ReviewResponse 评价信息
type ReviewResponse struct {
	ID        string `json:"id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment,omitempty"`
	CreatedAt string `json:"created_at"`
}

// ReviewAggregateResponse 新增评价后的最新汇总
type ReviewAggregateResponse struct {
	Review        ReviewResponse `json:"review"`
	ReviewCount   int            `json:"review_count"`
	AverageReview float64        `json:"average_review"`
}
