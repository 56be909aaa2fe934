package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"stylio/backend/internal/dto"
	"stylio/backend/internal/model"
	"stylio/backend/internal/repository"
)

// ── 评价模块业务错误 ──

var (
	ErrInvalidRating = errors.New("评分必须在 1 到 5 之间")
)

// ReviewService 评价业务接口
type ReviewService interface {
	ListReviews(ctx context.Context, salonID string) ([]dto.ReviewResponse, error)
	// AddReview 新增评价并返回最新的评价数与平均分
	AddReview(ctx context.Context, salonID, userID string, req *dto.ReviewRequest) (*dto.ReviewAggregateResponse, error)
}

type reviewService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewReviewService 创建 ReviewService 实例
func NewReviewService(repo *repository.Repository, logger *zap.Logger) ReviewService {
	return &reviewService{repo: repo, logger: logger}
}

func (s *reviewService) ListReviews(ctx context.Context, salonID string) ([]dto.ReviewResponse, error) {
	if err := ensureSalon(ctx, s.repo, s.logger, salonID); err != nil {
		return nil, err
	}
	reviews, err := s.repo.Review.ListBySalon(ctx, salonID)
	if err != nil {
		s.logger.Error("列出评价失败", zap.String("salon_id", salonID), zap.Error(err))
		return nil, err
	}
	result := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		result = append(result, toReviewResponse(&reviews[i]))
	}
	return result, nil
}

func (s *reviewService) AddReview(ctx context.Context, salonID, userID string, req *dto.ReviewRequest) (*dto.ReviewAggregateResponse, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, ErrInvalidRating
	}
	if err := ensureSalon(ctx, s.repo, s.logger, salonID); err != nil {
		return nil, err
	}

	review := &model.Review{
		SalonID: salonID,
		Rating:  req.Rating,
		Comment: strings.TrimSpace(req.Comment),
	}
	if userID != "" {
		review.UserID = &userID
	}
	if err := s.repo.Review.Create(ctx, review); err != nil {
		s.logger.Error("创建评价失败", zap.String("salon_id", salonID), zap.Error(err))
		return nil, err
	}

	reviews, err := s.repo.Review.ListBySalon(ctx, salonID)
	if err != nil {
		s.logger.Error("列出评价失败", zap.String("salon_id", salonID), zap.Error(err))
		return nil, err
	}
	count, avg := model.ReviewAggregate(reviews)

	return &dto.ReviewAggregateResponse{
		Review:        toReviewResponse(review),
		ReviewCount:   count,
		AverageReview: avg,
	}, nil
}
