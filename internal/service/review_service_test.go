package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"stylio/backend/internal/dto"
)

func setupTestReviewService() (ReviewService, *mocks) {
	repo, m := newMockRepository()
	m.seedSalon()
	return NewReviewService(repo, zap.NewNop()), m
}

func TestAddReview_Aggregate(t *testing.T) {
	svc, _ := setupTestReviewService()
	ctx := context.Background()

	steps := []struct {
		rating    int
		wantCount int
		wantAvg   float64
	}{
		{5, 1, 5},
		{4, 2, 4.5},
		{4, 3, 4.3},
		{1, 4, 3.5},
	}
	for _, s := range steps {
		resp, err := svc.AddReview(ctx, "salon-1", "user-1", &dto.ReviewRequest{Rating: s.rating, Comment: " ok "})
		if err != nil {
			t.Fatalf("AddReview 失败: %v", err)
		}
		if resp.ReviewCount != s.wantCount || resp.AverageReview != s.wantAvg {
			t.Errorf("期望 (%d, %v)，实际 (%d, %v)", s.wantCount, s.wantAvg, resp.ReviewCount, resp.AverageReview)
		}
		if resp.Review.Comment != "ok" {
			t.Errorf("评论应去除首尾空格，实际 %q", resp.Review.Comment)
		}
	}
}

func TestAddReview_InvalidRating(t *testing.T) {
	svc, m := setupTestReviewService()

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.AddReview(context.Background(), "salon-1", "", &dto.ReviewRequest{Rating: rating})
		if !errors.Is(err, ErrInvalidRating) {
			t.Errorf("评分 %d 期望 ErrInvalidRating，实际 %v", rating, err)
		}
	}
	if len(m.reviews.reviews) != 0 {
		t.Error("无效评分不应写入")
	}
}

func TestAddReview_SalonNotFound(t *testing.T) {
	svc, _ := setupTestReviewService()

	if _, err := svc.AddReview(context.Background(), "salon-404", "", &dto.ReviewRequest{Rating: 5}); !errors.Is(err, ErrSalonNotFound) {
		t.Errorf("期望 ErrSalonNotFound，实际 %v", err)
	}
}

func TestListReviews(t *testing.T) {
	svc, _ := setupTestReviewService()
	_, _ = svc.AddReview(context.Background(), "salon-1", "", &dto.ReviewRequest{Rating: 3})

	list, err := svc.ListReviews(context.Background(), "salon-1")
	if err != nil {
		t.Fatalf("ListReviews 失败: %v", err)
	}
	if len(list) != 1 || list[0].Rating != 3 {
		t.Errorf("返回值不正确: %+v", list)
	}
}
