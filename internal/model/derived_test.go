package model

import "testing"

func ratings(values ...int) []Review {
	out := make([]Review, len(values))
	for i, v := range values {
		out[i] = Review{Rating: v}
	}
	return out
}

func TestReviewAggregate(t *testing.T) {
	tests := []struct {
		name      string
		reviews   []Review
		wantCount int
		wantAvg   float64
	}{
		{"无评价", nil, 0, 0},
		{"单条", ratings(5), 1, 5},
		{"4 5 5", ratings(4, 5, 5), 3, 4.7},
		{"4 5 4", ratings(4, 5, 4), 3, 4.3},
		{"正好 .x5 时进位", ratings(4, 4, 5, 4), 4, 4.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count, avg := ReviewAggregate(tt.reviews)
			if count != tt.wantCount || avg != tt.wantAvg {
				t.Errorf("期望 (%d, %v)，实际 (%d, %v)", tt.wantCount, tt.wantAvg, count, avg)
			}
		})
	}
}

func TestMainPhoto(t *testing.T) {
	if MainPhoto(nil) != nil {
		t.Error("无照片应返回 nil")
	}

	photos := []SalonPhoto{{PhotoID: "a"}, {PhotoID: "b", IsMain: true}}
	if got := MainPhoto(photos); got.PhotoID != "b" {
		t.Errorf("期望主图 b，实际 %s", got.PhotoID)
	}

	photos[1].IsMain = false
	if got := MainPhoto(photos); got.PhotoID != "a" {
		t.Errorf("没有主图时期望第一张 a，实际 %s", got.PhotoID)
	}
}

func TestDisplayImage(t *testing.T) {
	path, image, empty := "staff/nino.webp", "https://cdn.example.com/nino.jpg", ""

	tests := []struct {
		name  string
		staff *Staff
		want  string
	}{
		{"nil", nil, ""},
		{"都没有", &Staff{}, ""},
		{"只有外部图片", &Staff{Image: &image}, image},
		{"上传照片优先", &Staff{PhotoPath: &path, Image: &image}, path},
		{"上传路径为空时用外部图片", &Staff{PhotoPath: &empty, Image: &image}, image},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DisplayImage(tt.staff); got != tt.want {
				t.Errorf("期望 %q，实际 %q", tt.want, got)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	if d, err := ParseDate("2026-10-16"); err != nil || d != "2026-10-16" {
		t.Errorf("期望 2026-10-16，实际 %q, %v", d, err)
	}
	for _, s := range []string{"", "2026-02-30", "16.10.2026", "2026-1-5"} {
		if _, err := ParseDate(s); err == nil {
			t.Errorf("%q 应解析失败", s)
		}
	}
}
