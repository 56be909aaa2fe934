package model

import "math"

// ── 派生字段 ──
// 以下函数接收已加载的实体及其关联集合，返回派生值；不做任何查询。

// ReviewAggregate 计算评价数与平均分（保留一位小数）。
// 无评价时返回 (0, 0)，调用方无需处理除零。
func ReviewAggregate(reviews []Review) (count int, average float64) {
	if len(reviews) == 0 {
		return 0, 0
	}
	total := 0
	for _, r := range reviews {
		total += r.Rating
	}
	avg := float64(total) / float64(len(reviews))
	return len(reviews), math.Round(avg*10) / 10
}

// MainPhoto 返回主图；没有标记主图时退回第一张，无照片返回 nil
func MainPhoto(photos []SalonPhoto) *SalonPhoto {
	if len(photos) == 0 {
		return nil
	}
	for i := range photos {
		if photos[i].IsMain {
			return &photos[i]
		}
	}
	return &photos[0]
}

// DisplayImage 优先使用上传照片，其次外部图片，都没有返回空串
func DisplayImage(st *Staff) string {
	if st == nil {
		return ""
	}
	if st.PhotoPath != nil && *st.PhotoPath != "" {
		return *st.PhotoPath
	}
	if st.Image != nil {
		return *st.Image
	}
	return ""
}
