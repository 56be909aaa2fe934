package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"stylio/backend/config"
)

var (
	ErrUnsupportedExtension = errors.New("不支持的图片格式")
	ErrFileTooLarge         = errors.New("图片文件过大")
	ErrEmptyFile            = errors.New("图片文件为空")
)

// 保存结果格式
const (
	FormatWebP     = "webp"
	FormatOriginal = "original"
)

// Local 本地磁盘图片存储
// 所有路径以相对上传目录的形式入库，如 salons/xxx.webp
type Local struct {
	baseDir      string
	publicPrefix string
	maxBytes     int64
	allowed      map[string]struct{}
	quality      float32
	logger       *zap.Logger
}

// NewLocal 创建本地存储并确保上传目录存在
func NewLocal(cfg *config.UploadConfig, logger *zap.Logger) (*Local, error) {
	base, err := filepath.Abs(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("解析上传目录失败: %w", err)
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, fmt.Errorf("创建上传目录失败: %w", err)
	}

	allowed := make(map[string]struct{}, len(cfg.AllowedExtensions))
	for _, ext := range cfg.AllowedExtensions {
		allowed[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
	}
	quality := cfg.Quality
	if quality <= 0 || quality > 100 {
		quality = 80
	}

	return &Local{
		baseDir:      base,
		publicPrefix: strings.TrimSuffix(cfg.PublicPrefix, "/"),
		maxBytes:     cfg.MaxBytes,
		allowed:      allowed,
		quality:      float32(quality),
		logger:       logger,
	}, nil
}

// BaseDir 上传根目录（绝对路径），静态文件路由使用
func (s *Local) BaseDir() string { return s.baseDir }

// Allowed 判断文件扩展名是否允许上传
func (s *Local) Allowed(filename string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if ext == "" {
		return false
	}
	_, ok := s.allowed[ext]
	return ok
}

// SaveImage 保存上传图片：按最长边 maxSide 等比缩小并转为 WEBP。
// 解码或编码失败时原样保存，不阻断上传。返回相对路径与实际格式。
func (s *Local) SaveImage(subdir, filename string, r io.Reader, maxSide int) (string, string, error) {
	if !s.Allowed(filename) {
		return "", "", ErrUnsupportedExtension
	}

	limit := s.maxBytes
	if limit <= 0 {
		limit = 4 << 20
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return "", "", fmt.Errorf("读取上传文件失败: %w", err)
	}
	if len(data) == 0 {
		return "", "", ErrEmptyFile
	}
	if int64(len(data)) > limit {
		return "", "", ErrFileTooLarge
	}

	dir := filepath.Join(s.baseDir, filepath.Clean("/"+subdir))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("创建目录失败: %w", err)
	}

	name := uuid.NewString()
	encoded, err := s.toWebP(data, maxSide)
	if err != nil {
		s.logger.Warn("图片转换 WEBP 失败，保存原图",
			zap.String("filename", filename), zap.Error(err))
		ext := strings.ToLower(filepath.Ext(filename))
		rel := path.Join(subdir, name+ext)
		if err := os.WriteFile(filepath.Join(dir, name+ext), data, 0o644); err != nil {
			return "", "", fmt.Errorf("保存图片失败: %w", err)
		}
		return rel, FormatOriginal, nil
	}

	rel := path.Join(subdir, name+".webp")
	if err := os.WriteFile(filepath.Join(dir, name+".webp"), encoded, 0o644); err != nil {
		return "", "", fmt.Errorf("保存图片失败: %w", err)
	}
	return rel, FormatWebP, nil
}

func (s *Local) toWebP(data []byte, maxSide int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("解码失败: %w", err)
	}
	img = fitMaxSide(img, maxSide)

	buf := new(bytes.Buffer)
	if err := webp.Encode(buf, img, &webp.Options{Lossless: false, Quality: s.quality}); err != nil {
		return nil, fmt.Errorf("编码失败: %w", err)
	}
	return buf.Bytes(), nil
}

// fitMaxSide 最长边超过 maxSide 时等比缩小，否则原样返回
func fitMaxSide(img image.Image, maxSide int) image.Image {
	if maxSide <= 0 {
		return img
	}
	b := img.Bounds()
	if b.Dx() <= maxSide && b.Dy() <= maxSide {
		return img
	}
	return imaging.Fit(img, maxSide, maxSide, imaging.Lanczos)
}

// Delete 删除上传目录内的文件；目录外路径与不存在的文件静默忽略
func (s *Local) Delete(rel string) error {
	if rel == "" {
		return nil
	}
	abs, ok := s.resolve(rel)
	if !ok {
		s.logger.Warn("拒绝删除上传目录之外的文件", zap.String("path", rel))
		return nil
	}
	if err := os.Remove(abs); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("删除文件失败: %w", err)
	}
	return nil
}

// resolve 将相对路径解析为上传目录内的绝对路径
func (s *Local) resolve(rel string) (string, bool) {
	abs, err := filepath.Abs(filepath.Join(s.baseDir, filepath.FromSlash(rel)))
	if err != nil {
		return "", false
	}
	if !strings.HasPrefix(abs, s.baseDir+string(os.PathSeparator)) {
		return "", false
	}
	return abs, true
}

// URL 返回文件的公开访问路径；外部 URL 原样返回
func (s *Local) URL(rel string) string {
	if rel == "" {
		return ""
	}
	if strings.HasPrefix(rel, "http://") || strings.HasPrefix(rel, "https://") {
		return rel
	}
	return s.publicPrefix + "/" + strings.TrimPrefix(rel, "/")
}
