package storage

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chai2010/webp"
	"go.uber.org/zap"

	"stylio/backend/config"
)

func newTestStorage(t *testing.T) *Local {
	t.Helper()
	s, err := NewLocal(&config.UploadConfig{
		Dir:               t.TempDir(),
		PublicPrefix:      "/static/uploads/",
		MaxBytes:          1 << 20,
		AllowedExtensions: []string{"jpg", "jpeg", "png", "webp"},
		Quality:           80,
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewLocal 失败: %v", err)
	}
	return s
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		t.Fatalf("编码 PNG 失败: %v", err)
	}
	return buf.Bytes()
}

func TestSaveImage_ResizesAndConvertsToWebP(t *testing.T) {
	s := newTestStorage(t)

	rel, format, err := s.SaveImage("salons", "photo.png", bytes.NewReader(pngBytes(t, 400, 200)), 100)
	if err != nil {
		t.Fatalf("SaveImage 失败: %v", err)
	}
	if format != FormatWebP {
		t.Errorf("期望格式 webp，实际 %s", format)
	}
	if !strings.HasPrefix(rel, "salons/") || !strings.HasSuffix(rel, ".webp") {
		t.Errorf("相对路径异常: %s", rel)
	}

	f, err := os.Open(filepath.Join(s.BaseDir(), rel))
	if err != nil {
		t.Fatalf("打开文件失败: %v", err)
	}
	defer f.Close()
	cfg, err := webp.DecodeConfig(f)
	if err != nil {
		t.Fatalf("读取 WEBP 失败: %v", err)
	}
	if cfg.Width != 100 || cfg.Height != 50 {
		t.Errorf("期望缩放为 100x50，实际 %dx%d", cfg.Width, cfg.Height)
	}
}

func TestSaveImage_FallbackToOriginal(t *testing.T) {
	s := newTestStorage(t)

	// 扩展名合法但内容不是图片
	rel, format, err := s.SaveImage("staff", "broken.jpg", strings.NewReader("not an image"), 100)
	if err != nil {
		t.Fatalf("SaveImage 失败: %v", err)
	}
	if format != FormatOriginal {
		t.Errorf("期望退回原图，实际 %s", format)
	}
	if !strings.HasSuffix(rel, ".jpg") {
		t.Errorf("期望保留原扩展名，实际 %s", rel)
	}
	data, err := os.ReadFile(filepath.Join(s.BaseDir(), rel))
	if err != nil || string(data) != "not an image" {
		t.Errorf("原图内容不一致: %v", err)
	}
}

func TestSaveImage_Rejections(t *testing.T) {
	s := newTestStorage(t)

	if _, _, err := s.SaveImage("salons", "doc.pdf", strings.NewReader("x"), 0); err != ErrUnsupportedExtension {
		t.Errorf("期望 ErrUnsupportedExtension，实际 %v", err)
	}
	if _, _, err := s.SaveImage("salons", "a.png", strings.NewReader(""), 0); err != ErrEmptyFile {
		t.Errorf("期望 ErrEmptyFile，实际 %v", err)
	}
	big := bytes.Repeat([]byte{1}, (1<<20)+1)
	if _, _, err := s.SaveImage("salons", "a.png", bytes.NewReader(big), 0); err != ErrFileTooLarge {
		t.Errorf("期望 ErrFileTooLarge，实际 %v", err)
	}
}

func TestDelete_OnlyInsideBaseDir(t *testing.T) {
	s := newTestStorage(t)

	outside := filepath.Join(t.TempDir(), "keep.txt")
	if err := os.WriteFile(outside, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	rel, err := filepath.Rel(s.BaseDir(), outside)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(filepath.ToSlash(rel)); err != nil {
		t.Fatalf("Delete 不应报错: %v", err)
	}
	if _, err := os.Stat(outside); err != nil {
		t.Error("上传目录之外的文件不应被删除")
	}

	saved, _, err := s.SaveImage("salons", "p.png", bytes.NewReader(pngBytes(t, 10, 10)), 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(saved); err != nil {
		t.Fatalf("Delete 失败: %v", err)
	}
	if _, err := os.Stat(filepath.Join(s.BaseDir(), saved)); !os.IsNotExist(err) {
		t.Error("文件应已删除")
	}
	// 重复删除不报错
	if err := s.Delete(saved); err != nil {
		t.Errorf("重复删除不应报错: %v", err)
	}
}

func TestURL(t *testing.T) {
	s := newTestStorage(t)

	if got := s.URL("salons/a.webp"); got != "/static/uploads/salons/a.webp" {
		t.Errorf("URL 异常: %s", got)
	}
	if got := s.URL("https://cdn.example.com/a.jpg"); got != "https://cdn.example.com/a.jpg" {
		t.Errorf("外部 URL 应原样返回: %s", got)
	}
	if got := s.URL(""); got != "" {
		t.Errorf("空路径应返回空串: %s", got)
	}
}
