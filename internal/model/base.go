package model

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DateLayout 日期字段统一格式
const DateLayout = "2006-01-02"

// ── 日期自定义类型 ──

// Date 对应 DATE 列，以 "2006-01-02" 文本读写，实现 GORM Scanner/Valuer 接口。
// PostgreSQL 返回 time.Time，SQLite 返回文本，两种情况统一为同一表示。
type Date string

// ParseDate 解析 YYYY-MM-DD 文本
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", fmt.Errorf("无效的日期 %q: %w", s, err)
	}
	return Date(t.Format(DateLayout)), nil
}

// DateOf 取时间的日历日期（按其自身时区）
func DateOf(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

// Time 返回该日期在 loc 时区的零点
func (d Date) Time(loc *time.Location) time.Time {
	t, err := time.ParseInLocation(DateLayout, string(d), loc)
	if err != nil {
		return time.Time{}
	}
	return t
}

// String 实现 fmt.Stringer
func (d Date) String() string { return string(d) }

// Scan 将数据库返回值解析为 Date。
func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*d = ""
		return nil
	case time.Time:
		*d = Date(v.Format(DateLayout))
		return nil
	case []byte:
		return d.scanText(string(v))
	case string:
		return d.scanText(v)
	default:
		return fmt.Errorf("Date.Scan: unsupported type %T", src)
	}
}

func (d *Date) scanText(s string) error {
	if len(s) < len(DateLayout) {
		return fmt.Errorf("Date.Scan: invalid value %q", s)
	}
	parsed, err := ParseDate(s[:len(DateLayout)])
	if err != nil {
		return fmt.Errorf("Date.Scan: %w", err)
	}
	*d = parsed
	return nil
}

// Value 将 Date 序列化为 YYYY-MM-DD 文本。
func (d Date) Value() (driver.Value, error) {
	if d == "" {
		return nil, nil
	}
	return string(d), nil
}

// BaseModel 通用审计字段（业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// newID 生成主键；主键由应用层生成，SQLite 与 PostgreSQL 行为一致
func newID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}
