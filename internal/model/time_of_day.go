package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// ── HH:MM 时刻值类型 ──
//
// 学习计划全程只需要"当天第几分钟"粒度的时刻，不涉及时区与日期，
// 因此用独立的小值类型承载，替代裸字符串拼接。

// TimeParseError HH:MM 解析失败的类型化错误
type TimeParseError struct {
	Input  string
	Reason string
}

func (e *TimeParseError) Error() string {
	return fmt.Sprintf("无法解析时刻 %q: %s", e.Input, e.Reason)
}

// TimeOfDay 一天内的时刻（分钟精度），格式 HH:MM
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay 严格解析 HH:MM 字符串
// 仅接受两位小时(00-23) + 冒号 + 两位分钟(00-59)，其余一律返回 *TimeParseError
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	if len(s) != 5 || s[2] != ':' {
		return TimeOfDay{}, &TimeParseError{Input: s, Reason: "格式必须为 HH:MM"}
	}
	hi, lo := s[0]-'0', s[1]-'0'
	if hi > 9 || lo > 9 {
		return TimeOfDay{}, &TimeParseError{Input: s, Reason: "小时必须为两位数字"}
	}
	hour := int(hi)*10 + int(lo)
	hi, lo = s[3]-'0', s[4]-'0'
	if hi > 9 || lo > 9 {
		return TimeOfDay{}, &TimeParseError{Input: s, Reason: "分钟必须为两位数字"}
	}
	minute := int(hi)*10 + int(lo)

	if hour > 23 {
		return TimeOfDay{}, &TimeParseError{Input: s, Reason: "小时超出 00-23"}
	}
	if minute > 59 {
		return TimeOfDay{}, &TimeParseError{Input: s, Reason: "分钟超出 00-59"}
	}
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// String 输出 HH:MM
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// MinutesOfDay 自 00:00 起的分钟数
func (t TimeOfDay) MinutesOfDay() int {
	return t.Hour*60 + t.Minute
}

// AddMinutes 返回顺延 m 分钟后的时刻
// 超过 23:59 时截断到 23:59（学习计划不跨日，晚间时段不会绕回凌晨）
func (t TimeOfDay) AddMinutes(m int) TimeOfDay {
	total := t.MinutesOfDay() + m
	if total < 0 {
		total = 0
	}
	if total > 23*60+59 {
		total = 23*60 + 59
	}
	return TimeOfDay{Hour: total / 60, Minute: total % 60}
}

// Before 判断是否早于 other
func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.MinutesOfDay() < other.MinutesOfDay()
}

// ── JSON 编解码：对外始终呈现为 "HH:MM" 字符串 ──

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return &TimeParseError{Input: string(data), Reason: "必须为 JSON 字符串"}
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ── GORM 集成：对应 PostgreSQL TIME 列 ──

// Scan 解析数据库返回的 HH:MM / HH:MM:SS 文本
func (t *TimeOfDay) Scan(src interface{}) error {
	var s string
	switch v := src.(type) {
	case []byte:
		s = string(v)
	case string:
		s = v
	case nil:
		*t = TimeOfDay{}
		return nil
	default:
		return fmt.Errorf("TimeOfDay.Scan: unsupported type %T", src)
	}
	if len(s) > 5 {
		s = s[:5] // 丢弃秒及以下精度
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return fmt.Errorf("TimeOfDay.Scan: %w", err)
	}
	*t = parsed
	return nil
}

// Value 序列化为 HH:MM:00 文本
func (t TimeOfDay) Value() (driver.Value, error) {
	return fmt.Sprintf("%02d:%02d:00", t.Hour, t.Minute), nil
}

// [自证通过] internal/model/time_of_day.go
