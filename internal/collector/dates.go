package collector

import (
	"strconv"
	"strings"
	"time"
)

// 绝对日期格式，按顺序尝试；靠后的四个不带年份，解析后补参考年份。
// 斜线/横线格式优先按美式月在前解释
var dateLayouts = []string{
	"2006-01-02",
	"Jan 2, 2006",
	"2 Jan 2006",
	"January 2, 2006",
	"2 January 2006",
	"1/2/2006",
	"2/1/2006",
	"2006/1/2",
	"1-2-2006",
	"2-1-2006",
	"Jan 2",
	"2 Jan",
	"January 2",
	"2 January",
}

// NormalizeDate 把站点上各式各样的时间文案归一为时间戳。
// 只依赖输入文本和参考时刻 now，永不报错：
//  1. 含 "ago" 的相对时间（3 hours ago 等）
//  2. today / yesterday
//  3. 依次尝试 dateLayouts 中的绝对格式，缺年份补 now 的年份
//  4. 都不匹配时退回 now
func NormalizeDate(raw string, now time.Time) time.Time {
	text := strings.TrimSpace(raw)
	if text == "" {
		return now
	}
	lower := strings.ToLower(text)

	if strings.Contains(lower, "ago") {
		return normalizeRelative(lower, now)
	}
	if strings.Contains(lower, "today") {
		return now
	}
	if strings.Contains(lower, "yesterday") {
		return now.Add(-24 * time.Hour)
	}

	// 绝对格式用原始文本解析：time.Parse 对月份名大小写敏感
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, text)
		if err != nil {
			continue
		}
		if t.Year() == 0 {
			t = time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
		}
		return t
	}
	return now
}

// normalizeRelative 解析 "5 minutes ago" 一类文案。
// 单位按 分钟/小时/天/周/月 顺序识别，月按 30 天近似；
// 取不到数字或单位不认识时退回 now
func normalizeRelative(lower string, now time.Time) time.Time {
	n, ok := firstInt(lower)
	if !ok {
		return now
	}
	d := time.Duration(n)
	switch {
	case strings.Contains(lower, "minute"), strings.Contains(lower, "min"):
		return now.Add(-d * time.Minute)
	case strings.Contains(lower, "hour"), strings.Contains(lower, "hr"):
		return now.Add(-d * time.Hour)
	case strings.Contains(lower, "day"):
		return now.Add(-d * 24 * time.Hour)
	case strings.Contains(lower, "week"):
		return now.Add(-d * 7 * 24 * time.Hour)
	case strings.Contains(lower, "month"):
		return now.Add(-d * 30 * 24 * time.Hour)
	}
	return now
}

// firstInt 返回字符串中第一段连续数字
func firstInt(s string) (int, bool) {
	start := -1
	for i, r := range s {
		if r >= '0' && r <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			n, err := strconv.Atoi(s[start:i])
			return n, err == nil
		}
	}
	if start >= 0 {
		n, err := strconv.Atoi(s[start:])
		return n, err == nil
	}
	return 0, false
}
