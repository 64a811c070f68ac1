package cutoff

import (
	"fmt"
	"strings"
	"time"
)

// 未設定・解析不能のときの既定締め切り（当日18:00）
const (
	DefaultHour   = 18
	DefaultMinute = 0
)

// 日時指定として受け付けるレイアウト（先頭から順に試す）
var dateTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02 15:04",
	time.RFC3339,
}

// Resultは締め切り判定の結果。
// FellBackがtrueのときは指定文字列が解析できず既定値に落ちている。
// 呼び出し側はFellBackをログに残すこと。
type Result struct {
	Passed    bool
	Deadline  time.Time
	Remaining time.Duration
	FellBack  bool
}

// Evaluateは締め切り指定specと現在時刻nowから受付可否を判定する。
// specは "HH:MM"（当日扱い）または日時レイアウトのいずれか。
// 純粋関数：同じ入力には常に同じ結果を返す。
func Evaluate(spec string, now time.Time) Result {
	deadline, fellBack := parseDeadline(spec, now)

	res := Result{
		Deadline: deadline,
		FellBack: fellBack,
	}

	if !now.Before(deadline) {
		res.Passed = true
		return res
	}

	res.Remaining = deadline.Sub(now)
	return res
}

// Messageは利用者向けの状態メッセージを返す。
func (r Result) Message() string {
	formatted := r.Deadline.Format("2006-01-02 15:04")

	if r.Passed {
		return fmt.Sprintf("締め切りました（%s）", formatted)
	}

	// 日/時間/分に分解（切り捨て）
	total := int64(r.Remaining.Minutes())
	days := total / (24 * 60)
	hours := (total % (24 * 60)) / 60
	minutes := total % 60

	if days > 0 {
		return fmt.Sprintf("締め切りまで残り%d日%d時間%d分（%s）", days, hours, minutes, formatted)
	}
	return fmt.Sprintf("締め切りまで残り%d時間%d分（%s）", hours, minutes, formatted)
}

func parseDeadline(spec string, now time.Time) (time.Time, bool) {
	s := strings.TrimSpace(spec)
	loc := now.Location()

	// "HH:MM" は当日の時刻として解釈する
	if t, err := time.Parse("15:04", s); err == nil {
		return time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, loc), false
	}

	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, false
		}
	}

	// どのレイアウトにも合わない場合は既定値に落とす（エラーにはしない）
	fallback := time.Date(now.Year(), now.Month(), now.Day(), DefaultHour, DefaultMinute, 0, 0, loc)
	return fallback, true
}
