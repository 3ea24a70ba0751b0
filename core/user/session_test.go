package user

import (
	"testing"
	"time"
)

const (
	testCutoverHour = 15
	testTZOffset    = 330 * time.Minute // IST
)

func TestNextSessionCutover(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			name: "morning rolls to same day cutover",
			now:  time.Date(2021, 11, 8, 3, 0, 0, 0, time.UTC), // 08:30 IST
			want: time.Date(2021, 11, 8, 9, 30, 0, 0, time.UTC),
		},
		{
			name: "after cutover rolls to next day",
			now:  time.Date(2021, 11, 8, 12, 0, 0, 0, time.UTC), // 17:30 IST
			want: time.Date(2021, 11, 9, 9, 30, 0, 0, time.UTC),
		},
		{
			name: "exactly at cutover rolls to next day",
			now:  time.Date(2021, 11, 8, 9, 30, 0, 0, time.UTC), // 15:00 IST
			want: time.Date(2021, 11, 9, 9, 30, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextSessionCutover(tt.now, testCutoverHour, testTZOffset)
			if !got.Equal(tt.want) {
				t.Errorf("NextSessionCutover() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEngagementDay(t *testing.T) {
	tests := []struct {
		name string
		t    time.Time
		want time.Time
	}{
		{
			name: "before cutover belongs to previous day",
			t:    time.Date(2021, 11, 8, 3, 0, 0, 0, time.UTC), // 08:30 IST
			want: time.Date(2021, 11, 7, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "after cutover belongs to same day",
			t:    time.Date(2021, 11, 8, 12, 0, 0, 0, time.UTC), // 17:30 IST
			want: time.Date(2021, 11, 8, 0, 0, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EngagementDay(tt.t, testCutoverHour, testTZOffset); !got.Equal(tt.want) {
				t.Errorf("EngagementDay() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProfileApplyCheckIn(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2021, 11, d, 12, 0, 0, 0, time.UTC) } // after cutover
	ptr := func(t time.Time) *time.Time { return &t }

	tests := []struct {
		name       string
		prof       Profile
		now        time.Time
		wantStreak int
		wantTotal  int
	}{
		{
			name:       "first ever login starts streak",
			prof:       Profile{},
			now:        day(8),
			wantStreak: 1,
			wantTotal:  1,
		},
		{
			name:       "second login same day keeps streak",
			prof:       Profile{StreakDays: 3, TotalCheckIns: 10, LastLoginAt: ptr(day(8))},
			now:        day(8).Add(time.Hour),
			wantStreak: 3,
			wantTotal:  11,
		},
		{
			name:       "consecutive day grows streak",
			prof:       Profile{StreakDays: 3, TotalCheckIns: 10, LastLoginAt: ptr(day(8))},
			now:        day(9),
			wantStreak: 4,
			wantTotal:  11,
		},
		{
			name:       "gap resets streak",
			prof:       Profile{StreakDays: 3, TotalCheckIns: 10, LastLoginAt: ptr(day(8))},
			now:        day(11),
			wantStreak: 1,
			wantTotal:  11,
		},
		{
			name:       "cutover is the day boundary",
			prof:       Profile{StreakDays: 2, TotalCheckIns: 5, LastLoginAt: ptr(day(8))},
			now:        time.Date(2021, 11, 9, 3, 0, 0, 0, time.UTC), // still day 8 in session time
			wantStreak: 2,
			wantTotal:  6,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.prof.ApplyCheckIn(tt.now, testCutoverHour, testTZOffset)
			if got.StreakDays != tt.wantStreak {
				t.Errorf("StreakDays = %d, want %d", got.StreakDays, tt.wantStreak)
			}
			if got.TotalCheckIns != tt.wantTotal {
				t.Errorf("TotalCheckIns = %d, want %d", got.TotalCheckIns, tt.wantTotal)
			}
			if got.LastLoginAt == nil || !got.LastLoginAt.Equal(tt.now) {
				t.Errorf("LastLoginAt = %v, want %v", got.LastLoginAt, tt.now)
			}
		})
	}
}
