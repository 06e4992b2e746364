package stats

import (
	"reflect"
	"testing"
	"time"

	"moirai-dashboard/src/build"
)

func finished(status string, created, duration int64) build.Build {
	start := created + 5
	end := start + duration
	return build.Build{Status: status, Created: &created, Started: &start, Finished: &end}
}

func TestCalculate_Empty(t *testing.T) {
	s := Calculate(nil)

	if s.Total != 0 || s.SuccessRate != 0 {
		t.Errorf("Calculate(nil) = %+v, want zero summary", s)
	}
	if s.MedianDuration != nil {
		t.Errorf("MedianDuration = %v, want nil", *s.MedianDuration)
	}
	if s.P50 != 0 || s.P90 != 0 || s.P99 != 0 || s.AvgDuration != 0 {
		t.Errorf("percentiles = %d/%d/%d avg %f, want zeros", s.P50, s.P90, s.P99, s.AvgDuration)
	}
}

func TestCalculate_Counts(t *testing.T) {
	builds := []build.Build{
		finished("success", 100, 60),
		finished("success", 200, 120),
		finished("failure", 300, 30),
		{Status: "running"},
		{Status: "pending"},
		{Status: "error"},
		{Status: "killed"},
		{Status: "skipped"},
		{Status: "blocked"},
	}

	s := Calculate(builds)

	if s.Total != 9 {
		t.Errorf("Total = %d, want 9", s.Total)
	}
	if s.Success != 2 || s.Failure != 1 || s.Running != 1 || s.Pending != 1 || s.Other != 4 {
		t.Errorf("buckets = %d/%d/%d/%d/%d, want 2/1/1/1/4", s.Success, s.Failure, s.Running, s.Pending, s.Other)
	}
	if s.Error != 1 || s.Killed != 1 || s.Skipped != 1 {
		t.Errorf("explicit = %d/%d/%d, want 1/1/1", s.Error, s.Killed, s.Skipped)
	}
	if s.SuccessRate != 22 {
		t.Errorf("SuccessRate = %d, want 22", s.SuccessRate)
	}
	if s.Finished != 3 {
		t.Errorf("Finished = %d, want 3", s.Finished)
	}
	if s.MedianDuration == nil || *s.MedianDuration != 60 {
		t.Errorf("MedianDuration = %v, want 60", s.MedianDuration)
	}
	if s.AvgDuration != 70 {
		t.Errorf("AvgDuration = %f, want 70", s.AvgDuration)
	}
}

func TestCalculate_EvenMedian(t *testing.T) {
	s := Calculate([]build.Build{
		finished("success", 1, 10),
		finished("success", 2, 40),
		finished("success", 3, 20),
		finished("success", 4, 30),
	})
	if s.MedianDuration == nil || *s.MedianDuration != 25 {
		t.Errorf("MedianDuration = %v, want 25", s.MedianDuration)
	}
	// floor(4*50/100)=2 -> 30, floor(4*90/100)=3 -> 40
	if s.P50 != 30 || s.P90 != 40 || s.P99 != 40 {
		t.Errorf("percentiles = %d/%d/%d, want 30/40/40", s.P50, s.P90, s.P99)
	}
}

func TestPercentile_Monotonic(t *testing.T) {
	for n := 1; n <= 40; n++ {
		sorted := make([]int64, n)
		for i := range sorted {
			sorted[i] = int64(i*i + 3)
		}
		p50, p90, p99 := Percentile(sorted, 50), Percentile(sorted, 90), Percentile(sorted, 99)
		if p50 > p90 || p90 > p99 {
			t.Errorf("n=%d: p50=%d p90=%d p99=%d not monotonic", n, p50, p90, p99)
		}
	}
	if Percentile(nil, 90) != 0 {
		t.Error("Percentile(nil) should be 0")
	}
}

func TestRate_Bounds(t *testing.T) {
	for total := 0; total <= 25; total++ {
		for part := 0; part <= total; part++ {
			r := Rate(part, total)
			if r < 0 || r > 100 {
				t.Fatalf("Rate(%d, %d) = %d out of bounds", part, total, r)
			}
		}
	}
	if Rate(0, 0) != 0 {
		t.Error("Rate(0, 0) should be 0")
	}
	if Rate(2, 3) != 67 {
		t.Errorf("Rate(2, 3) = %d, want 67", Rate(2, 3))
	}
}

func TestCalculate_Idempotent(t *testing.T) {
	builds := []build.Build{
		finished("success", 10, 300),
		finished("failure", 20, 50),
		finished("success", 30, 90),
		{Status: "running"},
	}
	if a, b := Calculate(builds), Calculate(builds); !reflect.DeepEqual(a, b) {
		t.Errorf("Calculate() not idempotent:\n%+v\n%+v", a, b)
	}
}

func TestIsLongBuild(t *testing.T) {
	long := finished("success", 0, 500)
	short := finished("success", 0, 100)

	if !IsLongBuild(long, 300) {
		t.Error("500s build should be long against p90=300")
	}
	if IsLongBuild(short, 300) {
		t.Error("100s build should not be long against p90=300")
	}
	if IsLongBuild(long, 0) {
		t.Error("no build is long while p90 is 0")
	}
	if IsLongBuild(build.Build{Status: "running"}, 10) {
		t.Error("unfinished build cannot be long")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		s    Summary
		want Health
	}{
		{"empty", Summary{}, HealthUnknown},
		{"good", Summary{Total: 10, SuccessRate: 80}, HealthGood},
		{"good rate but running", Summary{Total: 10, SuccessRate: 90, Running: 1}, HealthWarning},
		{"warning rate", Summary{Total: 10, SuccessRate: 50}, HealthWarning},
		{"low rate but running", Summary{Total: 10, SuccessRate: 10, Running: 2}, HealthWarning},
		{"critical", Summary{Total: 10, SuccessRate: 49}, HealthCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.s); got != tt.want {
				t.Errorf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHourly(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*3600)
	at := func(h int) *int64 {
		v := time.Date(2026, 3, 1, h, 15, 0, 0, time.UTC).Unix()
		return &v
	}

	hours := Hourly([]build.Build{
		{Created: at(0)},
		{Created: at(0)},
		{Created: at(23)},
		{},
	}, loc)

	if hours[2] != 2 {
		t.Errorf("hours[2] = %d, want 2", hours[2])
	}
	if hours[1] != 1 {
		t.Errorf("hours[1] = %d, want 1", hours[1])
	}
	total := 0
	for _, n := range hours {
		total += n
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
}

func TestDailyTrend(t *testing.T) {
	day1 := time.Date(2026, 3, 1, 23, 0, 0, 0, time.UTC).Unix()
	day2 := time.Date(2026, 3, 2, 1, 0, 0, 0, time.UTC).Unix()

	days := DailyTrend([]build.Build{
		finished("success", day2, 100),
		finished("failure", day1, 40),
		finished("success", day1, 20),
		{Status: "running", Created: &day2},
	})

	if len(days) != 2 {
		t.Fatalf("DailyTrend() returned %d days, want 2", len(days))
	}
	want := []Day{
		{Date: "2026-03-01", Total: 2, Success: 1, Failure: 1, AvgDuration: 30, SuccessRate: 50},
		{Date: "2026-03-02", Total: 2, Success: 1, Failure: 0, AvgDuration: 100, SuccessRate: 50},
	}
	if !reflect.DeepEqual(days, want) {
		t.Errorf("DailyTrend() = %+v, want %+v", days, want)
	}
}

func TestWindow(t *testing.T) {
	now := time.Unix(100*secondsPerDay, 0)
	inside := now.Unix() - 7*secondsPerDay
	outside := inside - 1

	got := Window([]build.Build{
		{Number: 1, Created: &inside},
		{Number: 2, Created: &outside},
		{Number: 3},
	}, 7, now)

	if len(got) != 1 || got[0].Number != 1 {
		t.Errorf("Window() = %+v, want only build 1", got)
	}
}

func TestBuildOverview(t *testing.T) {
	var builds []build.Build
	for i := int64(1); i <= 10; i++ {
		builds = append(builds, finished("success", i*100, i*10))
	}
	builds = append(builds, finished("failure", 2000, 1000))

	o := BuildOverview(builds, time.UTC)

	if o.Health != HealthGood {
		t.Errorf("Health = %q, want good", o.Health)
	}
	if len(o.LongBuilds) != 1 || *o.LongBuilds[0].Created != 2000 {
		t.Errorf("LongBuilds = %+v, want the 1000s failure", o.LongBuilds)
	}
	if len(o.Daily) != 1 {
		t.Errorf("Daily = %+v, want one day", o.Daily)
	}
}
