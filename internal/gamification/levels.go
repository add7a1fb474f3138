package gamification

// levelThresholds holds cumulative XP required to reach each level;
// index i is the threshold for level i+1.
var levelThresholds = buildLevelThresholds()

func buildLevelThresholds() []int {
	t := []int{0, 100, 350, 800, 1500, 2500, 4000, 6000, 9000, 13000}
	for i := 11; i <= 20; i++ {
		t = append(t, t[len(t)-1]+5000)
	}
	for i := 21; i <= 50; i++ {
		t = append(t, t[len(t)-1]+10000)
	}
	return t
}

// CalculateLevel maps total XP to a level. Non-decreasing in totalXP.
func CalculateLevel(totalXP int) int {
	for i := len(levelThresholds) - 1; i >= 0; i-- {
		if totalXP >= levelThresholds[i] {
			return i + 1
		}
	}
	return 1
}

// XPForLevel is the cumulative XP needed to reach level. Levels beyond
// the table cost 20,000 each.
func XPForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	idx := level - 1
	if idx < len(levelThresholds) {
		return levelThresholds[idx]
	}
	extra := idx - len(levelThresholds) + 1
	return levelThresholds[len(levelThresholds)-1] + extra*20000
}

// Progress describes where a given XP total sits within its level.
type Progress struct {
	Level           int     `json:"level"`
	ProgressPercent float64 `json:"progressPercent"`
	XPToNext        int     `json:"xpToNext"`
	CurrentLevelXP  int     `json:"currentLevelXP"`
	NextLevelXP     int     `json:"nextLevelXP"`
}

func XPProgress(totalXP int) Progress {
	level := CalculateLevel(totalXP)
	cur := XPForLevel(level)
	next := XPForLevel(level + 1)
	needed := next - cur

	percent := 100.0
	if needed > 0 {
		percent = float64(totalXP-cur) / float64(needed) * 100
		if percent > 100 {
			percent = 100
		}
	}
	toNext := next - totalXP
	if toNext < 0 {
		toNext = 0
	}

	return Progress{
		Level:           level,
		ProgressPercent: percent,
		XPToNext:        toNext,
		CurrentLevelXP:  cur,
		NextLevelXP:     next,
	}
}

var levelTitles = []struct {
	min   int
	title string
}{
	{50, "Transcendent"},
	{40, "Legend"},
	{30, "Grandmaster"},
	{20, "Master"},
	{15, "Disciplined"},
	{10, "Focused"},
	{6, "Dedicated"},
	{3, "Apprentice"},
	{1, "Beginner"},
}

func LevelTitle(level int) string {
	for _, t := range levelTitles {
		if level >= t.min {
			return t.title
		}
	}
	return "Beginner"
}
