package gamification

// AchievementXP is the award granted when an achievement of a tier is
// earned. Achievement XP is exempt from the daily cap.
var AchievementXP = map[Tier]int{
	TierBronze:   50,
	TierSilver:   100,
	TierGold:     150,
	TierPlatinum: 200,
}

func req(counter string, threshold int) *Requirement {
	return &Requirement{Counter: counter, Threshold: threshold}
}

// Definitions is the static achievement catalog, evaluated in order.
var Definitions = []Definition{
	// Streak
	{ID: "first_spark", Name: "First Spark", Description: "Complete 1 focus session", Icon: "✧", Tier: TierBronze, Category: CategoryStreak, Requirement: req("totalSessionsCompleted", 1)},
	{ID: "three_day_hold", Name: "Three-Day Hold", Description: "Achieve a 3-day streak", Icon: "✶", Tier: TierBronze, Category: CategoryStreak, CustomCheck: "streak_3"},
	{ID: "week_warrior", Name: "Week Warrior", Description: "Achieve a 7-day streak", Icon: "⚔", Tier: TierSilver, Category: CategoryStreak, CustomCheck: "streak_7"},
	{ID: "fortnight_focus", Name: "Fortnight Focus", Description: "Achieve a 14-day streak", Icon: "❁", Tier: TierSilver, Category: CategoryStreak, CustomCheck: "streak_14"},
	{ID: "monthly_master", Name: "Monthly Master", Description: "Achieve a 30-day streak", Icon: "♔", Tier: TierGold, Category: CategoryStreak, CustomCheck: "streak_30"},
	{ID: "sixty_strong", Name: "Sixty Strong", Description: "Achieve a 60-day streak", Icon: "✦", Tier: TierGold, Category: CategoryStreak, CustomCheck: "streak_60"},
	{ID: "quarterly_titan", Name: "Quarterly Titan", Description: "Achieve a 90-day streak", Icon: "⚡", Tier: TierPlatinum, Category: CategoryStreak, CustomCheck: "streak_90"},
	{ID: "half_year_hero", Name: "Half-Year Hero", Description: "Achieve a 180-day streak", Icon: "★", Tier: TierPlatinum, Category: CategoryStreak, CustomCheck: "streak_180"},
	{ID: "year_of_focus", Name: "Year of Focus", Description: "Achieve a 365-day streak", Icon: "❂", Tier: TierPlatinum, Category: CategoryStreak, CustomCheck: "streak_365"},

	// Session
	{ID: "session_one", Name: "Session One", Description: "Complete your first focus session", Icon: "◉", Tier: TierBronze, Category: CategorySession, Requirement: req("totalSessionsCompleted", 1)},
	{ID: "ten_down", Name: "Ten Down", Description: "Complete 10 sessions", Icon: "◎", Tier: TierBronze, Category: CategorySession, Requirement: req("totalSessionsCompleted", 10)},
	{ID: "fifty_sessions", Name: "Fifty Sessions", Description: "Complete 50 sessions", Icon: "◈", Tier: TierSilver, Category: CategorySession, Requirement: req("totalSessionsCompleted", 50)},
	{ID: "century_club", Name: "Century Club", Description: "Complete 100 sessions", Icon: "⬡", Tier: TierSilver, Category: CategorySession, Requirement: req("totalSessionsCompleted", 100)},
	{ID: "five_hundred", Name: "Five Hundred", Description: "Complete 500 sessions", Icon: "⬢", Tier: TierGold, Category: CategorySession, Requirement: req("totalSessionsCompleted", 500)},
	{ID: "thousand_strong", Name: "Thousand Strong", Description: "Complete 1,000 sessions", Icon: "⬣", Tier: TierPlatinum, Category: CategorySession, Requirement: req("totalSessionsCompleted", 1000)},

	// Resistance
	{ID: "first_stand", Name: "First Stand", Description: "Resist 1 interruption", Icon: "▲", Tier: TierBronze, Category: CategoryResistance, Requirement: req("totalInterruptionsResisted", 1)},
	{ID: "iron_will", Name: "Iron Will", Description: "Resist 10 interruptions in a single day", Icon: "⚔", Tier: TierSilver, Category: CategoryResistance, CustomCheck: "iron_will"},
	{ID: "unbreakable", Name: "Unbreakable", Description: "Complete 5 consecutive sessions with zero manual ends", Icon: "■", Tier: TierSilver, Category: CategoryResistance, Requirement: req("consecutiveCompletedSessions", 5)},
	{ID: "fortress", Name: "Fortress", Description: "Resist 100 total interruptions", Icon: "♖", Tier: TierGold, Category: CategoryResistance, Requirement: req("totalInterruptionsResisted", 100)},
	{ID: "untouchable", Name: "Untouchable", Description: "Complete 10 consecutive sessions without any interruptions", Icon: "◇", Tier: TierGold, Category: CategoryResistance, Requirement: req("consecutiveCleanSessions", 10)},

	// Time
	{ID: "first_hour", Name: "First Hour", Description: "Accumulate 1 hour of focus time", Icon: "⧗", Tier: TierBronze, Category: CategoryTime, Requirement: req("totalFocusMinutes", 60)},
	{ID: "ten_hours", Name: "Ten Hours", Description: "Accumulate 10 hours of focus time", Icon: "⧖", Tier: TierBronze, Category: CategoryTime, Requirement: req("totalFocusMinutes", 600)},
	{ID: "day_of_focus", Name: "Day of Focus", Description: "Accumulate 24 hours of focus time", Icon: "☉", Tier: TierSilver, Category: CategoryTime, Requirement: req("totalFocusMinutes", 1440)},
	{ID: "hundred_hours", Name: "Hundred Hours", Description: "Accumulate 100 hours of focus time", Icon: "⧗", Tier: TierGold, Category: CategoryTime, Requirement: req("totalFocusMinutes", 6000)},
	{ID: "focus_olympian", Name: "Focus Olympian", Description: "Accumulate 500 hours of focus time", Icon: "⬡", Tier: TierPlatinum, Category: CategoryTime, Requirement: req("totalFocusMinutes", 30000)},

	// Time saved
	{ID: "reclaimed", Name: "Reclaimed", Description: "Save 1 hour from distracting sites", Icon: "↺", Tier: TierBronze, Category: CategoryTimeSaved, Requirement: req("totalTimeSavedMinutes", 60)},
	{ID: "full_day_back", Name: "Full Day Back", Description: "Save 24 hours total", Icon: "↻", Tier: TierSilver, Category: CategoryTimeSaved, Requirement: req("totalTimeSavedMinutes", 1440)},
	{ID: "week_reclaimed", Name: "Week Reclaimed", Description: "Save 168 hours total", Icon: "⤒", Tier: TierGold, Category: CategoryTimeSaved, Requirement: req("totalTimeSavedMinutes", 10080)},

	// Intervention
	{ID: "deep_breath", Name: "Deep Breath", Description: "Complete 1 breathing exercise", Icon: "⁘", Tier: TierBronze, Category: CategoryIntervention, Requirement: req("totalBreathingExercises", 1)},
	{ID: "mindful_ten", Name: "Mindful Ten", Description: "Complete 10 breathing exercises", Icon: "⁙", Tier: TierSilver, Category: CategoryIntervention, Requirement: req("totalBreathingExercises", 10)},
	{ID: "first_reflection", Name: "First Reflection", Description: "Submit 1 reflection", Icon: "✎", Tier: TierBronze, Category: CategoryIntervention, Requirement: req("totalReflections", 1)},
	{ID: "journaler", Name: "Journaler", Description: "Submit 25 reflections", Icon: "✐", Tier: TierSilver, Category: CategoryIntervention, Requirement: req("totalReflections", 25)},
	{ID: "introspective", Name: "Introspective", Description: "Submit 100 reflections", Icon: "✸", Tier: TierGold, Category: CategoryIntervention, Requirement: req("totalReflections", 100)},

	// Special / hidden
	{ID: "night_owl", Name: "Night Owl", Description: "Complete a session that ends after midnight", Icon: "☽", Tier: TierBronze, Category: CategorySpecial, Hidden: true, CustomCheck: "night_owl"},
	{ID: "early_bird", Name: "Early Bird", Description: "Start a session before 6 AM", Icon: "☀", Tier: TierBronze, Category: CategorySpecial, Hidden: true, CustomCheck: "early_bird"},
	{ID: "marathon", Name: "Marathon", Description: "Complete a single session of 3+ hours", Icon: "→", Tier: TierSilver, Category: CategorySpecial, Hidden: true, CustomCheck: "marathon"},
	{ID: "comeback", Name: "Comeback", Description: "Start a new streak after losing one of 7+ days", Icon: "↪", Tier: TierSilver, Category: CategorySpecial, Hidden: true, CustomCheck: "comeback"},
	{ID: "perfectionist", Name: "Perfectionist", Description: "Complete every session in a calendar week (7/7 days)", Icon: "✷", Tier: TierGold, Category: CategorySpecial, Hidden: true, CustomCheck: "perfectionist"},
	{ID: "clean_slate", Name: "Clean Slate", Description: "Go a full week with zero time on blocked sites outside sessions", Icon: "✰", Tier: TierGold, Category: CategorySpecial, Hidden: true, CustomCheck: "clean_slate"},
}

// DefinitionByID returns the catalog entry for id, or nil.
func DefinitionByID(id string) *Definition {
	for i := range Definitions {
		if Definitions[i].ID == id {
			return &Definitions[i]
		}
	}
	return nil
}
