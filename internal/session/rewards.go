package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/yusufnuru/undrift/internal/gamification"
)

// RewardOutcome summarizes what one behavioral event earned.
type RewardOutcome struct {
	XPAwarded       int                   `json:"xpAwarded"`
	NewAchievements []gamification.Earned `json:"newAchievements"`
	LeveledUp       bool                  `json:"leveledUp"`
	NewLevel        int                   `json:"newLevel"`
}

type xpAction struct {
	source      gamification.Source
	amount      int
	description string
}

// LoadGamification returns the gamification record, defaulted when
// absent.
func (m *Manager) LoadGamification(ctx context.Context) (gamification.Data, error) {
	data := gamification.DefaultData(m.now())
	if _, err := m.store.Get(ctx, gamification.StorageKey, &data); err != nil {
		return gamification.Data{}, err
	}
	return data, nil
}

// processRewards runs the full pipeline for one behavioral event:
// counters, XP actions, achievement evaluation, achievement XP, persist,
// then achievement and level-up notifications.
//
// The whole award span runs inside the session-ctx record's critical
// section: the per-session cap is a read-check-increment on that record,
// and two concurrent awards must not both consume the last cap slot.
func (m *Manager) processRewards(ctx context.Context, ev gamification.CounterEvent, actions []xpAction, chk *gamification.CheckContext) (RewardOutcome, error) {
	now := m.now()
	out := RewardOutcome{NewAchievements: []gamification.Earned{}}

	// Streak-threshold checks read the streak record, not the counters.
	sd, err := m.streaks.Get(ctx)
	if err != nil {
		return out, err
	}
	if chk == nil {
		chk = &gamification.CheckContext{}
	}
	chk.CurrentStreak = sd.CurrentStreak

	cur, err := m.Current(ctx)
	if err != nil {
		return out, err
	}

	err = m.store.Update(ctx, gamification.SessionCtxKey, func(found bool, raw []byte) (any, error) {
		// Cap context for the active session, nil when none. A stored
		// context from a previous session is discarded by identity
		// mismatch.
		var sctx *gamification.SessionCtx
		if cur.SessionID != "" {
			c := gamification.DefaultSessionCtx(cur.SessionID)
			if found {
				var stored gamification.SessionCtx
				if err := json.Unmarshal(raw, &stored); err == nil && stored.SessionID == cur.SessionID {
					c = stored
				}
			}
			sctx = &c
		}

		err := m.store.Update(ctx, gamification.StorageKey, func(found bool, raw []byte) (any, error) {
			data := gamification.DefaultData(now)
			if found {
				if err := json.Unmarshal(raw, &data); err != nil {
					return nil, fmt.Errorf("decode %s: %w", gamification.StorageKey, err)
				}
			}

			gamification.UpdateCounters(&data, ev)

			for _, a := range actions {
				res := gamification.AwardXP(&data, a.source, a.amount, a.description, sctx, now)
				out.XPAwarded += res.Awarded
				if res.LeveledUp {
					out.LeveledUp = true
				}
				out.NewLevel = res.NewLevel
			}

			out.NewAchievements = append(out.NewAchievements, gamification.CheckAchievements(&data, chk, now)...)

			for _, a := range out.NewAchievements {
				name := a.ID
				if def := gamification.DefinitionByID(a.ID); def != nil {
					name = def.Name
				}
				res := gamification.AwardXP(&data, gamification.SourceAchievement, gamification.AchievementXP[a.Tier], "Achievement: "+name, nil, now)
				out.XPAwarded += res.Awarded
				if res.LeveledUp {
					out.LeveledUp = true
				}
				out.NewLevel = res.NewLevel
			}

			return data, nil
		})
		if err != nil {
			return nil, err
		}
		if sctx == nil {
			return nil, nil
		}
		return *sctx, nil
	})
	if err != nil {
		return out, err
	}

	for _, a := range out.NewAchievements {
		def := gamification.DefinitionByID(a.ID)
		if def == nil {
			continue
		}
		m.notifier.Notify(
			"achievement-"+a.ID,
			"Achievement Unlocked!",
			fmt.Sprintf("%s %s: %s", def.Icon, def.Name, def.Description),
			2,
		)
	}
	if out.LeveledUp {
		m.notifier.Notify(
			fmt.Sprintf("level-up-%d", out.NewLevel),
			"Level Up!",
			fmt.Sprintf("You're now Level %d. Keep going!", out.NewLevel),
			1,
		)
	}

	return out, nil
}
