// Package ipc exposes the daemon's request surface over D-Bus. Every
// method answers with a JSON document so UI clients of any language can
// consume it.
package ipc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/godbus/dbus/v5"

	"github.com/yusufnuru/undrift/internal/engine"
	"github.com/yusufnuru/undrift/internal/gamification"
	"github.com/yusufnuru/undrift/internal/session"
	"github.com/yusufnuru/undrift/internal/store"
)

type Service struct {
	Engine *engine.Engine
	Store  *store.Store
}

func marshal(v any) (string, *dbus.Error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", dbus.MakeFailedError(err)
	}
	return string(data), nil
}

func failure(err error) (string, *dbus.Error) {
	log.Printf("Request failed: %v", err)
	return "", dbus.MakeFailedError(err)
}

type successResponse struct {
	Success bool `json:"success"`
}

type rewardResponse struct {
	Success bool `json:"success"`
	session.RewardOutcome
}

func (s *Service) GetStatus() (string, *dbus.Error) {
	return "Service is running", nil
}

func (s *Service) StartSession(durationMinutes int32, sitesJSON string) (string, *dbus.Error) {
	var sites []string
	if sitesJSON != "" {
		if err := json.Unmarshal([]byte(sitesJSON), &sites); err != nil {
			return failure(fmt.Errorf("parse sites: %w", err))
		}
	}
	if err := s.Engine.Sessions().Start(context.Background(), int(durationMinutes), sites); err != nil {
		return failure(err)
	}
	return marshal(successResponse{Success: true})
}

func (s *Service) EndSession() (string, *dbus.Error) {
	if err := s.Engine.Sessions().End(context.Background(), session.EndReasonManual); err != nil {
		return failure(err)
	}
	return marshal(successResponse{Success: true})
}

func (s *Service) GetSession() (string, *dbus.Error) {
	cur, err := s.Engine.Sessions().Current(context.Background())
	if err != nil {
		return failure(err)
	}
	return marshal(cur)
}

func (s *Service) GetStreak() (string, *dbus.Error) {
	data, err := s.Engine.Streaks().Get(context.Background())
	if err != nil {
		return failure(err)
	}
	return marshal(data)
}

func (s *Service) GetTimeTracking() (string, *dbus.Error) {
	data, err := s.Engine.Tracker().Get(context.Background())
	if err != nil {
		return failure(err)
	}
	return marshal(data)
}

func (s *Service) LogInterruption(domain string) (string, *dbus.Error) {
	outcome, err := s.Engine.Sessions().LogInterruption(context.Background(), domain)
	if errors.Is(err, session.ErrNoActiveSession) {
		return marshal(successResponse{Success: false})
	}
	if err != nil {
		return failure(err)
	}
	return marshal(rewardResponse{Success: true, RewardOutcome: outcome})
}

func (s *Service) GetStats() (string, *dbus.Error) {
	stats, err := s.Engine.Stats(context.Background())
	if err != nil {
		return failure(err)
	}
	return marshal(stats)
}

func (s *Service) GetGamification() (string, *dbus.Error) {
	data, err := s.Engine.Sessions().LoadGamification(context.Background())
	if err != nil {
		return failure(err)
	}
	return marshal(data)
}

func (s *Service) LogBreathe(status, domain string) (string, *dbus.Error) {
	outcome, err := s.Engine.Sessions().LogBreathe(context.Background(), status, domain)
	if err != nil {
		return failure(err)
	}
	return marshal(rewardResponse{Success: true, RewardOutcome: outcome})
}

func (s *Service) SaveReflection(text, domain string) (string, *dbus.Error) {
	outcome, err := s.Engine.Sessions().SaveReflection(context.Background(), text, domain)
	if err != nil {
		return failure(err)
	}
	return marshal(rewardResponse{Success: true, RewardOutcome: outcome})
}

// GetLevelProgress reports level, title and progress for the current XP
// total, saving UI clients the threshold table.
func (s *Service) GetLevelProgress() (string, *dbus.Error) {
	data, err := s.Engine.Sessions().LoadGamification(context.Background())
	if err != nil {
		return failure(err)
	}
	progress := gamification.XPProgress(data.XP.Total)
	return marshal(struct {
		gamification.Progress
		Title string `json:"title"`
	}{progress, gamification.LevelTitle(progress.Level)})
}

// GetPreference reads a UI-owned preference record. Missing preferences
// return an empty string.
func (s *Service) GetPreference(name string) (string, *dbus.Error) {
	if !knownPreferences[name] {
		return failure(fmt.Errorf("unknown preference %q", name))
	}
	var value string
	if _, err := s.Store.Get(context.Background(), prefPrefix+name, &value); err != nil {
		return failure(err)
	}
	return value, nil
}

// SetPreference writes a UI-owned preference record verbatim.
func (s *Service) SetPreference(name, value string) (string, *dbus.Error) {
	if !knownPreferences[name] {
		return failure(fmt.Errorf("unknown preference %q", name))
	}
	if err := s.Store.Put(context.Background(), prefPrefix+name, value); err != nil {
		return failure(err)
	}
	return marshal(successResponse{Success: true})
}
