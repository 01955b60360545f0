package activity

import (
	"context"

	"github.com/sirupsen/logrus"
)

type Service interface {
	List(ctx context.Context, user string) ([]Record, error)
	AppTotals(ctx context.Context, user string) ([]AppTotal, error)
	AppUsage(ctx context.Context, user string) ([]AppTotal, error)
	Timeline(ctx context.Context, user string) ([]TimelinePoint, error)
	AppFlow(ctx context.Context, user string) ([]FlowPoint, error)
	HourlyHeatmap(ctx context.Context, user string) ([]HourDayTotal, error)
	IdleRatio(ctx context.Context, user string) ([]StateTotal, error)
	CalendarHeatmap(ctx context.Context, user string) ([]DateTotal, error)
	Sankey(ctx context.Context, user string) ([]Transition, error)
	UserAppUsage(ctx context.Context, user string) ([]UserAppTotal, error)
	DailySessions(ctx context.Context, user string) ([]DateTotal, error)
}

type activityService struct {
	repository Repository
}

func NewActivityService(repository Repository) Service {
	return &activityService{repository: repository}
}

func (s *activityService) List(ctx context.Context, user string) ([]Record, error) {
	return s.repository.Find(ctx, Query{User: user})
}

func (s *activityService) ordered(ctx context.Context, user string) ([]Record, error) {
	records, err := s.repository.Find(ctx, Query{User: user, SortByStart: true})
	if err != nil {
		return nil, err
	}
	// documents written with BSON dates sort apart from string ones in Mongo
	SortByStart(records)
	return records, nil
}

func (s *activityService) AppTotals(ctx context.Context, user string) ([]AppTotal, error) {
	records, err := s.List(ctx, user)
	if err != nil {
		return nil, err
	}
	return AppTotals(records), nil
}

func (s *activityService) AppUsage(ctx context.Context, user string) ([]AppTotal, error) {
	records, err := s.List(ctx, user)
	if err != nil {
		return nil, err
	}
	return AppUsage(records), nil
}

func (s *activityService) Timeline(ctx context.Context, user string) ([]TimelinePoint, error) {
	records, err := s.ordered(ctx, user)
	if err != nil {
		return nil, err
	}
	return Timeline(records), nil
}

func (s *activityService) AppFlow(ctx context.Context, user string) ([]FlowPoint, error) {
	records, err := s.ordered(ctx, user)
	if err != nil {
		return nil, err
	}
	return Flow(records), nil
}

func (s *activityService) HourlyHeatmap(ctx context.Context, user string) ([]HourDayTotal, error) {
	records, err := s.List(ctx, user)
	if err != nil {
		return nil, err
	}
	return HourlyHeatmap(records), nil
}

func (s *activityService) IdleRatio(ctx context.Context, user string) ([]StateTotal, error) {
	records, err := s.List(ctx, user)
	if err != nil {
		return nil, err
	}
	return IdleRatio(records), nil
}

func (s *activityService) CalendarHeatmap(ctx context.Context, user string) ([]DateTotal, error) {
	records, err := s.List(ctx, user)
	if err != nil {
		return nil, err
	}
	return DailyTotals(records), nil
}

func (s *activityService) Sankey(ctx context.Context, user string) ([]Transition, error) {
	records, err := s.ordered(ctx, user)
	if err != nil {
		return nil, err
	}

	transitions := Transitions(records)
	logrus.WithFields(logrus.Fields{
		"user":        user,
		"records":     len(records),
		"transitions": len(transitions),
	}).Debug("Computed app transitions")

	return transitions, nil
}

func (s *activityService) UserAppUsage(ctx context.Context, user string) ([]UserAppTotal, error) {
	records, err := s.List(ctx, user)
	if err != nil {
		return nil, err
	}
	return UserAppUsage(records), nil
}

func (s *activityService) DailySessions(ctx context.Context, user string) ([]DateTotal, error) {
	return s.CalendarHeatmap(ctx, user)
}
