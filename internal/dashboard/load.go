package dashboard

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/bioscizone-api/internal/dto"
)

// load fetches a tab and returns a function that writes the result into state.
func (d *Dashboard) load(ctx context.Context, tab Tab) (func(*Snapshot), error) {
	switch tab {
	case TabBuddies:
		var pending, approved []dto.BuddyResponse
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			pending, err = d.api.PendingBuddies(gctx)
			return err
		})
		g.Go(func() error {
			var err error
			approved, err = d.api.ApprovedBuddies(gctx)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return func(s *Snapshot) {
			s.Pending = pending
			s.Approved = approved
		}, nil

	case TabArticles:
		articles, err := d.api.AllArticles(ctx)
		if err != nil {
			return nil, err
		}
		return func(s *Snapshot) { s.Articles = articles }, nil

	case TabFeedbacks:
		feedbacks, err := d.api.Feedbacks(ctx)
		if err != nil {
			return nil, err
		}
		return func(s *Snapshot) { s.Feedbacks = feedbacks }, nil

	case TabAdmins:
		var admins []dto.AdminResponse
		var logs []dto.AuditLogResponse
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			admins, err = d.api.ListAdmins(gctx)
			return err
		})
		g.Go(func() error {
			var err error
			logs, err = d.api.AuditLogs(gctx, auditLogPageSize)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return func(s *Snapshot) {
			s.Admins = admins
			s.AuditLogs = logs
		}, nil

	case TabSettings:
		settings, err := d.api.Settings(ctx)
		if err != nil {
			return nil, err
		}
		return func(s *Snapshot) { s.Settings = settings }, nil
	}
	return nil, fmt.Errorf("unknown tab %q", tab)
}
