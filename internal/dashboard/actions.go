package dashboard

import (
	"context"

	"github.com/noah-isme/bioscizone-api/internal/dto"
	"github.com/noah-isme/bioscizone-api/internal/models"
)

// ApproveBuddy publishes a pending profile and moves it to the approved list.
func (d *Dashboard) ApproveBuddy(ctx context.Context, id uint) error {
	if _, err := d.api.ApproveBuddy(ctx, id); err != nil {
		return d.fail(err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.edits++
	var moved *dto.BuddyResponse
	pending := d.state.Pending[:0:0]
	for _, item := range d.state.Pending {
		if item.ID == id && moved == nil {
			item := item
			moved = &item
			continue
		}
		pending = append(pending, item)
	}
	d.state.Pending = pending
	if moved != nil {
		moved.Status = models.BuddyStatusApproved
		d.state.Approved = append([]dto.BuddyResponse{*moved}, withoutBuddy(d.state.Approved, id)...)
	}
	return nil
}

// DeleteBuddy removes a profile from both lists after confirmation.
func (d *Dashboard) DeleteBuddy(ctx context.Context, id uint) error {
	if !d.confirm.Confirm("Delete this buddy profile?") {
		return ErrCancelled
	}
	if _, err := d.api.DeleteBuddy(ctx, id); err != nil {
		return d.fail(err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.edits++
	d.state.Pending = withoutBuddy(d.state.Pending, id)
	d.state.Approved = withoutBuddy(d.state.Approved, id)
	return nil
}

// CreateArticle publishes an article and prepends it.
func (d *Dashboard) CreateArticle(ctx context.Context, req dto.ArticleCreateRequest) (dto.ArticleResponse, error) {
	article, err := d.api.CreateArticle(ctx, req)
	if err != nil {
		return dto.ArticleResponse{}, d.fail(err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.edits++
	d.state.Articles = append([]dto.ArticleResponse{article}, d.state.Articles...)
	return article, nil
}

// UpdateArticle applies a partial update and replaces the local copy.
func (d *Dashboard) UpdateArticle(ctx context.Context, id uint, req dto.ArticleUpdateRequest) (dto.ArticleResponse, error) {
	article, err := d.api.UpdateArticle(ctx, id, req)
	if err != nil {
		return dto.ArticleResponse{}, d.fail(err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.edits++
	for i := range d.state.Articles {
		if d.state.Articles[i].ID == id {
			d.state.Articles[i] = article
		}
	}
	return article, nil
}

// DeleteArticle removes an article after confirmation.
func (d *Dashboard) DeleteArticle(ctx context.Context, id uint) error {
	if !d.confirm.Confirm("Delete this article?") {
		return ErrCancelled
	}
	if _, err := d.api.DeleteArticle(ctx, id); err != nil {
		return d.fail(err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.edits++
	articles := d.state.Articles[:0:0]
	for _, item := range d.state.Articles {
		if item.ID != id {
			articles = append(articles, item)
		}
	}
	d.state.Articles = articles
	return nil
}

// MarkFeedbackRead flags a message read in place.
func (d *Dashboard) MarkFeedbackRead(ctx context.Context, id uint) error {
	if _, err := d.api.MarkFeedbackRead(ctx, id); err != nil {
		return d.fail(err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.edits++
	for i := range d.state.Feedbacks {
		if d.state.Feedbacks[i].ID == id {
			d.state.Feedbacks[i].IsRead = 1
		}
	}
	return nil
}

// DeleteFeedback removes a message after confirmation.
func (d *Dashboard) DeleteFeedback(ctx context.Context, id uint) error {
	if !d.confirm.Confirm("Delete this feedback?") {
		return ErrCancelled
	}
	if _, err := d.api.DeleteFeedback(ctx, id); err != nil {
		return d.fail(err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.edits++
	feedbacks := d.state.Feedbacks[:0:0]
	for _, item := range d.state.Feedbacks {
		if item.ID != id {
			feedbacks = append(feedbacks, item)
		}
	}
	d.state.Feedbacks = feedbacks
	return nil
}

// CreateAdmin adds an account and reloads the admins tab.
func (d *Dashboard) CreateAdmin(ctx context.Context, req dto.AdminCreateRequest) error {
	if _, err := d.api.CreateAdmin(ctx, req); err != nil {
		return d.fail(err)
	}
	return d.SelectTab(ctx, TabAdmins)
}

// UpdateAdmin edits an account and reloads the admins tab.
func (d *Dashboard) UpdateAdmin(ctx context.Context, id string, req dto.AdminUpdateRequest) error {
	if _, err := d.api.UpdateAdmin(ctx, id, req); err != nil {
		return d.fail(err)
	}
	return d.SelectTab(ctx, TabAdmins)
}

// DeleteAdmin removes an account after confirmation, then reloads so the new
// audit entry shows up.
func (d *Dashboard) DeleteAdmin(ctx context.Context, id string) error {
	if !d.confirm.Confirm("Delete this admin account?") {
		return ErrCancelled
	}
	if _, err := d.api.DeleteAdmin(ctx, id); err != nil {
		return d.fail(err)
	}

	d.mu.Lock()
	d.edits++
	admins := d.state.Admins[:0:0]
	for _, item := range d.state.Admins {
		if item.ID != id {
			admins = append(admins, item)
		}
	}
	d.state.Admins = admins
	d.mu.Unlock()

	return d.SelectTab(ctx, TabAdmins)
}

// ToggleSetting flips a boolean setting and patches the local copy. A missing
// key counts as "false".
func (d *Dashboard) ToggleSetting(ctx context.Context, key string) (string, error) {
	d.mu.Lock()
	current := "false"
	for _, setting := range d.state.Settings {
		if setting.Key == key {
			current = setting.Value
		}
	}
	d.mu.Unlock()

	next := "true"
	if current == "true" {
		next = "false"
	}
	if _, err := d.api.UpdateSetting(ctx, key, next); err != nil {
		return "", d.fail(err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.edits++
	found := false
	for i := range d.state.Settings {
		if d.state.Settings[i].Key == key {
			d.state.Settings[i].Value = next
			found = true
		}
	}
	if !found {
		d.state.Settings = append(d.state.Settings, dto.SettingResponse{Key: key, Value: next})
	}
	return next, nil
}

func withoutBuddy(items []dto.BuddyResponse, id uint) []dto.BuddyResponse {
	out := items[:0:0]
	for _, item := range items {
		if item.ID != id {
			out = append(out, item)
		}
	}
	return out
}
