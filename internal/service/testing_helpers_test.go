package service

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/bioscizone-api/internal/models"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func testValidator() *validator.Validate {
	return NewValidator()
}

type auditRecorderStub struct {
	mu      sync.Mutex
	entries []AuditEntry
	err     error
}

func (a *auditRecorderStub) Record(ctx context.Context, entry AuditEntry) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return a.err
	}
	a.entries = append(a.entries, entry)
	return nil
}

type buddyRepoStub struct {
	items  map[uint]models.BioBuddy
	nextID uint
}

func newBuddyRepoStub() *buddyRepoStub {
	return &buddyRepoStub{items: map[uint]models.BioBuddy{}}
}

func (r *buddyRepoStub) Create(ctx context.Context, buddy *models.BioBuddy) error {
	r.nextID++
	buddy.ID = r.nextID
	buddy.CreatedAt = time.Now().Add(time.Duration(r.nextID) * time.Second)
	r.items[buddy.ID] = *buddy
	return nil
}

func (r *buddyRepoStub) GetByID(ctx context.Context, id uint) (models.BioBuddy, error) {
	item, ok := r.items[id]
	if !ok {
		return models.BioBuddy{}, gorm.ErrRecordNotFound
	}
	return item, nil
}

func (r *buddyRepoStub) ListByStatus(ctx context.Context, status, course string) ([]models.BioBuddy, error) {
	var out []models.BioBuddy
	for _, item := range r.items {
		if item.Status != status {
			continue
		}
		if course != "" && item.Course != course {
			continue
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *buddyRepoStub) UpdateStatus(ctx context.Context, id uint, status string) error {
	item, ok := r.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	item.Status = status
	r.items[id] = item
	return nil
}

func (r *buddyRepoStub) Delete(ctx context.Context, id uint) error {
	if _, ok := r.items[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *buddyRepoStub) Search(ctx context.Context, keyword string) ([]models.BioBuddy, error) {
	keyword = strings.ToLower(keyword)
	var out []models.BioBuddy
	for _, item := range r.items {
		if item.Status == models.BuddyStatusApproved && strings.Contains(strings.ToLower(item.FullName+" "+item.ResearchTopic+" "+item.Description), keyword) {
			out = append(out, item)
		}
	}
	return out, nil
}

type articleRepoStub struct {
	items     []models.Article
	listCalls int
	nextID    uint
}

func newArticleRepoStub() *articleRepoStub {
	return &articleRepoStub{}
}

func (r *articleRepoStub) List(ctx context.Context, category string) ([]models.Article, error) {
	r.listCalls++
	var out []models.Article
	for i := len(r.items) - 1; i >= 0; i-- {
		if category == "" || r.items[i].Category == category {
			out = append(out, r.items[i])
		}
	}
	return out, nil
}

func (r *articleRepoStub) GetByID(ctx context.Context, id uint) (models.Article, error) {
	for _, item := range r.items {
		if item.ID == id {
			return item, nil
		}
	}
	return models.Article{}, gorm.ErrRecordNotFound
}

func (r *articleRepoStub) Create(ctx context.Context, article *models.Article) error {
	r.nextID++
	article.ID = r.nextID
	article.CreatedAt = time.Now()
	r.items = append(r.items, *article)
	return nil
}

func (r *articleRepoStub) Update(ctx context.Context, id uint, changes map[string]interface{}) (models.Article, error) {
	for i := range r.items {
		if r.items[i].ID != id {
			continue
		}
		for key, value := range changes {
			switch key {
			case "title":
				r.items[i].Title = value.(string)
			case "category":
				r.items[i].Category = value.(string)
			case "content":
				r.items[i].Content = value.(*string)
			case "author":
				r.items[i].Author = value.(*string)
			}
		}
		return r.items[i], nil
	}
	return models.Article{}, gorm.ErrRecordNotFound
}

func (r *articleRepoStub) Delete(ctx context.Context, id uint) error {
	for i := range r.items {
		if r.items[i].ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *articleRepoStub) Search(ctx context.Context, keyword string) ([]models.Article, error) {
	keyword = strings.ToLower(keyword)
	var out []models.Article
	for _, item := range r.items {
		if strings.Contains(strings.ToLower(item.Title), keyword) {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *articleRepoStub) UpsertBatch(ctx context.Context, items []models.Article) (int64, error) {
	r.items = append(r.items, items...)
	return int64(len(items)), nil
}

type adminRepoStub struct {
	items  map[string]models.Admin
	nextID int
}

func newAdminRepoStub(admins ...models.Admin) *adminRepoStub {
	repo := &adminRepoStub{items: map[string]models.Admin{}}
	for _, admin := range admins {
		_ = repo.Create(context.Background(), &admin)
	}
	return repo
}

func (r *adminRepoStub) Count(ctx context.Context) (int64, error) {
	return int64(len(r.items)), nil
}

func (r *adminRepoStub) List(ctx context.Context) ([]models.Admin, error) {
	out := make([]models.Admin, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *adminRepoStub) GetByID(ctx context.Context, id string) (models.Admin, error) {
	item, ok := r.items[id]
	if !ok {
		return models.Admin{}, gorm.ErrRecordNotFound
	}
	return item, nil
}

func (r *adminRepoStub) GetByUsername(ctx context.Context, username string) (models.Admin, error) {
	for _, item := range r.items {
		if item.Username == username {
			return item, nil
		}
	}
	return models.Admin{}, gorm.ErrRecordNotFound
}

func (r *adminRepoStub) UsernameTaken(ctx context.Context, username, excludeID string) (bool, error) {
	for id, item := range r.items {
		if item.Username == username && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *adminRepoStub) Create(ctx context.Context, admin *models.Admin) error {
	if admin.ID == "" {
		r.nextID++
		admin.ID = "admin-" + formatID(uint(r.nextID))
	}
	r.items[admin.ID] = *admin
	return nil
}

func (r *adminRepoStub) Update(ctx context.Context, id string, changes map[string]interface{}) error {
	item, ok := r.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for key, value := range changes {
		switch key {
		case "username":
			item.Username = value.(string)
		case "hashed_password":
			item.HashedPassword = value.(string)
		case "role":
			item.Role = value.(string)
		}
	}
	r.items[id] = item
	return nil
}

func (r *adminRepoStub) Delete(ctx context.Context, id string) error {
	if _, ok := r.items[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.items, id)
	return nil
}

type settingRepoStub struct {
	items map[string]models.SystemSetting
}

func newSettingRepoStub() *settingRepoStub {
	return &settingRepoStub{items: map[string]models.SystemSetting{}}
}

func (r *settingRepoStub) List(ctx context.Context) ([]models.SystemSetting, error) {
	out := make([]models.SystemSetting, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (r *settingRepoStub) Get(ctx context.Context, key string) (models.SystemSetting, error) {
	item, ok := r.items[key]
	if !ok {
		return models.SystemSetting{}, gorm.ErrRecordNotFound
	}
	return item, nil
}

func (r *settingRepoStub) Upsert(ctx context.Context, key, value, updatedBy string) (models.SystemSetting, error) {
	now := time.Now()
	item := models.SystemSetting{Key: key, Value: value, UpdatedAt: &now, UpdatedBy: &updatedBy}
	r.items[key] = item
	return item, nil
}

type feedbackRepoStub struct {
	items  []models.Feedback
	nextID uint
}

func (r *feedbackRepoStub) Create(ctx context.Context, feedback *models.Feedback) error {
	r.nextID++
	feedback.ID = r.nextID
	r.items = append(r.items, *feedback)
	return nil
}

func (r *feedbackRepoStub) List(ctx context.Context) ([]models.Feedback, error) {
	out := make([]models.Feedback, 0, len(r.items))
	for i := len(r.items) - 1; i >= 0; i-- {
		out = append(out, r.items[i])
	}
	return out, nil
}

func (r *feedbackRepoStub) MarkRead(ctx context.Context, id uint) error {
	for i := range r.items {
		if r.items[i].ID == id {
			r.items[i].IsRead = 1
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *feedbackRepoStub) Delete(ctx context.Context, id uint) error {
	for i := range r.items {
		if r.items[i].ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type notifierStub struct {
	mu        sync.Mutex
	delivered []models.Feedback
	err       error
	gate      chan struct{}
}

func (n *notifierStub) Notify(ctx context.Context, feedback models.Feedback) error {
	if n.gate != nil {
		select {
		case <-n.gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if n.err != nil {
		return n.err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.delivered = append(n.delivered, feedback)
	return nil
}

func (n *notifierStub) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.delivered)
}
