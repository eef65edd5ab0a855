package dashboard

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/noah-isme/bioscizone-api/internal/client"
	"github.com/noah-isme/bioscizone-api/internal/dto"
)

// Tab names a dashboard section.
type Tab string

const (
	TabBuddies   Tab = "buddies"
	TabArticles  Tab = "articles"
	TabFeedbacks Tab = "feedbacks"
	TabAdmins    Tab = "admins"
	TabSettings  Tab = "settings"
)

// Subtab selects the buddy list shown on the buddies tab.
type Subtab string

const (
	SubtabPending  Subtab = "pending"
	SubtabApproved Subtab = "approved"
)

const (
	roleSuperadmin   = "superadmin"
	auditLogPageSize = 50
)

var (
	// ErrCancelled is returned when the user declines a destructive action.
	ErrCancelled = errors.New("action cancelled")
	// ErrTabUnavailable is returned for tabs the decoded role does not offer.
	ErrTabUnavailable = errors.New("tab not available for this role")
)

// API is the part of the admin client the dashboard drives.
type API interface {
	PendingBuddies(ctx context.Context) ([]dto.BuddyResponse, error)
	ApprovedBuddies(ctx context.Context) ([]dto.BuddyResponse, error)
	ApproveBuddy(ctx context.Context, id uint) (string, error)
	DeleteBuddy(ctx context.Context, id uint) (string, error)
	AllArticles(ctx context.Context) ([]dto.ArticleResponse, error)
	CreateArticle(ctx context.Context, req dto.ArticleCreateRequest) (dto.ArticleResponse, error)
	UpdateArticle(ctx context.Context, id uint, req dto.ArticleUpdateRequest) (dto.ArticleResponse, error)
	DeleteArticle(ctx context.Context, id uint) (string, error)
	Feedbacks(ctx context.Context) ([]dto.FeedbackResponse, error)
	MarkFeedbackRead(ctx context.Context, id uint) (string, error)
	DeleteFeedback(ctx context.Context, id uint) (string, error)
	ListAdmins(ctx context.Context) ([]dto.AdminResponse, error)
	CreateAdmin(ctx context.Context, req dto.AdminCreateRequest) (dto.AdminResponse, error)
	UpdateAdmin(ctx context.Context, id string, req dto.AdminUpdateRequest) (string, error)
	DeleteAdmin(ctx context.Context, id string) (string, error)
	Settings(ctx context.Context) ([]dto.SettingResponse, error)
	UpdateSetting(ctx context.Context, key, value string) (string, error)
	AuditLogs(ctx context.Context, limit int) ([]dto.AuditLogResponse, error)
}

// Session reports login state and the decoded role.
type Session interface {
	IsLoggedIn() bool
	Role() (string, bool)
	RemoveToken() error
}

// Confirmer asks the user to approve a destructive action. It blocks until answered.
type Confirmer interface {
	Confirm(prompt string) bool
}

// Navigator moves the user back to the login view.
type Navigator interface {
	ToLogin()
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func()

func (f NavigatorFunc) ToLogin() { f() }

// Snapshot is a copy of the dashboard state.
type Snapshot struct {
	Tab       Tab
	Subtab    Subtab
	Loading   bool
	Role      string
	Pending   []dto.BuddyResponse
	Approved  []dto.BuddyResponse
	Articles  []dto.ArticleResponse
	Feedbacks []dto.FeedbackResponse
	Admins    []dto.AdminResponse
	AuditLogs []dto.AuditLogResponse
	Settings  []dto.SettingResponse
}

// UnreadFeedbacks counts feedback not yet marked read.
func (s Snapshot) UnreadFeedbacks() int {
	unread := 0
	for _, item := range s.Feedbacks {
		if !item.Read() {
			unread++
		}
	}
	return unread
}

// Visible returns the buddy list of the active subtab.
func (s Snapshot) Visible() []dto.BuddyResponse {
	if s.Subtab == SubtabApproved {
		return s.Approved
	}
	return s.Pending
}

// Dashboard is the moderation workflow. Each tab load is cancellable and
// tagged with a generation so a superseded response never lands in state.
// edits counts local patches; a load that overlapped one is fetched again.
type Dashboard struct {
	api     API
	session Session
	confirm Confirmer
	nav     Navigator
	logger  zerolog.Logger

	mu         sync.Mutex
	state      Snapshot
	generation uint64
	edits      uint64
	cancel     context.CancelFunc
}

// New constructs a dashboard starting on the pending buddies list.
func New(api API, session Session, confirm Confirmer, nav Navigator, logger zerolog.Logger) *Dashboard {
	if confirm == nil {
		confirm = ConfirmFunc(func(string) bool { return false })
	}
	if nav == nil {
		nav = NavigatorFunc(func() {})
	}
	return &Dashboard{
		api:     api,
		session: session,
		confirm: confirm,
		nav:     nav,
		logger:  logger.With().Str("component", "dashboard").Logger(),
		state:   Snapshot{Tab: TabBuddies, Subtab: SubtabPending},
	}
}

// Snapshot returns a copy of the current state.
func (d *Dashboard) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	s := d.state
	s.Pending = append([]dto.BuddyResponse(nil), s.Pending...)
	s.Approved = append([]dto.BuddyResponse(nil), s.Approved...)
	s.Articles = append([]dto.ArticleResponse(nil), s.Articles...)
	s.Feedbacks = append([]dto.FeedbackResponse(nil), s.Feedbacks...)
	s.Admins = append([]dto.AdminResponse(nil), s.Admins...)
	s.AuditLogs = append([]dto.AuditLogResponse(nil), s.AuditLogs...)
	s.Settings = append([]dto.SettingResponse(nil), s.Settings...)
	return s
}

// Tabs lists the tabs offered to the decoded role. The role only filters the
// menu; the server still authorises every call.
func (d *Dashboard) Tabs() []Tab {
	d.mu.Lock()
	role := d.state.Role
	d.mu.Unlock()
	return tabsFor(role)
}

func tabsFor(role string) []Tab {
	tabs := []Tab{TabBuddies, TabArticles, TabFeedbacks}
	if role == roleSuperadmin {
		tabs = append(tabs, TabAdmins, TabSettings)
	}
	return tabs
}

// Mount decodes the role and loads the active tab, or sends the user to login.
func (d *Dashboard) Mount(ctx context.Context) error {
	if d.session == nil || !d.session.IsLoggedIn() {
		d.nav.ToLogin()
		return client.ErrSessionExpired
	}
	role, ok := d.session.Role()
	if !ok {
		// An unreadable token would fail the same way on every mount.
		if err := d.session.RemoveToken(); err != nil {
			d.logger.Warn().Err(err).Msg("failed to clear undecodable token")
		}
		d.nav.ToLogin()
		return client.ErrSessionExpired
	}

	d.mu.Lock()
	d.state.Role = role
	tab := d.state.Tab
	d.mu.Unlock()

	return d.SelectTab(ctx, tab)
}

// Open mounts the dashboard directly on tab instead of the buddies list.
func (d *Dashboard) Open(ctx context.Context, tab Tab) error {
	d.mu.Lock()
	d.state.Tab = tab
	d.mu.Unlock()
	return d.Mount(ctx)
}

// SelectSubtab switches the visible buddy list without a reload.
func (d *Dashboard) SelectSubtab(subtab Subtab) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.Subtab = subtab
}

// SelectTab cancels any in-flight load and fetches the tab's collections.
func (d *Dashboard) SelectTab(ctx context.Context, tab Tab) error {
	d.mu.Lock()
	if !allowed(tabsFor(d.state.Role), tab) {
		d.mu.Unlock()
		return ErrTabUnavailable
	}
	if d.cancel != nil {
		d.cancel()
	}
	d.generation++
	gen := d.generation
	loadCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.state.Tab = tab
	d.state.Loading = true
	d.mu.Unlock()
	defer cancel()

	for {
		d.mu.Lock()
		edits := d.edits
		d.mu.Unlock()

		apply, err := d.load(loadCtx, tab)

		d.mu.Lock()
		if gen != d.generation {
			d.mu.Unlock()
			d.logger.Debug().Str("tab", string(tab)).Uint64("generation", gen).Msg("discarding stale load")
			return nil
		}
		if err == nil && edits != d.edits {
			d.mu.Unlock()
			d.logger.Debug().Str("tab", string(tab)).Msg("state edited during load, fetching again")
			continue
		}
		d.cancel = nil
		d.state.Loading = false
		if err == nil {
			apply(&d.state)
		}
		d.mu.Unlock()

		if err != nil {
			return d.fail(err)
		}
		return nil
	}
}

// Reload refetches the active tab.
func (d *Dashboard) Reload(ctx context.Context) error {
	d.mu.Lock()
	tab := d.state.Tab
	d.mu.Unlock()
	return d.SelectTab(ctx, tab)
}

// fail routes an expired session to login and passes the error through.
// It must be called without d.mu held.
func (d *Dashboard) fail(err error) error {
	if errors.Is(err, client.ErrSessionExpired) {
		d.nav.ToLogin()
	}
	return err
}

func allowed(tabs []Tab, tab Tab) bool {
	for _, candidate := range tabs {
		if candidate == tab {
			return true
		}
	}
	return false
}
