package notification

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	notificationRepo "civicdesk/database/repository/notification"
	"civicdesk/models"
)

type memNotifications struct {
	mu        sync.Mutex
	docs      []models.Notification
	clock     time.Time
	insertErr error
	findErr   error
}

func newMemNotifications() *memNotifications {
	return &memNotifications{clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (m *memNotifications) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memNotifications) seed(n models.Notification) models.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n.ID == "" {
		n.ID = fmt.Sprintf("seed-%d", len(m.docs)+1)
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = m.tick()
	}
	m.docs = append(m.docs, n)
	return n
}

func (m *memNotifications) InsertMany(_ context.Context, docs []models.Notification) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return 0, m.insertErr
	}
	for _, d := range docs {
		d.ID = fmt.Sprintf("n-%d", len(m.docs)+1)
		d.CreatedAt = m.tick()
		m.docs = append(m.docs, d)
	}
	return len(docs), nil
}

func (m *memNotifications) query(match func(models.Notification) bool, limit int) []models.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Notification{}
	for _, d := range m.docs {
		if match(d) {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (m *memNotifications) Find(_ context.Context, filter notificationRepo.Filter, limit int) ([]models.Notification, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	matcher := filter.Matcher()
	return m.query(matcher.Match, limit), nil
}

func (m *memNotifications) FindByRecipient(_ context.Context, userID string, limit int) ([]models.Notification, error) {
	return m.query(func(n models.Notification) bool {
		return n.Recipient.Kind == models.RecipientUser && n.Recipient.UserID == userID
	}, limit), nil
}

func (m *memNotifications) CountUnread(_ context.Context, userID string) (int64, error) {
	var c int64
	for _, n := range m.query(func(n models.Notification) bool { return n.Recipient.UserID == userID }, 0) {
		if !n.Read {
			c++
		}
	}
	return c, nil
}

func (m *memNotifications) FindByID(_ context.Context, id string) (*models.Notification, error) {
	if n, ok := m.byID(id); ok {
		return &n, nil
	}
	return nil, notificationRepo.ErrNotFound
}

func (m *memNotifications) MarkRead(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.docs {
		if m.docs[i].ID == id {
			m.docs[i].Read = true
			return nil
		}
	}
	return notificationRepo.ErrNotFound
}

func (m *memNotifications) MarkAllRead(_ context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var c int64
	for i := range m.docs {
		if m.docs[i].Recipient.UserID == userID && !m.docs[i].Read {
			m.docs[i].Read = true
			c++
		}
	}
	return c, nil
}

func (m *memNotifications) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.docs {
		if m.docs[i].ID == id {
			m.docs = append(m.docs[:i], m.docs[i+1:]...)
			return nil
		}
	}
	return notificationRepo.ErrNotFound
}

func (m *memNotifications) byID(id string) (models.Notification, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.docs {
		if d.ID == id {
			return d, true
		}
	}
	return models.Notification{}, false
}

type memUsers struct {
	users []models.User
	err   error
}

func (m *memUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (m *memUsers) FindApprovedByRole(_ context.Context, role string) ([]models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := []models.User{}
	for _, u := range m.users {
		if u.Role == role && u.Status == models.StatusApproved {
			out = append(out, models.User{ID: u.ID, Role: u.Role})
		}
	}
	return out, nil
}

func (m *memUsers) FindApprovedHead(_ context.Context, dept string) (*models.User, error) {
	for _, u := range m.users {
		if u.Role == models.RoleHead && u.Status == models.StatusApproved && u.DepartmentName == dept {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

type memDepartments struct {
	users *memUsers
	depts map[string]string // name -> head id
}

func (m *memDepartments) FindHead(ctx context.Context, name string) (*models.User, error) {
	headID, ok := m.depts[name]
	if !ok || headID == "" {
		return nil, nil
	}
	return m.users.GetByID(ctx, headID)
}

func (m *memDepartments) List(context.Context) ([]models.Department, error) {
	out := []models.Department{}
	for name, head := range m.depts {
		out = append(out, models.Department{Name: name, HeadID: head})
	}
	return out, nil
}

func (m *memDepartments) SetHead(_ context.Context, name, userID string) error {
	if _, ok := m.depts[name]; !ok {
		return errors.New("not found")
	}
	m.depts[name] = userID
	return nil
}

func (m *memDepartments) Seed(_ context.Context, names []string) error {
	for _, n := range names {
		if _, ok := m.depts[n]; !ok {
			m.depts[n] = ""
		}
	}
	return nil
}

type memLog struct {
	records []models.DispatchRecord
}

func (m *memLog) Append(_ context.Context, r models.DispatchRecord) error {
	m.records = append(m.records, r)
	return nil
}

func (m *memLog) Recent(_ context.Context, limit int) ([]models.DispatchRecord, error) {
	out := make([]models.DispatchRecord, 0, len(m.records))
	for i := len(m.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.records[i])
	}
	return out, nil
}

type fixture struct {
	svc           *DefaultNotificationService
	notifications *memNotifications
	users         *memUsers
	depts         *memDepartments
	log           *memLog
}

func newFixture(users ...models.User) *fixture {
	us := &memUsers{users: users}
	f := &fixture{
		notifications: newMemNotifications(),
		users:         us,
		depts:         &memDepartments{users: us, depts: map[string]string{}},
		log:           &memLog{},
	}
	f.svc = NewDefaultNotificationService(f.notifications, f.users, f.depts, f.log, Limits{Default: 50, Max: 500}, nil)
	return f
}

func collector(id string) models.User {
	return models.User{ID: id, Role: models.RoleCollector, Status: models.StatusApproved}
}
