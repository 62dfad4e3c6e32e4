package service

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"

	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/events"
)

// fakeTx runs fn inline and counts transactions.
type fakeTx struct {
	calls int
}

func (t *fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *mockUserRepo) List(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]domain.User)
	return users, args.Error(1)
}

func (m *mockUserRepo) IncrementFollowerCount(ctx context.Context, id int64, delta int) error {
	return m.Called(ctx, id, delta).Error(0)
}

func (m *mockUserRepo) IncrementFollowingCount(ctx context.Context, id int64, delta int) error {
	return m.Called(ctx, id, delta).Error(0)
}

type memoryFollows struct {
	edges  map[[2]int64]*domain.Follow
	nextID int64
}

func newMemoryFollows() *memoryFollows {
	return &memoryFollows{edges: map[[2]int64]*domain.Follow{}}
}

func (m *memoryFollows) Create(_ context.Context, followerID, followingID int64) error {
	m.nextID++
	m.edges[[2]int64{followerID, followingID}] = &domain.Follow{ID: m.nextID, FollowerID: followerID, FollowingID: followingID}
	return nil
}

func (m *memoryFollows) Get(_ context.Context, followerID, followingID int64) (*domain.Follow, error) {
	edge, ok := m.edges[[2]int64{followerID, followingID}]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *edge
	return &copied, nil
}

func (m *memoryFollows) Confirm(_ context.Context, id int64) error {
	for _, edge := range m.edges {
		if edge.ID == id {
			edge.IsConfirmed = true
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (m *memoryFollows) Delete(_ context.Context, followerID, followingID int64) (int64, error) {
	key := [2]int64{followerID, followingID}
	if _, ok := m.edges[key]; !ok {
		return 0, nil
	}
	delete(m.edges, key)
	return 1, nil
}

func (m *memoryFollows) ListFollowers(_ context.Context, followingID int64, includeNotConfirmed bool) ([]domain.Follower, error) {
	var out []domain.Follower
	for key, edge := range m.edges {
		if key[1] == followingID && (edge.IsConfirmed || includeNotConfirmed) {
			out = append(out, domain.Follower{ID: key[0], IsConfirmed: edge.IsConfirmed})
		}
	}
	return out, nil
}

type memoryPosts struct {
	posts  map[int64]*domain.Post
	nextID int64
}

func newMemoryPosts() *memoryPosts {
	return &memoryPosts{posts: map[int64]*domain.Post{}}
}

func (m *memoryPosts) Create(_ context.Context, post *domain.Post) error {
	m.nextID++
	post.ID = m.nextID
	copied := *post
	m.posts[post.ID] = &copied
	return nil
}

func (m *memoryPosts) Update(_ context.Context, post *domain.Post) error {
	if _, ok := m.posts[post.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *post
	m.posts[post.ID] = &copied
	return nil
}

func (m *memoryPosts) Delete(_ context.Context, id int64) error {
	if _, ok := m.posts[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.posts, id)
	return nil
}

func (m *memoryPosts) GetByID(_ context.Context, id int64) (*domain.Post, error) {
	post, ok := m.posts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *post
	return &copied, nil
}

func (m *memoryPosts) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := m.posts[id]
	return ok, nil
}

func (m *memoryPosts) IsAuthor(_ context.Context, userID, postID int64) (bool, error) {
	post, ok := m.posts[postID]
	return ok && post.AuthorID == userID, nil
}

func (m *memoryPosts) Paginate(_ context.Context, q domain.CursorQuery) (*domain.Page[domain.Post], error) {
	q = q.Normalize()
	var items []domain.Post
	for id := int64(1); id <= m.nextID && len(items) < q.Take; id++ {
		if post, ok := m.posts[id]; ok {
			items = append(items, *post)
		}
	}
	return &domain.Page[domain.Post]{Items: items, Count: len(items)}, nil
}

func (m *memoryPosts) IncrementCommentCount(_ context.Context, id int64, delta int) error {
	post, ok := m.posts[id]
	if !ok {
		return pgx.ErrNoRows
	}
	post.CommentCount += delta
	return nil
}

type memoryComments struct {
	comments map[int64]*domain.Comment
	nextID   int64
}

func newMemoryComments() *memoryComments {
	return &memoryComments{comments: map[int64]*domain.Comment{}}
}

func (m *memoryComments) Create(_ context.Context, comment *domain.Comment) error {
	m.nextID++
	comment.ID = m.nextID
	copied := *comment
	m.comments[comment.ID] = &copied
	return nil
}

func (m *memoryComments) Update(_ context.Context, comment *domain.Comment) error {
	copied := *comment
	m.comments[comment.ID] = &copied
	return nil
}

func (m *memoryComments) Delete(_ context.Context, id int64) error {
	if _, ok := m.comments[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.comments, id)
	return nil
}

func (m *memoryComments) GetByID(_ context.Context, id int64) (*domain.Comment, error) {
	comment, ok := m.comments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *comment
	return &copied, nil
}

func (m *memoryComments) IsAuthor(_ context.Context, userID, commentID int64) (bool, error) {
	comment, ok := m.comments[commentID]
	return ok && comment.AuthorID == userID, nil
}

func (m *memoryComments) PaginateByPost(_ context.Context, postID int64, _ domain.CursorQuery) (*domain.Page[domain.Comment], error) {
	var items []domain.Comment
	for id := int64(1); id <= m.nextID; id++ {
		if comment, ok := m.comments[id]; ok && comment.PostID == postID {
			items = append(items, *comment)
		}
	}
	return &domain.Page[domain.Comment]{Items: items, Count: len(items)}, nil
}

type memoryChats struct {
	chats    map[int64]*domain.Chat
	messages []domain.Message
	nextID   int64
}

func newMemoryChats() *memoryChats {
	return &memoryChats{chats: map[int64]*domain.Chat{}}
}

func (m *memoryChats) Create(_ context.Context, chat *domain.Chat) error {
	m.nextID++
	chat.ID = m.nextID
	copied := *chat
	m.chats[chat.ID] = &copied
	return nil
}

func (m *memoryChats) GetByID(_ context.Context, id int64) (*domain.Chat, error) {
	chat, ok := m.chats[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *chat
	return &copied, nil
}

func (m *memoryChats) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := m.chats[id]
	return ok, nil
}

func (m *memoryChats) Paginate(_ context.Context, _ domain.CursorQuery) (*domain.Page[domain.Chat], error) {
	var items []domain.Chat
	for id := int64(1); id <= m.nextID; id++ {
		if chat, ok := m.chats[id]; ok {
			items = append(items, *chat)
		}
	}
	return &domain.Page[domain.Chat]{Items: items, Count: len(items)}, nil
}

// memoryMessages shares storage with memoryChats.
type memoryMessages struct {
	chats *memoryChats
}

func (m memoryMessages) Create(_ context.Context, message *domain.Message) error {
	message.ID = int64(len(m.chats.messages) + 1)
	m.chats.messages = append(m.chats.messages, *message)
	return nil
}

func (m memoryMessages) PaginateByChat(_ context.Context, chatID int64, _ domain.CursorQuery) (*domain.Page[domain.Message], error) {
	var items []domain.Message
	for _, message := range m.chats.messages {
		if message.ChatID == chatID {
			items = append(items, message)
		}
	}
	return &domain.Page[domain.Message]{Items: items, Count: len(items)}, nil
}

// recordingDispatcher keeps every published event.
type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}
