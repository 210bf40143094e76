package blogservice

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sushihentaime/agencysite/internal/common"
	"github.com/sushihentaime/agencysite/internal/userservice"
)

type testEnv struct {
	s       *BlogService
	db      *sql.DB
	cache   *common.Cache
	adminID int
	userID  int
}

func setupTestEnvironment(t *testing.T) *testEnv {
	db := common.TestDB(t)
	cache := common.NewCache(5*time.Minute, 10*time.Minute)

	env := &testEnv{
		s:       NewBlogService(db, cache),
		db:      db,
		cache:   cache,
		adminID: common.TestUser(t, db, "editor", string(userservice.PermissionWriteBlog)),
		userID:  common.TestUser(t, db, "reader"),
	}

	return env
}

func (e *testEnv) cleanup(t *testing.T) {
	_, err := e.db.Exec("DELETE FROM blogs")
	assert.NoError(t, err)
	e.cache.Flush()
}

func (e *testEnv) createBlog(t *testing.T, title, category string, published bool) *Blog {
	b, err := e.s.CreateBlog(context.Background(), &CreateBlogRequest{
		Title:       title,
		Content:     "This is a test blog.",
		Category:    category,
		IsPublished: published,
		Tags:        []string{"go", "cloud"},
		UserID:      e.adminID,
	})
	require.NoError(t, err)
	return b
}

func TestCreateBlog(t *testing.T) {
	env := setupTestEnvironment(t)

	testCases := []struct {
		name        string
		blog        *CreateBlogRequest
		expectedErr error
	}{
		{
			name: "valid blog",
			blog: &CreateBlogRequest{
				Title:       "Test Blog",
				Content:     "This is a test blog.<script>alert(1)</script>",
				IsPublished: true,
				Tags:        []string{"go", "go"},
				UserID:      env.adminID,
			},
			expectedErr: nil,
		},
		{
			name: "empty title",
			blog: &CreateBlogRequest{
				Content: "This is a test blog.",
				UserID:  env.adminID,
			},
			expectedErr: common.ValidationError{Errors: map[string]string{"title": "must be provided"}},
		},
		{
			name: "published without content",
			blog: &CreateBlogRequest{
				Title:       "Test Blog",
				IsPublished: true,
				UserID:      env.adminID,
			},
			expectedErr: common.ValidationError{Errors: map[string]string{"content": "must be provided for a published post"}},
		},
		{
			name: "empty user ID",
			blog: &CreateBlogRequest{
				Title:   "Test Blog",
				Content: "This is a test blog.",
			},
			expectedErr: common.ValidationError{Errors: map[string]string{"user_id": "must be greater than zero"}},
		},
		{
			name: "user without blog:write",
			blog: &CreateBlogRequest{
				Title:   "Test Blog",
				Content: "This is a test blog.",
				UserID:  env.userID,
			},
			expectedErr: common.ErrForbidden,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Cleanup(func() { env.cleanup(t) })

			b, err := env.s.CreateBlog(context.Background(), tc.blog)
			assert.Equal(t, tc.expectedErr, err)

			var count int
			require.NoError(t, env.db.QueryRow("SELECT COUNT(*) FROM blogs").Scan(&count))

			if tc.expectedErr != nil {
				assert.Equal(t, 0, count)
				return
			}

			assert.Equal(t, 1, count)
			assert.Equal(t, 1, b.Version)
			assert.Equal(t, "This is a test blog.", b.Content)

			got, err := env.s.GetBlogByID(context.Background(), b.ID)
			require.NoError(t, err)
			assert.Equal(t, []string{"go", "go"}, got.Tags)
		})
	}
}

func TestGetBlogByID(t *testing.T) {
	env := setupTestEnvironment(t)
	t.Cleanup(func() { env.cleanup(t) })

	published := env.createBlog(t, "Published", "news", true)
	draft := env.createBlog(t, "Draft", "news", false)

	testCases := []struct {
		name        string
		id          int
		expectedErr error
	}{
		{name: "published", id: published.ID, expectedErr: nil},
		{name: "draft is hidden", id: draft.ID, expectedErr: common.ErrRecordNotFound},
		{name: "missing", id: 999999, expectedErr: common.ErrRecordNotFound},
		{name: "invalid id", id: 0, expectedErr: common.ValidationError{Errors: map[string]string{"id": "must be greater than zero"}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			blog, err := env.s.GetBlogByID(context.Background(), tc.id)
			if tc.expectedErr != nil {
				assert.Nil(t, blog)
				assert.Equal(t, tc.expectedErr, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "Published", blog.Title)
		})
	}
}

func TestUpdateBlog(t *testing.T) {
	env := setupTestEnvironment(t)
	t.Cleanup(func() { env.cleanup(t) })

	ctx := context.Background()
	b := env.createBlog(t, "Test Blog", "news", false)

	title := "Updated Blog"
	publish := true

	updated, err := env.s.UpdateBlog(ctx, env.adminID, &UpdateBlogRequest{ID: b.ID, Version: b.Version, Title: &title, IsPublished: &publish})
	require.NoError(t, err)
	assert.Equal(t, "Updated Blog", updated.Title)
	assert.Equal(t, "This is a test blog.", updated.Content)
	assert.Equal(t, b.Version+1, updated.Version)

	// the stale version is rejected and the stored row is untouched
	other := "Lost Update"
	_, err = env.s.UpdateBlog(ctx, env.adminID, &UpdateBlogRequest{ID: b.ID, Version: b.Version, Title: &other})
	assert.ErrorIs(t, err, common.ErrEditConflict)

	_, err = env.s.UpdateBlog(ctx, env.userID, &UpdateBlogRequest{ID: b.ID, Version: updated.Version, Title: &other})
	assert.ErrorIs(t, err, common.ErrForbidden)

	empty := ""
	_, err = env.s.UpdateBlog(ctx, env.adminID, &UpdateBlogRequest{ID: b.ID, Version: updated.Version, Content: &empty})
	assert.Equal(t, common.ValidationError{Errors: map[string]string{"content": "must be provided for a published post"}}, err)

	_, err = env.s.UpdateBlog(ctx, env.adminID, &UpdateBlogRequest{ID: 999999, Version: 1, Title: &other})
	assert.ErrorIs(t, err, common.ErrRecordNotFound)

	got, err := env.s.GetBlogByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Updated Blog", got.Title)
	assert.True(t, got.IsPublished)
}

func TestUpdateBlogRefreshesCache(t *testing.T) {
	env := setupTestEnvironment(t)
	t.Cleanup(func() { env.cleanup(t) })

	ctx := context.Background()
	b := env.createBlog(t, "Cached", "news", true)

	_, err := env.s.GetBlogByID(ctx, b.ID)
	require.NoError(t, err)

	unpublish := false
	_, err = env.s.UpdateBlog(ctx, env.adminID, &UpdateBlogRequest{ID: b.ID, Version: b.Version, IsPublished: &unpublish})
	require.NoError(t, err)

	_, err = env.s.GetBlogByID(ctx, b.ID)
	assert.ErrorIs(t, err, common.ErrRecordNotFound)
}

func TestDeleteBlog(t *testing.T) {
	env := setupTestEnvironment(t)
	t.Cleanup(func() { env.cleanup(t) })

	b := env.createBlog(t, "Test Blog", "news", true)

	testCases := []struct {
		name        string
		blogID      int
		actorID     int
		expectedErr error
	}{
		{name: "reader is forbidden", blogID: b.ID, actorID: env.userID, expectedErr: common.ErrForbidden},
		{name: "editor deletes", blogID: b.ID, actorID: env.adminID, expectedErr: nil},
		{name: "already deleted", blogID: b.ID, actorID: env.adminID, expectedErr: common.ErrRecordNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := env.s.DeleteBlog(context.Background(), tc.actorID, tc.blogID)
			assert.Equal(t, tc.expectedErr, err)
		})
	}

	var count int
	require.NoError(t, env.db.QueryRow("SELECT COUNT(*) FROM blogs").Scan(&count))
	assert.Equal(t, 0, count)
}

func TestGetBlogs(t *testing.T) {
	env := setupTestEnvironment(t)
	t.Cleanup(func() { env.cleanup(t) })

	for i := 0; i < 5; i++ {
		env.createBlog(t, "Test Blog", "news", true)
	}
	env.createBlog(t, "Hidden Draft", "news", false)

	testCases := []struct {
		name          string
		limit         int
		offset        int
		expectedCount int
	}{
		{name: "valid limit and offset", limit: 2, offset: 0, expectedCount: 2},
		{name: "invalid limit", limit: 0, offset: 0, expectedCount: 5},
		{name: "invalid offset", limit: 5, offset: -1, expectedCount: 5},
		{name: "past the end", limit: 5, offset: 5, expectedCount: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			blogs, err := env.s.GetBlogs(context.Background(), tc.limit, tc.offset)
			require.NoError(t, err)
			assert.Len(t, blogs, tc.expectedCount)
		})
	}
}

func TestGetBlogsByTitleAndCategory(t *testing.T) {
	env := setupTestEnvironment(t)
	t.Cleanup(func() { env.cleanup(t) })

	ctx := context.Background()
	env.createBlog(t, "Scaling Go services", "engineering", true)
	env.createBlog(t, "Hiring update", "company", true)
	env.createBlog(t, "Go draft", "engineering", false)

	blogs, err := env.s.GetBlogsByTitle(ctx, "go", 10, 0)
	require.NoError(t, err)
	require.Len(t, blogs, 1)
	assert.Equal(t, "Scaling Go services", blogs[0].Title)

	blogs, err = env.s.GetBlogsByTitle(ctx, "Invalid Blog", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, blogs)

	blogs, err = env.s.GetBlogsByCategory(ctx, "company", 10, 0)
	require.NoError(t, err)
	require.Len(t, blogs, 1)
	assert.Equal(t, "Hiring update", blogs[0].Title)

	_, err = env.s.GetBlogsByCategory(ctx, "", 10, 0)
	assert.Equal(t, common.ValidationError{Errors: map[string]string{"category": "must be provided"}}, err)
}

func TestAdminGetBlogs(t *testing.T) {
	env := setupTestEnvironment(t)
	t.Cleanup(func() { env.cleanup(t) })

	ctx := context.Background()
	env.createBlog(t, "Published", "news", true)
	env.createBlog(t, "Draft", "news", false)

	blogs, err := env.s.AdminGetBlogs(ctx, env.adminID, 10, 0)
	require.NoError(t, err)
	assert.Len(t, blogs, 2)
	assert.Equal(t, "Draft", blogs[0].Title)

	_, err = env.s.AdminGetBlogs(ctx, env.userID, 10, 0)
	assert.ErrorIs(t, err, common.ErrForbidden)
}

func TestGetBlogsByTitleMatchesWildcardsLiterally(t *testing.T) {
	env := setupTestEnvironment(t)
	t.Cleanup(func() { env.cleanup(t) })

	ctx := context.Background()
	env.createBlog(t, "100% uptime", "engineering", true)
	env.createBlog(t, "snake_case tips", "engineering", true)
	env.createBlog(t, "Hiring update", "company", true)

	testCases := []struct {
		query    string
		expected []string
	}{
		{query: "_", expected: []string{"snake_case tips"}},
		{query: "%", expected: []string{"100% uptime"}},
		{query: `\`, expected: nil},
		{query: "up", expected: []string{"Hiring update", "100% uptime"}},
	}

	for _, tc := range testCases {
		t.Run(tc.query, func(t *testing.T) {
			blogs, err := env.s.GetBlogsByTitle(ctx, tc.query, 10, 0)
			require.NoError(t, err)

			var titles []string
			for _, b := range blogs {
				titles = append(titles, b.Title)
			}
			assert.ElementsMatch(t, tc.expected, titles)
		})
	}
}

func TestUpdateBlogHidesDraftsFromReaders(t *testing.T) {
	env := setupTestEnvironment(t)
	t.Cleanup(func() { env.cleanup(t) })

	ctx := context.Background()
	draft := env.createBlog(t, "Unannounced", "news", false)
	title := "Leaked"

	testCases := []struct {
		name    string
		blogID  int
		version int
	}{
		{name: "existing draft", blogID: draft.ID, version: draft.Version},
		{name: "stale version of draft", blogID: draft.ID, version: draft.Version + 5},
		{name: "missing post", blogID: 999999, version: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.s.UpdateBlog(ctx, env.userID, &UpdateBlogRequest{ID: tc.blogID, Version: tc.version, Title: &title})
			assert.ErrorIs(t, err, common.ErrForbidden)
		})
	}
}
