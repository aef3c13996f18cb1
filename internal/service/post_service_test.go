package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devhire/backend/internal/domain"
	"github.com/devhire/backend/internal/service"
	"github.com/devhire/backend/internal/testutil"
)

func TestPostService_Create(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, ts.DB.DB)

	tests := []struct {
		name    string
		input   service.PostInput
		wantErr error
	}{
		{
			name: "valid post",
			input: service.PostInput{
				Title:       "On caching",
				Description: "Invalidate before you read, not after",
				Tags:        []string{"go", "redis"},
			},
		},
		{
			name: "missing title",
			input: service.PostInput{
				Description: "body",
				Tags:        []string{"go"},
			},
			wantErr: domain.ErrMissingFields,
		},
		{
			name: "missing tags",
			input: service.PostInput{
				Title:       "title",
				Description: "body",
			},
			wantErr: domain.ErrMissingFields,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post, err := ts.Services.Post.Create(ctx, user, tt.input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.input.Title, post.Title)
			assert.Equal(t, user.ID, post.UserID)
			assert.Equal(t, user.FirstName+" "+user.LastName, post.Username)
		})
	}
}

func TestPostService_UpdateNonOwner(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ctx := context.Background()

	owner, _ := testutil.NewUserBuilder().Build(t, ts.DB.DB)
	other, _ := testutil.NewUserBuilder().Build(t, ts.DB.DB)
	post := testutil.NewPostBuilder(owner).Build(t, ts.DB.DB)

	_, err := ts.Services.Post.Update(ctx, other, post.ID, service.PostInput{
		Title:       "Hijacked",
		Description: "nope",
		Tags:        []string{"x"},
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// Deleting a post also removes its comment thread.
func TestPostService_DeleteCascadesComments(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ctx := context.Background()

	owner, _ := testutil.NewUserBuilder().Build(t, ts.DB.DB)
	commenter, _ := testutil.NewUserBuilder().Build(t, ts.DB.DB)
	post := testutil.NewPostBuilder(owner).Build(t, ts.DB.DB)

	_, err := ts.Services.Comment.Create(ctx, commenter, post.ID, "nice writeup")
	require.NoError(t, err)

	require.NoError(t, ts.Services.Post.Delete(ctx, owner, post.ID))

	_, err = ts.Services.Post.GetByID(ctx, post.ID)
	assert.ErrorIs(t, err, domain.ErrPostNotFound)

	comments, err := ts.Services.Comment.GetByPostID(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestPostService_GetAllWithTitleFilter(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, ts.DB.DB)
	match := testutil.NewPostBuilder(user).WithTitle("Scaling websockets").Build(t, ts.DB.DB)
	testutil.NewPostBuilder(user).WithTitle("Weekend hiking").Build(t, ts.DB.DB)

	posts, err := ts.Services.Post.GetAll(ctx, "websocket")
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, match.ID, posts[0].ID)

	posts, err = ts.Services.Post.GetAll(ctx, "")
	require.NoError(t, err)
	assert.Len(t, posts, 2)
}

func TestCommentService_Create(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, ts.DB.DB)
	post := testutil.NewPostBuilder(user).Build(t, ts.DB.DB)

	comment, err := ts.Services.Comment.Create(ctx, user, post.ID, "first")
	require.NoError(t, err)
	assert.Equal(t, post.ID, comment.PostID)
	assert.Equal(t, user.FirstName+" "+user.LastName, comment.Author)

	_, err = ts.Services.Comment.Create(ctx, user, post.ID, "")
	assert.ErrorIs(t, err, domain.ErrMissingFields)

	_, err = ts.Services.Comment.Create(ctx, user, uuid.New(), "orphan")
	assert.ErrorIs(t, err, domain.ErrPostNotFound)
}

func TestCommentService_UpdateAndDelete(t *testing.T) {
	ts := testutil.NewTestServer(t)
	ctx := context.Background()

	owner, _ := testutil.NewUserBuilder().Build(t, ts.DB.DB)
	other, _ := testutil.NewUserBuilder().Build(t, ts.DB.DB)
	admin, _ := testutil.NewUserBuilder().WithRole(domain.RoleAdmin).Build(t, ts.DB.DB)
	post := testutil.NewPostBuilder(owner).Build(t, ts.DB.DB)

	comment, err := ts.Services.Comment.Create(ctx, owner, post.ID, "original")
	require.NoError(t, err)

	_, err = ts.Services.Comment.Update(ctx, other, comment.ID, "defaced")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	updated, err := ts.Services.Comment.Update(ctx, owner, comment.ID, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Comment)

	// Admins may moderate any comment.
	require.NoError(t, ts.Services.Comment.Delete(ctx, admin, comment.ID))

	comments, err := ts.Services.Comment.GetByPostID(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}
