package usecase

import (
	"context"
	"io"
	"mime"
	"time"

	"github.com/google/uuid"

	"habithub/internal/domain"
	"habithub/internal/infrastructure/repository"
	"habithub/internal/infrastructure/storage"
	"habithub/internal/result"
)

type MediaUpload struct {
	Reader    io.Reader
	Size      int64
	Extension string
}

type AddPostInput struct {
	HabitID uuid.UUID
	Text    string
	Media   []MediaUpload
}

// PostView — пост для ленты: автор, счётчики и ссылки на медиа.
type PostView struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	HabitID       uuid.UUID `json:"habit_id"`
	AuthorName    string    `json:"author_name"`
	Text          string    `json:"text"`
	DateTime      time.Time `json:"date_time"`
	LikesCount    int64     `json:"likes_count"`
	CommentsCount int64     `json:"comments_count"`
	MediaURLs     []string  `json:"media_urls"`
}

type PostService struct {
	posts    *repository.PostRepository
	likes    *repository.LikeRepository
	comments *repository.CommentRepository
	media    *repository.MediaFileRepository
	habits   *repository.HabitRepository
	users    *repository.UserRepository
	storage  storage.MediaStorage
}

func NewPostService(
	posts *repository.PostRepository,
	likes *repository.LikeRepository,
	comments *repository.CommentRepository,
	media *repository.MediaFileRepository,
	habits *repository.HabitRepository,
	users *repository.UserRepository,
	mediaStorage storage.MediaStorage,
) *PostService {
	return &PostService{
		posts:    posts,
		likes:    likes,
		comments: comments,
		media:    media,
		habits:   habits,
		users:    users,
		storage:  mediaStorage,
	}
}

func (s *PostService) Add(ctx context.Context, userID uuid.UUID, input AddPostInput) result.Result[*domain.Post] {
	if input.Text == "" && len(input.Media) == 0 {
		return result.Failure[*domain.Post](result.NewError(result.BadRequest,
			"post must have text or media"))
	}

	habitRes := s.habits.GetByFilter(ctx, "id = ? AND user_id = ?", input.HabitID, userID)
	if !habitRes.IsSuccess() {
		return result.Failure[*domain.Post](habitRes.Err())
	}
	if habitRes.Value() == nil {
		return result.Failure[*domain.Post](result.NewError(result.BadRequest,
			"no permission to access habit"))
	}

	post := &domain.Post{
		ID:       uuid.New(),
		UserID:   userID,
		HabitID:  input.HabitID,
		Text:     input.Text,
		DateTime: time.Now().UTC(),
	}
	if addRes := s.posts.Add(ctx, post); !addRes.IsSuccess() {
		return result.Failure[*domain.Post](addRes.Err())
	}

	for _, upload := range input.Media {
		file := domain.MediaFile{
			ID:        uuid.New(),
			PostID:    post.ID,
			Extension: upload.Extension,
		}
		objectName := file.ID.String() + "." + file.Extension

		contentType := mime.TypeByExtension("." + file.Extension)
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		upRes := s.storage.Upload(ctx, objectName, upload.Reader, upload.Size, contentType)
		if !upRes.IsSuccess() {
			return result.Failure[*domain.Post](upRes.Err())
		}
		if rowRes := s.media.Add(ctx, &file); !rowRes.IsSuccess() {
			// Строка не записалась — блоб не должен остаться сиротой.
			_ = s.storage.Remove(ctx, objectName)
			return result.Failure[*domain.Post](rowRes.Err())
		}
		post.MediaFiles = append(post.MediaFiles, file)
	}

	return result.Success(post)
}

func (s *PostService) GetAllByNew(ctx context.Context) result.Result[[]*PostView] {
	postsRes := s.posts.GetAllByNew(ctx)
	if !postsRes.IsSuccess() {
		return result.Failure[[]*PostView](postsRes.Err())
	}

	views := make([]*PostView, 0, len(postsRes.Value()))
	for _, post := range postsRes.Value() {
		viewRes := s.buildView(ctx, post)
		if !viewRes.IsSuccess() {
			return result.Failure[[]*PostView](viewRes.Err())
		}
		views = append(views, viewRes.Value())
	}
	return result.Success(views)
}

func (s *PostService) GetByID(ctx context.Context, postID uuid.UUID) result.Result[*PostView] {
	postRes := s.posts.GetByFilter(ctx, "id = ?", postID)
	if !postRes.IsSuccess() {
		return result.Failure[*PostView](postRes.Err())
	}
	post := postRes.Value()
	if post == nil {
		return result.Failure[*PostView](result.NewError(result.NotFound, "post not found"))
	}

	// GetByFilter не подтягивает медиа, добираем строки отдельно.
	filesRes := s.media.GetAllByFilter(ctx, "post_id = ?", post.ID)
	if !filesRes.IsSuccess() {
		return result.Failure[*PostView](filesRes.Err())
	}
	for _, f := range filesRes.Value() {
		post.MediaFiles = append(post.MediaFiles, *f)
	}

	return s.buildView(ctx, post)
}

func (s *PostService) buildView(ctx context.Context, post *domain.Post) result.Result[*PostView] {
	view := &PostView{
		ID:       post.ID,
		UserID:   post.UserID,
		HabitID:  post.HabitID,
		Text:     post.Text,
		DateTime: post.DateTime,
	}

	authorRes := s.users.GetByFilter(ctx, "id = ?", post.UserID)
	if !authorRes.IsSuccess() {
		return result.Failure[*PostView](authorRes.Err())
	}
	if author := authorRes.Value(); author != nil {
		view.AuthorName = author.FirstName + " " + author.LastName
	}

	likesRes := s.likes.CountByPost(ctx, post.ID)
	if !likesRes.IsSuccess() {
		return result.Failure[*PostView](likesRes.Err())
	}
	view.LikesCount = likesRes.Value()

	commentsRes := s.comments.CountByPost(ctx, post.ID)
	if !commentsRes.IsSuccess() {
		return result.Failure[*PostView](commentsRes.Err())
	}
	view.CommentsCount = commentsRes.Value()

	for _, f := range post.MediaFiles {
		urlRes := s.storage.PresignedURL(ctx, f.ID.String()+"."+f.Extension)
		if !urlRes.IsSuccess() {
			return result.Failure[*PostView](urlRes.Err())
		}
		view.MediaURLs = append(view.MediaURLs, urlRes.Value())
	}

	return result.Success(view)
}

func (s *PostService) Update(ctx context.Context, userID, postID uuid.UUID, text string) result.Result[result.Void] {
	ownRes := s.posts.GetByFilter(ctx, "id = ? AND user_id = ?", postID, userID)
	if !ownRes.IsSuccess() {
		return result.Fail(ownRes.Err())
	}
	if ownRes.Value() == nil {
		return result.Fail(result.NewError(result.BadRequest, "no permission to edit post"))
	}

	return s.posts.Update(ctx, postID, func(e *repository.PostEntity) {
		e.Text = text
	})
}

func (s *PostService) Delete(ctx context.Context, userID, postID uuid.UUID) result.Result[result.Void] {
	ownRes := s.posts.GetByFilter(ctx, "id = ? AND user_id = ?", postID, userID)
	if !ownRes.IsSuccess() {
		return result.Fail(ownRes.Err())
	}
	if ownRes.Value() == nil {
		return result.Fail(result.NewError(result.BadRequest, "no permission to delete post"))
	}

	filesRes := s.media.GetAllByFilter(ctx, "post_id = ?", postID)
	if !filesRes.IsSuccess() {
		return result.Fail(filesRes.Err())
	}

	if delRes := s.posts.Delete(ctx, "id = ?", postID); !delRes.IsSuccess() {
		return delRes
	}

	// Строки снёс каскад, блобы чистим после подтверждённого удаления.
	for _, f := range filesRes.Value() {
		_ = s.storage.Remove(ctx, f.ID.String()+"."+f.Extension)
	}
	return result.Ok()
}

// AddLike переводит пару (пользователь, пост) из "нет лайка" в "лайк".
// Повторный лайк — ошибка, молчаливого no-op нет.
func (s *PostService) AddLike(ctx context.Context, userID, postID uuid.UUID) result.Result[result.Void] {
	postRes := s.posts.GetByFilter(ctx, "id = ?", postID)
	if !postRes.IsSuccess() {
		return result.Fail(postRes.Err())
	}
	if postRes.Value() == nil {
		return result.Fail(result.NewError(result.NotFound, "post not found"))
	}

	existingRes := s.likes.GetByFilter(ctx, "post_id = ? AND user_id = ?", postID, userID)
	if !existingRes.IsSuccess() {
		return result.Fail(existingRes.Err())
	}
	if existingRes.Value() != nil {
		return result.Fail(result.NewError(result.BadRequest, "post already liked"))
	}

	return s.likes.Add(ctx, &domain.Like{ID: uuid.New(), PostID: postID, UserID: userID})
}

func (s *PostService) RemoveLike(ctx context.Context, userID, postID uuid.UUID) result.Result[result.Void] {
	return s.likes.Delete(ctx, "post_id = ? AND user_id = ?", postID, userID)
}

func (s *PostService) AddComment(ctx context.Context, userID, postID uuid.UUID, text string) result.Result[*domain.Comment] {
	if text == "" {
		return result.Failure[*domain.Comment](result.NewError(result.BadRequest,
			"comment text cannot be empty"))
	}

	postRes := s.posts.GetByFilter(ctx, "id = ?", postID)
	if !postRes.IsSuccess() {
		return result.Failure[*domain.Comment](postRes.Err())
	}
	if postRes.Value() == nil {
		return result.Failure[*domain.Comment](result.NewError(result.NotFound, "post not found"))
	}

	comment := &domain.Comment{
		ID:       uuid.New(),
		PostID:   postID,
		UserID:   userID,
		Text:     text,
		DateTime: time.Now().UTC(),
	}
	if addRes := s.comments.Add(ctx, comment); !addRes.IsSuccess() {
		return result.Failure[*domain.Comment](addRes.Err())
	}
	return result.Success(comment)
}

func (s *PostService) DeleteComment(ctx context.Context, userID, commentID uuid.UUID) result.Result[result.Void] {
	ownRes := s.comments.GetByFilter(ctx, "id = ? AND user_id = ?", commentID, userID)
	if !ownRes.IsSuccess() {
		return result.Fail(ownRes.Err())
	}
	if ownRes.Value() == nil {
		return result.Fail(result.NewError(result.BadRequest, "no permission to delete comment"))
	}
	return s.comments.Delete(ctx, "id = ?", commentID)
}

func (s *PostService) GetComments(ctx context.Context, postID uuid.UUID) result.Result[[]*domain.Comment] {
	return s.comments.GetAllByPost(ctx, postID)
}
