package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"habithub/internal/result"
)

// Repository — обобщённый доступ к данным поверх gorm: M — доменная модель,
// E — запись в БД. Маппинг задаётся парой функций при конструировании,
// никакой рефлексии.
type Repository[M any, E any] struct {
	db       *gorm.DB
	toEntity func(*M) *E
	toModel  func(*E) *M
}

func New[M any, E any](db *gorm.DB, toEntity func(*M) *E, toModel func(*E) *M) *Repository[M, E] {
	return &Repository[M, E]{db: db, toEntity: toEntity, toModel: toModel}
}

func (r *Repository[M, E]) DB() *gorm.DB {
	return r.db
}

func (r *Repository[M, E]) Add(ctx context.Context, model *M) result.Result[result.Void] {
	entity := r.toEntity(model)

	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return result.Fail(result.NewError(result.ServerError,
			"failed to add entity: "+err.Error()))
	}
	return result.Ok()
}

// GetByFilter возвращает первую подходящую запись. Отсутствие записи — это
// УСПЕШНЫЙ результат с nil: "не нашли" решает вызывающий, не репозиторий.
func (r *Repository[M, E]) GetByFilter(ctx context.Context, query any, args ...any) result.Result[*M] {
	var entity E
	err := r.db.WithContext(ctx).Where(query, args...).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return result.Success[*M](nil)
		}
		return result.Failure[*M](result.NewError(result.ServerError,
			"failed to get entity: "+err.Error()))
	}
	return result.Success(r.toModel(&entity))
}

func (r *Repository[M, E]) GetAllByFilter(ctx context.Context, query any, args ...any) result.Result[[]*M] {
	var entities []E
	err := r.db.WithContext(ctx).Where(query, args...).Find(&entities).Error
	if err != nil {
		return result.Failure[[]*M](result.NewError(result.ServerError,
			"failed to get entities: "+err.Error()))
	}

	models := make([]*M, 0, len(entities))
	for i := range entities {
		models = append(models, r.toModel(&entities[i]))
	}
	return result.Success(models)
}

// Update загружает запись по первичному ключу, применяет mutate к записи
// (не к модели) и сохраняет.
func (r *Repository[M, E]) Update(ctx context.Context, id uuid.UUID, mutate func(*E)) result.Result[result.Void] {
	var entity E
	err := r.db.WithContext(ctx).First(&entity, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return result.Fail(result.NewError(result.NotFound, "entity not found"))
		}
		return result.Fail(result.NewError(result.ServerError,
			"failed to update entity: "+err.Error()))
	}

	mutate(&entity)

	if err := r.db.WithContext(ctx).Save(&entity).Error; err != nil {
		return result.Fail(result.NewError(result.ServerError,
			"failed to update entity: "+err.Error()))
	}
	return result.Ok()
}

// Delete удаляет все записи по фильтру. Ноль затронутых строк считается
// ошибкой BadRequest — поведение сохранено намеренно, удаление не идемпотентно.
func (r *Repository[M, E]) Delete(ctx context.Context, query any, args ...any) result.Result[result.Void] {
	res := r.db.WithContext(ctx).Where(query, args...).Delete(new(E))
	if res.Error != nil {
		return result.Fail(result.NewError(result.ServerError,
			"failed to delete entity: "+res.Error.Error()))
	}
	if res.RowsAffected == 0 {
		return result.Fail(result.NewError(result.BadRequest, "nothing to delete"))
	}
	return result.Ok()
}
