package dto

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-service/internal/domain"
	apperrors "github.com/spec-kit/blog-service/pkg/util/errorutil"
)

// Query parameters understood by paginated endpoints.
const (
	QueryTake     = "take"
	QueryMoreThan = "where__id__more_than"
	QueryLessThan = "where__id__less_than"
	QueryOrder    = "order__createdAt"
)

// ParseCursorQuery reads the cursor window from the query string.
func ParseCursorQuery(c *fiber.Ctx) (domain.CursorQuery, error) {
	var q domain.CursorQuery

	if raw := c.Query(QueryTake); raw != "" {
		take, err := strconv.Atoi(raw)
		if err != nil || take <= 0 {
			return q, apperrors.NewValidationError("take must be a positive integer", map[string]any{QueryTake: raw})
		}
		q.Take = take
	}
	for name, dst := range map[string]**int64{QueryMoreThan: &q.MoreThan, QueryLessThan: &q.LessThan} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return q, apperrors.NewValidationError(name+" must be an integer", map[string]any{name: raw})
		}
		*dst = &id
	}
	switch order := strings.ToUpper(c.Query(QueryOrder)); order {
	case "", string(domain.SortAsc):
		q.Order = domain.SortAsc
	case string(domain.SortDesc):
		q.Order = domain.SortDesc
	default:
		return q, apperrors.NewValidationError("order__createdAt must be ASC or DESC", map[string]any{QueryOrder: order})
	}
	return q.Normalize(), nil
}

// CursorResponse points at the last item of a full page.
type CursorResponse struct {
	After *int64 `json:"after"`
}

// PageResponse wraps one page of results.
type PageResponse[T any] struct {
	Data   []T            `json:"data"`
	Cursor CursorResponse `json:"cursor"`
	Count  int            `json:"count"`
	Next   *string        `json:"next"`
}

// NewPageResponse maps a page and builds the link to the following one.
func NewPageResponse[S, T any](c *fiber.Ctx, q domain.CursorQuery, page *domain.Page[S], mapItem func(S) T) PageResponse[T] {
	data := make([]T, 0, len(page.Items))
	for _, item := range page.Items {
		data = append(data, mapItem(item))
	}

	resp := PageResponse[T]{
		Data:   data,
		Cursor: CursorResponse{After: page.After},
		Count:  page.Count,
	}
	if page.After != nil {
		next := nextURL(c, q, *page.After)
		resp.Next = &next
	}
	return resp
}

func nextURL(c *fiber.Ctx, q domain.CursorQuery, after int64) string {
	values := url.Values{}
	values.Set(QueryTake, strconv.Itoa(q.Take))
	values.Set(QueryOrder, string(q.Order))
	if q.Order == domain.SortDesc {
		values.Set(QueryLessThan, strconv.FormatInt(after, 10))
	} else {
		values.Set(QueryMoreThan, strconv.FormatInt(after, 10))
	}
	return c.BaseURL() + c.Path() + "?" + values.Encode()
}
