package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fjod/go_catalog/internal/domain"
	"github.com/fjod/go_catalog/internal/repository"
	"github.com/fjod/go_catalog/internal/service"
)

var testIdentity = domain.Identity{UserID: "u1", Username: "alice", Role: "customer"}

func catalogItem() *domain.Item {
	return &domain.Item{
		Name:     "boots",
		Category: []string{"shoes"},
		Price:    49.99,
		Ratings:  []domain.Rating{{UserID: "u1", Value: 5}},
		Comments: []domain.Comment{{ID: "c1", AuthorID: "u2", Text: "solid", Likes: []string{}, Dislikes: []string{}}},
	}
}

func decodeErrors(t *testing.T, recorder *httptest.ResponseRecorder) []string {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	msgs := make([]string, 0, len(resp.Errors))
	for _, e := range resp.Errors {
		msgs = append(msgs, e.Msg)
	}
	return msgs
}

func TestMutatingRoute_NoToken(t *testing.T) {
	catalog := &mockCatalog{item: catalogItem()}
	router := newTestRouter(catalog, &mockBags{})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("PUT", "/items/rating/abc", bytes.NewBufferString(`{"value":5}`))

	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, []string{"No token, denied"}, decodeErrors(t, recorder))
	// rejected before anything was read or written
	assert.Zero(t, catalog.calls.Load())
}

func TestMutatingRoute_InvalidToken(t *testing.T) {
	catalog := &mockCatalog{item: catalogItem()}
	router := newTestRouter(catalog, &mockBags{})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("PUT", "/items/rating/abc", bytes.NewBufferString(`{"value":5}`))
	request.Header.Set("x-auth-token", "garbage")

	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, []string{"Token is not valid"}, decodeErrors(t, recorder))
	assert.Zero(t, catalog.calls.Load())
}

func TestListItems_Public(t *testing.T) {
	catalog := &mockCatalog{item: catalogItem()}
	router := newTestRouter(catalog, &mockBags{})

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("GET", "/items", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)

	var items []domain.Item
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&items))
	require.Len(t, items, 1)
	assert.Equal(t, "boots", items[0].Name)
}

func TestGetItem_NotFound(t *testing.T) {
	catalog := &mockCatalog{err: repository.ErrItemNotFound}
	router := newTestRouter(catalog, &mockBags{})

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest("GET", "/items/unknown", nil))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, []string{"Item does not exist"}, decodeErrors(t, recorder))
}

func TestRateItem_Success(t *testing.T) {
	catalog := &mockCatalog{item: catalogItem()}
	router := newTestRouter(catalog, &mockBags{})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("PUT", "/items/rating/abc", bytes.NewBufferString(`{"value":5}`))
	request.Header.Set("x-auth-token", testToken(testIdentity))

	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, testIdentity, catalog.lastActor)
	assert.Equal(t, 5, catalog.lastValue)

	var ratings []domain.Rating
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&ratings))
	require.Len(t, ratings, 1)
	assert.Equal(t, 5, ratings[0].Value)
}

func TestRateItem_ValueOutOfRange(t *testing.T) {
	catalog := &mockCatalog{item: catalogItem()}
	router := newTestRouter(catalog, &mockBags{})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("PUT", "/items/rating/abc", bytes.NewBufferString(`{"value":9}`))
	request.Header.Set("x-auth-token", testToken(testIdentity))

	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, []string{"Value is out of range"}, decodeErrors(t, recorder))
	assert.Zero(t, catalog.calls.Load())
}

func TestRateItem_MissingValue(t *testing.T) {
	catalog := &mockCatalog{item: catalogItem()}
	router := newTestRouter(catalog, &mockBags{})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("PUT", "/items/rating/abc", bytes.NewBufferString(`{}`))
	request.Header.Set("x-auth-token", testToken(testIdentity))

	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, []string{"Value is required"}, decodeErrors(t, recorder))
	assert.Zero(t, catalog.calls.Load())
}

func TestCreateItem_SplitsCategories(t *testing.T) {
	catalog := &mockCatalog{item: catalogItem()}
	router := newTestRouter(catalog, &mockBags{})

	body := `{"name":"boots","category":" shoes, outdoor ","price":49.99}`
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("POST", "/items", bytes.NewBufferString(body))
	request.Header.Set("x-auth-token", testToken(domain.Identity{UserID: "u9", Username: "root", Role: domain.RoleAdmin}))

	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusCreated, recorder.Code)
	assert.Equal(t, int64(1), catalog.calls.Load())
}

func TestCreateItem_Forbidden(t *testing.T) {
	catalog := &mockCatalog{err: service.ErrForbidden}
	router := newTestRouter(catalog, &mockBags{})

	body := `{"name":"boots","category":"shoes","price":49.99}`
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("POST", "/items", bytes.NewBufferString(body))
	request.Header.Set("x-auth-token", testToken(testIdentity))

	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.Equal(t, []string{"Admin role required"}, decodeErrors(t, recorder))
}

func TestLikeComment_UnknownComment(t *testing.T) {
	catalog := &mockCatalog{err: repository.ErrCommentNotFound}
	router := newTestRouter(catalog, &mockBags{})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("PUT", "/items/comment/like/abc/c-missing", nil)
	request.Header.Set("x-auth-token", testToken(testIdentity))

	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, []string{"Comment does not exist"}, decodeErrors(t, recorder))
}

func TestLikeComment_Success(t *testing.T) {
	item := catalogItem()
	item.Comments[0].Likes = []string{"u1"}
	catalog := &mockCatalog{item: item}
	router := newTestRouter(catalog, &mockBags{})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("PUT", "/items/comment/like/abc/c1", nil)
	request.Header.Set("x-auth-token", testToken(testIdentity))

	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)

	var comments []domain.Comment
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&comments))
	require.Len(t, comments, 1)
	assert.Equal(t, []string{"u1"}, comments[0].Likes)
}
