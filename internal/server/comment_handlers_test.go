package server

import (
	"fmt"
	"net/http"
	"testing"

	"unimarket/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductComments(t *testing.T) {
	s, app := newTestServer(t)
	seller := seedTestUser(t, s, "poster", "Password123")
	asker := seedTestUser(t, s, "asker", "Password123")
	category := seedTestCategory(t, s, "Textbooks")
	product := seedTestProduct(t, s, seller.ID, category.ID, "Biology Textbook", 6000)

	commentsPath := fmt.Sprintf("/api/products/%d/comments", product.ID)

	t.Run("create", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPost, commentsPath, map[string]any{
			"content": "Does it include the lab manual?",
		})
		req.Header.Set("Authorization", bearerFor(t, s, asker))

		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var body models.ProductComment
		decodeBody(t, resp, &body)
		assert.Equal(t, asker.ID, body.AuthorID)
		require.NotNil(t, body.Author)
		assert.Equal(t, "asker", body.Author.Username)
	})

	t.Run("list is public", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(t, http.MethodGet, commentsPath, nil))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body []models.ProductComment
		decodeBody(t, resp, &body)
		require.Len(t, body, 1)
	})

	t.Run("empty content rejected", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPost, commentsPath, map[string]any{
			"content": "  ",
		})
		req.Header.Set("Authorization", bearerFor(t, s, asker))

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("only the author can delete", func(t *testing.T) {
		req := jsonRequest(t, http.MethodDelete, "/api/comments/1", nil)
		req.Header.Set("Authorization", bearerFor(t, s, seller))

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		req = jsonRequest(t, http.MethodDelete, "/api/comments/1", nil)
		req.Header.Set("Authorization", bearerFor(t, s, asker))

		resp, err = app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("comments on unknown product 404", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPost, "/api/products/9999/comments", map[string]any{
			"content": "anyone there?",
		})
		req.Header.Set("Authorization", bearerFor(t, s, asker))

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
