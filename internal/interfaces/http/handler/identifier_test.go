package handler

import (
	"net/http"
	"testing"

	amazonapp "github.com/erp/mws-connector/internal/application/amazon"
	"github.com/erp/mws-connector/internal/interfaces/http/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentifierHandler(t *testing.T) {
	env := newTestEnv(t)
	p := env.product("SKU-1", "Desk Lamp")
	path := "/amazon/products/" + p.ID.String() + "/identifiers"

	var added []amazonapp.IdentifierResponse
	for _, body := range []map[string]string{
		{"code": "4006381333931", "code_type": "EAN"},
		{"code": "B00TEST123", "code_type": "asin"},
	} {
		w := env.do(http.MethodPost, path, body)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var resp amazonapp.IdentifierResponse
		decode(t, w, &resp)
		added = append(added, resp)
	}
	assert.Equal(t, "ASIN", added[1].CodeType)

	t.Run("list keeps insertion order", func(t *testing.T) {
		w := env.do(http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var got []amazonapp.IdentifierResponse
		decode(t, w, &got)
		require.Len(t, got, 2)
		assert.Equal(t, added[0].ID, got[0].ID)
		assert.Equal(t, added[1].ID, got[1].ID)
	})

	t.Run("duplicate code and type", func(t *testing.T) {
		other := env.product("SKU-2", "Floor Lamp")
		w := env.do(http.MethodPost, "/amazon/products/"+other.ID.String()+"/identifiers",
			map[string]string{"code": "4006381333931", "code_type": "EAN"})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, dto.ErrCodeDuplicateIdentifier, errorCode(t, w))
	})

	t.Run("shared product code", func(t *testing.T) {
		twin := env.product("SKU-1", "Desk Lamp Copy")
		w := env.do(http.MethodPost, "/amazon/products/"+twin.ID.String()+"/identifiers",
			map[string]string{"code": "0012345678905", "code_type": "UPC"})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, dto.ErrCodeDuplicateProductCode, errorCode(t, w))
	})

	t.Run("unknown code type", func(t *testing.T) {
		w := env.do(http.MethodPost, path, map[string]string{"code": "X1", "code_type": "SKU"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidInput, errorCode(t, w))
	})

	t.Run("unknown product", func(t *testing.T) {
		w := env.do(http.MethodGet, "/amazon/products/"+uuid.NewString()+"/identifiers", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, dto.ErrCodeNotFound, errorCode(t, w))
	})

	t.Run("remove", func(t *testing.T) {
		w := env.do(http.MethodDelete, "/amazon/identifiers/"+added[0].ID.String(), nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = env.do(http.MethodDelete, "/amazon/identifiers/"+added[0].ID.String(), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, dto.ErrCodeNotFound, errorCode(t, w))
	})
}
