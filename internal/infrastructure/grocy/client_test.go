package grocy

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pantrylens/enricher/internal/domain"
)

func newTestClient(baseURL string) *Client {
	return NewClient("test-key", baseURL, 5*time.Second)
}

func TestDo_Headers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("GROCY-API-KEY"))
		assert.Equal(t, "application/json", r.Header.Get("accept"))
		fmt.Fprint(w, `[]`)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).ListQuantityUnits(context.Background())
	require.NoError(t, err)
}

func TestDo_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error_message": "invalid api key"}`)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).ListBarcodes(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInventoryAPI)
	assert.Contains(t, err.Error(), "status 401")
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestProductByBarcode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stock/products/by-barcode/4006040069034", r.URL.Path)
		fmt.Fprint(w, `{
			"product": {"id": 12, "name": "Oat Milk", "qu_id_stock": 1, "calories": null},
			"product_barcodes": [
				{"id": 7, "product_id": 12, "barcode": "4006040069034", "note": null, "amount": null, "qu_id": null}
			]
		}`)
	}))
	defer server.Close()

	details, err := newTestClient(server.URL).ProductByBarcode(context.Background(), "4006040069034")
	require.NoError(t, err)
	assert.Equal(t, 12, details.Product.ID)
	assert.Equal(t, "Oat Milk", details.Product.Name)
	assert.Nil(t, details.Product.Calories)
	require.Len(t, details.Barcodes, 1)
	assert.Nil(t, details.Barcodes[0].Note)
}

func TestResolvedConversion(t *testing.T) {
	t.Run("returns the first matching conversion", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/objects/quantity_unit_conversions_resolved", r.URL.Path)
			query := r.URL.Query()["query[]"]
			assert.ElementsMatch(t, []string{"product_id=12", "from_qu_id=1", "to_qu_id=2"}, query)
			fmt.Fprint(w, `[{"id": 3, "product_id": 12, "from_qu_id": 1, "to_qu_id": 2, "factor": 250}]`)
		}))
		defer server.Close()

		conversion, err := newTestClient(server.URL).ResolvedConversion(context.Background(), 12, 1, 2)
		require.NoError(t, err)
		require.NotNil(t, conversion)
		assert.Equal(t, 250.0, conversion.Factor)
	})

	t.Run("returns nil when no conversion exists", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `[]`)
		}))
		defer server.Close()

		conversion, err := newTestClient(server.URL).ResolvedConversion(context.Background(), 12, 1, 2)
		require.NoError(t, err)
		assert.Nil(t, conversion)
	})
}

func TestUpdateBarcode(t *testing.T) {
	note := "Oat Milk 1l"
	amount := 1000.0
	unitID := 4

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/objects/product_barcodes/7", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var record domain.BarcodeRecord
		require.NoError(t, json.NewDecoder(r.Body).Decode(&record))
		assert.Equal(t, "Oat Milk 1l", *record.Note)
		assert.Equal(t, 1000.0, *record.Amount)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	err := newTestClient(server.URL).UpdateBarcode(context.Background(), &domain.BarcodeRecord{
		ID: 7, ProductID: 12, Barcode: "4006040069034", Note: &note, Amount: &amount, UnitID: &unitID,
	})
	require.NoError(t, err)
}

func TestUploadProductPicture(t *testing.T) {
	encodedName := base64.StdEncoding.EncodeToString([]byte("12.jpg"))

	t.Run("uploads and points the product at the picture", func(t *testing.T) {
		var requests []string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests = append(requests, r.Method+" "+r.URL.Path)
			if r.Method == http.MethodPut && r.URL.Path == "/files/productpictures/"+encodedName {
				body, _ := io.ReadAll(r.Body)
				assert.Equal(t, []byte("jpeg-bytes"), body)
			}
			if r.URL.Path == "/objects/products/12" {
				var fields map[string]any
				require.NoError(t, json.NewDecoder(r.Body).Decode(&fields))
				assert.Equal(t, "12.jpg", fields["picture_file_name"])
			}
			w.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		err := newTestClient(server.URL).UploadProductPicture(context.Background(), 12, []byte("jpeg-bytes"))
		require.NoError(t, err)
		assert.Equal(t, []string{
			"PUT /files/productpictures/" + encodedName,
			"PUT /objects/products/12",
		}, requests)
	})

	t.Run("deletes and retries once when the first upload fails", func(t *testing.T) {
		var requests []string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests = append(requests, r.Method+" "+r.URL.Path)
			if r.Method == http.MethodPut && r.URL.Path == "/files/productpictures/"+encodedName && len(requests) == 1 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		err := newTestClient(server.URL).UploadProductPicture(context.Background(), 12, []byte("jpeg-bytes"))
		require.NoError(t, err)
		assert.Equal(t, []string{
			"PUT /files/productpictures/" + encodedName,
			"DELETE /files/productpictures/" + encodedName,
			"PUT /files/productpictures/" + encodedName,
			"PUT /objects/products/12",
		}, requests)
	})
}

func TestCreateConversion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/objects/quantity_unit_conversions", r.URL.Path)

		var rule domain.ConversionRule
		require.NoError(t, json.NewDecoder(r.Body).Decode(&rule))
		assert.Equal(t, 250.0, rule.Factor)
		assert.Equal(t, 12, rule.ProductID)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	err := newTestClient(server.URL).CreateConversion(context.Background(), &domain.ConversionRule{
		ProductID: 12, FromUnitID: 1, ToUnitID: 2, Factor: 250,
	})
	require.NoError(t, err)
}

func TestNameIDMap(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/objects/locations", r.URL.Path)
		fmt.Fprint(w, `[{"id": 1, "name": "Pantry"}, {"id": 2, "name": "Fridge"}]`)
	}))
	defer server.Close()

	mapping, err := newTestClient(server.URL).NameIDMap(context.Background(), "locations")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Pantry": 1, "Fridge": 2}, mapping)
}

func TestFindProductByName(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, []string{"name=Oat Milk"}, r.URL.Query()["query[]"])
			fmt.Fprint(w, `[{"id": 12, "name": "Oat Milk", "qu_id_stock": 1}]`)
		}))
		defer server.Close()

		product, err := newTestClient(server.URL).FindProductByName(context.Background(), "Oat Milk")
		require.NoError(t, err)
		require.NotNil(t, product)
		assert.Equal(t, 12, product.ID)
	})

	t.Run("missing", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `[]`)
		}))
		defer server.Close()

		product, err := newTestClient(server.URL).FindProductByName(context.Background(), "Nope")
		require.NoError(t, err)
		assert.Nil(t, product)
	})
}

func TestMaxObjectID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"id": 3, "name": "a"}, {"id": 41, "name": "b"}, {"id": 7, "name": "c"}]`)
	}))
	defer server.Close()

	maxID, err := newTestClient(server.URL).MaxObjectID(context.Background(), "products")
	require.NoError(t, err)
	assert.Equal(t, 41, maxID)
}

func TestConversionID_Missing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).ConversionID(context.Background(), 12, 1, 2)
	assert.ErrorIs(t, err, domain.ErrInventoryAPI)
}
