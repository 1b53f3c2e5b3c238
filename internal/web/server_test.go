package web

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/printvault/internal/config"
	"github.com/JonMunkholm/printvault/internal/core"
	"github.com/JonMunkholm/printvault/internal/storage/memstore"
)

type addResponse struct {
	Paint  core.CatalogEntry `json:"paint"`
	Result outcomeResponse   `json:"result"`
}

type outcomeResponse struct {
	Outcome  string              `json:"outcome"`
	Quantity int                 `json:"quantity"`
	Entry    core.InventoryEntry `json:"entry"`
}

func testConfig() *config.Config {
	return &config.Config{
		Server:  config.ServerConfig{RequestTimeout: 5 * time.Second},
		Storage: config.StorageConfig{Driver: config.DriverMemory},
		Import:  config.ImportConfig{MaxFileSize: 1 << 20, MaxConcurrent: 2, MaxWaitTime: time.Second},
	}
}

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	svc := core.NewService(memstore.New(), core.ServiceOptions{
		MaxImportSize:        cfg.Import.MaxFileSize,
		MaxConcurrentImports: cfg.Import.MaxConcurrent,
		ImportWait:           cfg.Import.MaxWaitTime,
	})
	s := NewServer(svc, cfg)
	t.Cleanup(func() { s.Shutdown(context.Background()) })
	return s
}

func do(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func jsonRequest(method, path string, body any) *http.Request {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func deadWhite() core.AddPaintRequest {
	return core.AddPaintRequest{
		Brand: "Vallejo", Range: "Game Color", Type: "Base",
		ManufacturerCode: "72.001", Name: "Dead White",
	}
}

func addPaint(t *testing.T, s *Server, req core.AddPaintRequest) addResponse {
	t.Helper()
	rec := do(s, jsonRequest(http.MethodPost, "/api/paints", req))
	require.Contains(t, []int{http.StatusCreated, http.StatusOK}, rec.Code, rec.Body.String())
	var out addResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func uploadRequest(t *testing.T, fileName, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp.Code
}

func TestAddPaint_CreatesThenIncrements(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := do(s, jsonRequest(http.MethodPost, "/api/paints", deadWhite()))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var first addResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))
	assert.Equal(t, "added_new", first.Result.Outcome)
	assert.Equal(t, 1, first.Result.Quantity)

	rec = do(s, jsonRequest(http.MethodPost, "/api/paints", deadWhite()))
	require.Equal(t, http.StatusOK, rec.Code)

	var second addResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))
	assert.Equal(t, "incremented", second.Result.Outcome)
	assert.Equal(t, 2, second.Result.Quantity)
	assert.Equal(t, first.Paint.ID, second.Paint.ID)
}

func TestAddPaint_FormPost(t *testing.T) {
	s := newTestServer(t, testConfig())

	form := "brand=Citadel&range=Base&type=Base&manufacturerCode=21-01&name=Abaddon+Black&status=wishlist&quantity=3"
	req := httptest.NewRequest(http.MethodPost, "/api/paints", strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")

	rec := do(s, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "Abaddon Black added")
	assert.Equal(t, "inventoryChanged", rec.Header().Get("HX-Trigger"))

	rec = do(s, httptest.NewRequest(http.MethodGet, "/api/inventory/wishlist", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var items []core.InventoryItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
}

func TestAddPaint_Validation(t *testing.T) {
	s := newTestServer(t, testConfig())

	missing := deadWhite()
	missing.Name = "  "
	rec := do(s, jsonRequest(http.MethodPost, "/api/paints", missing))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VAL001", errorCode(t, rec))

	tooMany := deadWhite()
	tooMany.Quantity = 100
	rec = do(s, jsonRequest(http.MethodPost, "/api/paints", tooMany))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VAL002", errorCode(t, rec))

	req := httptest.NewRequest(http.MethodPost, "/api/paints", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	rec = do(s, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInventoryFlow(t *testing.T) {
	s := newTestServer(t, testConfig())
	paint := addPaint(t, s, deadWhite())
	ownedID := paint.Result.Entry.ID

	rec := do(s, jsonRequest(http.MethodPost, "/api/inventory", map[string]string{
		"catalogId": paint.Paint.ID, "status": "wishlist",
	}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var wish outcomeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &wish))
	assert.Equal(t, core.StatusWishlist, wish.Entry.Status)

	rec = do(s, httptest.NewRequest(http.MethodGet, "/api/catalog/"+paint.Paint.ID+"/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var status core.PaintStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.True(t, status.InCollection)
	assert.True(t, status.InWishlist)

	// Owned entries cannot be bought.
	rec = do(s, httptest.NewRequest(http.MethodPost, "/api/inventory/"+ownedID+"/bought", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(s, httptest.NewRequest(http.MethodPost, "/api/inventory/"+wish.Entry.ID+"/bought", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var bought outcomeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bought))
	assert.Equal(t, 2, bought.Quantity)

	rec = do(s, httptest.NewRequest(http.MethodPost, "/api/inventory/"+wish.Entry.ID+"/bought", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(s, httptest.NewRequest(http.MethodDelete, "/api/inventory/"+ownedID, nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(s, httptest.NewRequest(http.MethodDelete, "/api/inventory/"+ownedID, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "IMP003", errorCode(t, rec))
}

func TestQuickAdd_UnknownPaint(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := do(s, jsonRequest(http.MethodPost, "/api/inventory", map[string]string{"catalogId": "missing"}))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(s, jsonRequest(http.MethodPost, "/api/inventory", map[string]string{}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListInventory_UnknownStatus(t *testing.T) {
	s := newTestServer(t, testConfig())
	rec := do(s, httptest.NewRequest(http.MethodGet, "/api/inventory/borrowed", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearch(t *testing.T) {
	s := newTestServer(t, testConfig())
	addPaint(t, s, deadWhite())
	other := deadWhite()
	other.ManufacturerCode, other.Name = "72.051", "Black"
	addPaint(t, s, other)

	var found []core.CatalogEntry
	rec := do(s, httptest.NewRequest(http.MethodGet, "/api/catalog?q=game+color", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &found))
	assert.Len(t, found, 2)

	rec = do(s, httptest.NewRequest(http.MethodGet, "/api/catalog/search?q=72.051", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &found))
	require.Len(t, found, 1)
	assert.Equal(t, "Black", found[0].Name)

	rec = do(s, httptest.NewRequest(http.MethodGet, "/api/catalog/search?q=", nil))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &found))
	assert.Empty(t, found)

	req := httptest.NewRequest(http.MethodGet, "/api/catalog?q=dead", nil)
	req.Header.Set("HX-Request", "true")
	rec = do(s, req)
	assert.Contains(t, rec.Body.String(), "Dead White")
	assert.NotContains(t, rec.Body.String(), ">Black<")
}

func TestImport(t *testing.T) {
	s := newTestServer(t, testConfig())

	csv := "brand,range,type,manufacturerCode,name,barcode,collectionQuantity\n" +
		"Vallejo,Game Color,Base,72.001,Dead White,,3\n" +
		"Citadel,Base,Base,21-01,Abaddon Black,,\n"
	rec := do(s, uploadRequest(t, "paints.csv", csv))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var report core.ImportReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, core.ImportReport{PaintsUpserted: 2, CollectionUpdated: 1}, report)

	rec = do(s, httptest.NewRequest(http.MethodGet, "/api/inventory/owned", nil))
	var owned []core.InventoryItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &owned))
	require.Len(t, owned, 1)
	assert.Equal(t, 3, owned[0].Quantity)
}

func TestImport_Errors(t *testing.T) {
	cfg := testConfig()
	cfg.Import.MaxFileSize = 64
	s := newTestServer(t, cfg)

	rec := do(s, uploadRequest(t, "bad.csv", "brand,range,type,name\nVallejo,Game Color,Base,Dead White\n"))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "VAL004", errorCode(t, rec))

	rec = do(s, uploadRequest(t, "big.csv", strings.Repeat("x", 200)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "FILE001", errorCode(t, rec))

	req := httptest.NewRequest(http.MethodPost, "/api/import", strings.NewReader("nothing"))
	req.Header.Set("Content-Type", "text/plain")
	rec = do(s, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "FILE003", errorCode(t, rec))
}

func TestImport_HTMXErrorFragment(t *testing.T) {
	s := newTestServer(t, testConfig())

	req := uploadRequest(t, "bad.csv", "name\nDead White\n")
	req.Header.Set("HX-Request", "true")
	rec := do(s, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), `class="alert alert-error"`)
	assert.Contains(t, rec.Body.String(), "VAL004")
}

func TestSampleCSV(t *testing.T) {
	s := newTestServer(t, testConfig())
	rec := do(s, httptest.NewRequest(http.MethodGet, "/api/import/sample", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), core.SampleCSVFileName)
	assert.Equal(t, core.SampleCSV(), rec.Body.String())

	rec = do(s, uploadRequest(t, core.SampleCSVFileName, core.SampleCSV()))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReset_RequiresAPIKey(t *testing.T) {
	cfg := testConfig()
	cfg.Security = config.SecurityConfig{RequireAPIKey: true, APIKeys: []string{"secret"}}
	s := newTestServer(t, cfg)
	addPaint(t, s, deadWhite())

	rec := do(s, httptest.NewRequest(http.MethodPost, "/api/reset?scope=all", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/reset?scope=bogus", nil)
	req.Header.Set("X-API-Key", "secret")
	rec = do(s, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/reset?scope=all", nil)
	req.Header.Set("X-API-Key", "secret")
	rec = do(s, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"scope":"all","inventoryDeleted":1,"catalogDeleted":1}`, rec.Body.String())
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Rate = config.RateLimitConfig{Enabled: true, RequestsPerMinute: 2, ImportLimit: 1}
	s := newTestServer(t, cfg)

	for range 2 {
		assert.Equal(t, http.StatusOK, do(s, httptest.NewRequest(http.MethodGet, "/healthz", nil)).Code)
	}
	rec := do(s, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.Equal(t, "RATE001", errorCode(t, rec))
}

func TestSecurityHeadersAndHealth(t *testing.T) {
	cfg := testConfig()
	cfg.Security.EnableCSP = true
	s := newTestServer(t, cfg)

	rec := do(s, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("Content-Security-Policy"))
}

func TestImportStatus(t *testing.T) {
	s := newTestServer(t, testConfig())
	rec := do(s, httptest.NewRequest(http.MethodGet, "/api/import/status", nil))
	assert.JSONEq(t, `{"active":0,"available":2}`, rec.Body.String())
}
