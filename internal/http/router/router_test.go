package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/HaBsawy/creiden-task/internal/db"
	"github.com/HaBsawy/creiden-task/internal/http/response"
	"github.com/HaBsawy/creiden-task/internal/models"
	"github.com/HaBsawy/creiden-task/internal/security"
	"github.com/HaBsawy/creiden-task/internal/service"
)

type envelope struct {
	Msg        string          `json:"msg"`
	IsSuccess  bool            `json:"isSuccess"`
	StatusCode int             `json:"statusCode"`
	Payload    json.RawMessage `json:"payload"`
}

type api struct {
	t       *testing.T
	handler http.Handler
}

func newAPI(t *testing.T) *api {
	t.Helper()
	store, err := db.Init(db.DriverSQLite, filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	tokens := security.NewTokenIssuer(store, 0)
	handler := Setup(Deps{
		Logger:   zerolog.Nop(),
		DB:       store,
		Tokens:   tokens,
		Admins:   service.NewAuthService(models.RealmAdmin, store, tokens, bcrypt.MinCost),
		UserAuth: service.NewAuthService(models.RealmUser, store, tokens, bcrypt.MinCost),
		Users:    service.NewUserService(store, bcrypt.MinCost),
		Storages: service.NewStorageService(store),
		Items:    service.NewItemService(store),
	})
	return &api{t: t, handler: handler}
}

func (a *api) do(method, path, token, body string) envelope {
	a.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)

	var env envelope
	require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	require.Equal(a.t, rec.Code, env.StatusCode)
	return env
}

func (a *api) register(realm, email string) string {
	a.t.Helper()
	env := a.do(http.MethodPost, "/api/"+realm+"s/auth/register", "",
		fmt.Sprintf(`{"name":"Eslam","email":%q,"password":"password","password_confirmation":"password"}`, email))
	require.Equal(a.t, http.StatusCreated, env.StatusCode, env.Msg)

	var creds models.Credentials
	require.NoError(a.t, json.Unmarshal(env.Payload, &creds))
	return creds.Token
}

func (a *api) createID(path, token, body string) int64 {
	a.t.Helper()
	env := a.do(http.MethodPost, path, token, body)
	require.Equal(a.t, http.StatusCreated, env.StatusCode, env.Msg)

	var created struct {
		ID int64 `json:"id"`
	}
	require.NoError(a.t, json.Unmarshal(env.Payload, &created))
	return created.ID
}

type route struct {
	method, path string
	access       string
}

var protectedRoutes = []route{
	{http.MethodPost, "/api/admins/auth/logout", "admin"},
	{http.MethodPost, "/api/users/auth/logout", "user"},
	{http.MethodPost, "/api/users/items", "user"},
	{http.MethodGet, "/api/users", "admin"},
	{http.MethodPost, "/api/users", "admin"},
	{http.MethodGet, "/api/users/1", "admin"},
	{http.MethodPut, "/api/users/1", "admin"},
	{http.MethodDelete, "/api/users/1", "admin"},
	{http.MethodGet, "/api/storages", "admin"},
	{http.MethodPost, "/api/storages", "admin"},
	{http.MethodGet, "/api/storages/1", "admin"},
	{http.MethodPut, "/api/storages/1", "admin"},
	{http.MethodDelete, "/api/storages/1", "admin"},
	{http.MethodGet, "/api/items", "admin"},
	{http.MethodPost, "/api/items", "admin"},
	{http.MethodGet, "/api/items/1", "admin"},
	{http.MethodPut, "/api/items/1", "admin"},
	{http.MethodDelete, "/api/items/1", "admin"},
}

func TestEveryRouteHasPolicy(t *testing.T) {
	assert.Len(t, Policy, len(protectedRoutes)+5)
}

func TestUnauthenticatedRequestsAreRejected(t *testing.T) {
	a := newAPI(t)
	for _, rt := range protectedRoutes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			for _, token := range []string{"", "garbage", "1|" + strings.Repeat("x", 40)} {
				env := a.do(rt.method, rt.path, token, `{}`)
				assert.Equal(t, http.StatusUnauthorized, env.StatusCode)
				assert.Equal(t, response.MsgNotAuthenticated, env.Msg)
				assert.False(t, env.IsSuccess)
				assert.Equal(t, "null", string(env.Payload))
			}
		})
	}
}

func TestCrossRealmTokensAreRejected(t *testing.T) {
	a := newAPI(t)
	tokens := map[string]string{
		"admin": a.register("admin", "admin@eslam.com"),
		"user":  a.register("user", "user@eslam.com"),
	}

	for _, rt := range protectedRoutes {
		other := "admin"
		if rt.access == "admin" {
			other = "user"
		}
		t.Run(rt.method+" "+rt.path+" with "+other+" token", func(t *testing.T) {
			env := a.do(rt.method, rt.path, tokens[other], `{}`)
			assert.Equal(t, http.StatusUnauthorized, env.StatusCode)
			assert.Equal(t, response.MsgNotAuthenticated, env.Msg)
		})
	}
}

func TestRegister(t *testing.T) {
	a := newAPI(t)

	env := a.do(http.MethodPost, "/api/users/auth/register", "",
		`{"name":"Eslam","email":"eslam@eslam.com","password":"password","password_confirmation":"password"}`)
	assert.Equal(t, http.StatusCreated, env.StatusCode)
	assert.True(t, env.IsSuccess)
	assert.Equal(t, "The user registered successfully", env.Msg)

	var creds map[string]string
	require.NoError(t, json.Unmarshal(env.Payload, &creds))
	assert.Equal(t, "Eslam", creds["name"])
	assert.Equal(t, "eslam@eslam.com", creds["email"])
	assert.NotEmpty(t, creds["token"])
	assert.Len(t, creds, 3)

	env = a.do(http.MethodPost, "/api/users/auth/register", "",
		`{"name":"Eslam","email":"eslam@eslam.com","password":"password","password_confirmation":"password"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, env.StatusCode)
	assert.Equal(t, "The email has already been taken.", env.Msg)
	assert.False(t, env.IsSuccess)

	env = a.do(http.MethodPost, "/api/admins/auth/register", "", `not json`)
	assert.Equal(t, http.StatusUnprocessableEntity, env.StatusCode)
	assert.Equal(t, "The name field is required.", env.Msg)
}

func TestLoginAndLogout(t *testing.T) {
	a := newAPI(t)
	first := a.register("admin", "admin@eslam.com")

	env := a.do(http.MethodPost, "/api/admins/auth/login", "", `{"email":"admin@eslam.com","password":"password"}`)
	require.Equal(t, http.StatusAccepted, env.StatusCode)
	assert.Equal(t, "Login Successfully", env.Msg)
	var creds models.Credentials
	require.NoError(t, json.Unmarshal(env.Payload, &creds))
	second := creds.Token

	env = a.do(http.MethodPost, "/api/admins/auth/login", "", `{"email":"admin@eslam.com","password":"wrong-password"}`)
	assert.Equal(t, http.StatusUnauthorized, env.StatusCode)

	env = a.do(http.MethodPost, "/api/users/auth/login", "", `{"email":"admin@eslam.com","password":"password"}`)
	assert.Equal(t, http.StatusUnauthorized, env.StatusCode)

	env = a.do(http.MethodPost, "/api/admins/auth/logout", first, "")
	assert.Equal(t, http.StatusAccepted, env.StatusCode)
	assert.Equal(t, "Logout Successfully", env.Msg)
	assert.Equal(t, "null", string(env.Payload))

	env = a.do(http.MethodGet, "/api/users", first, "")
	assert.Equal(t, http.StatusUnauthorized, env.StatusCode)
	env = a.do(http.MethodPost, "/api/admins/auth/logout", first, "")
	assert.Equal(t, http.StatusUnauthorized, env.StatusCode)

	env = a.do(http.MethodGet, "/api/users", second, "")
	assert.Equal(t, http.StatusOK, env.StatusCode)
}

func TestPasswordMustBeString(t *testing.T) {
	a := newAPI(t)

	env := a.do(http.MethodPost, "/api/users/auth/register", "",
		`{"name":"Eslam","email":"num@eslam.com","password":12345678,"password_confirmation":12345678}`)
	assert.Equal(t, http.StatusUnprocessableEntity, env.StatusCode)
	assert.Equal(t, "The password must be a string.", env.Msg)

	a.register("user", "eslam@eslam.com")
	for _, password := range []string{`true`, `12345678`, `["password"]`} {
		env = a.do(http.MethodPost, "/api/users/auth/login", "",
			fmt.Sprintf(`{"email":"eslam@eslam.com","password":%s}`, password))
		assert.Equal(t, http.StatusUnprocessableEntity, env.StatusCode, password)
		assert.Equal(t, "The password must be a string.", env.Msg, password)
	}

	admin := a.register("admin", "admin@eslam.com")
	userID := a.createID("/api/users", admin, `{"name":"Owner","email":"owner@eslam.com","password":"password"}`)
	env = a.do(http.MethodPut, fmt.Sprintf("/api/users/%d", userID), admin,
		`{"name":"Owner","email":"owner@eslam.com","password":12345678}`)
	assert.Equal(t, http.StatusUnprocessableEntity, env.StatusCode)
	assert.Equal(t, "The password must be a string.", env.Msg)

	env = a.do(http.MethodPost, "/api/users/auth/login", "", `{"email":"owner@eslam.com","password":"password"}`)
	assert.Equal(t, http.StatusAccepted, env.StatusCode)
}

func TestEmailIgnoresCase(t *testing.T) {
	a := newAPI(t)

	env := a.do(http.MethodPost, "/api/users/auth/register", "",
		`{"name":"Eslam","email":"Eslam@Eslam.com","password":"password","password_confirmation":"password"}`)
	require.Equal(t, http.StatusCreated, env.StatusCode, env.Msg)
	var creds models.Credentials
	require.NoError(t, json.Unmarshal(env.Payload, &creds))
	assert.Equal(t, "eslam@eslam.com", creds.Email)

	env = a.do(http.MethodPost, "/api/users/auth/register", "",
		`{"name":"Eslam","email":"ESLAM@eslam.com","password":"password","password_confirmation":"password"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, env.StatusCode)
	assert.Equal(t, "The email has already been taken.", env.Msg)

	env = a.do(http.MethodPost, "/api/users/auth/login", "", `{"email":"eslam@ESLAM.COM","password":"password"}`)
	assert.Equal(t, http.StatusAccepted, env.StatusCode)
}

func TestStorageUniqueness(t *testing.T) {
	a := newAPI(t)
	admin := a.register("admin", "admin@eslam.com")
	userID := a.createID("/api/users", admin, `{"name":"Owner","email":"owner@eslam.com","password":"password"}`)
	storageID := a.createID("/api/storages", admin, fmt.Sprintf(`{"user_id":%d}`, userID))

	env := a.do(http.MethodPost, "/api/storages", admin, fmt.Sprintf(`{"user_id":%d}`, userID))
	assert.Equal(t, http.StatusUnprocessableEntity, env.StatusCode)
	assert.Equal(t, "The user id has already been taken.", env.Msg)

	env = a.do(http.MethodPut, fmt.Sprintf("/api/storages/%d", storageID), admin, fmt.Sprintf(`{"user_id":%d}`, userID))
	assert.Equal(t, http.StatusAccepted, env.StatusCode)
	assert.Equal(t, "The storage updated successfully", env.Msg)
}

func TestUserItemBindsToOwnStorage(t *testing.T) {
	a := newAPI(t)
	admin := a.register("admin", "admin@eslam.com")
	userToken := a.register("user", "alice@eslam.com")

	env := a.do(http.MethodPost, "/api/users/items", userToken, `{"name":"Laptop","description":"A laptop"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, env.StatusCode)
	assert.Equal(t, "The user does not have a storage.", env.Msg)

	// alice registered first, so she is user 1.
	aliceStorage := a.createID("/api/storages", admin, `{"user_id":1}`)
	bobID := a.createID("/api/users", admin, `{"name":"Bob","email":"bob@eslam.com","password":"password"}`)
	bobStorage := a.createID("/api/storages", admin, fmt.Sprintf(`{"user_id":%d}`, bobID))

	env = a.do(http.MethodPost, "/api/users/items", userToken,
		fmt.Sprintf(`{"storage_id":%d,"name":"Laptop","description":"A laptop"}`, bobStorage))
	require.Equal(t, http.StatusCreated, env.StatusCode, env.Msg)
	assert.Equal(t, "The item created successfully", env.Msg)

	var item models.Item
	require.NoError(t, json.Unmarshal(env.Payload, &item))
	assert.Equal(t, aliceStorage, item.StorageID)
}

func TestMissingItem(t *testing.T) {
	a := newAPI(t)
	admin := a.register("admin", "admin@eslam.com")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/items/1000", nil)
	req.Header.Set("Authorization", "Bearer "+admin)
	a.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"msg":"Not Found","isSuccess":false,"statusCode":404,"payload":null}`, rec.Body.String())

	for _, path := range []string{"/api/items/abc", "/api/items/-1"} {
		env := a.do(http.MethodGet, path, admin, "")
		assert.Equal(t, http.StatusNotFound, env.StatusCode, path)
	}

	// Binding happens before validation.
	env := a.do(http.MethodPut, "/api/items/1000", admin, `{}`)
	assert.Equal(t, http.StatusNotFound, env.StatusCode)
	env = a.do(http.MethodDelete, "/api/items/1000", admin, "")
	assert.Equal(t, http.StatusNotFound, env.StatusCode)
}

func TestUnknownRoutes(t *testing.T) {
	a := newAPI(t)
	for _, path := range []string{"/api/nope", "/nope"} {
		env := a.do(http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusNotFound, env.StatusCode, path)
		assert.Equal(t, response.MsgNotFound, env.Msg)
	}
}

func TestAdminCRUDAndPagination(t *testing.T) {
	a := newAPI(t)
	admin := a.register("admin", "admin@eslam.com")
	for i := 0; i < 3; i++ {
		a.createID("/api/users", admin, fmt.Sprintf(`{"name":"User %d","email":"u%d@eslam.com","password":"password"}`, i, i))
	}

	env := a.do(http.MethodGet, "/api/users?page=2&per_page=2", admin, "")
	require.Equal(t, http.StatusOK, env.StatusCode)
	assert.Equal(t, "", env.Msg)

	var page models.Page[models.User]
	require.NoError(t, json.Unmarshal(env.Payload, &page))
	assert.Equal(t, 2, page.CurrentPage)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 2, page.LastPage)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "http://example.com/api/users", page.Path)
	assert.Nil(t, page.NextPageURL)
	require.NotNil(t, page.PrevPageURL)
	assert.Equal(t, "http://example.com/api/users?page=1&per_page=2", *page.PrevPageURL)

	id := page.Data[0].ID
	path := fmt.Sprintf("/api/users/%d", id)

	env = a.do(http.MethodPut, path, admin, `{"name":"Renamed","email":"u2@eslam.com","password":"password"}`)
	assert.Equal(t, http.StatusAccepted, env.StatusCode)
	assert.Equal(t, "The user updated successfully", env.Msg)

	env = a.do(http.MethodGet, path, admin, "")
	assert.Equal(t, http.StatusOK, env.StatusCode)
	assert.Contains(t, string(env.Payload), `"name":"Renamed"`)
	assert.NotContains(t, string(env.Payload), "password")

	env = a.do(http.MethodDelete, path, admin, "")
	assert.Equal(t, http.StatusAccepted, env.StatusCode)
	assert.Equal(t, "The user deleted successfully", env.Msg)

	env = a.do(http.MethodDelete, path, admin, "")
	assert.Equal(t, http.StatusNotFound, env.StatusCode)
}

func TestHealth(t *testing.T) {
	a := newAPI(t)

	env := a.do(http.MethodGet, "/api/health", "", "")
	assert.Equal(t, http.StatusOK, env.StatusCode)
	assert.JSONEq(t, `{"database":"up"}`, string(env.Payload))
}
