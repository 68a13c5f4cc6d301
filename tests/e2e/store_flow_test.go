//go:build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"testing"
	"time"

	"elpro/internal/app/store/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	// BaseURL - адрес запущенного сервиса
	// Для E2E тестов нужен чистый стенд через docker-compose
	BaseURL = "http://localhost:8080"

	adminUsername = "e2e-admin"
	adminPassword = "e2e-password-long"
)

var client = &http.Client{Timeout: 10 * time.Second}

// slugSuffix дает уникальный суффикс из букв: url допускает только [a-z-]
func slugSuffix() string {
	nano := time.Now().UnixNano()
	buf := make([]byte, 0, 20)
	for nano > 0 {
		buf = append(buf, byte('a'+nano%10))
		nano /= 10
	}
	return string(buf)
}

// adminToken регистрирует первого админа (или логинится, если стенд уже
// инициализирован) и возвращает JWT
func adminToken(t *testing.T) string {
	t.Helper()

	regBody, _ := json.Marshal(entity.RegisterRequest{Username: adminUsername, Password: adminPassword})
	resp, err := client.Post(BaseURL+"/auth/register", "application/json", bytes.NewBuffer(regBody))
	require.NoError(t, err)
	resp.Body.Close()

	loginBody, _ := json.Marshal(entity.LoginRequest{Username: adminUsername, Password: adminPassword})
	resp, err = client.Post(BaseURL+"/auth/login", "application/json", bytes.NewBuffer(loginBody))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode, "Admin login should succeed")

	var login entity.LoginResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&login))
	require.NotEmpty(t, login.Token)
	return login.Token
}

// doJSON выполняет запрос с JSON телом и Bearer токеном
func doJSON(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, BaseURL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeInto(t *testing.T, resp *http.Response, dst interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
}

// pngBytes рисует маленький PNG для загрузки изображений товара
func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 16), G: uint8(y * 16), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// doMultipart выполняет запрос multipart/form-data: JSON в поле data,
// изображения в поле images
func doMultipart(t *testing.T, method, path, token string, data interface{}, images [][]byte) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	raw, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, writer.WriteField("data", string(raw)))

	for i, img := range images {
		part, err := writer.CreateFormFile("images", fmt.Sprintf("image-%d.png", i))
		require.NoError(t, err)
		_, err = part.Write(img)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(method, BaseURL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	require.NoError(t, err)
	return resp
}

func createCategory(t *testing.T, token, namePrefix string, parent string) entity.Category {
	t.Helper()

	position := 1
	req := entity.CreateCategoryRequest{
		Name:     entity.LocalizedInput{Ru: namePrefix},
		URL:      namePrefix + "-" + slugSuffix(),
		Parent:   parent,
		Position: &position,
	}
	resp := doJSON(t, http.MethodPost, "/admin/categories", token, req)
	require.Equal(t, http.StatusCreated, resp.StatusCode, "Category creation should succeed")

	var category entity.Category
	decodeInto(t, resp, &category)
	return category
}

func getCategory(t *testing.T, token, id string) entity.Category {
	t.Helper()

	resp := doJSON(t, http.MethodGet, "/admin/categories/"+id, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var category entity.Category
	decodeInto(t, resp, &category)
	return category
}

func deleteCategory(t *testing.T, token, id string) {
	t.Helper()
	resp := doJSON(t, http.MethodDelete, "/admin/categories/"+id, token, nil)
	resp.Body.Close()
}

// TestHealthCheck проверяет что сервис отвечает
func TestHealthCheck(t *testing.T) {
	resp, err := client.Get(BaseURL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// TestAdminRoutesRequireToken проверяет что админка закрыта без JWT
func TestAdminRoutesRequireToken(t *testing.T) {
	resp := doJSON(t, http.MethodGet, "/admin/categories", "", nil)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// TestCategorySubcategoryLinkFlow проверяет обе половины связи
// категория-подкатегория: создание, перенос к другому владельцу, удаление
func TestCategorySubcategoryLinkFlow(t *testing.T) {
	token := adminToken(t)

	first := createCategory(t, token, "linkflow-first", "")
	second := createCategory(t, token, "linkflow-second", "")
	defer deleteCategory(t, token, first.ID.Hex())
	defer deleteCategory(t, token, second.ID.Hex())

	// ==================== Step 1: Create Subcategory ====================
	t.Log("Step 1: Creating subcategory under the first category")

	subReq := entity.CreateSubcategoryRequest{
		Name:     entity.LocalizedInput{Ru: "Чехлы"},
		URL:      "linkflow-sub-" + slugSuffix(),
		Category: first.ID.Hex(),
	}
	resp := doJSON(t, http.MethodPost, "/admin/subcategories", token, subReq)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var sub entity.Subcategory
	decodeInto(t, resp, &sub)
	assert.Equal(t, first.ID, sub.Category)

	firstReloaded := getCategory(t, token, first.ID.Hex())
	assert.Contains(t, firstReloaded.Subcategories, sub.ID, "Category should list its subcategory")

	// ==================== Step 2: Move Subcategory ====================
	t.Log("Step 2: Moving subcategory to the second category")

	moveReq := entity.UpdateSubcategoryRequest{Category: second.ID.Hex()}
	resp = doJSON(t, http.MethodPatch, "/admin/subcategories/"+sub.ID.Hex(), token, moveReq)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Перечитываем из хранилища: владелец в самой подкатегории
	// и списки обеих категорий должны согласоваться
	resp = doJSON(t, http.MethodGet, "/admin/subcategories/"+sub.ID.Hex(), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var moved entity.Subcategory
	decodeInto(t, resp, &moved)
	assert.Equal(t, second.ID, moved.Category, "Subcategory owner should be persisted")

	firstReloaded = getCategory(t, token, first.ID.Hex())
	secondReloaded := getCategory(t, token, second.ID.Hex())
	assert.NotContains(t, firstReloaded.Subcategories, sub.ID, "Old owner should not list the subcategory")
	assert.Contains(t, secondReloaded.Subcategories, sub.ID, "New owner should list the subcategory")

	// ==================== Step 3: Delete Subcategory ====================
	t.Log("Step 3: Deleting subcategory")

	resp = doJSON(t, http.MethodDelete, "/admin/subcategories/"+sub.ID.Hex(), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	secondReloaded = getCategory(t, token, second.ID.Hex())
	assert.NotContains(t, secondReloaded.Subcategories, sub.ID, "Owner should be unlinked after delete")
}

// TestCategoryReparentFlow проверяет что перенос категории под нового
// родителя сохраняется с обеих сторон связи
func TestCategoryReparentFlow(t *testing.T) {
	token := adminToken(t)

	oldParent := createCategory(t, token, "reparent-old", "")
	newParent := createCategory(t, token, "reparent-new", "")
	child := createCategory(t, token, "reparent-child", oldParent.ID.Hex())
	defer deleteCategory(t, token, oldParent.ID.Hex())
	defer deleteCategory(t, token, newParent.ID.Hex())

	require.NotNil(t, child.Parent)
	require.Equal(t, oldParent.ID, *child.Parent)

	// ==================== Step 1: Reparent ====================
	t.Log("Step 1: Moving child under the new parent")

	newParentHex := newParent.ID.Hex()
	resp := doJSON(t, http.MethodPatch, "/admin/categories/"+child.ID.Hex(), token,
		entity.UpdateCategoryRequest{Parent: &newParentHex})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	reloaded := getCategory(t, token, child.ID.Hex())
	require.NotNil(t, reloaded.Parent, "Parent pointer should survive the move")
	assert.Equal(t, newParent.ID, *reloaded.Parent)

	oldReloaded := getCategory(t, token, oldParent.ID.Hex())
	newReloaded := getCategory(t, token, newParent.ID.Hex())
	assert.NotContains(t, oldReloaded.Children, child.ID)
	assert.Contains(t, newReloaded.Children, child.ID)

	// ==================== Step 2: Detach to Root ====================
	t.Log("Step 2: Detaching child to root")

	empty := ""
	resp = doJSON(t, http.MethodPatch, "/admin/categories/"+child.ID.Hex(), token,
		entity.UpdateCategoryRequest{Parent: &empty})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	reloaded = getCategory(t, token, child.ID.Hex())
	assert.Nil(t, reloaded.Parent, "Detached category should have no parent in the store")

	newReloaded = getCategory(t, token, newParent.ID.Hex())
	assert.NotContains(t, newReloaded.Children, child.ID)

	deleteCategory(t, token, child.ID.Hex())
}

// TestProductMembershipMoveFlow проверяет перенос товара между
// категориями: принадлежность A,B -> B,C с согласованием обратных ссылок
func TestProductMembershipMoveFlow(t *testing.T) {
	token := adminToken(t)

	catA := createCategory(t, token, "membership-a", "")
	catB := createCategory(t, token, "membership-b", "")
	catC := createCategory(t, token, "membership-c", "")

	// ==================== Step 1: Create Product in A,B ====================
	t.Log("Step 1: Creating product in categories A and B")

	price := 99.99
	createReq := entity.CreateProductRequest{
		Name:             entity.LocalizedInput{Ru: fmt.Sprintf("Товар %d", time.Now().UnixNano())},
		Price:            &price,
		Stock:            5,
		ShortDescription: entity.LocalizedInput{Ru: "Короткое описание"},
		FullDescription:  entity.LocalizedInput{Ru: "Полное описание"},
		Categories:       []string{catA.ID.Hex(), catB.ID.Hex()},
	}
	resp := doMultipart(t, http.MethodPost, "/admin/products", token, createReq, [][]byte{pngBytes(t)})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "Product creation should succeed")

	var product entity.Product
	decodeInto(t, resp, &product)

	assert.Contains(t, getCategory(t, token, catA.ID.Hex()).Products, product.ID)
	assert.Contains(t, getCategory(t, token, catB.ID.Hex()).Products, product.ID)

	// ==================== Step 2: Move Product to B,C ====================
	t.Log("Step 2: Moving product membership to categories B and C")

	updateReq := entity.UpdateProductRequest{
		Categories: []string{catB.ID.Hex(), catC.ID.Hex()},
	}
	resp = doJSON(t, http.MethodPatch, "/admin/products/"+product.ID.Hex(), token, updateReq)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated entity.Product
	decodeInto(t, resp, &updated)
	assert.Len(t, updated.Categories, 2)

	assert.NotContains(t, getCategory(t, token, catA.ID.Hex()).Products, product.ID,
		"Removed category should not list the product")
	assert.Contains(t, getCategory(t, token, catB.ID.Hex()).Products, product.ID,
		"Kept category should still list the product")
	assert.Contains(t, getCategory(t, token, catC.ID.Hex()).Products, product.ID,
		"Added category should list the product")

	// ==================== Step 3: Delete Product ====================
	t.Log("Step 3: Deleting product")

	resp = doJSON(t, http.MethodDelete, "/admin/products/"+product.ID.Hex(), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	assert.NotContains(t, getCategory(t, token, catB.ID.Hex()).Products, product.ID)
	assert.NotContains(t, getCategory(t, token, catC.ID.Hex()).Products, product.ID)

	deleteCategory(t, token, catA.ID.Hex())
	deleteCategory(t, token, catB.ID.Hex())
	deleteCategory(t, token, catC.ID.Hex())
}
