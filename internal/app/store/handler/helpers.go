package handler

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"elpro/internal/app/store/entity"
	"elpro/internal/app/store/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100

	// Лимит размера одного файла изображения
	maxImageSize = 10 << 20
)

var slugRegexp = entity.SlugPattern

// newValidator собирает валидатор с доменными правилами
func newValidator() *validator.Validate {
	v := validator.New()
	// url категорий и подкатегорий: только строчные латинские буквы и дефис
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugRegexp.MatchString(fl.Field().String())
	})
	return v
}

// bindRequest читает тело запроса в dst
// multipart/form-data несет JSON в поле "data" рядом с файлами,
// обычные запросы приходят как application/json
func bindRequest(c *gin.Context, dst interface{}) error {
	contentType := c.ContentType()
	if strings.HasPrefix(contentType, "multipart/form-data") {
		raw := c.PostForm("data")
		if raw == "" {
			return errors.New("data field is required")
		}
		return json.Unmarshal([]byte(raw), dst)
	}
	return c.ShouldBindJSON(dst)
}

// formFileBytes читает один файл из multipart-формы; nil если файла нет
func formFileBytes(c *gin.Context, field string) ([]byte, error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		return nil, nil
	}
	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}
	return readFileHeader(header)
}

// formFilesBytes читает все файлы поля из multipart-формы
func formFilesBytes(c *gin.Context, field string) ([][]byte, error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		return nil, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}

	headers := form.File[field]
	files := make([][]byte, 0, len(headers))
	for _, header := range headers {
		data, err := readFileHeader(header)
		if err != nil {
			return nil, err
		}
		files = append(files, data)
	}
	return files, nil
}

func readFileHeader(header *multipart.FileHeader) ([]byte, error) {
	if header.Size > maxImageSize {
		return nil, errors.New("file is too large")
	}
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(io.LimitReader(file, maxImageSize))
}

// parsePagination читает query-параметры page/limit с дефолтами
func parsePagination(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageLimit)))
	if err != nil || limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

func pageMeta(page, limit int, total int64) entity.PageMeta {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return entity.PageMeta{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// respondServiceError переводит ошибки бизнес-логики в HTTP-статусы
func respondServiceError(c *gin.Context, err error) {
	var missingRefs *service.MissingRefsError
	if errors.As(err, &missingRefs) {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{
			Error:      "unknown references",
			Message:    missingRefs.Error(),
			MissingIDs: missingRefs.IDs,
		})
		return
	}

	var orphaned *service.OrphanedProductsError
	if errors.As(err, &orphaned) {
		c.JSON(http.StatusConflict, entity.ErrorResponse{
			Error:      "products would be orphaned",
			Message:    orphaned.Error(),
			MissingIDs: orphaned.ProductIDs,
		})
		return
	}

	switch {
	case errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, service.ErrSubcategoryNotFound),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrSectionNotFound),
		errors.Is(err, service.ErrBannerNotFound),
		errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, entity.ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrURLTaken),
		errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrInvalidStatusTransition):
		c.JSON(http.StatusConflict, entity.ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrInvalidID),
		errors.Is(err, service.ErrInvalidParent),
		errors.Is(err, service.ErrImageRequired),
		errors.Is(err, service.ErrTooManyImages),
		errors.Is(err, service.ErrNoImageProvided),
		errors.Is(err, service.ErrTooManySectionProducts):
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, entity.ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrRegistrationClosed):
		c.JSON(http.StatusForbidden, entity.ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, entity.ErrorResponse{Error: "internal server error"})
	}
}

func formatValidationError(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			return fieldError.Field() + " is " + fieldError.Tag()
		}
	}
	return "Validation failed"
}
