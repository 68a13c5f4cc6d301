package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// Ошибки бизнес-логики для обработки в handlers
	ErrCategoryNotFound    = errors.New("category not found")
	ErrSubcategoryNotFound = errors.New("subcategory not found")
	ErrProductNotFound     = errors.New("product not found")
	ErrSectionNotFound     = errors.New("products section not found")
	ErrBannerNotFound      = errors.New("banner not found")
	ErrOrderNotFound       = errors.New("order not found")
	ErrUserNotFound        = errors.New("user not found")

	ErrURLTaken      = errors.New("url already in use")
	ErrInvalidID     = errors.New("invalid id")
	ErrInvalidParent = errors.New("category cannot be its own ancestor")

	ErrImageRequired   = errors.New("at least one image is required")
	ErrTooManyImages   = errors.New("too many images")
	ErrNoImageProvided = errors.New("image file is required")

	ErrTooManySectionProducts = errors.New("section holds too many products")

	ErrInvalidStatusTransition = errors.New("invalid order status transition")

	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrRegistrationClosed = errors.New("registration is closed")
)

// MissingRefsError возникает когда запрос ссылается на несуществующие документы
type MissingRefsError struct {
	Kind string   // categories, subcategories, products
	IDs  []string // отсутствующие id
}

func (e *MissingRefsError) Error() string {
	return fmt.Sprintf("unknown %s: %s", e.Kind, strings.Join(e.IDs, ", "))
}

// OrphanedProductsError удаление категории оставило бы товары без категорий
// Операция отклоняется целиком, вызывающий должен перенести товары
type OrphanedProductsError struct {
	ProductIDs []string
}

func (e *OrphanedProductsError) Error() string {
	return fmt.Sprintf("deletion would orphan %d product(s)", len(e.ProductIDs))
}
